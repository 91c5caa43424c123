package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/MatsuStefanie/cursomc/internal/auth"
	"github.com/MatsuStefanie/cursomc/internal/domain"
	"github.com/MatsuStefanie/cursomc/internal/picture"
)

type ClientUC struct {
	UoW           domain.UnitOfWork
	Clients       domain.ClientRepo
	Storage       domain.FileStorage
	ProfilePrefix string
	ProfileSize   int
}

// NewClient is the public sign-up form: the client, its first address and up
// to three phones.
type NewClient struct {
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	TaxID    string            `json:"taxId"`
	Type     domain.ClientType `json:"type"`
	Password string            `json:"password"`

	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	ZipCode    string `json:"zipCode"`
	CityID     uint   `json:"cityId"`

	Phone1 string `json:"phone1"`
	Phone2 string `json:"phone2"`
	Phone3 string `json:"phone3"`
}

type ClientUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (uc *ClientUC) Find(ctx context.Context, actor *auth.Principal, id uint) (*domain.Client, error) {
	if err := auth.Authorize(actor, domain.RoleAdmin, id); err != nil {
		return nil, err
	}
	c, err := uc.Clients.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("client %d: %w", id, err)
	}
	return c, nil
}

func (uc *ClientUC) FindByEmail(ctx context.Context, actor *auth.Principal, email string) (*domain.Client, error) {
	if err := auth.AuthorizeEmail(actor, domain.RoleAdmin, email); err != nil {
		return nil, err
	}
	c, err := uc.Clients.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("client %s: %w", email, err)
	}
	return c, nil
}

func (uc *ClientUC) FindAll(ctx context.Context, actor *auth.Principal) ([]domain.Client, error) {
	if err := auth.Authorize(actor, domain.RoleAdmin, 0); err != nil {
		return nil, err
	}
	return uc.Clients.FindAll(ctx)
}

func (uc *ClientUC) FindPage(ctx context.Context, actor *auth.Principal, pr domain.PageRequest) (domain.Page[domain.Client], error) {
	if err := auth.Authorize(actor, domain.RoleAdmin, 0); err != nil {
		return domain.Page[domain.Client]{}, err
	}
	return uc.Clients.FindPage(ctx, withDefaults(pr, "name", domain.SortAsc))
}

// Insert signs a new client up. The client and its first address are stored
// in one transaction.
func (uc *ClientUC) Insert(ctx context.Context, in NewClient) (*domain.Client, error) {
	if err := validateNewClient(in); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	c := &domain.Client{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		TaxID:        strings.TrimSpace(in.TaxID),
		Type:         in.Type,
		PasswordHash: hash,
	}
	c.AddRole(domain.RoleClient)
	for _, p := range []string{in.Phone1, in.Phone2, in.Phone3} {
		if p = strings.TrimSpace(p); p != "" {
			c.Phones = append(c.Phones, p)
		}
	}

	err = uc.UoW.Do(ctx, func(r domain.Repositories) error {
		_, err := r.Clients().FindByEmail(ctx, c.Email)
		switch {
		case err == nil:
			return fmt.Errorf("%w: email already exists", domain.ErrValidation)
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		city, err := r.Cities().FindByID(ctx, in.CityID)
		if err != nil {
			return fmt.Errorf("city %d: %w", in.CityID, err)
		}
		if err := r.Clients().Save(ctx, c); err != nil {
			return fmt.Errorf("save client: %w", err)
		}
		addr := domain.Address{
			Street:     strings.TrimSpace(in.Street),
			Number:     strings.TrimSpace(in.Number),
			Complement: strings.TrimSpace(in.Complement),
			District:   strings.TrimSpace(in.District),
			ZipCode:    strings.TrimSpace(in.ZipCode),
			ClientID:   c.ID,
			CityID:     city.ID,
		}
		if err := r.Addresses().Save(ctx, &addr); err != nil {
			return fmt.Errorf("save address: %w", err)
		}
		addr.City = city
		c.Addresses = []domain.Address{addr}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *ClientUC) Update(ctx context.Context, actor *auth.Principal, id uint, in ClientUpdate) (*domain.Client, error) {
	if err := validateNameEmail(in.Name, in.Email); err != nil {
		return nil, err
	}
	c, err := uc.Find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := uc.Clients.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a client and its addresses. Clients that already ordered are
// kept for the order history.
func (uc *ClientUC) Delete(ctx context.Context, actor *auth.Principal, id uint) error {
	if err := auth.Authorize(actor, domain.RoleAdmin, 0); err != nil {
		return err
	}
	err := uc.Clients.DeleteByID(ctx, id)
	if errors.Is(err, domain.ErrDataIntegrity) {
		return fmt.Errorf("%w: a client with orders cannot be deleted", domain.ErrDataIntegrity)
	}
	if err != nil {
		return fmt.Errorf("client %d: %w", id, err)
	}
	return nil
}

// UploadProfilePicture turns raw into the actor's square JPEG avatar and
// returns where it was stored.
func (uc *ClientUC) UploadProfilePicture(ctx context.Context, actor *auth.Principal, raw []byte, filename string) (string, error) {
	if actor == nil {
		return "", domain.ErrForbidden
	}
	res, err := picture.Prepare(raw, filepath.Ext(filename), uc.ProfileSize)
	if err != nil {
		return "", err
	}
	uri, err := uc.Storage.Upload(ctx, res.Bytes, picture.ProfileKey(uc.ProfilePrefix, actor.ID), res.ContentType)
	if err != nil {
		return "", fmt.Errorf("upload profile picture: %w", err)
	}
	return uri, nil
}

func validateNewClient(in NewClient) error {
	if err := validateNameEmail(in.Name, in.Email); err != nil {
		return err
	}
	switch {
	case !in.Type.Valid():
		return fmt.Errorf("%w: unknown client type %d", domain.ErrValidation, in.Type)
	case !domain.ValidTaxID(in.Type, in.TaxID):
		if in.Type == domain.ClientBusiness {
			return fmt.Errorf("%w: invalid CNPJ", domain.ErrValidation)
		}
		return fmt.Errorf("%w: invalid CPF", domain.ErrValidation)
	case in.Password == "":
		return fmt.Errorf("%w: password is required", domain.ErrValidation)
	case strings.TrimSpace(in.Street) == "", strings.TrimSpace(in.Number) == "", strings.TrimSpace(in.ZipCode) == "":
		return fmt.Errorf("%w: street, number and zip code are required", domain.ErrValidation)
	case in.CityID == 0:
		return fmt.Errorf("%w: city is required", domain.ErrValidation)
	case strings.TrimSpace(in.Phone1) == "":
		return fmt.Errorf("%w: phone is required", domain.ErrValidation)
	}
	return nil
}

func validateNameEmail(name, email string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(name)); n < 5 || n > 120 {
		return fmt.Errorf("%w: name must have between 5 and 120 characters", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	return nil
}
