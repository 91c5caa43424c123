package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MatsuStefanie/cursomc/internal/auth"
	"github.com/MatsuStefanie/cursomc/internal/domain"
	"github.com/MatsuStefanie/cursomc/internal/metrics"
)

const newPasswordLength = 10

type Token struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type AuthUC struct {
	Clients domain.ClientRepo
	Tokens  *auth.TokenIssuer
	Mailer  domain.Mailer
	Metrics *metrics.Metrics
}

// Login checks email and password and issues an access token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (uc *AuthUC) Login(ctx context.Context, email, password string) (*Token, error) {
	c, err := uc.Clients.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(c.PasswordHash, password) {
		return nil, domain.ErrUnauthorized
	}
	return uc.issue(auth.PrincipalOf(c))
}

func (uc *AuthUC) Refresh(_ context.Context, actor *auth.Principal) (*Token, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.issue(actor)
}

// LoginByEmail issues a token for a client whose email was verified by an
// external identity provider.
func (uc *AuthUC) LoginByEmail(ctx context.Context, email string) (*Token, error) {
	c, err := uc.Clients.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("client %s: %w", email, err)
	}
	return uc.issue(auth.PrincipalOf(c))
}

// ForgotPassword replaces the client's password with a random one and mails it.
func (uc *AuthUC) ForgotPassword(ctx context.Context, email string) error {
	c, err := uc.Clients.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("email %s: %w", email, err)
	}
	plain, err := auth.NewPassword(newPasswordLength)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(plain)
	if err != nil {
		return err
	}
	c.PasswordHash = hash
	if err := uc.Clients.Save(ctx, c); err != nil {
		return err
	}
	if uc.Mailer != nil {
		if err := uc.Mailer.SendNewPassword(ctx, c, plain); err != nil {
			uc.Metrics.NotificationFailed("password")
			log.Error().Err(err).Uint("client_id", c.ID).Msg("new password email failed")
		}
	}
	return nil
}

func (uc *AuthUC) issue(p *auth.Principal) (*Token, error) {
	tok, exp, err := uc.Tokens.Issue(p)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: tok, TokenType: "Bearer", ExpiresAt: exp}, nil
}
