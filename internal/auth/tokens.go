package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MatsuStefanie/cursomc/internal/domain"
)

const issuer = "cursomc"

// Claims are the custom claims carried by access tokens. Subject is the email.
type Claims struct {
	ClientID uint     `json:"cid"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(p *Principal) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	roles := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		roles = append(roles, r.String())
	}
	claims := Claims{
		ClientID: p.ID,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Username,
			Issuer:    issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse validates signature and expiry and rebuilds the principal.
func (t *TokenIssuer) Parse(token string) (*Principal, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tk *jwt.Token) (any, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tk.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	p := &Principal{ID: claims.ClientID, Username: claims.Subject}
	for _, name := range claims.Roles {
		if r, ok := domain.ParseRole(name); ok {
			p.Roles = append(p.Roles, r)
		}
	}
	return p, nil
}

func PrincipalOf(c *domain.Client) *Principal {
	roles := append([]domain.Role(nil), c.Roles...)
	return &Principal{ID: c.ID, Username: c.Email, Roles: roles}
}
