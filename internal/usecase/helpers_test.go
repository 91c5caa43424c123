package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/MatsuStefanie/cursomc/internal/adapters/repo/postgres"
	"github.com/MatsuStefanie/cursomc/internal/auth"
	"github.com/MatsuStefanie/cursomc/internal/domain"
	"github.com/MatsuStefanie/cursomc/internal/testutil"
)

var clock = time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)

type fixture struct {
	db     *gorm.DB
	store  *postgres.Store
	seeded *postgres.Seeded
	maria  *auth.Principal
	ana    *auth.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, seeded := testutil.NewSeededDB(t)
	return &fixture{
		db:     db,
		store:  postgres.NewStore(db),
		seeded: seeded,
		maria:  auth.PrincipalOf(&seeded.Clients[0]),
		ana:    auth.PrincipalOf(&seeded.Clients[1]),
	}
}

type fakeMailer struct {
	mu        sync.Mutex
	orders    []*domain.Order
	passwords map[string]string
	err       error
}

func (m *fakeMailer) SendOrderConfirmation(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.orders = append(m.orders, o)
	return nil
}

func (m *fakeMailer) SendNewPassword(_ context.Context, c *domain.Client, pw string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.passwords == nil {
		m.passwords = map[string]string{}
	}
	m.passwords[c.Email] = pw
	return nil
}

type fakeStorage struct {
	key, contentType string
	data             []byte
	err              error
}

func (s *fakeStorage) Upload(_ context.Context, data []byte, key, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.data, s.key, s.contentType = data, key, contentType
	return "http://files.test/uploads/" + key, nil
}

var errBoom = errors.New("boom")
