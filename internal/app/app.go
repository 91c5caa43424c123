package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/MatsuStefanie/cursomc/internal/adapters/httpserver"
	"github.com/MatsuStefanie/cursomc/internal/adapters/mail"
	"github.com/MatsuStefanie/cursomc/internal/adapters/repo/postgres"
	"github.com/MatsuStefanie/cursomc/internal/adapters/storage/localfs"
	"github.com/MatsuStefanie/cursomc/internal/auth"
	"github.com/MatsuStefanie/cursomc/internal/config"
	"github.com/MatsuStefanie/cursomc/internal/domain"
	"github.com/MatsuStefanie/cursomc/internal/metrics"
	"github.com/MatsuStefanie/cursomc/internal/usecase"
)

// demoPassword is the password of the clients created by the demo seed.
const demoPassword = "123"

type App struct {
	Cfg     *config.Config
	DB      *gorm.DB
	Store   *postgres.Store
	Metrics *metrics.Metrics
	Tokens  *auth.TokenIssuer

	CategoryUC *usecase.CategoryUC
	ProductUC  *usecase.ProductUC
	ClientUC   *usecase.ClientUC
	OrderUC    *usecase.OrderUC
	LocationUC *usecase.LocationUC
	AuthUC     *usecase.AuthUC

	OAuthConfig *oauth2.Config
}

func NewApp(cfg *config.Config, db *gorm.DB) (*App, error) {
	if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage dir: %w", err)
	}
	store := postgres.NewStore(db)
	m := metrics.New()
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiration)

	var sender mail.Sender = mail.LogSender{}
	if cfg.SMTPHost != "" {
		sender = mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	} else {
		log.Warn().Msg("SMTP_HOST not set, emails will only be logged")
	}
	mailer := mail.NewMailer(cfg.MailSender, sender)

	var oauthCfg *oauth2.Config
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.PublicBaseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	a := &App{
		Cfg:         cfg,
		DB:          db,
		Store:       store,
		Metrics:     m,
		Tokens:      tokens,
		OAuthConfig: oauthCfg,
	}
	a.CategoryUC = &usecase.CategoryUC{Categories: store.Categories()}
	a.ProductUC = &usecase.ProductUC{Products: store.Products()}
	a.LocationUC = &usecase.LocationUC{States: store.States(), Cities: store.Cities()}
	a.ClientUC = &usecase.ClientUC{
		UoW:           store,
		Clients:       store.Clients(),
		Storage:       localfs.New(cfg.StorageDir, cfg.PublicBaseURL),
		ProfilePrefix: cfg.ProfilePrefix,
		ProfileSize:   cfg.ProfileSize,
	}
	a.OrderUC = &usecase.OrderUC{UoW: store, Orders: store.Orders(), Mailer: mailer, Metrics: m}
	a.AuthUC = &usecase.AuthUC{Clients: store.Clients(), Tokens: tokens, Mailer: mailer, Metrics: m}
	return a, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(httpserver.Deps{
		Categories: a.CategoryUC,
		Products:   a.ProductUC,
		Clients:    a.ClientUC,
		Orders:     a.OrderUC,
		Locations:  a.LocationUC,
		Auth:       a.AuthUC,
		Tokens:     a.Tokens,
		OAuth:      a.OAuthConfig,
		Metrics:    a.Metrics,
		Health:     a.ping,
		UploadsDir: a.Cfg.StorageDir,
	})
}

func (a *App) ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// MigrateAndSeed brings the schema up to date and, when SEED_DATA is on,
// loads the demo data into an empty database.
func (a *App) MigrateAndSeed() error {
	if err := postgres.Migrate(a.DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if !a.Cfg.SeedData {
		return nil
	}
	var n int64
	if err := a.DB.Model(&domain.Category{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		log.Info().Int64("categories", n).Msg("database already populated, skipping seed")
		return nil
	}
	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return err
	}
	seeded, err := postgres.Seed(a.DB, hash)
	if err != nil {
		return err
	}
	log.Info().Int("products", len(seeded.Products)).Int("clients", len(seeded.Clients)).Msg("demo data seeded")
	return nil
}
