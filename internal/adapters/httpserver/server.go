package httpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/oauth2"

	"github.com/MatsuStefanie/cursomc/internal/auth"
	"github.com/MatsuStefanie/cursomc/internal/metrics"
	"github.com/MatsuStefanie/cursomc/internal/usecase"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// Deps are the collaborators the HTTP layer dispatches to. OAuth, Metrics,
// Health and UploadsDir are optional.
type Deps struct {
	Categories *usecase.CategoryUC
	Products   *usecase.ProductUC
	Clients    *usecase.ClientUC
	Orders     *usecase.OrderUC
	Locations  *usecase.LocationUC
	Auth       *usecase.AuthUC
	Tokens     *auth.TokenIssuer

	OAuth       *oauth2.Config
	UserInfoURL string
	Metrics     *metrics.Metrics
	Health      func(context.Context) error
	UploadsDir  string
}

type Server struct {
	router chi.Router

	categories *usecase.CategoryUC
	products   *usecase.ProductUC
	clients    *usecase.ClientUC
	orders     *usecase.OrderUC
	locations  *usecase.LocationUC
	auth       *usecase.AuthUC
	tokens     *auth.TokenIssuer

	oauthCfg    *oauth2.Config
	userInfoURL string
	metrics     *metrics.Metrics
	health      func(context.Context) error
	uploadsDir  string
}

func New(d Deps) http.Handler {
	s := &Server{
		router:      chi.NewRouter(),
		categories:  d.Categories,
		products:    d.Products,
		clients:     d.Clients,
		orders:      d.Orders,
		locations:   d.Locations,
		auth:        d.Auth,
		tokens:      d.Tokens,
		oauthCfg:    d.OAuth,
		userInfoURL: d.UserInfoURL,
		metrics:     d.Metrics,
		health:      d.Health,
		uploadsDir:  d.UploadsDir,
	}
	if s.userInfoURL == "" {
		s.userInfoURL = googleUserInfoURL
	}
	s.routes()
	return s.router
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logging)
	r.Use(Recovery)
	r.Use(s.observe)
	r.Use(s.authenticate)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	if s.uploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadsDir))))
	}

	r.Post("/login", s.handleLogin)
	r.Post("/auth/forgot", s.handleForgot)
	r.Get("/auth/google/login", s.handleGoogleLogin)
	r.Get("/auth/google/callback", s.handleGoogleCallback)

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", s.listCategories)
		r.Get("/page", s.pageCategories)
		r.Get("/{id}", s.getCategory)
		r.With(requireAuth).Post("/", s.createCategory)
		r.With(requireAuth).Put("/{id}", s.updateCategory)
		r.With(requireAuth).Delete("/{id}", s.deleteCategory)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.searchProducts)
		r.With(requireAuth).Get("/export.xlsx", s.exportProducts)
		r.Get("/{id}", s.getProduct)
	})

	r.Get("/states", s.listStates)
	r.Get("/states/{id}/cities", s.listCities)

	r.Post("/clients", s.createClient)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/auth/refresh_token", s.handleRefresh)

		r.Get("/clients", s.listClients)
		r.Get("/clients/page", s.pageClients)
		r.Get("/clients/email", s.getClientByEmail)
		r.Post("/clients/picture", s.uploadPicture)
		r.Get("/clients/{id}", s.getClient)
		r.Put("/clients/{id}", s.updateClient)
		r.Delete("/clients/{id}", s.deleteClient)

		r.Get("/orders", s.pageOrders)
		r.Get("/orders/{id}", s.getOrder)
		r.Post("/orders", s.createOrder)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "up"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
