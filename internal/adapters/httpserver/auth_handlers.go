package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/MatsuStefanie/cursomc/internal/auth"
	"github.com/MatsuStefanie/cursomc/internal/usecase"
)

const oauthStateCookie = "oauth_state"

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailBody struct {
	Email string `json:"email"`
}

func writeToken(w http.ResponseWriter, tok *usecase.Token) {
	w.Header().Set("Authorization", "Bearer "+tok.AccessToken)
	w.Header().Set("Access-Control-Expose-Headers", "Authorization")
	writeJSON(w, http.StatusOK, tok)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decodeJSON(w, r, &c); err != nil {
		s.writeError(w, r, err)
		return
	}
	tok, err := s.auth.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeToken(w, tok)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	tok, err := s.auth.Refresh(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeToken(w, tok)
}

func (s *Server) handleForgot(w http.ResponseWriter, r *http.Request) {
	var body emailBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.auth.ForgotPassword(r.Context(), body.Email); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		writeStandardError(w, r, http.StatusServiceUnavailable, "google sign-in is not configured")
		return
	}
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: state, Path: "/", MaxAge: 300, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

// handleGoogleCallback exchanges the code, reads the verified email from the
// userinfo endpoint and signs the matching client in.
func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		writeStandardError(w, r, http.StatusServiceUnavailable, "google sign-in is not configured")
		return
	}
	q := r.URL.Query()
	c, _ := r.Cookie(oauthStateCookie)
	if c == nil || c.Value == "" || c.Value != q.Get("state") {
		s.writeError(w, r, fmt.Errorf("%w: oauth state mismatch", errBadRequest))
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1})

	email, err := s.googleEmail(r, q.Get("code"))
	if err != nil {
		log.Error().Err(err).Msg("google sign-in")
		s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	tok, err := s.auth.LoginByEmail(r.Context(), email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeToken(w, tok)
}

func (s *Server) googleEmail(r *http.Request, code string) (string, error) {
	tok, err := s.oauthCfg.Exchange(r.Context(), code)
	if err != nil {
		return "", fmt.Errorf("exchange oauth code: %w", err)
	}
	resp, err := s.oauthCfg.Client(r.Context(), tok).Get(s.userInfoURL)
	if err != nil {
		return "", fmt.Errorf("userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read userinfo: %w", err)
	}
	var info struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Email == "" || !info.EmailVerified {
		return "", errors.New("google account has no verified email")
	}
	return info.Email, nil
}
