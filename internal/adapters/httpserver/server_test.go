package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/MatsuStefanie/cursomc/internal/adapters/repo/postgres"
	"github.com/MatsuStefanie/cursomc/internal/adapters/storage/localfs"
	"github.com/MatsuStefanie/cursomc/internal/auth"
	"github.com/MatsuStefanie/cursomc/internal/domain"
	"github.com/MatsuStefanie/cursomc/internal/metrics"
	"github.com/MatsuStefanie/cursomc/internal/testutil"
	"github.com/MatsuStefanie/cursomc/internal/usecase"
)

type testServer struct {
	handler    http.Handler
	seeded     *postgres.Seeded
	tokens     *auth.TokenIssuer
	uploadsDir string
	maria      string
	ana        string
}

func newTestServer(t *testing.T, mutate ...func(*Deps)) *testServer {
	t.Helper()
	db, seeded := testutil.NewSeededDB(t)
	store := postgres.NewStore(db)
	tokens := auth.NewTokenIssuer("router-secret", time.Hour)
	dir := t.TempDir()
	m := metrics.New()

	d := Deps{
		Categories: &usecase.CategoryUC{Categories: store.Categories()},
		Products:   &usecase.ProductUC{Products: store.Products()},
		Clients: &usecase.ClientUC{
			UoW: store, Clients: store.Clients(),
			Storage:       localfs.New(dir, "http://localhost:8080"),
			ProfilePrefix: "cp", ProfileSize: 32,
		},
		Orders:     &usecase.OrderUC{UoW: store, Orders: store.Orders(), Metrics: m},
		Locations:  &usecase.LocationUC{States: store.States(), Cities: store.Cities()},
		Auth:       &usecase.AuthUC{Clients: store.Clients(), Tokens: tokens, Metrics: m},
		Tokens:     tokens,
		Metrics:    m,
		UploadsDir: dir,
	}
	for _, fn := range mutate {
		fn(&d)
	}
	ts := &testServer{handler: New(d), seeded: seeded, tokens: tokens, uploadsDir: dir}
	ts.maria = ts.token(t, &seeded.Clients[0])
	ts.ana = ts.token(t, &seeded.Clients[1])
	return ts
}

func (ts *testServer) token(t *testing.T, c *domain.Client) string {
	t.Helper()
	tok, _, err := ts.tokens.Issue(auth.PrincipalOf(c))
	require.NoError(t, err)
	return tok
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"up"}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cursomc_http_request_duration_seconds")
}

func TestHealth_Down(t *testing.T) {
	ts := newTestServer(t, func(d *Deps) {
		d.Health = func(context.Context) error { return errors.New("db unreachable") }
	})

	rec := ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLoginFlow(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/login", "", credentials{Email: "maria@cursomc.com", Password: testutil.DemoPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Authorization"), "Bearer "))
	tok := decode[usecase.Token](t, rec)

	rec = ts.do(t, http.MethodPost, "/auth/refresh_token", tok.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/login", "", credentials{Email: "maria@cursomc.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	se := decode[StandardError](t, rec)
	assert.Equal(t, 401, se.Status)
	assert.Equal(t, "/login", se.Path)
	assert.Equal(t, "Unauthorized", se.Error)

	rec = ts.do(t, http.MethodPost, "/auth/refresh_token", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/categories", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestForgotPassword(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/auth/forgot", "", emailBody{Email: "maria@cursomc.com"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodPost, "/auth/forgot", "", emailBody{Email: "ghost@cursomc.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoriesEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Category](t, rec), 7)

	rec = ts.do(t, http.MethodGet, "/categories/page?linesPerPage=2&page=1&orderBy=id", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[domain.Page[domain.Category]](t, rec)
	assert.Equal(t, 4, page.TotalPages)
	assert.Equal(t, "Bed, table and bath", page.Content[0].Name)

	rec = ts.do(t, http.MethodGet, "/categories/page?page=x", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/categories", "", categoryBody{Name: "Sports"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = ts.do(t, http.MethodPost, "/categories", ts.maria, categoryBody{Name: "Sports"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = ts.do(t, http.MethodPost, "/categories", ts.ana, categoryBody{Name: "Toy"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do(t, http.MethodPost, "/categories", ts.ana, categoryBody{Name: "Sports"})
	require.Equal(t, http.StatusCreated, rec.Code)
	loc := rec.Header().Get("Location")
	assert.Equal(t, "/categories/8", loc)

	rec = ts.do(t, http.MethodPut, loc, ts.ana, categoryBody{Name: "Sports and leisure"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, http.MethodGet, loc, "", nil)
	assert.Equal(t, "Sports and leisure", decode[domain.Category](t, rec).Name)

	rec = ts.do(t, http.MethodDelete, "/categories/1", ts.ana, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decode[StandardError](t, rec).Message, "a category that has products cannot be deleted")

	rec = ts.do(t, http.MethodDelete, loc, ts.ana, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, http.MethodGet, loc, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductsEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/products?nome=o&categorias=1,4&linesPerPage=3&orderBy=price&direction=desc", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decode[domain.Page[domain.Product]](t, rec)
	assert.EqualValues(t, 3, page.TotalElements)
	require.Len(t, page.Content, 3)
	assert.Equal(t, "Computer", page.Content[0].Name)
	assert.Equal(t, "True color TV", page.Content[1].Name)
	assert.Equal(t, "Mouse", page.Content[2].Name)

	rec = ts.do(t, http.MethodGet, "/products?name=towel&categories=3", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[domain.Page[domain.Product]](t, rec).Content, 1)

	rec = ts.do(t, http.MethodGet, "/products?categorias=1,x", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/products/3", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mouse", decode[domain.Product](t, rec).Name)

	rec = ts.do(t, http.MethodGet, "/products/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/products/export.xlsx", ts.maria, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = ts.do(t, http.MethodGet, "/products/export.xlsx", ts.ana, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, rec.Body.Len())
}

func TestLocationsEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/states", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.State](t, rec), 2)

	rec = ts.do(t, http.MethodGet, "/states/2/cities", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.City](t, rec), 2)

	rec = ts.do(t, http.MethodGet, "/states/99/cities", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClientsEndpoints(t *testing.T) {
	ts := newTestServer(t)

	signUp := usecase.NewClient{
		Name: "Joana Pereira", Email: "joana@example.com", TaxID: "11222333000181",
		Type: domain.ClientBusiness, Password: "pw", Street: "Rua A", Number: "1",
		ZipCode: "13010000", CityID: 3, Phone1: "1999999",
	}
	rec := ts.do(t, http.MethodPost, "/clients", "", signUp)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/clients/3", rec.Header().Get("Location"))

	rec = ts.do(t, http.MethodPost, "/clients", "", signUp)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do(t, http.MethodGet, "/clients/1", ts.maria, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"taxId":"52998224725"`)
	assert.NotContains(t, body, "password")

	rec = ts.do(t, http.MethodGet, "/clients/2", ts.maria, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = ts.do(t, http.MethodGet, "/clients/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/clients/email?value=maria@cursomc.com", ts.maria, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodGet, "/clients/email?value=ana@cursomc.com", ts.maria, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/clients", ts.maria, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = ts.do(t, http.MethodGet, "/clients", ts.ana, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Client](t, rec), 3)
	rec = ts.do(t, http.MethodGet, "/clients/page?orderBy=email", ts.ana, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ana@cursomc.com", decode[domain.Page[domain.Client]](t, rec).Content[0].Email)

	rec = ts.do(t, http.MethodPut, "/clients/1", ts.maria, usecase.ClientUpdate{Name: "Maria Silva Souza", Email: "maria@cursomc.com"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/clients/3", ts.maria, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = ts.do(t, http.MethodDelete, "/clients/3", ts.ana, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, http.MethodGet, "/clients/abc", ts.ana, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type orderBody struct {
	Client          map[string]uint  `json:"client"`
	DeliveryAddress map[string]uint  `json:"deliveryAddress,omitempty"`
	Payment         map[string]any   `json:"payment"`
	Items           []map[string]any `json:"items"`
}

func TestOrdersEndpoints(t *testing.T) {
	ts := newTestServer(t)
	body := orderBody{
		Client:          map[string]uint{"id": 1},
		DeliveryAddress: map[string]uint{"id": 1},
		Payment:         map[string]any{"type": "boleto"},
		Items: []map[string]any{
			{"quantity": 2, "discount": 50, "price": 1, "product": map[string]uint{"id": 3}},
		},
	}

	rec := ts.do(t, http.MethodPost, "/orders", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/orders", ts.maria, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	loc := rec.Header().Get("Location")
	assert.Equal(t, "/orders/1", loc)

	rec = ts.do(t, http.MethodGet, loc, ts.maria, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Payment struct {
			Status  string    `json:"status"`
			Type    string    `json:"type"`
			DueDate time.Time `json:"dueDate"`
		} `json:"payment"`
		Instant         time.Time `json:"instant"`
		DeliveryAddress struct {
			Street string `json:"street"`
		} `json:"deliveryAddress"`
		Items []struct {
			Quantity int     `json:"quantity"`
			Price    float64 `json:"price"`
			Discount float64 `json:"discount"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "PENDING", got.Payment.Status)
	assert.Equal(t, "boleto", got.Payment.Type)
	assert.True(t, got.Payment.DueDate.Equal(got.Instant.Add(7*24*time.Hour)))
	assert.Equal(t, "Rua Flores", got.DeliveryAddress.Street)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 80.0, got.Items[0].Price)
	assert.Zero(t, got.Items[0].Discount)

	rec = ts.do(t, http.MethodGet, loc, ts.token(t, &domain.Client{ID: 77, Email: "x@y.z", Roles: []domain.Role{domain.RoleClient}}), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/orders", ts.maria, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[domain.Page[domain.Order]](t, rec).TotalElements)
	rec = ts.do(t, http.MethodGet, "/orders", ts.ana, nil)
	assert.EqualValues(t, 0, decode[domain.Page[domain.Order]](t, rec).TotalElements)

	body.Items[0]["product"] = map[string]uint{"id": 999}
	rec = ts.do(t, http.MethodPost, "/orders", ts.maria, body)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	body.Client["id"] = 2
	rec = ts.do(t, http.MethodPost, "/orders", ts.maria, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	body.Payment = map[string]any{"type": "pix"}
	rec = ts.do(t, http.MethodPost, "/orders", ts.maria, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadPicture(t *testing.T) {
	ts := newTestServer(t)

	img := image.NewNRGBA(image.Rect(0, 0, 90, 60))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	img.Set(0, 0, color.Transparent)
	var raw bytes.Buffer
	require.NoError(t, png.Encode(&raw, img))

	upload := func(token, field, filename string, data []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/clients/picture", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		return rec
	}

	rec := upload(ts.maria, "file", "avatar.png", raw.Bytes())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "http://localhost:8080/uploads/cp1.jpg", rec.Header().Get("Location"))
	_, err := os.Stat(filepath.Join(ts.uploadsDir, "cp1.jpg"))
	require.NoError(t, err)

	rec = ts.do(t, http.MethodGet, "/uploads/cp1.jpg", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusBadRequest, upload(ts.maria, "file", "avatar.gif", raw.Bytes()).Code)
	assert.Equal(t, http.StatusBadRequest, upload(ts.maria, "file", "avatar.jpg", []byte("junk")).Code)
	assert.Equal(t, http.StatusBadRequest, upload(ts.maria, "picture", "avatar.png", raw.Bytes()).Code)
	assert.Equal(t, http.StatusUnauthorized, upload("", "file", "avatar.png", raw.Bytes()).Code)
}

func TestGoogleSignIn(t *testing.T) {
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"access_token":"google-token","token_type":"Bearer","expires_in":3600}`)
		case "/userinfo":
			if r.Header.Get("Authorization") != "Bearer google-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = io.WriteString(w, `{"email":"ana@cursomc.com","email_verified":true}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer idp.Close()

	ts := newTestServer(t, func(d *Deps) {
		d.OAuth = &oauth2.Config{
			ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/auth/google/callback",
			Endpoint: oauth2.Endpoint{AuthURL: idp.URL + "/auth", TokenURL: idp.URL + "/token"},
		}
		d.UserInfoURL = idp.URL + "/userinfo"
	})

	rec := ts.do(t, http.MethodGet, "/auth/google/login", "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), idp.URL+"/auth"))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	state := cookies[0].Value

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state="+state, nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: state})
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p, err := ts.tokens.Parse(decode[usecase.Token](t, rec).AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ana@cursomc.com", p.Username)

	req = httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: state})
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoogleSignIn_NotConfigured(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/auth/google/login", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("kaboom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "/x", decode[StandardError](t, rec).Path)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusOf(domain.ErrNotFound))
	assert.Equal(t, http.StatusConflict, statusOf(domain.ErrDataIntegrity))
	assert.Equal(t, http.StatusBadRequest, statusOf(domain.ErrUnsupportedFormat))
	assert.Equal(t, http.StatusInternalServerError, statusOf(errors.New("db on fire")))
}
