package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"shopfront/internal/cart"
	"shopfront/internal/models"
	"shopfront/internal/preferences"
	"shopfront/internal/prompt"
	"shopfront/internal/session"
	"shopfront/internal/shopapi"
	"shopfront/internal/storage"
)

var testSecret = []byte("test-secret")

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	Store    *storage.MemoryStore
	Sessions *session.Manager
	Prompts  *prompt.Recorder

	S *SessionHandler
	C *CartHandler
	A *AccountHandler
	P *CatalogHandler
	O *OrderHandler
}

func signToken(t *testing.T, subject string, exp time.Time) string {
	t.Helper()
	claims := session.Claims{
		Roles:    []string{"CLIENT"},
		Language: "en",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

// newBackendStub fakes the remote shop REST API.
func newBackendStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["login"] != "alice" || req["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "error.invalidCredentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(models.TokenPair{
			Token:        signToken(t, "alice", time.Now().Add(15*time.Minute)),
			RefreshToken: "refresh-1",
		})
	})

	mux.HandleFunc("GET /auth/extend/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "error.tokenExpired"})
			return
		}
		_ = json.NewEncoder(w).Encode(models.TokenPair{
			Token:        signToken(t, "alice", time.Now().Add(30*time.Minute)),
			RefreshToken: "refresh-2",
		})
	})

	mux.HandleFunc("GET /account/self", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.Account{ID: 1, Login: "alice", Email: "alice@example.com", Roles: []string{"CLIENT"}})
	})

	mux.HandleFunc("PUT /account/self/change-locale", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.Product{{ID: 1, Name: "mug"}, {ID: 2, Name: "shirt", Archival: true}})
	})

	mux.HandleFunc("GET /products/id/1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.Product{ID: 1, Name: "mug"})
	})

	mux.HandleFunc("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.Order{{ID: 1, AccountLogin: "alice", Status: "delivered"}})
	})

	mux.HandleFunc("POST /orders/orderedProducts/5/rate", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	backend := newBackendStub(t)
	store := storage.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	api := shopapi.NewClient(backend.URL)
	prompts := prompt.NewRecorder(log)
	sessions := session.NewManager(store, api, prompts, log)
	t.Cleanup(sessions.Close)

	cartStore := cart.NewStore(store, sessions, log)
	prefs := preferences.NewStore(store, sessions, log)

	env := &testEnv{
		T:        t,
		E:        echo.New(),
		Store:    store,
		Sessions: sessions,
		Prompts:  prompts,
	}
	env.S = &SessionHandler{Sessions: sessions, API: api, Prompts: prompts}
	env.C = &CartHandler{Cart: cartStore, Sessions: sessions, Preferences: prefs}
	env.A = &AccountHandler{API: api, Sessions: sessions, Store: store}
	env.P = &CatalogHandler{API: api, Sessions: sessions, Preferences: prefs}
	env.O = &OrderHandler{API: api, Sessions: sessions}

	return env
}

func (env *testEnv) doJSONRequest(method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) login(t *testing.T) {
	t.Helper()
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"login":    "alice",
		"password": "secret",
	})
	require.NoError(t, env.S.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)
}
