package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/models"
	"shopfront/internal/storage"
)

func TestSelf_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/account/self", nil)
	require.NoError(t, env.A.Self(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSelf(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/account/self", nil)
	require.NoError(t, env.A.Self(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var acc models.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &acc))
	assert.Equal(t, "alice", acc.Login)
	assert.Equal(t, "alice@example.com", acc.Email)
}

func TestRegister_ValidatesInput(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/account/register", map[string]string{
		"login": "bob",
	})
	require.NoError(t, env.A.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfirmRegistration_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPut, "/api/v1/account/register/confirm", nil)
	require.NoError(t, env.A.ConfirmRegistration(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangeLocale_PersistsLocally(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	rec, c := env.doJSONRequest(http.MethodPut, "/api/v1/account/self/change-locale", map[string]string{"locale": "pl"})
	require.NoError(t, env.A.ChangeLocale(c))
	require.Equal(t, http.StatusOK, rec.Code)

	locale, err := env.Store.Get(storage.KeyLocale)
	require.NoError(t, err)
	assert.Equal(t, "pl", locale)
}
