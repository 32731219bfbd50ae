package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/models"
)

type cartResponse struct {
	Entries       []models.CartEntry `json:"entries"`
	TotalQuantity uint               `json:"totalQuantity"`
	AnyArchival   bool               `json:"anyArchival"`
}

func TestAddToCart(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	load := map[string]any{"productId": 3, "name": "mug", "quantity": 2}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load)
	require.NoError(t, env.C.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil)
	require.NoError(t, env.C.GetCart(c))

	var resp cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, uint(3), resp.Entries[0].ProductID)
	assert.Equal(t, uint(1), resp.Entries[0].Quantity, "first add always lands at 1")
	assert.Equal(t, uint(1), resp.TotalQuantity)
	assert.False(t, resp.AnyArchival)
}

func TestAddToCart_MissingProduct(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"quantity": 1})
	require.NoError(t, env.C.AddToCart(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveFromCart(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	for _, id := range []int{1, 2} {
		_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"productId": id, "quantity": 1})
		require.NoError(t, env.C.AddToCart(c))
	}

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/cart/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.C.RemoveFromCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, uint(2), resp.Entries[0].ProductID)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"productId": 1, "quantity": 1})
	require.NoError(t, env.C.AddToCart(c))

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/cart", nil)
	require.NoError(t, env.C.ClearCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Entries)
}

func TestCart_ArchivalFlagBlocksCheckout(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	load := map[string]any{"productId": 9, "name": "old mug", "quantity": 1, "archival": true}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load)
	require.NoError(t, env.C.AddToCart(c))

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil)
	require.NoError(t, env.C.GetCart(c))

	var resp cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.AnyArchival)
}

func TestCart_AnonymousLedgerIsSeparate(t *testing.T) {
	env := newTestEnv(t)

	// Anonymous shopper fills a cart.
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"productId": 1, "quantity": 1})
	require.NoError(t, env.C.AddToCart(c))

	env.login(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil)
	require.NoError(t, env.C.GetCart(c))

	var resp cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Entries, "alice's ledger starts empty")
}
