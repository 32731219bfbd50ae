// Package shopapi is the HTTP client for the remote shop backend. Every
// endpoint the frontend consumes goes through here; callers never touch
// net/http directly.
package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopfront/internal/models"
)

// FallbackMessageKey is used for toasts when the backend response carries
// no message key of its own.
const FallbackMessageKey = "error.unknown"

// APIError is a non-2xx backend response. MessageKey is the localized
// message identifier the UI resolves to a toast.
type APIError struct {
	Status     int
	MessageKey string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopapi: status %d (%s)", e.Status, e.MessageKey)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// do sends one JSON request and decodes the response into out when out is
// non-nil. Non-2xx responses become *APIError with the server message key
// when one is present.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, MessageKey: FallbackMessageKey}
		var serverMsg struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&serverMsg); err == nil && serverMsg.Message != "" {
			apiErr.MessageKey = serverMsg.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) Authenticate(ctx context.Context, login, password string) (*models.TokenPair, error) {
	req := map[string]string{"login": login, "password": password}
	var pair models.TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth", "", req, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// ExtendSession trades the refresh token for a fresh pair. The current
// bearer token authorizes the call; the refresh token rides in the path.
func (c *Client) ExtendSession(ctx context.Context, refreshToken, token string) (*models.TokenPair, error) {
	var pair models.TokenPair
	path := "/auth/extend/" + url.PathEscape(refreshToken)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (c *Client) Self(ctx context.Context, token string) (*models.Account, error) {
	var acc models.Account
	if err := c.do(ctx, http.MethodGet, "/account/self", token, nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

type EditAccountRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (c *Client) EditSelf(ctx context.Context, token string, req EditAccountRequest) (*models.Account, error) {
	var acc models.Account
	if err := c.do(ctx, http.MethodPut, "/account/self/edit", token, req, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *Client) ChangeEmail(ctx context.Context, token, newEmail string) error {
	req := map[string]string{"newEmail": newEmail}
	return c.do(ctx, http.MethodPut, "/account/self/change-email", token, req, nil)
}

func (c *Client) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error {
	req := map[string]string{"oldPassword": oldPassword, "newPassword": newPassword}
	return c.do(ctx, http.MethodPut, "/account/self/change-password", token, req, nil)
}

func (c *Client) ChangeLocale(ctx context.Context, token, locale string) error {
	req := map[string]string{"locale": locale}
	return c.do(ctx, http.MethodPut, "/account/self/change-locale", token, req, nil)
}

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Product(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/id/%d", id), "", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ArchiveProduct(ctx context.Context, token string, id uint) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/products/id/%d/archive", id), token, nil, nil)
}

func (c *Client) Orders(ctx context.Context, token string) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) Order(ctx context.Context, token string, id uint) (*models.Order, error) {
	var o models.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/id/%d", id), token, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) RateOrderedProduct(ctx context.Context, token string, id, rate uint) error {
	req := map[string]uint{"rate": rate}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/orders/orderedProducts/%d/rate", id), token, req, nil)
}

func (c *Client) ChangeRate(ctx context.Context, token string, id, rate uint) error {
	req := map[string]uint{"rate": rate}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/orders/orderedProducts/%d/rate", id), token, req, nil)
}

func (c *Client) DeleteRate(ctx context.Context, token string, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/orders/orderedProducts/%d/rate", id), token, nil, nil)
}

type RegisterRequest struct {
	Login     string `json:"login"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Locale    string `json:"locale"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/accounts/self/register", "", req, nil)
}

func (c *Client) ConfirmRegistration(ctx context.Context, confirmToken string) error {
	path := "/account/self/register/confirm?token=" + url.QueryEscape(confirmToken)
	return c.do(ctx, http.MethodPut, path, "", nil, nil)
}
