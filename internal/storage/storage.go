package storage

import "errors"

// Well-known session keys. The cart and preference ledgers derive their
// own per-login keys next to these.
const (
	KeyToken        = "jwtToken"
	KeyRefreshToken = "refreshToken"
	KeyLocale       = "locale"
	KeyTokenTimeout = "tokenTimeout"
)

var ErrNotFound = errors.New("storage: key not found")

// Store is a flat key-value store with local-storage semantics. It is
// constructed once per process and passed by reference to consumers, so
// tests can substitute the in-memory implementation.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}
