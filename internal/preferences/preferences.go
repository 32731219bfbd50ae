// Package preferences tracks per-login category/product interaction
// weights, the raw material for server-side recommendations.
package preferences

import (
	"encoding/json"
	"log/slog"
	"sync"

	"shopfront/internal/storage"
)

const keySuffix = "-preferences"

// Weights maps an interaction key (category name or product id) to its
// accumulated weight.
type Weights map[string]float64

type LoginSource interface {
	Login() string
}

type Store struct {
	mu      sync.Mutex
	storage storage.Store
	logins  LoginSource
	log     *slog.Logger
}

func NewStore(st storage.Store, logins LoginSource, log *slog.Logger) *Store {
	return &Store{storage: st, logins: logins, log: log}
}

func (s *Store) key() string {
	return s.logins.Login() + keySuffix
}

// Weights returns the stored weights for the current login; malformed or
// absent storage reads as empty.
func (s *Store) Weights() Weights {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() Weights {
	raw, err := s.storage.Get(s.key())
	if err != nil {
		return Weights{}
	}
	var w Weights
	if err := json.Unmarshal([]byte(raw), &w); err != nil || w == nil {
		return Weights{}
	}
	return w
}

// Bump adds delta to one interaction key.
func (s *Store) Bump(key string, delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.load()
	w[key] += delta
	raw, err := json.Marshal(w)
	if err != nil {
		s.log.Warn("encoding preference weights failed", "error", err)
		return
	}
	if err := s.storage.Set(s.key(), string(raw)); err != nil {
		s.log.Warn("persisting preference weights failed", "key", s.key(), "error", err)
	}
}
