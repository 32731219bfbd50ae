// Package cart maintains the per-login product quantity ledger without
// server round-trips. Entries live as one JSON array per login in the
// injected storage service.
package cart

import (
	"encoding/json"
	"log/slog"
	"sync"

	"shopfront/internal/models"
	"shopfront/internal/storage"
)

const keySuffix = "-cart"

// LoginSource tells the store whose ledger to touch. Satisfied by
// *session.Manager; signed-out users share the anonymous ledger.
type LoginSource interface {
	Login() string
}

type Store struct {
	// mu keeps each read-modify-write sequence atomic; every operation
	// is synchronous end-to-end.
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

// Entries returns the full ledger for the current login. Absent or
// malformed storage reads as an empty ledger, never as an error.
func (s *Store) Entries() []models.CartEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() []models.CartEntry {
	raw, err := s.storage.Get(s.key())
	if err != nil {
		return nil
	}
	var entries []models.CartEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.Warn("malformed cart ledger, treating as empty", "key", s.key(), "error", err)
		return nil
	}
	return entries
}

func (s *Store) save(entries []models.CartEntry) {
	if entries == nil {
		entries = []models.CartEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		s.log.Warn("encoding cart ledger failed", "error", err)
		return
	}
	if err := s.storage.Set(s.key(), string(raw)); err != nil {
		s.log.Warn("persisting cart ledger failed", "key", s.key(), "error", err)
	}
}

// Add inserts or nudges an entry. The supplied quantity is a delta
// direction, not an absolute value: a first add always lands with
// quantity 1, and an existing entry moves by exactly one step towards
// the supplied quantity (down-steps clamp at 1). Calling Add repeatedly
// with the same higher quantity climbs one step per call.
func (s *Store) Add(product models.CartEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	for i := range entries {
		if entries[i].ProductID != product.ProductID {
			continue
		}
		switch {
		case product.Quantity > entries[i].Quantity:
			entries[i].Quantity++
		case product.Quantity < entries[i].Quantity && entries[i].Quantity > 1:
			entries[i].Quantity--
		}
		s.save(entries)
		return
	}

	product.Quantity = 1
	s.save(append(entries, product))
}

// Remove deletes the entry matching the product id. No-op when absent.
func (s *Store) Remove(productID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	kept := entries[:0]
	for _, e := range entries {
		if e.ProductID != productID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return
	}
	s.save(kept)
}

// TotalQuantity sums quantities across the ledger.
func (s *Store) TotalQuantity() uint {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total uint
	for _, e := range s.load() {
		total += e.Quantity
	}
	return total
}

// Clear removes the ledger key and immediately re-writes it empty, so
// the key always exists in a parseable state afterwards.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(s.key()); err != nil {
		s.log.Warn("deleting cart ledger failed", "key", s.key(), "error", err)
	}
	s.save(nil)
}

// AnyArchival reports whether any entry snapshot carries the archival
// flag. Callers use it to block checkout.
func AnyArchival(entries []models.CartEntry) bool {
	for _, e := range entries {
		if e.Archival {
			return true
		}
	}
	return false
}
