package models

import (
	"github.com/shopspring/decimal"
)

// TokenPair is the credential pair issued by the remote auth service.
// Both values are opaque here except for the claims the session manager
// decodes out of Token.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// CartEntry is a denormalized product snapshot plus the quantity chosen
// by the user. At most one entry per ProductID exists within one ledger.
type CartEntry struct {
	ProductID uint            `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  uint            `json:"quantity"`
	ImageURL  string          `json:"imageUrl"`
	Archival  bool            `json:"archival"`
}

type Product struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Archival    bool            `json:"archival"`
}

type Account struct {
	ID        uint     `json:"id"`
	Login     string   `json:"login"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Locale    string   `json:"locale"`
	Roles     []string `json:"roles"`
	Active    bool     `json:"active"`
}

type OrderedProduct struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  uint            `json:"quantity"`
	Rate      uint            `json:"rate"`
}

type Order struct {
	ID              uint             `json:"id"`
	AccountLogin    string           `json:"accountLogin"`
	Total           decimal.Decimal  `json:"total"`
	Status          string           `json:"status"`
	CreatedAt       int64            `json:"createdAt"`
	OrderedProducts []OrderedProduct `json:"orderedProducts"`
}
