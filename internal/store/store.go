// Package store persists named JSON collections behind a small key-value
// contract. Backends: an embedded bbolt file (on-device), a GORM document
// table on SQLite/Postgres (server/cloud), and an in-memory map (tests).
package store

import (
	"context"
	"encoding/json"
)

// Collection keys, fixed for compatibility with the legacy on-disk layout.
const (
	KeyProducts   = "@mypos_products"
	KeyCustomers  = "@mypos_customers"
	KeySales      = "@mypos_sales"
	KeyCategories = "@mypos_categories"

	// KeyUsers holds local accounts; it is not part of the legacy layout
	// and is only written by this server.
	KeyUsers = "@mypos_users"

	// KeyInvoices existed in early revisions of the layout but was never
	// read back; kept to document the legacy key space.
	KeyInvoices = "@mypos_invoices"
)

// Store maps string keys to opaque JSON payloads. Get on a missing key
// returns (nil, false, nil); absence is not an error. Read/write failures
// are reported as *errs.StorageError.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Close() error
}

// Transactor is the optional all-or-nothing capability. Backends that
// implement it run fn against a transaction-bound Store and commit only if
// fn returns nil.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
