// Package storage provides abstractions for expense snapshot persistence.
//
// The core treats every call as atomic: no partial-write state is ever
// visible through Get or List. The store does not arbitrate concurrent
// writers: callers must invoke Upsert from a single logical writer per
// snapshot id, or accept last-writer-wins semantics.
package storage

import (
	"context"
	"errors"

	"splitlink/internal/models"
)

// ErrNotFound is returned when no snapshot exists for the given id.
var ErrNotFound = errors.New("expense snapshot not found")

// Store is the keyed snapshot collection the core reads allocation state
// from and writes recomputed shares back to. Backends are swappable
// (SQLite here; anything keyed works) without touching the service layer.
type Store interface {
	// Get retrieves a snapshot by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*models.ExpenseSnapshot, error)

	// Upsert creates or fully replaces a snapshot. Missing ID and
	// CreatedAt fields are populated by the store.
	Upsert(ctx context.Context, snap *models.ExpenseSnapshot) error

	// Delete removes a snapshot. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// List returns all snapshots, newest first.
	List(ctx context.Context) ([]models.ExpenseSnapshot, error)

	// Close releases any resources held by the store.
	Close() error
}
