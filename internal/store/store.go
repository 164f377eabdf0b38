// Package store is the persistence and synchronization boundary for
// invoices. Consumers (dashboard, list view, editor) stay consistent by
// subscribing to full-list snapshots instead of polling; the subscription
// registry is in-process and independent of the storage backend, so a local
// SQLite store and a remote Postgres store behave identically to callers.
package store

import (
	"context"
	"errors"

	"github.com/happygreeting/billing-app/internal/models"
)

// ErrNotFound is returned by Update when the target invoice does not exist.
// Delete is idempotent and never returns it.
var ErrNotFound = errors.New("invoice not found")

// SyncError wraps a transient backend failure. The caller's in-memory draft
// is untouched, so the user can retry the save without re-entering data.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string { return "store: " + e.Op + ": " + e.Err.Error() }
func (e *SyncError) Unwrap() error { return e.Err }

// Fields is a partial invoice for merge-style updates: column name -> new
// value. The special key "items" carries []models.LineItem and replaces the
// item list wholesale.
type Fields map[string]any

// Subscriber receives the full current invoice list, newest first.
type Subscriber func([]models.Invoice)

// Store is the invoice persistence contract. Mutations are single
// independent writes; on success each becomes visible to every active
// subscriber. Delivery is at-least-once and eventually consistent; callers
// must not rely on seeing their own write in the very next notification, nor
// on ordering between interleaved writers.
type Store interface {
	// List returns all invoices ordered by creation time descending.
	List(ctx context.Context) ([]models.Invoice, error)
	// Subscribe registers cb and returns a cancellation handle. The current
	// list is delivered immediately, then again after every change.
	Subscribe(cb Subscriber) (cancel func())
	// Create stores inv and assigns it a stable identifier, set on inv.ID.
	Create(ctx context.Context, inv *models.Invoice) error
	// Update merges fields into the stored invoice at id.
	Update(ctx context.Context, id uint, fields Fields) error
	// Delete removes the invoice at id. Deleting a nonexistent id is not an
	// error.
	Delete(ctx context.Context, id uint) error
}
