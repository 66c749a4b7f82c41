package interfaces

import (
	"context"

	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/models"
)

// CacheStore is key/value storage with a per-entry expiry timestamp.
// Storage trouble never propagates to callers: reads report a miss when the
// entry is absent, corrupt, or (for Get) past expiry, and a failed write is
// silently abandoned after the store evicts its own entries.
type CacheStore interface {
	// Get decodes the entry into out and reports true only when the entry
	// exists and has not expired. Expired entries are left in place for
	// GetStale.
	Get(ctx context.Context, key string, out any) bool

	// GetStale decodes the entry into out regardless of expiry. Reports
	// false only when the key was never written or the entry is corrupt.
	GetStale(ctx context.Context, key string, out any) bool

	// Set stores value under key with expiry now + TTLFor(kind).
	Set(ctx context.Context, key string, value any, kind common.DataKind)

	Close() error
}

// CuratedStore is the external backend holding curated stocks and thesis
// entries. All operations may fail; the store is not retried or cached.
type CuratedStore interface {
	ListCuratedStocks(ctx context.Context) ([]*models.CuratedStock, error)
	AddCuratedStock(ctx context.Context, ticker, notes string) (*models.CuratedStock, error)
	UpdateStockNotes(ctx context.Context, id, notes string) (*models.CuratedStock, error)
	RemoveStock(ctx context.Context, id string) error
	ReorderStocks(ctx context.Context, ordered []*models.CuratedStock) error

	ListThesisEntries(ctx context.Context, stockID string) ([]*models.ThesisEntry, error)
	ListAllThesisEntries(ctx context.Context) ([]*models.ThesisEntry, error)
	AddThesisEntry(ctx context.Context, stockID, content string) (*models.ThesisEntry, error)
	DeleteThesisEntry(ctx context.Context, id string) error

	// Subscribe opens a row-change notification stream for the given table.
	// The returned cancel func closes the stream.
	Subscribe(ctx context.Context, table string) (<-chan models.ChangeEvent, func(), error)

	Close() error
}
