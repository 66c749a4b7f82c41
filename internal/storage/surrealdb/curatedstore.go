package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/stockdeck/stockdeck/internal/models"
)

// curatedRow is the stored shape of a curated stock. The application id
// lives in uid; SurrealDB's own record id stays out of the row struct.
type curatedRow struct {
	UID       string    `json:"uid"`
	Ticker    string    `json:"ticker"`
	Notes     string    `json:"notes"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *curatedRow) toModel() *models.CuratedStock {
	return &models.CuratedStock{
		ID:        r.UID,
		Ticker:    r.Ticker,
		Notes:     r.Notes,
		Position:  r.Position,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type thesisRow struct {
	UID       string    `json:"uid"`
	StockID   string    `json:"stock_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *thesisRow) toModel() *models.ThesisEntry {
	return &models.ThesisEntry{
		ID:        r.UID,
		StockID:   r.StockID,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}

// newID generates a record-id-safe identifier. SurrealDB record ids are
// easier to work with without dashes.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *Store) ListCuratedStocks(ctx context.Context) ([]*models.CuratedStock, error) {
	sql := "SELECT * FROM curated_stocks ORDER BY position ASC"
	results, err := surrealdb.Query[[]curatedRow](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list curated stocks: %w", err)
	}

	var stocks []*models.CuratedStock
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			stocks = append(stocks, (*results)[0].Result[i].toModel())
		}
	}
	return stocks, nil
}

func (s *Store) AddCuratedStock(ctx context.Context, ticker, notes string) (*models.CuratedStock, error) {
	// New stocks append at the end of the display order.
	position := 0
	posSQL := "SELECT position FROM curated_stocks ORDER BY position DESC LIMIT 1"
	posResults, err := surrealdb.Query[[]curatedRow](ctx, s.db, posSQL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to determine next position: %w", err)
	}
	if posResults != nil && len(*posResults) > 0 && len((*posResults)[0].Result) > 0 {
		position = (*posResults)[0].Result[0].Position + 1
	}

	now := time.Now()
	row := curatedRow{
		UID:       newID(),
		Ticker:    strings.ToUpper(strings.TrimSpace(ticker)),
		Notes:     notes,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}

	sql := "UPSERT $rid CONTENT $row"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID(tableCuratedStocks, row.UID),
		"row": row,
	}
	if _, err := surrealdb.Query[[]curatedRow](ctx, s.db, sql, vars); err != nil {
		return nil, fmt.Errorf("failed to add curated stock: %w", err)
	}
	return row.toModel(), nil
}

func (s *Store) UpdateStockNotes(ctx context.Context, id, notes string) (*models.CuratedStock, error) {
	sql := "UPDATE $rid SET notes = $notes, updated_at = $now"
	vars := map[string]any{
		"rid":   surrealmodels.NewRecordID(tableCuratedStocks, id),
		"notes": notes,
		"now":   time.Now(),
	}

	results, err := surrealdb.Query[[]curatedRow](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to update stock notes: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("curated stock not found: %s", id)
	}
	return (*results)[0].Result[0].toModel(), nil
}

func (s *Store) RemoveStock(ctx context.Context, id string) error {
	_, err := surrealdb.Delete[curatedRow](ctx, s.db, surrealmodels.NewRecordID(tableCuratedStocks, id))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to remove curated stock: %w", err)
	}

	// A stock's thesis entries go with it.
	sql := "DELETE FROM thesis_entries WHERE stock_id = $stock_id"
	vars := map[string]any{"stock_id": id}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to remove thesis entries: %w", err)
	}
	return nil
}

func (s *Store) ReorderStocks(ctx context.Context, ordered []*models.CuratedStock) error {
	now := time.Now()
	for i, stock := range ordered {
		sql := "UPDATE $rid SET position = $position, updated_at = $now"
		vars := map[string]any{
			"rid":      surrealmodels.NewRecordID(tableCuratedStocks, stock.ID),
			"position": i,
			"now":      now,
		}
		if _, err := surrealdb.Query[[]curatedRow](ctx, s.db, sql, vars); err != nil {
			return fmt.Errorf("failed to reorder stock %s: %w", stock.Ticker, err)
		}
	}
	return nil
}

func (s *Store) ListThesisEntries(ctx context.Context, stockID string) ([]*models.ThesisEntry, error) {
	sql := "SELECT * FROM thesis_entries WHERE stock_id = $stock_id ORDER BY created_at DESC"
	vars := map[string]any{"stock_id": stockID}

	results, err := surrealdb.Query[[]thesisRow](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list thesis entries: %w", err)
	}

	var entries []*models.ThesisEntry
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			entries = append(entries, (*results)[0].Result[i].toModel())
		}
	}
	return entries, nil
}

func (s *Store) ListAllThesisEntries(ctx context.Context) ([]*models.ThesisEntry, error) {
	sql := "SELECT * FROM thesis_entries ORDER BY created_at DESC"
	results, err := surrealdb.Query[[]thesisRow](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list thesis entries: %w", err)
	}

	var entries []*models.ThesisEntry
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			entries = append(entries, (*results)[0].Result[i].toModel())
		}
	}
	return entries, nil
}

func (s *Store) AddThesisEntry(ctx context.Context, stockID, content string) (*models.ThesisEntry, error) {
	row := thesisRow{
		UID:       newID(),
		StockID:   stockID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	sql := "UPSERT $rid CONTENT $row"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID(tableThesisEntries, row.UID),
		"row": row,
	}
	if _, err := surrealdb.Query[[]thesisRow](ctx, s.db, sql, vars); err != nil {
		return nil, fmt.Errorf("failed to add thesis entry: %w", err)
	}
	return row.toModel(), nil
}

func (s *Store) DeleteThesisEntry(ctx context.Context, id string) error {
	_, err := surrealdb.Delete[thesisRow](ctx, s.db, surrealmodels.NewRecordID(tableThesisEntries, id))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete thesis entry: %w", err)
	}
	return nil
}
