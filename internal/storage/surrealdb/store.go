// Package surrealdb implements the curated-list backend on SurrealDB. The
// backend owns the data; this package does not cache or retry, it reports
// failures to the service layer.
package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/models"
)

const (
	tableCuratedStocks = "curated_stocks"
	tableThesisEntries = "thesis_entries"
)

// Store implements interfaces.CuratedStore using SurrealDB.
type Store struct {
	db     *surrealdb.DB
	logger *common.Logger
}

var _ interfaces.CuratedStore = (*Store)(nil)

// NewStore connects to SurrealDB and ensures the curated tables exist.
func NewStore(logger *common.Logger, config *common.Config) (*Store, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Backend.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Backend.Username,
		"pass": config.Backend.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Backend.Namespace, config.Backend.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	// Define tables to ensure they exist (SurrealDB v3 errors on querying non-existent tables)
	for _, table := range []string{tableCuratedStocks, tableThesisEntries} {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return nil, fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}

	logger.Info().
		Str("address", config.Backend.Address).
		Str("namespace", config.Backend.Namespace).
		Str("database", config.Backend.Database).
		Msg("Curated backend initialized")

	return &Store{db: db, logger: logger}, nil
}

// Subscribe opens a live query on the given table and converts its
// notifications into ChangeEvents. The cancel func kills the live query and
// closes the event channel.
func (s *Store) Subscribe(ctx context.Context, table string) (<-chan models.ChangeEvent, func(), error) {
	liveID, err := surrealdb.Live(ctx, s.db, surrealmodels.Table(table), false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open live query on %s: %w", table, err)
	}

	notifications, err := s.db.LiveNotifications(liveID.String())
	if err != nil {
		_ = surrealdb.Kill(ctx, s.db, liveID.String())
		return nil, nil, fmt.Errorf("failed to open notification channel on %s: %w", table, err)
	}

	events := make(chan models.ChangeEvent)
	done := make(chan struct{})

	go func() {
		defer close(events)
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case n, ok := <-notifications:
				if !ok {
					return
				}
				ev := models.ChangeEvent{
					Table:  table,
					Action: models.ChangeAction(n.Action),
				}
				select {
				case events <- ev:
				case <-done:
					return
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			if err := surrealdb.Kill(context.Background(), s.db, liveID.String()); err != nil {
				s.logger.Warn().Err(err).Str("table", table).Msg("Failed to kill live query")
			}
		})
	}

	return events, cancel, nil
}

func (s *Store) Close() error {
	s.db.Close(context.Background())
	return nil
}

func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
