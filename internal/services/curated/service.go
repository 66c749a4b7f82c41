// Package curated wraps the external curated-list backend with the
// dashboard's error policy: reads degrade to empty results so the page
// still renders when the backend is down, while mutations surface their
// errors to the caller.
package curated

import (
	"context"

	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/models"
)

// Service implements interfaces.CuratedService.
type Service struct {
	store   interfaces.CuratedStore
	logger  *common.Logger
	refresh chan struct{}
	cancels []func()
}

var _ interfaces.CuratedService = (*Service)(nil)

// NewService creates a curated-list service.
func NewService(store interfaces.CuratedStore, logger *common.Logger) *Service {
	return &Service{
		store:   store,
		logger:  logger,
		refresh: make(chan struct{}, 1),
	}
}

// Start subscribes to backend row changes on both curated tables. A failed
// subscription is logged and skipped: the list still works, it just stops
// refreshing live.
func (s *Service) Start(ctx context.Context) {
	for _, table := range []string{"curated_stocks", "thesis_entries"} {
		events, cancel, err := s.store.Subscribe(ctx, table)
		if err != nil {
			s.logger.Warn().Err(err).Str("table", table).Msg("Change subscription unavailable")
			continue
		}
		s.cancels = append(s.cancels, cancel)

		go func() {
			for ev := range events {
				s.logger.Debug().
					Str("table", ev.Table).
					Str("action", string(ev.Action)).
					Msg("Backend row changed")
				s.signalRefresh()
			}
		}()
	}
}

// signalRefresh coalesces change bursts into at most one pending signal.
func (s *Service) signalRefresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

// Refresh returns the channel that receives one signal per burst of backend
// row changes.
func (s *Service) Refresh() <-chan struct{} {
	return s.refresh
}

// Stop cancels the change subscriptions.
func (s *Service) Stop() {
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
}

func (s *Service) ListStocks(ctx context.Context) []*models.CuratedStock {
	stocks, err := s.store.ListCuratedStocks(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to list curated stocks")
		return nil
	}
	return stocks
}

func (s *Service) AddStock(ctx context.Context, ticker, notes string) (*models.CuratedStock, error) {
	stock, err := s.store.AddCuratedStock(ctx, ticker, notes)
	if err != nil {
		s.logger.Error().Err(err).Str("ticker", ticker).Msg("Failed to add curated stock")
		return nil, err
	}
	s.logger.Info().Str("ticker", stock.Ticker).Str("id", stock.ID).Msg("Curated stock added")
	return stock, nil
}

func (s *Service) UpdateNotes(ctx context.Context, id, notes string) (*models.CuratedStock, error) {
	stock, err := s.store.UpdateStockNotes(ctx, id, notes)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("Failed to update stock notes")
		return nil, err
	}
	return stock, nil
}

func (s *Service) RemoveStock(ctx context.Context, id string) error {
	if err := s.store.RemoveStock(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("Failed to remove curated stock")
		return err
	}
	s.logger.Info().Str("id", id).Msg("Curated stock removed")
	return nil
}

func (s *Service) Reorder(ctx context.Context, ordered []*models.CuratedStock) error {
	if err := s.store.ReorderStocks(ctx, ordered); err != nil {
		s.logger.Error().Err(err).Msg("Failed to reorder curated stocks")
		return err
	}
	return nil
}

func (s *Service) ThesisEntries(ctx context.Context, stockID string) []*models.ThesisEntry {
	entries, err := s.store.ListThesisEntries(ctx, stockID)
	if err != nil {
		s.logger.Warn().Err(err).Str("stock_id", stockID).Msg("Failed to list thesis entries")
		return nil
	}
	return entries
}

func (s *Service) AllThesisEntries(ctx context.Context) []*models.ThesisEntry {
	entries, err := s.store.ListAllThesisEntries(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to list thesis entries")
		return nil
	}
	return entries
}

func (s *Service) AddThesisEntry(ctx context.Context, stockID, content string) (*models.ThesisEntry, error) {
	entry, err := s.store.AddThesisEntry(ctx, stockID, content)
	if err != nil {
		s.logger.Error().Err(err).Str("stock_id", stockID).Msg("Failed to add thesis entry")
		return nil, err
	}
	return entry, nil
}

func (s *Service) DeleteThesisEntry(ctx context.Context, id string) error {
	if err := s.store.DeleteThesisEntry(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("Failed to delete thesis entry")
		return err
	}
	return nil
}
