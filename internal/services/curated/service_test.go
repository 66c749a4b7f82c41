package curated

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/models"
)

// stubStore is a scripted CuratedStore.
type stubStore struct {
	stocks    []*models.CuratedStock
	entries   []*models.ThesisEntry
	failReads bool

	events  chan models.ChangeEvent
	subErr  error
	killed  bool
	reorder []*models.CuratedStock
}

var errBackend = errors.New("backend unavailable")

func (s *stubStore) ListCuratedStocks(ctx context.Context) ([]*models.CuratedStock, error) {
	if s.failReads {
		return nil, errBackend
	}
	return s.stocks, nil
}

func (s *stubStore) AddCuratedStock(ctx context.Context, ticker, notes string) (*models.CuratedStock, error) {
	if s.failReads {
		return nil, errBackend
	}
	stock := &models.CuratedStock{ID: "new", Ticker: ticker, Notes: notes}
	s.stocks = append(s.stocks, stock)
	return stock, nil
}

func (s *stubStore) UpdateStockNotes(ctx context.Context, id, notes string) (*models.CuratedStock, error) {
	if s.failReads {
		return nil, errBackend
	}
	return &models.CuratedStock{ID: id, Notes: notes}, nil
}

func (s *stubStore) RemoveStock(ctx context.Context, id string) error {
	if s.failReads {
		return errBackend
	}
	return nil
}

func (s *stubStore) ReorderStocks(ctx context.Context, ordered []*models.CuratedStock) error {
	if s.failReads {
		return errBackend
	}
	s.reorder = ordered
	return nil
}

func (s *stubStore) ListThesisEntries(ctx context.Context, stockID string) ([]*models.ThesisEntry, error) {
	if s.failReads {
		return nil, errBackend
	}
	return s.entries, nil
}

func (s *stubStore) ListAllThesisEntries(ctx context.Context) ([]*models.ThesisEntry, error) {
	if s.failReads {
		return nil, errBackend
	}
	return s.entries, nil
}

func (s *stubStore) AddThesisEntry(ctx context.Context, stockID, content string) (*models.ThesisEntry, error) {
	if s.failReads {
		return nil, errBackend
	}
	return &models.ThesisEntry{ID: "new", StockID: stockID, Content: content}, nil
}

func (s *stubStore) DeleteThesisEntry(ctx context.Context, id string) error {
	if s.failReads {
		return errBackend
	}
	return nil
}

func (s *stubStore) Subscribe(ctx context.Context, table string) (<-chan models.ChangeEvent, func(), error) {
	if s.subErr != nil {
		return nil, nil, s.subErr
	}
	if s.events == nil {
		s.events = make(chan models.ChangeEvent, 16)
	}
	return s.events, func() { s.killed = true }, nil
}

func (s *stubStore) Close() error { return nil }

func TestListStocks_DegradesToEmpty(t *testing.T) {
	store := &stubStore{failReads: true}
	svc := NewService(store, common.NewSilentLogger())

	assert.Nil(t, svc.ListStocks(context.Background()))
	assert.Nil(t, svc.ThesisEntries(context.Background(), "id"))
	assert.Nil(t, svc.AllThesisEntries(context.Background()))
}

func TestListStocks(t *testing.T) {
	store := &stubStore{stocks: []*models.CuratedStock{
		{ID: "1", Ticker: "NVDA", Position: 0},
		{ID: "2", Ticker: "AAPL", Position: 1},
	}}
	svc := NewService(store, common.NewSilentLogger())

	stocks := svc.ListStocks(context.Background())
	require.Len(t, stocks, 2)
	assert.Equal(t, "NVDA", stocks[0].Ticker)
}

func TestMutations_PropagateErrors(t *testing.T) {
	store := &stubStore{failReads: true}
	svc := NewService(store, common.NewSilentLogger())
	ctx := context.Background()

	_, err := svc.AddStock(ctx, "NVDA", "")
	assert.ErrorIs(t, err, errBackend)

	_, err = svc.UpdateNotes(ctx, "1", "notes")
	assert.ErrorIs(t, err, errBackend)

	assert.ErrorIs(t, svc.RemoveStock(ctx, "1"), errBackend)
	assert.ErrorIs(t, svc.Reorder(ctx, nil), errBackend)

	_, err = svc.AddThesisEntry(ctx, "1", "content")
	assert.ErrorIs(t, err, errBackend)
	assert.ErrorIs(t, svc.DeleteThesisEntry(ctx, "1"), errBackend)
}

func TestAddStock(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, common.NewSilentLogger())

	stock, err := svc.AddStock(context.Background(), "NVDA", "ai leader")
	require.NoError(t, err)
	assert.Equal(t, "NVDA", stock.Ticker)
	assert.Equal(t, "ai leader", stock.Notes)
}

func TestRefresh_CoalescesBursts(t *testing.T) {
	store := &stubStore{events: make(chan models.ChangeEvent, 16)}
	svc := NewService(store, common.NewSilentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	// A burst of changes produces at most one pending signal.
	for i := 0; i < 5; i++ {
		store.events <- models.ChangeEvent{Table: "curated_stocks", Action: models.ChangeUpdate}
	}

	select {
	case <-svc.Refresh():
	case <-time.After(time.Second):
		t.Fatal("expected a refresh signal")
	}

	// The burst was coalesced: at most one more signal may be pending
	// (a change that arrived after the first receive), never four.
	drained := 0
	for {
		select {
		case <-svc.Refresh():
			drained++
			continue
		case <-time.After(100 * time.Millisecond):
		}
		break
	}
	assert.LessOrEqual(t, drained, 1)
}

func TestStart_SubscriptionFailureIsNonFatal(t *testing.T) {
	store := &stubStore{subErr: errors.New("live queries unsupported"), stocks: []*models.CuratedStock{{ID: "1", Ticker: "NVDA"}}}
	svc := NewService(store, common.NewSilentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	// The list still works without live refresh.
	assert.Len(t, svc.ListStocks(ctx), 1)
}

func TestStop_KillsSubscriptions(t *testing.T) {
	store := &stubStore{events: make(chan models.ChangeEvent, 1)}
	svc := NewService(store, common.NewSilentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	svc.Stop()

	assert.True(t, store.killed)
}
