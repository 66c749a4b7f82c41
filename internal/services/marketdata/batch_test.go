package marketdata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/models"
)

func TestBatchQuotes_CachePartition(t *testing.T) {
	cache := newMemCache()
	client := newStubClient()

	var requested []string
	client.getBatchQuotes = func(ctx context.Context, symbols []string) ([]*models.Quote, error) {
		requested = symbols
		return []*models.Quote{{Symbol: "MSFT", Price: models.Float(430)}}, nil
	}
	svc := NewService(client, cache, common.NewSilentLogger())

	cache.put("fmp/quote/AAPL", &models.Quote{Symbol: "AAPL", Price: models.Float(215)}, false)

	out := svc.BatchQuotes(context.Background(), []string{"AAPL", "MSFT"})
	require.Len(t, out, 2)

	// Only the uncached symbol hits the network.
	assert.Equal(t, []string{"MSFT"}, requested)
	assert.Equal(t, 215.0, *out["AAPL"].Price)
	assert.Equal(t, 430.0, *out["MSFT"].Price)

	// The fetched quote was written through.
	var cached *models.Quote
	assert.True(t, cache.Get(context.Background(), "fmp/quote/MSFT", &cached))
}

func TestBatchQuotes_AllCachedSkipsNetwork(t *testing.T) {
	cache := newMemCache()
	client := newStubClient()
	svc := NewService(client, cache, common.NewSilentLogger())

	cache.put("fmp/quote/AAPL", &models.Quote{Symbol: "AAPL", Price: models.Float(215)}, false)
	cache.put("fmp/quote/MSFT", &models.Quote{Symbol: "MSFT", Price: models.Float(430)}, false)

	out := svc.BatchQuotes(context.Background(), []string{"AAPL", "MSFT"})
	require.Len(t, out, 2)
	assert.Equal(t, 0, client.callCount("GetBatchQuotes"))
}

func TestBatchQuotes_PerSymbolFallback(t *testing.T) {
	cache := newMemCache()
	client := newStubClient()
	client.getBatchQuotes = func(ctx context.Context, symbols []string) ([]*models.Quote, error) {
		return nil, errors.New("connection refused")
	}
	svc := NewService(client, cache, common.NewSilentLogger())

	// XYZ has a stale entry, ZZZZ has nothing.
	cache.put("fmp/quote/XYZ", &models.Quote{Symbol: "XYZ", Price: models.Float(50)}, true)

	out := svc.BatchQuotes(context.Background(), []string{"XYZ", "ZZZZ"})
	require.Len(t, out, 2)
	assert.Equal(t, 50.0, *out["XYZ"].Price)
	assert.Equal(t, 150.0, *out["ZZZZ"].Price)
}

func TestBatchQuotes_PartialResponse(t *testing.T) {
	cache := newMemCache()
	client := newStubClient()
	client.getBatchQuotes = func(ctx context.Context, symbols []string) ([]*models.Quote, error) {
		// Upstream silently drops one of the requested symbols.
		return []*models.Quote{{Symbol: "AAPL", Price: models.Float(215)}}, nil
	}
	svc := NewService(client, cache, common.NewSilentLogger())

	out := svc.BatchQuotes(context.Background(), []string{"AAPL", "ZZZZ"})
	require.Len(t, out, 2)
	assert.Equal(t, 215.0, *out["AAPL"].Price)
	assert.Equal(t, 150.0, *out["ZZZZ"].Price)
}

func TestBatchQuotes_DuplicateSymbols(t *testing.T) {
	svc := NewService(nil, newMemCache(), common.NewSilentLogger())

	out := svc.BatchQuotes(context.Background(), []string{"aapl", "AAPL"})
	require.Len(t, out, 1)
	require.NotNil(t, out["AAPL"])
}

func TestBatchQuotes_DemoMode(t *testing.T) {
	cache := newMemCache()
	svc := NewService(nil, cache, common.NewSilentLogger())

	out := svc.BatchQuotes(context.Background(), []string{"NVDA", "AAPL"})
	require.Len(t, out, 2)
	assert.Equal(t, 135.58, *out["NVDA"].Price)
	assert.Equal(t, 0, cache.setCount())
}

func TestBatchProfiles_CachePartition(t *testing.T) {
	cache := newMemCache()
	client := newStubClient()

	var requested []string
	client.getBatchProfiles = func(ctx context.Context, symbols []string) ([]*models.Profile, error) {
		requested = symbols
		return []*models.Profile{{Symbol: "MSFT", Name: "Microsoft Corporation"}}, nil
	}
	svc := NewService(client, cache, common.NewSilentLogger())

	cache.put("fmp/profile/AAPL", &models.Profile{Symbol: "AAPL", Name: "Apple Inc."}, false)

	out := svc.BatchProfiles(context.Background(), []string{"AAPL", "MSFT"})
	require.Len(t, out, 2)
	assert.Equal(t, []string{"MSFT"}, requested)
	assert.Equal(t, "Apple Inc.", out["AAPL"].Name)
	assert.Equal(t, "Microsoft Corporation", out["MSFT"].Name)
}

func TestBatchProfiles_FallbackToSynthetic(t *testing.T) {
	cache := newMemCache()
	client := newStubClient()
	svc := NewService(client, cache, common.NewSilentLogger())

	out := svc.BatchProfiles(context.Background(), []string{"NVDA"})
	require.NotNil(t, out["NVDA"])
	assert.Equal(t, "Nvidia Corp", out["NVDA"].Name)
}

func TestBatchPriceChanges(t *testing.T) {
	cache := newMemCache()
	client := newStubClient()
	client.getPriceChange = func(ctx context.Context, symbol string) (*models.PriceChangeSet, error) {
		if symbol == "FAIL" {
			return nil, errors.New("connection refused")
		}
		return &models.PriceChangeSet{OneDay: models.Float(1.23)}, nil
	}
	svc := NewService(client, cache, common.NewSilentLogger())

	cache.put("fmp/pricechange/AAPL", &models.PriceChangeSet{OneDay: models.Float(0.5)}, false)

	out := svc.BatchPriceChanges(context.Background(), []string{"AAPL", "MSFT", "FAIL"})
	require.Len(t, out, 3)

	// Cached value served without a fetch
	assert.Equal(t, 0.5, *out["AAPL"].OneDay)
	// Live value fetched and written through
	assert.Equal(t, 1.23, *out["MSFT"].OneDay)
	var cached *models.PriceChangeSet
	assert.True(t, cache.Get(context.Background(), "fmp/pricechange/MSFT", &cached))
	// Failed symbol present with no value: price changes have no synthetic fallback
	change, ok := out["FAIL"]
	assert.True(t, ok)
	assert.Nil(t, change)

	assert.Equal(t, 2, client.callCount("GetPriceChange"))
}

func TestBatchPriceChanges_DemoMode(t *testing.T) {
	svc := NewService(nil, newMemCache(), common.NewSilentLogger())

	out := svc.BatchPriceChanges(context.Background(), []string{"AAPL"})
	change, ok := out["AAPL"]
	assert.True(t, ok)
	assert.Nil(t, change)
}
