package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdeck/stockdeck/internal/clients/fmp"
	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/models"
)

// memCache is an in-memory CacheStore for tests.
type memCache struct {
	mu      sync.Mutex
	entries map[string]memEntry
	kinds   map[string]common.DataKind
	sets    int
}

type memEntry struct {
	data    []byte
	expired bool
}

func newMemCache() *memCache {
	return &memCache{
		entries: make(map[string]memEntry),
		kinds:   make(map[string]common.DataKind),
	}
}

func (c *memCache) Get(ctx context.Context, key string, out any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.expired {
		return false
	}
	return json.Unmarshal(e.data, out) == nil
}

func (c *memCache) GetStale(ctx context.Context, key string, out any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(e.data, out) == nil
}

func (c *memCache) Set(ctx context.Context, key string, value any, kind common.DataKind) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memEntry{data: raw}
	c.kinds[key] = kind
	c.sets++
}

func (c *memCache) Close() error { return nil }

// put stores a value directly, optionally marked expired.
func (c *memCache) put(key string, value any, expired bool) {
	raw, _ := json.Marshal(value)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memEntry{data: raw, expired: expired}
}

func (c *memCache) setCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

// kindFor reports the data kind the last Set for key used.
func (c *memCache) kindFor(key string) common.DataKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kinds[key]
}

// stubClient is a scripted MarketAPIClient. Unscripted methods report no
// data. Call counts are tracked per method name.
type stubClient struct {
	mu    sync.Mutex
	calls map[string]int

	getQuote         func(ctx context.Context, symbol string) (*models.Quote, error)
	getBatchQuotes   func(ctx context.Context, symbols []string) ([]*models.Quote, error)
	getPriceChange   func(ctx context.Context, symbol string) (*models.PriceChangeSet, error)
	getProfile       func(ctx context.Context, symbol string) (*models.Profile, error)
	getBatchProfiles func(ctx context.Context, symbols []string) ([]*models.Profile, error)
	getDailyHistory  func(ctx context.Context, symbol string) ([]models.HistoryPoint, error)
	getTreasuryRates func(ctx context.Context) (*models.TreasuryRates, error)
	searchSymbols    func(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
	getSharesFloat   func(ctx context.Context, symbol string) (*models.SharesFloat, error)
}

func newStubClient() *stubClient {
	return &stubClient{calls: make(map[string]int)}
}

func (c *stubClient) record(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[name]++
}

func (c *stubClient) callCount(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

func (c *stubClient) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	c.record("GetQuote")
	if c.getQuote != nil {
		return c.getQuote(ctx, symbol)
	}
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetBatchQuotes(ctx context.Context, symbols []string) ([]*models.Quote, error) {
	c.record("GetBatchQuotes")
	if c.getBatchQuotes != nil {
		return c.getBatchQuotes(ctx, symbols)
	}
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetPriceChange(ctx context.Context, symbol string) (*models.PriceChangeSet, error) {
	c.record("GetPriceChange")
	if c.getPriceChange != nil {
		return c.getPriceChange(ctx, symbol)
	}
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetProfile(ctx context.Context, symbol string) (*models.Profile, error) {
	c.record("GetProfile")
	if c.getProfile != nil {
		return c.getProfile(ctx, symbol)
	}
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetBatchProfiles(ctx context.Context, symbols []string) ([]*models.Profile, error) {
	c.record("GetBatchProfiles")
	if c.getBatchProfiles != nil {
		return c.getBatchProfiles(ctx, symbols)
	}
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetDailyHistory(ctx context.Context, symbol string) ([]models.HistoryPoint, error) {
	c.record("GetDailyHistory")
	if c.getDailyHistory != nil {
		return c.getDailyHistory(ctx, symbol)
	}
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetIncomeStatements(ctx context.Context, symbol string, limit int) ([]models.IncomeStatement, error) {
	c.record("GetIncomeStatements")
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetBalanceSheets(ctx context.Context, symbol string, limit int) ([]models.BalanceSheet, error) {
	c.record("GetBalanceSheets")
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetCashFlowStatements(ctx context.Context, symbol string, limit int) ([]models.CashFlowStatement, error) {
	c.record("GetCashFlowStatements")
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetKeyMetrics(ctx context.Context, symbol string) (*models.KeyMetrics, error) {
	c.record("GetKeyMetrics")
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetRatios(ctx context.Context, symbol string) (*models.Ratios, error) {
	c.record("GetRatios")
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetTreasuryRates(ctx context.Context) (*models.TreasuryRates, error) {
	c.record("GetTreasuryRates")
	if c.getTreasuryRates != nil {
		return c.getTreasuryRates(ctx)
	}
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	c.record("GetNews")
	return nil, fmp.ErrNoData
}

func (c *stubClient) SearchSymbols(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	c.record("SearchSymbols")
	if c.searchSymbols != nil {
		return c.searchSymbols(ctx, query, limit)
	}
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetSectorPerformance(ctx context.Context) ([]models.SectorPerformance, error) {
	c.record("GetSectorPerformance")
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetPriceTarget(ctx context.Context, symbol string) (*models.PriceTarget, error) {
	c.record("GetPriceTarget")
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetRSI(ctx context.Context, symbol string) ([]models.TechnicalPoint, error) {
	c.record("GetRSI")
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetSMA(ctx context.Context, symbol string, period int) ([]models.TechnicalPoint, error) {
	c.record("GetSMA")
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetSharesFloat(ctx context.Context, symbol string) (*models.SharesFloat, error) {
	c.record("GetSharesFloat")
	if c.getSharesFloat != nil {
		return c.getSharesFloat(ctx, symbol)
	}
	return nil, fmp.ErrNoData
}

func (c *stubClient) GetInstitutionalHolders(ctx context.Context, symbol string) ([]models.InstitutionalHolder, error) {
	c.record("GetInstitutionalHolders")
	return nil, fmp.ErrNoData
}

func TestQuote_DemoMode(t *testing.T) {
	cache := newMemCache()
	svc := NewService(nil, cache, common.NewSilentLogger())

	q := svc.Quote(context.Background(), "NVDA")
	require.NotNil(t, q)
	assert.Equal(t, 135.58, *q.Price)

	// Demo mode serves synthetic data without touching the cache.
	assert.Equal(t, 0, cache.setCount())
}

func TestQuote_FreshCacheHit(t *testing.T) {
	cache := newMemCache()
	client := newStubClient()
	svc := NewService(client, cache, common.NewSilentLogger())

	cache.put("fmp/quote/AAPL", &models.Quote{Symbol: "AAPL", Price: models.Float(215)}, false)

	q := svc.Quote(context.Background(), "aapl")
	require.NotNil(t, q)
	assert.Equal(t, 215.0, *q.Price)
	assert.Equal(t, 0, client.callCount("GetQuote"))
}

func TestQuote_LiveFetchWritesThrough(t *testing.T) {
	cache := newMemCache()
	client := newStubClient()
	client.getQuote = func(ctx context.Context, symbol string) (*models.Quote, error) {
		return &models.Quote{Symbol: symbol, Price: models.Float(101.5), ChangePercent: models.Float(1.5)}, nil
	}
	svc := NewService(client, cache, common.NewSilentLogger())

	q := svc.Quote(context.Background(), "ABC")
	require.NotNil(t, q)
	assert.Equal(t, 101.5, *q.Price)
	assert.Equal(t, 1.5, *q.ChangePercent)

	// Second call is answered from cache.
	q = svc.Quote(context.Background(), "ABC")
	assert.Equal(t, 101.5, *q.Price)
	assert.Equal(t, 1, client.callCount("GetQuote"))
}

func TestQuote_FailureServesStale(t *testing.T) {
	cache := newMemCache()
	client := newStubClient()
	client.getQuote = func(ctx context.Context, symbol string) (*models.Quote, error) {
		return nil, errors.New("connection refused")
	}
	svc := NewService(client, cache, common.NewSilentLogger())

	cache.put("fmp/quote/XYZ", &models.Quote{Symbol: "XYZ", Price: models.Float(50)}, true)

	q := svc.Quote(context.Background(), "XYZ")
	require.NotNil(t, q)
	assert.Equal(t, 50.0, *q.Price)
	assert.Equal(t, 1, client.callCount("GetQuote"))
}

func TestQuote_NoDataTreatedAsFailure(t *testing.T) {
	cache := newMemCache()
	client := newStubClient() // every method reports no data
	svc := NewService(client, cache, common.NewSilentLogger())

	cache.put("fmp/quote/XYZ", &models.Quote{Symbol: "XYZ", Price: models.Float(50)}, true)

	q := svc.Quote(context.Background(), "XYZ")
	require.NotNil(t, q)
	assert.Equal(t, 50.0, *q.Price)
}

func TestQuote_MockLastResort(t *testing.T) {
	cache := newMemCache()
	client := newStubClient()
	svc := NewService(client, cache, common.NewSilentLogger())

	q := svc.Quote(context.Background(), "ZZZZ")
	require.NotNil(t, q)
	assert.Equal(t, 150.0, *q.Price)
	assert.Equal(t, 148.5, *q.PrevClose)
}

func TestQuote_StalePreferredOverMock(t *testing.T) {
	cache := newMemCache()
	client := newStubClient()
	svc := NewService(client, cache, common.NewSilentLogger())

	// NVDA is in the synthetic table, but the stale cached value must win.
	cache.put("fmp/quote/NVDA", &models.Quote{Symbol: "NVDA", Price: models.Float(120)}, true)

	q := svc.Quote(context.Background(), "NVDA")
	require.NotNil(t, q)
	assert.Equal(t, 120.0, *q.Price)
}

func TestQuote_ConcurrentRequestsShareFetch(t *testing.T) {
	cache := newMemCache()
	client := newStubClient()
	client.getQuote = func(ctx context.Context, symbol string) (*models.Quote, error) {
		time.Sleep(50 * time.Millisecond)
		return &models.Quote{Symbol: symbol, Price: models.Float(10)}, nil
	}
	svc := NewService(client, cache, common.NewSilentLogger())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q := svc.Quote(context.Background(), "AAPL")
			assert.Equal(t, 10.0, *q.Price)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, client.callCount("GetQuote"))
}

func TestPriceChange_NoSyntheticFallback(t *testing.T) {
	cache := newMemCache()
	client := newStubClient()
	svc := NewService(client, cache, common.NewSilentLogger())

	assert.Nil(t, svc.PriceChange(context.Background(), "AAPL"))
}

func TestPriceChange_DemoMode(t *testing.T) {
	svc := NewService(nil, newMemCache(), common.NewSilentLogger())
	assert.Nil(t, svc.PriceChange(context.Background(), "AAPL"))
}

func TestDailyHistory_SyntheticAnchoredToTablePrice(t *testing.T) {
	svc := NewService(nil, newMemCache(), common.NewSilentLogger())

	series := svc.DailyHistory(context.Background(), "NVDA")
	require.NotEmpty(t, series)
	assert.Equal(t, 135.58, series[len(series)-1].Price)
}

func TestTreasuryRates_DemoMode(t *testing.T) {
	svc := NewService(nil, newMemCache(), common.NewSilentLogger())

	rates := svc.TreasuryRates(context.Background())
	require.NotNil(t, rates)
	assert.Equal(t, 4.45, *rates.Year10)
}

func TestSearch_DemoMode(t *testing.T) {
	svc := NewService(nil, newMemCache(), common.NewSilentLogger())

	results := svc.Search(context.Background(), "nvda")
	require.NotEmpty(t, results)
	assert.Equal(t, "NVDA", results[0].Symbol)
}

func TestSharesFloat_CachedAsMacro(t *testing.T) {
	cache := newMemCache()
	client := newStubClient()
	client.getSharesFloat = func(ctx context.Context, symbol string) (*models.SharesFloat, error) {
		return &models.SharesFloat{Symbol: symbol, FloatShares: models.Float(2.4e10)}, nil
	}
	svc := NewService(client, cache, common.NewSilentLogger())

	sf := svc.SharesFloat(context.Background(), "NVDA")
	require.NotNil(t, sf)
	assert.Equal(t, 2.4e10, *sf.FloatShares)

	// Float data refreshes daily, not on the 30-day financials cycle.
	assert.Equal(t, common.KindMacro, cache.kindFor("fmp/float/NVDA"))
}

func TestDebtMaturity_AlwaysSynthetic(t *testing.T) {
	cache := newMemCache()
	client := newStubClient()
	svc := NewService(client, cache, common.NewSilentLogger())

	schedule := svc.DebtMaturity(context.Background(), "AAPL")
	require.Len(t, schedule, 5)

	// No upstream endpoint, no cache involvement.
	assert.Empty(t, client.calls)
	assert.Equal(t, 0, cache.setCount())
}
