// Package marketdata resolves market data through a fixed chain: fresh
// cache, live fetch (with write-through), stale cache, synthetic fallback.
// Every request resolves to some value; callers never see an error.
package marketdata

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/mockdata"
	"github.com/stockdeck/stockdeck/internal/models"
)

const (
	statementsLimit = 5
	newsLimit       = 20
	searchLimit     = 10
)

// Service implements interfaces.MarketDataService.
type Service struct {
	client interfaces.MarketAPIClient // nil when no API credential is configured
	cache  interfaces.CacheStore
	mock   *mockdata.Provider
	logger *common.Logger
	group  singleflight.Group
}

var _ interfaces.MarketDataService = (*Service)(nil)

// NewService creates a market data service. Pass a nil client to run in
// demo mode: every request is answered from the synthetic provider without
// touching the cache or the network.
func NewService(client interfaces.MarketAPIClient, cache interfaces.CacheStore, logger *common.Logger) *Service {
	return &Service{
		client: client,
		cache:  cache,
		mock:   mockdata.NewProvider(),
		logger: logger,
	}
}

func cacheKey(parts ...string) string {
	return "fmp/" + strings.Join(parts, "/")
}

// resolve runs the resolution chain for one cache key. Concurrent requests
// for the same key share a single live fetch.
func resolve[T any](ctx context.Context, s *Service, key string, kind common.DataKind, fetch func(ctx context.Context) (T, error), mock func() T) T {
	if s.client == nil {
		return mock()
	}

	var cached T
	if s.cache.Get(ctx, key, &cached) {
		return cached
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		live, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, key, live, kind)
		return live, nil
	})
	if err == nil {
		return v.(T)
	}

	s.logger.Warn().Err(err).Str("key", key).Msg("Live fetch failed")

	var stale T
	if s.cache.GetStale(ctx, key, &stale) {
		s.logger.Info().Str("key", key).Msg("Serving stale cached data")
		return stale
	}

	return mock()
}

func (s *Service) Quote(ctx context.Context, symbol string) *models.Quote {
	symbol = strings.ToUpper(symbol)
	return resolve(ctx, s, cacheKey("quote", symbol), common.KindQuote,
		func(ctx context.Context) (*models.Quote, error) { return s.client.GetQuote(ctx, symbol) },
		func() *models.Quote { return s.mock.Quote(symbol) })
}

func (s *Service) PriceChange(ctx context.Context, symbol string) *models.PriceChangeSet {
	symbol = strings.ToUpper(symbol)
	return resolve(ctx, s, cacheKey("pricechange", symbol), common.KindPriceChange,
		func(ctx context.Context) (*models.PriceChangeSet, error) { return s.client.GetPriceChange(ctx, symbol) },
		func() *models.PriceChangeSet { return nil })
}

func (s *Service) Profile(ctx context.Context, symbol string) *models.Profile {
	symbol = strings.ToUpper(symbol)
	return resolve(ctx, s, cacheKey("profile", symbol), common.KindProfile,
		func(ctx context.Context) (*models.Profile, error) { return s.client.GetProfile(ctx, symbol) },
		func() *models.Profile { return s.mock.Profile(symbol) })
}

func (s *Service) DailyHistory(ctx context.Context, symbol string) []models.HistoryPoint {
	symbol = strings.ToUpper(symbol)
	return resolve(ctx, s, cacheKey("history", symbol), common.KindHistory,
		func(ctx context.Context) ([]models.HistoryPoint, error) { return s.client.GetDailyHistory(ctx, symbol) },
		func() []models.HistoryPoint { return s.mock.HistoryFor(symbol, mockdata.DefaultHistoryDays) })
}

func (s *Service) IncomeStatements(ctx context.Context, symbol string) []models.IncomeStatement {
	symbol = strings.ToUpper(symbol)
	return resolve(ctx, s, cacheKey("income", symbol), common.KindFinancials,
		func(ctx context.Context) ([]models.IncomeStatement, error) {
			return s.client.GetIncomeStatements(ctx, symbol, statementsLimit)
		},
		func() []models.IncomeStatement { return nil })
}

func (s *Service) BalanceSheets(ctx context.Context, symbol string) []models.BalanceSheet {
	symbol = strings.ToUpper(symbol)
	return resolve(ctx, s, cacheKey("balance", symbol), common.KindFinancials,
		func(ctx context.Context) ([]models.BalanceSheet, error) {
			return s.client.GetBalanceSheets(ctx, symbol, statementsLimit)
		},
		func() []models.BalanceSheet { return nil })
}

func (s *Service) CashFlowStatements(ctx context.Context, symbol string) []models.CashFlowStatement {
	symbol = strings.ToUpper(symbol)
	return resolve(ctx, s, cacheKey("cashflow", symbol), common.KindFinancials,
		func(ctx context.Context) ([]models.CashFlowStatement, error) {
			return s.client.GetCashFlowStatements(ctx, symbol, statementsLimit)
		},
		func() []models.CashFlowStatement { return nil })
}

func (s *Service) KeyMetrics(ctx context.Context, symbol string) *models.KeyMetrics {
	symbol = strings.ToUpper(symbol)
	return resolve(ctx, s, cacheKey("keymetrics", symbol), common.KindFinancials,
		func(ctx context.Context) (*models.KeyMetrics, error) { return s.client.GetKeyMetrics(ctx, symbol) },
		func() *models.KeyMetrics { return nil })
}

func (s *Service) Ratios(ctx context.Context, symbol string) *models.Ratios {
	symbol = strings.ToUpper(symbol)
	return resolve(ctx, s, cacheKey("ratios", symbol), common.KindFinancials,
		func(ctx context.Context) (*models.Ratios, error) { return s.client.GetRatios(ctx, symbol) },
		func() *models.Ratios { return nil })
}

func (s *Service) TreasuryRates(ctx context.Context) *models.TreasuryRates {
	return resolve(ctx, s, cacheKey("treasury"), common.KindMacro,
		func(ctx context.Context) (*models.TreasuryRates, error) { return s.client.GetTreasuryRates(ctx) },
		func() *models.TreasuryRates { return s.mock.TreasuryRates() })
}

func (s *Service) News(ctx context.Context, symbol string) []models.NewsItem {
	symbol = strings.ToUpper(symbol)
	return resolve(ctx, s, cacheKey("news", symbol), common.KindNews,
		func(ctx context.Context) ([]models.NewsItem, error) { return s.client.GetNews(ctx, symbol, newsLimit) },
		func() []models.NewsItem { return nil })
}

func (s *Service) Search(ctx context.Context, query string) []models.SearchResult {
	key := cacheKey("search", strings.ToLower(strings.TrimSpace(query)))
	return resolve(ctx, s, key, common.KindSearch,
		func(ctx context.Context) ([]models.SearchResult, error) {
			return s.client.SearchSymbols(ctx, query, searchLimit)
		},
		func() []models.SearchResult { return s.mock.Search(query) })
}

func (s *Service) SectorPerformance(ctx context.Context) []models.SectorPerformance {
	return resolve(ctx, s, cacheKey("sectors"), common.KindMacro,
		func(ctx context.Context) ([]models.SectorPerformance, error) { return s.client.GetSectorPerformance(ctx) },
		func() []models.SectorPerformance { return nil })
}

func (s *Service) PriceTarget(ctx context.Context, symbol string) *models.PriceTarget {
	symbol = strings.ToUpper(symbol)
	return resolve(ctx, s, cacheKey("pricetarget", symbol), common.KindFinancials,
		func(ctx context.Context) (*models.PriceTarget, error) { return s.client.GetPriceTarget(ctx, symbol) },
		func() *models.PriceTarget { return nil })
}

func (s *Service) RSI(ctx context.Context, symbol string) []models.TechnicalPoint {
	symbol = strings.ToUpper(symbol)
	return resolve(ctx, s, cacheKey("rsi", symbol), common.KindHistory,
		func(ctx context.Context) ([]models.TechnicalPoint, error) { return s.client.GetRSI(ctx, symbol) },
		func() []models.TechnicalPoint { return nil })
}

func (s *Service) SMA(ctx context.Context, symbol string, period int) []models.TechnicalPoint {
	symbol = strings.ToUpper(symbol)
	return resolve(ctx, s, cacheKey("sma", symbol, fmt.Sprintf("%d", period)), common.KindHistory,
		func(ctx context.Context) ([]models.TechnicalPoint, error) { return s.client.GetSMA(ctx, symbol, period) },
		func() []models.TechnicalPoint { return nil })
}

func (s *Service) SharesFloat(ctx context.Context, symbol string) *models.SharesFloat {
	symbol = strings.ToUpper(symbol)
	return resolve(ctx, s, cacheKey("float", symbol), common.KindMacro,
		func(ctx context.Context) (*models.SharesFloat, error) { return s.client.GetSharesFloat(ctx, symbol) },
		func() *models.SharesFloat { return nil })
}

func (s *Service) InstitutionalHolders(ctx context.Context, symbol string) []models.InstitutionalHolder {
	symbol = strings.ToUpper(symbol)
	return resolve(ctx, s, cacheKey("holders", symbol), common.KindFinancials,
		func(ctx context.Context) ([]models.InstitutionalHolder, error) {
			return s.client.GetInstitutionalHolders(ctx, symbol)
		},
		func() []models.InstitutionalHolder { return nil })
}

// DebtMaturity has no upstream endpoint; the schedule is always synthetic.
func (s *Service) DebtMaturity(ctx context.Context, symbol string) []models.DebtMaturity {
	return s.mock.DebtMaturity(strings.ToUpper(symbol))
}
