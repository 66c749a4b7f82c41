package interfaces

import (
	"context"

	"github.com/stockdeck/stockdeck/internal/models"
)

// MarketDataService resolves market data through the cache → live → stale →
// mock chain. Methods never return errors for data reasons: every request
// resolves to some value, worst case synthetic.
type MarketDataService interface {
	Quote(ctx context.Context, symbol string) *models.Quote
	PriceChange(ctx context.Context, symbol string) *models.PriceChangeSet
	Profile(ctx context.Context, symbol string) *models.Profile
	DailyHistory(ctx context.Context, symbol string) []models.HistoryPoint
	IncomeStatements(ctx context.Context, symbol string) []models.IncomeStatement
	BalanceSheets(ctx context.Context, symbol string) []models.BalanceSheet
	CashFlowStatements(ctx context.Context, symbol string) []models.CashFlowStatement
	KeyMetrics(ctx context.Context, symbol string) *models.KeyMetrics
	Ratios(ctx context.Context, symbol string) *models.Ratios
	TreasuryRates(ctx context.Context) *models.TreasuryRates
	News(ctx context.Context, symbol string) []models.NewsItem
	Search(ctx context.Context, query string) []models.SearchResult
	SectorPerformance(ctx context.Context) []models.SectorPerformance
	PriceTarget(ctx context.Context, symbol string) *models.PriceTarget
	RSI(ctx context.Context, symbol string) []models.TechnicalPoint
	SMA(ctx context.Context, symbol string, period int) []models.TechnicalPoint
	SharesFloat(ctx context.Context, symbol string) *models.SharesFloat
	InstitutionalHolders(ctx context.Context, symbol string) []models.InstitutionalHolder
	DebtMaturity(ctx context.Context, symbol string) []models.DebtMaturity

	// Batch variants. Results are keyed by symbol: callers must not assume
	// any ordering.
	BatchQuotes(ctx context.Context, symbols []string) map[string]*models.Quote
	BatchProfiles(ctx context.Context, symbols []string) map[string]*models.Profile
	BatchPriceChanges(ctx context.Context, symbols []string) map[string]*models.PriceChangeSet
}

// CuratedService wraps the external curated-list backend with the app's
// error policy: reads degrade to empty results, mutations propagate errors.
type CuratedService interface {
	ListStocks(ctx context.Context) []*models.CuratedStock
	AddStock(ctx context.Context, ticker, notes string) (*models.CuratedStock, error)
	UpdateNotes(ctx context.Context, id, notes string) (*models.CuratedStock, error)
	RemoveStock(ctx context.Context, id string) error
	Reorder(ctx context.Context, ordered []*models.CuratedStock) error

	ThesisEntries(ctx context.Context, stockID string) []*models.ThesisEntry
	AllThesisEntries(ctx context.Context) []*models.ThesisEntry
	AddThesisEntry(ctx context.Context, stockID, content string) (*models.ThesisEntry, error)
	DeleteThesisEntry(ctx context.Context, id string) error

	// Refresh returns a channel that receives one signal per burst of
	// backend row changes.
	Refresh() <-chan struct{}
}
