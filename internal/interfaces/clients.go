// Package interfaces defines service contracts for Stockdeck
package interfaces

import (
	"context"

	"github.com/stockdeck/stockdeck/internal/models"
)

// MarketAPIClient is the raw HTTP client for the upstream market-data API.
// Every method returns the kind-specific normalized model on success. An
// upstream response that is a well-formed empty collection, or that carries
// an explicit error-message field, is returned as fmp.ErrNoData — callers
// treat it exactly like a transport failure.
type MarketAPIClient interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	GetBatchQuotes(ctx context.Context, symbols []string) ([]*models.Quote, error)
	GetPriceChange(ctx context.Context, symbol string) (*models.PriceChangeSet, error)
	GetProfile(ctx context.Context, symbol string) (*models.Profile, error)
	GetBatchProfiles(ctx context.Context, symbols []string) ([]*models.Profile, error)
	GetDailyHistory(ctx context.Context, symbol string) ([]models.HistoryPoint, error)
	GetIncomeStatements(ctx context.Context, symbol string, limit int) ([]models.IncomeStatement, error)
	GetBalanceSheets(ctx context.Context, symbol string, limit int) ([]models.BalanceSheet, error)
	GetCashFlowStatements(ctx context.Context, symbol string, limit int) ([]models.CashFlowStatement, error)
	GetKeyMetrics(ctx context.Context, symbol string) (*models.KeyMetrics, error)
	GetRatios(ctx context.Context, symbol string) (*models.Ratios, error)
	GetTreasuryRates(ctx context.Context) (*models.TreasuryRates, error)
	GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error)
	SearchSymbols(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
	GetSectorPerformance(ctx context.Context) ([]models.SectorPerformance, error)
	GetPriceTarget(ctx context.Context, symbol string) (*models.PriceTarget, error)
	GetRSI(ctx context.Context, symbol string) ([]models.TechnicalPoint, error)
	GetSMA(ctx context.Context, symbol string, period int) ([]models.TechnicalPoint, error)
	GetSharesFloat(ctx context.Context, symbol string) (*models.SharesFloat, error)
	GetInstitutionalHolders(ctx context.Context, symbol string) ([]models.InstitutionalHolder, error)
}
