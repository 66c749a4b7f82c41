package fmp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/stockdeck/stockdeck/internal/models"
)

// pctScale converts a fractional ratio to a display percentage.
func pctScale(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return models.Float(*v * 100)
}

type incomeStatementResponse struct {
	Date                  string   `json:"date"`
	Period                string   `json:"period"`
	Revenue               *float64 `json:"revenue"`
	GrossProfit           *float64 `json:"grossProfit"`
	OperatingIncome       *float64 `json:"operatingIncome"`
	NetIncome             *float64 `json:"netIncome"`
	EPS                   *float64 `json:"eps"`
	EPSDiluted            *float64 `json:"epsdiluted"`
	GrossProfitRatio      *float64 `json:"grossProfitRatio"`
	OperatingIncomeRatio  *float64 `json:"operatingIncomeRatio"`
	NetIncomeRatio        *float64 `json:"netIncomeRatio"`
	EBITDA                *float64 `json:"ebitda"`
	RnDExpenses           *float64 `json:"researchAndDevelopmentExpenses"`
	SellingMarketExpenses *float64 `json:"sellingAndMarketingExpenses"`
}

// GetIncomeStatements retrieves the most recent income statements.
func (c *Client) GetIncomeStatements(ctx context.Context, symbol string, limit int) ([]models.IncomeStatement, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("limit", strconv.Itoa(limit))

	var stmts []incomeStatementResponse
	if err := c.get(ctx, "/income-statement", params, &stmts); err != nil {
		return nil, err
	}
	if len(stmts) == 0 {
		return nil, fmt.Errorf("income statement %s: %w", symbol, ErrNoData)
	}

	result := make([]models.IncomeStatement, len(stmts))
	for i, stmt := range stmts {
		result[i] = models.IncomeStatement{
			Date:            stmt.Date,
			Period:          stmt.Period,
			Revenue:         stmt.Revenue,
			GrossProfit:     stmt.GrossProfit,
			OperatingIncome: stmt.OperatingIncome,
			NetIncome:       stmt.NetIncome,
			EPS:             stmt.EPS,
			EPSDiluted:      stmt.EPSDiluted,
			GrossMargin:     pctScale(stmt.GrossProfitRatio),
			OperatingMargin: pctScale(stmt.OperatingIncomeRatio),
			NetMargin:       pctScale(stmt.NetIncomeRatio),
			EBITDA:          stmt.EBITDA,
			RnD:             stmt.RnDExpenses,
			SellingMarket:   stmt.SellingMarketExpenses,
		}
	}
	return result, nil
}

type balanceSheetResponse struct {
	Date                   string   `json:"date"`
	Period                 string   `json:"period"`
	TotalAssets            *float64 `json:"totalAssets"`
	TotalLiabilities       *float64 `json:"totalLiabilities"`
	TotalStockholdersEq    *float64 `json:"totalStockholdersEquity"`
	CashAndCashEquivalents *float64 `json:"cashAndCashEquivalents"`
	ShortTermInvestments   *float64 `json:"shortTermInvestments"`
	TotalDebt              *float64 `json:"totalDebt"`
	LongTermDebt           *float64 `json:"longTermDebt"`
	ShortTermDebt          *float64 `json:"shortTermDebt"`
	NetDebt                *float64 `json:"netDebt"`
	Inventory              *float64 `json:"inventory"`
	NetReceivables         *float64 `json:"netReceivables"`
	AccountPayables        *float64 `json:"accountPayables"`
	Goodwill               *float64 `json:"goodwill"`
	IntangibleAssets       *float64 `json:"intangibleAssets"`
}

// GetBalanceSheets retrieves the most recent balance sheets.
func (c *Client) GetBalanceSheets(ctx context.Context, symbol string, limit int) ([]models.BalanceSheet, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("limit", strconv.Itoa(limit))

	var stmts []balanceSheetResponse
	if err := c.get(ctx, "/balance-sheet-statement", params, &stmts); err != nil {
		return nil, err
	}
	if len(stmts) == 0 {
		return nil, fmt.Errorf("balance sheet %s: %w", symbol, ErrNoData)
	}

	result := make([]models.BalanceSheet, len(stmts))
	for i, stmt := range stmts {
		result[i] = models.BalanceSheet{
			Date:               stmt.Date,
			Period:             stmt.Period,
			TotalAssets:        stmt.TotalAssets,
			TotalLiabilities:   stmt.TotalLiabilities,
			TotalEquity:        stmt.TotalStockholdersEq,
			CashAndEquivalents: stmt.CashAndCashEquivalents,
			ShortTermInvest:    stmt.ShortTermInvestments,
			TotalDebt:          stmt.TotalDebt,
			LongTermDebt:       stmt.LongTermDebt,
			ShortTermDebt:      stmt.ShortTermDebt,
			NetDebt:            stmt.NetDebt,
			Inventory:          stmt.Inventory,
			Receivables:        stmt.NetReceivables,
			Payables:           stmt.AccountPayables,
			Goodwill:           stmt.Goodwill,
			IntangibleAssets:   stmt.IntangibleAssets,
		}
	}
	return result, nil
}

type cashFlowResponse struct {
	Date                 string   `json:"date"`
	Period               string   `json:"period"`
	OperatingCashFlow    *float64 `json:"operatingCashFlow"`
	CapitalExpenditure   *float64 `json:"capitalExpenditure"`
	FreeCashFlow         *float64 `json:"freeCashFlow"`
	DividendsPaid        *float64 `json:"dividendsPaid"`
	CommonStockRepurch   *float64 `json:"commonStockRepurchased"`
	DebtRepayment        *float64 `json:"debtRepayment"`
	NetCashFromOps       *float64 `json:"netCashProvidedByOperatingActivities"`
	NetCashFromInvesting *float64 `json:"netCashUsedForInvestingActivites"`
	NetCashFromFinancing *float64 `json:"netCashUsedProvidedByFinancingActivities"`
	NetChangeInCash      *float64 `json:"netChangeInCash"`
}

// GetCashFlowStatements retrieves the most recent cash flow statements.
func (c *Client) GetCashFlowStatements(ctx context.Context, symbol string, limit int) ([]models.CashFlowStatement, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("limit", strconv.Itoa(limit))

	var stmts []cashFlowResponse
	if err := c.get(ctx, "/cash-flow-statement", params, &stmts); err != nil {
		return nil, err
	}
	if len(stmts) == 0 {
		return nil, fmt.Errorf("cash flow %s: %w", symbol, ErrNoData)
	}

	result := make([]models.CashFlowStatement, len(stmts))
	for i, stmt := range stmts {
		result[i] = models.CashFlowStatement{
			Date:              stmt.Date,
			Period:            stmt.Period,
			OperatingCashFlow: stmt.OperatingCashFlow,
			CapEx:             stmt.CapitalExpenditure,
			FreeCashFlow:      stmt.FreeCashFlow,
			DividendsPaid:     stmt.DividendsPaid,
			StockRepurchased:  stmt.CommonStockRepurch,
			DebtRepayment:     stmt.DebtRepayment,
			NetCashOperations: stmt.NetCashFromOps,
			NetCashInvesting:  stmt.NetCashFromInvesting,
			NetCashFinancing:  stmt.NetCashFromFinancing,
			NetChangeInCash:   stmt.NetChangeInCash,
		}
	}
	return result, nil
}

type keyMetricsResponse struct {
	Date                      string   `json:"date"`
	RevenuePerShare           *float64 `json:"revenuePerShare"`
	NetIncomePerShare         *float64 `json:"netIncomePerShare"`
	OperatingCashFlowPerShare *float64 `json:"operatingCashFlowPerShare"`
	FreeCashFlowPerShare      *float64 `json:"freeCashFlowPerShare"`
	BookValuePerShare         *float64 `json:"bookValuePerShare"`
	EnterpriseValue           *float64 `json:"enterpriseValue"`
	EVToSales                 *float64 `json:"evToSales"`
	EVOverEBITDA              *float64 `json:"enterpriseValueOverEBITDA"`
	EVToFreeCashFlow          *float64 `json:"evToFreeCashFlow"`
	DebtToEquity              *float64 `json:"debtToEquity"`
	DebtToAssets              *float64 `json:"debtToAssets"`
	CurrentRatio              *float64 `json:"currentRatio"`
	InterestCoverage          *float64 `json:"interestCoverage"`
	ROE                       *float64 `json:"roe"`
	ReturnOnTangibleAssets    *float64 `json:"returnOnTangibleAssets"`
	ROIC                      *float64 `json:"roic"`
	DividendYield             *float64 `json:"dividendYield"`
	PayoutRatio               *float64 `json:"payoutRatio"`
	PriceToSalesRatio         *float64 `json:"priceToSalesRatio"`
	PBRatio                   *float64 `json:"pbRatio"`
	PFCFRatio                 *float64 `json:"pfcfRatio"`
}

// GetKeyMetrics retrieves the latest key valuation metrics.
func (c *Client) GetKeyMetrics(ctx context.Context, symbol string) (*models.KeyMetrics, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("limit", "1")

	var metrics []keyMetricsResponse
	if err := c.get(ctx, "/key-metrics", params, &metrics); err != nil {
		return nil, err
	}
	if len(metrics) == 0 {
		return nil, fmt.Errorf("key metrics %s: %w", symbol, ErrNoData)
	}

	m := metrics[0]
	return &models.KeyMetrics{
		Date:                m.Date,
		RevenuePerShare:     m.RevenuePerShare,
		NetIncomePerShare:   m.NetIncomePerShare,
		OCFPerShare:         m.OperatingCashFlowPerShare,
		FCFPerShare:         m.FreeCashFlowPerShare,
		BookValuePerShare:   m.BookValuePerShare,
		EnterpriseValue:     m.EnterpriseValue,
		EVToSales:           m.EVToSales,
		EVToEBITDA:          m.EVOverEBITDA,
		EVToFreeCashFlow:    m.EVToFreeCashFlow,
		DebtToEquity:        m.DebtToEquity,
		DebtToAssets:        m.DebtToAssets,
		CurrentRatio:        m.CurrentRatio,
		InterestCoverage:    m.InterestCoverage,
		ROE:                 m.ROE,
		ROA:                 m.ReturnOnTangibleAssets,
		ROIC:                m.ROIC,
		DividendYield:       m.DividendYield,
		PayoutRatio:         m.PayoutRatio,
		PriceToSales:        m.PriceToSalesRatio,
		PriceToBook:         m.PBRatio,
		PriceToFreeCashFlow: m.PFCFRatio,
	}, nil
}

type ratiosResponse struct {
	Date                     string   `json:"date"`
	CurrentRatio             *float64 `json:"currentRatio"`
	QuickRatio               *float64 `json:"quickRatio"`
	CashRatio                *float64 `json:"cashRatio"`
	GrossProfitMargin        *float64 `json:"grossProfitMargin"`
	OperatingProfitMargin    *float64 `json:"operatingProfitMargin"`
	NetProfitMargin          *float64 `json:"netProfitMargin"`
	ReturnOnEquity           *float64 `json:"returnOnEquity"`
	ReturnOnAssets           *float64 `json:"returnOnAssets"`
	ReturnOnCapitalEmployed  *float64 `json:"returnOnCapitalEmployed"`
	DebtEquityRatio          *float64 `json:"debtEquityRatio"`
	DebtRatio                *float64 `json:"debtRatio"`
	InterestCoverage         *float64 `json:"interestCoverage"`
	AssetTurnover            *float64 `json:"assetTurnover"`
	PriceEarningsRatio       *float64 `json:"priceEarningsRatio"`
	PriceEarningsToGrowth    *float64 `json:"priceEarningsToGrowthRatio"`
	PriceToSalesRatio        *float64 `json:"priceToSalesRatio"`
	PriceToBookRatio         *float64 `json:"priceToBookRatio"`
	DividendYield            *float64 `json:"dividendYield"`
	PayoutRatio              *float64 `json:"payoutRatio"`
}

// GetRatios retrieves the latest financial ratios.
func (c *Client) GetRatios(ctx context.Context, symbol string) (*models.Ratios, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("limit", "1")

	var ratios []ratiosResponse
	if err := c.get(ctx, "/ratios", params, &ratios); err != nil {
		return nil, err
	}
	if len(ratios) == 0 {
		return nil, fmt.Errorf("ratios %s: %w", symbol, ErrNoData)
	}

	r := ratios[0]
	return &models.Ratios{
		Date:             r.Date,
		CurrentRatio:     r.CurrentRatio,
		QuickRatio:       r.QuickRatio,
		CashRatio:        r.CashRatio,
		GrossMargin:      r.GrossProfitMargin,
		OperatingMargin:  r.OperatingProfitMargin,
		NetMargin:        r.NetProfitMargin,
		ROE:              r.ReturnOnEquity,
		ROA:              r.ReturnOnAssets,
		ROIC:             r.ReturnOnCapitalEmployed,
		DebtEquityRatio:  r.DebtEquityRatio,
		DebtRatio:        r.DebtRatio,
		InterestCoverage: r.InterestCoverage,
		AssetTurnover:    r.AssetTurnover,
		PERatio:          r.PriceEarningsRatio,
		PEGRatio:         r.PriceEarningsToGrowth,
		PriceToSales:     r.PriceToSalesRatio,
		PriceToBook:      r.PriceToBookRatio,
		DividendYield:    r.DividendYield,
		PayoutRatio:      r.PayoutRatio,
	}, nil
}
