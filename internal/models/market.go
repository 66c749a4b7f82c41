// Package models defines the data structures used throughout Stockdeck
package models

// Quote is the latest market snapshot for a symbol. Numeric fields are
// pointers: nil means the upstream did not report the value, which is
// distinct from a reported zero.
type Quote struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
	Volume        *int64   `json:"volume,omitempty"`
	AvgVolume     *int64   `json:"avgVolume,omitempty"`
	PrevClose     *float64 `json:"prevClose,omitempty"`
	DayHigh       *float64 `json:"dayHigh,omitempty"`
	DayLow        *float64 `json:"dayLow,omitempty"`
	YearHigh      *float64 `json:"yearHigh,omitempty"`
	YearLow       *float64 `json:"yearLow,omitempty"`
	MarketCap     *float64 `json:"marketCap,omitempty"`
	PE            *float64 `json:"pe,omitempty"`
	EPS           *float64 `json:"eps,omitempty"`
}

// PriceChangeSet maps display periods to percent changes. A nil entry
// means "unknown", never "flat".
type PriceChangeSet struct {
	OneDay    *float64 `json:"1D"`
	OneWeek   *float64 `json:"1W"`
	OneMonth  *float64 `json:"1M"`
	ThreeMo   *float64 `json:"3M"`
	SixMo     *float64 `json:"6M"`
	OneYear   *float64 `json:"1Y"`
	YearToDay *float64 `json:"YTD"`
}

// Profile is the slow-changing descriptive data for a symbol.
type Profile struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Sector        string   `json:"sector,omitempty"`
	Industry      string   `json:"industry,omitempty"`
	Description   string   `json:"description,omitempty"`
	CEO           string   `json:"ceo,omitempty"`
	Website       string   `json:"website,omitempty"`
	Exchange      string   `json:"exchange,omitempty"`
	Country       string   `json:"country,omitempty"`
	IPODate       string   `json:"ipoDate,omitempty"`
	Image         string   `json:"image,omitempty"`
	Employees     *int64   `json:"employees,omitempty"`
	MarketCap     *float64 `json:"marketCap,omitempty"`
	PERatio       *float64 `json:"peRatio,omitempty"`
	ForwardPE     *float64 `json:"forwardPE,omitempty"`
	PEGRatio      *float64 `json:"pegRatio,omitempty"`
	TrailingPE    *float64 `json:"trailingPE,omitempty"`
	DividendYield *float64 `json:"dividend,omitempty"`
	Beta          *float64 `json:"beta,omitempty"`
	Price         *float64 `json:"price,omitempty"`
}

// HistoryPoint is one trading-day record in a price series. Live series
// carry the OHLCV fields; synthetic series additionally carry the derived
// technical and fundamental fields so downstream consumers cannot tell
// them apart structurally.
type HistoryPoint struct {
	Date          string   `json:"date"`
	Price         float64  `json:"price"`
	Open          *float64 `json:"open,omitempty"`
	High          *float64 `json:"high,omitempty"`
	Low           *float64 `json:"low,omitempty"`
	Volume        *int64   `json:"volume,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
	VWAP          *float64 `json:"vwap,omitempty"`

	// Technicals (synthetic series only)
	MA50 *float64 `json:"ma50,omitempty"`
	RSI  *float64 `json:"rsi,omitempty"`
	PE   *float64 `json:"pe,omitempty"`

	// Fundamentals (synthetic series only)
	Revenue     *float64 `json:"revenue,omitempty"`
	Earnings    *float64 `json:"earnings,omitempty"`
	EBITDA      *float64 `json:"ebitda,omitempty"`
	GrossMargin *float64 `json:"grossMargin,omitempty"`
	NetMargin   *float64 `json:"netMargin,omitempty"`
	OCF         *float64 `json:"ocf,omitempty"`
	FCF         *float64 `json:"fcf,omitempty"`
	CapEx       *float64 `json:"capex,omitempty"`
	TotalDebt   *float64 `json:"totalDebt,omitempty"`
	Cash        *float64 `json:"cash,omitempty"`
	NetDebt     *float64 `json:"netDebt,omitempty"`
}

// TreasuryRates is a macro snapshot of treasury yields at standard tenors.
type TreasuryRates struct {
	Date   string   `json:"date"`
	Month1 *float64 `json:"month1,omitempty"`
	Month3 *float64 `json:"month3,omitempty"`
	Year2  *float64 `json:"year2,omitempty"`
	Year5  *float64 `json:"year5,omitempty"`
	Year10 *float64 `json:"year10,omitempty"`
	Year30 *float64 `json:"year30,omitempty"`
}

// NewsItem is one news article attached to a symbol.
type NewsItem struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"publishedDate"`
	Site          string `json:"site,omitempty"`
	Text          string `json:"text,omitempty"`
	Image         string `json:"image,omitempty"`
}

// SearchResult is one symbol-search match.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Exchange string `json:"exchange,omitempty"`
}

// SectorPerformance is one sector's snapshot change.
type SectorPerformance struct {
	Sector        string   `json:"sector"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
}

// PriceTarget is the analyst price-target consensus for a symbol.
type PriceTarget struct {
	Symbol          string   `json:"symbol"`
	TargetHigh      *float64 `json:"targetHigh,omitempty"`
	TargetLow       *float64 `json:"targetLow,omitempty"`
	TargetConsensus *float64 `json:"targetConsensus,omitempty"`
	TargetMedian    *float64 `json:"targetMedian,omitempty"`
}

// TechnicalPoint is one dated technical indicator value (RSI, SMA).
type TechnicalPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// SharesFloat describes the tradable share structure for a symbol.
type SharesFloat struct {
	Symbol            string   `json:"symbol"`
	Date              string   `json:"date,omitempty"`
	FreeFloat         *float64 `json:"freeFloat,omitempty"`
	FloatShares       *float64 `json:"floatShares,omitempty"`
	OutstandingShares *float64 `json:"outstandingShares,omitempty"`
}

// InstitutionalHolder is one institutional shareholder position.
type InstitutionalHolder struct {
	Holder        string   `json:"holder"`
	Shares        int64    `json:"shares"`
	DateReported  string   `json:"dateReported,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
}

// IncomeStatement is one fiscal period's income statement, pre-converted
// to display units (margins as percentages).
type IncomeStatement struct {
	Date            string   `json:"date"`
	Period          string   `json:"period"`
	Revenue         *float64 `json:"revenue,omitempty"`
	GrossProfit     *float64 `json:"grossProfit,omitempty"`
	OperatingIncome *float64 `json:"operatingIncome,omitempty"`
	NetIncome       *float64 `json:"netIncome,omitempty"`
	EPS             *float64 `json:"eps,omitempty"`
	EPSDiluted      *float64 `json:"epsDiluted,omitempty"`
	GrossMargin     *float64 `json:"grossMargin,omitempty"`
	OperatingMargin *float64 `json:"operatingMargin,omitempty"`
	NetMargin       *float64 `json:"netMargin,omitempty"`
	EBITDA          *float64 `json:"ebitda,omitempty"`
	RnD             *float64 `json:"researchAndDevelopment,omitempty"`
	SellingMarket   *float64 `json:"sellingAndMarketing,omitempty"`
}

// BalanceSheet is one fiscal period's balance sheet.
type BalanceSheet struct {
	Date               string   `json:"date"`
	Period             string   `json:"period"`
	TotalAssets        *float64 `json:"totalAssets,omitempty"`
	TotalLiabilities   *float64 `json:"totalLiabilities,omitempty"`
	TotalEquity        *float64 `json:"totalEquity,omitempty"`
	CashAndEquivalents *float64 `json:"cashAndEquivalents,omitempty"`
	ShortTermInvest    *float64 `json:"shortTermInvestments,omitempty"`
	TotalDebt          *float64 `json:"totalDebt,omitempty"`
	LongTermDebt       *float64 `json:"longTermDebt,omitempty"`
	ShortTermDebt      *float64 `json:"shortTermDebt,omitempty"`
	NetDebt            *float64 `json:"netDebt,omitempty"`
	Inventory          *float64 `json:"inventory,omitempty"`
	Receivables        *float64 `json:"accountsReceivable,omitempty"`
	Payables           *float64 `json:"accountsPayable,omitempty"`
	Goodwill           *float64 `json:"goodwill,omitempty"`
	IntangibleAssets   *float64 `json:"intangibleAssets,omitempty"`
}

// CashFlowStatement is one fiscal period's cash flow statement.
type CashFlowStatement struct {
	Date              string   `json:"date"`
	Period            string   `json:"period"`
	OperatingCashFlow *float64 `json:"operatingCashFlow,omitempty"`
	CapEx             *float64 `json:"capitalExpenditure,omitempty"`
	FreeCashFlow      *float64 `json:"freeCashFlow,omitempty"`
	DividendsPaid     *float64 `json:"dividendsPaid,omitempty"`
	StockRepurchased  *float64 `json:"stockRepurchased,omitempty"`
	DebtRepayment     *float64 `json:"debtRepayment,omitempty"`
	NetCashOperations *float64 `json:"netCashFromOperations,omitempty"`
	NetCashInvesting  *float64 `json:"netCashFromInvesting,omitempty"`
	NetCashFinancing  *float64 `json:"netCashFromFinancing,omitempty"`
	NetChangeInCash   *float64 `json:"netChangeInCash,omitempty"`
}

// KeyMetrics is the latest-period valuation and efficiency metrics.
type KeyMetrics struct {
	Date                string   `json:"date"`
	RevenuePerShare     *float64 `json:"revenuePerShare,omitempty"`
	NetIncomePerShare   *float64 `json:"netIncomePerShare,omitempty"`
	OCFPerShare         *float64 `json:"operatingCashFlowPerShare,omitempty"`
	FCFPerShare         *float64 `json:"freeCashFlowPerShare,omitempty"`
	BookValuePerShare   *float64 `json:"bookValuePerShare,omitempty"`
	EnterpriseValue     *float64 `json:"enterpriseValue,omitempty"`
	EVToSales           *float64 `json:"evToSales,omitempty"`
	EVToEBITDA          *float64 `json:"evToEbitda,omitempty"`
	EVToFreeCashFlow    *float64 `json:"evToFreeCashFlow,omitempty"`
	DebtToEquity        *float64 `json:"debtToEquity,omitempty"`
	DebtToAssets        *float64 `json:"debtToAssets,omitempty"`
	CurrentRatio        *float64 `json:"currentRatio,omitempty"`
	InterestCoverage    *float64 `json:"interestCoverage,omitempty"`
	ROE                 *float64 `json:"roe,omitempty"`
	ROA                 *float64 `json:"roa,omitempty"`
	ROIC                *float64 `json:"roic,omitempty"`
	DividendYield       *float64 `json:"dividendYield,omitempty"`
	PayoutRatio         *float64 `json:"payoutRatio,omitempty"`
	PriceToSales        *float64 `json:"priceToSales,omitempty"`
	PriceToBook         *float64 `json:"priceToBook,omitempty"`
	PriceToFreeCashFlow *float64 `json:"priceToFreeCashFlow,omitempty"`
}

// Ratios is the latest-period financial ratios.
type Ratios struct {
	Date             string   `json:"date"`
	CurrentRatio     *float64 `json:"currentRatio,omitempty"`
	QuickRatio       *float64 `json:"quickRatio,omitempty"`
	CashRatio        *float64 `json:"cashRatio,omitempty"`
	GrossMargin      *float64 `json:"grossProfitMargin,omitempty"`
	OperatingMargin  *float64 `json:"operatingProfitMargin,omitempty"`
	NetMargin        *float64 `json:"netProfitMargin,omitempty"`
	ROE              *float64 `json:"roe,omitempty"`
	ROA              *float64 `json:"roa,omitempty"`
	ROIC             *float64 `json:"roic,omitempty"`
	DebtEquityRatio  *float64 `json:"debtEquityRatio,omitempty"`
	DebtRatio        *float64 `json:"debtRatio,omitempty"`
	InterestCoverage *float64 `json:"interestCoverage,omitempty"`
	AssetTurnover    *float64 `json:"assetTurnover,omitempty"`
	PERatio          *float64 `json:"peRatio,omitempty"`
	PEGRatio         *float64 `json:"pegRatio,omitempty"`
	PriceToSales     *float64 `json:"priceToSales,omitempty"`
	PriceToBook      *float64 `json:"priceToBook,omitempty"`
	DividendYield    *float64 `json:"dividendYield,omitempty"`
	PayoutRatio      *float64 `json:"payoutRatio,omitempty"`
}

// DebtMaturity is one bucket of a debt maturity schedule, in billions.
type DebtMaturity struct {
	Year   string  `json:"year"`
	Amount float64 `json:"amount"`
}

// Float returns a pointer to v. Helper for building optional numeric fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int64) *int64 { return &v }
