// Package mockdata generates deterministic synthetic market data. It is the
// last resort of the resolution chain: served when no API credential is
// configured, or when a live fetch fails and no cached value (fresh or
// stale) exists. Output shapes match the normalized live-response shapes so
// downstream consumers cannot tell the difference.
package mockdata

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/stockdeck/stockdeck/internal/models"
)

// stock is one row of the static demo symbol table.
type stock struct {
	Ticker        string
	Name          string
	Price         float64
	Change        float64
	ChangePercent float64
	Sector        string
	MarketCap     float64 // 0 = unknown
	PERatio       float64 // 0 = unknown
	Dividend      float64 // trailing yield percent, 0 = unknown
}

// symbolTable carries a handful of well-known names plus the index ETFs
// used by the market overview, so demo mode renders plausible numbers.
var symbolTable = []stock{
	{Ticker: "NVDA", Name: "Nvidia Corp", Price: 135.58, Change: 2.15, ChangePercent: 1.61, Sector: "Technology", MarketCap: 3.34e12},
	{Ticker: "AAPL", Name: "Apple Inc", Price: 215.00, Change: -1.25, ChangePercent: -0.58, Sector: "Technology", MarketCap: 3.29e12},
	{Ticker: "JPM", Name: "JPMorgan Chase", Price: 198.50, Change: 1.10, ChangePercent: 0.56, Sector: "Financial", MarketCap: 570e9},
	{Ticker: "TSLA", Name: "Tesla Inc", Price: 250.00, Change: 5.50, ChangePercent: 2.25, Sector: "Automotive", MarketCap: 780e9, PERatio: 65.4},
	{Ticker: "MSFT", Name: "Microsoft Corp", Price: 430.00, Change: 0.50, ChangePercent: 0.12, Sector: "Technology", MarketCap: 3.15e12, PERatio: 36.5, Dividend: 0.7},
	{Ticker: "GOOGL", Name: "Alphabet Inc", Price: 175.25, Change: -0.80, ChangePercent: -0.45, Sector: "Technology", MarketCap: 2.18e12, PERatio: 26.8, Dividend: 0.5},
	{Ticker: "AMZN", Name: "Amazon.com Inc", Price: 185.00, Change: 1.25, ChangePercent: 0.68, Sector: "Consumer Cyclical", MarketCap: 1.95e12, PERatio: 45.2},
	{Ticker: "SPY", Name: "SPDR S&P 500", Price: 545.00, Sector: "ETF"},
	{Ticker: "QQQ", Name: "Invesco QQQ", Price: 480.00, Sector: "ETF"},
	{Ticker: "DIA", Name: "SPDR Dow Jones", Price: 405.00, Sector: "ETF"},
}

func lookup(symbol string) *stock {
	symbol = strings.ToUpper(symbol)
	for i := range symbolTable {
		if symbolTable[i].Ticker == symbol {
			return &symbolTable[i]
		}
	}
	return nil
}

// Provider generates synthetic market data. Generators are deterministic:
// the same inputs always produce the same output.
type Provider struct {
	now func() time.Time // injectable clock for testing
}

// NewProvider creates a new fallback data provider.
func NewProvider() *Provider {
	return &Provider{now: time.Now}
}

// SetClock overrides the provider's clock. Test hook.
func (p *Provider) SetClock(now func() time.Time) {
	p.now = now
}

// seededRand returns a rand source keyed on the generator inputs so that
// repeated calls agree.
func seededRand(parts ...string) *rand.Rand {
	h := fnv.New64a()
	for _, part := range parts {
		h.Write([]byte(part))
	}
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// Quote returns a plausible quote for a symbol.
func (p *Provider) Quote(symbol string) *models.Quote {
	s := lookup(symbol)
	if s == nil {
		return &models.Quote{
			Symbol:        strings.ToUpper(symbol),
			Price:         models.Float(150.00),
			Change:        models.Float(1.5),
			ChangePercent: models.Float(1.0),
			Volume:        models.Int(1000000),
			PrevClose:     models.Float(148.5),
		}
	}

	quote := &models.Quote{
		Symbol:        s.Ticker,
		Name:          s.Name,
		Price:         models.Float(s.Price),
		Change:        models.Float(s.Change),
		ChangePercent: models.Float(s.ChangePercent),
		Volume:        models.Int(1500000),
		PrevClose:     models.Float(s.Price - s.Change),
		DayHigh:       models.Float(s.Price * 1.02),
		DayLow:        models.Float(s.Price * 0.98),
		YearHigh:      models.Float(s.Price * 1.3),
		YearLow:       models.Float(s.Price * 0.7),
	}
	if s.PERatio > 0 {
		quote.PE = models.Float(s.PERatio)
	}
	return quote
}

// Profile returns a plausible company profile for a symbol.
func (p *Provider) Profile(symbol string) *models.Profile {
	s := lookup(symbol)
	if s == nil {
		return &models.Profile{
			Symbol:      strings.ToUpper(symbol),
			Name:        strings.ToUpper(symbol),
			Sector:      "Unknown",
			Description: "Mock Description",
		}
	}

	profile := &models.Profile{
		Symbol:      s.Ticker,
		Name:        s.Name,
		Sector:      s.Sector,
		Industry:    "Unknown",
		Description: fmt.Sprintf("(Mock Data) %s is a company in the %s sector.", s.Name, s.Sector),
		CEO:         "Unknown",
	}
	if s.MarketCap > 0 {
		profile.MarketCap = models.Float(s.MarketCap)
	}
	if s.PERatio > 0 {
		profile.PERatio = models.Float(s.PERatio)
	}
	if s.Dividend > 0 {
		profile.DividendYield = models.Float(s.Dividend)
	}
	return profile
}

// DefaultHistoryDays is the length of a synthetic daily series.
const DefaultHistoryDays = 100

// History generates a synthetic daily price series: a random walk starting
// from basePrice*0.9, with per-point technicals and fundamentals derived
// from the walk. The series runs oldest to newest, dates are unique, and
// the final point's price equals basePrice exactly.
func (p *Provider) History(basePrice float64, days int) []models.HistoryPoint {
	if days <= 0 {
		days = DefaultHistoryDays
	}

	rng := seededRand(fmt.Sprintf("history/%.4f/%d", basePrice, days))
	today := p.now()

	data := make([]models.HistoryPoint, 0, days)
	currentPrice := basePrice * 0.9 // start slightly lower to simulate a trend
	baseRevenue := basePrice * 1000000

	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, -(days - i))

		// Random walk with a slight upward drift
		currentPrice += (rng.Float64() - 0.48) * 5

		// Technicals
		ma50 := currentPrice * (1 + math.Sin(float64(i)/5)*0.05)
		volume := int64(rng.Float64()*1000000) + 500000
		if rng.Float64() > 0.9 {
			volume += 1500000 // volume spike
		}
		rsi := 50 + math.Sin(float64(i)/3)*20 + rng.Float64()*10
		pe := currentPrice / (basePrice / 25)

		// Fundamentals: slow compounding growth with jitter
		growthFactor := 1 + float64(i)*0.001
		revenue := baseRevenue * growthFactor * (1 + rng.Float64()*0.05)
		grossMargin := 0.45 + rng.Float64()*0.02
		ebitdaMargin := 0.30 + rng.Float64()*0.02
		netMargin := 0.20 + rng.Float64()*0.02

		earnings := revenue * netMargin
		ebitda := revenue * ebitdaMargin
		ocf := ebitda * 0.9
		capex := revenue * 0.05
		fcf := ocf - capex

		totalDebt := revenue * 0.8
		cash := revenue * 0.3
		netDebt := totalDebt - cash

		data = append(data, models.HistoryPoint{
			Date:        date.Format("2006-01-02"),
			Price:       round2(currentPrice),
			MA50:        models.Float(round2(ma50)),
			Volume:      models.Int(volume),
			RSI:         models.Float(round2(rsi)),
			PE:          models.Float(round2(pe)),
			Revenue:     models.Float(revenue),
			Earnings:    models.Float(earnings),
			EBITDA:      models.Float(ebitda),
			GrossMargin: models.Float(grossMargin * 100),
			NetMargin:   models.Float(netMargin * 100),
			OCF:         models.Float(ocf),
			FCF:         models.Float(fcf),
			CapEx:       models.Float(capex),
			TotalDebt:   models.Float(totalDebt),
			Cash:        models.Float(cash),
			NetDebt:     models.Float(netDebt),
		})
	}

	// Anchor the series to the known latest price.
	data[len(data)-1].Price = basePrice

	return data
}

// HistoryFor generates a synthetic series for a symbol, using its table
// price as the base (or a generic base when unknown).
func (p *Provider) HistoryFor(symbol string, days int) []models.HistoryPoint {
	if s := lookup(symbol); s != nil {
		return p.History(s.Price, days)
	}
	return p.History(100, days)
}

// Search matches the demo symbol table by ticker or name substring.
func (p *Provider) Search(query string) []models.SearchResult {
	upper := strings.ToUpper(query)
	lower := strings.ToLower(query)

	var results []models.SearchResult
	for _, s := range symbolTable {
		if strings.Contains(s.Ticker, upper) || strings.Contains(strings.ToLower(s.Name), lower) {
			results = append(results, models.SearchResult{
				Symbol:   s.Ticker,
				Name:     s.Name,
				Type:     "Equity",
				Exchange: "US",
			})
		}
	}
	return results
}

// TreasuryRates returns a fixed plausible yield curve.
func (p *Provider) TreasuryRates() *models.TreasuryRates {
	return &models.TreasuryRates{
		Date:   p.now().Format("2006-01-02"),
		Month1: models.Float(5.30),
		Month3: models.Float(5.25),
		Year2:  models.Float(4.35),
		Year5:  models.Float(4.20),
		Year10: models.Float(4.45),
	}
}

// DebtMaturity returns the static demo debt maturity schedule.
func (p *Provider) DebtMaturity(symbol string) []models.DebtMaturity {
	return []models.DebtMaturity{
		{Year: "2025", Amount: 2.5},
		{Year: "2026", Amount: 3.1},
		{Year: "2027", Amount: 1.8},
		{Year: "2028", Amount: 4.2},
		{Year: "2029+", Amount: 12.5},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
