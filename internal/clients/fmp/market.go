package fmp

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/stockdeck/stockdeck/internal/models"
)

type treasuryResponse struct {
	Date   string   `json:"date"`
	Month1 *float64 `json:"month1"`
	Month3 *float64 `json:"month3"`
	Year2  *float64 `json:"year2"`
	Year5  *float64 `json:"year5"`
	Year10 *float64 `json:"year10"`
	Year30 *float64 `json:"year30"`
}

// GetTreasuryRates retrieves the latest treasury yield snapshot.
func (c *Client) GetTreasuryRates(ctx context.Context) (*models.TreasuryRates, error) {
	var rates []treasuryResponse
	if err := c.get(ctx, "/treasury-rates", nil, &rates); err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("treasury rates: %w", ErrNoData)
	}

	latest := rates[0]
	return &models.TreasuryRates{
		Date:   latest.Date,
		Month1: latest.Month1,
		Month3: latest.Month3,
		Year2:  latest.Year2,
		Year5:  latest.Year5,
		Year10: latest.Year10,
		Year30: latest.Year30,
	}, nil
}

type newsResponse struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"publishedDate"`
	Site          string `json:"site"`
	Text          string `json:"text"`
	Image         string `json:"image"`
}

// GetNews retrieves recent news articles for a symbol.
func (c *Client) GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	params := url.Values{}
	params.Set("symbols", symbol)
	params.Set("limit", strconv.Itoa(limit))

	var articles []newsResponse
	if err := c.get(ctx, "/news/stock", params, &articles); err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("news %s: %w", symbol, ErrNoData)
	}

	items := make([]models.NewsItem, len(articles))
	for i, a := range articles {
		items[i] = models.NewsItem{
			Title:         a.Title,
			URL:           a.URL,
			PublishedDate: a.PublishedDate,
			Site:          a.Site,
			Text:          a.Text,
			Image:         a.Image,
		}
	}
	return items, nil
}

type searchResponse struct {
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	Type              string `json:"type"`
	ExchangeShortName string `json:"exchangeShortName"`
}

// SearchSymbols searches for symbols by ticker or company name.
func (c *Client) SearchSymbols(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))

	var matches []searchResponse
	if err := c.get(ctx, "/search", params, &matches); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("search %q: %w", query, ErrNoData)
	}

	results := make([]models.SearchResult, len(matches))
	for i, m := range matches {
		kind := m.Type
		if kind == "" {
			kind = "Equity"
		}
		results[i] = models.SearchResult{
			Symbol:   m.Symbol,
			Name:     m.Name,
			Type:     kind,
			Exchange: m.ExchangeShortName,
		}
	}
	return results, nil
}

type sectorResponse struct {
	Sector            string   `json:"sector"`
	ChangesPercentage *float64 `json:"changesPercentage"`
}

// GetSectorPerformance retrieves the sector performance snapshot.
func (c *Client) GetSectorPerformance(ctx context.Context) ([]models.SectorPerformance, error) {
	var sectors []sectorResponse
	if err := c.get(ctx, "/sector-performance-snapshot", nil, &sectors); err != nil {
		return nil, err
	}
	if len(sectors) == 0 {
		return nil, fmt.Errorf("sector performance: %w", ErrNoData)
	}

	result := make([]models.SectorPerformance, len(sectors))
	for i, s := range sectors {
		result[i] = models.SectorPerformance{
			Sector:        s.Sector,
			ChangePercent: pctOrNil(s.ChangesPercentage),
		}
	}
	return result, nil
}

type priceTargetResponse struct {
	Symbol          string   `json:"symbol"`
	TargetHigh      *float64 `json:"targetHigh"`
	TargetLow       *float64 `json:"targetLow"`
	TargetConsensus *float64 `json:"targetConsensus"`
	TargetMedian    *float64 `json:"targetMedian"`
}

// GetPriceTarget retrieves the analyst price-target consensus.
func (c *Client) GetPriceTarget(ctx context.Context, symbol string) (*models.PriceTarget, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var targets []priceTargetResponse
	if err := c.get(ctx, "/price-target-consensus", params, &targets); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("price target %s: %w", symbol, ErrNoData)
	}

	t := targets[0]
	return &models.PriceTarget{
		Symbol:          t.Symbol,
		TargetHigh:      t.TargetHigh,
		TargetLow:       t.TargetLow,
		TargetConsensus: t.TargetConsensus,
		TargetMedian:    t.TargetMedian,
	}, nil
}

// technicalWindow is the number of most-recent indicator values returned.
const technicalWindow = 30

type rsiResponse struct {
	Date string  `json:"date"`
	RSI  float64 `json:"rsi"`
}

// GetRSI retrieves the daily 14-period relative strength index series.
func (c *Client) GetRSI(ctx context.Context, symbol string) ([]models.TechnicalPoint, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("periodLength", "14")
	params.Set("timeframe", "1day")

	var values []rsiResponse
	if err := c.get(ctx, "/technical-indicators/rsi", params, &values); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("rsi %s: %w", symbol, ErrNoData)
	}

	if len(values) > technicalWindow {
		values = values[:technicalWindow]
	}
	points := make([]models.TechnicalPoint, len(values))
	for i, v := range values {
		points[i] = models.TechnicalPoint{Date: v.Date, Value: v.RSI}
	}
	return points, nil
}

type smaResponse struct {
	Date string  `json:"date"`
	SMA  float64 `json:"sma"`
}

// GetSMA retrieves the daily simple moving average series for a period.
func (c *Client) GetSMA(ctx context.Context, symbol string, period int) ([]models.TechnicalPoint, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("periodLength", strconv.Itoa(period))
	params.Set("timeframe", "1day")

	var values []smaResponse
	if err := c.get(ctx, "/technical-indicators/sma", params, &values); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("sma %s: %w", symbol, ErrNoData)
	}

	if len(values) > technicalWindow {
		values = values[:technicalWindow]
	}
	points := make([]models.TechnicalPoint, len(values))
	for i, v := range values {
		points[i] = models.TechnicalPoint{Date: v.Date, Value: v.SMA}
	}
	return points, nil
}

type sharesFloatResponse struct {
	Symbol            string   `json:"symbol"`
	Date              string   `json:"date"`
	FreeFloat         *float64 `json:"freeFloat"`
	FloatShares       *float64 `json:"floatShares"`
	OutstandingShares *float64 `json:"outstandingShares"`
}

// GetSharesFloat retrieves the share structure for a symbol.
func (c *Client) GetSharesFloat(ctx context.Context, symbol string) (*models.SharesFloat, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var floats []sharesFloatResponse
	if err := c.get(ctx, "/shares-float", params, &floats); err != nil {
		return nil, err
	}
	if len(floats) == 0 {
		return nil, fmt.Errorf("shares float %s: %w", symbol, ErrNoData)
	}

	f := floats[0]
	return &models.SharesFloat{
		Symbol:            f.Symbol,
		Date:              f.Date,
		FreeFloat:         f.FreeFloat,
		FloatShares:       f.FloatShares,
		OutstandingShares: f.OutstandingShares,
	}, nil
}

type holderResponse struct {
	Holder        string   `json:"holder"`
	Shares        int64    `json:"shares"`
	DateReported  string   `json:"dateReported"`
	Change        *float64 `json:"change"`
	ChangePercent *float64 `json:"changePercent"`
}

// topHolders is the number of institutional holders kept, by shares held.
const topHolders = 10

// GetInstitutionalHolders retrieves the largest institutional holders.
func (c *Client) GetInstitutionalHolders(ctx context.Context, symbol string) ([]models.InstitutionalHolder, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var holders []holderResponse
	if err := c.get(ctx, "/institutional-holder", params, &holders); err != nil {
		return nil, err
	}
	if len(holders) == 0 {
		return nil, fmt.Errorf("institutional holders %s: %w", symbol, ErrNoData)
	}

	sort.Slice(holders, func(i, j int) bool {
		return holders[i].Shares > holders[j].Shares
	})
	if len(holders) > topHolders {
		holders = holders[:topHolders]
	}

	result := make([]models.InstitutionalHolder, len(holders))
	for i, h := range holders {
		result[i] = models.InstitutionalHolder{
			Holder:        h.Holder,
			Shares:        h.Shares,
			DateReported:  h.DateReported,
			Change:        h.Change,
			ChangePercent: h.ChangePercent,
		}
	}
	return result, nil
}
