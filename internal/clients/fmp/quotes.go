package fmp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/stockdeck/stockdeck/internal/models"
)

type quoteResponse struct {
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	Price             *float64 `json:"price"`
	Change            *float64 `json:"change"`
	ChangesPercentage *float64 `json:"changesPercentage"`
	Volume            *int64   `json:"volume"`
	AvgVolume         *int64   `json:"avgVolume"`
	PreviousClose     *float64 `json:"previousClose"`
	DayHigh           *float64 `json:"dayHigh"`
	DayLow            *float64 `json:"dayLow"`
	YearHigh          *float64 `json:"yearHigh"`
	YearLow           *float64 `json:"yearLow"`
	MarketCap         *float64 `json:"marketCap"`
	PE                *float64 `json:"pe"`
	EPS               *float64 `json:"eps"`
}

func (q *quoteResponse) normalize() *models.Quote {
	return &models.Quote{
		Symbol:        q.Symbol,
		Name:          q.Name,
		Price:         q.Price,
		Change:        q.Change,
		ChangePercent: q.ChangesPercentage,
		Volume:        q.Volume,
		AvgVolume:     q.AvgVolume,
		PrevClose:     q.PreviousClose,
		DayHigh:       q.DayHigh,
		DayLow:        q.DayLow,
		YearHigh:      q.YearHigh,
		YearLow:       q.YearLow,
		MarketCap:     q.MarketCap,
		PE:            q.PE,
		EPS:           q.EPS,
	}
}

// GetQuote retrieves the latest quote for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var quotes []quoteResponse
	if err := c.get(ctx, "/quote", params, &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("quote %s: %w", symbol, ErrNoData)
	}

	return quotes[0].normalize(), nil
}

// GetBatchQuotes retrieves quotes for multiple symbols in one request.
func (c *Client) GetBatchQuotes(ctx context.Context, symbols []string) ([]*models.Quote, error) {
	params := url.Values{}
	params.Set("symbols", strings.Join(symbols, ","))

	var quotes []quoteResponse
	if err := c.get(ctx, "/batch-quote", params, &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("batch quote: %w", ErrNoData)
	}

	result := make([]*models.Quote, len(quotes))
	for i := range quotes {
		result[i] = quotes[i].normalize()
	}
	return result, nil
}

type priceChangeResponse struct {
	Symbol  string   `json:"symbol"`
	OneDay  *float64 `json:"1D"`
	FiveDay *float64 `json:"5D"` // upstream reports one week as 5 trading days
	OneMo   *float64 `json:"1M"`
	ThreeMo *float64 `json:"3M"`
	SixMo   *float64 `json:"6M"`
	OneYear *float64 `json:"1Y"`
	YTD     *float64 `json:"ytd"`
}

// GetPriceChange retrieves pre-calculated percent changes per period.
func (c *Client) GetPriceChange(ctx context.Context, symbol string) (*models.PriceChangeSet, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var changes []priceChangeResponse
	if err := c.get(ctx, "/stock-price-change", params, &changes); err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return nil, fmt.Errorf("price change %s: %w", symbol, ErrNoData)
	}

	ch := changes[0]
	return &models.PriceChangeSet{
		OneDay:    pctOrNil(ch.OneDay),
		OneWeek:   pctOrNil(ch.FiveDay),
		OneMonth:  pctOrNil(ch.OneMo),
		ThreeMo:   pctOrNil(ch.ThreeMo),
		SixMo:     pctOrNil(ch.SixMo),
		OneYear:   pctOrNil(ch.OneYear),
		YearToDay: pctOrNil(ch.YTD),
	}, nil
}

type historyResponse struct {
	Date          string   `json:"date"`
	Open          *float64 `json:"open"`
	High          *float64 `json:"high"`
	Low           *float64 `json:"low"`
	Close         float64  `json:"close"`
	Volume        *int64   `json:"volume"`
	Change        *float64 `json:"change"`
	ChangePercent *float64 `json:"changePercent"`
	VWAP          *float64 `json:"vwap"`
}

// historyWindow is the number of most-recent trading days kept from the
// full end-of-day range.
const historyWindow = 100

// GetDailyHistory retrieves end-of-day prices. The upstream returns the
// full range newest-first; the client keeps the most recent historyWindow
// records and reverses them so the series runs oldest to newest.
func (c *Client) GetDailyHistory(ctx context.Context, symbol string) ([]models.HistoryPoint, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var days []historyResponse
	if err := c.get(ctx, "/historical-price-eod/full", params, &days); err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("history %s: %w", symbol, ErrNoData)
	}

	if len(days) > historyWindow {
		days = days[:historyWindow]
	}

	points := make([]models.HistoryPoint, len(days))
	for i, day := range days {
		points[len(days)-1-i] = models.HistoryPoint{
			Date:          day.Date,
			Price:         day.Close,
			Open:          day.Open,
			High:          day.High,
			Low:           day.Low,
			Volume:        day.Volume,
			Change:        day.Change,
			ChangePercent: day.ChangePercent,
			VWAP:          day.VWAP,
		}
	}
	return points, nil
}
