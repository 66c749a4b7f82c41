package mockdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	t := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestQuote_KnownSymbol(t *testing.T) {
	p := NewProvider()
	q := p.Quote("nvda")

	require.NotNil(t, q)
	assert.Equal(t, "NVDA", q.Symbol)
	assert.Equal(t, "Nvidia Corp", q.Name)
	assert.Equal(t, 135.58, *q.Price)
	assert.Equal(t, 2.15, *q.Change)
	assert.Equal(t, 1.61, *q.ChangePercent)
	assert.Equal(t, int64(1500000), *q.Volume)
	assert.InDelta(t, 133.43, *q.PrevClose, 0.001)
	assert.InDelta(t, 135.58*1.02, *q.DayHigh, 0.001)
	assert.InDelta(t, 135.58*0.98, *q.DayLow, 0.001)
	assert.InDelta(t, 135.58*1.3, *q.YearHigh, 0.001)
	assert.InDelta(t, 135.58*0.7, *q.YearLow, 0.001)
	assert.Nil(t, q.PE)
}

func TestQuote_UnknownSymbol(t *testing.T) {
	p := NewProvider()
	q := p.Quote("ZZZZ")

	require.NotNil(t, q)
	assert.Equal(t, "ZZZZ", q.Symbol)
	assert.Equal(t, 150.00, *q.Price)
	assert.Equal(t, 1.5, *q.Change)
	assert.Equal(t, 1.0, *q.ChangePercent)
	assert.Equal(t, int64(1000000), *q.Volume)
	assert.Equal(t, 148.5, *q.PrevClose)
}

func TestProfile_KnownSymbol(t *testing.T) {
	p := NewProvider()
	profile := p.Profile("MSFT")

	require.NotNil(t, profile)
	assert.Equal(t, "Microsoft Corp", profile.Name)
	assert.Equal(t, "Technology", profile.Sector)
	assert.Contains(t, profile.Description, "(Mock Data)")
	require.NotNil(t, profile.PERatio)
	assert.Equal(t, 36.5, *profile.PERatio)
	require.NotNil(t, profile.DividendYield)
	assert.Equal(t, 0.7, *profile.DividendYield)
}

func TestProfile_UnknownSymbol(t *testing.T) {
	p := NewProvider()
	profile := p.Profile("zzzz")

	require.NotNil(t, profile)
	assert.Equal(t, "ZZZZ", profile.Symbol)
	assert.Equal(t, "Unknown", profile.Sector)
	assert.Nil(t, profile.PERatio)
}

func TestHistory_ShapeAndAnchor(t *testing.T) {
	p := NewProvider()
	p.SetClock(fixedClock())

	series := p.History(200, 100)
	require.Len(t, series, 100)

	// Oldest to newest, no duplicate dates
	seen := make(map[string]bool)
	prev := ""
	for _, point := range series {
		assert.False(t, seen[point.Date], "duplicate date %s", point.Date)
		seen[point.Date] = true
		if prev != "" {
			assert.Greater(t, point.Date, prev)
		}
		prev = point.Date

		require.NotNil(t, point.MA50)
		require.NotNil(t, point.RSI)
		require.NotNil(t, point.Volume)
		require.NotNil(t, point.Revenue)
		require.NotNil(t, point.FCF)
	}

	// The series ends at the known latest price.
	assert.Equal(t, 200.0, series[len(series)-1].Price)
}

func TestHistory_Deterministic(t *testing.T) {
	p := NewProvider()
	p.SetClock(fixedClock())

	a := p.History(135.58, 100)
	b := p.History(135.58, 100)
	assert.Equal(t, a, b)

	// A different base price produces a different walk.
	c := p.History(100, 100)
	assert.NotEqual(t, a[0].Price, c[0].Price)
}

func TestHistory_DefaultDays(t *testing.T) {
	p := NewProvider()
	p.SetClock(fixedClock())

	assert.Len(t, p.History(50, 0), DefaultHistoryDays)
}

func TestHistoryFor(t *testing.T) {
	p := NewProvider()
	p.SetClock(fixedClock())

	series := p.HistoryFor("NVDA", 10)
	require.Len(t, series, 10)
	assert.Equal(t, 135.58, series[len(series)-1].Price)

	generic := p.HistoryFor("ZZZZ", 10)
	assert.Equal(t, 100.0, generic[len(generic)-1].Price)
}

func TestSearch(t *testing.T) {
	p := NewProvider()

	byTicker := p.Search("nv")
	require.NotEmpty(t, byTicker)
	assert.Equal(t, "NVDA", byTicker[0].Symbol)

	byName := p.Search("micro")
	require.NotEmpty(t, byName)
	assert.Equal(t, "MSFT", byName[0].Symbol)

	assert.Empty(t, p.Search("nomatch"))
}

func TestTreasuryRates(t *testing.T) {
	p := NewProvider()
	p.SetClock(fixedClock())

	rates := p.TreasuryRates()
	require.NotNil(t, rates)
	assert.Equal(t, "2025-06-02", rates.Date)
	assert.Equal(t, 4.45, *rates.Year10)
	assert.Equal(t, 5.30, *rates.Month1)
	assert.Nil(t, rates.Year30)
}

func TestDebtMaturity(t *testing.T) {
	p := NewProvider()

	schedule := p.DebtMaturity("AAPL")
	require.Len(t, schedule, 5)
	assert.Equal(t, "2025", schedule[0].Year)
	assert.Equal(t, 2.5, schedule[0].Amount)
	assert.Equal(t, "2029+", schedule[4].Year)

	// The schedule is static: identical for every symbol.
	assert.Equal(t, schedule, p.DebtMaturity("MSFT"))
}
