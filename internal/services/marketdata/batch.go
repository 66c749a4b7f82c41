package marketdata

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/models"
)

// Batch fan-out width for per-symbol endpoints. The client's rate limiter
// is the real throttle; this only bounds goroutines.
const batchConcurrency = 5

// BatchQuotes resolves quotes for a set of symbols with one combined
// upstream request. All cache checks happen before any network traffic, so
// a fully cached request costs zero calls. Symbols the combined request
// fails to cover fall back per symbol to stale cache, then synthetic data.
func (s *Service) BatchQuotes(ctx context.Context, symbols []string) map[string]*models.Quote {
	out := make(map[string]*models.Quote, len(symbols))

	var missing []string
	for _, symbol := range symbols {
		symbol = strings.ToUpper(symbol)
		if _, ok := out[symbol]; ok {
			continue
		}
		var cached *models.Quote
		if s.client != nil && s.cache.Get(ctx, cacheKey("quote", symbol), &cached) {
			out[symbol] = cached
			continue
		}
		missing = append(missing, symbol)
	}
	if len(missing) == 0 {
		return out
	}

	if s.client == nil {
		for _, symbol := range missing {
			out[symbol] = s.mock.Quote(symbol)
		}
		return out
	}

	quotes, err := s.client.GetBatchQuotes(ctx, missing)
	if err != nil {
		s.logger.Warn().Err(err).Strs("symbols", missing).Msg("Batch quote fetch failed")
	}
	for _, quote := range quotes {
		symbol := strings.ToUpper(quote.Symbol)
		s.cache.Set(ctx, cacheKey("quote", symbol), quote, common.KindQuote)
		out[symbol] = quote
	}

	for _, symbol := range missing {
		if _, ok := out[symbol]; ok {
			continue
		}
		var stale *models.Quote
		if s.cache.GetStale(ctx, cacheKey("quote", symbol), &stale) {
			s.logger.Info().Str("symbol", symbol).Msg("Serving stale cached quote")
			out[symbol] = stale
			continue
		}
		out[symbol] = s.mock.Quote(symbol)
	}
	return out
}

// BatchProfiles is BatchQuotes for company profiles.
func (s *Service) BatchProfiles(ctx context.Context, symbols []string) map[string]*models.Profile {
	out := make(map[string]*models.Profile, len(symbols))

	var missing []string
	for _, symbol := range symbols {
		symbol = strings.ToUpper(symbol)
		if _, ok := out[symbol]; ok {
			continue
		}
		var cached *models.Profile
		if s.client != nil && s.cache.Get(ctx, cacheKey("profile", symbol), &cached) {
			out[symbol] = cached
			continue
		}
		missing = append(missing, symbol)
	}
	if len(missing) == 0 {
		return out
	}

	if s.client == nil {
		for _, symbol := range missing {
			out[symbol] = s.mock.Profile(symbol)
		}
		return out
	}

	profiles, err := s.client.GetBatchProfiles(ctx, missing)
	if err != nil {
		s.logger.Warn().Err(err).Strs("symbols", missing).Msg("Batch profile fetch failed")
	}
	for _, profile := range profiles {
		symbol := strings.ToUpper(profile.Symbol)
		s.cache.Set(ctx, cacheKey("profile", symbol), profile, common.KindProfile)
		out[symbol] = profile
	}

	for _, symbol := range missing {
		if _, ok := out[symbol]; ok {
			continue
		}
		var stale *models.Profile
		if s.cache.GetStale(ctx, cacheKey("profile", symbol), &stale) {
			s.logger.Info().Str("symbol", symbol).Msg("Serving stale cached profile")
			out[symbol] = stale
			continue
		}
		out[symbol] = s.mock.Profile(symbol)
	}
	return out
}

// BatchPriceChanges resolves price-change sets for a set of symbols. The
// upstream has no combined endpoint for this kind, so uncached symbols fan
// out to concurrent single fetches. A symbol whose fetch fails falls back
// to stale cache, then to a nil entry; there is no synthetic price change.
func (s *Service) BatchPriceChanges(ctx context.Context, symbols []string) map[string]*models.PriceChangeSet {
	out := make(map[string]*models.PriceChangeSet, len(symbols))

	var missing []string
	for _, symbol := range symbols {
		symbol = strings.ToUpper(symbol)
		if _, ok := out[symbol]; ok {
			continue
		}
		var cached *models.PriceChangeSet
		if s.client != nil && s.cache.Get(ctx, cacheKey("pricechange", symbol), &cached) {
			out[symbol] = cached
			continue
		}
		missing = append(missing, symbol)
	}

	if s.client == nil {
		for _, symbol := range missing {
			out[symbol] = nil
		}
		return out
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for _, symbol := range missing {
		g.Go(func() error {
			change := s.PriceChange(gctx, symbol)
			mu.Lock()
			out[symbol] = change
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers handle their own fallback

	return out
}
