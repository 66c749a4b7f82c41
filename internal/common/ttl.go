package common

import "time"

// DataKind classifies a cached payload. Every cache key is tagged with
// exactly one kind, which determines its expiry duration.
type DataKind string

const (
	KindQuote       DataKind = "quote"
	KindPriceChange DataKind = "priceChange"
	KindHistory     DataKind = "history"
	KindNews        DataKind = "news"
	KindMacro       DataKind = "macro"
	KindProfile     DataKind = "profile"
	KindSearch      DataKind = "search"
	KindFinancials  DataKind = "financials"
)

// Cache TTLs per data kind. Quotes and price changes move intraday,
// profiles and financial statements only with filings. Tuned against the
// upstream API's 250 requests/day free-tier budget.
const (
	TTLQuote       = 15 * time.Minute
	TTLPriceChange = 15 * time.Minute
	TTLHistory     = 12 * time.Hour
	TTLNews        = 6 * time.Hour
	TTLMacro       = 24 * time.Hour
	TTLProfile     = 30 * 24 * time.Hour
	TTLSearch      = 30 * 24 * time.Hour
	TTLFinancials  = 30 * 24 * time.Hour

	// TTLDefault applies to any kind missing from the table.
	TTLDefault = time.Minute
)

var ttlByKind = map[DataKind]time.Duration{
	KindQuote:       TTLQuote,
	KindPriceChange: TTLPriceChange,
	KindHistory:     TTLHistory,
	KindNews:        TTLNews,
	KindMacro:       TTLMacro,
	KindProfile:     TTLProfile,
	KindSearch:      TTLSearch,
	KindFinancials:  TTLFinancials,
}

// TTLFor returns the cache TTL for a data kind.
func TTLFor(kind DataKind) time.Duration {
	if ttl, ok := ttlByKind[kind]; ok {
		return ttl
	}
	return TTLDefault
}
