// Package badger provides the embedded on-disk cache behind the market data
// service. Entries are JSON blobs with a per-kind expiry; expired entries are
// kept so they can be served as a stale fallback when a live fetch fails.
package badger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/interfaces"
)

// entry is the stored representation of one cached value.
type entry struct {
	Key    string `badgerhold:"key"`
	Kind   string
	Value  []byte
	Expiry time.Time
}

// Store is a badgerhold-backed cache store.
type Store struct {
	store  *badgerhold.Store
	logger *common.Logger
	now    func() time.Time
}

var _ interfaces.CacheStore = (*Store)(nil)

// NewStore opens (or creates) the cache database at path.
func NewStore(path string, logger *common.Logger) (*Store, error) {
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil // badger's own logging is too chatty

	bh, err := badgerhold.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		store:  bh,
		logger: logger,
		now:    time.Now,
	}, nil
}

// SetClock overrides the store's clock. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Get loads a fresh cached value into out. Returns false on a miss, an
// expired entry, or any storage or decode error; cache read failures never
// surface to callers.
func (s *Store) Get(ctx context.Context, key string, out any) bool {
	var e entry
	if err := s.store.Get(key, &e); err != nil {
		if err != badgerhold.ErrNotFound {
			s.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return false
	}

	if s.now().After(e.Expiry) {
		return false
	}

	return s.decode(key, e.Value, out)
}

// GetStale loads a cached value into out regardless of expiry. Used as the
// fallback when a live fetch fails.
func (s *Store) GetStale(ctx context.Context, key string, out any) bool {
	var e entry
	if err := s.store.Get(key, &e); err != nil {
		if err != badgerhold.ErrNotFound {
			s.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return false
	}

	return s.decode(key, e.Value, out)
}

func (s *Store) decode(key string, raw []byte, out any) bool {
	if err := json.Unmarshal(raw, out); err != nil {
		// Corrupt entry: drop it and report a miss.
		s.logger.Warn().Err(err).Str("key", key).Msg("Dropping corrupt cache entry")
		if derr := s.store.Delete(key, &entry{}); derr != nil && derr != badgerhold.ErrNotFound {
			s.logger.Warn().Err(derr).Str("key", key).Msg("Failed to drop corrupt cache entry")
		}
		return false
	}
	return true
}

// Set writes a value with the expiry for its data kind. A write failure
// clears the whole cache and abandons the write; the value was already
// returned to the caller, so losing the cache costs only the next fetch.
func (s *Store) Set(ctx context.Context, key string, value any, kind common.DataKind) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache encode failed")
		return
	}

	e := entry{
		Key:    key,
		Kind:   string(kind),
		Value:  raw,
		Expiry: s.now().Add(common.TTLFor(kind)),
	}

	if err := s.store.Upsert(key, &e); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed, clearing cache")
		s.clear()
	}
}

// clear drops every cached entry.
func (s *Store) clear() {
	if err := s.store.DeleteMatching(&entry{}, nil); err != nil {
		s.logger.Error().Err(err).Msg("Cache clear failed")
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.store.Close()
}
