// Package pricing implements the tiered price store: in-process memory,
// local persistent cache, then the remote pricing provider. The store
// answers lookups; it never invents fallback numbers. Fallback policy
// lives in the resolution service.
package pricing

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"fleet-cost/core/types"
	"fleet-cost/internal/metrics"
)

// Provider fetches prices from a remote pricing API. Implementations
// must treat non-2xx responses, timeouts and malformed payloads as
// errors; the store demotes every provider error to a miss.
type Provider interface {
	// FetchRate returns the hourly rate for a price key
	FetchRate(ctx context.Context, key types.PriceKey) (decimal.Decimal, error)

	// FetchStorageRate returns the per-GB-month rate for a storage key
	FetchStorageRate(ctx context.Context, key types.StoragePriceKey) (decimal.Decimal, error)
}

// Store is the tiered price store. It is safe for concurrent use;
// concurrent lookups of the same key are collapsed into a single
// in-flight provider request.
type Store struct {
	mu      sync.RWMutex
	rates   map[string]types.PriceQuote
	storage map[string]decimal.Decimal

	disk     *DiskCache
	provider Provider
	flight   singleflight.Group
	log      *zap.Logger
}

// NewStore creates a store. Both disk and provider may be nil: a nil
// disk disables persistence, a nil provider makes remote lookups miss.
func NewStore(disk *DiskCache, provider Provider, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		rates:    make(map[string]types.PriceQuote),
		storage:  make(map[string]decimal.Decimal),
		disk:     disk,
		provider: provider,
		log:      log,
	}
}

// Seed installs a quote directly into the local cache tier. Used to
// preload known price points and by tests.
func (s *Store) Seed(key types.PriceKey, rate decimal.Decimal) {
	s.mu.Lock()
	s.rates[key.String()] = types.NewQuote(rate, types.TierLocalCache)
	s.mu.Unlock()
}

// SeedStorage installs a storage rate into the local cache tier
func (s *Store) SeedStorage(key types.StoragePriceKey, rate decimal.Decimal) {
	s.mu.Lock()
	s.storage[key.String()] = rate
	s.mu.Unlock()
}

// Lookup resolves a price key through the tier chain. The second return
// is false when no tier has data; provider failures are logged and
// treated as a miss so the caller can proceed with fallback.
func (s *Store) Lookup(ctx context.Context, key types.PriceKey) (types.PriceQuote, bool) {
	ck := key.String()

	// Tier 1: in-process cache.
	s.mu.RLock()
	quote, ok := s.rates[ck]
	s.mu.RUnlock()
	if ok {
		metrics.CacheHits.WithLabelValues(string(types.TierLocalCache)).Inc()
		quote.Tier = types.TierLocalCache
		return quote, true
	}

	// Tier 1b: local persistent cache.
	if s.disk != nil {
		if rate, at, ok := s.disk.GetRate(ck); ok {
			quote = types.PriceQuote{Rate: rate, Tier: types.TierLocalCache, RetrievedAt: at}
			s.mu.Lock()
			s.rates[ck] = quote
			s.mu.Unlock()
			metrics.CacheHits.WithLabelValues(string(types.TierLocalCache)).Inc()
			return quote, true
		}
	}

	// Tier 2: remote provider, deduplicated per key.
	if s.provider == nil {
		metrics.CacheMisses.Inc()
		return types.PriceQuote{}, false
	}

	v, err, _ := s.flight.Do(ck, func() (interface{}, error) {
		metrics.RemoteCalls.Inc()
		rate, err := s.provider.FetchRate(ctx, key)
		if err != nil {
			return nil, err
		}
		fresh := types.NewQuote(rate, types.TierRemoteProvider)
		s.writeBack(ck, fresh)
		return fresh, nil
	})
	if err != nil {
		metrics.RemoteFailures.Inc()
		metrics.CacheMisses.Inc()
		s.log.Warn("remote rate lookup failed, treating as miss",
			zap.String("key", ck), zap.Error(err))
		return types.PriceQuote{}, false
	}

	metrics.CacheHits.WithLabelValues(string(types.TierRemoteProvider)).Inc()
	return v.(types.PriceQuote), true
}

// LookupStorage resolves a storage rate through the same tier chain
func (s *Store) LookupStorage(ctx context.Context, key types.StoragePriceKey) (decimal.Decimal, types.SourceTier, bool) {
	ck := key.String()

	s.mu.RLock()
	rate, ok := s.storage[ck]
	s.mu.RUnlock()
	if ok {
		metrics.CacheHits.WithLabelValues(string(types.TierLocalCache)).Inc()
		return rate, types.TierLocalCache, true
	}

	if s.disk != nil {
		if rate, _, ok := s.disk.GetRate(ck); ok {
			s.mu.Lock()
			s.storage[ck] = rate
			s.mu.Unlock()
			metrics.CacheHits.WithLabelValues(string(types.TierLocalCache)).Inc()
			return rate, types.TierLocalCache, true
		}
	}

	if s.provider == nil {
		metrics.CacheMisses.Inc()
		return decimal.Zero, "", false
	}

	v, err, _ := s.flight.Do(ck, func() (interface{}, error) {
		metrics.RemoteCalls.Inc()
		rate, err := s.provider.FetchStorageRate(ctx, key)
		if err != nil {
			return nil, err
		}
		s.writeBackStorage(ck, rate)
		return rate, nil
	})
	if err != nil {
		metrics.RemoteFailures.Inc()
		metrics.CacheMisses.Inc()
		s.log.Warn("remote storage rate lookup failed, treating as miss",
			zap.String("key", ck), zap.Error(err))
		return decimal.Zero, "", false
	}

	metrics.CacheHits.WithLabelValues(string(types.TierRemoteProvider)).Inc()
	return v.(decimal.Decimal), types.TierRemoteProvider, true
}

// writeBack populates both local tiers with a remote-sourced quote.
// Last writer wins; values for a key are stable within a run.
func (s *Store) writeBack(ck string, quote types.PriceQuote) {
	cached := quote
	cached.Tier = types.TierLocalCache
	s.mu.Lock()
	s.rates[ck] = cached
	s.mu.Unlock()

	if s.disk != nil {
		if err := s.disk.PutRate(ck, quote.Rate, quote.RetrievedAt); err != nil {
			s.log.Warn("failed to persist quote", zap.String("key", ck), zap.Error(err))
		}
	}
}

func (s *Store) writeBackStorage(ck string, rate decimal.Decimal) {
	s.mu.Lock()
	s.storage[ck] = rate
	s.mu.Unlock()

	if s.disk != nil {
		if err := s.disk.PutRate(ck, rate, time.Now().UTC()); err != nil {
			s.log.Warn("failed to persist storage rate", zap.String("key", ck), zap.Error(err))
		}
	}
}
