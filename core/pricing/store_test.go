package pricing

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fleet-cost/core/types"
	"fleet-cost/internal/errors"
)

// fakeProvider is a scriptable Provider for store tests
type fakeProvider struct {
	mu       sync.Mutex
	rates    map[string]decimal.Decimal
	storage  map[string]decimal.Decimal
	err      error
	delay    time.Duration
	calls    int64
	stoCalls int64
}

func (f *fakeProvider) FetchRate(ctx context.Context, key types.PriceKey) (decimal.Decimal, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return decimal.Zero, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rate, ok := f.rates[key.String()]
	if !ok {
		return decimal.Zero, errors.Newf(errors.TypeDataUnavailable, "no rate for %s", key.String())
	}
	return rate, nil
}

func (f *fakeProvider) FetchStorageRate(ctx context.Context, key types.StoragePriceKey) (decimal.Decimal, error) {
	atomic.AddInt64(&f.stoCalls, 1)
	if f.err != nil {
		return decimal.Zero, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rate, ok := f.storage[key.String()]
	if !ok {
		return decimal.Zero, errors.Newf(errors.TypeDataUnavailable, "no storage rate for %s", key.String())
	}
	return rate, nil
}

func testKey() types.PriceKey {
	return types.PriceKey{
		InstanceType: "m5.xlarge",
		Region:       "us-east-1",
		Model:        types.OnDemand(),
	}
}

func TestLookupSeededHitsLocalCache(t *testing.T) {
	s := NewStore(nil, nil, nil)
	s.Seed(testKey(), decimal.RequireFromString("0.192"))

	quote, ok := s.Lookup(context.Background(), testKey())
	if !ok {
		t.Fatal("expected a hit for a seeded key")
	}
	if quote.Tier != types.TierLocalCache {
		t.Errorf("tier = %s, want %s", quote.Tier, types.TierLocalCache)
	}
	if !quote.Rate.Equal(decimal.RequireFromString("0.192")) {
		t.Errorf("rate = %s, want 0.192", quote.Rate)
	}
}

func TestLookupMissWithoutProvider(t *testing.T) {
	s := NewStore(nil, nil, nil)

	if _, ok := s.Lookup(context.Background(), testKey()); ok {
		t.Error("expected a miss with no data and no provider")
	}
}

func TestLookupRemoteThenCached(t *testing.T) {
	provider := &fakeProvider{rates: map[string]decimal.Decimal{
		testKey().String(): decimal.RequireFromString("0.185"),
	}}
	s := NewStore(nil, provider, nil)

	quote, ok := s.Lookup(context.Background(), testKey())
	if !ok {
		t.Fatal("expected a remote hit")
	}
	if quote.Tier != types.TierRemoteProvider {
		t.Errorf("first lookup tier = %s, want %s", quote.Tier, types.TierRemoteProvider)
	}

	quote, ok = s.Lookup(context.Background(), testKey())
	if !ok {
		t.Fatal("expected a cached hit")
	}
	if quote.Tier != types.TierLocalCache {
		t.Errorf("second lookup tier = %s, want %s", quote.Tier, types.TierLocalCache)
	}
	if got := atomic.LoadInt64(&provider.calls); got != 1 {
		t.Errorf("provider called %d times, want 1", got)
	}
}

func TestLookupProviderErrorIsMiss(t *testing.T) {
	provider := &fakeProvider{err: errors.New(errors.TypeRemoteProvider, "service unavailable")}
	s := NewStore(nil, provider, nil)

	if _, ok := s.Lookup(context.Background(), testKey()); ok {
		t.Error("provider failure must surface as a miss, not a hit")
	}
}

func TestLookupCollapsesConcurrentFetches(t *testing.T) {
	provider := &fakeProvider{
		rates: map[string]decimal.Decimal{testKey().String(): decimal.RequireFromString("0.185")},
		delay: 50 * time.Millisecond,
	}
	s := NewStore(nil, provider, nil)

	const n = 8
	var wg sync.WaitGroup
	var hits int64
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := s.Lookup(context.Background(), testKey()); ok {
				atomic.AddInt64(&hits, 1)
			}
		}()
	}
	wg.Wait()

	if hits != n {
		t.Errorf("hits = %d, want %d", hits, n)
	}
	if got := atomic.LoadInt64(&provider.calls); got != 1 {
		t.Errorf("concurrent lookups fanned out to %d provider calls, want 1", got)
	}
}

func TestLookupDiskWriteBackSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	disk, err := OpenDiskCache(dir, nil)
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	provider := &fakeProvider{rates: map[string]decimal.Decimal{
		testKey().String(): decimal.RequireFromString("0.185"),
	}}
	first := NewStore(disk, provider, nil)
	if _, ok := first.Lookup(context.Background(), testKey()); !ok {
		t.Fatal("expected a remote hit on the first store")
	}

	// Fresh store over the same directory, no provider: the persisted
	// rate must serve the lookup.
	disk2, err := OpenDiskCache(dir, nil)
	if err != nil {
		t.Fatalf("OpenDiskCache reopen: %v", err)
	}
	second := NewStore(disk2, nil, nil)
	quote, ok := second.Lookup(context.Background(), testKey())
	if !ok {
		t.Fatal("expected a disk-cache hit after restart")
	}
	if quote.Tier != types.TierLocalCache {
		t.Errorf("tier = %s, want %s", quote.Tier, types.TierLocalCache)
	}
	if !quote.Rate.Equal(decimal.RequireFromString("0.185")) {
		t.Errorf("rate = %s, want 0.185", quote.Rate)
	}
}

func TestLookupStorageTierChain(t *testing.T) {
	key := types.StoragePriceKey{VolumeClass: "gp3", Region: "us-east-1"}
	provider := &fakeProvider{storage: map[string]decimal.Decimal{
		key.String(): decimal.RequireFromString("0.08"),
	}}
	s := NewStore(nil, provider, nil)

	rate, tier, ok := s.LookupStorage(context.Background(), key)
	if !ok || tier != types.TierRemoteProvider {
		t.Fatalf("first lookup: ok=%v tier=%s, want remote hit", ok, tier)
	}
	if !rate.Equal(decimal.RequireFromString("0.08")) {
		t.Errorf("rate = %s, want 0.08", rate)
	}

	_, tier, ok = s.LookupStorage(context.Background(), key)
	if !ok || tier != types.TierLocalCache {
		t.Errorf("second lookup: ok=%v tier=%s, want local cache hit", ok, tier)
	}
}

func TestLookupStorageSeeded(t *testing.T) {
	key := types.StoragePriceKey{VolumeClass: "gp3", Region: "us-east-1"}
	s := NewStore(nil, nil, nil)
	s.SeedStorage(key, decimal.RequireFromString("0.08"))

	rate, tier, ok := s.LookupStorage(context.Background(), key)
	if !ok || tier != types.TierLocalCache {
		t.Fatalf("ok=%v tier=%s, want seeded local hit", ok, tier)
	}
	if !rate.Equal(decimal.RequireFromString("0.08")) {
		t.Errorf("rate = %s, want 0.08", rate)
	}
}
