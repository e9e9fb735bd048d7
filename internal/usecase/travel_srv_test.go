package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"hibachi-booking/internal/data/entity"
	"hibachi-booking/internal/dto/request"
	"hibachi-booking/pkg/utils"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Downtown San Francisco to downtown San Jose, the reference trip.
const (
	sfLat = 37.7749
	sfLng = -122.4194
	sjLat = 37.3382
	sjLng = -121.8863
)

func newTravelFixture(t *testing.T, capacity int) (*travelService, *fakeTravelCacheRepo, *testClock) {
	t.Helper()

	repo := newFakeTravelCacheRepo()
	clock := newTestClock(time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC))

	cache, err := lru.New[entity.TravelCacheKey, entity.TravelEstimate](capacity)
	if err != nil {
		t.Fatalf("lru.New: %v", err)
	}

	svc := &travelService{
		repo: repo,
		lru:  cache,
		cfg: utils.TravelConfig{
			CacheCapacity:  capacity,
			CacheTTLDays:   7,
			FreeMiles:      30,
			PerMileRate:    2,
			BaseSpeedMph:   30,
			RushHourFactor: 1.25,
		},
		log: zap.NewNop(),
		now: clock.Now,
	}
	return svc, repo, clock
}

func TestTravelCacheMissThenHit(t *testing.T) {
	svc, _, _ := newTravelFixture(t, 1000)
	ctx := context.Background()

	if _, ok := svc.Get(ctx, sfLat, sfLng, sjLat, sjLng, false); ok {
		t.Fatal("empty cache should miss")
	}

	if !svc.Set(ctx, sfLat, sfLng, sjLat, sjLng, 45, 32.1, false, entity.TravelSourceGoogleMaps) {
		t.Fatal("Set should succeed")
	}

	est, ok := svc.Get(ctx, sfLat, sfLng, sjLat, sjLng, false)
	if !ok {
		t.Fatal("expected a hit after Set")
	}
	if est.TravelTimeMinutes != 45 || est.DistanceMiles != 32.1 {
		t.Errorf("estimate = %d min, %.1f mi; want 45 min, 32.1 mi", est.TravelTimeMinutes, est.DistanceMiles)
	}
	if est.Source != entity.TravelSourceCache {
		t.Errorf("source = %s, want cache on every hit", est.Source)
	}
}

func TestTravelCacheKeyRounding(t *testing.T) {
	svc, _, _ := newTravelFixture(t, 1000)
	ctx := context.Background()

	svc.Set(ctx, 37.77491, -122.41942, 37.33824, -121.88637, 45, 32.1, false, entity.TravelSourceGoogleMaps)

	// Coordinates differing past the third decimal land on the same key.
	if _, ok := svc.Get(ctx, sfLat, sfLng, 37.3382, -121.8863, false); !ok {
		t.Error("coordinates within rounding distance should hit")
	}

	// The rush-hour flag is part of the key.
	if _, ok := svc.Get(ctx, sfLat, sfLng, 37.3382, -121.8863, true); ok {
		t.Error("rush-hour variant should be a distinct entry")
	}
}

func TestTravelCachePersistentTier(t *testing.T) {
	svc, _, _ := newTravelFixture(t, 1000)
	ctx := context.Background()

	svc.Set(ctx, sfLat, sfLng, sjLat, sjLng, 45, 32.1, false, entity.TravelSourceGoogleMaps)

	// Drop the memory tier; the persistent row still serves the key and
	// repopulates the LRU.
	svc.lru.Purge()

	est, ok := svc.Get(ctx, sfLat, sfLng, sjLat, sjLng, false)
	if !ok {
		t.Fatal("persistent tier should serve after an LRU purge")
	}
	if est.Source != entity.TravelSourceCache {
		t.Errorf("source = %s, want cache", est.Source)
	}

	key := entity.NewTravelCacheKey(sfLat, sfLng, sjLat, sjLng, false)
	if !svc.lru.Contains(key) {
		t.Error("persistent hit should repopulate the LRU")
	}
}

func TestTravelCacheTTLExpiry(t *testing.T) {
	svc, repo, clock := newTravelFixture(t, 1000)
	ctx := context.Background()

	svc.Set(ctx, sfLat, sfLng, sjLat, sjLng, 45, 32.1, false, entity.TravelSourceGoogleMaps)
	svc.lru.Purge()

	// Eight days later the 7-day row is expired but not yet swept; it
	// must not be served.
	clock.Advance(8 * 24 * time.Hour)
	if _, ok := svc.Get(ctx, sfLat, sfLng, sjLat, sjLng, false); ok {
		t.Fatal("expired persistent row must not be served")
	}

	key := entity.NewTravelCacheKey(sfLat, sfLng, sjLat, sjLng, false)
	if _, exists := repo.entries[key]; !exists {
		t.Fatal("expiry is passive; the row should still physically exist")
	}

	count, err := svc.CleanupExpired(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("cleanup removed %d rows, want 1", count)
	}
	if _, exists := repo.entries[key]; exists {
		t.Error("cleanup should remove the expired row")
	}
}

func TestTravelCacheStoreFaultsDegradeToMisses(t *testing.T) {
	svc, repo, _ := newTravelFixture(t, 1000)
	ctx := context.Background()

	repo.findErr = errors.New("connection refused")
	if _, ok := svc.Get(ctx, sfLat, sfLng, sjLat, sjLng, false); ok {
		t.Error("a failing store read should be a miss, not a hit")
	}

	repo.upsertErr = errors.New("connection refused")
	if svc.Set(ctx, sfLat, sfLng, sjLat, sjLng, 45, 32.1, false, entity.TravelSourceGoogleMaps) {
		t.Error("Set should report false when the persistent write fails")
	}

	// The LRU write landed before the failed upsert, so the in-process
	// tier keeps serving.
	est, ok := svc.Get(ctx, sfLat, sfLng, sjLat, sjLng, false)
	if !ok || est.TravelTimeMinutes != 45 {
		t.Error("memory tier should survive a failed persistent write")
	}
}

func TestTravelCacheLRUEviction(t *testing.T) {
	svc, _, _ := newTravelFixture(t, 1000)
	ctx := context.Background()

	coord := func(i int) float64 { return float64(i) / 100 }

	for i := 0; i < 1000; i++ {
		svc.Set(ctx, coord(i), 0, 1, 1, 30, 12, false, entity.TravelSourceGoogleMaps)
	}

	// Touch the oldest key so the next insert evicts its neighbor instead.
	if _, ok := svc.Get(ctx, coord(0), 0, 1, 1, false); !ok {
		t.Fatal("key 0 should still be resident")
	}

	svc.Set(ctx, coord(1000), 0, 1, 1, 30, 12, false, entity.TravelSourceGoogleMaps)

	if svc.lru.Len() != 1000 {
		t.Errorf("lru length = %d, want capacity 1000", svc.lru.Len())
	}
	if !svc.lru.Contains(entity.NewTravelCacheKey(coord(0), 0, 1, 1, false)) {
		t.Error("recently touched key 0 should survive the eviction")
	}
	if svc.lru.Contains(entity.NewTravelCacheKey(coord(1), 0, 1, 1, false)) {
		t.Error("least recently used key 1 should be evicted")
	}

	// The evicted key is only gone from memory; the persistent tier
	// still serves it.
	est, ok := svc.Get(ctx, coord(1), 0, 1, 1, false)
	if !ok || est.Source != entity.TravelSourceCache {
		t.Error("evicted key should fall through to the persistent tier")
	}
}

func TestTravelCacheStats(t *testing.T) {
	svc, _, _ := newTravelFixture(t, 1000)
	ctx := context.Background()

	svc.Get(ctx, sfLat, sfLng, sjLat, sjLng, false)
	svc.Set(ctx, sfLat, sfLng, sjLat, sjLng, 45, 32.1, false, entity.TravelSourceGoogleMaps)
	svc.Get(ctx, sfLat, sfLng, sjLat, sjLng, false)
	svc.lru.Purge()
	svc.Get(ctx, sfLat, sfLng, sjLat, sjLng, false)

	stats := svc.Stats()
	if stats.MemoryHits != 1 || stats.MemoryMisses != 2 {
		t.Errorf("memory hits/misses = %d/%d, want 1/2", stats.MemoryHits, stats.MemoryMisses)
	}
	if stats.StoreHits != 1 || stats.StoreMisses != 1 {
		t.Errorf("store hits/misses = %d/%d, want 1/1", stats.StoreHits, stats.StoreMisses)
	}
	if stats.Writes != 1 || stats.WriteFailures != 0 {
		t.Errorf("writes/failures = %d/%d, want 1/0", stats.Writes, stats.WriteFailures)
	}
	if stats.MemoryEntries != 1 || stats.MemoryCapacity != 1000 {
		t.Errorf("entries/capacity = %d/%d, want 1/1000", stats.MemoryEntries, stats.MemoryCapacity)
	}
}

func TestTravelQuote(t *testing.T) {
	svc, _, _ := newTravelFixture(t, 1000)
	ctx := context.Background()

	req := &request.TravelQuoteRequest{
		OriginLat: sfLat,
		OriginLng: sfLng,
		DestLat:   sjLat,
		DestLng:   sjLng,
		RushHour:  false,
	}

	first, err := svc.Quote(ctx, req)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if first.Source != string(entity.TravelSourceEstimate) {
		t.Errorf("cold quote source = %s, want estimate", first.Source)
	}
	if first.DistanceMiles <= 0 || first.TravelTimeMinutes <= 0 {
		t.Errorf("quote = %.1f mi, %d min; want positive values", first.DistanceMiles, first.TravelTimeMinutes)
	}
	if want := svc.travelFee(first.DistanceMiles); first.TravelFee != want {
		t.Errorf("fee = %.2f, want %.2f", first.TravelFee, want)
	}

	second, err := svc.Quote(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if second.Source != string(entity.TravelSourceCache) {
		t.Errorf("warm quote source = %s, want cache", second.Source)
	}
	if second.DistanceMiles != first.DistanceMiles || second.TravelTimeMinutes != first.TravelTimeMinutes {
		t.Error("warm quote should repeat the cached estimate")
	}
}

func TestTravelQuoteRushHour(t *testing.T) {
	svc, _, _ := newTravelFixture(t, 1000)
	ctx := context.Background()

	base, err := svc.Quote(ctx, &request.TravelQuoteRequest{
		OriginLat: sfLat, OriginLng: sfLng, DestLat: sjLat, DestLng: sjLng,
	})
	if err != nil {
		t.Fatal(err)
	}

	rush, err := svc.Quote(ctx, &request.TravelQuoteRequest{
		OriginLat: sfLat, OriginLng: sfLng, DestLat: sjLat, DestLng: sjLng, RushHour: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if rush.TravelTimeMinutes <= base.TravelTimeMinutes {
		t.Errorf("rush hour = %d min, base = %d min; want a slower rush estimate",
			rush.TravelTimeMinutes, base.TravelTimeMinutes)
	}
	if rush.DistanceMiles != base.DistanceMiles {
		t.Error("rush hour changes time, not distance")
	}
}

func TestTravelQuoteValidation(t *testing.T) {
	svc, _, _ := newTravelFixture(t, 1000)

	_, err := svc.Quote(context.Background(), &request.TravelQuoteRequest{
		OriginLat: 95, OriginLng: sfLng, DestLat: sjLat, DestLng: sjLng,
	})
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("err = %v, want validation failure", err)
	}
}

func TestTravelFee(t *testing.T) {
	svc, _, _ := newTravelFixture(t, 1000)

	cases := []struct {
		miles float64
		want  float64
	}{
		{10, 0},
		{30, 0},
		{35.5, 11},
		{40.25, 20.5},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%.2f miles", tc.miles), func(t *testing.T) {
			if got := svc.travelFee(tc.miles); got != tc.want {
				t.Errorf("fee(%.2f) = %.2f, want %.2f", tc.miles, got, tc.want)
			}
		})
	}
}

func TestHaversineMiles(t *testing.T) {
	// SF to SJ is roughly 42 miles great-circle.
	got := haversineMiles(sfLat, sfLng, sjLat, sjLng)
	if got < 38 || got > 46 {
		t.Errorf("distance = %.1f mi, want roughly 42", got)
	}

	if d := haversineMiles(sfLat, sfLng, sfLat, sfLng); d != 0 {
		t.Errorf("zero-length trip = %.4f mi, want 0", d)
	}
}
