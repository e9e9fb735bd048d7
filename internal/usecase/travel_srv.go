package usecase

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"hibachi-booking/internal/data/entity"
	"hibachi-booking/internal/data/repository"
	"hibachi-booking/internal/dto/request"
	"hibachi-booking/internal/dto/response"
	"hibachi-booking/pkg/utils"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// TravelService memoizes travel time/distance results per rounded
// coordinate pair and rush-hour flag, in two tiers: a bounded in-process
// LRU in front of a persistent TTL table. The cache is a pure optimization
// and never becomes a failure mode — store faults degrade to misses.
type TravelService interface {
	Get(ctx context.Context, originLat, originLng, destLat, destLng float64, rushHour bool) (*entity.TravelEstimate, bool)
	Set(ctx context.Context, originLat, originLng, destLat, destLng float64, travelTimeMinutes int, distanceMiles float64, rushHour bool, source entity.TravelSource) bool
	Quote(ctx context.Context, req *request.TravelQuoteRequest) (*response.TravelQuoteResponse, error)
	CleanupExpired(ctx context.Context) (int64, error)
	Stats() *response.TravelCacheStatsResponse
}

type travelService struct {
	repo repository.TravelCacheRepository
	lru  *lru.Cache[entity.TravelCacheKey, entity.TravelEstimate]
	cfg  utils.TravelConfig
	log  *zap.Logger
	now  func() time.Time

	mu    sync.Mutex
	stats response.TravelCacheStatsResponse
}

func NewTravelService(repo repository.TravelCacheRepository, cfg utils.TravelConfig, log *zap.Logger) TravelService {
	capacity := cfg.CacheCapacity
	if capacity <= 0 {
		capacity = 1000
	}
	cfg.CacheCapacity = capacity

	// lru.New only errors on a non-positive size, which is guarded above.
	cache, _ := lru.New[entity.TravelCacheKey, entity.TravelEstimate](capacity)

	return &travelService{
		repo: repo,
		lru:  cache,
		cfg:  cfg,
		log:  log.With(zap.String("service", "travel")),
		now:  time.Now,
	}
}

// Get returns the cached estimate for the rounded coordinate key, or ok
// false on a miss. Every hit reports source "cache" regardless of the
// original computation source. A persistent hit repopulates the LRU.
func (s *travelService) Get(ctx context.Context, originLat, originLng, destLat, destLng float64, rushHour bool) (*entity.TravelEstimate, bool) {
	key := entity.NewTravelCacheKey(originLat, originLng, destLat, destLng, rushHour)

	if est, ok := s.lru.Get(key); ok {
		s.count(func(st *response.TravelCacheStatsResponse) { st.MemoryHits++ })
		est.Source = entity.TravelSourceCache
		return &est, true
	}
	s.count(func(st *response.TravelCacheStatsResponse) { st.MemoryMisses++ })

	row, err := s.repo.Find(ctx, key, s.now())
	if err != nil {
		s.log.Warn("Travel cache read failed, treating as miss",
			zap.Error(err),
			zap.String("key", key.String()),
		)
		s.count(func(st *response.TravelCacheStatsResponse) { st.StoreMisses++ })
		return nil, false
	}
	if row == nil {
		s.count(func(st *response.TravelCacheStatsResponse) { st.StoreMisses++ })
		return nil, false
	}

	s.count(func(st *response.TravelCacheStatsResponse) { st.StoreHits++ })

	est := entity.TravelEstimate{
		TravelTimeMinutes: row.TravelTimeMinutes,
		DistanceMiles:     row.DistanceMiles,
		Source:            entity.TravelSourceCache,
	}
	s.lru.Add(key, est)

	return &est, true
}

// Set writes an estimate to both tiers. The LRU write always lands; a
// failed persistent upsert is logged and reported via the false return,
// leaving the cache serviceable in-process.
func (s *travelService) Set(ctx context.Context, originLat, originLng, destLat, destLng float64, travelTimeMinutes int, distanceMiles float64, rushHour bool, source entity.TravelSource) bool {
	key := entity.NewTravelCacheKey(originLat, originLng, destLat, destLng, rushHour)

	s.lru.Add(key, entity.TravelEstimate{
		TravelTimeMinutes: travelTimeMinutes,
		DistanceMiles:     distanceMiles,
		Source:            source,
	})
	s.count(func(st *response.TravelCacheStatsResponse) { st.Writes++ })

	now := s.now()
	entry := &entity.TravelCacheEntry{
		TravelCacheKey:    key,
		TravelTimeMinutes: travelTimeMinutes,
		DistanceMiles:     distanceMiles,
		Source:            source,
		CreatedAt:         now,
		ExpiresAt:         now.Add(time.Duration(s.cfg.CacheTTLDays) * 24 * time.Hour),
	}

	if err := s.repo.Upsert(ctx, entry); err != nil {
		s.log.Error("Travel cache persistent write failed",
			zap.Error(err),
			zap.String("key", key.String()),
		)
		s.count(func(st *response.TravelCacheStatsResponse) { st.WriteFailures++ })
		return false
	}

	return true
}

// Quote prices the travel fee for a trip, serving from the cache when
// possible and falling back to the great-circle estimator on a miss. The
// estimate is written back through Set.
func (s *travelService) Quote(ctx context.Context, req *request.TravelQuoteRequest) (*response.TravelQuoteResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	est, ok := s.Get(ctx, req.OriginLat, req.OriginLng, req.DestLat, req.DestLng, req.RushHour)
	if !ok {
		est = s.estimate(req.OriginLat, req.OriginLng, req.DestLat, req.DestLng, req.RushHour)
		s.Set(ctx, req.OriginLat, req.OriginLng, req.DestLat, req.DestLng,
			est.TravelTimeMinutes, est.DistanceMiles, req.RushHour, est.Source)
	}

	return &response.TravelQuoteResponse{
		TravelTimeMinutes: est.TravelTimeMinutes,
		DistanceMiles:     est.DistanceMiles,
		Source:            string(est.Source),
		RushHour:          req.RushHour,
		TravelFee:         s.travelFee(est.DistanceMiles),
	}, nil
}

// CleanupExpired removes expired persistent rows. The LRU is untouched;
// its entries cycle out by capacity pressure.
func (s *travelService) CleanupExpired(ctx context.Context) (int64, error) {
	count, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.log.Info("Removed expired travel cache rows", zap.Int64("count", count))
	}
	return count, nil
}

func (s *travelService) Stats() *response.TravelCacheStatsResponse {
	s.mu.Lock()
	stats := s.stats
	s.mu.Unlock()

	stats.MemoryEntries = s.lru.Len()
	stats.MemoryCapacity = s.cfg.CacheCapacity
	return &stats
}

func (s *travelService) count(fn func(*response.TravelCacheStatsResponse)) {
	s.mu.Lock()
	fn(&s.stats)
	s.mu.Unlock()
}

// estimate computes a great-circle fallback when no external routing
// result is cached.
func (s *travelService) estimate(originLat, originLng, destLat, destLng float64, rushHour bool) *entity.TravelEstimate {
	miles := haversineMiles(originLat, originLng, destLat, destLng)

	speed := s.cfg.BaseSpeedMph
	if speed <= 0 {
		speed = 30
	}

	minutes := miles / speed * 60
	if rushHour && s.cfg.RushHourFactor > 1 {
		minutes *= s.cfg.RushHourFactor
	}

	return &entity.TravelEstimate{
		TravelTimeMinutes: int(math.Ceil(minutes)),
		DistanceMiles:     math.Round(miles*10) / 10,
		Source:            entity.TravelSourceEstimate,
	}
}

func (s *travelService) travelFee(miles float64) float64 {
	if miles <= s.cfg.FreeMiles {
		return 0
	}
	fee := (miles - s.cfg.FreeMiles) * s.cfg.PerMileRate
	return math.Round(fee*100) / 100
}

// haversineMiles is the great-circle distance between two coordinates.
func haversineMiles(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371
	const milesPerKm = 0.621371

	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c * milesPerKm
}
