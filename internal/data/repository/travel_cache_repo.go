package repository

import (
	"context"
	"fmt"
	"time"

	"hibachi-booking/internal/data/entity"
	"hibachi-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TravelCacheRepository interface {
	Find(ctx context.Context, key entity.TravelCacheKey, now time.Time) (*entity.TravelCacheEntry, error)
	Upsert(ctx context.Context, entry *entity.TravelCacheEntry) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type travelCacheRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTravelCacheRepository(db database.PgxIface, log *zap.Logger) TravelCacheRepository {
	return &travelCacheRepository{
		db:  db,
		log: log.With(zap.String("repository", "travel_cache")),
	}
}

// Find returns the live row for a rounded key, bumping its hit counter.
// Expired rows are filtered by the expires_at predicate even while they
// still physically exist.
func (r *travelCacheRepository) Find(ctx context.Context, key entity.TravelCacheKey, now time.Time) (*entity.TravelCacheEntry, error) {
	query := `
		UPDATE travel_cache
		SET hit_count = hit_count + 1
		WHERE origin_lat = $1
		  AND origin_lng = $2
		  AND dest_lat = $3
		  AND dest_lng = $4
		  AND is_rush_hour = $5
		  AND expires_at > $6
		RETURNING travel_time_minutes, distance_miles, source, hit_count, created_at, expires_at
	`

	entry := entity.TravelCacheEntry{TravelCacheKey: key}
	err := r.db.QueryRow(ctx, query,
		key.OriginLat, key.OriginLng, key.DestLat, key.DestLng, key.RushHour, now,
	).Scan(
		&entry.TravelTimeMinutes,
		&entry.DistanceMiles,
		&entry.Source,
		&entry.HitCount,
		&entry.CreatedAt,
		&entry.ExpiresAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to read travel cache row",
			zap.Error(err),
			zap.String("key", key.String()),
		)
		return nil, fmt.Errorf("read travel cache %s: %w", key.String(), err)
	}

	return &entry, nil
}

// Upsert inserts or refreshes a row for the rounded key. A refresh resets
// the hit counter and pushes expires_at out to the entry's new expiry.
func (r *travelCacheRepository) Upsert(ctx context.Context, entry *entity.TravelCacheEntry) error {
	query := `
		INSERT INTO travel_cache (origin_lat, origin_lng, dest_lat, dest_lng, is_rush_hour, travel_time_minutes, distance_miles, source, hit_count, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10)
		ON CONFLICT (origin_lat, origin_lng, dest_lat, dest_lng, is_rush_hour)
		DO UPDATE SET
			travel_time_minutes = EXCLUDED.travel_time_minutes,
			distance_miles = EXCLUDED.distance_miles,
			source = EXCLUDED.source,
			hit_count = 0,
			expires_at = EXCLUDED.expires_at
	`

	_, err := r.db.Exec(ctx, query,
		entry.OriginLat,
		entry.OriginLng,
		entry.DestLat,
		entry.DestLng,
		entry.RushHour,
		entry.TravelTimeMinutes,
		entry.DistanceMiles,
		entry.Source,
		entry.CreatedAt,
		entry.ExpiresAt,
	)

	if err != nil {
		r.log.Error("Failed to upsert travel cache row",
			zap.Error(err),
			zap.String("key", entry.TravelCacheKey.String()),
		)
		return fmt.Errorf("upsert travel cache %s: %w", entry.TravelCacheKey.String(), err)
	}

	return nil
}

func (r *travelCacheRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM travel_cache WHERE expires_at <= $1`, now)
	if err != nil {
		r.log.Error("Failed to delete expired travel cache rows", zap.Error(err))
		return 0, fmt.Errorf("delete expired travel cache rows: %w", err)
	}

	return tag.RowsAffected(), nil
}
