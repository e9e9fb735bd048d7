package repository

import (
	"context"
	"fmt"

	"hibachi-booking/internal/data/entity"
	"hibachi-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type StationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Station, error)
	FindActive(ctx context.Context) ([]*entity.Station, error)
}

type stationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStationRepository(db database.PgxIface, log *zap.Logger) StationRepository {
	return &stationRepository{
		db:  db,
		log: log.With(zap.String("repository", "station")),
	}
}

func (r *stationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Station, error) {
	query := `
		SELECT id, name, city, lat, lng, is_active, created_at, updated_at
		FROM stations
		WHERE id = $1
	`

	var station entity.Station
	err := r.db.QueryRow(ctx, query, id).Scan(
		&station.ID,
		&station.Name,
		&station.City,
		&station.Lat,
		&station.Lng,
		&station.IsActive,
		&station.CreatedAt,
		&station.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find station by ID",
			zap.Error(err),
			zap.String("station_id", id.String()),
		)
		return nil, fmt.Errorf("find station by ID %s: %w", id.String(), err)
	}

	return &station, nil
}

func (r *stationRepository) FindActive(ctx context.Context) ([]*entity.Station, error) {
	query := `
		SELECT id, name, city, lat, lng, is_active, created_at, updated_at
		FROM stations
		WHERE is_active
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list stations", zap.Error(err))
		return nil, fmt.Errorf("list stations: %w", err)
	}
	defer rows.Close()

	var stations []*entity.Station
	for rows.Next() {
		var station entity.Station
		if err := rows.Scan(
			&station.ID,
			&station.Name,
			&station.City,
			&station.Lat,
			&station.Lng,
			&station.IsActive,
			&station.CreatedAt,
			&station.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		stations = append(stations, &station)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stations: %w", err)
	}

	return stations, nil
}
