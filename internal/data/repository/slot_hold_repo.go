package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hibachi-booking/internal/data/entity"
	"hibachi-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type SlotHoldRepository interface {
	Insert(ctx context.Context, hold *entity.SlotHold) error
	FindByToken(ctx context.Context, token uuid.UUID) (*entity.SlotHold, error)
	FindActiveBySlot(ctx context.Context, stationID uuid.UUID, eventDate time.Time, slotTime string, now time.Time) ([]*entity.SlotHold, error)
	ExistsActiveBySlot(ctx context.Context, stationID uuid.UUID, eventDate time.Time, slotTime string, now time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.HoldStatus) error
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

type slotHoldRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSlotHoldRepository(db database.PgxIface, log *zap.Logger) SlotHoldRepository {
	return &slotHoldRepository{
		db:  db,
		log: log.With(zap.String("repository", "slot_hold")),
	}
}

const slotHoldColumns = `id, station_id, event_date, to_char(slot_time, 'HH24:MI'), customer_email, customer_name, guest_count, status, token, created_at, expires_at`

// Insert writes a new hold row. The slot_holds table carries a partial
// unique index on (station_id, event_date, slot_time) restricted to
// pending/signed rows; losing a concurrent-create race surfaces as
// ErrSlotUnavailable, the same outcome as the availability pre-check.
//
// Genuinely expired rows for the slot are flipped to expired in the same
// transaction first, so a stale pending row whose expiry already passed
// cannot trip the index against a legitimate new hold.
func (r *slotHoldRepository) Insert(ctx context.Context, hold *entity.SlotHold) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin insert hold: %w", err)
	}
	defer tx.Rollback(ctx)

	expireStale := `
		UPDATE slot_holds
		SET status = 'expired'
		WHERE station_id = $1
		  AND event_date = $2
		  AND slot_time = $3::time
		  AND status IN ('pending', 'signed')
		  AND expires_at <= $4
	`

	if _, err := tx.Exec(ctx, expireStale, hold.StationID, hold.EventDate, hold.SlotTime, hold.CreatedAt); err != nil {
		r.log.Error("Failed to reconcile stale holds before insert", zap.Error(err))
		return fmt.Errorf("reconcile stale holds: %w", err)
	}

	insert := `
		INSERT INTO slot_holds (id, station_id, event_date, slot_time, customer_email, customer_name, guest_count, status, token, created_at, expires_at)
		VALUES ($1, $2, $3, $4::time, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = tx.Exec(ctx, insert,
		hold.ID,
		hold.StationID,
		hold.EventDate,
		hold.SlotTime,
		hold.CustomerEmail,
		hold.CustomerName,
		hold.GuestCount,
		hold.Status,
		hold.Token,
		hold.CreatedAt,
		hold.ExpiresAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlotUnavailable
		}

		r.log.Error("Failed to insert slot hold",
			zap.Error(err),
			zap.String("station_id", hold.StationID.String()),
			zap.String("event_date", hold.EventDate.Format("2006-01-02")),
			zap.String("slot_time", hold.SlotTime),
		)
		return fmt.Errorf("insert slot hold: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit insert hold: %w", err)
	}

	return nil
}

func (r *slotHoldRepository) FindByToken(ctx context.Context, token uuid.UUID) (*entity.SlotHold, error) {
	query := `
		SELECT ` + slotHoldColumns + `
		FROM slot_holds
		WHERE token = $1
	`

	hold, err := r.scanOne(r.db.QueryRow(ctx, query, token))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find hold by token", zap.Error(err))
		return nil, fmt.Errorf("find hold by token: %w", err)
	}

	return hold, nil
}

// FindActiveBySlot returns the holds still blocking a slot: pending or
// signed status and not yet expired. Date and time are matched against their
// separate columns.
func (r *slotHoldRepository) FindActiveBySlot(ctx context.Context, stationID uuid.UUID, eventDate time.Time, slotTime string, now time.Time) ([]*entity.SlotHold, error) {
	query := `
		SELECT ` + slotHoldColumns + `
		FROM slot_holds
		WHERE station_id = $1
		  AND event_date = $2
		  AND slot_time = $3::time
		  AND status IN ('pending', 'signed')
		  AND expires_at > $4
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, stationID, eventDate, slotTime, now)
	if err != nil {
		r.log.Error("Failed to query active holds", zap.Error(err))
		return nil, fmt.Errorf("find active holds: %w", err)
	}
	defer rows.Close()

	var holds []*entity.SlotHold
	for rows.Next() {
		hold, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hold: %w", err)
		}
		holds = append(holds, hold)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holds: %w", err)
	}

	return holds, nil
}

func (r *slotHoldRepository) ExistsActiveBySlot(ctx context.Context, stationID uuid.UUID, eventDate time.Time, slotTime string, now time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM slot_holds
			WHERE station_id = $1
			  AND event_date = $2
			  AND slot_time = $3::time
			  AND status IN ('pending', 'signed')
			  AND expires_at > $4
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, stationID, eventDate, slotTime, now).Scan(&exists); err != nil {
		r.log.Error("Failed to check active holds", zap.Error(err))
		return false, fmt.Errorf("check active holds: %w", err)
	}

	return exists, nil
}

func (r *slotHoldRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.HoldStatus) error {
	query := `UPDATE slot_holds SET status = $1 WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		r.log.Error("Failed to update hold status",
			zap.Error(err),
			zap.String("hold_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update hold %s status: %w", id.String(), err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("hold %s not found", id.String())
	}

	return nil
}

// ExpireStale flips pending/signed rows past their expiry to expired so
// read paths that look at raw status see consistent state. Availability
// never depends on this sweep; the predicates re-check expires_at anyway.
func (r *slotHoldRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE slot_holds
		SET status = 'expired'
		WHERE status IN ('pending', 'signed')
		  AND expires_at <= $1
	`

	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to expire stale holds", zap.Error(err))
		return 0, fmt.Errorf("expire stale holds: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *slotHoldRepository) scanOne(row pgx.Row) (*entity.SlotHold, error) {
	var hold entity.SlotHold
	err := row.Scan(
		&hold.ID,
		&hold.StationID,
		&hold.EventDate,
		&hold.SlotTime,
		&hold.CustomerEmail,
		&hold.CustomerName,
		&hold.GuestCount,
		&hold.Status,
		&hold.Token,
		&hold.CreatedAt,
		&hold.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &hold, nil
}
