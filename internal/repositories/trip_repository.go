package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"travelplanner/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const tripColumns = `id, owner_id, name, destination, country, state, category, start_date, end_date, image_url, created_at, updated_at`

type TripRepository struct {
	DB *sqlx.DB
}

// CreateTrip inserts a trip. ID and timestamps must already be set.
func (r TripRepository) CreateTrip(ctx context.Context, t models.Trip) error {
	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO trips (`+tripColumns+`)
		VALUES (:id, :owner_id, :name, :destination, :country, :state, :category, :start_date, :end_date, :image_url, :created_at, :updated_at)`, t)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

// ListTripsByOwner returns the owner's trips, earliest start first.
func (r TripRepository) ListTripsByOwner(ctx context.Context, ownerID string) ([]models.Trip, error) {
	out := []models.Trip{}
	err := r.DB.SelectContext(ctx, &out, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE owner_id = ?
		ORDER BY start_date ASC, created_at ASC, id ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return out, nil
}

func (r TripRepository) GetTrip(ctx context.Context, id string) (models.Trip, error) {
	var t models.Trip
	err := r.DB.GetContext(ctx, &t, `SELECT `+tripColumns+` FROM trips WHERE id = ? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrNotFound
	}
	if err != nil {
		return t, fmt.Errorf("get trip: %w", err)
	}
	return t, nil
}

// lockTrip takes a row lock on the trip so that writers to its itinerary
// are serialized until the surrounding transaction ends.
func lockTrip(ctx context.Context, tx *sqlx.Tx, tripID string) error {
	var id string
	err := tx.GetContext(ctx, &id, `SELECT id FROM trips WHERE id = ? FOR UPDATE`, tripID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock trip: %w", err)
	}
	return nil
}
