package repositories

import (
	"context"
	"fmt"

	intdb "travelplanner/internal/db"
	"travelplanner/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const locationColumns = `id, trip_id, lat, lng, title, sort_order, created_at`

type LocationRepository struct {
	DB *sqlx.DB
}

// ListByTrip returns the itinerary in stop order.
func (r LocationRepository) ListByTrip(ctx context.Context, tripID string) ([]models.Location, error) {
	out := []models.Location{}
	err := r.DB.SelectContext(ctx, &out, `
		SELECT `+locationColumns+`
		FROM locations
		WHERE trip_id = ?
		ORDER BY sort_order ASC, created_at ASC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return out, nil
}

// Append stores loc at the end of the trip's itinerary. The trip row is locked
// for the count and the insert, so concurrent appends to one trip receive
// consecutive orders. loc.Order is ignored and set from the count.
func (r LocationRepository) Append(ctx context.Context, loc models.Location) (models.Location, error) {
	err := intdb.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if err := lockTrip(ctx, tx, loc.TripID); err != nil {
			return err
		}
		var count int
		if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM locations WHERE trip_id = ?`, loc.TripID); err != nil {
			return fmt.Errorf("count locations: %w", err)
		}
		loc.Order = count
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO locations (`+locationColumns+`)
			VALUES (:id, :trip_id, :lat, :lng, :title, :sort_order, :created_at)`, loc); err != nil {
			return fmt.Errorf("insert location: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Location{}, err
	}
	return loc, nil
}

// Reorder sets sort_order of every location in orderedIDs to its index.
// The trip row and its locations are locked first; validate receives the
// current location IDs and may veto the write. Either every row is updated or
// none is.
func (r LocationRepository) Reorder(ctx context.Context, tripID string, orderedIDs []string, validate func(current []string) error) error {
	return intdb.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if err := lockTrip(ctx, tx, tripID); err != nil {
			return err
		}
		current := []string{}
		if err := tx.SelectContext(ctx, &current, `SELECT id FROM locations WHERE trip_id = ? ORDER BY sort_order ASC FOR UPDATE`, tripID); err != nil {
			return fmt.Errorf("read locations: %w", err)
		}
		if validate != nil {
			if err := validate(current); err != nil {
				return err
			}
		}
		for i, id := range orderedIDs {
			if _, err := tx.ExecContext(ctx, `UPDATE locations SET sort_order = ? WHERE id = ? AND trip_id = ?`, i, id, tripID); err != nil {
				return fmt.Errorf("update location order: %w", err)
			}
		}
		return nil
	})
}
