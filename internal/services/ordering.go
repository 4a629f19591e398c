package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"travelplanner/internal/domain"
	"travelplanner/internal/domain/models"
	"travelplanner/internal/repositories"
	"travelplanner/internal/utils"
)

// OrderingService owns the order field of itinerary stops.
type OrderingService struct {
	Trips     TripStore
	Locations LocationStore
	RequestID string
}

// Reorder persists orderedIDs as the trip's new stop order: the stop at index i
// gets order i. orderedIDs must be exactly the trip's current stop IDs; any
// other set is rejected and nothing is written. All rows change in one
// transaction.
func (s OrderingService) Reorder(ctx context.Context, callerID, tripID string, orderedIDs []string) error {
	if tripID == "" {
		return domain.ValidationError{Field: "tripId", Msg: "is required"}
	}
	if dup, ok := firstDuplicate(orderedIDs); ok {
		return domain.ValidationError{Field: "locationIds", Msg: fmt.Sprintf("duplicate id %s", dup)}
	}
	if _, err := loadOwnedTrip(ctx, s.Trips, s.RequestID, callerID, tripID); err != nil {
		return err
	}

	err := s.Locations.Reorder(ctx, tripID, orderedIDs, func(current []string) error {
		return CheckPermutation(current, orderedIDs)
	})
	switch {
	case err == nil:
	case domain.IsValidation(err):
		return err
	case errors.Is(err, repositories.ErrNotFound):
		return domain.NotFoundError{Resource: "trip", Err: err}
	default:
		return storeError(s.RequestID, "ordering", "reorder", err)
	}

	utils.LogEvent(s.RequestID, "ordering", "reorder", fmt.Sprintf("trip_id=%s stops=%d", tripID, len(orderedIDs)))
	return nil
}

// CheckPermutation returns a ValidationError unless ordered holds every ID of
// current exactly once and nothing else.
func CheckPermutation(current, ordered []string) error {
	if dup, ok := firstDuplicate(ordered); ok {
		return domain.ValidationError{Field: "locationIds", Msg: fmt.Sprintf("duplicate id %s", dup)}
	}
	known := make(map[string]struct{}, len(current))
	for _, id := range current {
		known[id] = struct{}{}
	}
	for _, id := range ordered {
		if _, ok := known[id]; !ok {
			return domain.ValidationError{Field: "locationIds", Msg: fmt.Sprintf("id %s does not belong to this trip", id)}
		}
	}
	if len(ordered) != len(current) {
		return domain.ValidationError{Field: "locationIds", Msg: fmt.Sprintf("expected %d ids, got %d", len(current), len(ordered))}
	}
	return nil
}

func firstDuplicate(ids []string) (string, bool) {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return "", false
}

// MoveLocation is what a client applies after dragging the stop at index from
// onto index to: move it, then relabel every Order with its new index. The
// result equals what Reorder persists for the resulting ID sequence. Indexes
// out of range leave the sequence as is. The input slice is not modified.
func MoveLocation(locs []models.Location, from, to int) []models.Location {
	out := make([]models.Location, len(locs))
	copy(out, locs)
	if from >= 0 && from < len(out) && to >= 0 && to < len(out) && from != to {
		moved := out[from]
		if from < to {
			copy(out[from:to], out[from+1:to+1])
		} else {
			copy(out[to+1:from+1], out[to:from])
		}
		out[to] = moved
	}
	for i := range out {
		out[i].Order = i
	}
	return out
}

// NormalizeOrder sorts stops by Order (stable) and relabels them 0..N-1.
func NormalizeOrder(locs []models.Location) []models.Location {
	out := make([]models.Location, len(locs))
	copy(out, locs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	for i := range out {
		out[i].Order = i
	}
	return out
}

// LocationIDs returns the IDs in slice order.
func LocationIDs(locs []models.Location) []string {
	ids := make([]string, 0, len(locs))
	for _, l := range locs {
		ids = append(ids, l.ID)
	}
	return ids
}
