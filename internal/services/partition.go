package services

import (
	"fmt"
	"time"

	"travelplanner/internal/domain/models"
)

// TripPartition splits an owner's trips for the dashboard.
type TripPartition struct {
	All      []models.Trip `json:"trips"`
	Upcoming []models.Trip `json:"upcomingTrips"`
}

// PartitionTrips keeps trips in input order and marks as upcoming every trip
// whose start is at or after now.
func PartitionTrips(trips []models.Trip, now time.Time) TripPartition {
	p := TripPartition{
		All:      trips,
		Upcoming: []models.Trip{},
	}
	if p.All == nil {
		p.All = []models.Trip{}
	}
	for _, t := range trips {
		if !t.StartDate.Before(now) {
			p.Upcoming = append(p.Upcoming, t)
		}
	}
	return p
}

// Summary is the dashboard greeting line.
func (p TripPartition) Summary() string {
	n := len(p.All)
	if n == 0 {
		return "Start creating your first trip"
	}
	noun := "trips"
	if n == 1 {
		noun = "trip"
	}
	if len(p.Upcoming) > 0 {
		return fmt.Sprintf("You have %d %s planned, %d upcoming.", n, noun, len(p.Upcoming))
	}
	return fmt.Sprintf("You have %d %s planned.", n, noun)
}

// TripDurationDays counts calendar days from start to end date (end exclusive).
// Negative ranges report 0.
func TripDurationDays(t models.Trip) int {
	start := time.Date(t.StartDate.Year(), t.StartDate.Month(), t.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(t.EndDate.Year(), t.EndDate.Month(), t.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func LocationCountLabel(n int) string {
	if n == 1 {
		return "1 location"
	}
	return fmt.Sprintf("%d locations", n)
}
