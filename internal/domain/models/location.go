package models

import "time"

// Location is one geocoded itinerary stop. Order is zero-based and gapless per trip.
type Location struct {
	ID        string    `db:"id" json:"id"`
	TripID    string    `db:"trip_id" json:"tripId"`
	Lat       float64   `db:"lat" json:"lat"`
	Lng       float64   `db:"lng" json:"lng"`
	Title     string    `db:"title" json:"locationTitle"`
	Order     int       `db:"sort_order" json:"order"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
