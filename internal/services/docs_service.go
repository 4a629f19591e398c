package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"travelplanner/internal/domain/models"
	"travelplanner/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// ItineraryPDF renders the trip summary and its ordered stops as a printable
// A4 document. It returns the PDF bytes and a suggested file name.
func (s TripService) ItineraryPDF(ctx context.Context, callerID, tripID string) ([]byte, string, error) {
	trip, err := s.GetTripByID(ctx, callerID, tripID)
	if err != nil {
		return nil, "", err
	}
	pdf, name, err := buildItineraryPDF(trip)
	if err != nil {
		return nil, "", storeError(s.RequestID, "docs", "render_itinerary", err)
	}
	utils.LogEvent(s.RequestID, "docs", "render_itinerary", fmt.Sprintf("trip_id=%s stops=%d", tripID, len(trip.Locations)))
	return pdf, name, nil
}

func buildItineraryPDF(t models.TripWithLocations) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Itinerary - "+t.Name, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(safe(t.Name, "Trip")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Destination : %s", safe(t.Destination, "-")),
		fmt.Sprintf("Dates       : %s - %s (%d days)", utils.FormatDate(t.StartDate), utils.FormatDate(t.EndDate), TripDurationDays(t.Trip)),
		fmt.Sprintf("Category    : %s", safe(deref(t.Category), "-")),
		fmt.Sprintf("Stops       : %s", LocationCountLabel(len(t.Locations))),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, tr(l))
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Itinerary")
	pdf.Ln(10)

	if len(t.Locations) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.Cell(0, 7, "No itineraries found")
		pdf.Ln(7)
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, loc := range NormalizeOrder(t.Locations) {
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("Day %d  %s", loc.Order+1, safe(loc.Title, "-"))), "", "", false)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.Cell(0, 5, fmt.Sprintf("lat %.5f, lng %.5f", loc.Lat, loc.Lng))
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 11)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("ITINERARY_%s.pdf", safeFilenamePart(t.Name)), nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
