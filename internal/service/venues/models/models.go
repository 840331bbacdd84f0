package models

import (
	"github.com/venuegrid/VG-ReservationEngine/internal/occupancy"
)

// OccupancyResponse снимок заполненности заведения
type OccupancyResponse struct {
	VenueID   int64   `json:"venueId"`
	VenueName string  `json:"venueName"`
	Current   int     `json:"current"`
	Capacity  int     `json:"capacity"`
	Rate      float64 `json:"rate"`
	Warning   string  `json:"warning"`
	TodayPeak int     `json:"todayPeak"`
}

// FromSnapshot конвертирует снимок трекера в response
func FromSnapshot(snap occupancy.Snapshot, venueName string) *OccupancyResponse {
	return &OccupancyResponse{
		VenueID:   snap.VenueID,
		VenueName: venueName,
		Current:   snap.Current,
		Capacity:  snap.Capacity,
		Rate:      snap.Rate,
		Warning:   string(snap.Warning),
		TodayPeak: snap.TodayPeak,
	}
}
