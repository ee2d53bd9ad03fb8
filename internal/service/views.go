package service

import "github.com/iliyamo/cinema-screening-booking/internal/model"

// ScreeningSummary is the list projection of a screening.
type ScreeningSummary struct {
	Title     string              `json:"title"`
	StartTime model.LocalDateTime `json:"startTime"`
	FreeSeats int                 `json:"freeSeats"`
}

// ScreeningView is the full projection returned by single-screening
// operations.
type ScreeningView struct {
	ID            int64               `json:"id"`
	Title         string              `json:"title"`
	StartTime     model.LocalDateTime `json:"startTime"`
	NumberOfSeats int                 `json:"numberOfSeats"`
	FreeSeats     int                 `json:"freeSeats"`
}

func toSummary(s model.Screening) ScreeningSummary {
	return ScreeningSummary{
		Title:     s.Title,
		StartTime: model.LocalDateTime{Time: s.StartTime},
		FreeSeats: s.FreeSeats,
	}
}

func toView(s model.Screening) ScreeningView {
	return ScreeningView{
		ID:            s.ID,
		Title:         s.Title,
		StartTime:     model.LocalDateTime{Time: s.StartTime},
		NumberOfSeats: s.Capacity,
		FreeSeats:     s.FreeSeats,
	}
}
