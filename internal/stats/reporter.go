// Package stats computes read-only aggregates over the current collection.
// Nothing is cached; every call recomputes from the snapshot it is given.
package stats

import (
	"math"
	"time"

	"driver-portal/internal/models"
)

type Summary struct {
	Total             int `json:"total"`
	Pending           int `json:"pending"`
	Approved          int `json:"approved"`
	Rejected          int `json:"rejected"`
	ActiveDrivers     int `json:"activeDrivers"`
	ThisMonth         int `json:"thisMonth"`
	ApprovalRate      int `json:"approvalRate"`
	ConversionRate    int `json:"conversionRate"`
	AvgProcessingDays int `json:"avgProcessingDays"`
}

// Summarize computes the dashboard aggregates. Every record counts exactly
// once toward one of the three statuses, so pending+approved+rejected always
// equals total.
func Summarize(apps []models.Application, now time.Time) Summary {
	s := Summary{Total: len(apps)}

	for _, app := range apps {
		switch app.Status {
		case models.StatusApproved:
			s.Approved++
		case models.StatusRejected:
			s.Rejected++
		default:
			s.Pending++
		}

		if app.SubmittedAt.Month() == now.Month() && app.SubmittedAt.Year() == now.Year() {
			s.ThisMonth++
		}
	}

	s.ActiveDrivers = s.Approved
	if s.Total > 0 {
		s.ApprovalRate = int(math.Round(float64(s.Approved) / float64(s.Total) * 100))
	}
	s.ConversionRate = s.ApprovalRate
	// TODO: derive from status-change timestamps once those are recorded.
	s.AvgProcessingDays = 3

	return s
}
