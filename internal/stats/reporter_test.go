package stats

import (
	"testing"
	"time"

	"driver-portal/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helpers
// ==========================

func appsWithStatuses(now time.Time, statuses ...models.Status) []models.Application {
	apps := make([]models.Application, 0, len(statuses))
	for i, status := range statuses {
		apps = append(apps, models.Application{
			ID:          "id" + string(rune('a'+i)),
			Status:      status,
			SubmittedAt: now,
			Fields:      map[string]interface{}{},
		})
	}
	return apps
}

// ==========================
// Summary Tests
// ==========================

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, time.Now())

	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0, s.Pending)
	assert.Equal(t, 0, s.Approved)
	assert.Equal(t, 0, s.Rejected)
	assert.Equal(t, 0, s.ApprovalRate, "empty collection must not divide by zero")
	assert.Equal(t, 0, s.ActiveDrivers)
}

func TestSummarize_Counts(t *testing.T) {
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	apps := appsWithStatuses(now,
		models.StatusPending, models.StatusPending, models.StatusPending,
		models.StatusPending, models.StatusPending, models.StatusPending,
		models.StatusPending,
		models.StatusApproved, models.StatusApproved,
		models.StatusRejected,
	)

	s := Summarize(apps, now)

	assert.Equal(t, 10, s.Total)
	assert.Equal(t, 7, s.Pending)
	assert.Equal(t, 2, s.Approved)
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, 2, s.ActiveDrivers)
	assert.Equal(t, 20, s.ApprovalRate)
	assert.Equal(t, 20, s.ConversionRate)
	assert.Equal(t, 3, s.AvgProcessingDays)
}

func TestSummarize_StatusPartitionInvariant(t *testing.T) {
	now := time.Now()
	apps := appsWithStatuses(now,
		models.StatusPending, models.StatusApproved, models.StatusRejected,
		models.StatusApproved, models.StatusPending,
	)

	s := Summarize(apps, now)
	assert.Equal(t, s.Total, s.Pending+s.Approved+s.Rejected,
		"every record counts exactly once")
}

func TestSummarize_ThisMonth(t *testing.T) {
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

	apps := []models.Application{
		{ID: "a", Status: models.StatusPending, SubmittedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "b", Status: models.StatusPending, SubmittedAt: time.Date(2026, 5, 31, 23, 59, 59, 0, time.UTC)},
		{ID: "c", Status: models.StatusPending, SubmittedAt: time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)},
		{ID: "d", Status: models.StatusPending, SubmittedAt: time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)},
	}

	s := Summarize(apps, now)
	assert.Equal(t, 2, s.ThisMonth, "same month of a different year must not count")
}

func TestSummarize_ApprovalRateRounds(t *testing.T) {
	now := time.Now()
	apps := appsWithStatuses(now,
		models.StatusApproved, models.StatusPending, models.StatusPending,
	)

	s := Summarize(apps, now)
	assert.Equal(t, 33, s.ApprovalRate)

	apps = appsWithStatuses(now,
		models.StatusApproved, models.StatusApproved, models.StatusPending,
	)
	s = Summarize(apps, now)
	assert.Equal(t, 67, s.ApprovalRate)
}
