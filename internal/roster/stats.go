package roster

import (
	"time"

	"github.com/nexus-hrm/hrm-service/internal/domain"
)

// promotionPointThreshold marks a record as due for promotion review.
const promotionPointThreshold = 1000

// weeklyLookbackWeeks is the assumed lookback window for the weekly minutes
// approximation. Total minutes divided by this is reported as the weekly
// figure; there is no real time-windowed shift log behind it.
const weeklyLookbackWeeks = 4

// ComputeStats derives the dashboard summary figures from the roster. Pure
// and recomputed on every read, never stored.
func ComputeStats(records []domain.StaffRecord) domain.RosterStats {
	stats := domain.RosterStats{TotalStaff: len(records)}
	today := truncateToDay(time.Now())

	totalMinutes := 0
	for _, rec := range records {
		if rec.IsActiveSession {
			stats.ActiveNow++
		}
		if rec.TotalPoints > promotionPointThreshold {
			stats.PendingPromotions++
		}
		totalMinutes += rec.TotalMinutes
		for _, entry := range rec.Logs {
			if entry.Kind == domain.LogKindPoint && entry.Date.Equal(today) {
				stats.PointsIssuedToday++
			}
		}
	}
	stats.TotalMinutesThisWeek = totalMinutes / weeklyLookbackWeeks
	return stats
}
