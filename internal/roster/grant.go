package roster

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nexus-hrm/hrm-service/internal/domain"
)

// MetricKind selects which counter a manual grant targets.
type MetricKind string

const (
	MetricPoints  MetricKind = "points"
	MetricMinutes MetricKind = "minutes"
)

// Valid reports whether the kind is one of the grantable metrics.
func (k MetricKind) Valid() bool {
	return k == MetricPoints || k == MetricMinutes
}

// Grant applies a manual metric adjustment to one record, prepending a log
// entry naming the amount. Non-positive amounts are rejected and leave the
// record untouched; the return value reports whether anything was applied.
func Grant(rec *domain.StaffRecord, kind MetricKind, amount int, issuedBy string) bool {
	if rec == nil || amount <= 0 || !kind.Valid() {
		return false
	}

	var logKind domain.LogKind
	var description string
	switch kind {
	case MetricPoints:
		rec.TotalPoints += amount
		logKind = domain.LogKindPoint
		description = fmt.Sprintf("Manual addition of %d points", amount)
	case MetricMinutes:
		rec.TotalMinutes += amount
		logKind = domain.LogKindShift
		description = fmt.Sprintf("Manual addition of %d minutes", amount)
	}

	entry := domain.PerformanceLog{
		ID:          uuid.NewString(),
		Date:        truncateToDay(time.Now()),
		Kind:        logKind,
		Description: description,
		IssuedBy:    issuedBy,
	}
	rec.Logs = append([]domain.PerformanceLog{entry}, rec.Logs...)
	return true
}
