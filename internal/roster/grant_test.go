package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-hrm/hrm-service/internal/domain"
)

func sampleRecord() domain.StaffRecord {
	return domain.StaffRecord{
		ID:             "rec-1",
		ExternalID:     100,
		DisplayName:    "Alice",
		InternalRoleID: domain.RoleManager,
		Status:         domain.StaffStatusActive,
		TotalPoints:    40,
		TotalMinutes:   120,
	}
}

func TestGrantRejectsNonPositiveAmounts(t *testing.T) {
	for _, amount := range []int{0, -5} {
		rec := sampleRecord()
		applied := Grant(&rec, MetricPoints, amount, "Admin")
		assert.False(t, applied)
		assert.Equal(t, 40, rec.TotalPoints)
		assert.Empty(t, rec.Logs)
	}
}

func TestGrantRejectsUnknownKind(t *testing.T) {
	rec := sampleRecord()
	applied := Grant(&rec, MetricKind("shifts"), 10, "Admin")
	assert.False(t, applied)
	assert.Equal(t, 40, rec.TotalPoints)
	assert.Equal(t, 120, rec.TotalMinutes)
}

func TestGrantPoints(t *testing.T) {
	rec := sampleRecord()
	applied := Grant(&rec, MetricPoints, 25, "Admin")

	require.True(t, applied)
	assert.Equal(t, 65, rec.TotalPoints)
	require.Len(t, rec.Logs, 1)
	assert.Equal(t, domain.LogKindPoint, rec.Logs[0].Kind)
	assert.Contains(t, rec.Logs[0].Description, "25")
	assert.Equal(t, "Admin", rec.Logs[0].IssuedBy)
}

func TestGrantMinutesPrependsShiftLog(t *testing.T) {
	rec := sampleRecord()
	require.True(t, Grant(&rec, MetricPoints, 10, "Admin"))
	firstLogID := rec.Logs[0].ID

	applied := Grant(&rec, MetricMinutes, 30, "Admin")

	require.True(t, applied)
	assert.Equal(t, 150, rec.TotalMinutes)
	require.Len(t, rec.Logs, 2)
	// newest entry first
	assert.Equal(t, domain.LogKindShift, rec.Logs[0].Kind)
	assert.Contains(t, rec.Logs[0].Description, "30")
	assert.Equal(t, firstLogID, rec.Logs[1].ID)
}

func TestGrantNilRecord(t *testing.T) {
	assert.False(t, Grant(nil, MetricPoints, 10, "Admin"))
}
