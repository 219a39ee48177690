package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-hrm/hrm-service/internal/domain"
)

func testTable(t *testing.T) *MappingTable {
	t.Helper()
	table, err := NewMappingTable([]domain.RankMapping{
		{ExternalRankID: 1, InternalRoleID: domain.RoleManager, Label: "Officer"},
		{ExternalRankID: 2, InternalRoleID: domain.RoleTrainee, Label: "Cadet"},
	})
	require.NoError(t, err)
	return table
}

func TestReconcileFirstSync(t *testing.T) {
	table := testTable(t)
	fetched := []domain.ExternalMember{
		{ExternalID: 100, DisplayName: "Alice", ExternalRankID: 1},
		{ExternalID: 101, DisplayName: "Bob", ExternalRankID: 5},
	}

	next := Reconcile(nil, fetched, table)

	require.Len(t, next, 2)
	assert.Equal(t, "Alice", next[0].DisplayName)
	assert.Equal(t, domain.RoleManager, next[0].InternalRoleID)
	// rank id 5 is unmapped, so Bob falls back to the last table entry
	assert.Equal(t, domain.RoleTrainee, next[1].InternalRoleID)

	for _, rec := range next {
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, domain.StaffStatusActive, rec.Status)
		assert.Zero(t, rec.TotalPoints)
		assert.Zero(t, rec.TotalMinutes)
		assert.False(t, rec.IsActiveSession)
		assert.Zero(t, rec.ShiftsCompleted)
		assert.Empty(t, rec.Logs)
		assert.False(t, rec.JoinedDate.IsZero())
	}
}

func TestReconcileRepeatSyncWithNewMember(t *testing.T) {
	table := testTable(t)
	initial := Reconcile(nil, []domain.ExternalMember{
		{ExternalID: 100, DisplayName: "Alice", ExternalRankID: 1},
		{ExternalID: 101, DisplayName: "Bob", ExternalRankID: 5},
	}, table)

	next := Reconcile(initial, []domain.ExternalMember{
		{ExternalID: 100, DisplayName: "Alice", ExternalRankID: 1},
		{ExternalID: 102, DisplayName: "Carol", ExternalRankID: 2},
	}, table)

	require.Len(t, next, 3)
	// existing records are carried over untouched, in their original order
	assert.Equal(t, initial[0], next[0])
	assert.Equal(t, initial[1], next[1])
	assert.Equal(t, "Carol", next[2].DisplayName)
	assert.Equal(t, domain.RoleTrainee, next[2].InternalRoleID)
}

func TestReconcileIdempotent(t *testing.T) {
	table := testTable(t)
	batch := []domain.ExternalMember{
		{ExternalID: 100, DisplayName: "Alice", ExternalRankID: 1},
		{ExternalID: 101, DisplayName: "Bob", ExternalRankID: 2},
	}

	once := Reconcile(nil, batch, table)
	twice := Reconcile(once, batch, table)

	assert.Equal(t, once, twice)
}

func TestReconcileFirstWriteWins(t *testing.T) {
	table := testTable(t)
	batch := []domain.ExternalMember{{ExternalID: 100, DisplayName: "Alice", ExternalRankID: 1}}
	initial := Reconcile(nil, batch, table)

	// the source reports a drifted name and rank; re-sync must not correct them
	drifted := []domain.ExternalMember{{ExternalID: 100, DisplayName: "Alice2", ExternalRankID: 2}}
	next := Reconcile(initial, drifted, table)

	require.Len(t, next, 1)
	assert.Equal(t, "Alice", next[0].DisplayName)
	assert.Equal(t, domain.RoleManager, next[0].InternalRoleID)
	assert.Equal(t, initial[0].ID, next[0].ID)
}

func TestReconcileNeverShrinks(t *testing.T) {
	table := testTable(t)
	initial := Reconcile(nil, []domain.ExternalMember{
		{ExternalID: 100, DisplayName: "Alice", ExternalRankID: 1},
		{ExternalID: 101, DisplayName: "Bob", ExternalRankID: 2},
	}, table)

	// Bob has departed the group; he must still be present after the sync
	next := Reconcile(initial, []domain.ExternalMember{
		{ExternalID: 100, DisplayName: "Alice", ExternalRankID: 1},
	}, table)

	require.Len(t, next, 2)
	ids := map[int64]struct{}{}
	for _, rec := range next {
		ids[rec.ExternalID] = struct{}{}
	}
	assert.Contains(t, ids, int64(100))
	assert.Contains(t, ids, int64(101))
}

func TestReconcileNoDuplicateExternalIDs(t *testing.T) {
	table := testTable(t)
	// duplicate entries inside a single batch must admit only one record
	batch := []domain.ExternalMember{
		{ExternalID: 100, DisplayName: "Alice", ExternalRankID: 1},
		{ExternalID: 100, DisplayName: "Alice", ExternalRankID: 1},
		{ExternalID: 101, DisplayName: "Bob", ExternalRankID: 2},
	}

	next := Reconcile(nil, batch, table)

	seen := map[int64]int{}
	for _, rec := range next {
		seen[rec.ExternalID]++
	}
	for id, count := range seen {
		assert.Equalf(t, 1, count, "external id %d admitted %d times", id, count)
	}
	assert.Len(t, next, 2)
}

func TestReconcileEmptyBatch(t *testing.T) {
	table := testTable(t)
	initial := Reconcile(nil, []domain.ExternalMember{
		{ExternalID: 100, DisplayName: "Alice", ExternalRankID: 1},
	}, table)

	next := Reconcile(initial, nil, table)
	assert.Equal(t, initial, next)
}
