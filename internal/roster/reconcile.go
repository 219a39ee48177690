package roster

import (
	"time"

	"github.com/google/uuid"

	"github.com/nexus-hrm/hrm-service/internal/domain"
)

// Reconcile merges a freshly fetched member batch into the current roster.
//
// The merge is additive and first-write-wins: records already present (keyed
// by external id) are carried over untouched, members not yet known are
// admitted with a fresh local id and zeroed metrics. Nothing is ever removed;
// re-running with the same batch yields the same roster.
//
// Existing records keep their original relative order; admissions are
// appended in the order the source returned them.
func Reconcile(current []domain.StaffRecord, fetched []domain.ExternalMember, table *MappingTable) []domain.StaffRecord {
	next := make([]domain.StaffRecord, len(current), len(current)+len(fetched))
	copy(next, current)

	known := make(map[int64]struct{}, len(current))
	for _, rec := range current {
		known[rec.ExternalID] = struct{}{}
	}

	for _, m := range fetched {
		if _, exists := known[m.ExternalID]; exists {
			continue
		}
		known[m.ExternalID] = struct{}{}
		next = append(next, admit(m, table))
	}
	return next
}

// admit builds the initial record for a newly observed member. Session fields
// stay zeroed until a live presence feed exists.
func admit(m domain.ExternalMember, table *MappingTable) domain.StaffRecord {
	return domain.StaffRecord{
		ID:             uuid.NewString(),
		ExternalID:     m.ExternalID,
		DisplayName:    m.DisplayName,
		InternalRoleID: table.Resolve(m.ExternalRankID),
		Status:         domain.StaffStatusActive,
		JoinedDate:     truncateToDay(time.Now()),
		AvatarRef:      m.AvatarRef,
		Logs:           []domain.PerformanceLog{},
	}
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
