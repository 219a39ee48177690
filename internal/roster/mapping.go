package roster

import (
	"fmt"

	"github.com/nexus-hrm/hrm-service/internal/domain"
)

// MappingTable resolves external rank ids to internal roles. It is always
// non-empty and free of duplicate external rank ids; both are enforced at
// construction time.
type MappingTable struct {
	entries []domain.RankMapping
}

// NewMappingTable validates and wraps a mapping set. Discovery order is
// preserved; the last entry acts as the catch-all for unmapped rank ids.
func NewMappingTable(mappings []domain.RankMapping) (*MappingTable, error) {
	if len(mappings) == 0 {
		return nil, fmt.Errorf("mapping table must not be empty")
	}
	seen := make(map[int]struct{}, len(mappings))
	for _, m := range mappings {
		if _, dup := seen[m.ExternalRankID]; dup {
			return nil, fmt.Errorf("duplicate external rank id %d in mapping table", m.ExternalRankID)
		}
		seen[m.ExternalRankID] = struct{}{}
		if m.InternalRoleID == "" {
			return nil, fmt.Errorf("mapping for external rank id %d has no internal role", m.ExternalRankID)
		}
	}
	entries := make([]domain.RankMapping, len(mappings))
	copy(entries, mappings)
	return &MappingTable{entries: entries}, nil
}

// Resolve returns the internal role for an external rank id. Unmapped ids
// fall back to the last entry's role, which by convention is the
// lowest-precedence rank.
func (t *MappingTable) Resolve(externalRankID int) domain.RoleID {
	for _, m := range t.entries {
		if m.ExternalRankID == externalRankID {
			return m.InternalRoleID
		}
	}
	return t.entries[len(t.entries)-1].InternalRoleID
}

// Entries returns a copy of the mapping set in table order.
func (t *MappingTable) Entries() []domain.RankMapping {
	out := make([]domain.RankMapping, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len reports the number of mappings.
func (t *MappingTable) Len() int {
	return len(t.entries)
}
