package insight

import "github.com/nexus-hrm/hrm-service/internal/domain"

// HeuristicRankMappings maps external ranks onto the internal ladder by
// position alone: the highest external rank gets the highest internal role
// and so on down the ladder. Ranks beyond the ladder's length all map to the
// lowest role, which also makes the final entry the resolution catch-all.
// Used whenever AI-assisted inference is unavailable or returns an invalid
// mapping set. Expects ranks ordered highest first.
func HeuristicRankMappings(ranks []domain.ExternalRank) []domain.RankMapping {
	mappings := make([]domain.RankMapping, 0, len(ranks))
	for i, r := range ranks {
		roleIdx := i
		if roleIdx >= len(domain.DefaultRoles) {
			roleIdx = len(domain.DefaultRoles) - 1
		}
		mappings = append(mappings, domain.RankMapping{
			ExternalRankID: r.RankID,
			InternalRoleID: domain.DefaultRoles[roleIdx].ID,
			Label:          r.Name,
		})
	}
	return mappings
}
