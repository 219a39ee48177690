package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nexus-hrm/hrm-service/internal/domain"
	"github.com/nexus-hrm/hrm-service/internal/events"
	"github.com/nexus-hrm/hrm-service/internal/insight"
	"github.com/nexus-hrm/hrm-service/internal/observability"
	"github.com/nexus-hrm/hrm-service/internal/repository"
	"github.com/nexus-hrm/hrm-service/internal/roblox"
	"github.com/nexus-hrm/hrm-service/internal/roster"
	apperrors "github.com/nexus-hrm/hrm-service/pkg/util"
)

// RosterSource is the external roster source contract consumed during link
// and sync.
type RosterSource interface {
	FetchGroupInfo(ctx context.Context, groupID int64) (*roblox.GroupInfo, error)
	FetchGroupRanks(ctx context.Context, groupID int64) ([]domain.ExternalRank, error)
	FetchGroupMembers(ctx context.Context, groupID int64, pageSize int) ([]domain.ExternalMember, error)
	FetchAvatarHeadshots(ctx context.Context, userIDs []int64) (map[int64]string, error)
}

// RankInferrer proposes a rank mapping table for a discovered rank structure.
type RankInferrer interface {
	InferRankMappings(ctx context.Context, groupName string, ranks []domain.ExternalRank) ([]domain.RankMapping, error)
}

// SyncResult reports the outcome of one reconciliation run.
type SyncResult struct {
	Fetched    int
	Admitted   int
	RosterSize int
}

// GroupService links the external group and synchronizes its members into
// the roster.
type GroupService struct {
	source     RosterSource
	inferrer   RankInferrer
	groups     repository.GroupRepository
	staff      repository.StaffRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	pageSize   int
}

// GroupDependencies bundles collaborators for construction.
type GroupDependencies struct {
	Source     RosterSource
	Inferrer   RankInferrer
	GroupRepo  repository.GroupRepository
	StaffRepo  repository.StaffRepository
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewGroupService constructs the service.
func NewGroupService(deps GroupDependencies, memberPageSize int) *GroupService {
	return &GroupService{
		source:     deps.Source,
		inferrer:   deps.Inferrer,
		groups:     deps.GroupRepo,
		staff:      deps.StaffRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		pageSize:   memberPageSize,
	}
}

// LinkGroup verifies the group against the roster source, builds a validated
// rank mapping table and runs the first member sync. Nothing is stored when
// the group cannot be verified.
func (s *GroupService) LinkGroup(ctx context.Context, actor string, groupID int64) (*domain.GroupLink, *SyncResult, error) {
	info, err := s.source.FetchGroupInfo(ctx, groupID)
	if err != nil {
		s.metrics.RecordUpstreamCall("roblox", false)
		return nil, nil, apperrors.NewUpstreamUnavailable("roblox", "could not verify group", err)
	}
	ranks, err := s.source.FetchGroupRanks(ctx, groupID)
	if err != nil {
		s.metrics.RecordUpstreamCall("roblox", false)
		return nil, nil, apperrors.NewUpstreamUnavailable("roblox", "could not verify group", err)
	}
	s.metrics.RecordUpstreamCall("roblox", true)
	if len(ranks) == 0 {
		return nil, nil, apperrors.NewValidationError("group has no ranks", map[string]any{"group_id": groupID})
	}

	mappings, err := s.buildMappings(ctx, info.Name, ranks)
	if err != nil {
		return nil, nil, err
	}

	link := &domain.GroupLink{
		ID:       uuid.NewString(),
		GroupID:  groupID,
		Name:     info.Name,
		LinkedAt: time.Now(),
		Mappings: mappings,
	}
	if err := s.groups.SaveLink(ctx, link); err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor, events.EventGroupLinked, events.GroupLinkedPayload{
		GroupID:      groupID,
		GroupName:    info.Name,
		MappingCount: len(mappings),
	})
	s.logger.Info("group linked",
		zap.Int64("group_id", groupID),
		zap.String("group_name", info.Name),
		zap.Int("mappings", len(mappings)))

	result, err := s.SyncMembers(ctx, actor)
	if err != nil {
		return nil, nil, err
	}
	return link, result, nil
}

// buildMappings tries AI-assisted inference first and falls back to the
// positional heuristic when inference fails or produces an invalid table.
func (s *GroupService) buildMappings(ctx context.Context, groupName string, ranks []domain.ExternalRank) ([]domain.RankMapping, error) {
	inferred, err := s.inferrer.InferRankMappings(ctx, groupName, ranks)
	if err == nil {
		if _, verr := roster.NewMappingTable(inferred); verr == nil {
			s.metrics.RecordUpstreamCall("gemini", true)
			return inferred, nil
		} else {
			err = verr
		}
	}
	s.metrics.RecordUpstreamCall("gemini", false)
	s.logger.Warn("rank inference unavailable, using heuristic mapping", zap.Error(err))

	heuristic := insight.HeuristicRankMappings(ranks)
	if _, verr := roster.NewMappingTable(heuristic); verr != nil {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("cannot build mapping table: %v", verr),
			map[string]any{"rank_count": len(ranks)})
	}
	return heuristic, nil
}

// SyncMembers fetches one member page and reconciles it into the roster.
// Requires a stored group link with a non-empty mapping table; an empty
// member batch is treated as nothing to reconcile.
func (s *GroupService) SyncMembers(ctx context.Context, actor string) (*SyncResult, error) {
	link, err := s.groups.GetLink(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if link == nil || len(link.Mappings) == 0 {
		return nil, apperrors.NewConflict("group must be linked before syncing members", nil)
	}
	table, err := roster.NewMappingTable(link.Mappings)
	if err != nil {
		return nil, apperrors.NewConflict("stored mapping table is invalid", map[string]any{"reason": err.Error()})
	}

	fetched, err := s.source.FetchGroupMembers(ctx, link.GroupID, s.pageSize)
	if err != nil {
		s.metrics.RecordUpstreamCall("roblox", false)
		return nil, apperrors.NewUpstreamUnavailable("roblox", "could not fetch group members", err)
	}
	s.metrics.RecordUpstreamCall("roblox", true)

	current, err := s.staff.LoadRoster(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(fetched) == 0 {
		s.logger.Info("no members returned, nothing to reconcile", zap.Int64("group_id", link.GroupID))
		return &SyncResult{RosterSize: len(current)}, nil
	}

	s.attachAvatars(ctx, current, fetched)

	next := roster.Reconcile(current, fetched, table)
	admitted := len(next) - len(current)

	if err := s.staff.SaveRoster(ctx, next); err != nil {
		return nil, apperrors.MapError(err)
	}

	for _, rec := range next[len(current):] {
		s.publish(ctx, actor, events.EventMemberAdmitted, events.MemberAdmittedPayload{
			StaffID:        rec.ID,
			ExternalID:     rec.ExternalID,
			DisplayName:    rec.DisplayName,
			InternalRoleID: rec.InternalRoleID,
		})
	}
	s.publish(ctx, actor, events.EventMembersSynced, events.MembersSyncedPayload{
		GroupID:   link.GroupID,
		Fetched:   len(fetched),
		Admitted:  admitted,
		RosterLen: len(next),
	})
	s.metrics.RecordSync(admitted)
	s.logger.Info("members synced",
		zap.Int64("group_id", link.GroupID),
		zap.Int("fetched", len(fetched)),
		zap.Int("admitted", admitted),
		zap.Int("roster_size", len(next)))

	return &SyncResult{Fetched: len(fetched), Admitted: admitted, RosterSize: len(next)}, nil
}

// attachAvatars resolves headshot URLs for members not yet on the roster.
// Best effort: a failed thumbnail call falls back to a seeded placeholder.
func (s *GroupService) attachAvatars(ctx context.Context, current []domain.StaffRecord, fetched []domain.ExternalMember) {
	known := make(map[int64]struct{}, len(current))
	for _, rec := range current {
		known[rec.ExternalID] = struct{}{}
	}
	var newIDs []int64
	for _, m := range fetched {
		if _, exists := known[m.ExternalID]; !exists {
			newIDs = append(newIDs, m.ExternalID)
		}
	}
	if len(newIDs) == 0 {
		return
	}

	avatars, err := s.source.FetchAvatarHeadshots(ctx, newIDs)
	if err != nil {
		s.logger.Warn("avatar fetch failed, using placeholders", zap.Error(err))
		avatars = map[int64]string{}
	}
	for i := range fetched {
		if url, ok := avatars[fetched[i].ExternalID]; ok {
			fetched[i].AvatarRef = url
		} else {
			fetched[i].AvatarRef = fmt.Sprintf("https://picsum.photos/seed/%d/200", fetched[i].ExternalID)
		}
	}
}

// GetLink returns the current group link, or nil when no group is linked.
func (s *GroupService) GetLink(ctx context.Context) (*domain.GroupLink, error) {
	link, err := s.groups.GetLink(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return link, nil
}

// UpdateMappings replaces the mapping table after validating it.
func (s *GroupService) UpdateMappings(ctx context.Context, mappings []domain.RankMapping) (*domain.GroupLink, error) {
	link, err := s.groups.GetLink(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if link == nil {
		return nil, apperrors.NewConflict("no group linked", nil)
	}
	if _, err := roster.NewMappingTable(mappings); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if err := s.groups.ReplaceMappings(ctx, link.ID, mappings); err != nil {
		return nil, apperrors.MapError(err)
	}
	link.Mappings = mappings
	return link, nil
}

func (s *GroupService) publish(ctx context.Context, actor string, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
