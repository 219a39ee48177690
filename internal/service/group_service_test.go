package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nexus-hrm/hrm-service/internal/domain"
	"github.com/nexus-hrm/hrm-service/internal/events"
	"github.com/nexus-hrm/hrm-service/internal/observability"
	"github.com/nexus-hrm/hrm-service/internal/roblox"
	apperrors "github.com/nexus-hrm/hrm-service/pkg/util"
)

// MockRosterSource is a mock implementation of RosterSource.
type MockRosterSource struct {
	mock.Mock
}

func (m *MockRosterSource) FetchGroupInfo(ctx context.Context, groupID int64) (*roblox.GroupInfo, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*roblox.GroupInfo), args.Error(1)
}

func (m *MockRosterSource) FetchGroupRanks(ctx context.Context, groupID int64) ([]domain.ExternalRank, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExternalRank), args.Error(1)
}

func (m *MockRosterSource) FetchGroupMembers(ctx context.Context, groupID int64, pageSize int) ([]domain.ExternalMember, error) {
	args := m.Called(ctx, groupID, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExternalMember), args.Error(1)
}

func (m *MockRosterSource) FetchAvatarHeadshots(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]string), args.Error(1)
}

// MockRankInferrer is a mock implementation of RankInferrer.
type MockRankInferrer struct {
	mock.Mock
}

func (m *MockRankInferrer) InferRankMappings(ctx context.Context, groupName string, ranks []domain.ExternalRank) ([]domain.RankMapping, error) {
	args := m.Called(ctx, groupName, ranks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RankMapping), args.Error(1)
}

// MockGroupRepository is a mock implementation of repository.GroupRepository.
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) SaveLink(ctx context.Context, link *domain.GroupLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockGroupRepository) GetLink(ctx context.Context) (*domain.GroupLink, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GroupLink), args.Error(1)
}

func (m *MockGroupRepository) ReplaceMappings(ctx context.Context, linkID string, mappings []domain.RankMapping) error {
	args := m.Called(ctx, linkID, mappings)
	return args.Error(0)
}

// MockStaffRepository is a mock implementation of repository.StaffRepository.
type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) LoadRoster(ctx context.Context) ([]domain.StaffRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StaffRecord), args.Error(1)
}

func (m *MockStaffRepository) SaveRoster(ctx context.Context, records []domain.StaffRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockStaffRepository) GetByID(ctx context.Context, id string) (*domain.StaffRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffRecord), args.Error(1)
}

func (m *MockStaffRepository) SaveRecord(ctx context.Context, rec *domain.StaffRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func newGroupService(source *MockRosterSource, inferrer *MockRankInferrer, groups *MockGroupRepository, staff *MockStaffRepository) *GroupService {
	return NewGroupService(GroupDependencies{
		Source:     source,
		Inferrer:   inferrer,
		GroupRepo:  groups,
		StaffRepo:  staff,
		Dispatcher: events.NewInMemoryDispatcher(),
		Metrics:    observability.NewMetrics(),
		Logger:     zap.NewNop(),
	}, 25)
}

func linkedGroup() *domain.GroupLink {
	return &domain.GroupLink{
		ID:       "link-1",
		GroupID:  42,
		Name:     "Frontier Cafe",
		LinkedAt: time.Now(),
		Mappings: []domain.RankMapping{
			{ExternalRankID: 255, InternalRoleID: domain.RoleChiefExecutive, Label: "Owner"},
			{ExternalRankID: 50, InternalRoleID: domain.RoleTrainee, Label: "Barista"},
		},
	}
}

func TestSyncMembersRequiresLink(t *testing.T) {
	source := new(MockRosterSource)
	groups := new(MockGroupRepository)
	staff := new(MockStaffRepository)
	groups.On("GetLink", mock.Anything).Return(nil, nil)

	svc := newGroupService(source, new(MockRankInferrer), groups, staff)
	_, err := svc.SyncMembers(context.Background(), "Admin")

	require.Error(t, err)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "CONFLICT", de.Code)
	source.AssertNotCalled(t, "FetchGroupMembers", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncMembersUpstreamFailureLeavesRosterUntouched(t *testing.T) {
	source := new(MockRosterSource)
	groups := new(MockGroupRepository)
	staff := new(MockStaffRepository)
	groups.On("GetLink", mock.Anything).Return(linkedGroup(), nil)
	source.On("FetchGroupMembers", mock.Anything, int64(42), 25).Return(nil, errors.New("connection refused"))

	svc := newGroupService(source, new(MockRankInferrer), groups, staff)
	_, err := svc.SyncMembers(context.Background(), "Admin")

	require.Error(t, err)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", de.Code)
	staff.AssertNotCalled(t, "SaveRoster", mock.Anything, mock.Anything)
}

func TestSyncMembersEmptyBatchIsNoop(t *testing.T) {
	source := new(MockRosterSource)
	groups := new(MockGroupRepository)
	staff := new(MockStaffRepository)
	groups.On("GetLink", mock.Anything).Return(linkedGroup(), nil)
	source.On("FetchGroupMembers", mock.Anything, int64(42), 25).Return([]domain.ExternalMember{}, nil)
	staff.On("LoadRoster", mock.Anything).Return([]domain.StaffRecord{{ID: "rec-1", ExternalID: 100}}, nil)

	svc := newGroupService(source, new(MockRankInferrer), groups, staff)
	result, err := svc.SyncMembers(context.Background(), "Admin")

	require.NoError(t, err)
	assert.Equal(t, 0, result.Fetched)
	assert.Equal(t, 0, result.Admitted)
	assert.Equal(t, 1, result.RosterSize)
	staff.AssertNotCalled(t, "SaveRoster", mock.Anything, mock.Anything)
}

func TestSyncMembersAdmitsNewMembers(t *testing.T) {
	source := new(MockRosterSource)
	groups := new(MockGroupRepository)
	staff := new(MockStaffRepository)
	groups.On("GetLink", mock.Anything).Return(linkedGroup(), nil)
	source.On("FetchGroupMembers", mock.Anything, int64(42), 25).Return([]domain.ExternalMember{
		{ExternalID: 100, DisplayName: "Alice", ExternalRankID: 255},
		{ExternalID: 101, DisplayName: "Bob", ExternalRankID: 50},
	}, nil)
	source.On("FetchAvatarHeadshots", mock.Anything, []int64{101}).
		Return(map[int64]string{101: "https://cdn.example/101.png"}, nil)
	staff.On("LoadRoster", mock.Anything).Return([]domain.StaffRecord{
		{ID: "rec-1", ExternalID: 100, DisplayName: "Alice", InternalRoleID: domain.RoleChiefExecutive},
	}, nil)
	staff.On("SaveRoster", mock.Anything, mock.MatchedBy(func(records []domain.StaffRecord) bool {
		return len(records) == 2 &&
			records[0].ID == "rec-1" &&
			records[1].ExternalID == 101 &&
			records[1].InternalRoleID == domain.RoleTrainee &&
			records[1].AvatarRef == "https://cdn.example/101.png"
	})).Return(nil)

	svc := newGroupService(source, new(MockRankInferrer), groups, staff)
	result, err := svc.SyncMembers(context.Background(), "Admin")

	require.NoError(t, err)
	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 1, result.Admitted)
	assert.Equal(t, 2, result.RosterSize)
	staff.AssertExpectations(t)
	source.AssertExpectations(t)
}

func TestLinkGroupUpstreamFailure(t *testing.T) {
	source := new(MockRosterSource)
	groups := new(MockGroupRepository)
	staff := new(MockStaffRepository)
	source.On("FetchGroupInfo", mock.Anything, int64(42)).Return(nil, errors.New("timeout"))

	svc := newGroupService(source, new(MockRankInferrer), groups, staff)
	_, _, err := svc.LinkGroup(context.Background(), "Admin", 42)

	require.Error(t, err)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", de.Code)
	assert.Equal(t, "could not verify group", de.Message)
	groups.AssertNotCalled(t, "SaveLink", mock.Anything, mock.Anything)
}

func TestLinkGroupFallsBackToHeuristicMapping(t *testing.T) {
	source := new(MockRosterSource)
	inferrer := new(MockRankInferrer)
	groups := new(MockGroupRepository)
	staff := new(MockStaffRepository)

	ranks := []domain.ExternalRank{
		{RankID: 255, Name: "Owner"},
		{RankID: 50, Name: "Barista"},
	}
	source.On("FetchGroupInfo", mock.Anything, int64(42)).
		Return(&roblox.GroupInfo{GroupID: 42, Name: "Frontier Cafe"}, nil)
	source.On("FetchGroupRanks", mock.Anything, int64(42)).Return(ranks, nil)
	inferrer.On("InferRankMappings", mock.Anything, "Frontier Cafe", ranks).
		Return(nil, errors.New("model unavailable"))
	groups.On("SaveLink", mock.Anything, mock.MatchedBy(func(link *domain.GroupLink) bool {
		return link.GroupID == 42 &&
			len(link.Mappings) == 2 &&
			link.Mappings[0].InternalRoleID == domain.RoleChiefExecutive &&
			link.Mappings[1].InternalRoleID == domain.RoleHRDirector
	})).Return(nil)
	// the post-link sync
	groups.On("GetLink", mock.Anything).Return(linkedGroup(), nil)
	source.On("FetchGroupMembers", mock.Anything, int64(42), 25).Return([]domain.ExternalMember{}, nil)
	staff.On("LoadRoster", mock.Anything).Return([]domain.StaffRecord{}, nil)

	svc := newGroupService(source, inferrer, groups, staff)
	link, result, err := svc.LinkGroup(context.Background(), "Admin", 42)

	require.NoError(t, err)
	assert.Equal(t, "Frontier Cafe", link.Name)
	assert.Equal(t, 0, result.Admitted)
	groups.AssertExpectations(t)
}

func TestUpdateMappingsRejectsDuplicates(t *testing.T) {
	groups := new(MockGroupRepository)
	staff := new(MockStaffRepository)
	groups.On("GetLink", mock.Anything).Return(linkedGroup(), nil)

	svc := newGroupService(new(MockRosterSource), new(MockRankInferrer), groups, staff)
	_, err := svc.UpdateMappings(context.Background(), []domain.RankMapping{
		{ExternalRankID: 1, InternalRoleID: domain.RoleManager, Label: "A"},
		{ExternalRankID: 1, InternalRoleID: domain.RoleTrainee, Label: "B"},
	})

	require.Error(t, err)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	groups.AssertNotCalled(t, "ReplaceMappings", mock.Anything, mock.Anything, mock.Anything)
}
