package roblox

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/nexus-hrm/hrm-service/internal/config"
	"github.com/nexus-hrm/hrm-service/internal/domain"
)

// allowedPageSizes are the only page sizes the groups API accepts; anything
// else is rejected upstream with a 400, so it is guarded here.
var allowedPageSizes = map[int]struct{}{10: {}, 25: {}, 50: {}, 100: {}}

// GroupInfo is the group metadata returned by the roster source.
type GroupInfo struct {
	GroupID     int64
	Name        string
	MemberCount int
}

type groupResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"memberCount"`
}

type rolesResponse struct {
	GroupID int64 `json:"groupId"`
	Roles   []struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Rank        int    `json:"rank"`
		MemberCount int    `json:"memberCount"`
	} `json:"roles"`
}

type membersResponse struct {
	Data []struct {
		User struct {
			UserID      int64  `json:"userId"`
			Username    string `json:"username"`
			DisplayName string `json:"displayName"`
		} `json:"user"`
		Role struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			Rank int    `json:"rank"`
		} `json:"role"`
	} `json:"data"`
}

type thumbnailsResponse struct {
	Data []struct {
		TargetID int64  `json:"targetId"`
		State    string `json:"state"`
		ImageURL string `json:"imageUrl"`
	} `json:"data"`
}

// Client talks to the Roblox groups and thumbnails APIs.
type Client struct {
	groups     *resty.Client
	thumbnails *resty.Client
	logger     *zap.Logger
}

// NewClient builds a client from config.
func NewClient(cfg config.RobloxConfig, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	newClient := func(baseURL string) *resty.Client {
		return resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetRetryCount(cfg.RetryCount).
			SetRetryWaitTime(500 * time.Millisecond).
			SetRetryMaxWaitTime(3 * time.Second).
			SetHeader("Accept", "application/json")
	}

	return &Client{
		groups:     newClient(cfg.GroupsBaseURL),
		thumbnails: newClient(cfg.ThumbnailsBaseURL),
		logger:     logger,
	}
}

// FetchGroupInfo returns group metadata.
func (c *Client) FetchGroupInfo(ctx context.Context, groupID int64) (*GroupInfo, error) {
	var body groupResponse
	resp, err := c.groups.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("/v1/groups/%d", groupID))
	if err != nil {
		return nil, fmt.Errorf("fetch group %d: %w", groupID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch group %d: unexpected status %d", groupID, resp.StatusCode())
	}
	return &GroupInfo{GroupID: body.ID, Name: body.Name, MemberCount: body.MemberCount}, nil
}

// FetchGroupRanks returns the group's rank structure ordered highest rank first.
func (c *Client) FetchGroupRanks(ctx context.Context, groupID int64) ([]domain.ExternalRank, error) {
	var body rolesResponse
	resp, err := c.groups.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("/v1/groups/%d/roles", groupID))
	if err != nil {
		return nil, fmt.Errorf("fetch roles for group %d: %w", groupID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch roles for group %d: unexpected status %d", groupID, resp.StatusCode())
	}

	ranks := make([]domain.ExternalRank, 0, len(body.Roles))
	for _, r := range body.Roles {
		ranks = append(ranks, domain.ExternalRank{RankID: r.Rank, Name: r.Name, MemberCount: r.MemberCount})
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i].RankID > ranks[j].RankID })

	c.logger.Debug("fetched group ranks",
		zap.Int64("group_id", groupID),
		zap.Int("rank_count", len(ranks)))
	return ranks, nil
}

// FetchGroupMembers returns one page of group members with their external
// rank ids. pageSize must be 10, 25, 50 or 100.
func (c *Client) FetchGroupMembers(ctx context.Context, groupID int64, pageSize int) ([]domain.ExternalMember, error) {
	if _, ok := allowedPageSizes[pageSize]; !ok {
		return nil, fmt.Errorf("invalid page size %d: must be 10, 25, 50 or 100", pageSize)
	}

	var body membersResponse
	resp, err := c.groups.R().
		SetContext(ctx).
		SetQueryParam("sortOrder", "Desc").
		SetQueryParam("limit", strconv.Itoa(pageSize)).
		SetResult(&body).
		Get(fmt.Sprintf("/v1/groups/%d/users", groupID))
	if err != nil {
		return nil, fmt.Errorf("fetch members for group %d: %w", groupID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch members for group %d: unexpected status %d", groupID, resp.StatusCode())
	}

	members := make([]domain.ExternalMember, 0, len(body.Data))
	for _, m := range body.Data {
		name := m.User.DisplayName
		if name == "" {
			name = m.User.Username
		}
		members = append(members, domain.ExternalMember{
			ExternalID:     m.User.UserID,
			DisplayName:    name,
			ExternalRankID: m.Role.Rank,
		})
	}

	c.logger.Info("fetched group members",
		zap.Int64("group_id", groupID),
		zap.Int("member_count", len(members)))
	return members, nil
}

// FetchAvatarHeadshots returns avatar image URLs keyed by user id. Best
// effort: missing or pending thumbnails are simply absent from the result.
func (c *Client) FetchAvatarHeadshots(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	if len(userIDs) == 0 {
		return map[int64]string{}, nil
	}

	ids := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}

	var body thumbnailsResponse
	resp, err := c.thumbnails.R().
		SetContext(ctx).
		SetQueryParam("userIds", strings.Join(ids, ",")).
		SetQueryParam("size", "150x150").
		SetQueryParam("format", "Png").
		SetQueryParam("isCircular", "true").
		SetResult(&body).
		Get("/v1/users/avatar-headshot")
	if err != nil {
		return nil, fmt.Errorf("fetch avatar headshots: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch avatar headshots: unexpected status %d", resp.StatusCode())
	}

	avatars := make(map[int64]string, len(body.Data))
	for _, t := range body.Data {
		if t.ImageURL != "" {
			avatars[t.TargetID] = t.ImageURL
		}
	}
	return avatars, nil
}
