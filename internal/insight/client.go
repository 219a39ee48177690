package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/nexus-hrm/hrm-service/internal/config"
	"github.com/nexus-hrm/hrm-service/internal/domain"
)

var (
	// ErrNoAPIKey is returned when no Gemini key is configured.
	ErrNoAPIKey = errors.New("gemini api key not configured")
	// ErrEmptyResponse is returned when the model produced no usable text.
	ErrEmptyResponse = errors.New("empty model response")
)

// PerformanceAnalysis is the structured result of an individual staff review.
type PerformanceAnalysis struct {
	Summary         string  `json:"summary"`
	Recommendation  string  `json:"recommendation"`
	PotentialRating float64 `json:"potentialRating"`
	Sentiment       string  `json:"sentiment"`
}

// Client calls the Gemini generateContent API.
type Client struct {
	http   *resty.Client
	model  string
	apiKey string
	logger *zap.Logger
}

// NewClient builds a client from config.
func NewClient(cfg config.GeminiConfig, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
		model:  cfg.Model,
		apiKey: cfg.APIKey,
		logger: logger,
	}
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, req generateRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	var body generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(req).
		SetResult(&body).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("gemini call failed: unexpected status %d", resp.StatusCode())
	}
	if len(body.Candidates) == 0 || len(body.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(body.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// InferRankMappings asks the model to map the group's rank structure onto the
// internal rank ladder. The result is parsed but not yet validated; callers
// run it through roster.NewMappingTable and fall back to HeuristicRankMappings
// when either step fails.
func (c *Client) InferRankMappings(ctx context.Context, groupName string, ranks []domain.ExternalRank) ([]domain.RankMapping, error) {
	var sb strings.Builder
	for _, r := range ranks {
		fmt.Fprintf(&sb, "Rank ID %d: %s\n", r.RankID, r.Name)
	}
	roleIDs := make([]string, 0, len(domain.DefaultRoles))
	for _, role := range domain.DefaultRoles {
		roleIDs = append(roleIDs, string(role.ID))
	}

	prompt := fmt.Sprintf(`A community group called %q has the following ranks:
%s
Map each rank to the most appropriate internal role id.
Available internal role ids, highest precedence first: %s.
Return a JSON array of objects {"externalRankId": number, "internalRoleId": string, "label": string}
ordered highest rank first, where label is the original rank name.`,
		groupName, sb.String(), strings.Join(roleIDs, ", "))

	text, err := c.generate(ctx, generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return nil, err
	}

	var raw []struct {
		ExternalRankID int    `json:"externalRankId"`
		InternalRoleID string `json:"internalRoleId"`
		Label          string `json:"label"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parse rank mapping response: %w", err)
	}

	mappings := make([]domain.RankMapping, 0, len(raw))
	for _, m := range raw {
		mappings = append(mappings, domain.RankMapping{
			ExternalRankID: m.ExternalRankID,
			InternalRoleID: domain.RoleID(m.InternalRoleID),
			Label:          m.Label,
		})
	}
	return mappings, nil
}

// AnalyzeStaffPerformance produces a structured review of one staff record.
func (c *Client) AnalyzeStaffPerformance(ctx context.Context, rec domain.StaffRecord) (*PerformanceAnalysis, error) {
	var logs strings.Builder
	for _, l := range rec.Logs {
		fmt.Fprintf(&logs, "%s: [%s] %s (by %s)\n", l.Date.Format("2006-01-02"), l.Kind, l.Description, l.IssuedBy)
	}
	logText := logs.String()
	if logText == "" {
		logText = "None"
	}

	prompt := fmt.Sprintf(`Analyze the performance of staff member %s (%s).
Points: %d, tracked minutes: %d, shifts completed: %d.
Performance log:
%s
Return a JSON object {"summary": string, "recommendation": string, "potentialRating": number 0-10, "sentiment": string}.`,
		rec.DisplayName, domain.RoleName(rec.InternalRoleID),
		rec.TotalPoints, rec.TotalMinutes, rec.ShiftsCompleted, logText)

	text, err := c.generate(ctx, generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return nil, err
	}

	var analysis PerformanceAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, fmt.Errorf("parse performance analysis: %w", err)
	}
	return &analysis, nil
}

// SummarizeWorkforce produces a narrative audit of the whole roster.
func (c *Client) SummarizeWorkforce(ctx context.Context, records []domain.StaffRecord) (string, error) {
	type row struct {
		User   string `json:"user"`
		Role   string `json:"role"`
		Points int    `json:"points"`
	}
	rows := make([]row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, row{User: rec.DisplayName, Role: domain.RoleName(rec.InternalRoleID), Points: rec.TotalPoints})
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}

	return c.generate(ctx, generateRequest{
		Contents: []content{{Parts: []part{{Text: "Audit this staff body: " + string(payload)}}}},
		SystemInstruction: &content{Parts: []part{{
			Text: "You are a strategic HR consultant specializing in online communities.",
		}}},
	})
}
