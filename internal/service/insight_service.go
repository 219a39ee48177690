package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/nexus-hrm/hrm-service/internal/domain"
	"github.com/nexus-hrm/hrm-service/internal/insight"
	"github.com/nexus-hrm/hrm-service/internal/observability"
	"github.com/nexus-hrm/hrm-service/internal/repository"
	apperrors "github.com/nexus-hrm/hrm-service/pkg/util"
)

// NarrativeClient is the AI narrative service contract.
type NarrativeClient interface {
	AnalyzeStaffPerformance(ctx context.Context, rec domain.StaffRecord) (*insight.PerformanceAnalysis, error)
	SummarizeWorkforce(ctx context.Context, records []domain.StaffRecord) (string, error)
}

const workforceAuditFallback = "Unable to generate insights at this time."

// neutralAnalysis stands in when the narrative service is unavailable. It is
// deliberately non-judgmental: a missing analysis must never look like a bad
// review.
func neutralAnalysis() *insight.PerformanceAnalysis {
	return &insight.PerformanceAnalysis{
		Summary:         "Analysis is currently unavailable.",
		Recommendation:  "Try again later.",
		PotentialRating: 5,
		Sentiment:       "neutral",
	}
}

// InsightService produces AI narrative summaries. All calls are best effort:
// a narrative failure yields a neutral placeholder, never an error that
// could interfere with roster state.
type InsightService struct {
	narratives NarrativeClient
	staff      repository.StaffRepository
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewInsightService constructs the service.
func NewInsightService(narratives NarrativeClient, staff repository.StaffRepository, metrics *observability.Metrics, logger *zap.Logger) *InsightService {
	return &InsightService{narratives: narratives, staff: staff, metrics: metrics, logger: logger}
}

// AnalyzeStaff reviews one staff member. The record must exist; the analysis
// itself degrades to a neutral placeholder on narrative failure.
func (s *InsightService) AnalyzeStaff(ctx context.Context, staffID string) (*insight.PerformanceAnalysis, error) {
	rec, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, apperrors.NewNotFound("staff record", map[string]any{"id": staffID})
	}

	analysis, err := s.narratives.AnalyzeStaffPerformance(ctx, *rec)
	if err != nil {
		s.metrics.RecordUpstreamCall("gemini", false)
		s.logger.Warn("staff analysis unavailable", zap.String("staff_id", staffID), zap.Error(err))
		return neutralAnalysis(), nil
	}
	s.metrics.RecordUpstreamCall("gemini", true)
	return analysis, nil
}

// WorkforceAudit produces a narrative over the whole roster.
func (s *InsightService) WorkforceAudit(ctx context.Context) (string, error) {
	records, err := s.staff.LoadRoster(ctx)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	if len(records) == 0 {
		return "", apperrors.NewConflict("no staff to audit; link a group first", nil)
	}

	narrative, err := s.narratives.SummarizeWorkforce(ctx, records)
	if err != nil {
		s.metrics.RecordUpstreamCall("gemini", false)
		s.logger.Warn("workforce audit unavailable", zap.Error(err))
		return workforceAuditFallback, nil
	}
	s.metrics.RecordUpstreamCall("gemini", true)
	return narrative, nil
}
