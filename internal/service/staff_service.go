package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/nexus-hrm/hrm-service/internal/domain"
	"github.com/nexus-hrm/hrm-service/internal/events"
	"github.com/nexus-hrm/hrm-service/internal/repository"
	"github.com/nexus-hrm/hrm-service/internal/roster"
	apperrors "github.com/nexus-hrm/hrm-service/pkg/util"
)

// StaffService exposes roster reads, the manual metric grant operation and
// the derived dashboard statistics.
type StaffService struct {
	staff      repository.StaffRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewStaffService constructs the service.
func NewStaffService(staff repository.StaffRepository, dispatcher events.Dispatcher, logger *zap.Logger) *StaffService {
	return &StaffService{staff: staff, dispatcher: dispatcher, logger: logger}
}

// ListStaff returns the roster in admission order.
func (s *StaffService) ListStaff(ctx context.Context) ([]domain.StaffRecord, error) {
	records, err := s.staff.LoadRoster(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// GetStaff returns one record with its full log history.
func (s *StaffService) GetStaff(ctx context.Context, id string) (*domain.StaffRecord, error) {
	rec, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff record", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return rec, nil
}

// GrantMetric applies a manual points or minutes grant to one record and
// writes it through. The grant only ever touches the addressed record.
func (s *StaffService) GrantMetric(ctx context.Context, id string, kind roster.MetricKind, amount int, issuedBy string) (*domain.StaffRecord, error) {
	if !kind.Valid() {
		return nil, apperrors.NewValidationError("kind must be points or minutes", map[string]any{"kind": kind})
	}
	if amount <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive", map[string]any{"amount": amount})
	}

	rec, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	if !roster.Grant(rec, kind, amount, issuedBy) {
		return nil, apperrors.NewValidationError("grant rejected", nil)
	}
	if err := s.staff.SaveRecord(ctx, rec); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventMetricGranted,
			Actor:     issuedBy,
			Timestamp: time.Now(),
			Payload: events.MetricGrantedPayload{
				StaffID: rec.ID,
				Kind:    string(kind),
				Amount:  amount,
			},
		})
	}
	s.logger.Info("metric granted",
		zap.String("staff_id", rec.ID),
		zap.String("kind", string(kind)),
		zap.Int("amount", amount),
		zap.String("issued_by", issuedBy))
	return rec, nil
}

// Stats recomputes the dashboard summary from the current roster.
func (s *StaffService) Stats(ctx context.Context) (domain.RosterStats, error) {
	records, err := s.staff.LoadRoster(ctx)
	if err != nil {
		return domain.RosterStats{}, apperrors.MapError(err)
	}
	return roster.ComputeStats(records), nil
}
