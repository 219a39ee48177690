package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/nexus-hrm/hrm-service/internal/events"
)

// AuditService writes an audit trail of roster mutations to the log stream.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventGroupLinked, a.handle)
	a.dispatcher.Subscribe(events.EventMembersSynced, a.handle)
	a.dispatcher.Subscribe(events.EventMemberAdmitted, a.handle)
	a.dispatcher.Subscribe(events.EventMetricGranted, a.handle)
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("actor", event.Actor),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload))
	return nil
}
