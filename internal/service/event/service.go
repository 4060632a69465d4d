package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	"github.com/jwalitptl/salon-api/pkg/logger"
)

// Service records domain events in the transactional outbox. The
// worker binary drains the outbox and publishes to the broker.
type Service struct {
	repo   repository.OutboxRepository
	logger *logger.Logger
}

func NewService(repo repository.OutboxRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Emit writes an event best-effort. The triggering state change has
// already committed, so failures are logged and swallowed.
func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error(err, "failed to marshal event payload", "event_type", eventType)
		return
	}

	evt := &model.OutboxEvent{
		EventType: eventType,
		Payload:   body,
	}
	if err := s.repo.Create(ctx, evt); err != nil {
		s.logger.Error(fmt.Errorf("failed to record event: %w", err), "outbox write failed", "event_type", eventType)
	}
}
