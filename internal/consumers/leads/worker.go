package leads

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
)

// Handler defines how to process CRM envelopes.
type Handler interface {
	Process(ctx context.Context, envelope Envelope) error
}

// Service consumes CRM events from Pub/Sub and dispatches them to the
// consumer. Malformed messages are acked and dropped; handler failures nack
// so delivery retries.
type Service struct {
	subscription *gcppubsub.Subscriber
	handler      Handler
	logg         *logger.Logger
}

// NewService creates the lead worker service.
func NewService(subscription *gcppubsub.Subscriber, handler Handler, logg *logger.Logger) (*Service, error) {
	if subscription == nil {
		return nil, errors.New("crm subscription is required")
	}
	if handler == nil {
		return nil, errors.New("crm event handler is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Service{
		subscription: subscription,
		handler:      handler,
		logg:         logg,
	}, nil
}

// Run starts consuming CRM messages until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if s.process(innerCtx, msg) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
}

func (s *Service) process(ctx context.Context, msg *gcppubsub.Message) bool {
	logCtx := s.logg.WithField(ctx, "message_id", msg.ID)

	var envelope Envelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		s.logg.Warn(logCtx, "invalid crm envelope, dropping message")
		return true
	}

	logCtx = s.logg.WithFields(ctx, map[string]any{
		"message_id":  msg.ID,
		"event_id":    envelope.EventID,
		"event_type":  envelope.EventType,
		"occurred_at": envelope.OccurredAt.Format(time.RFC3339Nano),
	})

	if err := s.handler.Process(logCtx, envelope); err != nil {
		s.logg.Error(logCtx, "crm event processing failed", err)
		return false
	}
	return true
}
