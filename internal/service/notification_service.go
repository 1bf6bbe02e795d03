package service

import (
	"context"
	"fmt"

	"hr-faq-be/internal/pkg/logger"
	"hr-faq-be/internal/pkg/mailer"
	"hr-faq-be/pkg/events"
	pktNats "hr-faq-be/pkg/nats"
)

// EventSubscriber is the slice of the NATS subscriber the notifier uses.
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType, durableName string, handler pktNats.EventHandler) error
}

// NotificationService tells the HR team about questions the engine could not
// answer. Every pending question is logged; when a mailer is configured the
// team is also emailed.
type NotificationService struct {
	subscriber EventSubscriber
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

// NewNotificationService accepts a nil mailer.
func NewNotificationService(sub EventSubscriber, mail mailer.IEmailService, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		mailer:     mail,
		logger:     log,
	}
}

func (s *NotificationService) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, events.QuestionPending, "hrfaq-pending-notifier", s.handlePending); err != nil {
		s.logger.Error("NotificationService", "failed to start pending-question subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("NotificationService", "listening for pending questions", nil)
	return nil
}

func (s *NotificationService) handlePending(_ context.Context, event events.Event) error {
	payload := event.Payload()
	s.logger.Info("NotificationService", "question forwarded to HR team", map[string]interface{}{
		"question_id": payload["question_id"],
		"question":    payload["question"],
		"language":    payload["language"],
		"received_at": event.Timestamp(),
	})

	if s.mailer == nil {
		return nil
	}

	pending := mailer.PendingQuestion{
		QuestionID: payloadInt64(payload["question_id"]),
		Question:   fmt.Sprint(payload["question"]),
		Language:   fmt.Sprint(payload["language"]),
		SessionID:  fmt.Sprint(payload["session_id"]),
	}
	if err := s.mailer.SendPendingQuestion(pending); err != nil {
		// JetStream redelivers on error.
		s.logger.Error("NotificationService", "failed to email HR team", map[string]interface{}{
			"question_id": pending.QuestionID,
			"error":       err.Error(),
		})
		return err
	}
	return nil
}

// payloadInt64 accepts the shapes a JSON round trip or an in-process event produce.
func payloadInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case *int64:
		if n != nil {
			return *n
		}
	}
	return 0
}
