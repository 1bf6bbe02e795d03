package service

import (
	"context"
	"encoding/json"

	"hr-faq-be/internal/dto"
	"hr-faq-be/internal/entity"
	"hr-faq-be/internal/pkg/logger"
	"hr-faq-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.InteractionLogMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("InteractionLog", "dropping malformed message", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	questionID := payload.QuestionId
	row := &entity.InteractionLog{
		SessionId:    payload.SessionId,
		QuestionId:   &questionID,
		DepartmentId: payload.DepartmentId,
		Kind:         entity.InteractionCacheHit,
		Similarity:   payload.Similarity,
		Details:      map[string]interface{}{"question": payload.Question},
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.InteractionLogRepository().Create(ctx, row); err != nil {
		cs.logger.Error("InteractionLog", "failed to store interaction", map[string]interface{}{
			"question_id": payload.QuestionId,
			"error":       err.Error(),
		})
		// best-effort, never Nack
		msg.Ack()
		return
	}

	cs.logger.Debug("InteractionLog", "cache hit recorded", map[string]interface{}{
		"question_id": payload.QuestionId,
		"similarity":  payload.Similarity,
	})
	msg.Ack()
}
