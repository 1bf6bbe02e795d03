package service

import (
	"context"
	"encoding/json"

	"hr-faq-be/internal/dto"
	"hr-faq-be/internal/pkg/logger"
	"hr-faq-be/pkg/rag/retrieval"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// InteractionTopic carries cache-hit accounting to the consumer service.
const InteractionTopic = "interaction.cache_hit"

// publisherService hands cache hits to the in-process bus. consumerService
// writes the rows.
type publisherService struct {
	topicName string
	publisher message.Publisher
	logger    logger.ILogger
}

func NewPublisherService(topicName string, publisher message.Publisher, log logger.ILogger) retrieval.InteractionRecorder {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
		logger:    log,
	}
}

func (ps *publisherService) RecordCacheHit(_ context.Context, sessionID string, match retrieval.Match) {
	payload, err := json.Marshal(dto.InteractionLogMessage{
		SessionId:    sessionID,
		QuestionId:   match.ID,
		DepartmentId: match.DepartmentID,
		Question:     match.Question,
		Similarity:   match.Similarity,
	})
	if err != nil {
		ps.logger.Error("Resolver", "failed to encode interaction", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := ps.publisher.Publish(ps.topicName, msg); err != nil {
		ps.logger.Warn("Resolver", "failed to publish interaction", map[string]interface{}{
			"question_id": match.ID,
			"error":       err.Error(),
		})
	}
}
