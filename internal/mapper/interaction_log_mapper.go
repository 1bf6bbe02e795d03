package mapper

import (
	"encoding/json"

	"hr-faq-be/internal/entity"
	"hr-faq-be/internal/model"

	"gorm.io/datatypes"
)

type InteractionLogMapper struct{}

func NewInteractionLogMapper() *InteractionLogMapper {
	return &InteractionLogMapper{}
}

func (m *InteractionLogMapper) ToModel(l *entity.InteractionLog) (*model.InteractionLog, error) {
	if l == nil {
		return nil, nil
	}
	details, err := json.Marshal(l.Details)
	if err != nil {
		return nil, err
	}
	return &model.InteractionLog{
		Id:           l.Id,
		SessionId:    l.SessionId,
		QuestionId:   l.QuestionId,
		DepartmentId: l.DepartmentId,
		Kind:         l.Kind,
		Similarity:   l.Similarity,
		Details:      datatypes.JSON(details),
		CreatedAt:    l.CreatedAt,
	}, nil
}

func (m *InteractionLogMapper) ToEntity(l *model.InteractionLog) *entity.InteractionLog {
	if l == nil {
		return nil
	}
	var details map[string]interface{}
	if len(l.Details) > 0 {
		_ = json.Unmarshal(l.Details, &details)
	}
	return &entity.InteractionLog{
		Id:           l.Id,
		SessionId:    l.SessionId,
		QuestionId:   l.QuestionId,
		DepartmentId: l.DepartmentId,
		Kind:         l.Kind,
		Similarity:   l.Similarity,
		Details:      details,
		CreatedAt:    l.CreatedAt,
	}
}
