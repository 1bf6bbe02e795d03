package unitofwork

import (
	"context"

	"hr-faq-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	QuestionRepository() contract.QuestionRepository
	FeedbackRepository() contract.FeedbackRepository
	DepartmentRepository() contract.DepartmentRepository
	EmployeeRepository() contract.EmployeeRepository
	InteractionLogRepository() contract.InteractionLogRepository
}
