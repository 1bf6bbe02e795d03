package contract

import (
	"context"

	"hr-faq-be/internal/entity"
	"hr-faq-be/internal/repository/specification"
)

type DepartmentRepository interface {
	Create(ctx context.Context, department *entity.Department) error
	// FindByName tries a case-insensitive exact match, then a substring match.
	FindByName(ctx context.Context, name string) (*entity.Department, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Department, error)
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	// FindOne preloads the employee's department.
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Employee, error)
}

type InteractionLogRepository interface {
	Create(ctx context.Context, log *entity.InteractionLog) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
