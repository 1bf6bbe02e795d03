package unitofwork

import (
	"context"
	"fmt"

	"hr-faq-be/internal/repository/contract"
	"hr-faq-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // non-nil while a transaction is open
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		// Already committed; lets callers defer Rollback unconditionally.
		return nil
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) QuestionRepository() contract.QuestionRepository {
	return implementation.NewQuestionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) FeedbackRepository() contract.FeedbackRepository {
	return implementation.NewFeedbackRepository(u.getDB())
}

func (u *UnitOfWorkImpl) DepartmentRepository() contract.DepartmentRepository {
	return implementation.NewDepartmentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) EmployeeRepository() contract.EmployeeRepository {
	return implementation.NewEmployeeRepository(u.getDB())
}

func (u *UnitOfWorkImpl) InteractionLogRepository() contract.InteractionLogRepository {
	return implementation.NewInteractionLogRepository(u.getDB())
}
