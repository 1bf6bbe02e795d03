package implementation

import (
	"context"
	"errors"
	"strings"

	"hr-faq-be/internal/entity"
	"hr-faq-be/internal/mapper"
	"hr-faq-be/internal/model"
	"hr-faq-be/internal/repository/contract"
	"hr-faq-be/internal/repository/specification"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type DepartmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DirectoryMapper
}

func NewDepartmentRepository(db *gorm.DB) contract.DepartmentRepository {
	return &DepartmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDirectoryMapper(),
	}
}

func (r *DepartmentRepositoryImpl) Create(ctx context.Context, department *entity.Department) error {
	m := r.mapper.DepartmentToModel(department)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*department = *r.mapper.DepartmentToEntity(m)
	return nil
}

func (r *DepartmentRepositoryImpl) FindByName(ctx context.Context, name string) (*entity.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	var m model.Department
	err := r.db.WithContext(ctx).
		Where("LOWER(TRIM(department_name)) = LOWER(?)", name).
		Order("department_name ASC").
		Take(&m).Error
	if err == nil {
		return r.mapper.DepartmentToEntity(&m), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(name)) + "%"
	err = r.db.WithContext(ctx).
		Where(`LOWER(TRIM(department_name)) LIKE ? ESCAPE '\'`, pattern).
		Order("department_name ASC").
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DepartmentToEntity(&m), nil
}

func (r *DepartmentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Department, error) {
	var models []*model.Department
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.Department, len(models))
	for i, m := range models {
		out[i] = r.mapper.DepartmentToEntity(m)
	}
	return out, nil
}

type EmployeeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DirectoryMapper
}

func NewEmployeeRepository(db *gorm.DB) contract.EmployeeRepository {
	return &EmployeeRepositoryImpl{
		db:     db,
		mapper: mapper.NewDirectoryMapper(),
	}
}

func (r *EmployeeRepositoryImpl) Create(ctx context.Context, employee *entity.Employee) error {
	m := r.mapper.EmployeeToModel(employee)
	if err := r.db.WithContext(ctx).Omit("Department").Create(m).Error; err != nil {
		return err
	}
	*employee = *r.mapper.EmployeeToEntity(m)
	return nil
}

func (r *EmployeeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Employee, error) {
	var m model.Employee
	query := applySpecifications(r.db.WithContext(ctx).Preload("Department"), specs...)
	if err := query.Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.EmployeeToEntity(&m), nil
}

type InteractionLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.InteractionLogMapper
}

func NewInteractionLogRepository(db *gorm.DB) contract.InteractionLogRepository {
	return &InteractionLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewInteractionLogMapper(),
	}
}

func (r *InteractionLogRepositoryImpl) Create(ctx context.Context, log *entity.InteractionLog) error {
	m, err := r.mapper.ToModel(log)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	log.Id = m.Id
	log.CreatedAt = m.CreatedAt
	return nil
}

func (r *InteractionLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.InteractionLog{}), specs...)
	err := query.Count(&count).Error
	return count, err
}
