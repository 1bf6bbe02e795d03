package mapper

import (
	"hr-faq-be/internal/entity"
	"hr-faq-be/internal/model"
)

type DirectoryMapper struct{}

func NewDirectoryMapper() *DirectoryMapper {
	return &DirectoryMapper{}
}

func (m *DirectoryMapper) DepartmentToEntity(d *model.Department) *entity.Department {
	if d == nil {
		return nil
	}
	return &entity.Department{Id: d.Id, Name: d.Name, Head: d.Head}
}

func (m *DirectoryMapper) DepartmentToModel(d *entity.Department) *model.Department {
	if d == nil {
		return nil
	}
	return &model.Department{Id: d.Id, Name: d.Name, Head: d.Head}
}

func (m *DirectoryMapper) EmployeeToEntity(e *model.Employee) *entity.Employee {
	if e == nil {
		return nil
	}
	out := &entity.Employee{
		Id:                 e.Id,
		Name:               e.Name,
		DepartmentId:       e.DepartmentId,
		RemainingVacations: e.RemainingVacations,
	}
	if e.Department.Id != 0 {
		out.Department = m.DepartmentToEntity(&e.Department)
	}
	return out
}

func (m *DirectoryMapper) EmployeeToModel(e *entity.Employee) *model.Employee {
	if e == nil {
		return nil
	}
	return &model.Employee{
		Id:                 e.Id,
		Name:               e.Name,
		DepartmentId:       e.DepartmentId,
		RemainingVacations: e.RemainingVacations,
	}
}
