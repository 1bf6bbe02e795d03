package model

type Department struct {
	Id   int64  `gorm:"column:department_id;primaryKey;autoIncrement"`
	Name string `gorm:"column:department_name;type:varchar(100);not null;uniqueIndex"`
	Head string `gorm:"column:department_head;type:varchar(100);not null"`
}

func (Department) TableName() string {
	return "departments"
}

type Employee struct {
	Id                 int64  `gorm:"column:employee_id;primaryKey"`
	Name               string `gorm:"column:name;type:varchar(100);not null"`
	DepartmentId       int64  `gorm:"column:department_id;not null;index"`
	RemainingVacations int    `gorm:"column:remaining_vacations;not null;default:0"`

	Department Department `gorm:"foreignKey:DepartmentId;references:Id"`
}

func (Employee) TableName() string {
	return "employees"
}
