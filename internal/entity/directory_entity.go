package entity

type Department struct {
	Id   int64
	Name string
	Head string
}

type Employee struct {
	Id                 int64
	Name               string
	DepartmentId       int64
	RemainingVacations int
	Department         *Department
}
