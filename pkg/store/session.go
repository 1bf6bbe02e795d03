package store

import "time"

// Mode is the sub-dialogue a session is currently in.
type Mode string

const (
	ModeIdle                    Mode = "idle"
	ModeAwaitingEmployeeID      Mode = "awaiting_employee_id"
	ModeAwaitingDepartmentName  Mode = "awaiting_department_name"
	ModeAwaitingIDForDepartment Mode = "awaiting_employee_id_for_department"
)

// Purpose qualifies ModeAwaitingEmployeeID.
type Purpose string

const (
	PurposeVacation    Purpose = "vacation"
	PurposeResignation Purpose = "resignation"
)

// DepartmentRef is a read-only projection of a department row.
type DepartmentRef struct {
	ID   int64  `json:"department_id"`
	Name string `json:"department_name"`
	Head string `json:"department_head"`
}

// EmployeeRef is a read-only projection of an employee joined with their department.
type EmployeeRef struct {
	ID                 int64  `json:"employee_id"`
	Name               string `json:"name"`
	DepartmentID       int64  `json:"department_id"`
	DepartmentName     string `json:"department_name"`
	DepartmentHead     string `json:"department_head"`
	RemainingVacations int    `json:"remaining_vacations"`
}

// Session is the dialogue state kept per session id.
type Session struct {
	ID               string         `json:"id"`
	Mode             Mode           `json:"mode"`
	Purpose          Purpose        `json:"purpose,omitempty"`
	TargetDepartment *DepartmentRef `json:"target_department,omitempty"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Active reports whether the session is inside a sub-dialogue.
func (s *Session) Active() bool {
	return s != nil && s.Mode != "" && s.Mode != ModeIdle
}
