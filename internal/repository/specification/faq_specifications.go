package specification

import "gorm.io/gorm"

type ByQuestionID struct {
	ID int64
}

func (s ByQuestionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("question_id = ?", s.ID)
}

// ByStatus filters questions by status. An empty status matches everything.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	if s.Status == "" {
		return db
	}
	return db.Where("status = ?", s.Status)
}

type ByEmployeeID struct {
	ID int64
}

func (s ByEmployeeID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("employees.employee_id = ?", s.ID)
}

// WithEmbedding keeps only rows that have a stored embedding.
type WithEmbedding struct{}

func (WithEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding IS NOT NULL")
}
