package service

import (
	"context"

	"hr-faq-be/internal/entity"
	"hr-faq-be/internal/repository/specification"
	"hr-faq-be/internal/repository/unitofwork"
	"hr-faq-be/pkg/rag/dialogue"
	"hr-faq-be/pkg/rag/retrieval"
	"hr-faq-be/pkg/store"
)

// answerStore exposes the question repository to the retrieval pipeline.
type answerStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewAnswerStore(uowFactory unitofwork.RepositoryFactory) retrieval.AnswerStore {
	return &answerStore{uowFactory: uowFactory}
}

func (a *answerStore) SimilaritySearch(ctx context.Context, embedding []float32, k int) ([]retrieval.Match, error) {
	uow := a.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.QuestionRepository().SearchSimilarWithScore(ctx, embedding, k)
	if err != nil {
		return nil, err
	}

	matches := make([]retrieval.Match, 0, len(scored))
	for _, s := range scored {
		if s.Question == nil || s.Question.Answer == nil {
			continue
		}
		matches = append(matches, retrieval.Match{
			ID:           s.Question.Id,
			Question:     s.Question.Text,
			Answer:       *s.Question.Answer,
			DepartmentID: s.Question.DepartmentId,
			Similarity:   s.Similarity,
		})
	}
	return matches, nil
}

func (a *answerStore) InsertQuestion(ctx context.Context, rec retrieval.Record) (int64, error) {
	answer := rec.Answer
	q := &entity.Question{
		Text:      rec.Text,
		Answer:    &answer,
		Status:    entity.QuestionStatus(rec.Status),
		Embedding: rec.Embedding,
	}

	uow := a.uowFactory.NewUnitOfWork(ctx)
	if err := uow.QuestionRepository().Create(ctx, q); err != nil {
		return 0, err
	}
	return q.Id, nil
}

// employeeDirectory serves the dialogue lookups from the department and
// employee tables.
type employeeDirectory struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewEmployeeDirectory(uowFactory unitofwork.RepositoryFactory) dialogue.Directory {
	return &employeeDirectory{uowFactory: uowFactory}
}

func (d *employeeDirectory) FindEmployee(ctx context.Context, id int64) (store.EmployeeRef, bool, error) {
	uow := d.uowFactory.NewUnitOfWork(ctx)
	emp, err := uow.EmployeeRepository().FindOne(ctx, specification.ByEmployeeID{ID: id})
	if err != nil {
		return store.EmployeeRef{}, false, err
	}
	if emp == nil {
		return store.EmployeeRef{}, false, nil
	}

	ref := store.EmployeeRef{
		ID:                 emp.Id,
		Name:               emp.Name,
		DepartmentID:       emp.DepartmentId,
		RemainingVacations: emp.RemainingVacations,
	}
	if emp.Department != nil {
		ref.DepartmentName = emp.Department.Name
		ref.DepartmentHead = emp.Department.Head
	}
	return ref, true, nil
}

func (d *employeeDirectory) FindDepartmentByName(ctx context.Context, name string) (store.DepartmentRef, bool, error) {
	uow := d.uowFactory.NewUnitOfWork(ctx)
	dep, err := uow.DepartmentRepository().FindByName(ctx, name)
	if err != nil {
		return store.DepartmentRef{}, false, err
	}
	if dep == nil {
		return store.DepartmentRef{}, false, nil
	}
	return store.DepartmentRef{ID: dep.Id, Name: dep.Name, Head: dep.Head}, true, nil
}

func (d *employeeDirectory) ListDepartments(ctx context.Context) ([]store.DepartmentRef, error) {
	uow := d.uowFactory.NewUnitOfWork(ctx)
	deps, err := uow.DepartmentRepository().FindAll(ctx, specification.OrderBy{Field: "department_name"})
	if err != nil {
		return nil, err
	}
	refs := make([]store.DepartmentRef, len(deps))
	for i, dep := range deps {
		refs[i] = store.DepartmentRef{ID: dep.Id, Name: dep.Name, Head: dep.Head}
	}
	return refs, nil
}
