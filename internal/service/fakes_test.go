package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"hr-faq-be/internal/entity"
	"hr-faq-be/internal/repository/contract"
	"hr-faq-be/internal/repository/specification"
	"hr-faq-be/internal/repository/unitofwork"
	"hr-faq-be/pkg/rag/dialogue"
	"hr-faq-be/pkg/rag/retrieval"

	"gorm.io/gorm"
)

// memoryDB backs the fake unit of work. Specifications are interpreted for
// the handful of types the services use.
type memoryDB struct {
	mu          sync.Mutex
	questions   map[int64]*entity.Question
	feedback    []*entity.Feedback
	departments []*entity.Department
	employees   map[int64]*entity.Employee
	logs        []*entity.InteractionLog
	nextID      int64
	failWith    error
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		questions: make(map[int64]*entity.Question),
		employees: make(map[int64]*entity.Employee),
	}
}

type fakeFactory struct{ db *memoryDB }

func (f fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &fakeUoW{db: f.db}
}

type fakeUoW struct {
	db        *memoryDB
	began     bool
	committed bool
}

func (u *fakeUoW) Begin(context.Context) error { u.began = true; return u.db.failWith }
func (u *fakeUoW) Commit() error               { u.committed = true; return nil }
func (u *fakeUoW) Rollback() error             { return nil }

func (u *fakeUoW) QuestionRepository() contract.QuestionRepository             { return fakeQuestions{u.db} }
func (u *fakeUoW) FeedbackRepository() contract.FeedbackRepository             { return fakeFeedback{u.db} }
func (u *fakeUoW) DepartmentRepository() contract.DepartmentRepository         { return fakeDepartments{u.db} }
func (u *fakeUoW) EmployeeRepository() contract.EmployeeRepository             { return fakeEmployees{u.db} }
func (u *fakeUoW) InteractionLogRepository() contract.InteractionLogRepository { return fakeLogs{u.db} }

type fakeQuestions struct{ db *memoryDB }

func (r fakeQuestions) Create(_ context.Context, q *entity.Question) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failWith != nil {
		return r.db.failWith
	}
	r.db.nextID++
	q.Id = r.db.nextID
	cp := *q
	r.db.questions[q.Id] = &cp
	return nil
}

func (r fakeQuestions) Update(_ context.Context, q *entity.Question) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.questions[q.Id]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *q
	r.db.questions[q.Id] = &cp
	return nil
}

func (r fakeQuestions) matching(specs []specification.Specification) []*entity.Question {
	var out []*entity.Question
	for _, q := range r.db.questions {
		keep := true
		for _, s := range specs {
			switch spec := s.(type) {
			case specification.ByQuestionID:
				keep = keep && q.Id == spec.ID
			case specification.ByStatus:
				keep = keep && (spec.Status == "" || string(q.Status) == spec.Status)
			}
		}
		if keep {
			cp := *q
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id > out[j].Id })
	for _, s := range specs {
		if p, ok := s.(specification.Pagination); ok {
			if p.Offset >= len(out) {
				return nil
			}
			out = out[p.Offset:]
			if p.Limit > 0 && p.Limit < len(out) {
				out = out[:p.Limit]
			}
		}
	}
	return out
}

func (r fakeQuestions) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Question, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failWith != nil {
		return nil, r.db.failWith
	}
	found := r.matching(specs)
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r fakeQuestions) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Question, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.matching(specs), nil
}

func (r fakeQuestions) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var unpaged []specification.Specification
	for _, s := range specs {
		if _, ok := s.(specification.Pagination); !ok {
			unpaged = append(unpaged, s)
		}
	}
	return int64(len(r.matching(unpaged))), nil
}

func (r fakeQuestions) SearchSimilarWithScore(context.Context, []float32, int) ([]*entity.ScoredQuestion, error) {
	return nil, errors.New("not supported")
}

type fakeFeedback struct{ db *memoryDB }

func (r fakeFeedback) Create(_ context.Context, f *entity.Feedback) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.questions[f.QuestionId]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	r.db.nextID++
	f.Id = r.db.nextID
	cp := *f
	r.db.feedback = append(r.db.feedback, &cp)
	return nil
}

func (r fakeFeedback) Summarize(_ context.Context, questionId int64) (entity.FeedbackSummary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var s entity.FeedbackSummary
	for _, f := range r.db.feedback {
		if f.QuestionId != questionId {
			continue
		}
		if f.IsGood {
			s.Good++
		} else {
			s.Bad++
		}
	}
	return s, nil
}

func (r fakeFeedback) Count(context.Context, ...specification.Specification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.feedback)), nil
}

type fakeDepartments struct{ db *memoryDB }

func (r fakeDepartments) Create(_ context.Context, d *entity.Department) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.departments = append(r.db.departments, d)
	return nil
}

func (r fakeDepartments) FindByName(_ context.Context, name string) (*entity.Department, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, nil
	}
	for _, d := range r.db.departments {
		if strings.ToLower(d.Name) == needle {
			return d, nil
		}
	}
	for _, d := range r.db.departments {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			return d, nil
		}
	}
	return nil, nil
}

func (r fakeDepartments) FindAll(context.Context, ...specification.Specification) ([]*entity.Department, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := append([]*entity.Department(nil), r.db.departments...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeEmployees struct{ db *memoryDB }

func (r fakeEmployees) Create(_ context.Context, e *entity.Employee) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.employees[e.Id] = e
	return nil
}

func (r fakeEmployees) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Employee, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range specs {
		if spec, ok := s.(specification.ByEmployeeID); ok {
			return r.db.employees[spec.ID], nil
		}
	}
	return nil, nil
}

type fakeLogs struct{ db *memoryDB }

func (r fakeLogs) Create(_ context.Context, l *entity.InteractionLog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.logs = append(r.db.logs, l)
	return nil
}

func (r fakeLogs) Count(context.Context, ...specification.Specification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.logs)), nil
}

type stubDialogue struct {
	reply   dialogue.Reply
	handled bool
	err     error
	turns   []dialogue.Turn
	resets  []string
}

func (s *stubDialogue) Handle(_ context.Context, turn dialogue.Turn) (dialogue.Reply, bool, error) {
	s.turns = append(s.turns, turn)
	return s.reply, s.handled, s.err
}

func (s *stubDialogue) Reset(_ context.Context, sessionID string) error {
	s.resets = append(s.resets, sessionID)
	return nil
}

type stubRetrieval struct {
	result  retrieval.Result
	err     error
	queries []retrieval.Query
	panics  bool
}

func (s *stubRetrieval) Run(_ context.Context, q retrieval.Query) (retrieval.Result, error) {
	if s.panics {
		panic("boom")
	}
	s.queries = append(s.queries, q)
	return s.result, s.err
}
