package dialogue

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hr-faq-be/internal/pkg/logger"
	"hr-faq-be/internal/repository/memory"
	"hr-faq-be/pkg/rag/language"
	"hr-faq-be/pkg/rag/session"
	"hr-faq-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	employees   map[int64]store.EmployeeRef
	departments []store.DepartmentRef
	err         error
}

func (f *fakeDirectory) FindEmployee(_ context.Context, id int64) (store.EmployeeRef, bool, error) {
	if f.err != nil {
		return store.EmployeeRef{}, false, f.err
	}
	e, ok := f.employees[id]
	return e, ok, nil
}

func (f *fakeDirectory) FindDepartmentByName(_ context.Context, name string) (store.DepartmentRef, bool, error) {
	if f.err != nil {
		return store.DepartmentRef{}, false, f.err
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, d := range f.departments {
		if strings.ToLower(d.Name) == needle {
			return d, true, nil
		}
	}
	for _, d := range f.departments {
		if needle != "" && strings.Contains(strings.ToLower(d.Name), needle) {
			return d, true, nil
		}
	}
	return store.DepartmentRef{}, false, nil
}

func (f *fakeDirectory) ListDepartments(context.Context) ([]store.DepartmentRef, error) {
	return f.departments, f.err
}

func newDirectory() *fakeDirectory {
	return &fakeDirectory{
		employees: map[int64]store.EmployeeRef{
			101: {ID: 101, Name: "Sara", DepartmentID: 1, DepartmentName: "Engineering", DepartmentHead: "Omar", RemainingVacations: 12},
		},
		departments: []store.DepartmentRef{
			{ID: 1, Name: "Engineering", Head: "Omar"},
			{ID: 2, Name: "Finance", Head: "Lina"},
			{ID: 3, Name: "Human Resources", Head: "Hadi"},
		},
	}
}

func newController(dir Directory) (*Controller, *session.Manager) {
	sessions := session.NewManager(memory.NewSessionRepository(time.Minute, time.Minute))
	return NewController(sessions, dir, logger.NewNopLogger(), nil), sessions
}

func send(t *testing.T, c *Controller, text string, menu bool) (Reply, bool) {
	t.Helper()
	r, handled, err := c.Handle(context.Background(), Turn{SessionID: "s1", Text: text, Language: language.English, MenuSelection: menu})
	require.NoError(t, err)
	return r, handled
}

func TestMenuTriggerRequiresFlag(t *testing.T) {
	c, _ := newController(newDirectory())

	_, handled := send(t, c, "How many vacation days do I have remaining?", false)
	assert.False(t, handled)

	r, handled := send(t, c, "How many vacation days do I have remaining?", true)
	require.True(t, handled)
	assert.Equal(t, StatusVacationQuery, r.Status)
	assert.Contains(t, r.Message, "employee ID")
}

func TestMenuTriggerMatchesEitherLanguage(t *testing.T) {
	c, _ := newController(newDirectory())

	r, handled := send(t, c, "أريد تغيير قسمي", true)
	require.True(t, handled)
	assert.Equal(t, StatusDepartmentQuery, r.Status)
	assert.Contains(t, r.Message, "• Engineering\n• Finance\n• Human Resources")
}

func TestUnrelatedMenuSelectionIsNotClaimed(t *testing.T) {
	c, _ := newController(newDirectory())
	_, handled := send(t, c, "What are the working hours?", true)
	assert.False(t, handled)
}

func TestVacationFlow(t *testing.T) {
	c, _ := newController(newDirectory())
	send(t, c, "How many vacation days do I have remaining?", true)

	r, _ := send(t, c, "abc", false)
	assert.Equal(t, StatusVacationInvalidFormat, r.Status)

	r, _ = send(t, c, "9999", false)
	assert.Equal(t, StatusVacationNotFound, r.Status)
	assert.Contains(t, r.Message, "Employee ID 9999 not found")

	active, err := c.Active(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, active, "session stays in awaiting_employee_id after a miss")

	r, _ = send(t, c, " 101 ", false)
	assert.Equal(t, StatusVacationAnswered, r.Status)
	assert.Equal(t, "Hello Sara, you have 12 vacation days remaining.", r.Message)

	active, err = c.Active(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestVacationNotFoundKeepsState(t *testing.T) {
	c, sessions := newController(newDirectory())
	send(t, c, "كم لي من إجازات متبقية؟", true)

	r, _ := send(t, c, "9999", false)
	assert.Equal(t, StatusVacationNotFound, r.Status)

	s, err := sessions.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, store.ModeAwaitingEmployeeID, s.Mode)
	assert.Equal(t, store.PurposeVacation, s.Purpose)
}

func TestDepartmentMisspellingReRendersMenu(t *testing.T) {
	c, sessions := newController(newDirectory())
	send(t, c, "I want to change my department", true)

	r, handled := send(t, c, "Engineerng", false)
	require.True(t, handled)
	assert.Equal(t, StatusDepartmentInvalid, r.Status)
	assert.Contains(t, r.Message, `Department "Engineerng" not found.`)
	assert.Contains(t, r.Message, "• Engineering\n• Finance\n• Human Resources")

	s, err := sessions.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, store.ModeAwaitingDepartmentName, s.Mode)
}

func TestDepartmentTransferFlow(t *testing.T) {
	c, sessions := newController(newDirectory())
	send(t, c, "I want to change my department", true)

	r, _ := send(t, c, "fin", false)
	assert.Equal(t, StatusDepartmentIDRequest, r.Status)
	assert.Contains(t, r.Message, `"Finance"`)

	s, err := sessions.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, s.TargetDepartment)
	assert.Equal(t, int64(2), s.TargetDepartment.ID)

	r, _ = send(t, c, "12x", false)
	assert.Equal(t, StatusDepartmentInvalidFormat, r.Status)

	r, _ = send(t, c, "555", false)
	assert.Equal(t, StatusDepartmentEmployeeNotFound, r.Status)

	r, _ = send(t, c, "101", false)
	assert.Equal(t, StatusDepartmentAnswered, r.Status)
	assert.Contains(t, r.Message, "1. Your current department head: Omar")
	assert.Contains(t, r.Message, "2. Target department head: Lina")

	active, err := c.Active(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestDepartmentSame(t *testing.T) {
	c, _ := newController(newDirectory())
	send(t, c, "I want to change my department", true)
	send(t, c, "engineering", false)

	r, _ := send(t, c, "101", false)
	assert.Equal(t, StatusDepartmentSame, r.Status)
	assert.Contains(t, r.Message, "already in the Engineering department")
}

func TestResignationFlow(t *testing.T) {
	c, _ := newController(newDirectory())
	r, _ := send(t, c, "I want to submit a resignation", true)
	assert.Equal(t, StatusResignationQuery, r.Status)

	r, _ = send(t, c, "x", false)
	assert.Equal(t, StatusResignationInvalidFormat, r.Status)

	r, _ = send(t, c, "7", false)
	assert.Equal(t, StatusResignationNotFound, r.Status)

	r, _ = send(t, c, "101", false)
	assert.Equal(t, StatusResignationAnswered, r.Status)
	assert.Contains(t, r.Message, "Engineering Department Head: Omar")
}

func TestCancelFromEveryState(t *testing.T) {
	tests := []struct {
		name    string
		setup   []string
		message string
	}{
		{name: "vacation", setup: []string{"How many vacation days do I have remaining?"}, message: "Vacation query cancelled"},
		{name: "resignation", setup: []string{"I want to submit a resignation"}, message: "Resignation request cancelled"},
		{name: "department name", setup: []string{"I want to change my department"}, message: "Department change request cancelled"},
		{name: "department employee id", setup: []string{"I want to change my department", "Finance"}, message: "Department change request cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newController(newDirectory())
			send(t, c, tt.setup[0], true)
			for _, step := range tt.setup[1:] {
				send(t, c, step, false)
			}

			r, handled := send(t, c, "  Q ", false)
			require.True(t, handled)
			assert.Equal(t, StatusCancelled, r.Status)
			assert.Contains(t, r.Message, tt.message)

			active, err := c.Active(context.Background(), "s1")
			require.NoError(t, err)
			assert.False(t, active)

			_, handled = send(t, c, "What are the working hours?", false)
			assert.False(t, handled, "free text after cancel goes to retrieval")
		})
	}
}

func TestMenuIgnoredWhileDialogueActive(t *testing.T) {
	c, sessions := newController(newDirectory())
	send(t, c, "How many vacation days do I have remaining?", true)

	r, handled := send(t, c, "I want to change my department", true)
	require.True(t, handled)
	assert.Equal(t, StatusVacationInvalidFormat, r.Status)

	s, err := sessions.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, store.PurposeVacation, s.Purpose)
}

func TestIdleLeftoverIsCleared(t *testing.T) {
	c, sessions := newController(newDirectory())
	require.NoError(t, sessions.Save(context.Background(), &store.Session{ID: "s1", Mode: store.ModeIdle}))

	_, handled := send(t, c, "hello", false)
	assert.False(t, handled)

	s, err := sessions.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestDirectoryFailureKeepsStateAndAsksToRetry(t *testing.T) {
	dir := newDirectory()
	c, _ := newController(dir)
	send(t, c, "How many vacation days do I have remaining?", true)

	dir.err = errors.New("connection refused")
	r, handled := send(t, c, "101", false)
	require.True(t, handled)
	assert.Equal(t, StatusVacationNotFound, r.Status)
	assert.Contains(t, r.Message, "could not reach the employee directory")

	dir.err = nil
	r, _ = send(t, c, "101", false)
	assert.Equal(t, StatusVacationAnswered, r.Status)
}

func TestArabicRendering(t *testing.T) {
	c, _ := newController(newDirectory())
	_, _, err := c.Handle(context.Background(), Turn{SessionID: "s1", Text: "كم لي من إجازات متبقية؟", Language: language.Arabic, MenuSelection: true})
	require.NoError(t, err)

	r, _, err := c.Handle(context.Background(), Turn{SessionID: "s1", Text: "101", Language: language.Arabic})
	require.NoError(t, err)
	assert.Equal(t, "مرحباً Sara، لديك 12 يوم إجازة متبقي.", r.Message)
}

func TestCommonQuestions(t *testing.T) {
	ar := CommonQuestions(language.Arabic)
	en := CommonQuestions(language.English)
	require.Len(t, ar, 3)
	require.Len(t, en, 3)
	assert.Equal(t, TriggerVacation, en[0].ID)
	assert.Equal(t, "I want to change my department", en[1].Text)
	assert.Equal(t, "أريد تقديم استقالة", ar[2].Text)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, inputCancel, classify(store.ModeAwaitingEmployeeID, " q ").class)
	assert.Equal(t, inputCancel, classify(store.ModeAwaitingDepartmentName, "Q").class)
	assert.Equal(t, inputText, classify(store.ModeAwaitingDepartmentName, "123").class)
	assert.Equal(t, inputMalformed, classify(store.ModeAwaitingEmployeeID, "12 3").class)

	in := classify(store.ModeAwaitingIDForDepartment, " 42 ")
	assert.Equal(t, inputInteger, in.class)
	assert.Equal(t, int64(42), in.id)

	tests := []struct {
		text string
		want int64
	}{
		{"١٠١", 101},
		{" ۱۰۱ ", 101},
		{"1٠1", 101},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			in := classify(store.ModeAwaitingEmployeeID, tt.text)
			assert.Equal(t, inputInteger, in.class)
			assert.Equal(t, tt.want, in.id)
		})
	}
}

func TestArabicIndicEmployeeID(t *testing.T) {
	tests := []struct {
		name    string
		trigger string
		want    Status
	}{
		{"vacation", "How many vacation days do I have remaining?", StatusVacationAnswered},
		{"resignation", "I want to submit a resignation", StatusResignationAnswered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newController(newDirectory())
			send(t, c, tt.trigger, true)

			r, _ := send(t, c, "١٠١", false)
			assert.Equal(t, tt.want, r.Status)
		})
	}
}
