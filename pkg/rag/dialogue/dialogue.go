// Package dialogue runs the scripted HR sub-dialogues (vacation balance,
// department transfer, resignation). Transitions live in a table keyed by
// state and input class; wording lives in messages.go.
package dialogue

import (
	"context"
	"strconv"
	"strings"

	"hr-faq-be/internal/metrics"
	"hr-faq-be/internal/pkg/logger"
	"hr-faq-be/pkg/apperr"
	"hr-faq-be/pkg/rag/language"
	"hr-faq-be/pkg/rag/session"
	"hr-faq-be/pkg/store"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const module = "DialogueController"

type Trigger string

const (
	TriggerVacation    Trigger = "vacation"
	TriggerDepartment  Trigger = "department"
	TriggerResignation Trigger = "resignation"
)

type Status string

const (
	StatusVacationQuery              Status = "vacation_query"
	StatusDepartmentQuery            Status = "department_query"
	StatusResignationQuery           Status = "resignation_query"
	StatusCancelled                  Status = "query_cancelled"
	StatusVacationAnswered           Status = "vacation_answered"
	StatusVacationNotFound           Status = "vacation_not_found"
	StatusVacationInvalidFormat      Status = "vacation_invalid_format"
	StatusDepartmentIDRequest        Status = "department_id_request"
	StatusDepartmentInvalid          Status = "department_invalid"
	StatusDepartmentSame             Status = "department_same"
	StatusDepartmentAnswered         Status = "department_answered"
	StatusDepartmentEmployeeNotFound Status = "department_employee_not_found"
	StatusDepartmentInvalidFormat    Status = "department_invalid_format"
	StatusResignationAnswered        Status = "resignation_answered"
	StatusResignationNotFound        Status = "resignation_not_found"
	StatusResignationInvalidFormat   Status = "resignation_invalid_format"
)

// Directory answers the employee and department lookups the dialogues need.
// found=false means the row does not exist; err is reserved for backend failures.
type Directory interface {
	FindEmployee(ctx context.Context, id int64) (store.EmployeeRef, bool, error)
	FindDepartmentByName(ctx context.Context, name string) (store.DepartmentRef, bool, error)
	ListDepartments(ctx context.Context) ([]store.DepartmentRef, error)
}

// Turn is one inbound message.
type Turn struct {
	SessionID     string
	Text          string
	Language      language.Code
	MenuSelection bool
}

// Reply is the locally generated answer for a turn the controller owns.
type Reply struct {
	Status  Status
	Message string
}

type inputClass int

const (
	inputCancel inputClass = iota
	inputInteger
	inputMalformed
	inputText
)

type input struct {
	class inputClass
	raw   string
	id    int64
}

func classify(mode store.Mode, text string) input {
	trimmed := strings.TrimSpace(text)
	if strings.EqualFold(trimmed, "q") {
		return input{class: inputCancel, raw: trimmed}
	}
	if mode == store.ModeAwaitingDepartmentName {
		return input{class: inputText, raw: trimmed}
	}
	id, err := strconv.ParseInt(asciiDigits(trimmed), 10, 64)
	if err != nil {
		return input{class: inputMalformed, raw: trimmed}
	}
	return input{class: inputInteger, raw: trimmed, id: id}
}

// asciiDigits rewrites Arabic-Indic and extended Arabic-Indic digits to
// ASCII so employee IDs can be typed in either script.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '\u0660' && r <= '\u0669':
			return '0' + (r - '\u0660')
		case r >= '\u06F0' && r <= '\u06F9':
			return '0' + (r - '\u06F0')
		}
		return r
	}, s)
}

type effect int

const (
	effectStay effect = iota
	effectEnd
	effectAdvance
)

type outcome struct {
	status Status
	msg    message
	effect effect
	next   *store.Session
}

type stateKey string

const (
	keyVacationID     stateKey = "awaiting_employee_id:vacation"
	keyResignationID  stateKey = "awaiting_employee_id:resignation"
	keyDepartmentName stateKey = "awaiting_department_name"
	keyDepartmentID   stateKey = "awaiting_employee_id_for_department"
)

func keyOf(s *store.Session) stateKey {
	if s.Mode == store.ModeAwaitingEmployeeID {
		return stateKey(string(s.Mode) + ":" + string(s.Purpose))
	}
	return stateKey(s.Mode)
}

type transition func(c *Controller, ctx context.Context, s *store.Session, in input) outcome

var transitions = map[stateKey]map[inputClass]transition{
	keyVacationID: {
		inputCancel:    end(StatusCancelled, msgVacationCancelled),
		inputInteger:   (*Controller).vacationBalance,
		inputMalformed: stay(StatusVacationInvalidFormat, msgInvalidEmployeeID),
	},
	keyResignationID: {
		inputCancel:    end(StatusCancelled, msgResignationCancelled),
		inputInteger:   (*Controller).resignationContact,
		inputMalformed: stay(StatusResignationInvalidFormat, msgInvalidEmployeeID),
	},
	keyDepartmentName: {
		inputCancel: end(StatusCancelled, msgDepartmentCancelled),
		inputText:   (*Controller).selectDepartment,
	},
	keyDepartmentID: {
		inputCancel:    end(StatusCancelled, msgDepartmentCancelled),
		inputInteger:   (*Controller).transferContact,
		inputMalformed: stay(StatusDepartmentInvalidFormat, msgInvalidEmployeeID),
	},
}

func end(status Status, key messageKey) transition {
	return func(*Controller, context.Context, *store.Session, input) outcome {
		return outcome{status: status, msg: message{key: key}, effect: effectEnd}
	}
}

func stay(status Status, key messageKey) transition {
	return func(*Controller, context.Context, *store.Session, input) outcome {
		return outcome{status: status, msg: message{key: key}, effect: effectStay}
	}
}

type Controller struct {
	sessions  *session.Manager
	directory Directory
	logger    logger.ILogger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

func NewController(sessions *session.Manager, directory Directory, log logger.ILogger, m *metrics.Metrics) *Controller {
	return &Controller{
		sessions:  sessions,
		directory: directory,
		logger:    log,
		metrics:   m,
		tracer:    otel.Tracer("hr-faq-be/dialogue"),
	}
}

// Handle claims the turn when the session is inside a sub-dialogue or the
// turn is a menu selection matching a menu entry. handled=false hands the
// turn to retrieval. The whole read-decide-write runs under the session lock.
func (c *Controller) Handle(ctx context.Context, turn Turn) (Reply, bool, error) {
	ctx, span := c.tracer.Start(ctx, "dialogue.Handle")
	defer span.End()

	unlock := c.sessions.Lock(turn.SessionID)
	defer unlock()

	s, err := c.sessions.Load(ctx, turn.SessionID)
	if err != nil {
		c.logger.Warn(module, "session store unavailable, treating turn as a fresh question", map[string]interface{}{
			"session_id": turn.SessionID,
			"error":      err.Error(),
		})
		return Reply{}, false, nil
	}

	if s.Active() {
		span.SetAttributes(attribute.String("dialogue.state", string(keyOf(s))))
		return c.advance(ctx, turn, s)
	}

	if s != nil {
		if err := c.sessions.Clear(ctx, turn.SessionID); err != nil {
			c.logger.Warn(module, "failed to clear idle session", map[string]interface{}{"session_id": turn.SessionID, "error": err.Error()})
		}
	}

	if !turn.MenuSelection {
		return Reply{}, false, nil
	}
	trig, ok := MatchTrigger(turn.Text)
	if !ok {
		return Reply{}, false, nil
	}
	span.SetAttributes(attribute.String("dialogue.trigger", string(trig)))
	return c.start(ctx, turn, trig)
}

// Reset drops any dialogue state for sessionID.
func (c *Controller) Reset(ctx context.Context, sessionID string) error {
	unlock := c.sessions.Lock(sessionID)
	defer unlock()
	if err := c.sessions.Clear(ctx, sessionID); err != nil {
		return apperr.Backend("dialogue.reset", err)
	}
	return nil
}

// Active reports whether sessionID is inside a sub-dialogue.
func (c *Controller) Active(ctx context.Context, sessionID string) (bool, error) {
	s, err := c.sessions.Load(ctx, sessionID)
	if err != nil {
		return false, apperr.Backend("dialogue.active", err)
	}
	return s.Active(), nil
}

func (c *Controller) start(ctx context.Context, turn Turn, trig Trigger) (Reply, bool, error) {
	var (
		next   *store.Session
		status Status
		msg    message
	)
	switch trig {
	case TriggerVacation:
		next = &store.Session{ID: turn.SessionID, Mode: store.ModeAwaitingEmployeeID, Purpose: store.PurposeVacation}
		status, msg = StatusVacationQuery, message{key: msgVacationPrompt}
	case TriggerResignation:
		next = &store.Session{ID: turn.SessionID, Mode: store.ModeAwaitingEmployeeID, Purpose: store.PurposeResignation}
		status, msg = StatusResignationQuery, message{key: msgResignationPrompt}
	case TriggerDepartment:
		next = &store.Session{ID: turn.SessionID, Mode: store.ModeAwaitingDepartmentName}
		status, msg = StatusDepartmentQuery, message{key: msgDepartmentPrompt, departments: c.departmentNames(ctx)}
	}

	if err := c.sessions.Save(ctx, next); err != nil {
		return Reply{}, true, apperr.Backend("dialogue.start", err)
	}
	return c.reply(turn, status, msg), true, nil
}

func (c *Controller) advance(ctx context.Context, turn Turn, s *store.Session) (Reply, bool, error) {
	in := classify(s.Mode, turn.Text)
	t, ok := transitions[keyOf(s)][in.class]
	if !ok {
		c.logger.Warn(module, "unknown dialogue state, dropping it", map[string]interface{}{
			"session_id": s.ID,
			"state":      string(keyOf(s)),
		})
		if err := c.sessions.Clear(ctx, s.ID); err != nil {
			return Reply{}, false, apperr.Backend("dialogue.clear", err)
		}
		return Reply{}, false, nil
	}

	out := t(c, ctx, s, in)

	var err error
	switch out.effect {
	case effectEnd:
		err = c.sessions.Clear(ctx, s.ID)
	case effectAdvance:
		err = c.sessions.Save(ctx, out.next)
	default:
		err = c.sessions.Save(ctx, s)
	}
	if err != nil {
		return Reply{}, true, apperr.Backend("dialogue.advance", err)
	}
	return c.reply(turn, out.status, out.msg), true, nil
}

func (c *Controller) reply(turn Turn, status Status, msg message) Reply {
	c.metrics.ObserveTransition(string(status))
	return Reply{Status: status, Message: render(turn.Language, msg)}
}

func (c *Controller) departmentNames(ctx context.Context) []string {
	deps, err := c.directory.ListDepartments(ctx)
	if err != nil {
		c.logger.Error(module, "failed to list departments", map[string]interface{}{"error": err.Error()})
		return nil
	}
	names := make([]string, len(deps))
	for i, d := range deps {
		names[i] = d.Name
	}
	return names
}

func (c *Controller) lookupEmployee(ctx context.Context, id int64) (store.EmployeeRef, bool, bool) {
	emp, found, err := c.directory.FindEmployee(ctx, id)
	if err != nil {
		c.logger.Error(module, "employee lookup failed", map[string]interface{}{"employee_id": id, "error": err.Error()})
		return store.EmployeeRef{}, false, false
	}
	return emp, found, true
}

func notFound(status Status, id int64, reachable bool) outcome {
	if !reachable {
		return outcome{status: status, msg: message{key: msgDirectoryUnavailable}, effect: effectStay}
	}
	return outcome{status: status, msg: message{key: msgEmployeeNotFound, employeeID: id}, effect: effectStay}
}

func (c *Controller) vacationBalance(ctx context.Context, _ *store.Session, in input) outcome {
	emp, found, reachable := c.lookupEmployee(ctx, in.id)
	if !found {
		return notFound(StatusVacationNotFound, in.id, reachable)
	}
	return outcome{
		status: StatusVacationAnswered,
		msg:    message{key: msgVacationBalance, employee: emp.Name, days: emp.RemainingVacations},
		effect: effectEnd,
	}
}

func (c *Controller) resignationContact(ctx context.Context, _ *store.Session, in input) outcome {
	emp, found, reachable := c.lookupEmployee(ctx, in.id)
	if !found {
		return notFound(StatusResignationNotFound, in.id, reachable)
	}
	return outcome{
		status: StatusResignationAnswered,
		msg:    message{key: msgResignationContact, employee: emp.Name, current: emp.DepartmentName, currentHead: emp.DepartmentHead},
		effect: effectEnd,
	}
}

func (c *Controller) selectDepartment(ctx context.Context, s *store.Session, in input) outcome {
	dept, found, err := c.directory.FindDepartmentByName(ctx, in.raw)
	if err != nil {
		c.logger.Error(module, "department lookup failed", map[string]interface{}{"input": in.raw, "error": err.Error()})
		return outcome{status: StatusDepartmentInvalid, msg: message{key: msgDirectoryUnavailable}, effect: effectStay}
	}
	if !found {
		return outcome{
			status: StatusDepartmentInvalid,
			msg:    message{key: msgDepartmentInvalid, input: in.raw, departments: c.departmentNames(ctx)},
			effect: effectStay,
		}
	}
	return outcome{
		status: StatusDepartmentIDRequest,
		msg:    message{key: msgDepartmentSelected, target: dept.Name},
		effect: effectAdvance,
		next: &store.Session{
			ID:               s.ID,
			Mode:             store.ModeAwaitingIDForDepartment,
			TargetDepartment: &dept,
		},
	}
}

func (c *Controller) transferContact(ctx context.Context, s *store.Session, in input) outcome {
	target := s.TargetDepartment
	if target == nil {
		return outcome{status: StatusCancelled, msg: message{key: msgDepartmentCancelled}, effect: effectEnd}
	}

	emp, found, reachable := c.lookupEmployee(ctx, in.id)
	if !found {
		return notFound(StatusDepartmentEmployeeNotFound, in.id, reachable)
	}
	if emp.DepartmentID == target.ID {
		return outcome{
			status: StatusDepartmentSame,
			msg:    message{key: msgDepartmentSame, current: emp.DepartmentName},
			effect: effectEnd,
		}
	}
	return outcome{
		status: StatusDepartmentAnswered,
		msg: message{
			key:         msgDepartmentContact,
			employee:    emp.Name,
			current:     emp.DepartmentName,
			currentHead: emp.DepartmentHead,
			target:      target.Name,
			targetHead:  target.Head,
		},
		effect: effectEnd,
	}
}
