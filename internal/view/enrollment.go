package view

import (
	"context"
	"sync"

	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/state"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
)

// EnrollmentDialog enrolls the selected student. The semester choices are narrowed
// to the student's study year; the course choice is independent.
type EnrollmentDialog struct {
	dialog    *state.Dialog[models.EnrollmentDraft]
	reference *state.Resource[models.EnrollmentData]

	mu      sync.RWMutex
	student *models.Student
}

// NewEnrollmentDialog constructs a closed dialog. onSuccess receives the backend message.
func NewEnrollmentDialog(deps Deps, onSuccess func(msg string)) *EnrollmentDialog {
	deps = deps.withDefaults()
	e := &EnrollmentDialog{}
	e.reference = state.NewResource("students.enrollment_data", func(ctx context.Context) (models.EnrollmentData, error) {
		data, err := deps.Backend.EnrollmentData(ctx)
		if err != nil {
			return models.EnrollmentData{}, err
		}
		return *data, nil
	}, nil, deps.Logger)

	var lastMessage string
	e.dialog = state.NewDialog(state.DialogConfig[models.EnrollmentDraft]{
		Name: "students.enroll",
		Submit: func(ctx context.Context, _ state.Mode, _ string, draft models.EnrollmentDraft) error {
			msg, err := deps.Backend.CreateEnrollment(ctx, draft)
			if err != nil {
				return err
			}
			lastMessage = msg.Message
			return nil
		},
		OnSuccess: func(ctx context.Context, _ state.Mode, key string, draft models.EnrollmentDraft) {
			deps.audit(ctx, models.AuditActionEnrollmentCreate, "enrollment", key, draft)
			msg := lastMessage
			if msg == "" {
				msg = "Enrollment created"
			}
			if onSuccess != nil {
				onSuccess(msg)
			}
		},
		Pin:       func(draft *models.EnrollmentDraft, key string) { draft.StudentID = key },
		Check:     e.checkSelection,
		Validator: deps.Validator,
		Observer:  deps.Observer,
		Logger:    deps.Logger,
	})
	return e
}

// Open selects the student, reloads the reference data and opens a fresh draft.
// A reference failure is shown in the dialog; the dialog still opens.
func (e *EnrollmentDialog) Open(ctx context.Context, student models.Student) error {
	if e.dialog.Phase() == state.PhaseSubmitting {
		return appErrors.ErrSubmitInFlight
	}
	_ = e.reference.Refresh(ctx)

	e.mu.Lock()
	s := student
	e.student = &s
	e.mu.Unlock()
	return e.dialog.OpenEdit(student.StudentID, models.EnrollmentDraft{StudentID: student.StudentID})
}

// Patch updates course_id and semester_id. The student stays fixed.
func (e *EnrollmentDialog) Patch(raw []byte) error { return e.dialog.Patch(raw) }

// Cancel closes the dialog.
func (e *EnrollmentDialog) Cancel() error { return e.dialog.Cancel() }

// Unmount discards pending reference loads.
func (e *EnrollmentDialog) Unmount() { e.reference.Unmount() }

// Choices resolves the semester selector for the selected student.
func (e *EnrollmentDialog) Choices() state.SemesterChoice {
	e.mu.RLock()
	student := e.student
	e.mu.RUnlock()

	year := 0
	if student != nil {
		year = student.CurrentYear.Int()
	}
	var semesters []models.Semester
	if data, ok := e.reference.Value(); ok {
		semesters = data.Semesters
	}
	return state.ResolveSemesterOptions(year, semesters)
}

// CanSubmit is true only when a course and an allowed semester are selected and
// nothing is in flight.
func (e *EnrollmentDialog) CanSubmit() bool {
	if e.dialog.Phase() != state.PhaseOpen {
		return false
	}
	return e.selectionValid(e.dialog.Draft())
}

func (e *EnrollmentDialog) selectionValid(draft models.EnrollmentDraft) bool {
	if draft.CourseID == "" || draft.SemesterID.Int() == 0 {
		return false
	}
	return e.Choices().Allows(draft.SemesterID.Int())
}

func (e *EnrollmentDialog) checkSelection(draft models.EnrollmentDraft) error {
	if !e.selectionValid(draft) {
		return appErrors.Clone(appErrors.ErrValidation, "select a course and a valid semester")
	}
	return nil
}

// Submit enrolls the student. It is refused while the selection is incomplete and
// the refusal is shown in the dialog.
func (e *EnrollmentDialog) Submit(ctx context.Context) error { return e.dialog.Submit(ctx) }

// CourseOption is one entry of the course selector.
type CourseOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// EnrollmentState is the rendered enrollment dialog.
type EnrollmentState struct {
	state.DialogState[models.EnrollmentDraft]
	Student   *models.Student      `json:"student,omitempty"`
	Reference state.Meta           `json:"reference"`
	Courses   []CourseOption       `json:"courses"`
	Semesters state.SemesterChoice `json:"semesters"`
}

// Snapshot renders the dialog. CanSubmit reflects the selection rules.
func (e *EnrollmentDialog) Snapshot() EnrollmentState {
	out := EnrollmentState{DialogState: e.dialog.Snapshot(), Courses: []CourseOption{}}
	if out.Phase == state.PhaseClosed {
		return out
	}
	e.mu.RLock()
	if e.student != nil {
		s := *e.student
		out.Student = &s
	}
	e.mu.RUnlock()

	ref := e.reference.Snapshot()
	out.Reference = ref.Meta
	if ref.Data != nil {
		for _, c := range ref.Data.Courses {
			out.Courses = append(out.Courses, CourseOption{Value: c.CourseID, Label: c.CourseID + " - " + c.CourseName})
		}
	}
	out.Semesters = e.Choices()
	out.CanSubmit = e.CanSubmit()
	return out
}
