package view

import (
	"context"
	"strings"

	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/state"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
)

// DeleteTarget is the draft of a delete confirmation.
type DeleteTarget struct {
	ID    string `json:"id" validate:"required"`
	Label string `json:"label"`
}

func pinDeleteTarget(draft *DeleteTarget, key string) { draft.ID = key }

func matchStudent(s models.Student, q string) bool {
	return state.ContainsFold(q, s.FullName(), s.StudentID, s.Email)
}

// StudentManagementView is the admin student roster with its dialogs.
type StudentManagementView struct {
	deps       Deps
	roster     *state.Synchronizer[models.Student]
	averageGPA *state.Resource[models.AverageGPA]
	add        *state.Dialog[models.StudentDraft]
	edit       *state.Dialog[models.StudentDraft]
	remove     *state.Dialog[DeleteTarget]
	enroll     *EnrollmentDialog
	notice     notice
}

// NewStudentManagementView constructs an unmounted view.
func NewStudentManagementView(deps Deps) *StudentManagementView {
	deps = deps.withDefaults()
	v := &StudentManagementView{deps: deps}
	v.roster = state.NewSynchronizer("students.roster", deps.Backend.ListStudents, matchStudent, deps.Logger)
	v.averageGPA = state.NewResource("students.average_gpa", func(ctx context.Context) (models.AverageGPA, error) {
		avg, err := deps.Backend.AverageGPA(ctx)
		if err != nil {
			return models.AverageGPA{}, err
		}
		return *avg, nil
	}, nil, deps.Logger)

	v.add = state.NewDialog(state.DialogConfig[models.StudentDraft]{
		Name: "students.add",
		Submit: func(ctx context.Context, _ state.Mode, _ string, draft models.StudentDraft) error {
			_, err := deps.Backend.CreateStudent(ctx, draft)
			return err
		},
		OnSuccess: func(ctx context.Context, _ state.Mode, _ string, draft models.StudentDraft) {
			deps.audit(ctx, models.AuditActionStudentCreate, "student", draft.StudentID, draft)
			v.notice.set("Student " + draft.StudentID + " added")
			_ = v.roster.Refresh(ctx)
		},
		Validator: deps.Validator,
		Observer:  deps.Observer,
		Logger:    deps.Logger,
	})

	v.edit = state.NewDialog(state.DialogConfig[models.StudentDraft]{
		Name: "students.edit",
		Submit: func(ctx context.Context, _ state.Mode, key string, draft models.StudentDraft) error {
			_, err := deps.Backend.UpdateStudent(ctx, key, draft)
			return err
		},
		OnSuccess: func(ctx context.Context, _ state.Mode, key string, draft models.StudentDraft) {
			deps.audit(ctx, models.AuditActionStudentUpdate, "student", key, draft)
			v.notice.set("Student " + key + " updated")
			_ = v.roster.Refresh(ctx)
		},
		Pin:       func(draft *models.StudentDraft, key string) { draft.StudentID = key },
		Validator: deps.Validator,
		Observer:  deps.Observer,
		Logger:    deps.Logger,
	})

	v.remove = state.NewDialog(state.DialogConfig[DeleteTarget]{
		Name: "students.delete",
		Submit: func(ctx context.Context, _ state.Mode, key string, _ DeleteTarget) error {
			_, err := deps.Backend.DeleteStudent(ctx, key)
			return err
		},
		OnSuccess: func(ctx context.Context, _ state.Mode, key string, _ DeleteTarget) {
			deps.audit(ctx, models.AuditActionStudentDelete, "student", key, nil)
			v.notice.set("Student " + key + " deleted")
			_ = v.roster.Refresh(ctx)
		},
		Pin:       pinDeleteTarget,
		Validator: deps.Validator,
		Observer:  deps.Observer,
		Logger:    deps.Logger,
	})

	v.enroll = NewEnrollmentDialog(deps, func(msg string) { v.notice.set(msg) })
	return v
}

func (v *StudentManagementView) Name() string { return NameStudents }

func (v *StudentManagementView) Mount(ctx context.Context) {
	loadAll(ctx, v.roster.Mount, v.averageGPA.Mount)
}

func (v *StudentManagementView) Unmount() {
	v.roster.Unmount()
	v.averageGPA.Unmount()
	v.enroll.Unmount()
}

// Refresh reloads the roster and the average GPA.
func (v *StudentManagementView) Refresh(ctx context.Context) {
	loadAll(ctx, v.roster.Refresh, v.averageGPA.Refresh)
}

func (v *StudentManagementView) student(id string) (models.Student, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Student{}, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	s, ok := v.roster.Find(func(s models.Student) bool { return s.StudentID == id })
	if !ok {
		return models.Student{}, appErrors.Clone(appErrors.ErrNotFound, "student "+id+" not found")
	}
	return s, nil
}

// OpenDialog opens a dialog. id names the target student for edit, delete and enroll.
func (v *StudentManagementView) OpenDialog(ctx context.Context, name, id string) error {
	v.notice.set("")
	switch name {
	case DialogAdd:
		return v.add.OpenCreate(models.StudentDraft{})
	case DialogEdit, DialogDelete, DialogEnroll:
		s, err := v.student(id)
		if err != nil {
			return err
		}
		switch name {
		case DialogEdit:
			return v.edit.OpenEdit(s.StudentID, models.DraftFromStudent(s))
		case DialogDelete:
			return v.remove.OpenEdit(s.StudentID, DeleteTarget{ID: s.StudentID, Label: s.FullName()})
		default:
			return v.enroll.Open(ctx, s)
		}
	}
	return unknownDialog(name)
}

// PatchDialog merges a JSON object into a dialog draft.
func (v *StudentManagementView) PatchDialog(name string, raw []byte) error {
	switch name {
	case DialogAdd:
		return v.add.Patch(raw)
	case DialogEdit:
		return v.edit.Patch(raw)
	case DialogDelete:
		return v.remove.Patch(raw)
	case DialogEnroll:
		return v.enroll.Patch(raw)
	}
	return unknownDialog(name)
}

// SubmitDialog submits a dialog; on success the roster is refetched before returning.
func (v *StudentManagementView) SubmitDialog(ctx context.Context, name string) error {
	switch name {
	case DialogAdd:
		return v.add.Submit(ctx)
	case DialogEdit:
		return v.edit.Submit(ctx)
	case DialogDelete:
		return v.remove.Submit(ctx)
	case DialogEnroll:
		return v.enroll.Submit(ctx)
	}
	return unknownDialog(name)
}

// CancelDialog closes a dialog and discards its draft.
func (v *StudentManagementView) CancelDialog(name string) error {
	switch name {
	case DialogAdd:
		return v.add.Cancel()
	case DialogEdit:
		return v.edit.Cancel()
	case DialogDelete:
		return v.remove.Cancel()
	case DialogEnroll:
		return v.enroll.Cancel()
	}
	return unknownDialog(name)
}

// StudentStats are the roster aggregates.
type StudentStats struct {
	Total       state.Stat `json:"total"`
	Active      state.Stat `json:"active"`
	Departments state.Stat `json:"departments"`
}

// StudentDialogs groups the dialog snapshots.
type StudentDialogs struct {
	Add    state.DialogState[models.StudentDraft] `json:"add"`
	Edit   state.DialogState[models.StudentDraft] `json:"edit"`
	Delete state.DialogState[DeleteTarget]        `json:"delete"`
	Enroll EnrollmentState                        `json:"enroll"`
}

// StudentManagementState is the rendered page.
type StudentManagementState struct {
	Roster     state.ListState[models.Student] `json:"roster"`
	Stats      StudentStats                    `json:"stats"`
	AverageGPA StatSection                     `json:"averageGpa"`
	Dialogs    StudentDialogs                  `json:"dialogs"`
	Notice     string                          `json:"notice,omitempty"`
}

// Render builds the snapshot for a search query.
func (v *StudentManagementView) Render(query string) StudentManagementState {
	roster := v.roster.Snapshot(query)
	all := v.roster.Items()
	return StudentManagementState{
		Roster: roster,
		Stats: StudentStats{
			Total:       state.Int(len(all)),
			Active:      state.Int(state.CountWhere(all, func(s models.Student) bool { return s.Status == models.StudentActive })),
			Departments: state.Int(state.DistinctCount(all, func(s models.Student) string { return s.Department })),
		},
		AverageGPA: statSection(v.averageGPA, func(a models.AverageGPA) state.Stat {
			return state.FromMetric(a.AverageSGPA, 2)
		}),
		Dialogs: StudentDialogs{
			Add:    v.add.Snapshot(),
			Edit:   v.edit.Snapshot(),
			Delete: v.remove.Snapshot(),
			Enroll: v.enroll.Snapshot(),
		},
		Notice: v.notice.get(),
	}
}
