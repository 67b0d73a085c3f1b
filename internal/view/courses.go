package view

import (
	"context"
	"strings"

	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/state"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
)

func matchCourse(c models.Course, q string) bool {
	return state.ContainsFold(q, c.CourseName, c.CourseID, c.FacultyName)
}

// CourseManagementView is the admin course list with its dialogs. The list and the
// server stats come from the same courses-overview call.
type CourseManagementView struct {
	deps     Deps
	overview *state.Resource[models.CoursesOverview]
	add      *state.Dialog[models.CourseDraft]
	edit     *state.Dialog[models.CourseDraft]
	remove   *state.Dialog[DeleteTarget]
	notice   notice
}

// NewCourseManagementView constructs an unmounted view.
func NewCourseManagementView(deps Deps) *CourseManagementView {
	deps = deps.withDefaults()
	v := &CourseManagementView{deps: deps}
	v.overview = state.NewResource("courses.overview", func(ctx context.Context) (models.CoursesOverview, error) {
		overview, err := deps.Backend.CoursesOverview(ctx)
		if err != nil {
			return models.CoursesOverview{}, err
		}
		return *overview, nil
	}, func(o models.CoursesOverview) bool { return len(o.Courses) == 0 }, deps.Logger)

	v.add = state.NewDialog(state.DialogConfig[models.CourseDraft]{
		Name: "courses.add",
		Submit: func(ctx context.Context, _ state.Mode, _ string, draft models.CourseDraft) error {
			_, err := deps.Backend.CreateCourse(ctx, draft)
			return err
		},
		OnSuccess: func(ctx context.Context, _ state.Mode, _ string, draft models.CourseDraft) {
			deps.audit(ctx, models.AuditActionCourseCreate, "course", draft.CourseID, draft)
			v.notice.set("Course " + draft.CourseID + " added")
			_ = v.overview.Refresh(ctx)
		},
		Validator: deps.Validator,
		Observer:  deps.Observer,
		Logger:    deps.Logger,
	})

	v.edit = state.NewDialog(state.DialogConfig[models.CourseDraft]{
		Name: "courses.edit",
		Submit: func(ctx context.Context, _ state.Mode, key string, draft models.CourseDraft) error {
			_, err := deps.Backend.UpdateCourse(ctx, key, draft)
			return err
		},
		OnSuccess: func(ctx context.Context, _ state.Mode, key string, draft models.CourseDraft) {
			deps.audit(ctx, models.AuditActionCourseUpdate, "course", key, draft)
			v.notice.set("Course " + key + " updated")
			_ = v.overview.Refresh(ctx)
		},
		Pin:       func(draft *models.CourseDraft, key string) { draft.CourseID = key },
		Validator: deps.Validator,
		Observer:  deps.Observer,
		Logger:    deps.Logger,
	})

	v.remove = state.NewDialog(state.DialogConfig[DeleteTarget]{
		Name: "courses.delete",
		Submit: func(ctx context.Context, _ state.Mode, key string, _ DeleteTarget) error {
			_, err := deps.Backend.DeleteCourse(ctx, key)
			return err
		},
		OnSuccess: func(ctx context.Context, _ state.Mode, key string, _ DeleteTarget) {
			deps.audit(ctx, models.AuditActionCourseDelete, "course", key, nil)
			v.notice.set("Course " + key + " deleted")
			_ = v.overview.Refresh(ctx)
		},
		Pin:       pinDeleteTarget,
		Validator: deps.Validator,
		Observer:  deps.Observer,
		Logger:    deps.Logger,
	})
	return v
}

func (v *CourseManagementView) Name() string { return NameCourses }

func (v *CourseManagementView) Mount(ctx context.Context) { _ = v.overview.Mount(ctx) }

func (v *CourseManagementView) Unmount() { v.overview.Unmount() }

// Refresh reloads the overview.
func (v *CourseManagementView) Refresh(ctx context.Context) { _ = v.overview.Refresh(ctx) }

func (v *CourseManagementView) items() []models.Course {
	overview, _ := v.overview.Value()
	return overview.Courses
}

func (v *CourseManagementView) course(id string) (models.Course, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Course{}, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	for _, c := range v.items() {
		if c.CourseID == id {
			return c, nil
		}
	}
	return models.Course{}, appErrors.Clone(appErrors.ErrNotFound, "course "+id+" not found")
}

// OpenDialog opens a dialog. id names the target course for edit and delete.
func (v *CourseManagementView) OpenDialog(_ context.Context, name, id string) error {
	v.notice.set("")
	switch name {
	case DialogAdd:
		return v.add.OpenCreate(models.CourseDraft{Status: models.CourseActive})
	case DialogEdit:
		c, err := v.course(id)
		if err != nil {
			return err
		}
		return v.edit.OpenEdit(c.CourseID, models.DraftFromCourse(c))
	case DialogDelete:
		c, err := v.course(id)
		if err != nil {
			return err
		}
		return v.remove.OpenEdit(c.CourseID, DeleteTarget{ID: c.CourseID, Label: c.CourseName})
	}
	return unknownDialog(name)
}

func (v *CourseManagementView) PatchDialog(name string, raw []byte) error {
	switch name {
	case DialogAdd:
		return v.add.Patch(raw)
	case DialogEdit:
		return v.edit.Patch(raw)
	case DialogDelete:
		return v.remove.Patch(raw)
	}
	return unknownDialog(name)
}

func (v *CourseManagementView) SubmitDialog(ctx context.Context, name string) error {
	switch name {
	case DialogAdd:
		return v.add.Submit(ctx)
	case DialogEdit:
		return v.edit.Submit(ctx)
	case DialogDelete:
		return v.remove.Submit(ctx)
	}
	return unknownDialog(name)
}

func (v *CourseManagementView) CancelDialog(name string) error {
	switch name {
	case DialogAdd:
		return v.add.Cancel()
	case DialogEdit:
		return v.edit.Cancel()
	case DialogDelete:
		return v.remove.Cancel()
	}
	return unknownDialog(name)
}

// CourseStats holds both the server reported and the locally derived aggregates.
type CourseStats struct {
	Total            state.Stat `json:"total"`
	Active           state.Stat `json:"active"`
	TotalEnrollment  state.Stat `json:"totalEnrollment"`
	AverageClassSize state.Stat `json:"avgClassSize"`
}

// CourseDialogs groups the dialog snapshots.
type CourseDialogs struct {
	Add    state.DialogState[models.CourseDraft] `json:"add"`
	Edit   state.DialogState[models.CourseDraft] `json:"edit"`
	Delete state.DialogState[DeleteTarget]       `json:"delete"`
}

// CourseManagementState is the rendered page.
type CourseManagementState struct {
	Courses     state.ListState[models.Course] `json:"courses"`
	Stats       CourseStats                    `json:"stats"`
	ServerStats *CourseStats                   `json:"serverStats,omitempty"`
	Dialogs     CourseDialogs                  `json:"dialogs"`
	Notice      string                         `json:"notice,omitempty"`
}

// Render builds the snapshot for a search query.
func (v *CourseManagementView) Render(query string) CourseManagementState {
	snap := v.overview.Snapshot()
	var all []models.Course
	if snap.Data != nil {
		all = append([]models.Course(nil), snap.Data.Courses...)
	}
	out := CourseManagementState{
		Courses: state.ListFrom(snap.Meta, all, query, matchCourse),
		Stats: CourseStats{
			Total:  state.Int(len(all)),
			Active: state.Int(state.CountWhere(all, func(c models.Course) bool { return c.Status == models.CourseActive })),
			TotalEnrollment: state.Int(int(state.Sum(all, func(c models.Course) float64 {
				return float64(c.EnrollmentCount.Int())
			}))),
			AverageClassSize: state.Average(all, func(c models.Course) (float64, bool) {
				return float64(c.EnrollmentCount.Int()), true
			}, 1),
		},
		Dialogs: CourseDialogs{
			Add:    v.add.Snapshot(),
			Edit:   v.edit.Snapshot(),
			Delete: v.remove.Snapshot(),
		},
		Notice: v.notice.get(),
	}
	if snap.Data != nil {
		s := snap.Data.Stats
		out.ServerStats = &CourseStats{
			Total:            state.Int(s.TotalCourses.Int()),
			Active:           state.Int(s.ActiveCourses.Int()),
			TotalEnrollment:  state.Int(s.TotalEnrollment.Int()),
			AverageClassSize: state.FromMetric(s.AverageClassSize, 1),
		}
	}
	return out
}
