package view

import (
	"context"

	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/session"
	"github.com/noah-isme/campus-console/internal/state"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
)

// StudentDashboardView is the student's own page. Profile, grades and attendance
// are separate sections.
type StudentDashboardView struct {
	studentID  string
	sessionErr error
	profile    *state.Resource[models.StudentDetail]
	grades     *state.Resource[models.GradeReport]
	attendance *state.Resource[models.AttendanceReport]
}

// NewStudentDashboardView binds the view to the session user. When the user has no
// student id the view renders the session error and never fetches.
func NewStudentDashboardView(deps Deps, user *session.User) *StudentDashboardView {
	deps = deps.withDefaults()
	v := &StudentDashboardView{}
	if user == nil {
		v.sessionErr = appErrors.ErrSessionMissing
	} else if id, err := user.RequireStudentID(); err != nil {
		v.sessionErr = err
	} else {
		v.studentID = id
	}

	v.profile = state.NewResource("student.profile", func(ctx context.Context) (models.StudentDetail, error) {
		detail, err := deps.Backend.StudentDetail(ctx, v.studentID)
		if err != nil {
			return models.StudentDetail{}, err
		}
		return *detail, nil
	}, nil, deps.Logger)
	v.grades = state.NewResource("student.grades", func(ctx context.Context) (models.GradeReport, error) {
		report, err := deps.Backend.CurrentGrades(ctx, v.studentID)
		if err != nil {
			return models.GradeReport{}, err
		}
		return *report, nil
	}, func(r models.GradeReport) bool { return len(r.Details) == 0 }, deps.Logger)
	v.attendance = state.NewResource("student.attendance", func(ctx context.Context) (models.AttendanceReport, error) {
		report, err := deps.Backend.CurrentAttendance(ctx, v.studentID)
		if err != nil {
			return models.AttendanceReport{}, err
		}
		return *report, nil
	}, func(r models.AttendanceReport) bool { return len(r.Details) == 0 }, deps.Logger)
	return v
}

func (v *StudentDashboardView) Name() string { return NameStudentDashboard }

func (v *StudentDashboardView) Mount(ctx context.Context) {
	if v.sessionErr != nil {
		return
	}
	loadAll(ctx, v.profile.Mount, v.grades.Mount, v.attendance.Mount)
}

func (v *StudentDashboardView) Unmount() {
	v.profile.Unmount()
	v.grades.Unmount()
	v.attendance.Unmount()
}

// Refresh reloads every section.
func (v *StudentDashboardView) Refresh(ctx context.Context) {
	if v.sessionErr != nil {
		return
	}
	loadAll(ctx, v.profile.Refresh, v.grades.Refresh, v.attendance.Refresh)
}

// ProfileSection is the student header with the current SGPA.
type ProfileSection struct {
	state.Meta
	Section state.Section   `json:"section"`
	Student *models.Student `json:"student,omitempty"`
	SGPA    state.Stat      `json:"sgpa"`
}

// StudentDashboardState is the rendered page.
type StudentDashboardState struct {
	StudentID  string                                       `json:"studentId,omitempty"`
	Profile    ProfileSection                               `json:"profile"`
	Grades     state.ResourceState[models.GradeReport]      `json:"grades"`
	Attendance state.ResourceState[models.AttendanceReport] `json:"attendance"`
}

// Render builds the snapshot.
func (v *StudentDashboardView) Render() StudentDashboardState {
	if v.sessionErr != nil {
		msg := appErrors.DisplayMessage(v.sessionErr)
		return StudentDashboardState{
			Profile:    ProfileSection{Meta: state.Meta{Error: msg}, Section: state.SectionError},
			Grades:     state.FailedSection[models.GradeReport](msg),
			Attendance: state.FailedSection[models.AttendanceReport](msg),
		}
	}

	snap := v.profile.Snapshot()
	profile := ProfileSection{Meta: snap.Meta, Section: snap.Section}
	if snap.Data != nil {
		s := snap.Data.Student
		profile.Student = &s
		profile.SGPA = state.FromMetric(snap.Data.SGPA, 2)
	}
	return StudentDashboardState{
		StudentID:  v.studentID,
		Profile:    profile,
		Grades:     v.grades.Snapshot(),
		Attendance: v.attendance.Snapshot(),
	}
}
