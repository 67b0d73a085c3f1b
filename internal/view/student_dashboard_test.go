package view

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-console/internal/backend"
	"github.com/noah-isme/campus-console/internal/session"
	"github.com/noah-isme/campus-console/internal/state"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
)

func studentUser(t *testing.T, raw string) *session.User {
	t.Helper()
	u, err := session.NewUser("student", json.RawMessage(raw))
	require.NoError(t, err)
	return u
}

func TestStudentDashboardSections(t *testing.T) {
	fake := newInstitution()
	v := NewStudentDashboardView(fake.deps(t), studentUser(t, `{"student_id":"STU1"}`))
	v.Mount(context.Background())

	st := v.Render()

	assert.Equal(t, "STU1", st.StudentID)
	require.NotNil(t, st.Profile.Student)
	assert.Equal(t, "Asha Rao", st.Profile.Student.FullName())
	assert.Equal(t, "8.25", st.Profile.SGPA.Display())
	assert.Equal(t, state.SectionPopulated, st.Grades.Section)
	require.NotNil(t, st.Attendance.Data)
	assert.InDelta(t, 92.0, st.Attendance.Data.Summary.OverallRate.Value, 0.001)
}

func TestStudentDashboardSectionWithoutRowsIsEmpty(t *testing.T) {
	fake := newInstitution()
	v := NewStudentDashboardView(fake.deps(t), studentUser(t, `{"student_id":"STU1"}`))
	v.Mount(context.Background())

	st := v.Render()

	require.NotNil(t, st.Attendance.Data)
	assert.Empty(t, st.Attendance.Data.Details)
	assert.Equal(t, state.SectionEmpty, st.Attendance.Section)
	require.NotNil(t, st.Grades.Data)
	assert.Len(t, st.Grades.Data.Details, 1)
	assert.Equal(t, state.SectionPopulated, st.Grades.Section)
}

func TestStudentDashboardAttendanceFailureIsIsolated(t *testing.T) {
	fake := newInstitution()
	fake.fail(backend.RouteCurrentAttendance, http.StatusNotFound, "no attendance recorded")
	v := NewStudentDashboardView(fake.deps(t), studentUser(t, `{"student_id":"STU1"}`))
	v.Mount(context.Background())

	st := v.Render()

	assert.Equal(t, state.SectionError, st.Attendance.Section)
	assert.Equal(t, "no attendance recorded", st.Attendance.Error)
	assert.Equal(t, state.SectionPopulated, st.Grades.Section)
	assert.Equal(t, state.SectionPopulated, st.Profile.Section)
}

func TestStudentDashboardWithoutStudentIDNeverFetches(t *testing.T) {
	fake := newInstitution()
	v := NewStudentDashboardView(fake.deps(t), studentUser(t, `{"first_name":"Asha"}`))
	v.Mount(context.Background())

	st := v.Render()

	msg := appErrors.ErrSessionInvalid.Message
	assert.Equal(t, state.SectionError, st.Profile.Section)
	assert.Equal(t, msg, st.Grades.Error)
	assert.Equal(t, msg, st.Attendance.Error)
	assert.Equal(t, 0, fake.count(backend.RouteStudent))
	assert.Equal(t, 0, fake.count(backend.RouteCurrentGrades))
}

func TestStudentDashboardWithoutSession(t *testing.T) {
	v := NewStudentDashboardView(newInstitution().deps(t), nil)

	st := v.Render()

	assert.Equal(t, appErrors.ErrSessionMissing.Message, st.Profile.Error)
}
