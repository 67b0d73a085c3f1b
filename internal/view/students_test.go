package view

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-console/internal/backend"
	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/state"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
)

func mountedStudents(t *testing.T, fake *institution) (*StudentManagementView, *auditRecorder) {
	t.Helper()
	deps := fake.deps(t)
	audit := &auditRecorder{}
	deps.Auditor = audit
	v := NewStudentManagementView(deps)
	v.Mount(context.Background())
	return v, audit
}

func TestStudentsMountRendersRosterAndAggregates(t *testing.T) {
	v, _ := mountedStudents(t, newInstitution())

	st := v.Render("")

	assert.Equal(t, state.SectionPopulated, st.Roster.Section)
	assert.Len(t, st.Roster.Items, 2)
	assert.Equal(t, "2", st.Stats.Total.Display())
	assert.Equal(t, "1", st.Stats.Active.Display())
	assert.Equal(t, "2", st.Stats.Departments.Display())
	assert.Equal(t, "7.46", st.AverageGPA.Value.Display())
	assert.Equal(t, state.PhaseClosed, st.Dialogs.Add.Phase)
}

func TestStudentsSearchMatchesNameIDAndEmail(t *testing.T) {
	v, _ := mountedStudents(t, newInstitution())

	assert.Len(t, v.Render("ASHA").Roster.Items, 1)
	assert.Len(t, v.Render("stu2").Roster.Items, 1)
	assert.Len(t, v.Render("campus.edu").Roster.Items, 2)
	assert.Empty(t, v.Render("nobody").Roster.Items)
	assert.Equal(t, 2, v.Render("nobody").Roster.Total)
}

func TestAddStudentAppearsOnceWithDefaultStatus(t *testing.T) {
	fake := newInstitution()
	v, audit := mountedStudents(t, fake)
	ctx := context.Background()

	require.NoError(t, v.OpenDialog(ctx, DialogAdd, ""))
	require.NoError(t, v.PatchDialog(DialogAdd, []byte(`{"student_id":"STU2025001","first_name":"Ria","last_name":"Shah","email":"ria@campus.edu","department":"CMPN","current_year":"1"}`)))
	require.NoError(t, v.SubmitDialog(ctx, DialogAdd))

	st := v.Render("")
	assert.Equal(t, state.PhaseClosed, st.Dialogs.Add.Phase)
	var matches []models.Student
	for _, s := range st.Roster.Items {
		if s.StudentID == "STU2025001" {
			matches = append(matches, s)
		}
	}
	require.Len(t, matches, 1)
	assert.Equal(t, models.DepartmentCMPN, matches[0].Department)
	assert.Equal(t, 1, matches[0].CurrentYear.Int())
	assert.Equal(t, models.StudentActive, matches[0].Status)
	assert.Equal(t, 2, fake.count(backend.RouteStudents))
	assert.Equal(t, "Student STU2025001 added", st.Notice)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionStudentCreate, audit.entries[0].action)
}

func TestAddStudentMissingFieldsStaysOpen(t *testing.T) {
	fake := newInstitution()
	v, _ := mountedStudents(t, fake)
	ctx := context.Background()

	require.NoError(t, v.OpenDialog(ctx, DialogAdd, ""))
	require.NoError(t, v.PatchDialog(DialogAdd, []byte(`{"student_id":"STU9"}`)))
	err := v.SubmitDialog(ctx, DialogAdd)

	require.Error(t, err)
	st := v.Render("")
	assert.Equal(t, state.PhaseOpen, st.Dialogs.Add.Phase)
	assert.Contains(t, st.Dialogs.Add.Error, "first_name")
	assert.Equal(t, "STU9", st.Dialogs.Add.Draft.StudentID)
	assert.Equal(t, 0, fake.count("POST "+backend.RouteStudents))
}

func TestDeleteRejectedKeepsListAndMessage(t *testing.T) {
	fake := newInstitution()
	fake.fail("DELETE "+backend.RouteStudent, http.StatusBadRequest, "cannot delete student with existing enrollment records")
	v, audit := mountedStudents(t, fake)
	ctx := context.Background()

	require.NoError(t, v.OpenDialog(ctx, DialogDelete, "STU1"))
	err := v.SubmitDialog(ctx, DialogDelete)

	require.Error(t, err)
	st := v.Render("")
	assert.Equal(t, state.PhaseOpen, st.Dialogs.Delete.Phase)
	assert.Equal(t, "cannot delete student with existing enrollment records", st.Dialogs.Delete.Error)
	assert.Len(t, st.Roster.Items, 2)
	assert.Equal(t, 1, fake.count(backend.RouteStudents))
	assert.Empty(t, audit.entries)
}

func TestDeleteStudentRefreshesRoster(t *testing.T) {
	v, _ := mountedStudents(t, newInstitution())
	ctx := context.Background()

	require.NoError(t, v.OpenDialog(ctx, DialogDelete, "STU2"))
	assert.Equal(t, "Ben Lee", v.Render("").Dialogs.Delete.Draft.Label)
	require.NoError(t, v.SubmitDialog(ctx, DialogDelete))

	st := v.Render("")
	require.Len(t, st.Roster.Items, 1)
	assert.Equal(t, "STU1", st.Roster.Items[0].StudentID)
}

func TestEditStudentPinsKey(t *testing.T) {
	v, _ := mountedStudents(t, newInstitution())
	ctx := context.Background()

	require.NoError(t, v.OpenDialog(ctx, DialogEdit, "STU1"))
	require.NoError(t, v.PatchDialog(DialogEdit, []byte(`{"student_id":"HIJACK","first_name":"Ashwini"}`)))
	draft := v.Render("").Dialogs.Edit.Draft
	require.NotNil(t, draft)
	assert.Equal(t, "STU1", draft.StudentID)

	require.NoError(t, v.SubmitDialog(ctx, DialogEdit))

	s, ok := v.roster.Find(func(s models.Student) bool { return s.StudentID == "STU1" })
	require.True(t, ok)
	assert.Equal(t, "Ashwini", s.FirstName)
}

func TestOpenDialogForUnknownStudent(t *testing.T) {
	v, _ := mountedStudents(t, newInstitution())

	err := v.OpenDialog(context.Background(), DialogEdit, "NOPE")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))

	err = v.OpenDialog(context.Background(), "archive", "")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))
}

func TestRefreshFailureKeepsStaleRoster(t *testing.T) {
	fake := newInstitution()
	v, _ := mountedStudents(t, fake)

	fake.fail(backend.RouteStudents, http.StatusInternalServerError, "database unavailable")
	v.Refresh(context.Background())

	st := v.Render("")
	assert.Len(t, st.Roster.Items, 2)
	assert.Equal(t, "database unavailable", st.Roster.Error)
	assert.Equal(t, state.SectionPopulated, st.Roster.Section)
}

func TestRefreshTwiceYieldsSameRoster(t *testing.T) {
	v, _ := mountedStudents(t, newInstitution())
	ctx := context.Background()

	v.Refresh(ctx)
	first := v.Render("").Roster.Items
	v.Refresh(ctx)
	second := v.Render("").Roster.Items

	assert.Equal(t, first, second)
}

func TestAverageGPAFailureDoesNotBlockRoster(t *testing.T) {
	fake := newInstitution()
	fake.fail(backend.RouteAverageGPA, http.StatusInternalServerError, "stats offline")
	v, _ := mountedStudents(t, fake)

	st := v.Render("")

	assert.Equal(t, state.SectionError, st.AverageGPA.Section)
	assert.Equal(t, "stats offline", st.AverageGPA.Error)
	assert.Equal(t, state.NoData, st.AverageGPA.Value.Display())
	assert.Equal(t, state.SectionPopulated, st.Roster.Section)
}

func TestUnmountedViewIgnoresRefresh(t *testing.T) {
	fake := newInstitution()
	v, _ := mountedStudents(t, fake)

	v.Unmount()
	v.Refresh(context.Background())

	assert.Equal(t, 1, fake.count(backend.RouteStudents))
}
