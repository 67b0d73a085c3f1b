package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/state"
)

func TestCoursesRenderServerAndLocalStats(t *testing.T) {
	v := NewCourseManagementView(newInstitution().deps(t))
	v.Mount(context.Background())

	st := v.Render("")

	assert.Len(t, st.Courses.Items, 2)
	assert.Equal(t, "2", st.Stats.Total.Display())
	assert.Equal(t, "1", st.Stats.Active.Display())
	assert.Equal(t, "45", st.Stats.TotalEnrollment.Display())
	assert.Equal(t, "22.5", st.Stats.AverageClassSize.Display())
	require.NotNil(t, st.ServerStats)
	assert.Equal(t, "22.5", st.ServerStats.AverageClassSize.Display())
}

func TestCoursesSearchByInstructor(t *testing.T) {
	v := NewCourseManagementView(newInstitution().deps(t))
	v.Mount(context.Background())

	items := v.Render("khan").Courses.Items

	require.Len(t, items, 1)
	assert.Equal(t, "IT201", items[0].CourseID)
}

func TestCoursesEmptyAverageIsNoData(t *testing.T) {
	fake := newInstitution()
	fake.courses = nil
	v := NewCourseManagementView(fake.deps(t))
	v.Mount(context.Background())

	st := v.Render("")

	assert.Equal(t, state.SectionEmpty, st.Courses.Section)
	assert.Equal(t, "0", st.Stats.Total.Display())
	assert.Equal(t, state.NoData, st.Stats.AverageClassSize.Display())
}

func TestCourseCreateThenEdit(t *testing.T) {
	v := NewCourseManagementView(newInstitution().deps(t))
	ctx := context.Background()
	v.Mount(ctx)

	require.NoError(t, v.OpenDialog(ctx, DialogAdd, ""))
	assert.Equal(t, models.CourseActive, v.Render("").Dialogs.Add.Draft.Status)
	require.NoError(t, v.PatchDialog(DialogAdd, []byte(`{"course_id":"EX301","course_name":"Signals","credit_hours":"3","faculty_name":"Dr. Rao","department":"EXTC"}`)))
	require.NoError(t, v.SubmitDialog(ctx, DialogAdd))
	assert.Len(t, v.Render("").Courses.Items, 3)

	require.NoError(t, v.OpenDialog(ctx, DialogEdit, "EX301"))
	require.NoError(t, v.PatchDialog(DialogEdit, []byte(`{"course_id":"XX","course_name":"Signals and Systems"}`)))
	require.NoError(t, v.SubmitDialog(ctx, DialogEdit))

	items := v.Render("signals").Courses.Items
	require.Len(t, items, 1)
	assert.Equal(t, "EX301", items[0].CourseID)
	assert.Equal(t, "Signals and Systems", items[0].CourseName)
}

func TestCourseCancelDiscardsDraft(t *testing.T) {
	v := NewCourseManagementView(newInstitution().deps(t))
	ctx := context.Background()
	v.Mount(ctx)

	require.NoError(t, v.OpenDialog(ctx, DialogDelete, "CS101"))
	require.NoError(t, v.CancelDialog(DialogDelete))

	st := v.Render("")
	assert.Equal(t, state.PhaseClosed, st.Dialogs.Delete.Phase)
	assert.Nil(t, st.Dialogs.Delete.Draft)
	assert.Len(t, st.Courses.Items, 2)
}

// gatedOverview holds every courses-overview call until the test replies to it.
type gatedOverview struct {
	Backend
	started chan chan *models.CoursesOverview
}

func (g *gatedOverview) CoursesOverview(context.Context) (*models.CoursesOverview, error) {
	reply := make(chan *models.CoursesOverview)
	g.started <- reply
	return <-reply, nil
}

func gatedCourses(t *testing.T) (*CourseManagementView, *gatedOverview) {
	t.Helper()
	deps := newInstitution().deps(t)
	gate := &gatedOverview{Backend: deps.Backend, started: make(chan chan *models.CoursesOverview)}
	deps.Backend = gate
	return NewCourseManagementView(deps), gate
}

func overviewOf(ids ...string) *models.CoursesOverview {
	out := &models.CoursesOverview{Stats: models.CourseOverviewStats{TotalCourses: models.FlexInt(len(ids))}}
	for _, id := range ids {
		out.Courses = append(out.Courses, models.Course{CourseID: id, CourseName: id, Status: models.CourseActive})
	}
	return out
}

func TestCoursesOverviewAfterUnmountIsDropped(t *testing.T) {
	v, gate := gatedCourses(t)
	done := make(chan struct{})
	go func() {
		v.Mount(context.Background())
		close(done)
	}()
	reply := <-gate.started
	v.Unmount()
	reply <- overviewOf("CS101", "IT201", "EX301")
	<-done

	st := v.Render("")

	assert.Nil(t, st.ServerStats)
	assert.Empty(t, st.Courses.Items)
	assert.Equal(t, 0, st.Courses.Total)
}

func TestCoursesOverviewLastResolveWinsForListAndStats(t *testing.T) {
	v, gate := gatedCourses(t)
	ctx := context.Background()
	first, second := make(chan struct{}), make(chan struct{})

	go func() {
		v.Refresh(ctx)
		close(first)
	}()
	older := <-gate.started
	go func() {
		v.Refresh(ctx)
		close(second)
	}()
	newer := <-gate.started

	newer <- overviewOf("CS101", "IT201", "EX301")
	<-second
	older <- overviewOf("CS101")
	<-first

	st := v.Render("")

	require.NotNil(t, st.ServerStats)
	assert.Equal(t, 1, st.Courses.Total)
	assert.Equal(t, "1", st.ServerStats.Total.Display())
	assert.Equal(t, "1", st.Stats.Total.Display())
}
