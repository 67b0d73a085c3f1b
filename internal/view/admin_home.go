package view

import (
	"context"

	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/state"
)

// AdminHomeView is the admin landing page.
type AdminHomeView struct {
	stats *state.Resource[models.AdminStats]
}

// NewAdminHomeView constructs an unmounted view.
func NewAdminHomeView(deps Deps) *AdminHomeView {
	deps = deps.withDefaults()
	return &AdminHomeView{
		stats: state.NewResource("admin.stats", func(ctx context.Context) (models.AdminStats, error) {
			stats, err := deps.Backend.AdminDashboardStats(ctx)
			if err != nil {
				return models.AdminStats{}, err
			}
			return *stats, nil
		}, nil, deps.Logger),
	}
}

func (v *AdminHomeView) Name() string { return NameAdminHome }

func (v *AdminHomeView) Mount(ctx context.Context) { _ = v.stats.Mount(ctx) }

func (v *AdminHomeView) Unmount() { v.stats.Unmount() }

// Refresh reloads the stats.
func (v *AdminHomeView) Refresh(ctx context.Context) { _ = v.stats.Refresh(ctx) }

// AdminHomeState is the rendered admin home.
type AdminHomeState struct {
	state.Meta
	Section           state.Section `json:"section"`
	TotalStudents     state.Stat    `json:"totalStudents"`
	ActiveCourses     state.Stat    `json:"activeCourses"`
	FacultyMembers    state.Stat    `json:"facultyMembers"`
	AverageAttendance state.Stat    `json:"averageAttendance"`
}

// Render builds the snapshot.
func (v *AdminHomeView) Render() AdminHomeState {
	snap := v.stats.Snapshot()
	out := AdminHomeState{Meta: snap.Meta, Section: snap.Section}
	if snap.Data != nil {
		out.TotalStudents = state.Int(snap.Data.TotalStudents.Int())
		out.ActiveCourses = state.Int(snap.Data.ActiveCourses.Int())
		out.FacultyMembers = state.Int(snap.Data.FacultyMembers.Int())
		out.AverageAttendance = state.FromMetric(snap.Data.AverageAttendance, 1)
	}
	return out
}
