package view

import (
	"context"

	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/state"
)

// ReportsView shows the analytics aggregates next to the student roster. The two
// sections load and fail independently.
type ReportsView struct {
	report *state.Resource[models.ReportData]
	roster *state.Synchronizer[models.Student]
}

// NewReportsView constructs an unmounted view.
func NewReportsView(deps Deps) *ReportsView {
	deps = deps.withDefaults()
	return &ReportsView{
		report: state.NewResource("reports.data", func(ctx context.Context) (models.ReportData, error) {
			data, err := deps.Backend.ReportsData(ctx)
			if err != nil {
				return models.ReportData{}, err
			}
			return *data, nil
		}, nil, deps.Logger),
		roster: state.NewSynchronizer("reports.roster", deps.Backend.ListStudents, matchStudent, deps.Logger),
	}
}

func (v *ReportsView) Name() string { return NameReports }

func (v *ReportsView) Mount(ctx context.Context) {
	loadAll(ctx, v.report.Mount, v.roster.Mount)
}

func (v *ReportsView) Unmount() {
	v.report.Unmount()
	v.roster.Unmount()
}

// Refresh reloads both sections.
func (v *ReportsView) Refresh(ctx context.Context) {
	loadAll(ctx, v.report.Refresh, v.roster.Refresh)
}

// Data returns the last loaded report, for export.
func (v *ReportsView) Data() (models.ReportData, bool) { return v.report.Value() }

// ReportSummary is the headline block of the reports page.
type ReportSummary struct {
	TotalEnrollment   state.Stat `json:"totalEnrollment"`
	ActiveCourses     state.Stat `json:"activeCourses"`
	AverageAttendance state.Stat `json:"averageAttendance"`
	AverageGPA        state.Stat `json:"averageGpa"`
}

// ReportSection is the rendered analytics section.
type ReportSection struct {
	state.Meta
	Section                 state.Section                  `json:"section"`
	Summary                 *ReportSummary                 `json:"summary,omitempty"`
	EnrollmentTrend         []models.EnrollmentTrendPoint  `json:"enrollmentTrend,omitempty"`
	WeeklyAttendance        []models.WeeklyAttendancePoint `json:"weeklyAttendance,omitempty"`
	DepartmentDistribution  []models.DepartmentShare       `json:"departmentDistribution,omitempty"`
	PerformanceDistribution []models.PerformanceBucket     `json:"performanceDistribution,omitempty"`
}

// ReportsState is the rendered page.
type ReportsState struct {
	Report ReportSection                   `json:"report"`
	Roster state.ListState[models.Student] `json:"roster"`
}

// Render builds the snapshot.
func (v *ReportsView) Render(query string) ReportsState {
	snap := v.report.Snapshot()
	section := ReportSection{Meta: snap.Meta, Section: snap.Section}
	if d := snap.Data; d != nil {
		section.Summary = &ReportSummary{
			TotalEnrollment:   state.Int(d.KeyMetrics.TotalEnrollment.Int()),
			ActiveCourses:     state.Int(d.KeyMetrics.ActiveCourses.Int()),
			AverageAttendance: state.FromMetric(d.KeyMetrics.AverageAttendance, 1),
			AverageGPA:        state.FromMetric(d.KeyMetrics.AverageGPA, 2),
		}
		section.EnrollmentTrend = d.EnrollmentTrend
		section.WeeklyAttendance = d.WeeklyAttendance
		section.DepartmentDistribution = d.DepartmentDistribution
		section.PerformanceDistribution = d.PerformanceDistribution
	}
	return ReportsState{Report: section, Roster: v.roster.Snapshot(query)}
}
