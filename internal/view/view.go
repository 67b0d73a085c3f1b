package view

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/state"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
)

// View names used in routes and the workspace registry.
const (
	NameAdminHome        = "admin-home"
	NameStudents         = "students"
	NameCourses          = "courses"
	NameReports          = "reports"
	NameStudentDashboard = "student-dashboard"
)

// Dialog names hosted by the management views.
const (
	DialogAdd    = "add"
	DialogEdit   = "edit"
	DialogDelete = "delete"
	DialogEnroll = "enroll"
)

// Backend is the part of the institution API the views talk to.
type Backend interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	CreateStudent(ctx context.Context, draft models.StudentDraft) (*models.Student, error)
	UpdateStudent(ctx context.Context, id string, draft models.StudentDraft) (*models.Student, error)
	DeleteStudent(ctx context.Context, id string) (*models.Message, error)
	StudentDetail(ctx context.Context, id string) (*models.StudentDetail, error)
	AverageGPA(ctx context.Context) (*models.AverageGPA, error)
	AdminDashboardStats(ctx context.Context) (*models.AdminStats, error)
	CoursesOverview(ctx context.Context) (*models.CoursesOverview, error)
	CreateCourse(ctx context.Context, draft models.CourseDraft) (*models.Course, error)
	UpdateCourse(ctx context.Context, id string, draft models.CourseDraft) (*models.Course, error)
	DeleteCourse(ctx context.Context, id string) (*models.Message, error)
	EnrollmentData(ctx context.Context) (*models.EnrollmentData, error)
	CreateEnrollment(ctx context.Context, draft models.EnrollmentDraft) (*models.Message, error)
	CurrentGrades(ctx context.Context, studentID string) (*models.GradeReport, error)
	CurrentAttendance(ctx context.Context, studentID string) (*models.AttendanceReport, error)
	ReportsData(ctx context.Context) (*models.ReportData, error)
}

// Auditor records successful operator mutations.
type Auditor interface {
	Record(ctx context.Context, action, resource, resourceID string, values interface{})
}

// Deps are shared by every view of a workspace.
type Deps struct {
	Backend   Backend
	Auditor   Auditor
	Observer  state.SubmitObserver
	Validator *validator.Validate
	Logger    *zap.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Validator == nil {
		d.Validator = state.NewValidator()
	}
	return d
}

func (d Deps) audit(ctx context.Context, action, resource, id string, values interface{}) {
	if d.Auditor != nil {
		d.Auditor.Record(ctx, action, resource, id, values)
	}
}

// View is a mounted page.
type View interface {
	Name() string
	// Mount loads every section the first time it is called. Section failures are
	// kept in their own error slots and never fail the mount.
	Mount(ctx context.Context)
	Unmount()
}

// DialogHost is implemented by views that host dialogs.
type DialogHost interface {
	OpenDialog(ctx context.Context, name, id string) error
	PatchDialog(name string, raw []byte) error
	SubmitDialog(ctx context.Context, name string) error
	CancelDialog(name string) error
}

// Refresher is implemented by views with an explicit refresh action.
type Refresher interface {
	Refresh(ctx context.Context)
}

// loadAll runs section loaders concurrently and waits for all of them.
func loadAll(ctx context.Context, loaders ...func(context.Context) error) {
	var wg sync.WaitGroup
	for _, load := range loaders {
		wg.Add(1)
		go func(load func(context.Context) error) {
			defer wg.Done()
			_ = load(ctx)
		}(load)
	}
	wg.Wait()
}

func unknownDialog(name string) error {
	return appErrors.Clone(appErrors.ErrNotFound, "unknown dialog "+name)
}

// notice is a one-shot success message shown after a mutation.
type notice struct {
	mu  sync.Mutex
	msg string
}

func (n *notice) set(msg string) {
	n.mu.Lock()
	n.msg = msg
	n.mu.Unlock()
}

func (n *notice) get() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.msg
}

// StatSection is an aggregate section backed by a single remote value.
type StatSection struct {
	state.Meta
	Section state.Section `json:"section"`
	Value   state.Stat    `json:"value"`
}

func statSection[T any](r *state.Resource[T], value func(T) state.Stat) StatSection {
	snap := r.Snapshot()
	out := StatSection{Meta: snap.Meta, Section: snap.Section, Value: state.Stat{}}
	if snap.Data != nil {
		out.Value = value(*snap.Data)
	}
	return out
}
