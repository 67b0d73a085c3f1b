package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-console/internal/middleware"
	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/service"
	"github.com/noah-isme/campus-console/internal/session"
	"github.com/noah-isme/campus-console/internal/view"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

// stubBackend is an in-memory institution backend.
type stubBackend struct {
	mu        sync.Mutex
	students  []models.Student
	courses   []models.Course
	report    models.ReportData
	updateErr error
	reportErr error
	updated   []models.StudentDraft
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		students: []models.Student{
			{StudentID: "STU2025001", FirstName: "Ria", LastName: "Shah", Email: "ria@campus.test", Department: models.DepartmentIT, CurrentYear: 2, Status: models.StudentActive},
			{StudentID: "STU2025002", FirstName: "Omar", LastName: "Khan", Email: "omar@campus.test", Department: models.DepartmentCMPN, CurrentYear: 3, Status: models.StudentInactive},
		},
		courses: []models.Course{
			{CourseID: "CS101", CourseName: "Data Structures", CreditHours: 4, FacultyName: "Dr. Rao", Department: models.DepartmentCMPN, Status: models.CourseActive, EnrollmentCount: 30},
		},
		report: models.ReportData{
			KeyMetrics: models.ReportKeyMetrics{TotalEnrollment: 120, ActiveCourses: 8, AverageAttendance: models.NewMetric(91.5), AverageGPA: models.NewMetric(8.1)},
			DepartmentDistribution: []models.DepartmentShare{{Name: models.DepartmentIT, Value: 60}},
		},
	}
}

func (b *stubBackend) ListStudents(context.Context) ([]models.Student, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Student(nil), b.students...), nil
}

func (b *stubBackend) CreateStudent(_ context.Context, draft models.StudentDraft) (*models.Student, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := models.Student{StudentID: draft.StudentID, FirstName: draft.FirstName, LastName: draft.LastName, Email: draft.Email, Department: draft.Department, CurrentYear: draft.CurrentYear, Status: models.StudentActive}
	b.students = append(b.students, s)
	return &s, nil
}

func (b *stubBackend) UpdateStudent(_ context.Context, id string, draft models.StudentDraft) (*models.Student, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.updateErr != nil {
		return nil, b.updateErr
	}
	b.updated = append(b.updated, draft)
	for i := range b.students {
		if b.students[i].StudentID == id {
			b.students[i].Email = draft.Email
			s := b.students[i]
			return &s, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrRemote, "student not found")
}

func (b *stubBackend) DeleteStudent(context.Context, string) (*models.Message, error) {
	return &models.Message{Message: "Student deleted"}, nil
}

func (b *stubBackend) StudentDetail(_ context.Context, id string) (*models.StudentDetail, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.students {
		if s.StudentID == id {
			return &models.StudentDetail{Student: s, SGPA: models.NewMetric(8.4)}, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrRemote, "student not found")
}

func (b *stubBackend) AverageGPA(context.Context) (*models.AverageGPA, error) {
	return &models.AverageGPA{AverageSGPA: models.NewMetric(7.95)}, nil
}

func (b *stubBackend) AdminDashboardStats(context.Context) (*models.AdminStats, error) {
	return &models.AdminStats{TotalStudents: 2, ActiveCourses: 1, FacultyMembers: 4, AverageAttendance: models.NewMetric(88.26)}, nil
}

func (b *stubBackend) CoursesOverview(context.Context) (*models.CoursesOverview, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return &models.CoursesOverview{Courses: append([]models.Course(nil), b.courses...)}, nil
}

func (b *stubBackend) CreateCourse(_ context.Context, draft models.CourseDraft) (*models.Course, error) {
	c := models.Course{CourseID: draft.CourseID, CourseName: draft.CourseName}
	return &c, nil
}

func (b *stubBackend) UpdateCourse(_ context.Context, id string, draft models.CourseDraft) (*models.Course, error) {
	c := models.Course{CourseID: id, CourseName: draft.CourseName}
	return &c, nil
}

func (b *stubBackend) DeleteCourse(context.Context, string) (*models.Message, error) {
	return &models.Message{Message: "Course deleted"}, nil
}

func (b *stubBackend) EnrollmentData(context.Context) (*models.EnrollmentData, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return &models.EnrollmentData{
		Courses:   append([]models.Course(nil), b.courses...),
		Semesters: []models.Semester{{SemesterID: 3, SemesterName: "Semester 3"}, {SemesterID: 4, SemesterName: "Semester 4"}},
	}, nil
}

func (b *stubBackend) CreateEnrollment(context.Context, models.EnrollmentDraft) (*models.Message, error) {
	return &models.Message{Message: "Enrolled"}, nil
}

func (b *stubBackend) CurrentGrades(context.Context, string) (*models.GradeReport, error) {
	return &models.GradeReport{}, nil
}

func (b *stubBackend) CurrentAttendance(context.Context, string) (*models.AttendanceReport, error) {
	return &models.AttendanceReport{}, nil
}

func (b *stubBackend) ReportsData(context.Context) (*models.ReportData, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.reportErr != nil {
		return nil, b.reportErr
	}
	r := b.report
	return &r, nil
}

func newWorkspaces(backend *stubBackend) *service.WorkspaceService {
	return service.NewWorkspaceService(view.Deps{Backend: backend}, nil)
}

func adminUser(t *testing.T) *session.User {
	t.Helper()
	u, err := session.NewUser(models.RoleAdmin, json.RawMessage(`{"admin_id":"ADM001","name":"Meera Iyer"}`))
	require.NoError(t, err)
	return u
}

func studentUser(t *testing.T) *session.User {
	t.Helper()
	u, err := session.NewUser(models.RoleStudent, json.RawMessage(`{"student_id":"STU2025001","first_name":"Ria","last_name":"Shah"}`))
	require.NoError(t, err)
	return u
}

// newContext builds a gin test context carrying user the way the session middleware does.
func newContext(method, target, body string, user *session.User) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req = req.WithContext(session.WithContext(req.Context(), user))
		c.Set(middleware.ContextUserKey, user)
	}
	c.Request = req
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func contextFor(t *testing.T, user *session.User) context.Context {
	t.Helper()
	return session.WithContext(context.Background(), user)
}
