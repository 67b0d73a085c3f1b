package backend

import (
	"context"
	"net/url"

	"github.com/noah-isme/campus-console/internal/models"
)

// Requester is the transport used by Client; *apiclient.Client satisfies it.
type Requester interface {
	Get(ctx context.Context, route, path string, out interface{}) error
	Post(ctx context.Context, route, path string, body, out interface{}) error
	Put(ctx context.Context, route, path string, body, out interface{}) error
	Delete(ctx context.Context, route, path string, out interface{}) error
}

// Route templates of the institution backend.
const (
	RouteLogin             = "/api/login"
	RouteStudents          = "/api/students"
	RouteStudent           = "/api/students/{id}"
	RouteAverageGPA        = "/api/stats/average-gpa"
	RouteAdminStats        = "/api/admin/dashboard-stats"
	RouteCoursesOverview   = "/api/admin/courses-overview"
	RouteCourses           = "/api/courses"
	RouteCourse            = "/api/courses/{id}"
	RouteEnrollmentData    = "/api/enrollment-data"
	RouteEnrollments       = "/api/enrollments"
	RouteCurrentGrades     = "/api/grades/{studentId}/current"
	RouteCurrentAttendance = "/api/attendance/{studentId}/current"
	RouteReportsData       = "/api/admin/reports-data"
)

// Client binds the backend REST contract to typed calls.
type Client struct {
	r Requester
}

// New wraps a Requester.
func New(r Requester) *Client {
	return &Client{r: r}
}

func seg(v string) string { return url.PathEscape(v) }

// Login authenticates by id, password and role and returns the opaque user object.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.r.Post(ctx, RouteLogin, RouteLogin, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListStudents returns every student.
func (c *Client) ListStudents(ctx context.Context) ([]models.Student, error) {
	var out []models.Student
	if err := c.r.Get(ctx, RouteStudents, RouteStudents, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateStudent posts a new student. Status is omitted when empty so the backend default applies.
func (c *Client) CreateStudent(ctx context.Context, draft models.StudentDraft) (*models.Student, error) {
	var out models.Student
	if err := c.r.Post(ctx, RouteStudents, RouteStudents, draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStudent replaces the editable fields of a student.
func (c *Client) UpdateStudent(ctx context.Context, id string, draft models.StudentDraft) (*models.Student, error) {
	var out models.Student
	if err := c.r.Put(ctx, RouteStudent, RouteStudents+"/"+seg(id), draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStudent removes a student. The backend refuses when dependent records exist.
func (c *Client) DeleteStudent(ctx context.Context, id string) (*models.Message, error) {
	var out models.Message
	if err := c.r.Delete(ctx, RouteStudent, RouteStudents+"/"+seg(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StudentDetail returns a student with the current SGPA.
func (c *Client) StudentDetail(ctx context.Context, id string) (*models.StudentDetail, error) {
	var out models.StudentDetail
	if err := c.r.Get(ctx, RouteStudent, RouteStudents+"/"+seg(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AverageGPA returns the institution-wide average SGPA.
func (c *Client) AverageGPA(ctx context.Context) (*models.AverageGPA, error) {
	var out models.AverageGPA
	if err := c.r.Get(ctx, RouteAverageGPA, RouteAverageGPA, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminDashboardStats returns the admin home counters.
func (c *Client) AdminDashboardStats(ctx context.Context) (*models.AdminStats, error) {
	var out models.AdminStats
	if err := c.r.Get(ctx, RouteAdminStats, RouteAdminStats, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CoursesOverview returns the course list with server-side stats.
func (c *Client) CoursesOverview(ctx context.Context) (*models.CoursesOverview, error) {
	var out models.CoursesOverview
	if err := c.r.Get(ctx, RouteCoursesOverview, RouteCoursesOverview, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCourse posts a new course.
func (c *Client) CreateCourse(ctx context.Context, draft models.CourseDraft) (*models.Course, error) {
	var out models.Course
	if err := c.r.Post(ctx, RouteCourses, RouteCourses, draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCourse updates a course. The course id in the path is authoritative.
func (c *Client) UpdateCourse(ctx context.Context, id string, draft models.CourseDraft) (*models.Course, error) {
	draft.CourseID = id
	var out models.Course
	if err := c.r.Put(ctx, RouteCourse, RouteCourses+"/"+seg(id), draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCourse removes a course.
func (c *Client) DeleteCourse(ctx context.Context, id string) (*models.Message, error) {
	var out models.Message
	if err := c.r.Delete(ctx, RouteCourse, RouteCourses+"/"+seg(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnrollmentData returns courses and semesters for the enrollment dialog.
func (c *Client) EnrollmentData(ctx context.Context) (*models.EnrollmentData, error) {
	var out models.EnrollmentData
	if err := c.r.Get(ctx, RouteEnrollmentData, RouteEnrollmentData, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEnrollment enrolls a student in a course for a semester.
func (c *Client) CreateEnrollment(ctx context.Context, draft models.EnrollmentDraft) (*models.Message, error) {
	var out models.Message
	if err := c.r.Post(ctx, RouteEnrollments, RouteEnrollments, draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentGrades returns the grade view of a student.
func (c *Client) CurrentGrades(ctx context.Context, studentID string) (*models.GradeReport, error) {
	var out models.GradeReport
	if err := c.r.Get(ctx, RouteCurrentGrades, "/api/grades/"+seg(studentID)+"/current", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentAttendance returns the attendance view of a student.
func (c *Client) CurrentAttendance(ctx context.Context, studentID string) (*models.AttendanceReport, error) {
	var out models.AttendanceReport
	if err := c.r.Get(ctx, RouteCurrentAttendance, "/api/attendance/"+seg(studentID)+"/current", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReportsData returns the analytics aggregates.
func (c *Client) ReportsData(ctx context.Context) (*models.ReportData, error) {
	var out models.ReportData
	if err := c.r.Get(ctx, RouteReportsData, RouteReportsData, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
