package view

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-console/internal/backend"
	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/pkg/apiclient"
)

type failure struct {
	status  int
	message string
}

// institution is an in-memory stand-in for the institution backend.
type institution struct {
	mu        sync.Mutex
	students  []models.Student
	courses   []models.Course
	semesters []models.Semester
	enrolled  []models.EnrollmentDraft
	failures  map[string]failure
	calls     map[string]int
}

func newInstitution() *institution {
	semesters := make([]models.Semester, 0, 8)
	for i := 1; i <= 8; i++ {
		semesters = append(semesters, models.Semester{SemesterID: i, SemesterName: "Semester " + string(rune('0'+i))})
	}
	return &institution{
		students: []models.Student{
			{StudentID: "STU1", FirstName: "Asha", LastName: "Rao", Email: "asha@campus.edu", Department: models.DepartmentIT, CurrentYear: 3, Status: models.StudentActive},
			{StudentID: "STU2", FirstName: "Ben", LastName: "Lee", Email: "ben@campus.edu", Department: models.DepartmentEXTC, CurrentYear: 1, Status: models.StudentInactive},
		},
		courses: []models.Course{
			{CourseID: "CS101", CourseName: "Programming", CreditHours: 4, FacultyName: "Dr. Iyer", Department: models.DepartmentCMPN, Status: models.CourseActive, EnrollmentCount: 30},
			{CourseID: "IT201", CourseName: "Networks", CreditHours: 3, FacultyName: "Dr. Khan", Department: models.DepartmentIT, Status: models.CourseInactive, EnrollmentCount: 15},
		},
		semesters: semesters,
		failures:  map[string]failure{},
		calls:     map[string]int{},
	}
}

func (f *institution) fail(route string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[route] = failure{status: status, message: message}
}

func (f *institution) enrollments() []models.EnrollmentDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.EnrollmentDraft(nil), f.enrolled...)
}

func (f *institution) count(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

// guard records the call and aborts with the configured failure, if any.
func (f *institution) guard(route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		f.mu.Lock()
		f.calls[route]++
		fail, ok := f.failures[route]
		f.mu.Unlock()
		if ok {
			c.AbortWithStatusJSON(fail.status, gin.H{"message": fail.message})
			return
		}
		c.Next()
	}
}

func (f *institution) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/api/students", f.guard(backend.RouteStudents), func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		c.JSON(http.StatusOK, f.students)
	})
	r.POST("/api/students", f.guard("POST "+backend.RouteStudents), func(c *gin.Context) {
		var draft models.StudentDraft
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status := draft.Status
		if status == "" {
			status = models.StudentActive
		}
		s := models.Student{StudentID: draft.StudentID, FirstName: draft.FirstName, LastName: draft.LastName, Email: draft.Email, Department: draft.Department, CurrentYear: draft.CurrentYear, Status: status}
		f.mu.Lock()
		f.students = append(f.students, s)
		f.mu.Unlock()
		c.JSON(http.StatusCreated, s)
	})
	r.PUT("/api/students/:id", f.guard("PUT "+backend.RouteStudent), func(c *gin.Context) {
		var draft models.StudentDraft
		_ = c.ShouldBindJSON(&draft)
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.students {
			if f.students[i].StudentID == c.Param("id") {
				f.students[i].FirstName = draft.FirstName
				f.students[i].LastName = draft.LastName
				f.students[i].Email = draft.Email
				f.students[i].Department = draft.Department
				f.students[i].CurrentYear = draft.CurrentYear
				if draft.Status != "" {
					f.students[i].Status = draft.Status
				}
				c.JSON(http.StatusOK, f.students[i])
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "student not found"})
	})
	r.DELETE("/api/students/:id", f.guard("DELETE "+backend.RouteStudent), func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		kept := f.students[:0]
		for _, s := range f.students {
			if s.StudentID != c.Param("id") {
				kept = append(kept, s)
			}
		}
		f.students = kept
		c.JSON(http.StatusOK, gin.H{"message": "Student deleted"})
	})
	r.GET("/api/students/:id", f.guard(backend.RouteStudent), func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, s := range f.students {
			if s.StudentID == c.Param("id") {
				c.JSON(http.StatusOK, gin.H{"student": s, "sgpa": "8.25"})
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "student not found"})
	})
	r.GET("/api/stats/average-gpa", f.guard(backend.RouteAverageGPA), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"averageSgpa": 7.456})
	})
	r.GET("/api/admin/dashboard-stats", f.guard(backend.RouteAdminStats), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"totalStudents": 2, "activeCourses": "1", "facultyMembers": 12, "averageAttendance": "87.5%"})
	})
	r.GET("/api/admin/courses-overview", f.guard(backend.RouteCoursesOverview), func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{
			"stats":   gin.H{"totalCourses": len(f.courses), "activeCourses": 1, "totalEnrollment": 45, "avgClassSize": 22.5},
			"courses": f.courses,
		})
	})
	r.POST("/api/courses", f.guard("POST "+backend.RouteCourses), func(c *gin.Context) {
		var draft models.CourseDraft
		_ = c.ShouldBindJSON(&draft)
		course := models.Course{CourseID: draft.CourseID, CourseName: draft.CourseName, CreditHours: draft.CreditHours, FacultyName: draft.FacultyName, Department: draft.Department, Schedule: draft.Schedule, Status: draft.Status}
		f.mu.Lock()
		f.courses = append(f.courses, course)
		f.mu.Unlock()
		c.JSON(http.StatusCreated, course)
	})
	r.PUT("/api/courses/:id", f.guard("PUT "+backend.RouteCourse), func(c *gin.Context) {
		var draft models.CourseDraft
		_ = c.ShouldBindJSON(&draft)
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.courses {
			if f.courses[i].CourseID == c.Param("id") {
				f.courses[i].CourseName = draft.CourseName
				f.courses[i].FacultyName = draft.FacultyName
				c.JSON(http.StatusOK, f.courses[i])
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "course not found"})
	})
	r.DELETE("/api/courses/:id", f.guard("DELETE "+backend.RouteCourse), func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		kept := f.courses[:0]
		for _, course := range f.courses {
			if course.CourseID != c.Param("id") {
				kept = append(kept, course)
			}
		}
		f.courses = kept
		c.JSON(http.StatusOK, gin.H{"message": "Course deleted"})
	})
	r.GET("/api/enrollment-data", f.guard(backend.RouteEnrollmentData), func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"courses": f.courses, "semesters": f.semesters})
	})
	r.POST("/api/enrollments", f.guard(backend.RouteEnrollments), func(c *gin.Context) {
		var draft models.EnrollmentDraft
		_ = c.ShouldBindJSON(&draft)
		f.mu.Lock()
		f.enrolled = append(f.enrolled, draft)
		f.mu.Unlock()
		c.JSON(http.StatusCreated, gin.H{"message": "Student enrolled successfully"})
	})
	r.GET("/api/grades/:id/current", f.guard(backend.RouteCurrentGrades), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"summary": gin.H{"currentSgpa": 8.25, "totalCredits": 20, "coursesPassed": 5, "totalCourses": 5, "averageScore": "81.2"},
			"details": []gin.H{{"course_id": "CS101", "course_name": "Programming", "numeric_score": 88, "letter_grade": "A", "credit_hours": 4}},
		})
	})
	r.GET("/api/attendance/:id/current", f.guard(backend.RouteCurrentAttendance), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"summary": gin.H{"overallRate": "92%", "totalClasses": 50, "attended": 46, "absences": 4},
			"details": []gin.H{},
			"recent":  []gin.H{},
		})
	})
	r.GET("/api/admin/reports-data", f.guard(backend.RouteReportsData), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"keyMetrics":              gin.H{"totalEnrollment": 120, "activeCourses": 8, "averageAttendance": 88.4, "averageGpa": "7.9"},
			"enrollmentTrend":         []gin.H{{"month": "Jan", "students": 40}},
			"weeklyAttendance":        []gin.H{{"day": "Mon", "percentage": 90}},
			"departmentDistribution":  []gin.H{{"name": "IT", "value": 60}, {"name": "CMPN", "value": 60}},
			"performanceDistribution": []gin.H{{"range": "8-9", "students": 30}},
		})
	})
	return r
}

func (f *institution) deps(t *testing.T) Deps {
	t.Helper()
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)
	return Deps{Backend: backend.New(apiclient.New(apiclient.Options{BaseURL: srv.URL}))}
}

type recordedAudit struct {
	action     string
	resourceID string
}

type auditRecorder struct {
	mu      sync.Mutex
	entries []recordedAudit
}

func (a *auditRecorder) Record(_ context.Context, action, _, resourceID string, _ interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, recordedAudit{action: action, resourceID: resourceID})
}
