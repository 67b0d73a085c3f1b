package models

// CourseStatus enumerates course states.
type CourseStatus string

const (
	CourseActive    CourseStatus = "Active"
	CourseInactive  CourseStatus = "Inactive"
	CourseCancelled CourseStatus = "Cancelled"
)

// Course is a course record. EnrollmentCount is derived by the backend and read-only.
type Course struct {
	CourseID        string       `json:"course_id"`
	CourseName      string       `json:"course_name"`
	CreditHours     FlexInt      `json:"credit_hours"`
	FacultyName     string       `json:"faculty_name"`
	Department      string       `json:"department"`
	Schedule        string       `json:"schedule"`
	Status          CourseStatus `json:"status"`
	EnrollmentCount FlexInt      `json:"enrollmentCount"`
}

// CourseDraft is the editable form of a course.
type CourseDraft struct {
	CourseID    string       `json:"course_id" validate:"required"`
	CourseName  string       `json:"course_name" validate:"required"`
	CreditHours FlexInt      `json:"credit_hours" validate:"required"`
	FacultyName string       `json:"faculty_name" validate:"required"`
	Department  string       `json:"department" validate:"required"`
	Schedule    string       `json:"schedule"`
	Status      CourseStatus `json:"status,omitempty"`
}

// DraftFromCourse seeds an edit draft from an existing record.
func DraftFromCourse(c Course) CourseDraft {
	return CourseDraft{
		CourseID:    c.CourseID,
		CourseName:  c.CourseName,
		CreditHours: c.CreditHours,
		FacultyName: c.FacultyName,
		Department:  c.Department,
		Schedule:    c.Schedule,
		Status:      c.Status,
	}
}

// CourseOverviewStats are the server-side aggregates returned with the course list.
type CourseOverviewStats struct {
	TotalCourses     FlexInt `json:"totalCourses"`
	ActiveCourses    FlexInt `json:"activeCourses"`
	TotalEnrollment  FlexInt `json:"totalEnrollment"`
	AverageClassSize Metric  `json:"avgClassSize"`
}

// CoursesOverview is the payload of GET /api/admin/courses-overview.
type CoursesOverview struct {
	Stats   CourseOverviewStats `json:"stats"`
	Courses []Course            `json:"courses"`
}
