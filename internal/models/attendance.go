package models

// AttendanceStatus is the per-class attendance mark.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceLate    AttendanceStatus = "Late"
)

// AttendanceRecord is one class day for one course.
type AttendanceRecord struct {
	CourseID   string           `json:"course_id"`
	CourseName string           `json:"course_name"`
	ClassDate  string           `json:"class_date"`
	Status     AttendanceStatus `json:"status"`
}

// AttendanceSummary aggregates attendance across courses.
type AttendanceSummary struct {
	OverallRate  Metric  `json:"overallRate"`
	TotalClasses FlexInt `json:"totalClasses"`
	Attended     FlexInt `json:"attended"`
	Absences     FlexInt `json:"absences"`
}

// CourseAttendanceDetail is the per-course breakdown.
type CourseAttendanceDetail struct {
	CourseID     string  `json:"course_id"`
	CourseName   string  `json:"course_name"`
	TotalClasses FlexInt `json:"totalClasses"`
	Present      FlexInt `json:"present"`
	Absent       FlexInt `json:"absent"`
	Late         FlexInt `json:"late"`
	Percentage   Metric  `json:"percentage"`
}

// AttendanceReport is the payload of GET /api/attendance/{studentId}/current.
type AttendanceReport struct {
	Summary AttendanceSummary        `json:"summary"`
	Details []CourseAttendanceDetail `json:"details"`
	Recent  []AttendanceRecord       `json:"recent"`
}
