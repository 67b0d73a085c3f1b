package models

// AdminStats is the payload of GET /api/admin/dashboard-stats.
type AdminStats struct {
	TotalStudents     FlexInt `json:"totalStudents"`
	ActiveCourses     FlexInt `json:"activeCourses"`
	FacultyMembers    FlexInt `json:"facultyMembers"`
	AverageAttendance Metric  `json:"averageAttendance"`
}

// ReportKeyMetrics are the headline numbers of the reports page.
type ReportKeyMetrics struct {
	TotalEnrollment   FlexInt `json:"totalEnrollment"`
	ActiveCourses     FlexInt `json:"activeCourses"`
	AverageAttendance Metric  `json:"averageAttendance"`
	AverageGPA        Metric  `json:"averageGpa"`
}

// EnrollmentTrendPoint is one month of the enrollment series.
type EnrollmentTrendPoint struct {
	Month    string  `json:"month"`
	Students FlexInt `json:"students"`
}

// WeeklyAttendancePoint is the average attendance for a weekday.
type WeeklyAttendancePoint struct {
	Day        string `json:"day"`
	Percentage Metric `json:"percentage"`
}

// DepartmentShare is the student count of one department.
type DepartmentShare struct {
	Name  string  `json:"name"`
	Value FlexInt `json:"value"`
}

// PerformanceBucket is one bar of the GPA histogram.
type PerformanceBucket struct {
	Range    string  `json:"range"`
	Students FlexInt `json:"students"`
}

// ReportData is the payload of GET /api/admin/reports-data.
type ReportData struct {
	KeyMetrics              ReportKeyMetrics        `json:"keyMetrics"`
	EnrollmentTrend         []EnrollmentTrendPoint  `json:"enrollmentTrend"`
	WeeklyAttendance        []WeeklyAttendancePoint `json:"weeklyAttendance"`
	DepartmentDistribution  []DepartmentShare       `json:"departmentDistribution"`
	PerformanceDistribution []PerformanceBucket     `json:"performanceDistribution"`
}
