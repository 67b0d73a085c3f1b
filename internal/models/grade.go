package models

// GradeDetail is one course row of the grade view.
type GradeDetail struct {
	CourseID     string  `json:"course_id"`
	CourseName   string  `json:"course_name"`
	NumericScore Metric  `json:"numeric_score"`
	LetterGrade  *string `json:"letter_grade"`
	CreditHours  FlexInt `json:"credit_hours"`
}

// GradeSummary is derived server side.
type GradeSummary struct {
	CurrentSGPA   Metric  `json:"currentSgpa"`
	TotalCredits  FlexInt `json:"totalCredits"`
	CoursesPassed FlexInt `json:"coursesPassed"`
	TotalCourses  FlexInt `json:"totalCourses"`
	AverageScore  Metric  `json:"averageScore"`
}

// GradeReport is the payload of GET /api/grades/{studentId}/current.
type GradeReport struct {
	Summary GradeSummary  `json:"summary"`
	Details []GradeDetail `json:"details"`
}
