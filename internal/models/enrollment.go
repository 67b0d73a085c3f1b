package models

// Semester is static reference data ordered by SemesterID.
type Semester struct {
	SemesterID   int    `json:"semester_id"`
	SemesterName string `json:"semester_name"`
}

// EnrollmentData is the reference payload for the enrollment dialog.
type EnrollmentData struct {
	Courses   []Course   `json:"courses"`
	Semesters []Semester `json:"semesters"`
}

// EnrollmentDraft is the enrollment form. StudentID is fixed when the dialog opens.
type EnrollmentDraft struct {
	StudentID  string  `json:"student_id" validate:"required"`
	CourseID   string  `json:"course_id" validate:"required"`
	SemesterID FlexInt `json:"semester_id" validate:"required"`
}

// Message is the generic {"message": "..."} mutation response.
type Message struct {
	Message string `json:"message"`
}
