package models

import "strings"

// Department codes accepted by the backend.
const (
	DepartmentCMPN = "CMPN"
	DepartmentIT   = "IT"
	DepartmentEXCS = "EXCS"
	DepartmentEXTC = "EXTC"
)

// StudentStatus enumerates student lifecycle states.
type StudentStatus string

const (
	StudentActive   StudentStatus = "Active"
	StudentInactive StudentStatus = "Inactive"
	StudentAlumni   StudentStatus = "Alumni"
)

// Student is a student record as served by the backend. StudentID is the immutable business key.
type Student struct {
	StudentID   string        `json:"student_id"`
	FirstName   string        `json:"first_name"`
	LastName    string        `json:"last_name"`
	Email       string        `json:"email"`
	Department  string        `json:"department"`
	CurrentYear FlexInt       `json:"current_year"`
	Status      StudentStatus `json:"status"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// StudentDraft is the editable form of a student. Only presence is checked locally.
type StudentDraft struct {
	StudentID   string        `json:"student_id" validate:"required"`
	FirstName   string        `json:"first_name" validate:"required"`
	LastName    string        `json:"last_name" validate:"required"`
	Email       string        `json:"email" validate:"required"`
	Department  string        `json:"department" validate:"required"`
	CurrentYear FlexInt       `json:"current_year" validate:"required"`
	Status      StudentStatus `json:"status,omitempty"`
}

// DraftFromStudent seeds an edit draft from an existing record.
func DraftFromStudent(s Student) StudentDraft {
	return StudentDraft{
		StudentID:   s.StudentID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Email:       s.Email,
		Department:  s.Department,
		CurrentYear: s.CurrentYear,
		Status:      s.Status,
	}
}

// StudentDetail is the payload of GET /api/students/{id}.
type StudentDetail struct {
	Student Student `json:"student"`
	SGPA    Metric  `json:"sgpa"`
}

// AverageGPA is the payload of GET /api/stats/average-gpa.
type AverageGPA struct {
	AverageSGPA Metric `json:"averageSgpa"`
}
