package model

import (
	"time"

	"github.com/google/uuid"
)

// Student is a roster entry. The ID is generated once at registration and
// never reused; every other field is mutable via update.
type Student struct {
	ID                uuid.UUID  `json:"id" csv:"id"`
	Name              string     `json:"name" csv:"name"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty" csv:"date_of_birth"`
	Gender            string     `json:"gender" csv:"gender"`
	Email             string     `json:"email" csv:"email"`
	Phone             string     `json:"phone" csv:"phone"`
	Address           string     `json:"address" csv:"address"`
	EmergencyContact  string     `json:"emergency_contact" csv:"emergency_contact"`
	MedicalConditions string     `json:"medical_conditions" csv:"medical_conditions"`
	Goals             string     `json:"goals" csv:"goals"`
	AdditionalNotes   string     `json:"additional_notes" csv:"additional_notes"`
	CreatedAt         time.Time  `json:"created_at" csv:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" csv:"updated_at"`
}

// AgeAt derives the age from the date of birth. Returns 0 when no date of
// birth is recorded. Age is display-only and never persisted.
func (s *Student) AgeAt(today time.Time) int {
	if s.DateOfBirth == nil {
		return 0
	}
	dob := *s.DateOfBirth
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

type CreateStudentRequest struct {
	Name              string `json:"name" validate:"required"`
	DateOfBirth       string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender            string `json:"gender"`
	Email             string `json:"email" validate:"omitempty,email"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	EmergencyContact  string `json:"emergency_contact" validate:"required"`
	MedicalConditions string `json:"medical_conditions"`
	Goals             string `json:"goals"`
	AdditionalNotes   string `json:"additional_notes"`
}

// UpdateStudentRequest replaces all mutable fields of a student. The same
// required-field rules apply as on create.
type UpdateStudentRequest struct {
	Name              string `json:"name" validate:"required"`
	DateOfBirth       string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender            string `json:"gender"`
	Email             string `json:"email" validate:"omitempty,email"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	EmergencyContact  string `json:"emergency_contact" validate:"required"`
	MedicalConditions string `json:"medical_conditions"`
	Goals             string `json:"goals"`
	AdditionalNotes   string `json:"additional_notes"`
}

// StudentResponse is a Student enriched with the derived age.
type StudentResponse struct {
	Student
	Age int `json:"age"`
}

func NewStudentResponse(s *Student, today time.Time) StudentResponse {
	return StudentResponse{
		Student: *s,
		Age:     s.AgeAt(today),
	}
}
