package model

import (
	"time"

	"github.com/google/uuid"
)

// CohortStatus enumerates the lifecycle of a cohort.
type CohortStatus string

const (
	CohortStatusActive   CohortStatus = "ACTIVE"
	CohortStatusInactive CohortStatus = "INACTIVE"
)

// Shift is the daily period a cohort attends.
type Shift string

const (
	ShiftMorning   Shift = "MORNING"
	ShiftAfternoon Shift = "AFTERNOON"
	ShiftEvening   Shift = "EVENING"
	ShiftFullDay   Shift = "FULL_DAY"
)

// Cohort is a group of students enrolled together for an academic year and
// shift. Capacity bounds the number of ACTIVE enrollments at any moment.
type Cohort struct {
	ID           uuid.UUID    `json:"id"`
	SchoolID     uuid.UUID    `json:"school_id"`
	Name         string       `json:"name"`
	AcademicYear int          `json:"academic_year"`
	GradeLevel   string       `json:"grade_level"`
	Shift        Shift        `json:"shift"`
	Capacity     int          `json:"capacity"`
	Status       CohortStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// EnrollmentStatus enumerates the lifecycle of an enrollment record.
type EnrollmentStatus string

const (
	EnrollmentStatusActive EnrollmentStatus = "ACTIVE"
	EnrollmentStatusClosed EnrollmentStatus = "CLOSED"
)

// Enrollment captures a student's membership in a cohort. Unenrolling closes
// the record (status CLOSED, UnenrolledAt set) instead of deleting it, so
// history survives for reporting.
type Enrollment struct {
	ID           uuid.UUID        `json:"id"`
	CohortID     uuid.UUID        `json:"cohort_id"`
	StudentID    uuid.UUID        `json:"student_id"`
	Status       EnrollmentStatus `json:"status"`
	EnrolledAt   time.Time        `json:"enrolled_at"`
	UnenrolledAt *time.Time       `json:"unenrolled_at,omitempty"`
}

// CreateCohortRequest is the payload for creating a cohort.
type CreateCohortRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=120"`
	AcademicYear int    `json:"academic_year" binding:"required,min=2000,max=2100"`
	GradeLevel   string `json:"grade_level" binding:"required,min=1,max=20"`
	Shift        Shift  `json:"shift" binding:"required,oneof=MORNING AFTERNOON EVENING FULL_DAY"`
	Capacity     int    `json:"capacity" binding:"required,min=1,max=500"`
}

// EnrollRequest is the payload for enrolling a student into a cohort.
type EnrollRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
}
