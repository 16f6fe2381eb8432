package model

import (
	"time"

	"github.com/google/uuid"
)

// SubjectStatus enumerates the lifecycle of a subject.
type SubjectStatus string

const (
	SubjectStatusActive   SubjectStatus = "ACTIVE"
	SubjectStatusInactive SubjectStatus = "INACTIVE"
)

// Subject represents a teachable unit within a school, with credit hours and
// an identifier-based prerequisite edge list. Subjects are never hard-deleted
// once referenced; they are toggled ACTIVE/INACTIVE.
type Subject struct {
	ID            uuid.UUID     `json:"id"`
	SchoolID      uuid.UUID     `json:"school_id"`
	Name          string        `json:"name"`
	Code          string        `json:"code"`
	CreditHours   int           `json:"credit_hours"`
	GradeLevel    string        `json:"grade_level"`
	Mandatory     bool          `json:"mandatory"`
	Status        SubjectStatus `json:"status"`
	Prerequisites []uuid.UUID   `json:"prerequisites"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	Name          string   `json:"name" binding:"required,min=2,max=120"`
	Code          string   `json:"code" binding:"required,min=2,max=20"`
	CreditHours   int      `json:"credit_hours" binding:"required,min=1,max=20"`
	GradeLevel    string   `json:"grade_level" binding:"required,min=1,max=20"`
	Mandatory     bool     `json:"mandatory"`
	Prerequisites []string `json:"prerequisites" binding:"omitempty,dive,uuid"`
}

// SetPrerequisitesRequest replaces a subject's prerequisite list.
type SetPrerequisitesRequest struct {
	Prerequisites []string `json:"prerequisites" binding:"omitempty,dive,uuid"`
}
