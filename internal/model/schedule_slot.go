package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/sgeduc/sge-backend/internal/interval"
)

// SlotStatus enumerates the lifecycle of a schedule slot. There is no draft
// state: validation runs synchronously at creation, and a cancelled slot must
// pass the full conflict check again before returning to ACTIVE.
type SlotStatus string

const (
	SlotStatusActive    SlotStatus = "ACTIVE"
	SlotStatusCancelled SlotStatus = "CANCELLED"
)

// ScheduleSlot is one recurring weekly teaching assignment: a subject taught
// by a teacher to a cohort, optionally in a room, at a fixed [start, end)
// window on one weekday, scoped by academic year and term.
type ScheduleSlot struct {
	ID           uuid.UUID        `json:"id"`
	SchoolID     uuid.UUID        `json:"school_id"`
	CohortID     uuid.UUID        `json:"cohort_id"`
	SubjectID    uuid.UUID        `json:"subject_id"`
	TeacherID    uuid.UUID        `json:"teacher_id"`
	Room         string           `json:"room,omitempty"`
	DayOfWeek    interval.Weekday `json:"day_of_week"`
	StartMinute  int              `json:"start_minute"`
	EndMinute    int              `json:"end_minute"`
	AcademicYear int              `json:"academic_year"`
	Term         int              `json:"term"`
	Status       SlotStatus       `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Interval returns the slot's time window as a value type for overlap checks.
func (s *ScheduleSlot) Interval() interval.Interval {
	return interval.Interval{Start: s.StartMinute, End: s.EndMinute}
}

// ProposeSlotRequest is the payload for creating or reshaping a schedule slot.
// Times are "HH:MM" wall-clock strings; the service converts them to minutes.
type ProposeSlotRequest struct {
	CohortID     string `json:"cohort_id" binding:"required,uuid"`
	SubjectID    string `json:"subject_id" binding:"required,uuid"`
	TeacherID    string `json:"teacher_id" binding:"required,uuid"`
	Room         string `json:"room" binding:"omitempty,max=40"`
	DayOfWeek    int    `json:"day_of_week" binding:"min=0,max=6"`
	StartTime    string `json:"start_time" binding:"required,len=5"`
	EndTime      string `json:"end_time" binding:"required,len=5"`
	AcademicYear int    `json:"academic_year" binding:"required,min=2000,max=2100"`
	Term         int    `json:"term" binding:"required,min=1,max=4"`
}

// TeacherWorkload aggregates a teacher's weekly ACTIVE teaching time in a term.
type TeacherWorkload struct {
	TeacherID     uuid.UUID `json:"teacher_id"`
	AcademicYear  int       `json:"academic_year"`
	Term          int       `json:"term"`
	WeeklyMinutes int       `json:"weekly_minutes"`
	LessonCount   int       `json:"lesson_count"`
}

// SubjectLessonCount aggregates ACTIVE lessons per subject in a term.
type SubjectLessonCount struct {
	SubjectID   uuid.UUID `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	LessonCount int       `json:"lesson_count"`
}
