package model

// ScheduleGrid is a derived, non-persisted projection of ACTIVE slots keyed
// by day-of-week, each day sorted by start time ascending. It is rebuilt from
// storage on every request; callers must refetch after any mutation.
type ScheduleGrid struct {
	AcademicYear int                    `json:"academic_year"`
	Term         int                    `json:"term"`
	Days         map[int][]ScheduleSlot `json:"days"`
}
