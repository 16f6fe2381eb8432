package model

import "github.com/google/uuid"

// ConflictReport collects, per dimension, the ACTIVE slots that overlap a
// proposed slot. Both dimensions are always checked so a caller gets the
// union of problems in one round trip.
type ConflictReport struct {
	TeacherSlotIDs []uuid.UUID `json:"teacher_slot_ids,omitempty"`
	RoomSlotIDs    []uuid.UUID `json:"room_slot_ids,omitempty"`
}

// HasConflicts reports whether any dimension collided.
func (r *ConflictReport) HasConflicts() bool {
	return r != nil && (len(r.TeacherSlotIDs) > 0 || len(r.RoomSlotIDs) > 0)
}

// FindOverlapping returns the ids of candidates whose [start, end) window
// overlaps the proposed slot's. A slot being updated or reactivated passes
// its own id as exclude so it never conflicts with its previous record.
// Candidates are assumed to share (day, year, term) with the proposal; only
// the time axis is compared here.
func FindOverlapping(proposed *ScheduleSlot, candidates []ScheduleSlot, exclude uuid.UUID) []uuid.UUID {
	var ids []uuid.UUID
	window := proposed.Interval()
	for i := range candidates {
		c := &candidates[i]
		if c.ID == exclude {
			continue
		}
		if c.Status != SlotStatusActive {
			continue
		}
		if window.Overlaps(c.Interval()) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
