package model

import (
	"testing"

	"github.com/google/uuid"

	"github.com/sgeduc/sge-backend/internal/interval"
)

func activeSlot(start, end int) ScheduleSlot {
	return ScheduleSlot{
		ID:          uuid.New(),
		DayOfWeek:   interval.Monday,
		StartMinute: start,
		EndMinute:   end,
		Status:      SlotStatusActive,
	}
}

func TestFindOverlapping(t *testing.T) {
	proposed := activeSlot(510, 570) // 08:30-09:30

	overlapping := activeSlot(480, 540)  // 08:00-09:00, overlaps
	backToBack := activeSlot(570, 630)   // 09:30-10:30, touches only
	disjoint := activeSlot(720, 780)     // noon, clear
	cancelled := activeSlot(500, 560)    // would overlap but is cancelled
	cancelled.Status = SlotStatusCancelled

	got := FindOverlapping(&proposed, []ScheduleSlot{overlapping, backToBack, disjoint, cancelled}, uuid.Nil)
	if len(got) != 1 {
		t.Fatalf("found %d conflicts, want 1", len(got))
	}
	if got[0] != overlapping.ID {
		t.Errorf("conflict id = %s, want %s", got[0], overlapping.ID)
	}
}

func TestFindOverlappingExcludesSelf(t *testing.T) {
	existing := activeSlot(480, 540)
	// Reactivating the same record with an unchanged window must not
	// conflict with itself.
	proposed := existing

	if got := FindOverlapping(&proposed, []ScheduleSlot{existing}, existing.ID); len(got) != 0 {
		t.Errorf("slot conflicted with its own previous record: %v", got)
	}
	if got := FindOverlapping(&proposed, []ScheduleSlot{existing}, uuid.Nil); len(got) != 1 {
		t.Errorf("without exclusion the identical window must conflict, got %v", got)
	}
}

func TestConflictReportHasConflicts(t *testing.T) {
	var nilReport *ConflictReport
	if nilReport.HasConflicts() {
		t.Error("nil report must not report conflicts")
	}
	if (&ConflictReport{}).HasConflicts() {
		t.Error("empty report must not report conflicts")
	}
	r := &ConflictReport{RoomSlotIDs: []uuid.UUID{uuid.New()}}
	if !r.HasConflicts() {
		t.Error("room conflict must be reported")
	}
}
