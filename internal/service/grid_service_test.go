package service

import (
	"testing"

	"github.com/google/uuid"

	"github.com/sgeduc/sge-backend/internal/interval"
	"github.com/sgeduc/sge-backend/internal/model"
)

func slot(day interval.Weekday, start, end int) model.ScheduleSlot {
	return model.ScheduleSlot{
		ID:          uuid.New(),
		DayOfWeek:   day,
		StartMinute: start,
		EndMinute:   end,
		Status:      model.SlotStatusActive,
	}
}

func TestBuildGridGroupsByDay(t *testing.T) {
	slots := []model.ScheduleSlot{
		slot(interval.Monday, 480, 540),
		slot(interval.Wednesday, 600, 660),
		slot(interval.Monday, 540, 600),
	}

	grid := buildGrid(slots, 2026, 1)

	if grid.AcademicYear != 2026 || grid.Term != 1 {
		t.Errorf("grid scoped to %d/%d, want 2026/1", grid.AcademicYear, grid.Term)
	}
	if len(grid.Days) != 2 {
		t.Fatalf("grid has %d days, want 2", len(grid.Days))
	}
	if len(grid.Days[int(interval.Monday)]) != 2 {
		t.Errorf("Monday has %d slots, want 2", len(grid.Days[int(interval.Monday)]))
	}
	if len(grid.Days[int(interval.Wednesday)]) != 1 {
		t.Errorf("Wednesday has %d slots, want 1", len(grid.Days[int(interval.Wednesday)]))
	}
}

func TestBuildGridSortsByStartTime(t *testing.T) {
	slots := []model.ScheduleSlot{
		slot(interval.Tuesday, 780, 840),
		slot(interval.Tuesday, 480, 540),
		slot(interval.Tuesday, 600, 660),
	}

	grid := buildGrid(slots, 2026, 2)

	day := grid.Days[int(interval.Tuesday)]
	if len(day) != 3 {
		t.Fatalf("Tuesday has %d slots, want 3", len(day))
	}
	for i := 1; i < len(day); i++ {
		if day[i-1].StartMinute > day[i].StartMinute {
			t.Errorf("slots out of order: %d before %d", day[i-1].StartMinute, day[i].StartMinute)
		}
	}
}

func TestBuildGridEmpty(t *testing.T) {
	grid := buildGrid(nil, 2026, 1)
	if len(grid.Days) != 0 {
		t.Errorf("empty slot set produced %d days", len(grid.Days))
	}
}
