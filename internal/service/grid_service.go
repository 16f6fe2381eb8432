package service

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/sgeduc/sge-backend/internal/model"
	"github.com/sgeduc/sge-backend/internal/repository"
)

// GridService builds the weekly schedule grid projection. It is a pure read
// path: every call refetches committed slots, and nothing is cached between
// calls, so mutations are visible on the next request.
type GridService struct {
	scheduleRepo *repository.ScheduleRepository
}

// NewGridService creates a new GridService.
func NewGridService(scheduleRepo *repository.ScheduleRepository) *GridService {
	return &GridService{scheduleRepo: scheduleRepo}
}

// BuildCohortGrid projects a cohort's ACTIVE slots for one year/term.
func (s *GridService) BuildCohortGrid(ctx context.Context, cohortID uuid.UUID, year, term int) (*model.ScheduleGrid, error) {
	slots, err := s.scheduleRepo.ListActiveForCohort(ctx, cohortID, year, term)
	if err != nil {
		return nil, err
	}
	return buildGrid(slots, year, term), nil
}

// BuildTeacherGrid projects a teacher's ACTIVE slots for one year/term.
func (s *GridService) BuildTeacherGrid(ctx context.Context, teacherID uuid.UUID, year, term int) (*model.ScheduleGrid, error) {
	slots, err := s.scheduleRepo.ListActiveForTeacher(ctx, teacherID, year, term)
	if err != nil {
		return nil, err
	}
	return buildGrid(slots, year, term), nil
}

// buildGrid groups slots by day-of-week and sorts each day by start time
// ascending, with id as a stable tie-break for slots sharing a start.
func buildGrid(slots []model.ScheduleSlot, year, term int) *model.ScheduleGrid {
	grid := &model.ScheduleGrid{
		AcademicYear: year,
		Term:         term,
		Days:         make(map[int][]model.ScheduleSlot),
	}
	for _, s := range slots {
		day := int(s.DayOfWeek)
		grid.Days[day] = append(grid.Days[day], s)
	}
	for day := range grid.Days {
		entries := grid.Days[day]
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].StartMinute != entries[j].StartMinute {
				return entries[i].StartMinute < entries[j].StartMinute
			}
			return entries[i].ID.String() < entries[j].ID.String()
		})
	}
	return grid
}
