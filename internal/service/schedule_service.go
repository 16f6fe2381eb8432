package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sgeduc/sge-backend/internal/config"
	"github.com/sgeduc/sge-backend/internal/interval"
	"github.com/sgeduc/sge-backend/internal/model"
	"github.com/sgeduc/sge-backend/internal/repository"
	ws "github.com/sgeduc/sge-backend/internal/websocket"
)

// Domain Errors
var (
	ErrInvalidTimeRange = errors.New("slot start must be before end")
	ErrInvalidDay       = errors.New("day of week must be between 0 and 6")
	ErrCohortNotActive  = errors.New("cohort is not active")
	ErrSubjectNotActive = errors.New("subject is not active")
	ErrSchoolMismatch   = errors.New("cohort and subject belong to different schools")
)

// ConflictError reports every ACTIVE slot that collided with a proposal,
// split by dimension. Teacher and room checks are independent; a proposal can
// fail both at once and the caller receives the union.
type ConflictError struct {
	Report *model.ConflictReport
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("schedule conflict: %d teacher, %d room",
		len(e.Report.TeacherSlotIDs), len(e.Report.RoomSlotIDs))
}

// ScheduleService is the scheduling engine: it validates proposals, delegates
// the transaction-scoped conflict check to the repository, and fans out
// change events over Redis.
type ScheduleService struct {
	scheduleRepo *repository.ScheduleRepository
	cohortRepo   *repository.CohortRepository
	subjectRepo  *repository.SubjectRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(
	scheduleRepo *repository.ScheduleRepository,
	cohortRepo *repository.CohortRepository,
	subjectRepo *repository.SubjectRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		cohortRepo:   cohortRepo,
		subjectRepo:  subjectRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "schedule_service").Logger(),
	}
}

// GetByID retrieves a slot by its ID.
func (s *ScheduleService) GetByID(ctx context.Context, id uuid.UUID) (*model.ScheduleSlot, error) {
	return s.scheduleRepo.GetByID(ctx, id)
}

// Propose validates and creates a new ACTIVE slot. Returns *ConflictError
// when the teacher or room window is already taken.
func (s *ScheduleService) Propose(ctx context.Context, slot *model.ScheduleSlot) error {
	if !slot.DayOfWeek.Valid() {
		return ErrInvalidDay
	}
	if _, err := interval.New(slot.StartMinute, slot.EndMinute); err != nil {
		return ErrInvalidTimeRange
	}

	cohort, err := s.cohortRepo.GetByID(ctx, slot.CohortID)
	if err != nil {
		return err
	}
	if cohort.Status != model.CohortStatusActive {
		return ErrCohortNotActive
	}

	subject, err := s.subjectRepo.GetByID(ctx, slot.SubjectID)
	if err != nil {
		return err
	}
	if subject.Status != model.SubjectStatusActive {
		return ErrSubjectNotActive
	}
	if subject.SchoolID != cohort.SchoolID {
		return ErrSchoolMismatch
	}
	slot.SchoolID = cohort.SchoolID

	report, err := s.scheduleRepo.CreateChecked(ctx, slot)
	if err != nil {
		return err
	}
	if report.HasConflicts() {
		return &ConflictError{Report: report}
	}

	s.log.Info().
		Str("slot_id", slot.ID.String()).
		Str("teacher_id", slot.TeacherID.String()).
		Int("day", int(slot.DayOfWeek)).
		Str("window", slot.Interval().String()).
		Msg("Slot created")

	s.publishEvent(ctx, ws.EventSlotCreated, slot)
	s.enqueueStatsRefresh(ctx, slot)
	return nil
}

// Cancel moves an ACTIVE slot to CANCELLED. Cancelling twice is an error,
// not a state change.
func (s *ScheduleService) Cancel(ctx context.Context, slotID uuid.UUID) error {
	slot, err := s.scheduleRepo.GetByID(ctx, slotID)
	if err != nil {
		return err
	}

	if err := s.scheduleRepo.Cancel(ctx, slotID); err != nil {
		return err
	}

	s.log.Info().Str("slot_id", slotID.String()).Msg("Slot cancelled")

	slot.Status = model.SlotStatusCancelled
	s.publishEvent(ctx, ws.EventSlotCancelled, slot)
	s.enqueueStatsRefresh(ctx, slot)
	return nil
}

// Reactivate moves a CANCELLED slot back to ACTIVE after re-running the full
// conflict check; the landscape may have changed since cancellation.
func (s *ScheduleService) Reactivate(ctx context.Context, slotID uuid.UUID) (*model.ScheduleSlot, error) {
	slot, report, err := s.scheduleRepo.ReactivateChecked(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if report.HasConflicts() {
		return nil, &ConflictError{Report: report}
	}

	s.log.Info().Str("slot_id", slotID.String()).Msg("Slot reactivated")

	s.publishEvent(ctx, ws.EventSlotReactivated, slot)
	s.enqueueStatsRefresh(ctx, slot)
	return slot, nil
}

// TeacherWorkload returns a teacher's weekly ACTIVE minutes and lesson count
// for one year/term. Reads the worker-maintained cache first and falls back
// to a direct fold over the store.
func (s *ScheduleService) TeacherWorkload(ctx context.Context, teacherID uuid.UUID, year, term int) (*model.TeacherWorkload, error) {
	key := config.CacheKey.TeacherWorkloadKey(teacherID.String(), year, term)
	if data, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		var w model.TeacherWorkload
		if err := json.Unmarshal(data, &w); err == nil {
			return &w, nil
		}
	}

	w, err := s.scheduleRepo.TeacherWorkload(ctx, teacherID, year, term)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(w); err == nil {
		// Best effort; the worker refreshes after every mutation anyway.
		_ = s.rdb.Set(ctx, key, raw, 0).Err()
	}
	return w, nil
}

// SubjectLessonCounts returns ACTIVE lesson counts per subject.
func (s *ScheduleService) SubjectLessonCounts(ctx context.Context, schoolID uuid.UUID, year, term int) ([]model.SubjectLessonCount, error) {
	return s.scheduleRepo.SubjectLessonCounts(ctx, schoolID, year, term)
}

// ListRooms returns the distinct rooms in use for one school/year/term.
func (s *ScheduleService) ListRooms(ctx context.Context, schoolID uuid.UUID, year, term int) ([]string, error) {
	return s.scheduleRepo.ListRooms(ctx, schoolID, year, term)
}

// publishEvent pushes a slot change to the school's PubSub channel for the
// dashboard stream. Delivery is best effort: a missed event only delays the
// dashboard until its next refetch.
func (s *ScheduleService) publishEvent(ctx context.Context, event ws.Event, slot *model.ScheduleSlot) {
	payload, err := json.Marshal(ws.SlotEvent{
		Event:     event,
		SlotID:    slot.ID.String(),
		CohortID:  slot.CohortID.String(),
		TeacherID: slot.TeacherID.String(),
		DayOfWeek: int(slot.DayOfWeek),
		Year:      slot.AcademicYear,
		Term:      slot.Term,
	})
	if err != nil {
		return
	}
	channel := config.CacheKey.ScheduleEventsChannel(slot.SchoolID.String())
	if err := s.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("channel", channel).Msg("Publish event failed")
	}
}

// enqueueStatsRefresh marks the touched (teacher, year, term) for the
// workload worker to recompute.
func (s *ScheduleService) enqueueStatsRefresh(ctx context.Context, slot *model.ScheduleSlot) {
	payload, _ := json.Marshal(map[string]interface{}{
		"teacher_id": slot.TeacherID.String(),
		"year":       slot.AcademicYear,
		"term":       slot.Term,
	})
	if err := s.rdb.RPush(ctx, config.WorkerKey.StatsRefreshQueue, payload).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Enqueue stats refresh failed")
	}
}
