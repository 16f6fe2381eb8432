package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sgeduc/sge-backend/internal/model"
)

// Slot transition outcomes.
var (
	ErrSlotNotActive    = errors.New("slot is not active")
	ErrSlotNotCancelled = errors.New("slot is not cancelled")
)

// ScheduleRepository handles schedule slot data access, including the
// transaction-scoped conflict checks.
type ScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

const slotColumns = `id, school_id, cohort_id, subject_id, teacher_id, room,
	day_of_week, start_minute, end_minute, academic_year, term, status,
	created_at, updated_at`

func scanSlot(row pgx.Row) (*model.ScheduleSlot, error) {
	s := &model.ScheduleSlot{}
	err := row.Scan(&s.ID, &s.SchoolID, &s.CohortID, &s.SubjectID, &s.TeacherID,
		&s.Room, &s.DayOfWeek, &s.StartMinute, &s.EndMinute, &s.AcademicYear,
		&s.Term, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a slot by its ID.
func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ScheduleSlot, error) {
	return scanSlot(r.pool.QueryRow(ctx,
		`SELECT `+slotColumns+` FROM schedule_slots WHERE id = $1`, id))
}

// teacherLockKey and roomLockKey name the advisory locks that serialize
// conflict checks per contended resource. Unrelated teachers/rooms never
// block each other. Teacher lock is always taken before the room lock to
// keep a global ordering.
func teacherLockKey(teacherID uuid.UUID, day, year, term int) string {
	return fmt.Sprintf("slot:t:%s:%d:%d:%d", teacherID, day, year, term)
}

func roomLockKey(schoolID uuid.UUID, room string, day, year, term int) string {
	return fmt.Sprintf("slot:r:%s:%s:%d:%d:%d", schoolID, room, day, year, term)
}

func acquireAdvisoryLock(ctx context.Context, tx pgx.Tx, key string) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key)
	return err
}

// checkConflicts runs the overlap scan for both dimensions inside the given
// transaction. exclude removes the slot's own id from the conflict set so an
// update that keeps its time range does not collide with itself.
func (r *ScheduleRepository) checkConflicts(ctx context.Context, tx pgx.Tx, s *model.ScheduleSlot, exclude uuid.UUID) (*model.ConflictReport, error) {
	if err := acquireAdvisoryLock(ctx, tx, teacherLockKey(s.TeacherID, int(s.DayOfWeek), s.AcademicYear, s.Term)); err != nil {
		return nil, err
	}
	if s.Room != "" {
		if err := acquireAdvisoryLock(ctx, tx, roomLockKey(s.SchoolID, s.Room, int(s.DayOfWeek), s.AcademicYear, s.Term)); err != nil {
			return nil, err
		}
	}

	report := &model.ConflictReport{}

	teacherSlots, err := r.listActiveTx(ctx, tx,
		`SELECT `+slotColumns+` FROM schedule_slots
		 WHERE teacher_id = $1 AND day_of_week = $2 AND academic_year = $3 AND term = $4
		   AND status = 'ACTIVE'`,
		s.TeacherID, s.DayOfWeek, s.AcademicYear, s.Term)
	if err != nil {
		return nil, err
	}
	report.TeacherSlotIDs = model.FindOverlapping(s, teacherSlots, exclude)

	// An empty room means "no room assigned" and never conflicts.
	if s.Room != "" {
		roomSlots, err := r.listActiveTx(ctx, tx,
			`SELECT `+slotColumns+` FROM schedule_slots
			 WHERE school_id = $1 AND room = $2 AND day_of_week = $3
			   AND academic_year = $4 AND term = $5 AND status = 'ACTIVE'`,
			s.SchoolID, s.Room, s.DayOfWeek, s.AcademicYear, s.Term)
		if err != nil {
			return nil, err
		}
		report.RoomSlotIDs = model.FindOverlapping(s, roomSlots, exclude)
	}

	return report, nil
}

// CreateChecked inserts the slot as ACTIVE if and only if the conflict scan
// comes back clean. The advisory locks, the scan, and the insert share one
// transaction, so a concurrent overlapping proposal for the same teacher or
// room serializes behind this one and observes the committed slot.
func (r *ScheduleRepository) CreateChecked(ctx context.Context, s *model.ScheduleSlot) (*model.ConflictReport, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	report, err := r.checkConflicts(ctx, tx, s, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if report.HasConflicts() {
		return report, nil
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO schedule_slots
		 (school_id, cohort_id, subject_id, teacher_id, room, day_of_week,
		  start_minute, end_minute, academic_year, term, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'ACTIVE')
		 RETURNING id, created_at, updated_at`,
		s.SchoolID, s.CohortID, s.SubjectID, s.TeacherID, s.Room, s.DayOfWeek,
		s.StartMinute, s.EndMinute, s.AcademicYear, s.Term,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Status = model.SlotStatusActive

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return nil, nil
}

// Cancel moves an ACTIVE slot to CANCELLED. Cancelling an already-cancelled
// slot is rejected, not silently repeated.
func (r *ScheduleRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE schedule_slots
		 SET status = 'CANCELLED', updated_at = NOW()
		 WHERE id = $1 AND status = 'ACTIVE'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish missing from wrong-state.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrSlotNotActive
	}
	return nil
}

// ReactivateChecked moves a CANCELLED slot back to ACTIVE, re-running the
// full conflict scan first: the schedule landscape may have changed since the
// slot was cancelled. The slot's own id is excluded from the scan.
func (r *ScheduleRepository) ReactivateChecked(ctx context.Context, id uuid.UUID) (*model.ScheduleSlot, *model.ConflictReport, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	s, err := scanSlot(tx.QueryRow(ctx,
		`SELECT `+slotColumns+` FROM schedule_slots WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, nil, err
	}
	if s.Status != model.SlotStatusCancelled {
		return nil, nil, ErrSlotNotCancelled
	}

	report, err := r.checkConflicts(ctx, tx, s, s.ID)
	if err != nil {
		return nil, nil, err
	}
	if report.HasConflicts() {
		return nil, report, nil
	}

	err = tx.QueryRow(ctx,
		`UPDATE schedule_slots SET status = 'ACTIVE', updated_at = NOW()
		 WHERE id = $1
		 RETURNING updated_at`, id).Scan(&s.UpdatedAt)
	if err != nil {
		return nil, nil, err
	}
	s.Status = model.SlotStatusActive

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return s, nil, nil
}

func (r *ScheduleRepository) listActiveTx(ctx context.Context, tx pgx.Tx, query string, args ...any) ([]model.ScheduleSlot, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectSlots(rows)
}

func (r *ScheduleRepository) list(ctx context.Context, query string, args ...any) ([]model.ScheduleSlot, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectSlots(rows)
}

func collectSlots(rows pgx.Rows) ([]model.ScheduleSlot, error) {
	defer rows.Close()

	var slots []model.ScheduleSlot
	for rows.Next() {
		var s model.ScheduleSlot
		if err := rows.Scan(&s.ID, &s.SchoolID, &s.CohortID, &s.SubjectID, &s.TeacherID,
			&s.Room, &s.DayOfWeek, &s.StartMinute, &s.EndMinute, &s.AcademicYear,
			&s.Term, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// ListActiveForCohort retrieves a cohort's ACTIVE slots in one year/term,
// ordered by day then start time for grid building.
func (r *ScheduleRepository) ListActiveForCohort(ctx context.Context, cohortID uuid.UUID, year, term int) ([]model.ScheduleSlot, error) {
	return r.list(ctx,
		`SELECT `+slotColumns+` FROM schedule_slots
		 WHERE cohort_id = $1 AND academic_year = $2 AND term = $3 AND status = 'ACTIVE'
		 ORDER BY day_of_week, start_minute`, cohortID, year, term)
}

// ListActiveForTeacher retrieves a teacher's ACTIVE slots in one year/term.
func (r *ScheduleRepository) ListActiveForTeacher(ctx context.Context, teacherID uuid.UUID, year, term int) ([]model.ScheduleSlot, error) {
	return r.list(ctx,
		`SELECT `+slotColumns+` FROM schedule_slots
		 WHERE teacher_id = $1 AND academic_year = $2 AND term = $3 AND status = 'ACTIVE'
		 ORDER BY day_of_week, start_minute`, teacherID, year, term)
}

// TeacherWorkload folds a teacher's ACTIVE slots into weekly minutes and
// lesson count for one year/term.
func (r *ScheduleRepository) TeacherWorkload(ctx context.Context, teacherID uuid.UUID, year, term int) (*model.TeacherWorkload, error) {
	w := &model.TeacherWorkload{TeacherID: teacherID, AcademicYear: year, Term: term}
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(end_minute - start_minute), 0), COUNT(*)
		 FROM schedule_slots
		 WHERE teacher_id = $1 AND academic_year = $2 AND term = $3 AND status = 'ACTIVE'`,
		teacherID, year, term,
	).Scan(&w.WeeklyMinutes, &w.LessonCount)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// SubjectLessonCounts folds ACTIVE slots per subject for one school/year/term.
func (r *ScheduleRepository) SubjectLessonCounts(ctx context.Context, schoolID uuid.UUID, year, term int) ([]model.SubjectLessonCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT sub.id, sub.name, COUNT(sl.id)
		 FROM schedule_slots sl
		 JOIN subjects sub ON sub.id = sl.subject_id
		 WHERE sl.school_id = $1 AND sl.academic_year = $2 AND sl.term = $3 AND sl.status = 'ACTIVE'
		 GROUP BY sub.id, sub.name
		 ORDER BY sub.name`, schoolID, year, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.SubjectLessonCount
	for rows.Next() {
		var c model.SubjectLessonCount
		if err := rows.Scan(&c.SubjectID, &c.SubjectName, &c.LessonCount); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// ListRooms returns the distinct non-empty rooms referenced by ACTIVE slots
// of one school/year/term. Used by scheduling form pickers.
func (r *ScheduleRepository) ListRooms(ctx context.Context, schoolID uuid.UUID, year, term int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT room FROM schedule_slots
		 WHERE school_id = $1 AND academic_year = $2 AND term = $3
		   AND status = 'ACTIVE' AND room <> ''
		 ORDER BY room`, schoolID, year, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []string
	for rows.Next() {
		var room string
		if err := rows.Scan(&room); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}
