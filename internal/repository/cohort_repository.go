package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sgeduc/sge-backend/internal/model"
)

// Enrollment outcomes. These surface from the capacity transaction, which is
// the only place that can decide them atomically.
var (
	ErrCohortInactive  = errors.New("cohort is inactive")
	ErrCohortFull      = errors.New("cohort is at capacity")
	ErrAlreadyEnrolled = errors.New("student already has an active enrollment in this cohort")
	ErrNotEnrolled     = errors.New("student has no active enrollment in this cohort")
)

// CohortRepository handles cohort and enrollment data access.
type CohortRepository struct {
	pool *pgxpool.Pool
}

// NewCohortRepository creates a new CohortRepository.
func NewCohortRepository(pool *pgxpool.Pool) *CohortRepository {
	return &CohortRepository{pool: pool}
}

const cohortColumns = `id, school_id, name, academic_year, grade_level, shift, capacity, status, created_at, updated_at`

// GetByID retrieves a cohort by its ID.
func (r *CohortRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Cohort, error) {
	c := &model.Cohort{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+cohortColumns+` FROM cohorts WHERE id = $1`, id,
	).Scan(&c.ID, &c.SchoolID, &c.Name, &c.AcademicYear, &c.GradeLevel,
		&c.Shift, &c.Capacity, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListBySchool retrieves all cohorts of a school for one academic year.
func (r *CohortRepository) ListBySchool(ctx context.Context, schoolID uuid.UUID, year int) ([]model.Cohort, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cohortColumns+` FROM cohorts
		 WHERE school_id = $1 AND academic_year = $2
		 ORDER BY grade_level, name`, schoolID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cohorts []model.Cohort
	for rows.Next() {
		var c model.Cohort
		if err := rows.Scan(&c.ID, &c.SchoolID, &c.Name, &c.AcademicYear, &c.GradeLevel,
			&c.Shift, &c.Capacity, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		cohorts = append(cohorts, c)
	}
	return cohorts, rows.Err()
}

// Create inserts a new cohort.
func (r *CohortRepository) Create(ctx context.Context, c *model.Cohort) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO cohorts (school_id, name, academic_year, grade_level, shift, capacity, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		c.SchoolID, c.Name, c.AcademicYear, c.GradeLevel, c.Shift, c.Capacity, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// UpdateStatus toggles a cohort between ACTIVE and INACTIVE. Deactivating does
// not close existing enrollments; it only blocks new ones.
func (r *CohortRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.CohortStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cohorts SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Enroll creates an ACTIVE enrollment for the student, enforcing capacity and
// uniqueness atomically. The cohort row is locked for the duration of the
// transaction so two concurrent enrollments at the last free seat serialize:
// one commits, the other observes the new count and fails with ErrCohortFull.
func (r *CohortRepository) Enroll(ctx context.Context, cohortID, studentID uuid.UUID) (*model.Enrollment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var status model.CohortStatus
	var capacity int
	err = tx.QueryRow(ctx,
		`SELECT status, capacity FROM cohorts WHERE id = $1 FOR UPDATE`, cohortID,
	).Scan(&status, &capacity)
	if err != nil {
		return nil, err
	}
	if status != model.CohortStatusActive {
		return nil, ErrCohortInactive
	}

	var activeCount int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE cohort_id = $1 AND status = 'ACTIVE'`,
		cohortID).Scan(&activeCount)
	if err != nil {
		return nil, err
	}
	if activeCount >= capacity {
		return nil, ErrCohortFull
	}

	var existing int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM enrollments
		 WHERE cohort_id = $1 AND student_id = $2 AND status = 'ACTIVE'`,
		cohortID, studentID).Scan(&existing)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadyEnrolled
	}

	e := &model.Enrollment{
		CohortID:  cohortID,
		StudentID: studentID,
		Status:    model.EnrollmentStatusActive,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO enrollments (cohort_id, student_id, status)
		 VALUES ($1, $2, 'ACTIVE')
		 RETURNING id, enrolled_at`,
		cohortID, studentID,
	).Scan(&e.ID, &e.EnrolledAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Unenroll soft-closes the student's active enrollment. The record is kept
// with CLOSED status and an unenrolled_at timestamp for reporting.
func (r *CohortRepository) Unenroll(ctx context.Context, cohortID, studentID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE enrollments
		 SET status = 'CLOSED', unenrolled_at = NOW()
		 WHERE cohort_id = $1 AND student_id = $2 AND status = 'ACTIVE'`,
		cohortID, studentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotEnrolled
	}
	return nil
}

// ActiveEnrollmentCount returns the number of ACTIVE enrollments in a cohort.
func (r *CohortRepository) ActiveEnrollmentCount(ctx context.Context, cohortID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE cohort_id = $1 AND status = 'ACTIVE'`,
		cohortID).Scan(&n)
	return n, err
}

// ListEnrollments retrieves all enrollment records of a cohort, newest first,
// including closed ones.
func (r *CohortRepository) ListEnrollments(ctx context.Context, cohortID uuid.UUID) ([]model.Enrollment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, cohort_id, student_id, status, enrolled_at, unenrolled_at
		 FROM enrollments
		 WHERE cohort_id = $1
		 ORDER BY enrolled_at DESC`, cohortID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.ID, &e.CohortID, &e.StudentID, &e.Status,
			&e.EnrolledAt, &e.UnenrolledAt); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}
