package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/sgeduc/sge-backend/internal/model"
	"github.com/sgeduc/sge-backend/internal/repository"
)

// Domain Errors
var (
	ErrDuplicateName = errors.New("cohort name already exists for this school and year")
)

// CohortService handles cohort lifecycle and enrollment business logic.
// Capacity enforcement itself lives in the repository transaction; this layer
// validates input, maps storage outcomes, and logs.
type CohortService struct {
	cohortRepo *repository.CohortRepository
	log        zerolog.Logger
}

// NewCohortService creates a new CohortService.
func NewCohortService(cohortRepo *repository.CohortRepository, log zerolog.Logger) *CohortService {
	return &CohortService{
		cohortRepo: cohortRepo,
		log:        log.With().Str("component", "cohort_service").Logger(),
	}
}

// GetByID retrieves a cohort by its ID.
func (s *CohortService) GetByID(ctx context.Context, id uuid.UUID) (*model.Cohort, error) {
	return s.cohortRepo.GetByID(ctx, id)
}

// List retrieves all cohorts of a school for one academic year.
func (s *CohortService) List(ctx context.Context, schoolID uuid.UUID, year int) ([]model.Cohort, error) {
	return s.cohortRepo.ListBySchool(ctx, schoolID, year)
}

// Create inserts a new ACTIVE cohort. Name uniqueness within school+year is
// enforced by the store's unique constraint and mapped here.
func (s *CohortService) Create(ctx context.Context, c *model.Cohort) error {
	c.Status = model.CohortStatusActive

	if err := s.cohortRepo.Create(ctx, c); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateName
		}
		return err
	}

	s.log.Info().
		Str("cohort_id", c.ID.String()).
		Str("name", c.Name).
		Int("capacity", c.Capacity).
		Msg("Cohort created")
	return nil
}

// Enroll registers a student in the cohort. The repository runs the capacity
// check and the insert as one transaction, so concurrent enrollments at the
// last free seat produce exactly one success.
func (s *CohortService) Enroll(ctx context.Context, cohortID, studentID uuid.UUID) (*model.Enrollment, error) {
	e, err := s.cohortRepo.Enroll(ctx, cohortID, studentID)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("cohort_id", cohortID.String()).
		Str("student_id", studentID.String()).
		Msg("Student enrolled")
	return e, nil
}

// Unenroll soft-closes the student's active enrollment.
func (s *CohortService) Unenroll(ctx context.Context, cohortID, studentID uuid.UUID) error {
	if err := s.cohortRepo.Unenroll(ctx, cohortID, studentID); err != nil {
		return err
	}

	s.log.Info().
		Str("cohort_id", cohortID.String()).
		Str("student_id", studentID.String()).
		Msg("Student unenrolled")
	return nil
}

// Deactivate blocks new enrollments without touching existing records.
func (s *CohortService) Deactivate(ctx context.Context, cohortID uuid.UUID) error {
	return s.cohortRepo.UpdateStatus(ctx, cohortID, model.CohortStatusInactive)
}

// Reactivate reopens a cohort for enrollment.
func (s *CohortService) Reactivate(ctx context.Context, cohortID uuid.UUID) error {
	return s.cohortRepo.UpdateStatus(ctx, cohortID, model.CohortStatusActive)
}

// HasAvailableSeats reports whether the cohort can take one more enrollment.
func (s *CohortService) HasAvailableSeats(ctx context.Context, cohortID uuid.UUID) (bool, error) {
	c, err := s.cohortRepo.GetByID(ctx, cohortID)
	if err != nil {
		return false, err
	}
	n, err := s.cohortRepo.ActiveEnrollmentCount(ctx, cohortID)
	if err != nil {
		return false, err
	}
	return n < c.Capacity, nil
}

// ListEnrollments retrieves a cohort's full enrollment history.
func (s *CohortService) ListEnrollments(ctx context.Context, cohortID uuid.UUID) ([]model.Enrollment, error) {
	return s.cohortRepo.ListEnrollments(ctx, cohortID)
}
