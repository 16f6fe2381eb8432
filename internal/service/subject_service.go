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
	ErrDuplicateCode       = errors.New("subject code already exists in this school")
	ErrUnknownPrerequisite = errors.New("prerequisite does not exist in this school")
	ErrCyclicDependency    = errors.New("change would create a prerequisite cycle")
	ErrPrerequisiteInUse   = errors.New("subject is a prerequisite of an active subject")
)

// SubjectService handles the subject catalog and its prerequisite graph.
type SubjectService struct {
	subjectRepo *repository.SubjectRepository
	log         zerolog.Logger
}

// NewSubjectService creates a new SubjectService.
func NewSubjectService(subjectRepo *repository.SubjectRepository, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		subjectRepo: subjectRepo,
		log:         log.With().Str("component", "subject_service").Logger(),
	}
}

// GetByID retrieves a subject with its prerequisite ids.
func (s *SubjectService) GetByID(ctx context.Context, id uuid.UUID) (*model.Subject, error) {
	return s.subjectRepo.GetByID(ctx, id)
}

// List retrieves all subjects of a school.
func (s *SubjectService) List(ctx context.Context, schoolID uuid.UUID) ([]model.Subject, error) {
	return s.subjectRepo.ListBySchool(ctx, schoolID)
}

// ListWithoutPrerequisites retrieves subjects with no prerequisites.
func (s *SubjectService) ListWithoutPrerequisites(ctx context.Context, schoolID uuid.UUID) ([]model.Subject, error) {
	return s.subjectRepo.ListWithoutPrerequisites(ctx, schoolID)
}

// ListByGradeLevel retrieves subjects filtered by grade level.
func (s *SubjectService) ListByGradeLevel(ctx context.Context, schoolID uuid.UUID, gradeLevel string) ([]model.Subject, error) {
	return s.subjectRepo.ListByGradeLevel(ctx, schoolID, gradeLevel)
}

// SearchByName retrieves subjects whose name contains the query.
func (s *SubjectService) SearchByName(ctx context.Context, schoolID uuid.UUID, query string) ([]model.Subject, error) {
	return s.subjectRepo.SearchByName(ctx, schoolID, query)
}

// Create inserts a new ACTIVE subject. Every listed prerequisite must already
// exist in the same school; the code must be unique within the school.
func (s *SubjectService) Create(ctx context.Context, sub *model.Subject) error {
	sub.Status = model.SubjectStatusActive

	if len(sub.Prerequisites) > 0 {
		if err := s.verifyPrerequisitesExist(ctx, sub.SchoolID, sub.Prerequisites); err != nil {
			return err
		}
	}

	if err := s.subjectRepo.Create(ctx, sub); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCode
		}
		return err
	}

	s.log.Info().
		Str("subject_id", sub.ID.String()).
		Str("code", sub.Code).
		Msg("Subject created")
	return nil
}

// SetPrerequisites replaces a subject's prerequisite list. The repository
// verifies the post-change graph stays acyclic inside the replacement
// transaction, under the school's graph lock.
func (s *SubjectService) SetPrerequisites(ctx context.Context, subjectID uuid.UUID, prereqIDs []uuid.UUID) error {
	sub, err := s.subjectRepo.GetByID(ctx, subjectID)
	if err != nil {
		return err
	}

	if len(prereqIDs) > 0 {
		if err := s.verifyPrerequisitesExist(ctx, sub.SchoolID, prereqIDs); err != nil {
			return err
		}
	}

	if err := s.subjectRepo.ReplacePrerequisites(ctx, sub.SchoolID, subjectID, prereqIDs); err != nil {
		if errors.Is(err, repository.ErrPrerequisiteCycle) {
			return ErrCyclicDependency
		}
		return err
	}
	return nil
}

// Deactivate flags a subject INACTIVE. Blocked while any ACTIVE subject in
// the school still lists it as a prerequisite; dependents must be migrated
// first.
func (s *SubjectService) Deactivate(ctx context.Context, subjectID uuid.UUID) error {
	dependents, err := s.subjectRepo.CountActiveDependents(ctx, subjectID)
	if err != nil {
		return err
	}
	if dependents > 0 {
		return ErrPrerequisiteInUse
	}
	return s.subjectRepo.UpdateStatus(ctx, subjectID, model.SubjectStatusInactive)
}

// Reactivate flags a subject ACTIVE again.
func (s *SubjectService) Reactivate(ctx context.Context, subjectID uuid.UUID) error {
	return s.subjectRepo.UpdateStatus(ctx, subjectID, model.SubjectStatusActive)
}

func (s *SubjectService) verifyPrerequisitesExist(ctx context.Context, schoolID uuid.UUID, ids []uuid.UUID) error {
	n, err := s.subjectRepo.CountExistingInSchool(ctx, schoolID, ids)
	if err != nil {
		return err
	}
	if n != len(uniqueIDs(ids)) {
		return ErrUnknownPrerequisite
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
