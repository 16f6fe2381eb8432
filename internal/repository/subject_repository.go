package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sgeduc/sge-backend/internal/model"
)

// ErrPrerequisiteCycle is returned when a prerequisite replacement would make
// the school's graph cyclic. Decided inside the transaction so concurrent
// replacements cannot commit a cycle between check and write.
var ErrPrerequisiteCycle = errors.New("prerequisite replacement would create a cycle")

// SubjectRepository handles subject and prerequisite-edge data access.
type SubjectRepository struct {
	pool *pgxpool.Pool
}

// NewSubjectRepository creates a new SubjectRepository.
func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

const subjectColumns = `id, school_id, name, code, credit_hours, grade_level, mandatory, status, created_at, updated_at`

func scanSubject(row pgx.Row) (*model.Subject, error) {
	s := &model.Subject{}
	err := row.Scan(&s.ID, &s.SchoolID, &s.Name, &s.Code, &s.CreditHours,
		&s.GradeLevel, &s.Mandatory, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a subject with its prerequisite ids.
func (r *SubjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Subject, error) {
	s, err := scanSubject(r.pool.QueryRow(ctx,
		`SELECT `+subjectColumns+` FROM subjects WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	prereqs, err := r.prerequisitesOf(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Prerequisites = prereqs
	return s, nil
}

func (r *SubjectRepository) prerequisitesOf(ctx context.Context, subjectID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT prerequisite_id FROM subject_prerequisites
		 WHERE subject_id = $1 ORDER BY position`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Create inserts a subject and its prerequisite edges in one transaction.
func (r *SubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO subjects (school_id, name, code, credit_hours, grade_level, mandatory, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		s.SchoolID, s.Name, s.Code, s.CreditHours, s.GradeLevel, s.Mandatory, s.Status,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertPrerequisites(ctx, tx, s.ID, s.Prerequisites); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ReplacePrerequisites swaps a subject's full prerequisite edge list. The
// acyclicity check and the write run in one transaction under a per-school
// advisory lock, so two replacements on the same graph serialize.
func (r *SubjectRepository) ReplacePrerequisites(ctx context.Context, schoolID, subjectID uuid.UUID, prereqIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := acquireAdvisoryLock(ctx, tx, fmt.Sprintf("subjects:graph:%s", schoolID)); err != nil {
		return err
	}

	edges, err := prerequisiteEdges(ctx, tx, schoolID)
	if err != nil {
		return err
	}
	if model.CreatesCycle(edges, subjectID, prereqIDs) {
		return ErrPrerequisiteCycle
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM subject_prerequisites WHERE subject_id = $1`, subjectID); err != nil {
		return err
	}
	if err := insertPrerequisites(ctx, tx, subjectID, prereqIDs); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE subjects SET updated_at = NOW() WHERE id = $1`, subjectID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertPrerequisites(ctx context.Context, tx pgx.Tx, subjectID uuid.UUID, prereqIDs []uuid.UUID) error {
	for i, pid := range prereqIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO subject_prerequisites (subject_id, prerequisite_id, position)
			 VALUES ($1, $2, $3)`, subjectID, pid, i); err != nil {
			return err
		}
	}
	return nil
}

// UpdateStatus toggles a subject between ACTIVE and INACTIVE.
func (r *SubjectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.SubjectStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subjects SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CountExistingInSchool returns how many of the given ids exist in the school.
// The service compares against len(ids) to reject unknown or foreign prerequisites.
func (r *SubjectRepository) CountExistingInSchool(ctx context.Context, schoolID uuid.UUID, ids []uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM subjects WHERE school_id = $1 AND id = ANY($2)`,
		schoolID, ids).Scan(&n)
	return n, err
}

// CountActiveDependents returns how many ACTIVE subjects in the same school
// list the given subject as a prerequisite.
func (r *SubjectRepository) CountActiveDependents(ctx context.Context, subjectID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM subject_prerequisites sp
		 JOIN subjects s ON s.id = sp.subject_id
		 WHERE sp.prerequisite_id = $1 AND s.status = 'ACTIVE'`, subjectID).Scan(&n)
	return n, err
}

// prerequisiteEdges loads the full prerequisite edge set of one school as an
// adjacency map (subject -> its prerequisites), inside the caller's
// transaction.
func prerequisiteEdges(ctx context.Context, tx pgx.Tx, schoolID uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	rows, err := tx.Query(ctx,
		`SELECT sp.subject_id, sp.prerequisite_id
		 FROM subject_prerequisites sp
		 JOIN subjects s ON s.id = sp.subject_id
		 WHERE s.school_id = $1`, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	edges := make(map[uuid.UUID][]uuid.UUID)
	for rows.Next() {
		var from, to uuid.UUID
		if err := rows.Scan(&from, &to); err != nil {
			return nil, err
		}
		edges[from] = append(edges[from], to)
	}
	return edges, rows.Err()
}

// ListBySchool retrieves all subjects of a school ordered by name, with
// prerequisite ids attached.
func (r *SubjectRepository) ListBySchool(ctx context.Context, schoolID uuid.UUID) ([]model.Subject, error) {
	return r.list(ctx,
		`SELECT `+subjectColumns+` FROM subjects WHERE school_id = $1 ORDER BY name ASC`, schoolID)
}

// ListWithoutPrerequisites retrieves subjects of a school with an empty
// prerequisite list.
func (r *SubjectRepository) ListWithoutPrerequisites(ctx context.Context, schoolID uuid.UUID) ([]model.Subject, error) {
	return r.list(ctx,
		`SELECT `+subjectColumns+` FROM subjects s
		 WHERE school_id = $1
		   AND NOT EXISTS (SELECT 1 FROM subject_prerequisites sp WHERE sp.subject_id = s.id)
		 ORDER BY name ASC`, schoolID)
}

// ListByGradeLevel retrieves subjects of a school filtered by grade level.
func (r *SubjectRepository) ListByGradeLevel(ctx context.Context, schoolID uuid.UUID, gradeLevel string) ([]model.Subject, error) {
	return r.list(ctx,
		`SELECT `+subjectColumns+` FROM subjects
		 WHERE school_id = $1 AND grade_level = $2 ORDER BY name ASC`, schoolID, gradeLevel)
}

// SearchByName retrieves subjects whose name matches the query, case-insensitive.
// LIKE metacharacters in the query match literally.
func (r *SubjectRepository) SearchByName(ctx context.Context, schoolID uuid.UUID, query string) ([]model.Subject, error) {
	return r.list(ctx,
		`SELECT `+subjectColumns+` FROM subjects
		 WHERE school_id = $1 AND name ILIKE '%' || $2 || '%' ORDER BY name ASC`,
		schoolID, escapeLike(query))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *SubjectRepository) list(ctx context.Context, query string, args ...any) ([]model.Subject, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.SchoolID, &s.Name, &s.Code, &s.CreditHours,
			&s.GradeLevel, &s.Mandatory, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range subjects {
		prereqs, err := r.prerequisitesOf(ctx, subjects[i].ID)
		if err != nil {
			return nil, err
		}
		subjects[i].Prerequisites = prereqs
	}
	return subjects, nil
}
