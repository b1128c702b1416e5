// AngelaMos | 2026
// repository.go

package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/courseware/internal/core"
)

type Repository interface {
	Create(ctx context.Context, course *Course) error
	GetByID(ctx context.Context, id string) (*Course, error)
	Update(ctx context.Context, course *Course) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListCoursesParams) ([]Course, int, error)
	AttachLesson(ctx context.Context, courseID, lessonID string) error
	DetachLesson(ctx context.Context, courseID, lessonID string) error
	LessonsForCourse(ctx context.Context, courseID string) ([]Lesson, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const courseColumns = `id, name, description, preview, owner_id,
       last_updated, created_at`

func (r *repository) Create(ctx context.Context, course *Course) error {
	query := `
		INSERT INTO courses (id, name, description, preview, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING last_updated, created_at`

	err := r.db.GetContext(ctx, course, query,
		course.ID,
		course.Name,
		course.Description,
		course.Preview,
		course.OwnerID,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create course: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create course: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Course, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM courses
		WHERE id = $1`, courseColumns)

	var course Course
	err := r.db.GetContext(ctx, &course, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get course: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	return &course, nil
}

func (r *repository) Update(ctx context.Context, course *Course) error {
	query := `
		UPDATE courses
		SET name = $2, description = $3, preview = $4, last_updated = NOW()
		WHERE id = $1
		RETURNING last_updated`

	err := r.db.GetContext(ctx, &course.LastUpdated, query,
		course.ID,
		course.Name,
		course.Description,
		course.Preview,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update course: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM courses WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete course: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListCoursesParams,
) ([]Course, int, error) {
	params.Normalize()

	whereClause := "TRUE"
	var args []any
	argIdx := 1

	if params.Search != "" {
		whereClause = fmt.Sprintf("name ILIKE $%d", argIdx)
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM courses WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM courses
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		courseColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var courses []Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	return courses, total, nil
}

func (r *repository) AttachLesson(
	ctx context.Context,
	courseID, lessonID string,
) error {
	query := `
		INSERT INTO course_lessons (course_id, lesson_id)
		VALUES ($1, $2)
		ON CONFLICT (course_id, lesson_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, courseID, lessonID); err != nil {
		return fmt.Errorf("attach lesson: %w", err)
	}

	return nil
}

func (r *repository) DetachLesson(
	ctx context.Context,
	courseID, lessonID string,
) error {
	query := `
		DELETE FROM course_lessons
		WHERE course_id = $1 AND lesson_id = $2`

	result, err := r.db.ExecContext(ctx, query, courseID, lessonID)
	if err != nil {
		return fmt.Errorf("detach lesson: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("detach lesson: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("detach lesson: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) LessonsForCourse(
	ctx context.Context,
	courseID string,
) ([]Lesson, error) {
	query := `
		SELECT l.id, l.name, l.description, l.video, l.owner_id, l.created_at
		FROM lessons l
		JOIN course_lessons cl ON cl.lesson_id = l.id
		WHERE cl.course_id = $1
		ORDER BY l.created_at`

	var lessons []Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, courseID); err != nil {
		return nil, fmt.Errorf("lessons for course: %w", err)
	}

	return lessons, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
