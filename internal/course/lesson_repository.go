// AngelaMos | 2026
// lesson_repository.go

package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/courseware/internal/core"
)

type LessonRepository interface {
	Create(ctx context.Context, lesson *Lesson) error
	GetByID(ctx context.Context, id string) (*Lesson, error)
	Update(ctx context.Context, lesson *Lesson) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, pageSize int) ([]Lesson, int, error)
}

type lessonRepository struct {
	db core.DBTX
}

func NewLessonRepository(db core.DBTX) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) Create(ctx context.Context, lesson *Lesson) error {
	query := `
		INSERT INTO lessons (id, name, description, video, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &lesson.CreatedAt, query,
		lesson.ID,
		lesson.Name,
		lesson.Description,
		lesson.Video,
		lesson.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}

	return nil
}

func (r *lessonRepository) GetByID(
	ctx context.Context,
	id string,
) (*Lesson, error) {
	query := `
		SELECT id, name, description, video, owner_id, created_at
		FROM lessons
		WHERE id = $1`

	var lesson Lesson
	err := r.db.GetContext(ctx, &lesson, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get lesson: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}

	return &lesson, nil
}

func (r *lessonRepository) Update(ctx context.Context, lesson *Lesson) error {
	query := `
		UPDATE lessons
		SET name = $2, description = $3, video = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		lesson.ID,
		lesson.Name,
		lesson.Description,
		lesson.Video,
	)
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update lesson: %w", core.ErrNotFound)
	}

	return nil
}

func (r *lessonRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM lessons WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete lesson: %w", core.ErrNotFound)
	}

	return nil
}

func (r *lessonRepository) List(
	ctx context.Context,
	page, pageSize int,
) ([]Lesson, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM lessons"); err != nil {
		return nil, 0, fmt.Errorf("count lessons: %w", err)
	}

	query := `
		SELECT id, name, description, video, owner_id, created_at
		FROM lessons
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	var lessons []Lesson
	err := r.db.SelectContext(ctx, &lessons, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list lessons: %w", err)
	}

	return lessons, total, nil
}
