// AngelaMos | 2026
// repository.go

package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/courseware/internal/core"
)

type Repository interface {
	FindActive(
		ctx context.Context,
		userID, courseID string,
	) (*Subscription, error)
	Upsert(ctx context.Context, sub *Subscription) error
	Deactivate(ctx context.Context, userID, courseID string) error
	ListActiveForUser(ctx context.Context, userID string) ([]Subscription, error)
	ActiveSubscriberEmails(
		ctx context.Context,
		courseID string,
	) ([]string, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) FindActive(
	ctx context.Context,
	userID, courseID string,
) (*Subscription, error) {
	query := `
		SELECT id, user_id, course_id, is_active, subscribed_at, created_at
		FROM subscriptions
		WHERE user_id = $1 AND course_id = $2 AND is_active = true`

	var sub Subscription
	err := r.db.GetContext(ctx, &sub, query, userID, courseID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find subscription: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}

	return &sub, nil
}

// Upsert inserts the row or revives a previously deactivated one. The
// unique constraint on (user_id, course_id) holds regardless of state,
// so concurrent subscribes collapse onto the same row.
func (r *repository) Upsert(ctx context.Context, sub *Subscription) error {
	query := `
		INSERT INTO subscriptions (id, user_id, course_id, is_active)
		VALUES ($1, $2, $3, true)
		ON CONFLICT (user_id, course_id)
		DO UPDATE SET is_active = true, subscribed_at = NOW()
		RETURNING id, is_active, subscribed_at, created_at`

	err := r.db.GetContext(ctx, sub, query,
		sub.ID,
		sub.UserID,
		sub.CourseID,
	)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	return nil
}

// Deactivate flips the row regardless of its current state; only a pair
// that never subscribed is a miss.
func (r *repository) Deactivate(
	ctx context.Context,
	userID, courseID string,
) error {
	query := `
		UPDATE subscriptions
		SET is_active = false
		WHERE user_id = $1 AND course_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, courseID)
	if err != nil {
		return fmt.Errorf("deactivate subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate subscription: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("deactivate subscription: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListActiveForUser(
	ctx context.Context,
	userID string,
) ([]Subscription, error) {
	query := `
		SELECT id, user_id, course_id, is_active, subscribed_at, created_at
		FROM subscriptions
		WHERE user_id = $1 AND is_active = true
		ORDER BY subscribed_at DESC`

	var subs []Subscription
	if err := r.db.SelectContext(ctx, &subs, query, userID); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	return subs, nil
}

func (r *repository) ActiveSubscriberEmails(
	ctx context.Context,
	courseID string,
) ([]string, error) {
	query := `
		SELECT u.email
		FROM subscriptions s
		JOIN users u ON u.id = s.user_id
		WHERE s.course_id = $1
			AND s.is_active = true
			AND u.is_active = true
			AND u.deleted_at IS NULL
		ORDER BY u.email`

	var emails []string
	if err := r.db.SelectContext(ctx, &emails, query, courseID); err != nil {
		return nil, fmt.Errorf("subscriber emails: %w", err)
	}

	return emails, nil
}
