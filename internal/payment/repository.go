// AngelaMos | 2026
// repository.go

package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/courseware/internal/core"
)

type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	List(
		ctx context.Context,
		params ListPaymentsParams,
	) ([]Payment, int, error)
	ListForUser(ctx context.Context, userID string) ([]Payment, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const paymentColumns = `id, user_id, paid_course_id, paid_lesson_id,
       amount, method, stripe_id, payment_date`

func (r *repository) Create(ctx context.Context, payment *Payment) error {
	query := `
		INSERT INTO payments (
			id, user_id, paid_course_id, paid_lesson_id,
			amount, method, stripe_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING payment_date`

	err := r.db.GetContext(ctx, &payment.PaymentDate, query,
		payment.ID,
		payment.UserID,
		payment.PaidCourseID,
		payment.PaidLessonID,
		payment.Amount,
		payment.Method,
		payment.StripeID,
	)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payments
		WHERE id = $1`, paymentColumns)

	var payment Payment
	err := r.db.GetContext(ctx, &payment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get payment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}

	return &payment, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListPaymentsParams,
) ([]Payment, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.Method != "" {
		conditions = append(conditions, fmt.Sprintf("method = $%d", argIdx))
		args = append(args, params.Method)
		argIdx++
	}

	if params.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("paid_course_id = $%d", argIdx))
		args = append(args, params.CourseID)
		argIdx++
	}

	if params.LessonID != "" {
		conditions = append(conditions, fmt.Sprintf("paid_lesson_id = $%d", argIdx))
		args = append(args, params.LessonID)
		argIdx++
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM payments WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	// Normalize pins Sort to asc or desc, safe to splice.
	direction := "DESC"
	if params.Sort == "asc" {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM payments
		WHERE %s
		ORDER BY payment_date %s
		LIMIT $%d OFFSET $%d`,
		paymentColumns, whereClause, direction, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var payments []Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	return payments, total, nil
}

func (r *repository) ListForUser(
	ctx context.Context,
	userID string,
) ([]Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payments
		WHERE user_id = $1
		ORDER BY payment_date DESC`, paymentColumns)

	var payments []Payment
	if err := r.db.SelectContext(ctx, &payments, query, userID); err != nil {
		return nil, fmt.Errorf("list user payments: %w", err)
	}

	return payments, nil
}
