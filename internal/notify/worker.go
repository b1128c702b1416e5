// AngelaMos | 2026
// worker.go

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// UserDeactivator flips accounts inactive past the cutoff. Implemented
// by the user service.
type UserDeactivator interface {
	DeactivateInactive(ctx context.Context, cutoff time.Time) (int64, error)
}

// TokenPurger drops long-expired refresh tokens. Implemented by the
// auth service.
type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// Handlers processes queued notification and maintenance tasks. Mail
// errors are returned so the broker retries the task.
type Handlers struct {
	mailer        Mailer
	users         UserDeactivator
	tokens        TokenPurger
	inactiveAfter time.Duration
	logger        *slog.Logger
}

func NewHandlers(
	mailer Mailer,
	users UserDeactivator,
	tokens TokenPurger,
	inactiveAfter time.Duration,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		mailer:        mailer,
		users:         users,
		tokens:        tokens,
		inactiveAfter: inactiveAfter,
		logger:        logger,
	}
}

func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeSubscriptionConfirmed, h.HandleSubscriptionConfirmed)
	mux.HandleFunc(TypeUnsubscribed, h.HandleUnsubscribed)
	mux.HandleFunc(TypeCourseUpdated, h.HandleCourseUpdated)
	mux.HandleFunc(TypeDeactivateInactive, h.HandleDeactivateInactive)
}

func (h *Handlers) HandleSubscriptionConfirmed(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload SubscriptionPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal subscription payload: %w", err)
	}

	subject := fmt.Sprintf("Subscribed to %s", payload.CourseName)
	body := fmt.Sprintf(
		"You have been subscribed to the course %q.",
		payload.CourseName,
	)

	if err := h.mailer.Send(payload.Email, subject, body); err != nil {
		return err
	}

	h.logger.Info("subscription confirmation sent",
		slog.String("course", payload.CourseName),
	)
	return nil
}

func (h *Handlers) HandleUnsubscribed(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload SubscriptionPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal unsubscribe payload: %w", err)
	}

	subject := fmt.Sprintf("Unsubscribed from %s", payload.CourseName)
	body := fmt.Sprintf(
		"You have been unsubscribed from the course %q.",
		payload.CourseName,
	)

	if err := h.mailer.Send(payload.Email, subject, body); err != nil {
		return err
	}

	h.logger.Info("unsubscribe notice sent",
		slog.String("course", payload.CourseName),
	)
	return nil
}

func (h *Handlers) HandleCourseUpdated(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload CourseUpdatedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal course update payload: %w", err)
	}

	subject := fmt.Sprintf("Course updated: %s", payload.CourseName)
	body := fmt.Sprintf(
		"The course %q has new content.",
		payload.CourseName,
	)

	for _, recipient := range payload.Recipients {
		if err := h.mailer.Send(recipient, subject, body); err != nil {
			// Retrying re-sends to earlier recipients; acceptable for
			// announcement mail.
			return err
		}
	}

	h.logger.Info("course update announced",
		slog.String("course", payload.CourseName),
		slog.Int("recipients", len(payload.Recipients)),
	)
	return nil
}

func (h *Handlers) HandleDeactivateInactive(
	ctx context.Context,
	task *asynq.Task,
) error {
	cutoff := time.Now().Add(-h.inactiveAfter)

	deactivated, err := h.users.DeactivateInactive(ctx, cutoff)
	if err != nil {
		return err
	}

	purged, err := h.tokens.PurgeExpiredTokens(ctx)
	if err != nil {
		return err
	}

	h.logger.Info("maintenance sweep finished",
		slog.Int64("deactivated_users", deactivated),
		slog.Int64("purged_tokens", purged),
	)
	return nil
}
