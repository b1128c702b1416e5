// AngelaMos | 2026
// service.go

package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/carterperez-dev/courseware/internal/core"
)

var ErrAlreadySubscribed = errors.New("already subscribed")

// CourseCatalog resolves a course before a subscription may target it.
// Implemented by the course service.
type CourseCatalog interface {
	CourseName(ctx context.Context, courseID string) (string, error)
}

// Notifier queues the confirmation emails that follow a subscription
// change. Implemented by the notify task client.
type Notifier interface {
	SubscriptionConfirmed(ctx context.Context, email, courseName string) error
	Unsubscribed(ctx context.Context, email, courseName string) error
}

type Service struct {
	repo     Repository
	catalog  CourseCatalog
	notifier Notifier
	logger   *slog.Logger
}

func NewService(
	repo Repository,
	catalog CourseCatalog,
	notifier Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
		logger:   logger,
	}
}

// Subscribe creates or revives the caller's subscription to a course.
// An unsubscribe followed by a subscribe lands on the same row.
func (s *Service) Subscribe(
	ctx context.Context,
	userID, email, courseID string,
) (*Subscription, error) {
	courseName, err := s.catalog.CourseName(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindActive(ctx, userID, courseID); err == nil {
		return nil, fmt.Errorf("subscribe: %w", ErrAlreadySubscribed)
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	sub := &Subscription{
		ID:       uuid.New().String(),
		UserID:   userID,
		CourseID: courseID,
	}

	if err := s.repo.Upsert(ctx, sub); err != nil {
		return nil, err
	}

	if err := s.notifier.SubscriptionConfirmed(ctx, email, courseName); err != nil {
		s.logger.Error("queue subscription confirmation",
			slog.String("course_id", courseID),
			slog.String("error", err.Error()),
		)
	}

	return sub, nil
}

// Unsubscribe deactivates the caller's subscription. The row survives
// so a later subscribe revives it.
func (s *Service) Unsubscribe(
	ctx context.Context,
	userID, email, courseID string,
) error {
	courseName, err := s.catalog.CourseName(ctx, courseID)
	if err != nil {
		return err
	}

	if err := s.repo.Deactivate(ctx, userID, courseID); err != nil {
		return err
	}

	if err := s.notifier.Unsubscribed(ctx, email, courseName); err != nil {
		s.logger.Error("queue unsubscribe notification",
			slog.String("course_id", courseID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

func (s *Service) ListForUser(
	ctx context.Context,
	userID string,
) ([]Subscription, error) {
	return s.repo.ListActiveForUser(ctx, userID)
}

// ActiveSubscriberEmails feeds the course update fan-out.
func (s *Service) ActiveSubscriberEmails(
	ctx context.Context,
	courseID string,
) ([]string, error) {
	return s.repo.ActiveSubscriberEmails(ctx, courseID)
}
