// AngelaMos | 2026
// service.go

package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/courseware/internal/core"
)

var ErrNoExternalReference = errors.New("no external reference")

type Service struct {
	repo     Repository
	provider Provider
}

func NewService(repo Repository, provider Provider) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
	}
}

// Create records a payment. Cash payments go straight to the datastore;
// bank transfers register an intent with the processor first and keep
// its reference. The method is checked before anything else is touched.
func (s *Service) Create(
	ctx context.Context,
	userID, email string,
	req CreatePaymentRequest,
) (*Payment, error) {
	payment := &Payment{
		ID:           uuid.New().String(),
		UserID:       userID,
		PaidCourseID: req.PaidCourseID,
		PaidLessonID: req.PaidLessonID,
		Amount:       req.Amount,
		Method:       req.Method,
	}

	switch req.Method {
	case MethodCash:
		// No processor involvement.
	case MethodBankTransfer:
		description := fmt.Sprintf("Payment for user: %s", email)
		intentID, err := s.provider.CreateIntent(ctx, req.Amount, description)
		if err != nil {
			return nil, err
		}
		payment.StripeID = &intentID
	default:
		return nil, fmt.Errorf(
			"create payment: unknown method %q: %w",
			req.Method,
			core.ErrInvalidInput,
		)
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return payment, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Payment, error) {
	return s.repo.GetByID(ctx, id)
}

// IntentForPayment fetches the processor's current view of a payment.
// Cash payments have no external reference and are rejected before any
// provider call.
func (s *Service) IntentForPayment(
	ctx context.Context,
	paymentID string,
) (*IntentStatus, error) {
	payment, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if !payment.HasExternalReference() {
		return nil, fmt.Errorf(
			"intent for payment: %w",
			ErrNoExternalReference,
		)
	}

	return s.provider.RetrieveIntent(ctx, *payment.StripeID)
}

func (s *Service) List(
	ctx context.Context,
	params ListPaymentsParams,
) ([]Payment, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) ListForUser(
	ctx context.Context,
	userID string,
) ([]Payment, error) {
	return s.repo.ListForUser(ctx, userID)
}
