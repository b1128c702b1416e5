// AngelaMos | 2026
// service_test.go

package payment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/carterperez-dev/courseware/internal/core"
)

type fakeRepo struct {
	payments map[string]*Payment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{payments: make(map[string]*Payment)}
}

func (f *fakeRepo) Create(ctx context.Context, p *Payment) error {
	f.payments[p.ID] = p
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, fmt.Errorf("get payment: %w", core.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) List(ctx context.Context, params ListPaymentsParams) ([]Payment, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) ListForUser(ctx context.Context, userID string) ([]Payment, error) {
	return nil, nil
}

type fakeProvider struct {
	intentID      string
	createCalls   int
	retrieveCalls int
	createErr     error
	retrieveErr   error
	lastDesc      string
	status        *IntentStatus
}

func (f *fakeProvider) CreateIntent(ctx context.Context, amount int64, description string) (string, error) {
	f.createCalls++
	f.lastDesc = description
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.intentID, nil
}

func (f *fakeProvider) RetrieveIntent(ctx context.Context, id string) (*IntentStatus, error) {
	f.retrieveCalls++
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	return f.status, nil
}

func TestCreateCashPaymentSkipsProvider(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{intentID: "stripe123"}
	svc := NewService(repo, provider)

	payment, err := svc.Create(context.Background(), "u1", "u1@example.com", CreatePaymentRequest{
		Amount: 5000,
		Method: MethodCash,
	})
	if err != nil {
		t.Fatalf("create cash payment: %v", err)
	}

	if provider.createCalls != 0 {
		t.Fatalf("cash payment touched the provider")
	}
	if payment.StripeID != nil {
		t.Fatalf("cash payment carries external reference %q", *payment.StripeID)
	}
	if _, ok := repo.payments[payment.ID]; !ok {
		t.Fatalf("payment not persisted")
	}
}

func TestCreateBankTransferRegistersIntent(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{intentID: "stripe123"}
	svc := NewService(repo, provider)

	payment, err := svc.Create(context.Background(), "u1", "u1@example.com", CreatePaymentRequest{
		Amount: 5000,
		Method: MethodBankTransfer,
	})
	if err != nil {
		t.Fatalf("create bank transfer: %v", err)
	}

	if provider.createCalls != 1 {
		t.Fatalf("expected 1 provider call, got %d", provider.createCalls)
	}
	if provider.lastDesc != "Payment for user: u1@example.com" {
		t.Fatalf("unexpected intent description %q", provider.lastDesc)
	}
	if payment.StripeID == nil || *payment.StripeID != "stripe123" {
		t.Fatalf("intent reference not stored: %v", payment.StripeID)
	}
}

func TestCreateUnknownMethodTouchesNothing(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{intentID: "stripe123"}
	svc := NewService(repo, provider)

	_, err := svc.Create(context.Background(), "u1", "u1@example.com", CreatePaymentRequest{
		Amount: 5000,
		Method: "CRYPTO",
	})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if provider.createCalls != 0 {
		t.Fatalf("unknown method reached the provider")
	}
	if len(repo.payments) != 0 {
		t.Fatalf("unknown method persisted a row")
	}
}

func TestCreateBankTransferProviderFailureNotPersisted(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{createErr: &ProviderError{Message: "card declined"}}
	svc := NewService(repo, provider)

	_, err := svc.Create(context.Background(), "u1", "u1@example.com", CreatePaymentRequest{
		Amount: 5000,
		Method: MethodBankTransfer,
	})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if len(repo.payments) != 0 {
		t.Fatalf("failed intent still persisted a payment")
	}
}

func TestIntentForCashPaymentRejected(t *testing.T) {
	repo := newFakeRepo()
	repo.payments["p1"] = &Payment{ID: "p1", UserID: "u1", Method: MethodCash}
	provider := &fakeProvider{}
	svc := NewService(repo, provider)

	_, err := svc.IntentForPayment(context.Background(), "p1")
	if !errors.Is(err, ErrNoExternalReference) {
		t.Fatalf("expected ErrNoExternalReference, got %v", err)
	}
	if provider.retrieveCalls != 0 {
		t.Fatalf("provider queried for a payment without reference")
	}
}

func TestIntentForMissingPayment(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeProvider{})

	_, err := svc.IntentForPayment(context.Background(), "missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIntentForPaymentReturnsProviderView(t *testing.T) {
	repo := newFakeRepo()
	ref := "stripe123"
	repo.payments["p1"] = &Payment{
		ID:       "p1",
		UserID:   "u1",
		Method:   MethodBankTransfer,
		StripeID: &ref,
	}
	provider := &fakeProvider{status: &IntentStatus{
		ID:       "stripe123",
		Status:   "requires_payment_method",
		Amount:   5000,
		Currency: "usd",
	}}
	svc := NewService(repo, provider)

	intent, err := svc.IntentForPayment(context.Background(), "p1")
	if err != nil {
		t.Fatalf("intent for payment: %v", err)
	}
	if intent.ID != "stripe123" || intent.Currency != "usd" {
		t.Fatalf("unexpected intent %+v", intent)
	}
}

func TestIntentLookupFailurePropagatesProviderDetail(t *testing.T) {
	repo := newFakeRepo()
	ref := "stripe123"
	repo.payments["p1"] = &Payment{ID: "p1", Method: MethodBankTransfer, StripeID: &ref}
	provider := &fakeProvider{retrieveErr: fmt.Errorf(
		"retrieve payment intent: %w",
		&ProviderError{Message: "No such payment_intent"},
	)}
	svc := NewService(repo, provider)

	_, err := svc.IntentForPayment(context.Background(), "p1")

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.Message != "No such payment_intent" {
		t.Fatalf("provider detail lost: %q", provErr.Message)
	}
}
