// AngelaMos | 2026
// stripe.go

package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/carterperez-dev/courseware/internal/config"
)

// StripeProvider talks to Stripe with a bounded HTTP timeout so a slow
// processor cannot hold a request open indefinitely.
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(cfg config.StripeConfig) *StripeProvider {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})

	api := &client.API{}
	api.Init(cfg.SecretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})

	return &StripeProvider{api: api}
}

func (p *StripeProvider) CreateIntent(
	ctx context.Context,
	amount int64,
	description string,
) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		Description:        stripe.String(description),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}

	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return "", wrapStripeError("create payment intent", err)
	}

	return intent.ID, nil
}

func (p *StripeProvider) RetrieveIntent(
	ctx context.Context,
	id string,
) (*IntentStatus, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}

	intent, err := p.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, wrapStripeError("retrieve payment intent", err)
	}

	return &IntentStatus{
		ID:           intent.ID,
		Status:       string(intent.Status),
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
		ClientSecret: intent.ClientSecret,
	}, nil
}

func wrapStripeError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return fmt.Errorf("%s: %w", op, &ProviderError{Message: stripeErr.Msg})
	}
	return fmt.Errorf("%s: %w", op, &ProviderError{Message: err.Error()})
}

var _ Provider = (*StripeProvider)(nil)
