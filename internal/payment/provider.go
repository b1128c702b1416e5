// AngelaMos | 2026
// provider.go

package payment

import (
	"context"
)

// IntentStatus is the provider-side view of a payment intent, returned
// verbatim to moderators inspecting a payment.
type IntentStatus struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	ClientSecret string `json:"client_secret,omitempty"`
}

// Provider is the external payment processor. Bank transfer payments
// create an intent before the row is persisted; cash payments never
// touch the provider.
type Provider interface {
	CreateIntent(
		ctx context.Context,
		amount int64,
		description string,
	) (string, error)
	RetrieveIntent(ctx context.Context, id string) (*IntentStatus, error)
}

// ProviderError carries the processor's human-readable failure detail
// through to the response body.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}
