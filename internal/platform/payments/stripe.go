package payments

import (
	"context"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Intent is the only thing the core needs back from the payment provider.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
}

// IntentCreator creates a payment intent for a booking price. The provider
// handles the rest of the payment flow client-side.
type IntentCreator interface {
	CreateIntent(ctx context.Context, price float64) (*Intent, error)
}

type StripeClient struct {
	api *client.API
}

func NewStripeClient(secretKey string) *StripeClient {
	return &StripeClient{api: client.New(secretKey, nil)}
}

func (s *StripeClient) CreateIntent(ctx context.Context, price float64) (*Intent, error) {
	amount := int64(math.Round(price * 100))

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, err
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       amount,
		Currency:     string(stripe.CurrencyUSD),
	}, nil
}
