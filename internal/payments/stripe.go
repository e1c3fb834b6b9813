package payments

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"ms-bakery/internal/logger"
	"ms-bakery/internal/models"
	"ms-bakery/internal/utils"
)

var ErrStripeClientInitFailed = errors.New("failed to initialize Stripe client")

// IntentResult is what the gateway reports back for a deposit attempt.
type IntentResult struct {
	IntentID     string
	ClientSecret string
	Status       string
}

// Gateway charges deposits. StripeGateway talks to the real API; the mock
// gateway stands in for it in development and tests.
type Gateway interface {
	CreateDepositIntent(paymentID, orderID string, amount float64, currency string) (*IntentResult, error)
}

// StripeGateway creates payment intents for cake deposits.
type StripeGateway struct {
	client *client.API
	log    *logger.Logger
}

func NewStripeGateway(secretKey string, log *logger.Logger) (*StripeGateway, error) {
	if secretKey == "" {
		log.Error("STRIPE", "Stripe secret key not configured")
		return nil, ErrStripeClientInitFailed
	}

	sc := client.New(secretKey, nil)
	if sc == nil {
		log.Error("STRIPE", "Failed to initialize Stripe client")
		return nil, ErrStripeClientInitFailed
	}

	log.Info("STRIPE", "Stripe client initialized successfully")
	return &StripeGateway{client: sc, log: log}, nil
}

func (g *StripeGateway) CreateDepositIntent(paymentID, orderID string, amount float64, currency string) (*IntentResult, error) {
	// Stripe wants the smallest currency unit
	amountInCents := int64(amount * 100)

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amountInCents),
		Currency:    stripe.String(currency),
		Description: stripe.String("Cake order deposit"),
		Metadata: map[string]string{
			"payment_id": paymentID,
			"order_id":   orderID,
		},
		PaymentMethodTypes: []*string{stripe.String("card")},
	}

	g.log.Info("STRIPE", fmt.Sprintf("Creating deposit intent for order %s (paymentID: %s)", orderID, paymentID))
	pi, err := g.client.PaymentIntents.New(params)
	if err != nil {
		g.log.Error("STRIPE", fmt.Sprintf("Failed to create payment intent: %v", err))
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	status := models.PaymentPending
	if pi.Status == stripe.PaymentIntentStatusSucceeded {
		status = models.PaymentSucceeded
	}

	return &IntentResult{
		IntentID:     pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       status,
	}, nil
}

// MockGateway approves every deposit immediately. Used when Stripe is
// disabled so the back office works without a gateway account.
type MockGateway struct{}

func (MockGateway) CreateDepositIntent(paymentID, orderID string, amount float64, currency string) (*IntentResult, error) {
	return &IntentResult{
		IntentID: "mock_" + utils.GeneratePaymentID(),
		Status:   models.PaymentSucceeded,
	}, nil
}
