package payments

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v82"
)

// ErrNotConfigured is returned when a payment operation is attempted
// without a provider secret key.
var ErrNotConfigured = errors.New("stripe not configured")

// LineItem is one priced entry sent to the provider's hosted checkout.
type LineItem struct {
	Name      string
	UnitCents int64
	Quantity  int64
	ImageURL  string
	Metadata  map[string]string
}

// SessionInput carries everything needed to create a hosted checkout
// session. Metadata round-trips the order contents back through the
// provider to the webhook handler.
type SessionInput struct {
	LineItems             []LineItem
	Metadata              map[string]string
	CustomerEmail         string
	SuccessURL            string
	CancelURL             string
	CollectBillingAddress bool
}

// Session is the normalized view of a provider checkout session used by
// the checkout and verification endpoints.
type Session struct {
	ID              string
	URL             string
	PaymentStatus   string
	PaymentIntentID string
	AmountTotal     int64
	AmountSubtotal  int64
	Currency        string
	CustomerEmail   string
	CustomerName    string
	CustomerPhone   string
	BillingAddress  *Address
	Metadata        map[string]string
}

// Address is the billing address the customer entered on the hosted
// page, in the provider's line-oriented shape.
type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

type Intent struct {
	ID           string
	ClientSecret string
}

// Gateway abstracts the payment provider so handlers can be exercised
// with mocks.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, input *SessionInput) (*Session, error)
	GetCheckoutSession(ctx context.Context, id string) (*Session, error)
	CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error)
	VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error)
}
