package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/Pu11en/peptide-website/internal/catalog"
	"github.com/Pu11en/peptide-website/internal/payments"
	"github.com/Pu11en/peptide-website/internal/pricing"
)

type mockGateway struct {
	lastInput *payments.SessionInput
	session   *payments.Session
	err       error
}

func (m *mockGateway) CreateCheckoutSession(_ context.Context, input *payments.SessionInput) (*payments.Session, error) {
	m.lastInput = input
	if m.err != nil {
		return nil, m.err
	}
	if m.session != nil {
		return m.session, nil
	}
	return &payments.Session{ID: "cs_test_abc", URL: "https://checkout.example.com/cs_test_abc"}, nil
}

func (m *mockGateway) GetCheckoutSession(context.Context, string) (*payments.Session, error) {
	return nil, errors.New("not implemented")
}

func (m *mockGateway) CreatePaymentIntent(context.Context, int64, string, map[string]string) (*payments.Intent, error) {
	return nil, errors.New("not implemented")
}

func (m *mockGateway) VerifyWebhook([]byte, string) (stripe.Event, error) {
	return stripe.Event{}, errors.New("not implemented")
}

func newTestService(gateway payments.Gateway) *Service {
	resolver := pricing.NewResolver(nil, catalog.NewStaticCatalog())
	return NewService(resolver, gateway, "http://localhost:3001/")
}

func TestCreateSession_RepricesAndAppendsShipping(t *testing.T) {
	gateway := &mockGateway{}
	svc := newTestService(gateway)

	session, err := svc.CreateSession(context.Background(), &Request{
		Items: []pricing.Request{
			{Slug: "reta", Quantity: 2, Size: "15mg"},
			{Slug: "ghk", Quantity: 1, Size: "50mg"},
		},
		ShippingCents: -1,
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_test_abc", session.ID)

	input := gateway.lastInput
	require.NotNil(t, input)
	require.Len(t, input.LineItems, 3)

	assert.Equal(t, int64(14000), input.LineItems[0].UnitCents)
	assert.Equal(t, int64(2), input.LineItems[0].Quantity)
	assert.Equal(t, int64(5000), input.LineItems[1].UnitCents)

	shipping := input.LineItems[2]
	assert.Equal(t, "Flat Shipping", shipping.Name)
	assert.Equal(t, DefaultShippingCents, shipping.UnitCents)
	assert.Equal(t, int64(1), shipping.Quantity)
}

func TestCreateSession_ExplicitShippingOverridesDefault(t *testing.T) {
	gateway := &mockGateway{}
	svc := newTestService(gateway)

	_, err := svc.CreateSession(context.Background(), &Request{
		Items:         []pricing.Request{{Slug: "nad", Quantity: 1, Size: "100mg"}},
		ShippingCents: 2500,
	})

	require.NoError(t, err)
	shipping := gateway.lastInput.LineItems[len(gateway.lastInput.LineItems)-1]
	assert.Equal(t, int64(2500), shipping.UnitCents)
}

func TestCreateSession_MetadataRoundTripsOrderShape(t *testing.T) {
	gateway := &mockGateway{}
	svc := newTestService(gateway)

	_, err := svc.CreateSession(context.Background(), &Request{
		Items: []pricing.Request{
			{Slug: "reta", Quantity: 2, Size: "15mg"},
			{Slug: "mots-c", Quantity: 1, Size: "10mg"},
		},
		Customer: &Customer{
			Name:  "Jane Doe",
			Email: "jane@example.com",
			Phone: "+15555550123",
			Address: Address{
				Street:  "1 Research Way",
				City:    "Austin",
				State:   "TX",
				Zip:     "78701",
				Country: "US",
			},
		},
		ShippingCents: -1,
	})
	require.NoError(t, err)

	input := gateway.lastInput
	require.NotNil(t, input)

	var items []metadataItem
	require.NoError(t, json.Unmarshal([]byte(input.Metadata["items"]), &items))
	require.Len(t, items, 2)
	assert.Equal(t, metadataItem{Slug: "reta", Qty: 2, Size: "15mg"}, items[0])
	assert.Equal(t, metadataItem{Slug: "mots-c", Qty: 1, Size: "10mg"}, items[1])

	assert.Equal(t, "Jane Doe", input.Metadata["customerName"])
	assert.Equal(t, "+15555550123", input.Metadata["customerPhone"])

	var addr Address
	require.NoError(t, json.Unmarshal([]byte(input.Metadata["shippingAddress"]), &addr))
	assert.Equal(t, "Austin", addr.City)

	assert.Equal(t, "jane@example.com", input.CustomerEmail)
	assert.True(t, input.CollectBillingAddress)
}

func TestCreateSession_URLs(t *testing.T) {
	gateway := &mockGateway{}
	svc := newTestService(gateway)

	_, err := svc.CreateSession(context.Background(), &Request{
		Items:         []pricing.Request{{Slug: "ghk", Quantity: 1}},
		ShippingCents: -1,
	})
	require.NoError(t, err)

	input := gateway.lastInput
	assert.Equal(t, "http://localhost:3001/success-payment?session_id={CHECKOUT_SESSION_ID}", input.SuccessURL)
	assert.Equal(t, "http://localhost:3001/?canceled=1", input.CancelURL)
}

func TestCreateSession_UnknownProductFailsWholeRequest(t *testing.T) {
	gateway := &mockGateway{}
	svc := newTestService(gateway)

	_, err := svc.CreateSession(context.Background(), &Request{
		Items: []pricing.Request{
			{Slug: "reta", Quantity: 1, Size: "10mg"},
			{Slug: "no-such-product", Quantity: 1},
		},
	})

	var unknown *pricing.UnknownProductError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "no-such-product", unknown.Slug)
	assert.Nil(t, gateway.lastInput)
}

func TestCreateSession_NilGateway(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.CreateSession(context.Background(), &Request{
		Items: []pricing.Request{{Slug: "reta", Quantity: 1}},
	})
	assert.ErrorIs(t, err, payments.ErrNotConfigured)
}

func TestAbsoluteImageURL(t *testing.T) {
	svc := newTestService(nil)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"relative path", "/images/reta.webp", "http://localhost:3001/images/reta.webp"},
		{"missing leading slash", "images/reta.webp", "http://localhost:3001/images/reta.webp"},
		{"spaces percent encoded", "/images/GHK-Cu 50mg.png", "http://localhost:3001/images/GHK-Cu%2050mg.png"},
		{"already absolute", "https://cdn.example.com/reta.webp", "https://cdn.example.com/reta.webp"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.absoluteImageURL(tt.path))
		})
	}
}
