package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pu11en/peptide-website/internal/catalog"
	"github.com/Pu11en/peptide-website/internal/checkout"
	"github.com/Pu11en/peptide-website/internal/payments"
	"github.com/Pu11en/peptide-website/internal/pricing"
)

func newCheckoutHandler(gateway payments.Gateway) *CheckoutHandler {
	resolver := pricing.NewResolver(nil, catalog.NewStaticCatalog())
	return NewCheckoutHandler(checkout.NewService(resolver, gateway, "http://localhost:3001"))
}

func postJSON(t *testing.T, handler http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestCreateCheckout_Success(t *testing.T) {
	gateway := &gatewayMock{}
	handler := newCheckoutHandler(gateway)

	rec := postJSON(t, handler.CreateCheckout, "/api/create-checkout",
		`{"items":[{"slug":"reta","quantity":2,"size":"15mg"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp createCheckoutResponseDTO
	decodeBody(t, rec, &resp)
	assert.Equal(t, "cs_test_mock", resp.SessionID)
	assert.Equal(t, "https://checkout.example.com/cs_test_mock", resp.URL)
}

func TestCreateCheckout_OmittedShippingDefaultsToFlatFee(t *testing.T) {
	gateway := &gatewayMock{}
	handler := newCheckoutHandler(gateway)

	rec := postJSON(t, handler.CreateCheckout, "/api/create-checkout",
		`{"items":[{"slug":"ghk","quantity":1,"size":"50mg"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	input := gateway.lastSessionInput
	require.NotNil(t, input)

	shipping := input.LineItems[len(input.LineItems)-1]
	assert.Equal(t, "Flat Shipping", shipping.Name)
	assert.Equal(t, int64(1000), shipping.UnitCents)
}

func TestCreateCheckout_NonNumericShippingDefaultsToFlatFee(t *testing.T) {
	gateway := &gatewayMock{}
	handler := newCheckoutHandler(gateway)

	rec := postJSON(t, handler.CreateCheckout, "/api/create-checkout",
		`{"items":[{"slug":"ghk","quantity":1}],"shippingCents":"free"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	shipping := gateway.lastSessionInput.LineItems[len(gateway.lastSessionInput.LineItems)-1]
	assert.Equal(t, int64(1000), shipping.UnitCents)
}

func TestCreateCheckout_NullShippingDefaultsToFlatFee(t *testing.T) {
	gateway := &gatewayMock{}
	handler := newCheckoutHandler(gateway)

	rec := postJSON(t, handler.CreateCheckout, "/api/create-checkout",
		`{"items":[{"slug":"ghk","quantity":1}],"shippingCents":null}`)

	require.Equal(t, http.StatusOK, rec.Code)
	shipping := gateway.lastSessionInput.LineItems[len(gateway.lastSessionInput.LineItems)-1]
	assert.Equal(t, int64(1000), shipping.UnitCents)
}

func TestCreateCheckout_UnknownSlugRejected(t *testing.T) {
	gateway := &gatewayMock{}
	handler := newCheckoutHandler(gateway)

	rec := postJSON(t, handler.CreateCheckout, "/api/create-checkout",
		`{"items":[{"slug":"no-such-product","quantity":1}]}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Unknown product: no-such-product", resp.Error)
	assert.Nil(t, gateway.lastSessionInput)
}

func TestCreateCheckout_InvalidItems(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing items", `{}`},
		{"empty slug", `{"items":[{"slug":"","quantity":1}]}`},
		{"zero quantity", `{"items":[{"slug":"reta","quantity":0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &gatewayMock{}
			handler := newCheckoutHandler(gateway)

			rec := postJSON(t, handler.CreateCheckout, "/api/create-checkout", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp ErrorResponse
			decodeBody(t, rec, &resp)
			assert.NotEmpty(t, resp.Issues)
			assert.Nil(t, gateway.lastSessionInput)
		})
	}
}

func TestCreateCheckout_PartialCustomerRejected(t *testing.T) {
	gateway := &gatewayMock{}
	handler := newCheckoutHandler(gateway)

	// Name only; email, phone and address missing.
	rec := postJSON(t, handler.CreateCheckout, "/api/create-checkout",
		`{"items":[{"slug":"reta","quantity":1}],"customer":{"name":"Jane Doe"}}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Invalid customer payload", resp.Error)

	fields := make(map[string]bool, len(resp.Issues))
	for _, issue := range resp.Issues {
		fields[issue.Field] = true
	}
	assert.True(t, fields["customer.email"])
	assert.True(t, fields["customer.phone"])
	assert.True(t, fields["customer.address.street"])
	assert.Nil(t, gateway.lastSessionInput)
}

func TestCreateCheckout_NilGateway(t *testing.T) {
	handler := newCheckoutHandler(nil)

	rec := postJSON(t, handler.CreateCheckout, "/api/create-checkout",
		`{"items":[{"slug":"reta","quantity":1}]}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Stripe not configured", resp.Error)
}

func TestCreateCheckout_MalformedJSON(t *testing.T) {
	handler := newCheckoutHandler(&gatewayMock{})

	rec := postJSON(t, handler.CreateCheckout, "/api/create-checkout", `{"items":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
