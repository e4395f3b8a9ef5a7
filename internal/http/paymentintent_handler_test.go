package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pu11en/peptide-website/internal/payments"
)

func TestCreatePaymentIntent_Success(t *testing.T) {
	var gotAmount int64
	var gotCurrency string
	gateway := &gatewayMock{
		createIntentFn: func(_ context.Context, amountCents int64, currency string, _ map[string]string) (*payments.Intent, error) {
			gotAmount = amountCents
			gotCurrency = currency
			return &payments.Intent{ID: "pi_test_1", ClientSecret: "pi_test_1_secret"}, nil
		},
	}
	handler := NewPaymentIntentHandler(gateway)

	rec := postJSON(t, handler.CreatePaymentIntent, "/api/payment-intent",
		`{"amount":11000,"currency":"usd"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(11000), gotAmount)
	assert.Equal(t, "usd", gotCurrency)

	var resp paymentIntentResponseDTO
	decodeBody(t, rec, &resp)
	assert.Equal(t, "pi_test_1", resp.PaymentIntentID)
	assert.Equal(t, "pi_test_1_secret", resp.ClientSecret)
}

func TestCreatePaymentIntent_CurrencyDefaultsToUSD(t *testing.T) {
	var gotCurrency string
	gateway := &gatewayMock{
		createIntentFn: func(_ context.Context, _ int64, currency string, _ map[string]string) (*payments.Intent, error) {
			gotCurrency = currency
			return &payments.Intent{ID: "pi_test_2", ClientSecret: "secret"}, nil
		},
	}
	handler := NewPaymentIntentHandler(gateway)

	rec := postJSON(t, handler.CreatePaymentIntent, "/api/payment-intent", `{"amount":5000}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "usd", gotCurrency)
}

func TestCreatePaymentIntent_AmountBelowMinimum(t *testing.T) {
	handler := NewPaymentIntentHandler(&gatewayMock{})

	for _, body := range []string{`{"amount":49}`, `{"amount":0}`, `{}`} {
		rec := postJSON(t, handler.CreatePaymentIntent, "/api/payment-intent", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)

		var resp ErrorResponse
		decodeBody(t, rec, &resp)
		require.NotEmpty(t, resp.Issues)
		assert.Equal(t, "amount", resp.Issues[0].Field)
	}
}

func TestCreatePaymentIntent_NilGateway(t *testing.T) {
	handler := NewPaymentIntentHandler(nil)

	rec := postJSON(t, handler.CreatePaymentIntent, "/api/payment-intent", `{"amount":5000}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Stripe not configured", resp.Error)
}
