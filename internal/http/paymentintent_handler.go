package http

import (
	"encoding/json"
	"net/http"

	"github.com/Pu11en/peptide-website/internal/payments"
)

// minIntentAmountCents mirrors the provider's minimum chargeable amount.
const minIntentAmountCents int64 = 50

type PaymentIntentHandler struct {
	gateway payments.Gateway
}

func NewPaymentIntentHandler(gateway payments.Gateway) *PaymentIntentHandler {
	return &PaymentIntentHandler{gateway: gateway}
}

type paymentIntentRequestDTO struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type paymentIntentResponseDTO struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// POST /api/payment-intent
func (h *PaymentIntentHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	if h.gateway == nil {
		respondError(w, http.StatusInternalServerError, "Stripe not configured")
		return
	}

	var req paymentIntentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Amount < minIntentAmountCents {
		respondValidationError(w, "Invalid payment intent data", []FieldIssue{
			{Field: "amount", Message: "amount must be at least 50 minor units"},
		})
		return
	}
	if req.Currency == "" {
		req.Currency = "usd"
	}

	intent, err := h.gateway.CreatePaymentIntent(r.Context(), req.Amount, req.Currency, req.Metadata)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, paymentIntentResponseDTO{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	})
}
