package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Pu11en/peptide-website/internal/checkout"
	"github.com/Pu11en/peptide-website/internal/payments"
)

// VerifyHandler lets the success page confirm payment state for display.
// It is purely a read endpoint; order persistence already happened on the
// webhook path.
type VerifyHandler struct {
	gateway payments.Gateway
}

func NewVerifyHandler(gateway payments.Gateway) *VerifyHandler {
	return &VerifyHandler{gateway: gateway}
}

type sessionSummaryDTO struct {
	ID            string `json:"id"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
	PaymentStatus string `json:"payment_status"`
}

type orderSummaryDTO struct {
	StripeSessionID       string            `json:"stripeSessionId"`
	StripePaymentIntentID string            `json:"stripePaymentIntentId"`
	CustomerEmail         string            `json:"customerEmail"`
	CustomerName          string            `json:"customerName"`
	CustomerPhone         string            `json:"customerPhone"`
	AmountTotal           int64             `json:"amountTotal"`
	AmountSubtotal        int64             `json:"amountSubtotal"`
	Currency              string            `json:"currency"`
	PaymentStatus         string            `json:"paymentStatus"`
	Items                 []metadataItemDTO `json:"items"`
	ShippingAddress       *checkout.Address `json:"shippingAddress"`
	BillingAddress        *payments.Address `json:"billingAddress"`
}

type verifyResponseDTO struct {
	Success bool               `json:"success"`
	Session *sessionSummaryDTO `json:"session,omitempty"`
	Order   *orderSummaryDTO   `json:"order,omitempty"`
	Status  string             `json:"status,omitempty"`
}

// GET /api/verify-payment?session_id=
func (h *VerifyHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	if h.gateway == nil {
		respondError(w, http.StatusInternalServerError, "Stripe not configured")
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "Missing session_id")
		return
	}

	session, err := h.gateway.GetCheckoutSession(r.Context(), sessionID)
	if err != nil {
		log.Printf("payment verification error: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Not an error: the success page polls until the payment settles.
	if session.PaymentStatus != "paid" {
		respondJSON(w, http.StatusOK, verifyResponseDTO{Success: false, Status: session.PaymentStatus})
		return
	}

	var items []metadataItemDTO
	if raw := session.Metadata["items"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			log.Printf("failed to parse items metadata: %v", err)
		}
	}
	var shippingAddress *checkout.Address
	if raw := session.Metadata["shippingAddress"]; raw != "" {
		var addr checkout.Address
		if err := json.Unmarshal([]byte(raw), &addr); err != nil {
			log.Printf("failed to parse shipping address metadata: %v", err)
		} else {
			shippingAddress = &addr
		}
	}

	email := session.CustomerEmail
	if email == "" {
		email = session.Metadata["customerEmail"]
	}
	name := session.CustomerName
	if name == "" {
		name = session.Metadata["customerName"]
	}
	phone := session.CustomerPhone
	if phone == "" {
		phone = session.Metadata["customerPhone"]
	}

	respondJSON(w, http.StatusOK, verifyResponseDTO{
		Success: true,
		Session: &sessionSummaryDTO{
			ID:            session.ID,
			AmountTotal:   session.AmountTotal,
			Currency:      session.Currency,
			CustomerEmail: email,
			CustomerName:  name,
			PaymentStatus: session.PaymentStatus,
		},
		Order: &orderSummaryDTO{
			StripeSessionID:       session.ID,
			StripePaymentIntentID: session.PaymentIntentID,
			CustomerEmail:         email,
			CustomerName:          name,
			CustomerPhone:         phone,
			AmountTotal:           session.AmountTotal,
			AmountSubtotal:        session.AmountSubtotal,
			Currency:              session.Currency,
			PaymentStatus:         session.PaymentStatus,
			Items:                 items,
			ShippingAddress:       shippingAddress,
			BillingAddress:        session.BillingAddress,
		},
	})
}
