package http

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/stripe/stripe-go/v82"

	"github.com/Pu11en/peptide-website/internal/orders"
	"github.com/Pu11en/peptide-website/internal/payments"
	"github.com/Pu11en/peptide-website/internal/pricing"
)

const maxWebhookBodyBytes = 1 << 20 // 1MB

// WebhookHandler reconciles inbound payment provider events into order
// records. Signature verification is the only authentication this
// endpoint has; once it passes, the response is always 200 so the
// provider never retry-storms over downstream failures.
type WebhookHandler struct {
	gateway  payments.Gateway
	recorder *orders.Recorder
}

func NewWebhookHandler(gateway payments.Gateway, recorder *orders.Recorder) *WebhookHandler {
	return &WebhookHandler{gateway: gateway, recorder: recorder}
}

// POST /api/stripe/webhook
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if h.gateway == nil {
		respondError(w, http.StatusInternalServerError, "Webhook secret not configured")
		return
	}

	sig := r.Header.Get("Stripe-Signature")
	if sig == "" {
		respondError(w, http.StatusBadRequest, "Missing Stripe signature")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	event, err := h.gateway.VerifyWebhook(body, sig)
	if err != nil {
		log.Printf("webhook signature verification failed: %v", err)
		respondError(w, http.StatusBadRequest, "Webhook signature verification failed: "+err.Error())
		return
	}

	log.Printf("received webhook event: %s", event.Type)

	switch event.Type {
	case "checkout.session.completed":
		h.handleSessionCompleted(r.Context(), event)
	case "checkout.session.expired":
		h.logSessionID("checkout session expired", event)
	case "payment_intent.succeeded":
		h.handlePaymentSucceeded(r.Context(), event)
	case "payment_intent.payment_failed":
		h.handlePaymentFailed(event)
	case "payment_intent.requires_action":
		h.logIntentID("payment requires action", event)
	default:
		log.Printf("unhandled event type: %s", event.Type)
	}

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *WebhookHandler) handleSessionCompleted(ctx context.Context, event stripe.Event) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Printf("failed to parse checkout session payload: %v", err)
		return
	}
	log.Printf("checkout session completed: %s", session.ID)

	items, ok := parseMetadataItems(session.Metadata["items"])
	if !ok {
		return
	}

	// Prefer what the customer actually entered at checkout over the
	// email the session was created with.
	email := "unknown@example.com"
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		email = session.CustomerDetails.Email
	} else if session.CustomerEmail != "" {
		email = session.CustomerEmail
	}

	if _, err := h.recorder.Record(ctx, &orders.RecordRequest{
		Email:    email,
		Items:    items,
		Metadata: map[string]any{"sessionId": session.ID},
	}); err != nil {
		// Deliberate: the provider still gets a 200.
		log.Printf("error handling checkout session completed: %v", err)
	}
}

func (h *WebhookHandler) handlePaymentSucceeded(ctx context.Context, event stripe.Event) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		log.Printf("failed to parse payment intent payload: %v", err)
		return
	}
	log.Printf("payment succeeded: %s", intent.ID)

	items, ok := parseMetadataItems(intent.Metadata["items"])
	if !ok {
		return
	}

	email := intent.ReceiptEmail
	if email == "" {
		email = "unknown@example.com"
	}

	if _, err := h.recorder.Record(ctx, &orders.RecordRequest{
		Email: email,
		Items: items,
		Metadata: map[string]any{
			"paymentIntentId": intent.ID,
			"amount":          intent.Amount,
			"currency":        string(intent.Currency),
		},
	}); err != nil {
		log.Printf("error handling payment succeeded: %v", err)
	}
}

func (h *WebhookHandler) handlePaymentFailed(event stripe.Event) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		log.Printf("failed to parse payment intent payload: %v", err)
		return
	}
	log.Printf("payment failed: %s", intent.ID)
	if intent.LastPaymentError != nil {
		log.Printf("failure reason: %s", intent.LastPaymentError.Msg)
	}
	// No customer notification or retry; log only.
}

func (h *WebhookHandler) logSessionID(msg string, event stripe.Event) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Printf("failed to parse checkout session payload: %v", err)
		return
	}
	log.Printf("%s: %s", msg, session.ID)
}

func (h *WebhookHandler) logIntentID(msg string, event stripe.Event) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		log.Printf("failed to parse payment intent payload: %v", err)
		return
	}
	log.Printf("%s: %s", msg, intent.ID)
}

type metadataItemDTO struct {
	Slug string `json:"slug"`
	Qty  int    `json:"qty"`
	Size string `json:"size,omitempty"`
}

// parseMetadataItems decodes the compact items JSON round-tripped through
// session/intent metadata. An absent or malformed value means there is
// nothing to record.
func parseMetadataItems(raw string) ([]pricing.Request, bool) {
	if raw == "" {
		return nil, false
	}
	var parsed []metadataItemDTO
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Printf("failed to parse items metadata: %v", err)
		return nil, false
	}
	items := make([]pricing.Request, 0, len(parsed))
	for _, it := range parsed {
		items = append(items, pricing.Request{Slug: it.Slug, Quantity: it.Qty, Size: it.Size})
	}
	return items, true
}
