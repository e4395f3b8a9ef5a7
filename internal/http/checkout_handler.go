package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strconv"

	"github.com/Pu11en/peptide-website/internal/checkout"
	"github.com/Pu11en/peptide-website/internal/payments"
	"github.com/Pu11en/peptide-website/internal/pricing"
)

type CheckoutHandler struct {
	service *checkout.Service
}

func NewCheckoutHandler(service *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

type checkoutItemDTO struct {
	Slug     string `json:"slug"`
	Quantity int    `json:"quantity"`
	Size     string `json:"size,omitempty"`
}

type createCheckoutRequestDTO struct {
	Items    []checkoutItemDTO  `json:"items"`
	Customer *checkout.Customer `json:"customer"`
	// Raw so a non-numeric value degrades to the default instead of
	// failing the whole decode.
	ShippingCents json.RawMessage `json:"shippingCents"`
}

type createCheckoutResponseDTO struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// POST /api/create-checkout
func (h *CheckoutHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req createCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if issues := validateItems(req.Items); len(issues) > 0 {
		respondValidationError(w, "Invalid items payload", issues)
		return
	}
	if req.Customer != nil {
		if issues := validateCustomer(req.Customer); len(issues) > 0 {
			respondValidationError(w, "Invalid customer payload", issues)
			return
		}
	}

	items := make([]pricing.Request, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, pricing.Request{Slug: it.Slug, Quantity: it.Quantity, Size: it.Size})
	}

	session, err := h.service.CreateSession(r.Context(), &checkout.Request{
		Items:         items,
		Customer:      req.Customer,
		ShippingCents: shippingCents(req.ShippingCents),
	})
	if err != nil {
		respondCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, createCheckoutResponseDTO{URL: session.URL, SessionID: session.ID})
}

func respondCheckoutError(w http.ResponseWriter, err error) {
	var unknown *pricing.UnknownProductError
	switch {
	case errors.Is(err, payments.ErrNotConfigured):
		respondError(w, http.StatusInternalServerError, "Stripe not configured")
	case errors.As(err, &unknown):
		respondError(w, http.StatusBadRequest, "Unknown product: "+unknown.Slug)
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// shippingCents applies the documented default when the field is absent
// or not a non-negative number. Unmarshalling null into an int64 is a
// silent no-op, so null has to be caught before decoding.
func shippingCents(raw json.RawMessage) int64 {
	if len(raw) == 0 || string(raw) == "null" {
		return checkout.DefaultShippingCents
	}
	var v int64
	if err := json.Unmarshal(raw, &v); err != nil || v < 0 {
		return checkout.DefaultShippingCents
	}
	return v
}

func validateItems(items []checkoutItemDTO) []FieldIssue {
	var issues []FieldIssue
	if items == nil {
		return []FieldIssue{{Field: "items", Message: "items array is required"}}
	}
	for i, it := range items {
		if it.Slug == "" {
			issues = append(issues, FieldIssue{Field: itemField(i, "slug"), Message: "slug is required"})
		}
		if it.Quantity < 1 {
			issues = append(issues, FieldIssue{Field: itemField(i, "quantity"), Message: "quantity must be an integer >= 1"})
		}
	}
	return issues
}

// validateCustomer enforces complete-or-absent: a partial customer record
// is rejected rather than silently truncated.
func validateCustomer(c *checkout.Customer) []FieldIssue {
	var issues []FieldIssue
	if c.Name == "" {
		issues = append(issues, FieldIssue{Field: "customer.name", Message: "name is required"})
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		issues = append(issues, FieldIssue{Field: "customer.email", Message: "valid email is required"})
	}
	if c.Phone == "" {
		issues = append(issues, FieldIssue{Field: "customer.phone", Message: "phone is required"})
	}
	addressFields := map[string]string{
		"street":  c.Address.Street,
		"city":    c.Address.City,
		"state":   c.Address.State,
		"zip":     c.Address.Zip,
		"country": c.Address.Country,
	}
	for _, field := range []string{"street", "city", "state", "zip", "country"} {
		if addressFields[field] == "" {
			issues = append(issues, FieldIssue{Field: "customer.address." + field, Message: field + " is required"})
		}
	}
	return issues
}

func itemField(i int, name string) string {
	return "items[" + strconv.Itoa(i) + "]." + name
}
