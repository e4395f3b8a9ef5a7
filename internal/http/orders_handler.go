package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/Pu11en/peptide-website/internal/orders"
	"github.com/Pu11en/peptide-website/internal/pricing"
)

type OrdersHandler struct {
	recorder *orders.Recorder
}

func NewOrdersHandler(recorder *orders.Recorder) *OrdersHandler {
	return &OrdersHandler{recorder: recorder}
}

type createOrderRequestDTO struct {
	Email    string            `json:"email"`
	Items    []checkoutItemDTO `json:"items"`
	Metadata map[string]any    `json:"metadata,omitempty"`
}

type createOrderResponseDTO struct {
	Success    bool   `json:"success"`
	OrderID    string `json:"orderId,omitempty"`
	TotalCents int64  `json:"totalCents"`
	Status     string `json:"status"`
	Persisted  bool   `json:"persisted"`
	UsingDB    bool   `json:"usingDb"`
}

// POST /api/orders
func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var issues []FieldIssue
	if _, err := mail.ParseAddress(req.Email); err != nil {
		issues = append(issues, FieldIssue{Field: "email", Message: "valid email is required"})
	}
	if len(req.Items) == 0 {
		issues = append(issues, FieldIssue{Field: "items", Message: "at least one item is required"})
	} else {
		issues = append(issues, validateItems(req.Items)...)
	}
	if len(issues) > 0 {
		respondValidationError(w, "Invalid payload", issues)
		return
	}

	items := make([]pricing.Request, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, pricing.Request{Slug: it.Slug, Quantity: it.Quantity, Size: it.Size})
	}

	result, err := h.recorder.Record(r.Context(), &orders.RecordRequest{
		Email:    req.Email,
		Items:    items,
		Metadata: req.Metadata,
	})
	if err != nil {
		var unknown *pricing.UnknownProductError
		if errors.As(err, &unknown) {
			respondError(w, http.StatusBadRequest, "Unknown product: "+unknown.Slug)
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, createOrderResponseDTO{
		Success:    true,
		OrderID:    result.OrderID,
		TotalCents: result.TotalCents,
		Status:     string(result.Status),
		Persisted:  result.Persisted,
		UsingDB:    result.UsingDB,
	})
}
