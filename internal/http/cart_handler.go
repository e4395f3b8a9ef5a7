package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Pu11en/peptide-website/internal/cart"
)

// cartTokenHeader identifies a server-side cart session. The server
// issues a token on the first write and the client echoes it back.
const cartTokenHeader = "X-Cart-Token"

type CartHandler struct {
	service *cart.Service
}

func NewCartHandler(service *cart.Service) *CartHandler {
	return &CartHandler{service: service}
}

type addCartItemRequestDTO struct {
	Slug     string  `json:"slug"`
	Name     string  `json:"name"`
	Size     string  `json:"size,omitempty"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	Quantity int     `json:"quantity"`
}

type updateCartItemRequestDTO struct {
	Quantity int `json:"quantity"`
}

type cartResponseDTO struct {
	Token string      `json:"token"`
	Items []cart.Item `json:"items"`
	Total float64     `json:"total"`
}

func cartResponse(c *cart.Cart) cartResponseDTO {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	return cartResponseDTO{Token: c.Token, Items: items, Total: c.Total()}
}

// GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	token := h.token(w, r)
	c, err := h.service.GetCart(r.Context(), token)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(c))
}

// POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Slug == "" {
		respondError(w, http.StatusBadRequest, "slug is required")
		return
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "quantity must be between 1 and 99")
		return
	}

	token := h.token(w, r)
	c, err := h.service.AddItem(r.Context(), token, cart.Item{
		Slug:     req.Slug,
		Name:     req.Name,
		Size:     req.Size,
		Price:    req.Price,
		Image:    req.Image,
		Quantity: req.Quantity,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to add item")
		return
	}
	respondJSON(w, http.StatusCreated, cartResponse(c))
}

// PUT /api/cart/items/{slug}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	size := r.URL.Query().Get("size")

	var req updateCartItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "quantity must be between 0 and 99")
		return
	}

	token := h.token(w, r)
	c, err := h.service.UpdateQuantity(r.Context(), token, slug, size, req.Quantity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(c))
}

// DELETE /api/cart/items/{slug}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	size := r.URL.Query().Get("size")

	token := h.token(w, r)
	c, err := h.service.RemoveItem(r.Context(), token, slug, size)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to remove item")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(c))
}

// DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	token := h.token(w, r)
	if err := h.service.ClearCart(r.Context(), token); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	respondJSON(w, http.StatusOK, cartResponseDTO{Token: token, Items: []cart.Item{}})
}

// token returns the caller's cart token, minting one when absent. The
// token is always echoed back so the client can persist it.
func (h *CartHandler) token(w http.ResponseWriter, r *http.Request) string {
	token := r.Header.Get(cartTokenHeader)
	if token == "" {
		token = uuid.NewString()
	}
	w.Header().Set(cartTokenHeader, token)
	return token
}
