package http

import (
	"log"
	"net/http"

	"github.com/Pu11en/peptide-website/internal/catalog"
	"github.com/Pu11en/peptide-website/internal/domain"
	"github.com/Pu11en/peptide-website/internal/pricing"
)

type ProductsHandler struct {
	db     catalog.Provider
	static catalog.Provider
}

// NewProductsHandler serves the catalog from the database when one is
// configured, static list otherwise. db may be nil.
func NewProductsHandler(db, static catalog.Provider) *ProductsHandler {
	return &ProductsHandler{db: db, static: static}
}

type VariantResponse struct {
	Size       string `json:"size"`
	PriceCents int64  `json:"priceCents"`
}

type ProductResponse struct {
	Slug       string            `json:"slug"`
	Name       string            `json:"name"`
	PriceCents int64             `json:"priceCents"`
	ImagePath  string            `json:"imagePath,omitempty"`
	Category   string            `json:"category,omitempty"`
	Sizes      []VariantResponse `json:"sizes,omitempty"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	var products []*domain.Product
	var err error

	if h.db != nil {
		products, err = h.db.List(r.Context())
		if err != nil {
			log.Printf("database product listing failed, falling back to static catalog: %v", err)
			products = nil
		}
	}
	if products == nil {
		products, err = h.static.List(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to list products")
			return
		}
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		pr := ProductResponse{
			Slug:       p.Slug,
			Name:       p.Name,
			PriceCents: pricing.UnitCents(p.Price),
			ImagePath:  p.Image,
			Category:   p.Category,
		}
		for _, v := range p.Sizes {
			pr.Sizes = append(pr.Sizes, VariantResponse{Size: v.Size, PriceCents: pricing.UnitCents(v.Price)})
		}
		out = append(out, pr)
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: out})
}
