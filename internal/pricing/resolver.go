package pricing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/Pu11en/peptide-website/internal/catalog"
	"github.com/Pu11en/peptide-website/internal/domain"
)

// Request is one (slug, size, quantity) entry to be priced.
type Request struct {
	Slug     string `json:"slug"`
	Quantity int    `json:"quantity"`
	Size     string `json:"size,omitempty"`
}

// Line is a resolved line item in integer minor-currency units.
type Line struct {
	Slug       string
	Size       string
	Quantity   int
	Name       string
	Image      string
	UnitCents  int64
	TotalCents int64
}

type Resolution struct {
	Lines         []Line
	SubtotalCents int64
	// FromDatabase reports whether the database priced the whole batch.
	FromDatabase bool
}

// UnknownProductError aborts a whole batch; no partial line items are ever
// produced.
type UnknownProductError struct {
	Slug string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product: %s", e.Slug)
}

// UnitCents converts a dollar price into integer cents. All downstream
// arithmetic happens in cents so repeated resolution never drifts.
func UnitCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// Resolver prices batches against the database catalog when one is
// configured, falling back to the static list when the database is absent,
// errors, or cannot resolve every slug in the batch.
type Resolver struct {
	db     catalog.Provider
	static catalog.Provider
}

func NewResolver(db, static catalog.Provider) *Resolver {
	return &Resolver{db: db, static: static}
}

func (r *Resolver) Resolve(ctx context.Context, reqs []Request) (*Resolution, error) {
	if r.db != nil {
		res, err := resolveAgainst(ctx, r.db, reqs)
		if err == nil {
			res.FromDatabase = true
			return res, nil
		}
		var unknown *UnknownProductError
		if !errors.As(err, &unknown) {
			log.Printf("database pricing failed, falling back to static catalog: %v", err)
		}
		// Any database miss or failure downgrades to the static list.
	}

	return resolveAgainst(ctx, r.static, reqs)
}

func resolveAgainst(ctx context.Context, provider catalog.Provider, reqs []Request) (*Resolution, error) {
	res := &Resolution{Lines: make([]Line, 0, len(reqs))}
	for _, req := range reqs {
		p, err := provider.FindBySlug(ctx, req.Slug)
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, &UnknownProductError{Slug: req.Slug}
		}
		if err != nil {
			return nil, fmt.Errorf("catalog lookup for %q: %w", req.Slug, err)
		}

		unitCents := UnitCents(p.VariantPrice(req.Size))
		line := Line{
			Slug:       req.Slug,
			Size:       req.Size,
			Quantity:   req.Quantity,
			Name:       p.Name,
			Image:      p.Image,
			UnitCents:  unitCents,
			TotalCents: unitCents * int64(req.Quantity),
		}
		res.Lines = append(res.Lines, line)
		res.SubtotalCents += line.TotalCents
	}
	return res, nil
}

// OrderItems converts resolved lines into order items for persistence.
func (r *Resolution) OrderItems() []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(r.Lines))
	for _, l := range r.Lines {
		items = append(items, domain.OrderItem{
			Slug:       l.Slug,
			Size:       l.Size,
			Quantity:   l.Quantity,
			PriceCents: l.UnitCents,
		})
	}
	return items
}
