package catalog

import (
	"context"
	"errors"

	"github.com/Pu11en/peptide-website/internal/domain"
)

// Provider supplies read-only product reference data. Implementations are
// interchangeable between the static in-process list and Postgres.
type Provider interface {
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
}

var ErrProductNotFound = errors.New("product not found")
