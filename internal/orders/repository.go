package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Pu11en/peptide-website/internal/domain"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicatePaymentRef means an order for this payment reference
	// already exists; webhook redelivery lands here.
	ErrDuplicatePaymentRef = errors.New("order already recorded for payment reference")
)

type Repository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetOrderByPaymentRef(ctx context.Context, ref string) (*domain.Order, error)
	Close() error
}
