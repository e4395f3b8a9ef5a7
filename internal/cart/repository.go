package cart

import (
	"context"
	"errors"
	"sync"
)

var ErrCartNotFound = errors.New("cart not found")

type Repository interface {
	GetCart(ctx context.Context, token string) (*Cart, error)
	UpsertCart(ctx context.Context, cart *Cart) error
	DeleteCart(ctx context.Context, token string) error
}

// MemoryRepository holds cart sessions in process. Carts are ultimately
// client-owned; this store only mirrors them per token so a session can
// survive page reloads without trusting the client for prices.
type MemoryRepository struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string]*Cart)}
}

func (r *MemoryRepository) GetCart(_ context.Context, token string) (*Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.carts[token]
	if !ok {
		return nil, ErrCartNotFound
	}
	copied := *c
	copied.Items = append([]Item(nil), c.Items...)
	return &copied, nil
}

func (r *MemoryRepository) UpsertCart(_ context.Context, cart *Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *cart
	copied.Items = append([]Item(nil), cart.Items...)
	r.carts[cart.Token] = &copied
	return nil
}

func (r *MemoryRepository) DeleteCart(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, token)
	return nil
}
