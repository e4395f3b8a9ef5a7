package cart

import (
	"context"
	"errors"
)

type Cache interface {
	Get(ctx context.Context, token string) (*Cart, error)
	Set(ctx context.Context, token string, cart *Cart) error
	Delete(ctx context.Context, token string) error
}

var ErrCacheMiss = errors.New("cache miss")
