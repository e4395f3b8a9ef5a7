package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"
)

// Service mediates cart reads through the cache and writes through the
// repository. The cache is optional; a nil Cache disables it.
type Service struct {
	repo  Repository
	cache Cache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo Repository, cache Cache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) GetCart(ctx context.Context, token string) (*Cart, error) {
	v, err, _ := s.sfg.Do(token, func() (interface{}, error) {
		if s.cache != nil {
			c, cacheErr := s.cache.Get(ctx, token)
			if cacheErr == nil {
				return c, nil
			}
			if !errors.Is(cacheErr, ErrCacheMiss) {
				log.Printf("cache get error: %v", cacheErr)
			}
		}

		c, repoErr := s.repo.GetCart(ctx, token)
		if errors.Is(repoErr, ErrCartNotFound) {
			now := time.Now()
			return &Cart{Token: token, CreatedAt: now, UpdatedAt: now}, nil
		}
		if repoErr != nil {
			return nil, repoErr
		}

		if s.cache != nil {
			go func() {
				if setErr := s.cache.Set(context.Background(), token, c); setErr != nil {
					log.Printf("cache set error: %v", setErr)
				}
			}()
		}

		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Cart), nil
}

func (s *Service) AddItem(ctx context.Context, token string, item Item) (*Cart, error) {
	c, err := s.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}
	c.AddItem(item)
	return s.save(ctx, c)
}

func (s *Service) UpdateQuantity(ctx context.Context, token, slug, size string, quantity int) (*Cart, error) {
	c, err := s.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		c.RemoveItem(slug, size)
	} else {
		c.UpdateQuantity(slug, size, quantity)
	}
	return s.save(ctx, c)
}

func (s *Service) RemoveItem(ctx context.Context, token, slug, size string) (*Cart, error) {
	c, err := s.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}
	c.RemoveItem(slug, size)
	return s.save(ctx, c)
}

func (s *Service) ClearCart(ctx context.Context, token string) error {
	if err := s.repo.DeleteCart(ctx, token); err != nil {
		log.Printf("repo delete cart error: %v", err)
		return err
	}
	s.invalidate(token)
	return nil
}

func (s *Service) save(ctx context.Context, c *Cart) (*Cart, error) {
	c.UpdatedAt = time.Now()
	if err := s.repo.UpsertCart(ctx, c); err != nil {
		log.Printf("repo upsert cart error: %v", err)
		return nil, err
	}
	s.invalidate(c.Token)
	return c, nil
}

func (s *Service) invalidate(token string) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, token); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
