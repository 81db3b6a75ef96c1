package services

import (
	"context"
	"strconv"

	"order-desk/internal/domain"
	"order-desk/internal/infra"
	"order-desk/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type CatalogService struct {
	repo   repository.ProductRepository
	cache  infra.ProductCache
	loads  singleflight.Group
	logger *zap.Logger
}

func NewCatalogService(r repository.ProductRepository, c infra.ProductCache, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		repo:   r,
		cache:  c,
		logger: logger,
	}
}

// CreateProduct validates every field before anything is written.
func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("product created", zap.Uint64("product_id", p.ID), zap.String("price", p.Price.StringFixed(2)))
	return p, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("product cache read failed", zap.Uint64("product_id", id), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	v, err, _ := s.loads.Do(strconv.FormatUint(id, 10), func() (any, error) {
		p, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrProductNotFound
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, p); err != nil {
				s.logger.Warn("product cache write failed", zap.Uint64("product_id", id), zap.Error(err))
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

func (s *CatalogService) ListProducts(ctx context.Context, page int) ([]domain.Product, error) {
	return s.repo.List(ctx, pageOffset(page), PageSize)
}

// DeleteProduct refuses to remove a product that any order item still
// references, so historical order totals stay reproducible.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint64) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProductNotFound
	}

	n, err := s.repo.CountLineItems(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrProductInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.logger.Warn("product cache invalidation failed", zap.Uint64("product_id", id), zap.Error(err))
		}
	}
	return nil
}

// WarmCache loads the first catalog page into the product cache.
func (s *CatalogService) WarmCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	products, err := s.repo.List(ctx, 0, PageSize)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range products {
		p := &products[i]
		g.Go(func() error {
			return s.cache.Set(gctx, p)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("product cache warmed", zap.Int("products", len(products)))
	return nil
}
