package mysql

import (
	"context"
	"errors"

	"order-desk/internal/domain"
	"order-desk/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type productRepo struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewProductRepository(db *gorm.DB, logger *zap.Logger) repository.ProductRepository {
	return &productRepo{db: db, logger: logger}
}

func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		r.logger.Error("product create failed", zap.Error(err))
		return err
	}
	if product.ID == 0 {
		return errors.New("failed to assign product ID")
	}
	return nil
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("product lookup failed", zap.Uint64("product_id", id), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, offset, limit int) ([]domain.Product, error) {
	var out []domain.Product
	if err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		r.logger.Error("product list failed", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *productRepo) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.Product{}, id).Error
}

func (r *productRepo) CountLineItems(ctx context.Context, productID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.OrderItem{}).Where("product_id = ?", productID).Count(&n).Error
	return n, err
}
