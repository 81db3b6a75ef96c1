package mysql

import (
	"context"
	"errors"

	"order-desk/internal/domain"
	"order-desk/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewOrderRepository(db *gorm.DB, logger *zap.Logger) repository.OrderRepository {
	return &orderRepo{db: db, logger: logger}
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(order)
	if result.Error != nil {
		r.logger.Error("order create failed", zap.Error(result.Error))
		return result.Error
	}

	if order.ID == 0 {
		r.logger.Warn("order saved without an ID", zap.Int64("rows_affected", result.RowsAffected))
		return errors.New("failed to assign order ID")
	}
	return nil
}

func (r *orderRepo) UpdateTotal(ctx context.Context, id uint64, total decimal.Decimal) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Update("total_cost", total).Error
	if err != nil {
		r.logger.Error("order total update failed", zap.Uint64("order_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, order *domain.Order, from domain.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND status = ?", order.ID, from).
		Updates(map[string]any{
			"status":         order.Status,
			"payment_date":   order.PaymentDate,
			"confirmed_date": order.ConfirmedDate,
		})
	if result.Error != nil {
		r.logger.Error("order status update failed", zap.Uint64("order_id", order.ID), zap.Error(result.Error))
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product").
		First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("order lookup failed", zap.Uint64("order_id", id), zap.Error(err))
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context, offset, limit int) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Order("created_at").Order("id").
		Offset(offset).Limit(limit).
		Find(&out).Error
	if err != nil {
		r.logger.Error("order list failed", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Order{}, id).Error
	})
}

func (r *orderRepo) CreateItem(ctx context.Context, item *domain.OrderItem) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		r.logger.Error("order item create failed", zap.Uint64("order_id", item.OrderID), zap.Error(err))
		return err
	}
	return nil
}

func (r *orderRepo) UpdateItem(ctx context.Context, item *domain.OrderItem) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error; err != nil {
		r.logger.Error("order item update failed", zap.Uint64("item_id", item.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *orderRepo) DeleteItem(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.OrderItem{}, id)
	if result.Error != nil {
		r.logger.Error("order item delete failed", zap.Uint64("item_id", id), zap.Error(result.Error))
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepo) FindItemByID(ctx context.Context, id uint64) (*domain.OrderItem, error) {
	var it domain.OrderItem
	if err := r.db.WithContext(ctx).First(&it, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}
