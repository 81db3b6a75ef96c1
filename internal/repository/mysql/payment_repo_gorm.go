package mysql

import (
	"context"
	"errors"

	"order-desk/internal/domain"
	"order-desk/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type paymentRepo struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) repository.PaymentRepository {
	return &paymentRepo{db: db, logger: logger}
}

func (r *paymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(payment).Error; err != nil {
		r.logger.Error("payment create failed", zap.Uint64("order_id", payment.OrderID), zap.Error(err))
		return err
	}
	if payment.ID == 0 {
		return errors.New("failed to assign payment ID")
	}
	return nil
}

func (r *paymentRepo) Update(ctx context.Context, payment *domain.Payment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(payment).Error; err != nil {
		r.logger.Error("payment update failed", zap.Uint64("payment_id", payment.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, id uint64) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("payment lookup failed", zap.Uint64("payment_id", id), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) FindByOrderID(ctx context.Context, orderID uint64) ([]domain.Payment, error) {
	var out []domain.Payment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *paymentRepo) CountByOrderID(ctx context.Context, orderID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Payment{}).Where("order_id = ?", orderID).Count(&n).Error
	return n, err
}
