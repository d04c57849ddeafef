package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"feeportal_backend/internals/features/finance/payments/model"
	"feeportal_backend/internals/features/finance/payments/service"
)

type TransactionRepository struct {
	DB *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

func (r *TransactionRepository) SumCompleted(ctx context.Context, userID uuid.UUID, year string) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).
		Model(&model.PaymentTransaction{}).
		Select("COALESCE(SUM(payment_amount), 0)").
		Where("payment_user_id = ? AND payment_year = ? AND payment_status = ?", userID, year, model.PaymentStatusComplete).
		Scan(&total).Error
	return total, err
}

func (r *TransactionRepository) ListCompleted(ctx context.Context, userID uuid.UUID) ([]model.PaymentTransaction, error) {
	var out []model.PaymentTransaction
	err := r.DB.WithContext(ctx).
		Where("payment_user_id = ? AND payment_status = ?", userID, model.PaymentStatusComplete).
		Order("payment_created_at ASC").
		Find(&out).Error
	return out, err
}

// ProductIDExists includes soft-deleted rows: the unique index still holds them.
func (r *TransactionRepository) ProductIDExists(ctx context.Context, productID string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Unscoped().
		Model(&model.PaymentTransaction{}).
		Where("payment_product_id = ?", productID).
		Count(&n).Error
	return n > 0, err
}

func (r *TransactionRepository) Create(ctx context.Context, tx *model.PaymentTransaction) error {
	return r.DB.WithContext(ctx).Create(tx).Error
}

func (r *TransactionRepository) FindByProductAndUser(ctx context.Context, productID string, userID uuid.UUID) (*model.PaymentTransaction, error) {
	var tx model.PaymentTransaction
	if err := r.DB.WithContext(ctx).
		Where("payment_product_id = ? AND payment_user_id = ?", productID, userID).
		First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepository) FindByProductID(ctx context.Context, productID string) (*model.PaymentTransaction, error) {
	var tx model.PaymentTransaction
	if err := r.DB.WithContext(ctx).
		Where("payment_product_id = ?", productID).
		First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepository) SaveStatus(ctx context.Context, tx *model.PaymentTransaction, from model.PaymentStatus) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&model.PaymentTransaction{}).
		Where("payment_id = ? AND payment_status = ?", tx.PaymentID, from).
		Updates(map[string]any{
			"payment_status":            tx.PaymentStatus,
			"payment_gateway_status":    tx.PaymentGatewayStatus,
			"payment_gateway_reference": tx.PaymentGatewayReference,
			"payment_gateway_payload":   tx.PaymentGatewayPayload,
			"payment_reconciled_at":     tx.PaymentReconciledAt,
			"payment_note":              tx.PaymentNote,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *TransactionRepository) List(ctx context.Context, f service.TransactionFilter) ([]model.PaymentTransaction, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.PaymentTransaction{})
	if f.UserID != nil {
		q = q.Where("payment_user_id = ?", *f.UserID)
	}
	if f.Status != nil {
		q = q.Where("payment_status = ?", *f.Status)
	}
	if f.Year != "" {
		q = q.Where("payment_year = ?", f.Year)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	var out []model.PaymentTransaction
	if err := q.Order("payment_created_at DESC").
		Offset(f.Offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
