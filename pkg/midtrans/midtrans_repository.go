package midtrans

import (
	"MeatSafe-Backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	MidtransRepository interface {
		CreateTransaction(ctx context.Context, tx *entities.Transaction) error
		GetTransactionByOrderID(ctx context.Context, orderID string) (*entities.Transaction, error)
		UpdateTransaction(ctx context.Context, tx *entities.Transaction) error
	}

	midtransRepository struct {
		db *gorm.DB
	}
)

func NewMidtransRepository(db *gorm.DB) MidtransRepository {
	return &midtransRepository{db: db}
}

func (r *midtransRepository) CreateTransaction(ctx context.Context, tx *entities.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *midtransRepository) GetTransactionByOrderID(ctx context.Context, orderID string) (*entities.Transaction, error) {
	var tx entities.Transaction
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *midtransRepository) UpdateTransaction(ctx context.Context, tx *entities.Transaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}
