package record

import (
	"MeatSafe-Backend/entities"
	"context"
	"time"

	"gorm.io/gorm"
)

type (
	RecordRepository interface {
		CreateRecord(ctx context.Context, record *entities.MeatRecord) error
		GetRecordByID(ctx context.Context, id string) (*entities.MeatRecord, error)
		UpdateRecord(ctx context.Context, record *entities.MeatRecord) error
		DeleteRecord(ctx context.Context, id string) error
		GetRecords(ctx context.Context, userID string) ([]*entities.MeatRecord, error)
		GetRecordsExpiringBetween(ctx context.Context, start, end time.Time) ([]*entities.MeatRecord, error)
		ClearRecords(ctx context.Context, userID string) error
	}

	recordRepository struct {
		db *gorm.DB
	}
)

func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) CreateRecord(ctx context.Context, record *entities.MeatRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *recordRepository) GetRecordByID(ctx context.Context, id string) (*entities.MeatRecord, error) {
	var record entities.MeatRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *recordRepository) UpdateRecord(ctx context.Context, record *entities.MeatRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *recordRepository) DeleteRecord(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.MeatRecord{}).Error
}

// GetRecords returns every record for the user, most recent activity first.
// Status filtering happens in the service because the displayed status is
// derived from the clock, not read from the row.
func (r *recordRepository) GetRecords(ctx context.Context, userID string) ([]*entities.MeatRecord, error) {
	var records []*entities.MeatRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepository) GetRecordsExpiringBetween(ctx context.Context, start, end time.Time) ([]*entities.MeatRecord, error) {
	var records []*entities.MeatRecord
	if err := r.db.WithContext(ctx).
		Where("status = ? AND deadline BETWEEN ? AND ?", "storing", start, end).
		Order("deadline asc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepository) ClearRecords(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entities.MeatRecord{}).Error
}
