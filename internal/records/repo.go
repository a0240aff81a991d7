package records

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmarquezdev/supplycart-backend/pkg/db/models"
	"github.com/rmarquezdev/supplycart-backend/pkg/enums"
)

// Repository encapsulates storage record persistence. Each owner holds at
// most one row per record name; writes replace the whole payload.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided GORM handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Find returns the owner's record for the given name.
func (r *Repository) Find(ctx context.Context, ownerID uuid.UUID, name enums.RecordName) (*models.StorageRecord, error) {
	var record models.StorageRecord
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND name = ?", ownerID, name).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Save creates or overwrites the owner's record with the provided payload.
func (r *Repository) Save(ctx context.Context, ownerID uuid.UUID, name enums.RecordName, payload json.RawMessage) (*models.StorageRecord, error) {
	record, err := r.Find(ctx, ownerID, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = &models.StorageRecord{
			ID:      uuid.New(),
			OwnerID: ownerID,
			Name:    name,
			Payload: payload,
		}
		if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
			return nil, err
		}
		return record, nil
	}

	record.Payload = payload
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes the owner's record for the given name. Missing rows are not
// an error.
func (r *Repository) Delete(ctx context.Context, ownerID uuid.UUID, name enums.RecordName) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ? AND name = ?", ownerID, name).
		Delete(&models.StorageRecord{}).Error
}
