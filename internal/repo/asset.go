package repo

import (
	"context"
	"errors"

	"github.com/tagstock/tagstock/models"
	"gorm.io/gorm"
)

// ErrNotFound covers both "no such record" and "not owned by this user".
// Every lookup is keyed on (id, user_id), so the two cases are
// indistinguishable on purpose.
var ErrNotFound = errors.New("record not found")

type AssetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) Get(ctx context.Context, userID uint, id string) (*models.Asset, error) {
	var asset models.Asset
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("QrCodes", func(db *gorm.DB) *gorm.DB {
			return db.Order("qr_codes.created_at ASC")
		}).
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("notes.created_at ASC")
		}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

func (r *AssetRepository) List(ctx context.Context, userID uint) ([]models.Asset, error) {
	var assets []models.Asset
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

// Delete removes the asset row along with its notes and releases its QR
// codes back to the unclaimed pool. A second delete of the same id is a
// plain ErrNotFound, not a failure.
func (r *AssetRepository) Delete(ctx context.Context, userID uint, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Asset{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("asset_id = ?", id).Delete(&models.Note{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.QrCode{}).
			Where("asset_id = ?", id).
			Update("asset_id", nil).Error
	})
}
