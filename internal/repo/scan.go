package repo

import (
	"context"
	"errors"

	"github.com/tagstock/tagstock/models"
	"gorm.io/gorm"
)

type ScanRepository struct {
	db *gorm.DB
}

func NewScanRepository(db *gorm.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

// LatestByQrID returns the most recent scan recorded for a QR code, or
// (nil, nil) when the code has never been scanned. A code with no scans is
// normal, not an error.
func (r *ScanRepository) LatestByQrID(ctx context.Context, qrID string) (*models.Scan, error) {
	var scan models.Scan
	err := r.db.WithContext(ctx).
		Where("qr_code_id = ?", qrID).
		Order("created_at DESC").
		First(&scan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &scan, nil
}
