package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
	Name      string         `gorm:"size:255;not null"`
	Email     string         `gorm:"size:255;not null;unique"`
	Assets    []Asset
}

type Category struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string `gorm:"size:255;not null"`
	Color     string `gorm:"size:16"`
}

type Asset struct {
	ID          string `gorm:"type:uuid;primarykey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	Title       string         `gorm:"size:255;not null"`
	Description string
	UserID      uint  `gorm:"not null;index"`
	User        *User `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	CategoryID  *uint
	Category    *Category
	QrCodes     []QrCode
	Notes       []Note
	// MainImage holds the object key in the assets bucket; the signed URL
	// handed to clients is refreshed on read when the expiration passes.
	MainImage           string
	MainImageExpiration *time.Time
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// QrCode belongs to at most one asset at a time. AssetID is nullable so a
// printed tag can exist before it is claimed.
type QrCode struct {
	ID        string `gorm:"type:uuid;primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint    `gorm:"index"`
	AssetID   *string `gorm:"type:uuid;index"`
}

func (q *QrCode) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return nil
}

// Scan is one recorded read event of a QR code. UserID is nil for
// anonymous scans from outside the app.
type Scan struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	QrCodeID  string `gorm:"type:uuid;not null;index"`
	UserID    *uint
	Latitude  *float64
	Longitude *float64
	UserAgent string `gorm:"size:255"`
}

// Note content is stored as raw markdown and rendered per request.
type Note struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	AssetID   string `gorm:"type:uuid;not null;index"`
	Content   string
}
