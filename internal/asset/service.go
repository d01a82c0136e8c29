package asset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tagstock/tagstock/internal/notify"
	"github.com/tagstock/tagstock/models"
	"golang.org/x/exp/slog"
)

// AssetsBucket is the logical bucket holding asset main images.
const AssetsBucket = "assets"

const signedURLTTL = 24 * time.Hour

var ErrMissingID = errors.New("asset id is required")

type AssetRepository interface {
	Get(ctx context.Context, userID uint, id string) (*models.Asset, error)
	List(ctx context.Context, userID uint) ([]models.Asset, error)
	Delete(ctx context.Context, userID uint, id string) error
}

type ScanRepository interface {
	LatestByQrID(ctx context.Context, qrID string) (*models.Scan, error)
}

type BlobStore interface {
	Delete(ctx context.Context, bucket, reference string) error
	SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, time.Time, error)
}

type Notifier interface {
	Send(n notify.Notification)
}

// RenderFunc converts raw note markdown to display HTML.
type RenderFunc func(content string) string

// Service orchestrates the asset detail read and delete workflows.
// Ownership is enforced by the repositories keying every lookup on
// (id, user_id), never by a post-fetch check.
type Service struct {
	assets AssetRepository
	scans  ScanRepository
	blobs  BlobStore
	render RenderFunc
	notify Notifier
	log    *slog.Logger
}

func NewService(assets AssetRepository, scans ScanRepository, blobs BlobStore, render RenderFunc, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		assets: assets,
		scans:  scans,
		blobs:  blobs,
		render: render,
		notify: notifier,
		log:    log,
	}
}

// Detail loads one asset for display: the asset with rendered notes, the
// last scan of its first QR code (nil when it has no codes or no scans),
// and the page header.
func (s *Service) Detail(ctx context.Context, userID uint, id string) (*Detail, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	a, err := s.assets.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	// Only the first QR code is canonical for scan lookups; an asset can
	// only carry one tag for now.
	var lastScan *LastScan
	if len(a.QrCodes) > 0 {
		scan, err := s.scans.LatestByQrID(ctx, a.QrCodes[0].ID)
		if err != nil {
			return nil, err
		}
		lastScan = parseScan(scan, userID)
	}

	return &Detail{
		Asset:    s.assetView(ctx, a),
		LastScan: lastScan,
		Header: Header{
			Title:      a.Title,
			SubHeading: a.ID,
		},
	}, nil
}

// List returns summaries of every asset the user owns, newest first.
func (s *Service) List(ctx context.Context, userID uint) ([]Summary, error) {
	assets, err := s.assets.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(assets))
	for _, a := range assets {
		summaries = append(summaries, Summary{
			ID:        a.ID,
			Title:     a.Title,
			Category:  categoryView(a.Category),
			CreatedAt: a.CreatedAt,
		})
	}
	return summaries, nil
}

// Delete removes the asset record and then its main image blob. The two
// steps are not atomic: the record delete is authoritative, and a blob
// deletion failure after it is logged and swallowed so a late storage
// error can't resurrect the record from the caller's point of view.
func (s *Service) Delete(ctx context.Context, userID uint, id, mainImage string) error {
	if id == "" {
		return ErrMissingID
	}

	steps := []deleteStep{
		{
			name:     "delete asset record",
			critical: true,
			run: func(ctx context.Context) error {
				return s.assets.Delete(ctx, userID, id)
			},
		},
		{
			name: "delete main image blob",
			run: func(ctx context.Context) error {
				if mainImage == "" {
					return nil
				}
				return s.blobs.Delete(ctx, AssetsBucket, mainImage)
			},
		},
	}

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			if step.critical {
				return err
			}
			s.log.Warn("asset cleanup step failed, record deletion stands",
				"step", step.name,
				"asset_id", id,
				"error", err,
			)
		}
	}

	s.notify.Send(notify.Notification{
		Title:   "Asset deleted",
		Message: "Your asset has been deleted successfully",
		Icon:    "trash",
	})
	return nil
}

// deleteStep is one phase of the two-phase delete. Non-critical steps are
// best-effort cleanup; a failure there is logged, not returned.
type deleteStep struct {
	name     string
	critical bool
	run      func(ctx context.Context) error
}

func (s *Service) assetView(ctx context.Context, a *models.Asset) AssetView {
	view := AssetView{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Category:    categoryView(a.Category),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}

	for _, qr := range a.QrCodes {
		view.QrCodes = append(view.QrCodes, qr.ID)
	}

	view.Notes = make([]NoteView, 0, len(a.Notes))
	for _, n := range a.Notes {
		view.Notes = append(view.Notes, NoteView{
			ID:        n.ID,
			Content:   s.renderNote(n.Content),
			CreatedAt: n.CreatedAt,
		})
	}

	if a.MainImage != "" {
		view.MainImage, view.MainImageExpiration = s.mainImageURL(ctx, a)
	}
	return view
}

// renderNote isolates a rendering fault to the one note that caused it:
// a panicking renderer yields a plain-text placeholder for that note
// while the rest of the page loads normally.
func (s *Service) renderNote(content string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("note rendering failed", "error", fmt.Sprint(r))
			out = content
		}
	}()
	return s.render(content)
}

// mainImageURL refreshes the signed URL for the asset's main image when
// the stored one has expired. A signing failure degrades to the raw
// object key rather than failing the read.
func (s *Service) mainImageURL(ctx context.Context, a *models.Asset) (string, *time.Time) {
	url, expires, err := s.blobs.SignedURL(ctx, AssetsBucket, a.MainImage, signedURLTTL)
	if err != nil {
		s.log.Warn("signing main image url failed", "asset_id", a.ID, "error", err)
		return a.MainImage, a.MainImageExpiration
	}
	return url, &expires
}

// parseScan shapes a raw scan row for display. The requesting user's id
// scopes the "scanned by you" flag; location is present only when the
// scan carried coordinates.
func parseScan(scan *models.Scan, userID uint) *LastScan {
	if scan == nil {
		return nil
	}

	last := &LastScan{
		ScannedAt:   scan.CreatedAt,
		UserAgent:   scan.UserAgent,
		ScannedByMe: scan.UserID != nil && *scan.UserID == userID,
	}
	if scan.Latitude != nil && scan.Longitude != nil {
		last.Coordinates = fmt.Sprintf("%f, %f", *scan.Latitude, *scan.Longitude)
	}
	return last
}

func categoryView(c *models.Category) *CategoryView {
	if c == nil {
		return nil
	}
	return &CategoryView{Name: c.Name, Color: c.Color}
}
