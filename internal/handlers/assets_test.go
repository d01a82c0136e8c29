package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth/gothic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tagstock/tagstock/internal/asset"
	"github.com/tagstock/tagstock/internal/markdown"
	"github.com/tagstock/tagstock/internal/notify"
	"github.com/tagstock/tagstock/internal/repo"
	"github.com/tagstock/tagstock/models"
	"golang.org/x/exp/slog"
)

// In-memory collaborators standing in for the gorm repositories and the
// blob store.

type fakeAssetRepo struct {
	assets  map[string]*models.Asset
	deleted []string
}

func (f *fakeAssetRepo) Get(ctx context.Context, userID uint, id string) (*models.Asset, error) {
	a, ok := f.assets[id]
	if !ok || a.UserID != userID {
		return nil, repo.ErrNotFound
	}
	return a, nil
}

func (f *fakeAssetRepo) List(ctx context.Context, userID uint) ([]models.Asset, error) {
	var out []models.Asset
	for _, a := range f.assets {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssetRepo) Delete(ctx context.Context, userID uint, id string) error {
	a, ok := f.assets[id]
	if !ok || a.UserID != userID {
		return repo.ErrNotFound
	}
	delete(f.assets, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeScanRepo struct {
	scans   map[string]*models.Scan
	lookups []string
}

func (f *fakeScanRepo) LatestByQrID(ctx context.Context, qrID string) (*models.Scan, error) {
	f.lookups = append(f.lookups, qrID)
	return f.scans[qrID], nil
}

type fakeBlobStore struct {
	deleted [][2]string
}

func (f *fakeBlobStore) Delete(ctx context.Context, bucket, reference string) error {
	f.deleted = append(f.deleted, [2]string{bucket, reference})
	return nil
}

func (f *fakeBlobStore) SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, time.Time, error) {
	return "https://signed.example.com/" + bucket + "/" + key, time.Now().Add(ttl), nil
}

type fixture struct {
	router *chi.Mux
	assets *fakeAssetRepo
	scans  *fakeScanRepo
	blobs  *fakeBlobStore
}

// newFixture wires the routes the way cmd/api/main.go does, with a stub
// auth middleware that injects the given user id.
func newFixture(t *testing.T, userID uint) *fixture {
	t.Helper()
	gothic.Store = sessions.NewCookieStore([]byte("test-secret"))

	f := &fixture{
		assets: &fakeAssetRepo{assets: map[string]*models.Asset{}},
		scans:  &fakeScanRepo{scans: map[string]*models.Scan{}},
		blobs:  &fakeBlobStore{},
	}
	svc := asset.NewService(f.assets, f.scans, f.blobs, markdown.Render, notify.NewEmitter(), slog.Default())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), "userID", userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/assets", func(w http.ResponseWriter, req *http.Request) {
		ListAssetsHandler(w, req, svc)
	})
	r.Get("/assets/{assetID}", func(w http.ResponseWriter, req *http.Request) {
		AssetDetailHandler(w, req, svc)
	})
	r.Delete("/assets/{assetID}", func(w http.ResponseWriter, req *http.Request) {
		DeleteAssetHandler(w, req, svc)
	})
	f.router = r
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestAssetDetail_NoNotesNoQrCodes(t *testing.T) {
	f := newFixture(t, 1)
	f.assets.assets["a1"] = &models.Asset{ID: "a1", Title: "Camera", UserID: 1}

	rec := f.do(httptest.NewRequest(http.MethodGet, "/assets/a1", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var detail asset.Detail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "a1", detail.Asset.ID)
	assert.Empty(t, detail.Asset.Notes)
	assert.Nil(t, detail.LastScan)
	assert.Equal(t, "Camera", detail.Header.Title)
	assert.Equal(t, "a1", detail.Header.SubHeading)
	assert.Empty(t, f.scans.lookups)
}

func TestAssetDetail_WithScan(t *testing.T) {
	f := newFixture(t, 1)
	owner := uint(1)
	f.assets.assets["a2"] = &models.Asset{
		ID:      "a2",
		Title:   "Drill",
		UserID:  1,
		QrCodes: []models.QrCode{{ID: "q1"}},
		Notes:   []models.Note{{ID: 1, Content: "left in the *garage*"}},
	}
	f.scans.scans["q1"] = &models.Scan{
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		QrCodeID:  "q1",
		UserID:    &owner,
	}

	rec := f.do(httptest.NewRequest(http.MethodGet, "/assets/a2", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var detail asset.Detail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	require.NotNil(t, detail.LastScan)
	assert.True(t, detail.LastScan.ScannedByMe)
	assert.Equal(t, []string{"q1"}, f.scans.lookups)
	require.Len(t, detail.Asset.Notes, 1)
	assert.Contains(t, detail.Asset.Notes[0].Content, "<em>garage</em>")
}

func TestAssetDetail_OtherOwnersAssetIsNotFound(t *testing.T) {
	f := newFixture(t, 1)
	f.assets.assets["a9"] = &models.Asset{ID: "a9", Title: "Not yours", UserID: 2}

	rec := f.do(httptest.NewRequest(http.MethodGet, "/assets/a9", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	recMissing := f.do(httptest.NewRequest(http.MethodGet, "/assets/nope", nil))
	assert.Equal(t, http.StatusNotFound, recMissing.Code)

	// Indistinguishable outcomes: same status, same body.
	assert.Equal(t, recMissing.Body.String(), rec.Body.String())
}

func TestDeleteAsset_RemovesRecordAndBlob(t *testing.T) {
	f := newFixture(t, 1)
	f.assets.assets["a1"] = &models.Asset{ID: "a1", Title: "Camera", UserID: 1, MainImage: "img123"}

	req := httptest.NewRequest(http.MethodDelete, "/assets/a1", strings.NewReader("mainImage=img123"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.do(req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/assets", rec.Header().Get("Location"))
	assert.NotEmpty(t, rec.Header().Get("Set-Cookie"))

	assert.Equal(t, []string{"a1"}, f.assets.deleted)
	require.Len(t, f.blobs.deleted, 1)
	assert.Equal(t, [2]string{"assets", "img123"}, f.blobs.deleted[0])
}

func TestDeleteAsset_WrongMethodMutatesNothing(t *testing.T) {
	f := newFixture(t, 1)
	f.assets.assets["a1"] = &models.Asset{ID: "a1", Title: "Camera", UserID: 1}

	req := httptest.NewRequest(http.MethodPost, "/assets/a1", strings.NewReader("mainImage=img123"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.do(req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Empty(t, f.assets.deleted)
	assert.Empty(t, f.blobs.deleted)
	assert.Contains(t, f.assets.assets, "a1")
}

func TestDeleteAsset_MissingMainImage(t *testing.T) {
	f := newFixture(t, 1)
	f.assets.assets["a1"] = &models.Asset{ID: "a1", Title: "Camera", UserID: 1}

	req := httptest.NewRequest(http.MethodDelete, "/assets/a1", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.assets.deleted)
	assert.Contains(t, f.assets.assets, "a1")
}

func TestDeleteAsset_AlreadyGone(t *testing.T) {
	f := newFixture(t, 1)

	req := httptest.NewRequest(http.MethodDelete, "/assets/a1", strings.NewReader("mainImage=img123"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.do(req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, f.blobs.deleted)
}

func TestListAssets(t *testing.T) {
	f := newFixture(t, 1)
	f.assets.assets["a1"] = &models.Asset{ID: "a1", Title: "Camera", UserID: 1}
	f.assets.assets["a9"] = &models.Asset{ID: "a9", Title: "Not yours", UserID: 2}

	rec := f.do(httptest.NewRequest(http.MethodGet, "/assets", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Assets []asset.Summary `json:"assets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Assets, 1)
	assert.Equal(t, "a1", resp.Assets[0].ID)
}
