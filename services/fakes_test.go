package services

import (
	"context"
	"errors"
	"sync"

	"github.com/francismul/oracle-image-gallery/models"
	"github.com/francismul/oracle-image-gallery/repositories"

	"gorm.io/gorm"
)

type fakeTxManager struct{}

func (fakeTxManager) WithTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeImageRepo struct {
	mu     sync.Mutex
	images map[int64]models.Image
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: make(map[int64]models.Image)}
}

func (r *fakeImageRepo) GetAll(context.Context, *gorm.DB) ([]models.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Image, 0, len(r.images))
	for _, img := range r.images {
		out = append(out, img)
	}
	return out, nil
}

func (r *fakeImageRepo) GetByID(_ context.Context, _ *gorm.DB, id int64) (models.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.images[id]
	if !ok {
		return models.Image{}, gorm.ErrRecordNotFound
	}
	return img, nil
}

func (r *fakeImageRepo) Create(_ context.Context, _ *gorm.DB, image *models.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.images[image.ID]; exists {
		return gorm.ErrDuplicatedKey
	}
	r.images[image.ID] = *image
	return nil
}

func (r *fakeImageRepo) UpdateThumbnail(_ context.Context, _ *gorm.DB, id int64, thumbnail []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.images[id]
	if !ok || len(img.Thumbnail) > 0 {
		return nil
	}
	img.Thumbnail = thumbnail
	r.images[id] = img
	return nil
}

func (r *fakeImageRepo) DeleteByID(_ context.Context, _ *gorm.DB, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.images, id)
	return nil
}

func (r *fakeImageRepo) DeleteByIDs(_ context.Context, _ *gorm.DB, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.images, id)
	}
	return nil
}

func (r *fakeImageRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.images)
}

type fakeProgressRepo struct {
	mu       sync.Mutex
	progress repositories.IngestProgress
}

func (r *fakeProgressRepo) Reset(_ context.Context, total int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = repositories.IngestProgress{Total: total}
	return nil
}

func (r *fakeProgressRepo) MarkAttempted(_ context.Context, current string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress.Attempted++
	r.progress.Current = current
	return nil
}

func (r *fakeProgressRepo) Snapshot(context.Context) (repositories.IngestProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress, nil
}

func (r *fakeProgressRepo) Clear(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = repositories.IngestProgress{}
	return nil
}

type fakeShellAssetRepo struct {
	mu     sync.Mutex
	assets map[string]map[string]models.ShellAsset
}

func newFakeShellAssetRepo() *fakeShellAssetRepo {
	return &fakeShellAssetRepo{assets: make(map[string]map[string]models.ShellAsset)}
}

func (r *fakeShellAssetRepo) Put(_ context.Context, _ *gorm.DB, asset *models.ShellAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.assets[asset.Version] == nil {
		r.assets[asset.Version] = make(map[string]models.ShellAsset)
	}
	r.assets[asset.Version][asset.URL] = *asset
	return nil
}

func (r *fakeShellAssetRepo) Get(_ context.Context, _ *gorm.DB, version string, url string) (models.ShellAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	asset, ok := r.assets[version][url]
	if !ok {
		return models.ShellAsset{}, gorm.ErrRecordNotFound
	}
	return asset, nil
}

func (r *fakeShellAssetRepo) Versions(context.Context, *gorm.DB) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	versions := make([]string, 0, len(r.assets))
	for v := range r.assets {
		versions = append(versions, v)
	}
	return versions, nil
}

func (r *fakeShellAssetRepo) DeleteVersionsExcept(_ context.Context, _ *gorm.DB, version string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for v := range r.assets {
		if v != version {
			delete(r.assets, v)
		}
	}
	return nil
}

func (r *fakeShellAssetRepo) CountByVersion(_ context.Context, _ *gorm.DB, version string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.assets[version])), nil
}

type fakeSettingsRepo struct {
	mu     sync.Mutex
	values map[string]string
	failed bool
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{values: make(map[string]string)}
}

func (r *fakeSettingsRepo) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failed {
		return "", errors.New("settings store down")
	}
	return r.values[key], nil
}

func (r *fakeSettingsRepo) Set(_ context.Context, key string, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failed {
		return errors.New("settings store down")
	}
	r.values[key] = value
	return nil
}

// fakeGallery satisfies GalleryService for ingest tests; only Reload is
// interesting there.
type fakeGallery struct {
	mu      sync.Mutex
	reloads int
}

func (g *fakeGallery) Reload(context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reloads++
	return nil
}

func (g *fakeGallery) Images() []GalleryImage { return nil }

func (g *fakeGallery) Get(int64) (GalleryImage, bool) { return GalleryImage{}, false }

func (g *fakeGallery) Export(context.Context, int64) (models.Image, error) {
	return models.Image{}, errors.New("not implemented")
}

func (g *fakeGallery) DeleteOne(context.Context, int64) error { return errors.New("not implemented") }

func (g *fakeGallery) Delete(context.Context, []int64) error { return errors.New("not implemented") }

func (g *fakeGallery) UsedBytes() int64 { return 0 }

func (g *fakeGallery) QuotaEstimate() int64 { return 0 }

func (g *fakeGallery) StorageInfo() StorageInfo { return StorageInfo{} }

func (g *fakeGallery) reloadCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reloads
}
