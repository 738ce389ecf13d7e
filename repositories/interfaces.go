package repositories

import (
	"context"

	"github.com/francismul/oracle-image-gallery/models"

	"gorm.io/gorm"
)

type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ImageRepository interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]models.Image, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (models.Image, error)
	Create(ctx context.Context, tx *gorm.DB, image *models.Image) error
	// UpdateThumbnail attaches a generated preview to a record that has
	// none. A row that already carries a thumbnail is left untouched.
	UpdateThumbnail(ctx context.Context, tx *gorm.DB, id int64, thumbnail []byte) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id int64) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []int64) error
}

type ShellAssetRepository interface {
	Put(ctx context.Context, tx *gorm.DB, asset *models.ShellAsset) error
	Get(ctx context.Context, tx *gorm.DB, version string, url string) (models.ShellAsset, error)
	Versions(ctx context.Context, tx *gorm.DB) ([]string, error)
	DeleteVersionsExcept(ctx context.Context, tx *gorm.DB, version string) error
	CountByVersion(ctx context.Context, tx *gorm.DB, version string) (int64, error)
}

type IngestProgress struct {
	Attempted int
	Total     int
	Current   string
}

type IngestProgressRepository interface {
	Reset(ctx context.Context, total int) error
	MarkAttempted(ctx context.Context, current string) error
	Snapshot(ctx context.Context) (IngestProgress, error)
	Clear(ctx context.Context) error
}

type SettingsRepository interface {
	// Get returns "" for an unset key.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
}

type Container struct {
	TxManager      TxManager
	Images         ImageRepository
	ShellAssets    ShellAssetRepository
	IngestProgress IngestProgressRepository
	Settings       SettingsRepository
}
