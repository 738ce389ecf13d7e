package repositories

import (
	"context"

	"github.com/francismul/oracle-image-gallery/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormShellAssetRepository struct {
	db *gorm.DB
}

func NewGormShellAssetRepository(db *gorm.DB) *GormShellAssetRepository {
	return &GormShellAssetRepository{db: db}
}

func (r *GormShellAssetRepository) Put(_ context.Context, tx *gorm.DB, asset *models.ShellAsset) error {
	return useTx(r.db, tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "version"}, {Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "content_type", "status", "fetched_at"}),
	}).Create(asset).Error
}

func (r *GormShellAssetRepository) Get(_ context.Context, tx *gorm.DB, version string, url string) (models.ShellAsset, error) {
	var asset models.ShellAsset
	err := useTx(r.db, tx).Where("version = ? AND url = ?", version, url).First(&asset).Error
	return asset, err
}

func (r *GormShellAssetRepository) Versions(_ context.Context, tx *gorm.DB) ([]string, error) {
	var versions []string
	err := useTx(r.db, tx).Model(&models.ShellAsset{}).Distinct("version").Pluck("version", &versions).Error
	return versions, err
}

func (r *GormShellAssetRepository) DeleteVersionsExcept(_ context.Context, tx *gorm.DB, version string) error {
	return useTx(r.db, tx).Where("version <> ?", version).Delete(&models.ShellAsset{}).Error
}

func (r *GormShellAssetRepository) CountByVersion(_ context.Context, tx *gorm.DB, version string) (int64, error) {
	var count int64
	err := useTx(r.db, tx).Model(&models.ShellAsset{}).Where("version = ?", version).Count(&count).Error
	return count, err
}
