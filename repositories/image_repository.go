package repositories

import (
	"context"

	"github.com/francismul/oracle-image-gallery/models"

	"gorm.io/gorm"
)

type GormImageRepository struct {
	db *gorm.DB
}

func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

func (r *GormImageRepository) GetAll(_ context.Context, tx *gorm.DB) ([]models.Image, error) {
	var images []models.Image
	err := useTx(r.db, tx).Find(&images).Error
	return images, err
}

func (r *GormImageRepository) GetByID(_ context.Context, tx *gorm.DB, id int64) (models.Image, error) {
	var image models.Image
	err := useTx(r.db, tx).Where("id = ?", id).First(&image).Error
	return image, err
}

func (r *GormImageRepository) Create(_ context.Context, tx *gorm.DB, image *models.Image) error {
	return useTx(r.db, tx).Create(image).Error
}

func (r *GormImageRepository) UpdateThumbnail(_ context.Context, tx *gorm.DB, id int64, thumbnail []byte) error {
	return useTx(r.db, tx).Model(&models.Image{}).
		Where("id = ? AND (thumbnail IS NULL OR length(thumbnail) = 0)", id).
		Update("thumbnail", thumbnail).Error
}

func (r *GormImageRepository) DeleteByID(_ context.Context, tx *gorm.DB, id int64) error {
	return useTx(r.db, tx).Where("id = ?", id).Delete(&models.Image{}).Error
}

func (r *GormImageRepository) DeleteByIDs(_ context.Context, tx *gorm.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return useTx(r.db, tx).Where("id IN ?", ids).Delete(&models.Image{}).Error
}
