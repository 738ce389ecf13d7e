package services

import (
	"time"

	"github.com/francismul/oracle-image-gallery/config"
	"github.com/francismul/oracle-image-gallery/repositories"
)

type Container struct {
	Handles    *HandleRegistry
	Thumbnails ThumbnailService
	Gallery    GalleryService
	Ingest     IngestService
	AssetCache AssetCacheService
	Settings   SettingsService
}

func NewContainer(repos repositories.Container) *Container {
	cfg := config.AppConfig

	handles := NewHandleRegistry()
	thumbs := NewThumbnailService(cfg.Thumbnail)
	gallery := NewGalleryService(repos.TxManager, repos.Images, thumbs, handles, cfg.Storage.QuotaBytes)
	ingest := NewIngestService(
		repos.Images,
		repos.IngestProgress,
		thumbs,
		gallery,
		time.Duration(cfg.Storage.FetchTimeout)*time.Second,
		cfg.Storage.MaxFileSize,
	)

	return &Container{
		Handles:    handles,
		Thumbnails: thumbs,
		Gallery:    gallery,
		Ingest:     ingest,
		AssetCache: NewAssetCacheService(repos.ShellAssets, cfg.Assets),
		Settings:   NewSettingsService(repos.Settings),
	}
}
