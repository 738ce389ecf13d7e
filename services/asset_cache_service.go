package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/francismul/oracle-image-gallery/config"
	"github.com/francismul/oracle-image-gallery/logger"
	"github.com/francismul/oracle-image-gallery/models"
	"github.com/francismul/oracle-image-gallery/repositories"

	"gorm.io/gorm"
)

// Cache lifecycle states, in order.
const (
	CacheStateInstalling = "installing"
	CacheStateInstalled  = "installed"
	CacheStateActivating = "activating"
	CacheStateActive     = "active"
)

type AssetCacheService interface {
	// Install populates the current generation from the upstream origin.
	// Each manifest entry is attempted independently; a failing entry is
	// logged and skipped, never aborting the install.
	Install(ctx context.Context) error
	// Activate deletes every generation other than the current one, so
	// exactly one generation is live afterwards.
	Activate(ctx context.Context) error
	Lookup(ctx context.Context, url string) (models.ShellAsset, bool)
	// Store writes through a fetched response. Only 200s are kept.
	Store(ctx context.Context, asset models.ShellAsset) error
	FetchUpstream(ctx context.Context, path string) (models.ShellAsset, error)
	Version() string
	EntryPoint() string
	State() string
}

type assetCacheService struct {
	assets     repositories.ShellAssetRepository
	client     *http.Client
	version    string
	upstream   string
	entryPoint string
	manifest   []string
	state      atomic.Value
}

func NewAssetCacheService(assets repositories.ShellAssetRepository, cfg config.AssetsConfig) AssetCacheService {
	s := &assetCacheService{
		assets:     assets,
		client:     &http.Client{Timeout: 30 * time.Second},
		version:    cfg.Version,
		upstream:   strings.TrimRight(cfg.Upstream, "/"),
		entryPoint: cfg.EntryPoint,
		manifest:   cfg.Manifest,
	}
	s.state.Store(CacheStateInstalling)
	return s
}

func (s *assetCacheService) Install(ctx context.Context) error {
	s.state.Store(CacheStateInstalling)

	cached := 0
	for _, path := range s.manifest {
		asset, err := s.FetchUpstream(ctx, path)
		if err != nil {
			logger.Errorf("failed to cache %s: %v", path, err)
			continue
		}
		if asset.Status != http.StatusOK {
			logger.Errorf("failed to cache %s: HTTP %d", path, asset.Status)
			continue
		}
		if err := s.assets.Put(ctx, nil, &asset); err != nil {
			logger.Errorf("failed to store %s: %v", path, err)
			continue
		}
		cached++
	}

	logger.Infof("asset cache %s installed: %d/%d entries", s.version, cached, len(s.manifest))
	s.state.Store(CacheStateInstalled)
	return nil
}

func (s *assetCacheService) Activate(ctx context.Context) error {
	s.state.Store(CacheStateActivating)

	versions, err := s.assets.Versions(ctx, nil)
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to enumerate cache generations", err)
	}
	for _, v := range versions {
		if v != s.version {
			logger.Infof("deleting old cache generation %s", v)
		}
	}

	if err := s.assets.DeleteVersionsExcept(ctx, nil, s.version); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to purge stale cache generations", err)
	}

	s.state.Store(CacheStateActive)
	return nil
}

func (s *assetCacheService) Lookup(ctx context.Context, url string) (models.ShellAsset, bool) {
	asset, err := s.assets.Get(ctx, nil, s.version, url)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debugf("asset cache lookup for %s failed: %v", url, err)
		}
		return models.ShellAsset{}, false
	}
	return asset, true
}

func (s *assetCacheService) Store(ctx context.Context, asset models.ShellAsset) error {
	if asset.Status != http.StatusOK {
		return nil
	}
	asset.Version = s.version
	return s.assets.Put(ctx, nil, &asset)
}

// FetchUpstream retrieves one shell path from the configured origin. All
// upstream responses are same-origin by construction.
func (s *assetCacheService) FetchUpstream(ctx context.Context, path string) (models.ShellAsset, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.upstream+path, nil)
	if err != nil {
		return models.ShellAsset{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return models.ShellAsset{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.ShellAsset{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	return models.ShellAsset{
		Version:     s.version,
		URL:         path,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		Status:      resp.StatusCode,
		FetchedAt:   time.Now().UTC(),
	}, nil
}

func (s *assetCacheService) Version() string {
	return s.version
}

func (s *assetCacheService) EntryPoint() string {
	return s.entryPoint
}

func (s *assetCacheService) State() string {
	return s.state.Load().(string)
}
