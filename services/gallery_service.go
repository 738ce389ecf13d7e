package services

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/francismul/oracle-image-gallery/logger"
	"github.com/francismul/oracle-image-gallery/models"
	"github.com/francismul/oracle-image-gallery/repositories"

	"gorm.io/gorm"
)

// fallbackQuotaBytes is advertised when no quota is configured, matching
// what browsers report when a storage estimate is unavailable.
const fallbackQuotaBytes int64 = 50 << 30

// GalleryImage is the in-memory, UI-facing projection of a stored image:
// record metadata plus two ephemeral display-handle URLs.
type GalleryImage struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
	AddedAt      string `json:"added_at"`
	OriginalURL  string `json:"original_url,omitempty"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`

	urlToken   string
	thumbToken string
}

type StorageInfo struct {
	UsedBytes    int64   `json:"used_bytes"`
	QuotaBytes   int64   `json:"quota_bytes"`
	UsagePercent float64 `json:"usage_percent"`
}

type GalleryService interface {
	// Reload replaces the in-memory projection with the current store
	// contents, newest first. Safe to call repeatedly; a reload that is
	// superseded by a later one discards its results.
	Reload(ctx context.Context) error
	Images() []GalleryImage
	Get(id int64) (GalleryImage, bool)
	Export(ctx context.Context, id int64) (models.Image, error)
	DeleteOne(ctx context.Context, id int64) error
	Delete(ctx context.Context, ids []int64) error
	UsedBytes() int64
	QuotaEstimate() int64
	StorageInfo() StorageInfo
}

type galleryService struct {
	txManager  TxManager
	images     repositories.ImageRepository
	thumbs     ThumbnailService
	handles    *HandleRegistry
	quotaBytes int64

	mu         sync.Mutex
	entries    []GalleryImage
	generation uint64
	pending    sync.WaitGroup
}

func NewGalleryService(
	txManager TxManager,
	images repositories.ImageRepository,
	thumbs ThumbnailService,
	handles *HandleRegistry,
	quotaBytes int64,
) GalleryService {
	return &galleryService{
		txManager:  txManager,
		images:     images,
		thumbs:     thumbs,
		handles:    handles,
		quotaBytes: quotaBytes,
	}
}

func handlePath(token string) string {
	return "/blobs/" + token
}

func (s *galleryService) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	records, err := s.images.GetAll(ctx, nil)
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to load images", err)
	}

	entries := make([]GalleryImage, 0, len(records))
	var lazy []models.Image
	for _, rec := range records {
		entry := GalleryImage{
			ID:          rec.ID,
			Name:        rec.Name,
			Size:        rec.Size,
			MimeType:    rec.MimeType,
			AddedAt:     rec.AddedAt,
			OriginalURL: rec.OriginalURL,
		}
		entry.urlToken = s.handles.Create(rec.Blob, rec.MimeType)
		entry.URL = handlePath(entry.urlToken)

		if len(rec.Thumbnail) > 0 {
			entry.thumbToken = s.handles.Create(rec.Thumbnail, "image/jpeg")
			entry.ThumbnailURL = handlePath(entry.thumbToken)
		} else if s.thumbs.Eligible(rec.MimeType) {
			lazy = append(lazy, rec)
		}

		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return parseAddedAt(entries[i].AddedAt).After(parseAddedAt(entries[j].AddedAt))
	})

	s.mu.Lock()
	if gen != s.generation {
		// A later reload superseded this one; drop everything we built.
		s.mu.Unlock()
		for _, entry := range entries {
			s.revokeEntry(entry)
		}
		return nil
	}
	old := s.entries
	s.entries = entries
	s.mu.Unlock()

	for _, entry := range old {
		s.revokeEntry(entry)
	}

	for _, rec := range lazy {
		rec := rec
		s.pending.Add(1)
		go func() {
			defer s.pending.Done()
			s.generateThumbnail(gen, rec.ID, rec.Blob)
		}()
	}

	return nil
}

// generateThumbnail runs off the request path: it builds the preview,
// persists it once so it is never regenerated for this id, and patches the
// live entry unless the reload that scheduled it has been superseded.
func (s *galleryService) generateThumbnail(gen uint64, id int64, blob []byte) {
	ctx := context.Background()

	thumb, err := s.thumbs.Generate(ctx, blob)
	if err != nil {
		logger.Debugf("thumbnail generation for image %d failed: %v", id, err)
		return
	}

	if err := s.images.UpdateThumbnail(ctx, nil, id, thumb); err != nil {
		logger.Debugf("persist thumbnail for image %d failed: %v", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	for i := range s.entries {
		if s.entries[i].ID != id || s.entries[i].thumbToken != "" {
			continue
		}
		token := s.handles.Create(thumb, "image/jpeg")
		s.entries[i].thumbToken = token
		s.entries[i].ThumbnailURL = handlePath(token)
		break
	}
}

func (s *galleryService) Images() []GalleryImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]GalleryImage, len(s.entries))
	copy(snapshot, s.entries)
	return snapshot
}

func (s *galleryService) Get(id int64) (GalleryImage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return GalleryImage{}, false
}

func (s *galleryService) Export(ctx context.Context, id int64) (models.Image, error) {
	image, err := s.images.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Image{}, newAppError(http.StatusNotFound, "image not found", nil)
		}
		return models.Image{}, newAppError(http.StatusInternalServerError, "failed to read image", err)
	}
	return image, nil
}

func (s *galleryService) DeleteOne(ctx context.Context, id int64) error {
	s.evict([]int64{id})
	if err := s.images.DeleteByID(ctx, nil, id); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to delete image", classifyStoreError(err))
	}
	return s.Reload(ctx)
}

// Delete removes the given ids in one transaction: either every row goes or
// none do. Handles are released before the rows, mirroring eviction order.
func (s *galleryService) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	s.evict(ids)
	err := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		return s.images.DeleteByIDs(ctx, tx, ids)
	})
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to delete images", classifyStoreError(err))
	}
	return s.Reload(ctx)
}

// evict releases the display handles of entries leaving the in-memory set.
func (s *galleryService) evict(ids []int64) {
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	s.mu.Lock()
	var evicted []GalleryImage
	kept := s.entries[:0]
	for _, entry := range s.entries {
		if wanted[entry.ID] {
			evicted = append(evicted, entry)
			continue
		}
		kept = append(kept, entry)
	}
	s.entries = kept
	s.mu.Unlock()

	for _, entry := range evicted {
		s.revokeEntry(entry)
	}
}

func (s *galleryService) revokeEntry(entry GalleryImage) {
	s.handles.Revoke(entry.urlToken)
	s.handles.Revoke(entry.thumbToken)
}

func (s *galleryService) UsedBytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, entry := range s.entries {
		total += entry.Size
	}
	return total
}

// QuotaEstimate never fails: an unconfigured quota degrades to the fixed
// fallback constant.
func (s *galleryService) QuotaEstimate() int64 {
	if s.quotaBytes > 0 {
		return s.quotaBytes
	}
	return fallbackQuotaBytes
}

func (s *galleryService) StorageInfo() StorageInfo {
	used := s.UsedBytes()
	quota := s.QuotaEstimate()

	percent := 0.0
	if quota > 0 {
		percent = float64(used) / float64(quota) * 100
	}

	return StorageInfo{
		UsedBytes:    used,
		QuotaBytes:   quota,
		UsagePercent: percent,
	}
}

func parseAddedAt(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
