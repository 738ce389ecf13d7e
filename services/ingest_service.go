package services

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/francismul/oracle-image-gallery/logger"
	"github.com/francismul/oracle-image-gallery/models"
	"github.com/francismul/oracle-image-gallery/repositories"
)

// allowedUploadTypes is the MIME whitelist for local file ingestion.
// image/jpg is not a registered type but browsers emit it, so it stays.
var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type IngestFile struct {
	Name     string
	MimeType string
	Data     []byte
}

type IngestReport struct {
	Stored    []string `json:"stored"`
	Errors    []string `json:"errors"`
	Skipped   int      `json:"skipped"`
	Attempted int      `json:"attempted"`
	Message   string   `json:"message,omitempty"`
}

type ProgressOutput struct {
	Percent   float64 `json:"percent"`
	Attempted int     `json:"attempted"`
	Total     int     `json:"total"`
	Current   string  `json:"current,omitempty"`
}

type IngestService interface {
	// IngestURLs stores every image named in the newline-separated list,
	// strictly in input order. Item failures are collected, never fatal;
	// progress reaches 100% regardless.
	IngestURLs(ctx context.Context, raw string) (IngestReport, error)
	// IngestFiles stores the accepted files and reports how many were
	// rejected by the MIME whitelist.
	IngestFiles(ctx context.Context, files []IngestFile) (IngestReport, error)
	Progress(ctx context.Context) (ProgressOutput, error)
}

type ingestService struct {
	images      repositories.ImageRepository
	progress    repositories.IngestProgressRepository
	thumbs      ThumbnailService
	gallery     GalleryService
	client      *http.Client
	maxFileSize int64
}

func NewIngestService(
	images repositories.ImageRepository,
	progress repositories.IngestProgressRepository,
	thumbs ThumbnailService,
	gallery GalleryService,
	fetchTimeout time.Duration,
	maxFileSize int64,
) IngestService {
	return &ingestService{
		images:      images,
		progress:    progress,
		thumbs:      thumbs,
		gallery:     gallery,
		client:      &http.Client{Timeout: fetchTimeout},
		maxFileSize: maxFileSize,
	}
}

// newImageID builds a time-based id with a random sub-millisecond tie-break
// so rapid successive ingests cannot collide.
func newImageID() int64 {
	return time.Now().UnixMilli()*1_000_000 + rand.Int63n(1_000_000)
}

func (s *ingestService) IngestURLs(ctx context.Context, raw string) (IngestReport, error) {
	var urls []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}

	var report IngestReport
	if len(urls) == 0 {
		return report, nil
	}

	s.resetProgress(ctx, len(urls))

	for _, u := range urls {
		name, err := s.fetchAndStore(ctx, u)
		if err != nil {
			report.Errors = append(report.Errors, u+": "+err.Error())
		} else {
			report.Stored = append(report.Stored, name)
		}
		report.Attempted++
		s.markAttempted(ctx, u)
	}

	if n := len(report.Stored); n > 0 {
		report.Message = fmt.Sprintf("Successfully downloaded %d image%s", n, plural(n))
	}

	s.reloadGallery(ctx)
	return report, nil
}

func (s *ingestService) IngestFiles(ctx context.Context, files []IngestFile) (IngestReport, error) {
	var report IngestReport

	accepted := make([]IngestFile, 0, len(files))
	for _, file := range files {
		if allowedUploadTypes[normalizeMimeType(file.MimeType)] {
			accepted = append(accepted, file)
			continue
		}
		report.Skipped++
	}

	if len(accepted) == 0 {
		return report, nil
	}

	s.resetProgress(ctx, len(accepted))

	for _, file := range accepted {
		name := sanitizeFilename(file.Name)
		if err := s.store(ctx, name, normalizeMimeType(file.MimeType), file.Data, ""); err != nil {
			report.Errors = append(report.Errors, name+": "+err.Error())
		} else {
			report.Stored = append(report.Stored, name)
		}
		report.Attempted++
		s.markAttempted(ctx, name)
	}

	if n := len(report.Stored); n > 0 {
		report.Message = fmt.Sprintf("Successfully uploaded %d image%s", n, plural(n))
	}

	s.reloadGallery(ctx)
	return report, nil
}

func (s *ingestService) Progress(ctx context.Context) (ProgressOutput, error) {
	snapshot, err := s.progress.Snapshot(ctx)
	if err != nil {
		return ProgressOutput{}, newAppError(http.StatusInternalServerError, "failed to read ingest progress", err)
	}

	out := ProgressOutput{
		Attempted: snapshot.Attempted,
		Total:     snapshot.Total,
		Current:   snapshot.Current,
	}
	if snapshot.Total > 0 {
		out.Percent = float64(snapshot.Attempted) / float64(snapshot.Total) * 100
	}
	return out, nil
}

func (s *ingestService) fetchAndStore(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: HTTP %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if int64(len(body)) > s.maxFileSize {
		return "", fmt.Errorf("%w: payload exceeds %d bytes", ErrFetchFailed, s.maxFileSize)
	}

	mimeType := normalizeMimeType(resp.Header.Get("Content-Type"))
	if mimeType == "" {
		mimeType = normalizeMimeType(http.DetectContentType(body))
	}

	name := nameFromURL(rawURL)
	if err := s.store(ctx, name, mimeType, body, rawURL); err != nil {
		return "", err
	}
	return name, nil
}

// store writes one record in its own transaction. The thumbnail is
// generated before storage for eligible types; a payload that cannot be
// decoded is rejected as a per-item error rather than stored blind.
func (s *ingestService) store(ctx context.Context, name string, mimeType string, data []byte, originalURL string) error {
	image := models.Image{
		ID:          newImageID(),
		Name:        name,
		Blob:        data,
		Size:        int64(len(data)),
		MimeType:    mimeType,
		AddedAt:     time.Now().UTC().Format(time.RFC3339Nano),
		OriginalURL: originalURL,
	}

	if s.thumbs.Eligible(mimeType) {
		thumb, err := s.thumbs.Generate(ctx, data)
		if err != nil {
			return err
		}
		image.Thumbnail = thumb
	}

	if err := s.images.Create(ctx, nil, &image); err != nil {
		return classifyStoreError(err)
	}
	return nil
}

func (s *ingestService) resetProgress(ctx context.Context, total int) {
	if err := s.progress.Reset(ctx, total); err != nil {
		logger.Debugf("reset ingest progress failed: %v", err)
	}
}

func (s *ingestService) markAttempted(ctx context.Context, current string) {
	if err := s.progress.MarkAttempted(ctx, current); err != nil {
		logger.Debugf("update ingest progress failed: %v", err)
	}
}

func (s *ingestService) reloadGallery(ctx context.Context) {
	if err := s.gallery.Reload(ctx); err != nil {
		logger.Errorf("gallery reload after ingest failed: %v", err)
	}
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
