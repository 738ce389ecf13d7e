package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/francismul/oracle-image-gallery/config"

	"github.com/disintegration/imaging"
)

type ThumbnailService interface {
	// Eligible reports whether a payload of the given MIME type should be
	// thumbnailed. Animated GIFs are excluded so the gallery keeps their
	// animation and shows the original instead.
	Eligible(mimeType string) bool
	// Generate decodes the payload, scales it down to fit the configured
	// bounding box (never upscales) and re-encodes it as JPEG.
	Generate(ctx context.Context, payload []byte) ([]byte, error)
}

type thumbnailService struct {
	width   int
	height  int
	quality int
}

func NewThumbnailService(cfg config.ThumbnailConfig) ThumbnailService {
	return &thumbnailService{
		width:   cfg.Width,
		height:  cfg.Height,
		quality: cfg.Quality,
	}
}

func (s *thumbnailService) Eligible(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") && mimeType != "image/gif"
}

func (s *thumbnailService) Generate(ctx context.Context, payload []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(payload), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	thumb := imaging.Fit(img, s.width, s.height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(s.quality)); err != nil {
		return nil, fmt.Errorf("encode thumbnail failed: %w", err)
	}
	return buf.Bytes(), nil
}
