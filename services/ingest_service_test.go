package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestIngest(t *testing.T) (IngestService, *fakeImageRepo, *fakeProgressRepo, *fakeGallery) {
	t.Helper()

	images := newFakeImageRepo()
	progress := &fakeProgressRepo{}
	gallery := &fakeGallery{}
	svc := NewIngestService(images, progress, testThumbnailService(), gallery, 5*time.Second, 10<<20)
	return svc, images, progress, gallery
}

func TestIngestURLsCollectsPerItemErrors(t *testing.T) {
	payload := encodePNG(t, 40, 30)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sunset.png", "/beach.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(payload)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	svc, images, _, gallery := newTestIngest(t)

	raw := server.URL + "/sunset.png\n\n  " + server.URL + "/missing.jpg  \n" + server.URL + "/beach.png\n"
	report, err := svc.IngestURLs(context.Background(), raw)
	if err != nil {
		t.Fatalf("IngestURLs failed: %v", err)
	}

	if len(report.Stored) != 2 {
		t.Fatalf("expected 2 stored, got %v", report.Stored)
	}
	if report.Stored[0] != "sunset.png" || report.Stored[1] != "beach.png" {
		t.Fatalf("expected input order preserved, got %v", report.Stored)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", report.Errors)
	}
	if !strings.Contains(report.Errors[0], "/missing.jpg") || !strings.Contains(report.Errors[0], "HTTP 404") {
		t.Fatalf("expected error to name the URL and status, got %q", report.Errors[0])
	}
	if report.Attempted != 3 {
		t.Fatalf("expected 3 attempted, got %d", report.Attempted)
	}
	if report.Message != "Successfully downloaded 2 images" {
		t.Fatalf("unexpected message: %q", report.Message)
	}

	if images.count() != 2 {
		t.Fatalf("expected 2 records in store, got %d", images.count())
	}
	if gallery.reloadCount() != 1 {
		t.Fatalf("expected a single gallery reload, got %d", gallery.reloadCount())
	}

	out, err := svc.Progress(context.Background())
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if out.Percent != 100 || out.Attempted != 3 || out.Total != 3 {
		t.Fatalf("expected progress to finish at 100%% despite failures, got %+v", out)
	}
}

func TestIngestURLsEmptyInput(t *testing.T) {
	svc, images, _, gallery := newTestIngest(t)

	report, err := svc.IngestURLs(context.Background(), "  \n\n ")
	if err != nil {
		t.Fatalf("IngestURLs failed: %v", err)
	}
	if report.Attempted != 0 || len(report.Stored) != 0 || len(report.Errors) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
	if images.count() != 0 || gallery.reloadCount() != 0 {
		t.Fatalf("expected no side effects for empty input")
	}
}

func TestIngestFilesSkipsNonWhitelistedTypes(t *testing.T) {
	svc, images, _, gallery := newTestIngest(t)

	payload := encodePNG(t, 40, 30)
	files := []IngestFile{
		{Name: "a.png", MimeType: "image/png", Data: payload},
		{Name: "notes.txt", MimeType: "text/plain", Data: []byte("hello")},
		{Name: "../b.png", MimeType: "image/PNG; charset=binary", Data: payload},
	}

	report, err := svc.IngestFiles(context.Background(), files)
	if err != nil {
		t.Fatalf("IngestFiles failed: %v", err)
	}

	if report.Skipped != 1 {
		t.Fatalf("expected 1 skipped, got %d", report.Skipped)
	}
	if len(report.Stored) != 2 {
		t.Fatalf("expected 2 stored, got %v", report.Stored)
	}
	if report.Stored[1] != "b.png" {
		t.Fatalf("expected sanitized name, got %q", report.Stored[1])
	}
	if report.Message != "Successfully uploaded 2 images" {
		t.Fatalf("unexpected message: %q", report.Message)
	}
	if images.count() != 2 {
		t.Fatalf("expected 2 records in store, got %d", images.count())
	}
	if gallery.reloadCount() != 1 {
		t.Fatalf("expected a single gallery reload, got %d", gallery.reloadCount())
	}
}

func TestIngestFilesRejectsUndecodablePayload(t *testing.T) {
	svc, images, _, _ := newTestIngest(t)

	report, err := svc.IngestFiles(context.Background(), []IngestFile{
		{Name: "broken.png", MimeType: "image/png", Data: []byte("garbage")},
	})
	if err != nil {
		t.Fatalf("IngestFiles failed: %v", err)
	}

	if len(report.Errors) != 1 || !strings.Contains(report.Errors[0], "broken.png") {
		t.Fatalf("expected per-item decode error, got %v", report.Errors)
	}
	if images.count() != 0 {
		t.Fatalf("undecodable payload must not be stored")
	}
}

func TestIngestFilesKeepsGifWithoutThumbnail(t *testing.T) {
	svc, images, _, _ := newTestIngest(t)

	report, err := svc.IngestFiles(context.Background(), []IngestFile{
		{Name: "anim.gif", MimeType: "image/gif", Data: []byte("GIF89a fake body")},
	})
	if err != nil {
		t.Fatalf("IngestFiles failed: %v", err)
	}
	if len(report.Stored) != 1 {
		t.Fatalf("expected gif to be stored, got %+v", report)
	}

	all, _ := images.GetAll(context.Background(), nil)
	if len(all) != 1 || len(all[0].Thumbnail) != 0 {
		t.Fatalf("expected gif stored without a thumbnail")
	}
}
