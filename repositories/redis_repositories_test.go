package repositories

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestIngestProgressLifecycle(t *testing.T) {
	repo := NewRedisIngestProgressRepository(newTestRedis(t), 60)
	ctx := context.Background()

	if err := repo.Reset(ctx, 3); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	snapshot, err := repo.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snapshot.Total != 3 || snapshot.Attempted != 0 || snapshot.Current != "" {
		t.Fatalf("unexpected fresh snapshot: %+v", snapshot)
	}

	for _, url := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		if err := repo.MarkAttempted(ctx, url); err != nil {
			t.Fatalf("MarkAttempted failed: %v", err)
		}
	}

	snapshot, err = repo.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snapshot.Attempted != 3 || snapshot.Total != 3 || snapshot.Current != "c.jpg" {
		t.Fatalf("unexpected snapshot after marks: %+v", snapshot)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	snapshot, err = repo.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snapshot.Total != 0 || snapshot.Attempted != 0 {
		t.Fatalf("expected cleared progress, got %+v", snapshot)
	}
}

func TestIngestProgressResetRestartsCount(t *testing.T) {
	repo := NewRedisIngestProgressRepository(newTestRedis(t), 0)
	ctx := context.Background()

	if err := repo.Reset(ctx, 2); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if err := repo.MarkAttempted(ctx, "x.png"); err != nil {
		t.Fatalf("MarkAttempted failed: %v", err)
	}
	if err := repo.Reset(ctx, 5); err != nil {
		t.Fatalf("second Reset failed: %v", err)
	}

	snapshot, err := repo.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snapshot.Total != 5 || snapshot.Attempted != 0 {
		t.Fatalf("expected a fresh counter after reset, got %+v", snapshot)
	}
}

func TestSettingsRepositoryGetUnsetKey(t *testing.T) {
	repo := NewRedisSettingsRepository(newTestRedis(t))

	value, err := repo.Get(context.Background(), "gallery-app-theme")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "" {
		t.Fatalf("expected empty string for unset key, got %q", value)
	}
}

func TestSettingsRepositoryRoundTrip(t *testing.T) {
	repo := NewRedisSettingsRepository(newTestRedis(t))
	ctx := context.Background()

	if err := repo.Set(ctx, "gallery-app-theme", "dark"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, err := repo.Get(ctx, "gallery-app-theme")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "dark" {
		t.Fatalf("expected dark, got %q", value)
	}
}
