package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/NMGRL/trayclassifier/internal/config"
	"github.com/NMGRL/trayclassifier/internal/imaging"
	"github.com/NMGRL/trayclassifier/internal/logger"
	"github.com/NMGRL/trayclassifier/internal/repository"
)

// newTestServices opens a throwaway SQLite catalog, seeded with the
// vocabulary and default user.
func newTestServices(t *testing.T) (*CatalogService, *ReportService) {
	t.Helper()

	db, err := repository.InitDB(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "catalog.db"),
		MaxIdleConns: 1,
		MaxOpenConns: 1,
		AutoMigrate:  true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := repository.Seed(db); err != nil {
		t.Fatalf("failed to seed test database: %v", err)
	}

	images := repository.NewImageRepository(db)
	assignments := repository.NewAssignmentRepository(db)
	catalog := NewCatalogService(
		images,
		repository.NewLabelRepository(db),
		repository.NewUserRepository(db),
		assignments,
		nil,
		logger.GetDefault(),
	)
	reports := NewReportService(images, assignments, catalog)
	return catalog, reports
}

// trayPNG builds a small deterministic test image; seed varies the pixels.
func trayPNG(t *testing.T, seed uint8) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x) * seed, G: uint8(y), B: seed, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestIngestIdempotent(t *testing.T) {
	catalog, reports := newTestServices(t)
	ctx := context.Background()
	data := trayPNG(t, 1)

	first, created, err := catalog.Ingest(ctx, &IngestRequest{Data: data, Name: "tray1.png"})
	if err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}
	if !created {
		t.Error("first ingest should create a row")
	}

	second, created, err := catalog.Ingest(ctx, &IngestRequest{Data: data, Name: "tray1-copy.png"})
	if err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}
	if created {
		t.Error("duplicate ingest should be a no-op")
	}
	if second.ID != first.ID {
		t.Errorf("duplicate ingest returned a different image: %d != %d", second.ID, first.ID)
	}

	totals, err := reports.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if totals.Total != 1 {
		t.Errorf("expected 1 image after duplicate ingest, got %d", totals.Total)
	}
}

func TestIngestDistinctImages(t *testing.T) {
	catalog, reports := newTestServices(t)
	ctx := context.Background()

	for seed := uint8(1); seed <= 3; seed++ {
		if _, _, err := catalog.Ingest(ctx, &IngestRequest{Data: trayPNG(t, seed)}); err != nil {
			t.Fatalf("ingest %d failed: %v", seed, err)
		}
	}

	totals, err := reports.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if totals.Total != 3 {
		t.Errorf("expected 3 images, got %d", totals.Total)
	}
	if totals.Unclassified != 3 {
		t.Errorf("expected 3 unclassified images, got %d", totals.Unclassified)
	}
}

func TestNextImageFlow(t *testing.T) {
	catalog, _ := newTestServices(t)
	ctx := context.Background()

	imgA, _, err := catalog.Ingest(ctx, &IngestRequest{Data: trayPNG(t, 1), Name: "a"})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	imgB, _, err := catalog.Ingest(ctx, &IngestRequest{Data: trayPNG(t, 2), Name: "b"})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	// First unclassified is the lowest id
	next, err := catalog.NextImage(ctx, NextOptions{})
	if err != nil {
		t.Fatalf("NextImage failed: %v", err)
	}
	if next == nil || next.ID != imgA.ID {
		t.Fatalf("expected image %d first, got %+v", imgA.ID, next)
	}

	// Labeling A excludes it from the unclassified feed
	if err := catalog.AddLabel(ctx, imgA.ID, "good", "alice"); err != nil {
		t.Fatalf("AddLabel failed: %v", err)
	}
	next, err = catalog.NextImage(ctx, NextOptions{})
	if err != nil {
		t.Fatalf("NextImage failed: %v", err)
	}
	if next == nil || next.ID != imgB.ID {
		t.Fatalf("expected image %d after labeling, got %+v", imgB.ID, next)
	}

	// Skip-forward ignores classification status
	if err := catalog.AddLabel(ctx, imgB.ID, "bad", "alice"); err != nil {
		t.Fatalf("AddLabel failed: %v", err)
	}
	next, err = catalog.NextImage(ctx, NextOptions{AfterID: imgA.ID})
	if err != nil {
		t.Fatalf("NextImage failed: %v", err)
	}
	if next == nil || next.ID != imgB.ID {
		t.Fatalf("skip-forward should return classified image %d, got %+v", imgB.ID, next)
	}

	// Hash lookup wins over every other mode
	next, err = catalog.NextImage(ctx, NextOptions{Hash: imgA.Hash, AfterID: imgB.ID})
	if err != nil {
		t.Fatalf("NextImage failed: %v", err)
	}
	if next == nil || next.ID != imgA.ID {
		t.Fatalf("hash lookup should return image %d, got %+v", imgA.ID, next)
	}

	// Everything classified: empty result, not an error
	next, err = catalog.NextImage(ctx, NextOptions{})
	if err != nil {
		t.Fatalf("NextImage failed: %v", err)
	}
	if next != nil {
		t.Errorf("expected no unclassified image, got %+v", next)
	}
}

func TestAddLabelUnknown(t *testing.T) {
	catalog, reports := newTestServices(t)
	ctx := context.Background()

	img, _, err := catalog.Ingest(ctx, &IngestRequest{Data: trayPNG(t, 1)})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	err = catalog.AddLabel(ctx, img.ID, "pristine", "alice")
	if !errors.Is(err, ErrUnknownLabel) {
		t.Fatalf("expected ErrUnknownLabel, got %v", err)
	}

	// Rejected submission must not create a row
	counts, err := reports.ByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ByUser failed: %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("expected no assignments after rejected label, got %v", counts)
	}
}

func TestAddLabelMissingImage(t *testing.T) {
	catalog, _ := newTestServices(t)

	err := catalog.AddLabel(context.Background(), 9999, "good", "alice")
	if !errors.Is(err, ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
}

func TestAddLabelDefaultUser(t *testing.T) {
	catalog, reports := newTestServices(t)
	ctx := context.Background()

	img, _, err := catalog.Ingest(ctx, &IngestRequest{Data: trayPNG(t, 1)})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if err := catalog.AddLabel(ctx, img.ID, "empty", ""); err != nil {
		t.Fatalf("AddLabel failed: %v", err)
	}

	scores, err := reports.Scoreboard(ctx, "")
	if err != nil {
		t.Fatalf("Scoreboard failed: %v", err)
	}
	if len(scores) != 1 || scores[0].Name != "default" {
		t.Errorf("expected the default user on the scoreboard, got %v", scores)
	}
}

func TestBlobRoundTrip(t *testing.T) {
	catalog, _ := newTestServices(t)
	ctx := context.Background()

	img, _, err := catalog.Ingest(ctx, &IngestRequest{Data: trayPNG(t, 1)})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	data, contentType, err := catalog.Blob(ctx, img.Hash)
	if err != nil {
		t.Fatalf("Blob failed: %v", err)
	}
	if contentType != imaging.ContentType {
		t.Errorf("unexpected content type: got %s, want %s", contentType, imaging.ContentType)
	}
	if imaging.HashBytes(data) != img.Hash {
		t.Error("stored bytes do not hash to the image's content hash")
	}

	if _, _, err := catalog.Blob(ctx, "no-such-hash"); !errors.Is(err, ErrImageNotFound) {
		t.Errorf("expected ErrImageNotFound for unknown hash, got %v", err)
	}
}

func TestIngestRejectsGarbage(t *testing.T) {
	catalog, _ := newTestServices(t)

	_, _, err := catalog.Ingest(context.Background(), &IngestRequest{Data: []byte("not an image")})
	if err == nil {
		t.Error("expected error for undecodable upload")
	}
}
