package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/NMGRL/trayclassifier/internal/domain"
	"github.com/NMGRL/trayclassifier/internal/imaging"
)

// labelN ingests n distinct images and labels each one as labelName by
// userName, returning the last image labeled.
func labelN(t *testing.T, catalog *CatalogService, n int, seedBase uint8, labelName, userName string) *domain.Image {
	t.Helper()
	ctx := context.Background()

	var last *domain.Image
	for i := 0; i < n; i++ {
		img, _, err := catalog.Ingest(ctx, &IngestRequest{Data: trayPNG(t, seedBase+uint8(i))})
		if err != nil {
			t.Fatalf("ingest failed: %v", err)
		}
		if err := catalog.AddLabel(ctx, img.ID, labelName, userName); err != nil {
			t.Fatalf("AddLabel failed: %v", err)
		}
		last = img
	}
	return last
}

func TestScoreboardSorted(t *testing.T) {
	catalog, reports := newTestServices(t)
	ctx := context.Background()

	labelN(t, catalog, 3, 10, "good", "alice")
	labelN(t, catalog, 1, 20, "bad", "bob")
	labelN(t, catalog, 2, 30, "empty", "carol")

	scores, err := reports.Scoreboard(ctx, "")
	if err != nil {
		t.Fatalf("Scoreboard failed: %v", err)
	}

	want := []domain.UserScore{
		{Name: "alice", Total: 3},
		{Name: "carol", Total: 2},
		{Name: "bob", Total: 1},
	}
	if len(scores) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(scores))
	}
	for i := range want {
		if scores[i] != want[i] {
			t.Errorf("row %d: got %+v, want %+v", i, scores[i], want[i])
		}
	}
}

func TestScoreboardPinsUser(t *testing.T) {
	catalog, reports := newTestServices(t)
	ctx := context.Background()

	labelN(t, catalog, 3, 10, "good", "alice")
	labelN(t, catalog, 1, 20, "bad", "bob")
	labelN(t, catalog, 2, 30, "empty", "carol")

	scores, err := reports.Scoreboard(ctx, "bob")
	if err != nil {
		t.Fatalf("Scoreboard failed: %v", err)
	}

	// Bob first despite the lowest count; the rest keep their order
	want := []domain.UserScore{
		{Name: "bob", Total: 1},
		{Name: "alice", Total: 3},
		{Name: "carol", Total: 2},
	}
	for i := range want {
		if scores[i] != want[i] {
			t.Errorf("row %d: got %+v, want %+v", i, scores[i], want[i])
		}
	}

	// Pinning an unknown user changes nothing
	scores, err = reports.Scoreboard(ctx, "nobody")
	if err != nil {
		t.Fatalf("Scoreboard failed: %v", err)
	}
	if scores[0].Name != "alice" {
		t.Errorf("unknown pin user reordered the scoreboard: %+v", scores)
	}
}

func TestPerLabelCounts(t *testing.T) {
	catalog, reports := newTestServices(t)
	ctx := context.Background()

	labelN(t, catalog, 2, 10, "good", "alice")
	labelN(t, catalog, 1, 20, "blurry", "alice")
	labelN(t, catalog, 1, 30, "good", "bob")

	counts, err := reports.ByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ByUser failed: %v", err)
	}
	got := map[string]int64{}
	for _, row := range counts {
		got[row.Label] = row.Count
	}
	if got["good"] != 2 || got["blurry"] != 1 {
		t.Errorf("unexpected per-label counts for alice: %v", got)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 labels for alice, got %v", got)
	}

	summary, err := reports.GlobalSummary(ctx)
	if err != nil {
		t.Fatalf("GlobalSummary failed: %v", err)
	}
	global := map[string]int64{}
	for _, row := range summary.Table {
		global[row.Label] = row.Count
	}
	if global["good"] != 3 || global["blurry"] != 1 {
		t.Errorf("unexpected global counts: %v", global)
	}
	if summary.Total != 4 || summary.Unclassified != 0 {
		t.Errorf("unexpected totals: %+v", summary)
	}
}

func TestRelabelAppends(t *testing.T) {
	catalog, reports := newTestServices(t)
	ctx := context.Background()

	img, _, err := catalog.Ingest(ctx, &IngestRequest{Data: trayPNG(t, 1)})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	// Same image, same label, same user: two rows, two scoreboard points
	for i := 0; i < 2; i++ {
		if err := catalog.AddLabel(ctx, img.ID, "good", "alice"); err != nil {
			t.Fatalf("AddLabel failed: %v", err)
		}
	}

	scores, err := reports.Scoreboard(ctx, "")
	if err != nil {
		t.Fatalf("Scoreboard failed: %v", err)
	}
	if len(scores) != 1 || scores[0].Total != 2 {
		t.Errorf("expected alice with 2 labeling events, got %v", scores)
	}
}

func TestRepresentativesPickLatest(t *testing.T) {
	catalog, reports := newTestServices(t)
	ctx := context.Background()

	labelN(t, catalog, 1, 10, "good", "alice")
	latest := labelN(t, catalog, 1, 20, "good", "bob")
	blurry := labelN(t, catalog, 1, 30, "blurry", "alice")

	reps, err := reports.Representatives(ctx)
	if err != nil {
		t.Fatalf("Representatives failed: %v", err)
	}

	byLabel := map[string]RepresentativeImage{}
	for _, rep := range reps {
		byLabel[rep.Label] = rep
	}

	// Only labels with assignments appear
	if len(byLabel) != 2 {
		t.Fatalf("expected 2 representative labels, got %v", byLabel)
	}
	if byLabel["good"].ImageID != latest.ID {
		t.Errorf("representative for good should be the latest labeled image %d, got %d",
			latest.ID, byLabel["good"].ImageID)
	}
	if byLabel["blurry"].ImageID != blurry.ID {
		t.Errorf("representative for blurry should be image %d, got %d",
			blurry.ID, byLabel["blurry"].ImageID)
	}

	// Inline payload is the stored encoding
	blob, err := base64.StdEncoding.DecodeString(byLabel["good"].Image)
	if err != nil {
		t.Fatalf("representative image is not valid base64: %v", err)
	}
	if imaging.HashBytes(blob) != byLabel["good"].Hash {
		t.Error("representative bytes do not match the image's content hash")
	}
}

func TestTotalsTrackClassification(t *testing.T) {
	catalog, reports := newTestServices(t)
	ctx := context.Background()

	imgA, _, err := catalog.Ingest(ctx, &IngestRequest{Data: trayPNG(t, 1)})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if _, _, err := catalog.Ingest(ctx, &IngestRequest{Data: trayPNG(t, 2)}); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	totals, err := reports.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if totals.Total != 2 || totals.Classified != 0 || totals.Unclassified != 2 {
		t.Errorf("unexpected totals before labeling: %+v", totals)
	}

	// Two assignments on one image still count it once
	if err := catalog.AddLabel(ctx, imgA.ID, "good", "alice"); err != nil {
		t.Fatalf("AddLabel failed: %v", err)
	}
	if err := catalog.AddLabel(ctx, imgA.ID, "bad", "bob"); err != nil {
		t.Fatalf("AddLabel failed: %v", err)
	}

	totals, err = reports.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if totals.Total != 2 || totals.Classified != 1 || totals.Unclassified != 1 {
		t.Errorf("unexpected totals after labeling: %+v", totals)
	}
}
