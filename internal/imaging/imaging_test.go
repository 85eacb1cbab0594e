package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// testPNG builds a small PNG with a deterministic gradient so different
// seeds produce different pixel data.
func testPNG(t *testing.T, width, height int, seed uint8) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8(x) + seed,
				G: uint8(y),
				B: seed,
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeDeterministic(t *testing.T) {
	data := testPNG(t, 64, 48, 1)

	first, err := Normalize(data, 0)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	second, err := Normalize(data, 0)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if first.Hash != second.Hash {
		t.Errorf("hash not deterministic: %s != %s", first.Hash, second.Hash)
	}
	if !bytes.Equal(first.Bytes, second.Bytes) {
		t.Error("encoded bytes not deterministic")
	}
	if len(first.Hash) != 64 {
		t.Errorf("unexpected hash length: got %d, want 64", len(first.Hash))
	}
}

func TestNormalizeDistinctInputs(t *testing.T) {
	a, err := Normalize(testPNG(t, 64, 48, 1), 0)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	b, err := Normalize(testPNG(t, 64, 48, 2), 0)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if a.Hash == b.Hash {
		t.Errorf("different pixels produced the same hash: %s", a.Hash)
	}
}

func TestNormalizeCrop(t *testing.T) {
	testCases := []struct {
		name       string
		width      int
		height     int
		border     int
		wantWidth  int
		wantHeight int
	}{
		{
			name:       "no crop",
			width:      300,
			height:     200,
			border:     0,
			wantWidth:  300,
			wantHeight: 200,
		},
		{
			name:       "border trimmed from each edge",
			width:      300,
			height:     200,
			border:     50,
			wantWidth:  200,
			wantHeight: 100,
		},
		{
			name:       "image too small to crop",
			width:      80,
			height:     60,
			border:     100,
			wantWidth:  80,
			wantHeight: 60,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			norm, err := Normalize(testPNG(t, tc.width, tc.height, 1), tc.border)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if norm.Width != tc.wantWidth || norm.Height != tc.wantHeight {
				t.Errorf("unexpected dimensions: got %dx%d, want %dx%d",
					norm.Width, norm.Height, tc.wantWidth, tc.wantHeight)
			}
		})
	}
}

func TestNormalizeCropChangesHash(t *testing.T) {
	data := testPNG(t, 300, 200, 1)

	full, err := Normalize(data, 0)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	cropped, err := Normalize(data, 50)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if full.Hash == cropped.Hash {
		t.Error("cropped image hashed identically to the full frame")
	}
}

func TestNormalizeInvalidBytes(t *testing.T) {
	if _, err := Normalize([]byte("not an image"), 0); err == nil {
		t.Error("expected error for undecodable bytes")
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	norm, err := Normalize(testPNG(t, 32, 32, 3), 0)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	// Stored bytes must themselves be a decodable image
	again, err := Normalize(norm.Bytes, 0)
	if err != nil {
		t.Fatalf("stored bytes failed to decode: %v", err)
	}
	if again.Width != 32 || again.Height != 32 {
		t.Errorf("round trip changed dimensions: got %dx%d", again.Width, again.Height)
	}
}
