// Package imaging normalizes uploaded tray photographs into the single
// at-rest representation the catalog stores: an uncompressed TIFF whose
// bytes are the input to the content hash. Encoding with fixed options
// keeps the output deterministic, so identical pixels always produce
// identical stored bytes and therefore the same hash.
package imaging

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format is the at-rest encoding of every stored image.
const Format = "tiff"

// ContentType is the MIME type served on blob retrieval.
const ContentType = "image/tiff"

// Normalized is the canonical form of an uploaded image.
type Normalized struct {
	Bytes  []byte
	Hash   string
	Width  int
	Height int
}

// Normalize decodes data (PNG, JPEG, GIF, BMP, WebP, or TIFF), optionally
// trims cropBorder pixels from every edge, re-encodes as uncompressed
// TIFF, and hashes the encoded bytes.
// Parameters:
//   - data: raw uploaded image bytes.
//   - cropBorder: pixels to trim from each edge; 0 keeps the full frame.
// Returns:
//   - *Normalized: encoded bytes, hex SHA-256 hash, and pixel dimensions.
//   - error: non-nil if the bytes do not decode as a supported image.
func Normalize(data []byte, cropBorder int) (*Normalized, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if cropBorder > 0 {
		img = cropEdges(img, cropBorder)
	}

	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Uncompressed}); err != nil {
		return nil, fmt.Errorf("failed to encode tiff: %w", err)
	}

	b := img.Bounds()
	return &Normalized{
		Bytes:  buf.Bytes(),
		Hash:   HashBytes(buf.Bytes()),
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// HashBytes returns the hex SHA-256 digest of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// cropEdges trims border pixels from every edge. Images too small to
// survive the trim are returned unchanged.
func cropEdges(img image.Image, border int) image.Image {
	b := img.Bounds()
	r := image.Rect(b.Min.X+border, b.Min.Y+border, b.Max.X-border, b.Max.Y-border)
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return img
	}

	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}
