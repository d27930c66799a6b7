// Package imageproc validates uploaded photos and prepares them for the
// landmark detector.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/kozaktomas/petface/internal/constants"
)

// Supported upload formats.
const (
	MIMEJPEG    = "image/jpeg"
	MIMEPNG     = "image/png"
	MIMEWebP    = "image/webp"
	MIMEUnknown = "application/octet-stream"
)

// jpegQuality is used for every image sent to the detector.
const jpegQuality = 85

var (
	// ErrUnsupportedFormat is returned for bytes that are not JPEG, PNG or WebP.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrDecode is returned when a supported format fails to decode.
	ErrDecode = errors.New("failed to decode image")
)

// DetectMIMEType detects the MIME type from the image's magic bytes.
func DetectMIMEType(data []byte) string {
	if len(data) < 8 {
		return MIMEUnknown
	}
	// JPEG: FF D8 FF
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return MIMEJPEG
	}
	// PNG: 89 50 4E 47 0D 0A 1A 0A
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return MIMEPNG
	}
	// WebP: 52 49 46 46 ... 57 45 42 50
	if len(data) >= 12 && data[0] == 0x52 && data[1] == 0x49 && data[2] == 0x46 && data[3] == 0x46 &&
		data[8] == 0x57 && data[9] == 0x45 && data[10] == 0x42 && data[11] == 0x50 {
		return MIMEWebP
	}
	return MIMEUnknown
}

// IsSupported reports whether data starts like a JPEG, PNG or WebP file.
func IsSupported(data []byte) bool {
	return DetectMIMEType(data) != MIMEUnknown
}

// Prepare decodes an uploaded image, scales it to fit within maxSize on its
// longest side (keeping aspect ratio) and re-encodes it as JPEG. A maxSize of
// zero or less disables scaling. Images declaring more than
// constants.MaxImagePixels are rejected before any pixel is decoded.
func Prepare(data []byte, maxSize int) ([]byte, error) {
	if !IsSupported(data) {
		return nil, ErrUnsupportedFormat
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > constants.MaxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrDecode, cfg.Width, cfg.Height, constants.MaxImagePixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}

	if maxSize > 0 && (width > maxSize || height > maxSize) {
		newWidth, newHeight := fit(width, height, maxSize)
		resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		img = resized
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func fit(width, height, maxSize int) (int, int) {
	if width > height {
		return maxSize, max(1, int(float64(height)*float64(maxSize)/float64(width)))
	}
	return max(1, int(float64(width)*float64(maxSize)/float64(height))), maxSize
}
