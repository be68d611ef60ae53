package upload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"net/http"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// MaxWidth is the widest raster image stored as-is.
const MaxWidth = 2000

// MaxPixels caps the decoded size of an upload; a small compressed file can
// declare dimensions that would take gigabytes to decode.
const MaxPixels = 40_000_000

var (
	ErrEmptyFile     = errors.New("upload: file is empty")
	ErrFileTooLarge  = errors.New("upload: file exceeds size limit")
	ErrInvalidMIME   = errors.New("upload: file type not allowed")
	ErrTooManyPixels = errors.New("upload: image dimensions exceed limit")
)

// allowed maps accepted content types to their object key extension.
var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// DetectType sniffs the content type from the leading bytes.
func DetectType(data []byte) (contentType, ext string, err error) {
	if len(data) == 0 {
		return "", "", ErrEmptyFile
	}
	contentType = http.DetectContentType(data)
	ext, ok := allowed[contentType]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidMIME, contentType)
	}
	return contentType, ext, nil
}

// Downscale shrinks images wider than MaxWidth, keeping the aspect ratio.
// GIFs pass through untouched so animations survive. WebP is re-encoded as
// JPEG since there is no WebP encoder. The returned type and extension
// describe the output bytes.
func Downscale(data []byte, contentType string) ([]byte, string, string, error) {
	ext := allowed[contentType]
	if contentType == "image/gif" {
		return data, contentType, ext, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: cannot read image header: %v", ErrInvalidMIME, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, "", "", fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: cannot decode image: %v", ErrInvalidMIME, err)
	}
	if img.Bounds().Dx() <= MaxWidth {
		return data, contentType, ext, nil
	}

	resized := imaging.Resize(img, MaxWidth, 0, imaging.Lanczos)

	format, outType, outExt := imaging.JPEG, "image/jpeg", ".jpg"
	if contentType == "image/png" {
		format, outType, outExt = imaging.PNG, "image/png", ".png"
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return nil, "", "", fmt.Errorf("encode resized image: %w", err)
	}
	return buf.Bytes(), outType, outExt, nil
}
