// Package media normalizes uploaded files and manages their on-disk
// lifecycle under the uploads tree.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

const (
	// Raster images wider than this are downscaled, preserving aspect ratio.
	MaxImageWidth = 2000

	jpegQuality = 78
)

const DefaultCategory = "thoughts"

var ErrUnreadableUpload = errors.New("upload could not be read")

// KnownCategory reports whether category names one of the upload folders.
func KnownCategory(category string) bool {
	switch category {
	case "thoughts", "works", "analytics":
		return true
	}
	return false
}

type Upload struct {
	Filename string
	URL      string
	MIME     string
}

// SaveUpload writes an uploaded file into uploadsRoot/<category>. Files with
// a raster-image extension are decoded, flattened to RGB, downscaled to at
// most MaxImageWidth and re-encoded as compressed JPEG; a decode failure
// falls back to writing the bytes unchanged. Everything else is written
// as-is with a MIME type classified from the extension.
func SaveUpload(r io.Reader, filename, category, uploadsRoot string) (*Upload, error) {
	data, err := io.ReadAll(r)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableUpload, err)
	}

	if !KnownCategory(category) {
		category = DefaultCategory
	}

	dir := filepath.Join(uploadsRoot, category)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	base := fmt.Sprintf("%d-%s", time.Now().Unix(), shortSuffix())

	if isImageExt(ext) {
		if upload, err := saveNormalizedImage(data, base, category, dir); err == nil {
			return upload, nil
		}
		// Declared an image but would not decode: keep the raw bytes.
	}

	name := base + ext

	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return nil, err
	}

	return &Upload{
		Filename: name,
		URL:      "/static/uploads/" + category + "/" + name,
		MIME:     classifyMIME(ext),
	}, nil
}

func saveNormalizedImage(data []byte, base, category, dir string) (*Upload, error) {
	src, _, err := image.Decode(bytes.NewReader(data))

	if err != nil {
		return nil, err
	}

	name := base + ".jpg"
	out, err := os.Create(filepath.Join(dir, name))

	if err != nil {
		return nil, err
	}

	defer out.Close()

	if err := jpeg.Encode(out, normalize(src), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}

	return &Upload{
		Filename: name,
		URL:      "/api/images/" + category + "/" + name,
		MIME:     "image/jpeg",
	}, nil
}

// normalize flattens indexed/alpha color modes to plain RGB and downscales
// wide images with a high-quality filter.
func normalize(src image.Image) image.Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width <= MaxImageWidth {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		xdraw.Draw(dst, dst.Bounds(), src, bounds.Min, xdraw.Src)
		return dst
	}

	scaled := MaxImageWidth * height / width
	dst := image.NewRGBA(image.Rect(0, 0, MaxImageWidth, scaled))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Src, nil)

	return dst
}

func isImageExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func classifyMIME(ext string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".ipynb":
		return "application/json"
	}

	return "application/octet-stream"
}

func shortSuffix() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}
