// Package picture turns uploaded profile pictures into square JPEG thumbnails.
package picture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/MatsuStefanie/cursomc/internal/domain"
)

const (
	ContentType = "image/jpeg"
	jpegQuality = 90
)

type Result struct {
	Bytes       []byte
	ContentType string
}

// Prepare validates the declared extension, decodes raw, flattens PNG
// transparency onto white, crops the centered square, resizes it so its
// side is size and encodes the result as JPEG.
func Prepare(raw []byte, ext string, size int) (Result, error) {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext != "png" && ext != "jpg" {
		return Result{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
	if size <= 0 {
		return Result{}, fmt.Errorf("%w: target size %d", domain.ErrValidation, size)
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if ext == "png" {
		img = Flatten(img)
	}
	img = Resize(CropSquare(img), size)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return Result{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return Result{Bytes: buf.Bytes(), ContentType: ContentType}, nil
}

// Flatten draws img over an opaque white canvas of the same size.
func Flatten(img image.Image) image.Image {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

// CropSquare keeps the centered min(w,h) square. The origin on each axis is
// w/2 - side/2 with integer division.
func CropSquare(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	side := min(w, h)
	x := b.Min.X + w/2 - side/2
	y := b.Min.Y + h/2 - side/2
	return imaging.Crop(img, image.Rect(x, y, x+side, y+side))
}

// Resize scales img so that its longer side equals size, keeping the aspect ratio.
func Resize(img image.Image, size int) image.Image {
	b := img.Bounds()
	if b.Dx() >= b.Dy() {
		return imaging.Resize(img, size, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, size, imaging.Lanczos)
}

// ProfileKey is the object key of a client's profile picture.
func ProfileKey(prefix string, clientID uint) string {
	return fmt.Sprintf("%s%d.jpg", prefix, clientID)
}
