// SPDX-License-Identifier: AGPL-3.0-only
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"

	"github.com/gen2brain/webp"
	"golang.org/x/image/draw"
)

const (
	MaxUploadSize = 25 * 1024 * 1024
	Quality       = 85
)

var (
	ErrDecode      = errors.New("failed to decode image")
	ErrInvalidCrop = errors.New("crop rectangle is outside the image")
)

// Crop is a rectangle in source pixel coordinates.
type Crop struct {
	X      int
	Y      int
	Width  int
	Height int
}

type Options struct {
	// Crop wins over Aspect when set.
	Crop *Crop
	// Aspect is width/height of the centre crop. Zero means square.
	Aspect float64
	// MaxDim caps the longest output side. Zero leaves the size alone.
	MaxDim int
}

// Process decodes a JPEG, PNG or WebP image, crops and downscales it and
// returns it encoded as WebP.
func Process(r io.Reader, opts Options) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	rect, err := cropRect(img.Bounds(), opts)
	if err != nil {
		return nil, err
	}

	w, h := fitWithin(rect.Dx(), rect.Dy(), opts.MaxDim)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, rect, draw.Over, nil)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, webp.Options{Lossless: false, Quality: Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image to WebP: %w", err)
	}
	return buf.Bytes(), nil
}

func DataURL(webpData []byte) string {
	return "data:image/webp;base64," + base64.StdEncoding.EncodeToString(webpData)
}

func cropRect(bounds image.Rectangle, opts Options) (image.Rectangle, error) {
	if opts.Crop != nil {
		c := opts.Crop
		if c.Width <= 0 || c.Height <= 0 {
			return image.Rectangle{}, ErrInvalidCrop
		}
		r := image.Rect(c.X, c.Y, c.X+c.Width, c.Y+c.Height).Add(bounds.Min).Intersect(bounds)
		if r.Empty() {
			return image.Rectangle{}, ErrInvalidCrop
		}
		return r, nil
	}

	aspect := opts.Aspect
	if aspect <= 0 {
		aspect = 1
	}

	width, height := bounds.Dx(), bounds.Dy()
	cw, ch := width, height
	if float64(width)/float64(height) > aspect {
		cw = max(1, int(math.Round(float64(height)*aspect)))
	} else {
		ch = max(1, int(math.Round(float64(width)/aspect)))
	}

	x0 := bounds.Min.X + (width-cw)/2
	y0 := bounds.Min.Y + (height-ch)/2
	return image.Rect(x0, y0, x0+cw, y0+ch), nil
}

func fitWithin(w, h, maxDim int) (int, int) {
	longest := max(w, h)
	if maxDim <= 0 || longest <= maxDim {
		return w, h
	}
	scale := float64(maxDim) / float64(longest)
	return max(1, int(math.Round(float64(w)*scale))), max(1, int(math.Round(float64(h)*scale)))
}
