// Package debug provides frame capture for inspecting rendered output.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/shoreline/internal/logger"
)

// PixelSource reads back the presented image as bottom-up RGBA rows.
type PixelSource interface {
	ReadPixels() ([]byte, int, int)
}

// Screenshots writes captured frames as PNG files.
type Screenshots struct {
	dir    string
	prefix string
	now    func() time.Time
	log    *zap.Logger
}

// NewScreenshots creates a capture handler writing into dir.
func NewScreenshots(dir, prefix string) *Screenshots {
	return &Screenshots{
		dir:    dir,
		prefix: prefix,
		now:    time.Now,
		log:    logger.Named("screenshot"),
	}
}

// Filename returns the path the next capture is written to.
func (sc *Screenshots) Filename() string {
	name := fmt.Sprintf("%s_%s.png", sc.prefix, sc.now().Format("2006-01-02_15-04-05.000"))
	if sc.dir == "" {
		return name
	}
	return filepath.Join(sc.dir, name)
}

// Capture reads the current frame from src and saves it.
func (sc *Screenshots) Capture(src PixelSource) (string, error) {
	pixels, w, h := src.ReadPixels()
	return sc.Save(pixels, w, h)
}

// Save writes bottom-up RGBA pixels of size width x height as a PNG, flipping
// rows so the file is top-down.
func (sc *Screenshots) Save(pixels []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: %dx%d with %d bytes", width, height, len(pixels))
	}
	if sc.dir != "" {
		if err := os.MkdirAll(sc.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		dst := y * img.Stride
		copy(img.Pix[dst:dst+row], pixels[src:src+row])
	}

	path := sc.Filename()
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	sc.log.Info("screenshot saved", zap.String("path", path), zap.Int("width", width), zap.Int("height", height))
	return path, nil
}
