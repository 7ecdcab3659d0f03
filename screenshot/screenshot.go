// Package screenshot writes upscaled PNG captures of the LCD framebuffer.
package screenshot

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/image/draw"
)

// ErrShortFramebuffer is returned when the pixel buffer does not cover the
// requested dimensions.
var ErrShortFramebuffer = errors.New("framebuffer smaller than frame dimensions")

// Frame describes an RGBA framebuffer.
type Frame struct {
	Pix    []byte
	Stride int
	Width  int
	Height int
}

// Scale returns frame enlarged by an integer factor with nearest-neighbor
// sampling so the LCD pixels stay sharp.
func Scale(frame Frame, factor int) (*image.RGBA, error) {
	if len(frame.Pix) < frame.Stride*frame.Height {
		return nil, ErrShortFramebuffer
	}
	if factor < 1 {
		factor = 1
	}

	src := &image.RGBA{
		Pix:    frame.Pix[:frame.Stride*frame.Height],
		Stride: frame.Stride,
		Rect:   image.Rect(0, 0, frame.Width, frame.Height),
	}
	dst := image.NewRGBA(image.Rect(0, 0, frame.Width*factor, frame.Height*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// Save scales frame and writes it as a PNG under dir. The file name is
// built from title and the current time. Returns the written path.
func Save(fsys afero.Fs, dir, title string, frame Frame, factor int) (string, error) {
	img, err := Scale(frame, factor)
	if err != nil {
		return "", err
	}

	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s.png", fileStem(title), time.Now().Format("20060102_150405.000"))
	path := filepath.Join(dir, name)

	f, err := fsys.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create screenshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to encode screenshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}

	return path, nil
}

// fileStem turns a cartridge title into a safe file name prefix.
func fileStem(title string) string {
	stem := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '_'
		}
		return -1
	}, strings.TrimSpace(title))

	if stem == "" {
		return "screenshot"
	}
	return stem
}
