package screenshot

import (
	"bytes"
	"errors"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// testFrame returns a 2x2 frame with a distinct red value per pixel
func testFrame() Frame {
	pix := make([]byte, 2*2*4)
	for i := 0; i < 4; i++ {
		pix[i*4] = uint8(0x10 * (i + 1))
		pix[i*4+3] = 0xFF
	}
	return Frame{Pix: pix, Stride: 8, Width: 2, Height: 2}
}

// TestScale tests nearest-neighbor enlargement
func TestScale(t *testing.T) {
	img, err := Scale(testFrame(), 3)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 6 {
		t.Fatalf("Size: expected 6x6, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}

	testCases := []struct {
		x, y     int
		expected uint8
	}{
		{0, 0, 0x10},
		{2, 2, 0x10},
		{3, 0, 0x20},
		{5, 2, 0x20},
		{0, 3, 0x30},
		{5, 5, 0x40},
	}
	for _, tc := range testCases {
		if r := img.RGBAAt(tc.x, tc.y).R; r != tc.expected {
			t.Errorf("(%d,%d): expected 0x%02X, got 0x%02X", tc.x, tc.y, tc.expected, r)
		}
	}
}

// TestScale_ShortBuffer tests rejection of truncated framebuffers
func TestScale_ShortBuffer(t *testing.T) {
	frame := testFrame()
	frame.Pix = frame.Pix[:7]

	if _, err := Scale(frame, 2); !errors.Is(err, ErrShortFramebuffer) {
		t.Errorf("Expected ErrShortFramebuffer, got %v", err)
	}
}

// TestScale_MinimumFactor tests that factors below 1 keep native size
func TestScale_MinimumFactor(t *testing.T) {
	img, err := Scale(testFrame(), 0)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if img.Bounds().Dx() != 2 {
		t.Errorf("Width: expected 2, got %d", img.Bounds().Dx())
	}
}

// TestSave tests PNG output on an in-memory filesystem
func TestSave(t *testing.T) {
	fsys := afero.NewMemMapFs()

	path, err := Save(fsys, "/shots", "POKEMON RED", testFrame(), 2)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Dir(path) != "/shots" {
		t.Errorf("Directory: expected /shots, got %s", filepath.Dir(path))
	}
	if !strings.HasPrefix(filepath.Base(path), "POKEMON_RED_") || !strings.HasSuffix(path, ".png") {
		t.Errorf("Unexpected file name %s", filepath.Base(path))
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("Decoded size: expected 4x4, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

// TestFileStem tests title sanitizing
func TestFileStem(t *testing.T) {
	testCases := []struct {
		title    string
		expected string
	}{
		{"TETRIS", "TETRIS"},
		{"SUPER MARIOLAND", "SUPER_MARIOLAND"},
		{"  ZELDA ", "ZELDA"},
		{"A/B:C", "ABC"},
		{"", "screenshot"},
		{"???", "screenshot"},
	}

	for _, tc := range testCases {
		if got := fileStem(tc.title); got != tc.expected {
			t.Errorf("fileStem(%q): expected %q, got %q", tc.title, tc.expected, got)
		}
	}
}
