package romloader

import (
	"archive/tar"
	"bytes"
	"errors"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"
)

// writeTestFile stores data at path on a fresh in-memory filesystem
func writeTestFile(t *testing.T, path string, data []byte) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	return fsys
}

// zipBytes builds a ZIP archive holding the named entries in order
func zipBytes(t *testing.T, entries ...struct {
	name string
	data []byte
}) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("Failed to create %s in zip: %v", e.name, err)
		}
		if _, err := fw.Write(e.data); err != nil {
			t.Fatalf("Failed to write to zip: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func entry(name string, data []byte) struct {
	name string
	data []byte
} {
	return struct {
		name string
		data []byte
	}{name, data}
}

// tarBytes builds an uncompressed tar archive with a single regular file
func tarBytes(t *testing.T, name string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := tar.NewWriter(&buf)
	if err := w.WriteHeader(&tar.Header{Name: name, Mode: 0644, Size: int64(len(data)), Typeflag: tar.TypeReg}); err != nil {
		t.Fatalf("Failed to write tar header: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Failed to write tar data: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close tar: %v", err)
	}
	return buf.Bytes()
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Failed to write to gzip: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close gzip: %v", err)
	}
	return buf.Bytes()
}

func xzBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("Failed to create xz writer: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Failed to write to xz: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close xz: %v", err)
	}
	return buf.Bytes()
}

// TestLoader_RawLoad tests loading plain .gb and .dmg files
func TestLoader_RawLoad(t *testing.T) {
	testData := []byte{0x01, 0x02, 0x03, 0x04, 0x05}

	for _, path := range []string{"/roms/test.gb", "/roms/test.DMG"} {
		fsys := writeTestFile(t, path, testData)
		data, name, err := LoadROMFs(fsys, path)
		if err != nil {
			t.Fatalf("LoadROMFs(%s) failed: %v", path, err)
		}
		if !bytes.Equal(data, testData) {
			t.Errorf("%s: data mismatch: expected %v, got %v", path, testData, data)
		}
		if want := path[len("/roms/"):]; name != want {
			t.Errorf("%s: name mismatch: expected %s, got %s", path, want, name)
		}
	}
}

// TestLoader_ZipLoad tests loading a ROM from ZIP archives, skipping other entries
func TestLoader_ZipLoad(t *testing.T) {
	testData := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	archive := zipBytes(t,
		entry("readme.txt", []byte("hello")),
		entry("roms/games/game.gb", testData),
	)
	fsys := writeTestFile(t, "/test.zip", archive)

	data, name, err := LoadROMFs(fsys, "/test.zip")
	if err != nil {
		t.Fatalf("LoadROMFs failed: %v", err)
	}
	if !bytes.Equal(data, testData) {
		t.Errorf("Data mismatch: expected %v, got %v", testData, data)
	}
	if name != "game.gb" {
		t.Errorf("Name should be just the filename, got %s", name)
	}
}

// TestLoader_NoROMInArchive tests error when no ROM is found in an archive
func TestLoader_NoROMInArchive(t *testing.T) {
	archive := zipBytes(t, entry("readme.txt", []byte("hello")))
	fsys := writeTestFile(t, "/test.zip", archive)

	_, _, err := LoadROMFs(fsys, "/test.zip")
	if !errors.Is(err, ErrNoROMFile) {
		t.Errorf("Expected ErrNoROMFile, got %v", err)
	}
}

// TestLoader_GzipLoad tests loading a bare ROM from gzip files
func TestLoader_GzipLoad(t *testing.T) {
	testData := []byte{0x11, 0x22, 0x33, 0x44, 0x55}
	fsys := writeTestFile(t, "/test.gb.gz", gzipBytes(t, testData))

	data, name, err := LoadROMFs(fsys, "/test.gb.gz")
	if err != nil {
		t.Fatalf("LoadROMFs failed: %v", err)
	}
	if !bytes.Equal(data, testData) {
		t.Errorf("Data mismatch: expected %v, got %v", testData, data)
	}
	if name != "test.gb" {
		t.Errorf("Name mismatch: expected test.gb, got %s", name)
	}
}

// TestLoader_TarGzLoad tests loading a ROM from a gzipped tar archive
func TestLoader_TarGzLoad(t *testing.T) {
	testData := bytes.Repeat([]byte{0x5A}, 1024)
	fsys := writeTestFile(t, "/test.tar.gz", gzipBytes(t, tarBytes(t, "dir/game.gb", testData)))

	data, name, err := LoadROMFs(fsys, "/test.tar.gz")
	if err != nil {
		t.Fatalf("LoadROMFs failed: %v", err)
	}
	if !bytes.Equal(data, testData) {
		t.Errorf("Data mismatch: got %d bytes", len(data))
	}
	if name != "game.gb" {
		t.Errorf("Name mismatch: expected game.gb, got %s", name)
	}
}

// TestLoader_XZLoad tests loading bare and tarred ROMs from xz streams
func TestLoader_XZLoad(t *testing.T) {
	testData := []byte{0x10, 0x20, 0x30}

	fsys := writeTestFile(t, "/test.gb.xz", xzBytes(t, testData))
	data, name, err := LoadROMFs(fsys, "/test.gb.xz")
	if err != nil {
		t.Fatalf("LoadROMFs failed: %v", err)
	}
	if !bytes.Equal(data, testData) || name != "test.gb" {
		t.Errorf("Bare xz: expected %v test.gb, got %v %s", testData, data, name)
	}

	fsys = writeTestFile(t, "/test.tar.xz", xzBytes(t, tarBytes(t, "game.dmg", testData)))
	data, name, err = LoadROMFs(fsys, "/test.tar.xz")
	if err != nil {
		t.Fatalf("LoadROMFs failed: %v", err)
	}
	if !bytes.Equal(data, testData) || name != "game.dmg" {
		t.Errorf("Tarred xz: expected %v game.dmg, got %v %s", testData, data, name)
	}
}

// TestLoader_CorruptArchives tests that damaged containers report errors
func TestLoader_CorruptArchives(t *testing.T) {
	testCases := []struct {
		path string
		data []byte
	}{
		{"/bad.7z", append([]byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, make([]byte, 26)...)},
		{"/bad.rar", []byte{0x52, 0x61, 0x72, 0x21, 0x00, 0x00, 0x00}},
		{"/bad.gz", []byte{0x1F, 0x8B, 0x00}},
	}

	for _, tc := range testCases {
		fsys := writeTestFile(t, tc.path, tc.data)
		if _, _, err := LoadROMFs(fsys, tc.path); err == nil {
			t.Errorf("%s: expected error", tc.path)
		}
	}
}

// TestLoader_FormatDetectionMagic tests detection via magic bytes
func TestLoader_FormatDetectionMagic(t *testing.T) {
	testCases := []struct {
		header   []byte
		path     string
		expected formatType
	}{
		{[]byte{0x50, 0x4B, 0x03, 0x04}, "file.dat", formatZIP},
		{[]byte{0x50, 0x4B, 0x05, 0x06}, "file.dat", formatZIP},
		{[]byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, "file.dat", format7z},
		{[]byte{0x1F, 0x8B}, "file.dat", formatGzip},
		{[]byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}, "file.dat", formatXZ},
		{[]byte{0x52, 0x61, 0x72, 0x21}, "file.dat", formatRAR},
		{[]byte{0x00, 0xC3, 0x50, 0x01}, "file.gb", formatRawROM},
	}

	for _, tc := range testCases {
		result := detectFormat(tc.header, tc.path)
		if result != tc.expected {
			t.Errorf("detectFormat(%v, %s): expected %d, got %d", tc.header, tc.path, tc.expected, result)
		}
	}
}

// TestLoader_FormatDetectionExtension tests fallback to extension
func TestLoader_FormatDetectionExtension(t *testing.T) {
	testCases := []struct {
		path     string
		expected formatType
	}{
		{"game.gb", formatRawROM},
		{"game.GB", formatRawROM},
		{"game.dmg", formatRawROM},
		{"game.zip", formatZIP},
		{"game.ZIP", formatZIP},
		{"game.7z", format7z},
		{"game.gz", formatGzip},
		{"game.tgz", formatGzip},
		{"game.tar.gz", formatGzip},
		{"game.xz", formatXZ},
		{"game.rar", formatRAR},
		{"game.gbc", formatUnknown},
		{"game.unknown", formatUnknown},
	}

	for _, tc := range testCases {
		// Use empty header to force extension-based detection
		result := detectFormat([]byte{}, tc.path)
		if result != tc.expected {
			t.Errorf("detectFormat([], %s): expected %d, got %d", tc.path, tc.expected, result)
		}
	}
}

// TestLoader_UnsupportedFormat tests rejection of unknown files
func TestLoader_UnsupportedFormat(t *testing.T) {
	fsys := writeTestFile(t, "/notes.txt", []byte("not a rom"))

	_, _, err := LoadROMFs(fsys, "/notes.txt")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

// TestLoader_FileTooLarge tests rejection of files exceeding size limit
func TestLoader_FileTooLarge(t *testing.T) {
	largeData := make([]byte, maxROMSize+1)
	fsys := writeTestFile(t, "/large.gb", largeData)

	_, _, err := LoadROMFs(fsys, "/large.gb")
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Expected ErrFileTooLarge, got %v", err)
	}
}

// TestLoader_FileNotFound tests error for missing files
func TestLoader_FileNotFound(t *testing.T) {
	_, _, err := LoadROMFs(afero.NewMemMapFs(), "/nonexistent/path/game.gb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}

	if _, _, err := LoadROM("/nonexistent/path/game.gb"); err == nil {
		t.Error("Expected error for nonexistent file on the host filesystem")
	}
}

// TestLoader_EmptyFile tests handling of empty files
func TestLoader_EmptyFile(t *testing.T) {
	fsys := writeTestFile(t, "/empty.gb", []byte{})

	data, _, err := LoadROMFs(fsys, "/empty.gb")
	if err != nil {
		t.Fatalf("LoadROMFs failed: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("Expected empty data, got %d bytes", len(data))
	}
}

// TestLoader_IsROMFile tests the ROM file extension check
func TestLoader_IsROMFile(t *testing.T) {
	testCases := []struct {
		name     string
		expected bool
	}{
		{"game.gb", true},
		{"game.GB", true},
		{"game.dmg", true},
		{"game.gbc", false},
		{"game.txt", false},
		{"game.gb.bak", false},
		{"game", false},
		{"gb", false},
		{".gb", true},
	}

	for _, tc := range testCases {
		result := isROMFile(tc.name)
		if result != tc.expected {
			t.Errorf("isROMFile(%q): expected %v, got %v", tc.name, tc.expected, result)
		}
	}
}
