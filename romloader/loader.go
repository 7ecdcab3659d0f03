// Package romloader handles loading ROM files from various sources,
// including compressed archives (ZIP, 7z, gzip, tar.gz, xz, RAR).
package romloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Magic bytes for format detection
var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicXZ     = []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

// Maximum ROM size (8MB safety limit)
const maxROMSize = 8 * 1024 * 1024

// ErrNoROMFile is returned when no .gb or .dmg file is found in an archive
var ErrNoROMFile = errors.New("no .gb or .dmg file found in archive")

// ErrUnsupportedFormat is returned for unrecognized file formats
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrFileTooLarge is returned when extracted content exceeds size limit
var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

// formatType represents the detected file format
type formatType int

const (
	formatUnknown formatType = iota
	formatRawROM
	formatZIP
	format7z
	formatGzip
	formatXZ
	formatRAR
)

// LoadROM loads a ROM from a file path on the host filesystem. It
// automatically detects and extracts from archives. Returns the ROM data,
// the filename of the ROM (useful for display), and any error encountered.
func LoadROM(path string) ([]byte, string, error) {
	return LoadROMFs(afero.NewOsFs(), path)
}

// LoadROMFs is LoadROM against an arbitrary filesystem.
func LoadROMFs(fsys afero.Fs, path string) ([]byte, string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, "", fmt.Errorf("failed to stat file: %w", err)
	}

	// Read header for magic byte detection
	header := make([]byte, 16)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, "", fmt.Errorf("failed to read file header: %w", err)
	}
	header = header[:n]

	format := detectFormat(header, path)

	// Reset file position
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("failed to seek file: %w", err)
	}

	switch format {
	case formatRawROM:
		data, err := limitedRead(f)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read ROM: %w", err)
		}
		return data, filepath.Base(path), nil

	case formatZIP:
		return extractFromZIP(f, info.Size())

	case format7z:
		return extractFrom7z(f, info.Size())

	case formatGzip:
		return extractFromGzip(f, path)

	case formatXZ:
		return extractFromXZ(f, path)

	case formatRAR:
		return extractFromRAR(f)

	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// detectFormat determines the file format based on magic bytes and extension
func detectFormat(header []byte, path string) formatType {
	lower := strings.ToLower(path)

	// Check magic bytes first (more reliable)
	switch {
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEnd):
		return formatZIP
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	case bytes.HasPrefix(header, magic7z):
		return format7z
	case bytes.HasPrefix(header, magicXZ):
		return formatXZ
	case bytes.HasPrefix(header, magicGzip):
		return formatGzip
	}

	// Fall back to extension
	switch filepath.Ext(lower) {
	case ".gb", ".dmg":
		return formatRawROM
	case ".zip":
		return formatZIP
	case ".7z":
		return format7z
	case ".gz", ".tgz":
		return formatGzip
	case ".xz", ".txz":
		return formatXZ
	case ".rar":
		return formatRAR
	}

	return formatUnknown
}

// isROMFile checks if a filename has a .gb or .dmg extension (case-insensitive)
func isROMFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gb", ".dmg":
		return true
	}
	return false
}

// limitedRead reads from r up to maxROMSize bytes, returning an error if exceeded
func limitedRead(r io.Reader) ([]byte, error) {
	lr := io.LimitReader(r, maxROMSize+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if len(data) > maxROMSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
