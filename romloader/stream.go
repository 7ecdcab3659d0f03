package romloader

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// tarMagicOffset is where the ustar signature sits in a tar header block.
const tarMagicOffset = 257

var magicTar = []byte("ustar")

// extractFromGzip decompresses a gzip stream holding either a bare ROM or
// a tar archive.
func extractFromGzip(r io.Reader, path string) ([]byte, string, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open gzip: %w", err)
	}
	defer gz.Close()

	data, err := limitedRead(gz)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress gzip: %w", err)
	}
	return unwrapStream(data, path, gz.Name)
}

// extractFromXZ decompresses an xz stream holding either a bare ROM or a
// tar archive.
func extractFromXZ(r io.Reader, path string) ([]byte, string, error) {
	xr, err := xz.NewReader(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open xz: %w", err)
	}

	data, err := limitedRead(xr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress xz: %w", err)
	}
	return unwrapStream(data, path, "")
}

// unwrapStream returns the ROM inside decompressed data. Tar content is
// searched for the first ROM entry; anything else is the ROM itself.
func unwrapStream(data []byte, path, storedName string) ([]byte, string, error) {
	if isTar(data) {
		return extractFromTar(bytes.NewReader(data))
	}

	name := storedName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return data, filepath.Base(name), nil
}

func isTar(data []byte) bool {
	end := tarMagicOffset + len(magicTar)
	return len(data) >= end && bytes.Equal(data[tarMagicOffset:end], magicTar)
}

// extractFromTar extracts the first ROM file from an uncompressed tar stream
func extractFromTar(r io.Reader) ([]byte, string, error) {
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read tar entry: %w", err)
		}

		if header.Typeflag != tar.TypeReg || !isROMFile(header.Name) {
			continue
		}

		data, err := limitedRead(tr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		return data, filepath.Base(header.Name), nil
	}

	return nil, "", ErrNoROMFile
}
