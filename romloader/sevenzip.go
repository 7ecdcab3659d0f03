package romloader

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/bodgit/sevenzip"
)

// extractFrom7z extracts the first ROM file from a 7z archive
func extractFrom7z(r io.ReaderAt, size int64) ([]byte, string, error) {
	sr, err := sevenzip.NewReader(r, size)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open 7z: %w", err)
	}

	for _, f := range sr.File {
		if f.FileInfo().IsDir() || !isROMFile(f.Name) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		data, err := limitedRead(rc)
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		return data, filepath.Base(f.Name), nil
	}

	return nil, "", ErrNoROMFile
}
