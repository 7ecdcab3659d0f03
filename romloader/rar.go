package romloader

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/nwaples/rardecode/v2"
)

// extractFromRAR extracts the first ROM file from a single-volume RAR archive
func extractFromRAR(r io.Reader) ([]byte, string, error) {
	rr, err := rardecode.NewReader(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open rar: %w", err)
	}

	for {
		header, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read rar entry: %w", err)
		}

		if header.IsDir || !isROMFile(header.Name) {
			continue
		}

		data, err := limitedRead(rr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		return data, filepath.Base(header.Name), nil
	}

	return nil, "", ErrNoROMFile
}
