package export

import (
	"fmt"
	"os"
	"path/filepath"
)

const scriptExtension = ".js"

// writeScript stores a script body unchanged under dir. Two monitors whose
// names sanitize to the same file overwrite each other; the last write wins.
func writeScript(dir string, fileName string, body string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating script directory: %w", err)
	}

	path := filepath.Join(dir, fileName+scriptExtension)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("error writing script file: %w", err)
	}

	return path, nil
}
