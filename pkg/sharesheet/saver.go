package sharesheet

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sharesheet/sharesheet/pkg/filesystem"
)

// DirectorySaver is a FileSaver that writes downloads into a directory on
// disk. Filenames are sanitized so a hostile URL cannot escape Dir.
type DirectorySaver struct {
	// Dir is the target directory. Empty means the current directory.
	Dir string
}

// Save writes body to Dir under a sanitized version of filename.
func (s *DirectorySaver) Save(filename string, body io.Reader) error {
	name := filesystem.SanitizeFilename(filename)
	path := filepath.Join(s.Dir, name)

	if err := filesystem.EnsureDirectoryExists(path); err != nil {
		return fmt.Errorf("failed to prepare download directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Warn("Failed to close downloaded file", "path", path, "error", err)
		}
	}()

	written, err := io.Copy(file, body)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	slog.Debug("Saved download", "path", path, "bytes", written)
	return nil
}
