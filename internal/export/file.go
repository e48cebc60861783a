package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// fileExporter writes exports below a local directory.
type fileExporter struct {
	dir    string
	logger zerolog.Logger
}

// NewFileExporter creates an exporter that writes to dir.
func NewFileExporter(dir string, logger zerolog.Logger) Exporter {
	return &fileExporter{
		dir:    dir,
		logger: logger.With().Str("component", "file-exporter").Logger(),
	}
}

// Export writes doc to dir/key, creating parent directories as needed.
func (e *fileExporter) Export(ctx context.Context, key string, doc []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(e.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.logger.Error().Err(err).Str("path", path).Msg("failed to create export directory")
		return "", fmt.Errorf("failed to create export directory for %s: %w", path, err)
	}

	if err := os.WriteFile(path, doc, 0o644); err != nil {
		e.logger.Error().Err(err).Str("path", path).Msg("failed to write export file")
		return "", fmt.Errorf("failed to write export file %s: %w", path, err)
	}

	e.logger.Info().
		Str("path", path).
		Int("bytes", len(doc)).
		Msg("menu exported to local file system")

	return path, nil
}
