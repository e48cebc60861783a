package export

import (
	"context"

	"github.com/rs/zerolog"
)

// fallbackExporter tries S3 first, then falls back to the local file system.
type fallbackExporter struct {
	s3Exporter   Exporter
	fileExporter Exporter
	s3Prefix     string
	s3Enabled    bool
	logger       zerolog.Logger
}

// NewFallbackExporter creates an exporter that tries S3 first, then falls
// back to the local file system. If s3Exporter is nil only the file
// exporter is used.
func NewFallbackExporter(s3Exporter, fileExporter Exporter, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Exporter {
	return &fallbackExporter{
		s3Exporter:   s3Exporter,
		fileExporter: fileExporter,
		s3Prefix:     s3Prefix,
		s3Enabled:    s3Enabled,
		logger:       logger.With().Str("component", "fallback-exporter").Logger(),
	}
}

// Export writes to S3 under s3Prefix+key, or to the local exporter under
// key when S3 is disabled or fails.
func (e *fallbackExporter) Export(ctx context.Context, key string, doc []byte) (string, error) {
	if e.s3Enabled && e.s3Exporter != nil {
		s3Key := e.s3Prefix + key

		location, err := e.s3Exporter.Export(ctx, s3Key, doc)
		if err == nil {
			return location, nil
		}

		e.logger.Warn().
			Err(err).
			Str("s3_key", s3Key).
			Msg("failed to export to S3, falling back to local file system")
	} else {
		e.logger.Debug().
			Bool("s3_enabled", e.s3Enabled).
			Bool("has_s3_exporter", e.s3Exporter != nil).
			Msg("S3 disabled or not configured, using local file system")
	}

	return e.fileExporter.Export(ctx, key, doc)
}
