package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// S3Config configures the S3 exporter. Endpoint, AccessKey and SecretKey
// are only needed for S3-compatible stores such as R2 or MinIO; when they
// are empty the default AWS credential chain is used.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// s3Exporter implements Exporter on top of an S3 bucket.
type s3Exporter struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3Exporter creates a new S3-based exporter.
func NewS3Exporter(ctx context.Context, cfg S3Config, logger zerolog.Logger) (Exporter, error) {
	logger = logger.With().Str("component", "s3-exporter").Logger()

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info().
		Str("bucket", cfg.Bucket).
		Str("region", cfg.Region).
		Bool("custom_endpoint", cfg.Endpoint != "").
		Msg("S3 exporter initialised")

	return &s3Exporter{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// Export uploads doc as a JSON object under key.
func (e *s3Exporter) Export(ctx context.Context, key string, doc []byte) (string, error) {
	_, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(doc),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("bucket", e.bucket).
			Str("key", key).
			Msg("failed to put object to S3")
		return "", fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", e.bucket, key, err)
	}

	location := fmt.Sprintf("s3://%s/%s", e.bucket, key)
	e.logger.Info().
		Str("location", location).
		Int("bytes", len(doc)).
		Msg("menu exported to S3")

	return location, nil
}
