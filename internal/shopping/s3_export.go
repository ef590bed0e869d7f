package shopping

import (
	"context"
	"fmt"

	"meal-planner/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// objectPutter is the subset of the S3 client the exporter needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Exporter struct {
	client objectPutter
	bucket string
	logger zerolog.Logger
}

// NewS3Exporter creates an exporter uploading to the given bucket using the
// default AWS credential chain.
func NewS3Exporter(ctx context.Context, bucket, region string, logger zerolog.Logger) (Exporter, error) {
	logger = logger.With().Str("component", "s3-exporter").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 exporter initialised")

	return newS3Exporter(s3.NewFromConfig(cfg), bucket, logger), nil
}

func newS3Exporter(client objectPutter, bucket string, logger zerolog.Logger) *s3Exporter {
	return &s3Exporter{client: client, bucket: bucket, logger: logger}
}

func (e *s3Exporter) Export(ctx context.Context, key string, rows []model.ShoppingListRow) (string, error) {
	body, err := encode(rows)
	if err != nil {
		return "", err
	}

	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(e.bucket),
		Key:             aws.String(key),
		Body:            body,
		ContentType:     aws.String("text/csv"),
		ContentEncoding: aws.String("gzip"),
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
	e.logger.Info().Str("location", location).Int("rows", len(rows)).Msg("shopping list exported to S3")
	return location, nil
}
