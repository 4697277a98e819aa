package drive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/harukimori/orderdesk-api/internal/config"
)

// Drive stores exported order documents in a shared document store.
type Drive interface {
	// Upload writes the document and returns the object key it was stored
	// under.
	Upload(ctx context.Context, filename string, data []byte, contentType string) (string, error)
}

type s3Drive struct {
	client *s3.Client
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3Drive connects to the configured S3-compatible bucket.
func NewS3Drive(ctx context.Context, cfg *config.DriveConfig) (Drive, error) {
	opts := []func(*aws_config.LoadOptions) error{
		aws_config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, aws_config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := aws_config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Drive{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.PathPrefix,
		now:    time.Now,
	}, nil
}

// Upload stores the document under <prefix>/<yyyy>/<mm>/<filename> so the
// bucket stays browsable by month.
func (d *s3Drive) Upload(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	now := d.now().UTC()
	key := fmt.Sprintf("%s/%04d/%02d/%s", d.prefix, now.Year(), int(now.Month()), filename)

	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}

	return key, nil
}
