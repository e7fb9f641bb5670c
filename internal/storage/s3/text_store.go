package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"docverify/internal/config"
	"docverify/internal/domain"
	"docverify/internal/port"
)

const (
	textContentType = "text/plain; charset=utf-8"
	digestMetaKey   = "sha256"
)

type textStore struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
}

// NewTextStore creates an S3-backed TextStore for cfg.Bucket.
// A custom endpoint switches to path-style addressing for S3-compatible stores.
func NewTextStore(cfg *config.S3Config) (port.TextStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &textStore{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
	}, nil
}

// PutText uploads text with its digest recorded in the object metadata.
func (s *textStore) PutText(ctx context.Context, key, text, digest string) (*port.ArchivedText, error) {
	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(text),
		ContentType: aws.String(textContentType),
		Metadata:    map[string]string{digestMetaKey: digest},
	})
	if err != nil {
		return nil, fmt.Errorf("s3 put %s: %w", key, err)
	}
	return &port.ArchivedText{
		Key:      key,
		Location: result.Location,
		SHA256:   digest,
		Size:     int64(len(text)),
	}, nil
}

// GetText downloads an archived text. A missing key maps to domain.ErrNotFound.
func (s *textStore) GetText(ctx context.Context, key string) (string, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("s3 get %s: %w", key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return "", fmt.Errorf("s3 get %s: reading body: %w", key, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("s3 get %s: object is not utf-8 text", key)
	}
	return string(data), nil
}

// DeleteText removes an archived text.
func (s *textStore) DeleteText(ctx context.Context, key string) error {
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}
