package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"tourdesk/config"
)

var (
	ErrNotConfigured = errors.New("upload: storage bucket not configured")
	ErrUploadFailed  = errors.New("upload: upload failed")
	ErrAccessDenied  = errors.New("upload: access denied")
)

// Uploader stores an object and returns its public URL.
type Uploader interface {
	Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error)
}

// S3Uploader writes to any S3-compatible bucket.
type S3Uploader struct {
	client *s3.Client
	cfg    config.StorageConfig
}

func NewS3Uploader(cfg config.StorageConfig) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		},
	}
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return &S3Uploader{client: s3.New(s3.Options{}, opts...), cfg: cfg}, nil
}

func (u *S3Uploader) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", wrapS3Error(err)
	}
	return PublicURL(u.cfg, key), nil
}

// PublicURL builds the address clients use to fetch key.
func PublicURL(cfg config.StorageConfig, key string) string {
	if cfg.PublicURL != "" {
		return strings.TrimSuffix(cfg.PublicURL, "/") + "/" + key
	}
	if cfg.Endpoint != "" {
		endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
		if cfg.PathStyle {
			return fmt.Sprintf("%s/%s/%s", endpoint, cfg.Bucket, key)
		}
		return fmt.Sprintf("%s/%s", endpoint, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", cfg.Bucket, cfg.Region, key)
}

func wrapS3Error(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrUploadFailed, err)
}
