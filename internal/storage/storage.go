package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	appconfig "github.com/spec-kit/marketplace-service/internal/config"
)

var (
	// ErrDisabled is returned when no bucket is configured.
	ErrDisabled = errors.New("storage: uploads are not configured")
	// ErrAccessDenied is returned when the bucket rejects our credentials.
	ErrAccessDenied = errors.New("storage: access denied")
)

// Folders used for uploaded images.
const (
	FolderProfilePictures = "profile_pictures"
	FolderBanners         = "banners"
	FolderProducts        = "products"
)

// Object is an upload request.
type Object struct {
	Folder      string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader stores an object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, obj Object) (string, error)
}

// S3Client is the subset of the S3 API used here.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader writes objects to an S3 compatible bucket.
type S3Uploader struct {
	client  S3Client
	bucket  string
	baseURL string
	newKey  func(folder, filename string) string
}

// New returns an Uploader for cfg. With no bucket configured every upload fails with ErrDisabled.
func New(ctx context.Context, cfg appconfig.StorageConfig) (Uploader, error) {
	if cfg.Bucket == "" {
		return disabled{}, nil
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})
	return NewS3Uploader(client, cfg), nil
}

// NewS3Uploader wraps an existing client.
func NewS3Uploader(client S3Client, cfg appconfig.StorageConfig) *S3Uploader {
	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Bucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return &S3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		newKey:  objectKey,
	}
}

// Upload implements Uploader.
func (u *S3Uploader) Upload(ctx context.Context, obj Object) (string, error) {
	key := u.newKey(obj.Folder, obj.Filename)
	input := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   obj.Body,
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}
	if obj.Size > 0 {
		input.ContentLength = aws.Int64(obj.Size)
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "AccessDenied" {
			return "", ErrAccessDenied
		}
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return u.baseURL + "/" + key, nil
}

// objectKey keeps the original extension and replaces the name with a uuid.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(folder, uuid.NewString()+ext)
}

type disabled struct{}

func (disabled) Upload(context.Context, Object) (string, error) {
	return "", ErrDisabled
}
