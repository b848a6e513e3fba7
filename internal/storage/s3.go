package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Options configures the S3-compatible bucket that holds static assets.
type Options struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
	PresignTTL      time.Duration
}

// S3Client serves avatar and other static assets out of a bucket
type S3Client struct {
	client     *s3.Client
	bucket     string
	prefix     string
	presignTTL time.Duration
}

type UploadResult struct {
	Key      string
	Checksum string
}

// NewS3Client creates a new S3 client. A custom endpoint switches to
// path-style addressing for MinIO and Spaces style providers.
func NewS3Client(ctx context.Context, opts Options) (*S3Client, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = time.Hour
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID, opts.SecretAccessKey, "",
		)))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		client:     client,
		bucket:     opts.Bucket,
		prefix:     strings.Trim(opts.Prefix, "/"),
		presignTTL: opts.PresignTTL,
	}, nil
}

func (s *S3Client) key(name string) string {
	name = path.Clean("/" + name)[1:]
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

// PresignAsset creates a time-limited download URL for an asset.
func (s *S3Client) PresignAsset(ctx context.Context, name string) (string, error) {
	presignClient := s3.NewPresignClient(s.client)

	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.presignTTL
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return req.URL, nil
}

// UploadAsset stores one asset under the configured prefix.
func (s *S3Client) UploadAsset(ctx context.Context, name string, body io.Reader) (*UploadResult, error) {
	key := s.key(name)
	result, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(getContentType(name)),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return &UploadResult{Key: key, Checksum: aws.ToString(result.ETag)}, nil
}

// SyncDir uploads the named files from dir. Names are paths relative to dir
// such as "/avatar1.png".
func (s *S3Client) SyncDir(ctx context.Context, dir string, names []string) ([]*UploadResult, error) {
	var results []*UploadResult
	for _, name := range names {
		f, err := os.Open(filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(name, "/"))))
		if err != nil {
			return results, fmt.Errorf("open asset: %w", err)
		}
		result, err := s.UploadAsset(ctx, name, f)
		f.Close()
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// getContentType returns the appropriate content type based on file extension
func getContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".svg":
		return "image/svg+xml"
	case ".webp":
		return "image/webp"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
