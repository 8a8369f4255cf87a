// Package s3 provides an S3-compatible blob store (AWS S3, MinIO).
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/url"
	"strings"
	"time"

	"drive/internal/metrics"
	"drive/internal/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Config holds S3 connection settings.
type Config struct {
	Endpoint   string // empty = AWS default endpoint resolution
	Bucket     string
	AccessKey  string
	SecretKey  string
	Region     string
	PresignTTL time.Duration
}

// Store implements storage.BlobStore using S3/MinIO.
type Store struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucket     string
	presignTTL time.Duration
	logger     *slog.Logger
}

// New creates a new S3 blob store and makes sure the bucket exists.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO
		}
	})

	store := &Store{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		presignTTL: cfg.PresignTTL,
		logger:     logger,
	}

	if err := store.ensureBucket(ctx); err != nil {
		logger.Error("bucket check failed", "bucket", cfg.Bucket, "error", err)
	}

	return store, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	_, createErr := s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if createErr != nil {
		return fmt.Errorf("bucket %s does not exist and cannot create: %w", s.bucket, createErr)
	}
	s.logger.Info("created bucket", "bucket", s.bucket)
	return nil
}

// Put uploads content to S3.
func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	start := time.Now()

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	_, err := s.client.PutObject(ctx, input)
	metrics.RecordBlobOperation("put", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}

	s.logger.Debug("s3 put object", "key", key, "size", size)
	return nil
}

// Copy duplicates an object within the bucket.
func (s *Store) Copy(ctx context.Context, srcKey, dstKey string) error {
	start := time.Now()

	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(copySource(s.bucket, srcKey)),
	})
	metrics.RecordBlobOperation("copy", time.Since(start), err)
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return fmt.Errorf("copy %s: %w", srcKey, storage.ErrObjectNotFound)
		}
		return fmt.Errorf("copy %s -> %s: %w", srcKey, dstKey, err)
	}

	s.logger.Debug("s3 copy object", "src", srcKey, "dst", dstKey)
	return nil
}

// copySource builds the URL-encoded "bucket/key" that CopyObject expects.
// Segments are escaped one by one so the separators survive.
func copySource(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return url.PathEscape(bucket) + "/" + strings.Join(segments, "/")
}

// Delete removes an object. S3 treats deleting a missing key as success.
func (s *Store) Delete(ctx context.Context, key string) error {
	start := time.Now()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	metrics.RecordBlobOperation("delete", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	s.logger.Debug("s3 delete object", "key", key)
	return nil
}

// PresignGet returns a presigned GET URL that forces the given disposition.
func (s *Store) PresignGet(ctx context.Context, key string, opts storage.PresignOptions) (string, error) {
	start := time.Now()

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = s.presignTTL
	}

	disposition := "attachment"
	if opts.Inline {
		disposition = "inline"
	}
	if opts.FileName != "" {
		disposition = mime.FormatMediaType(disposition, map[string]string{"filename": opts.FileName})
	}

	input := &s3.GetObjectInput{
		Bucket:                     aws.String(s.bucket),
		Key:                        aws.String(key),
		ResponseContentDisposition: aws.String(disposition),
	}
	if opts.ContentType != "" {
		input.ResponseContentType = aws.String(opts.ContentType)
	}

	req, err := s.presigner.PresignGetObject(ctx, input, s3.WithPresignExpires(ttl))
	metrics.RecordBlobOperation("presign", time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}

	return req.URL, nil
}

// Type returns "s3".
func (s *Store) Type() string { return "s3" }
