// Package s3store implements the upstream.Store interface over Amazon S3
// or S3-compatible object storage: config.LoadDefaultConfig
// composed with a static-credentials provider, and BaseEndpoint/UsePathStyle
// options for MinIO-compatible endpoints.
package s3store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/ditsuke/cachegate/pkg/upstream"
)

// Config configures one S3 backend.
type Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // optional, for MinIO-compatible stores
	ForcePathStyle  bool
}

// Store implements upstream.Store over an S3 bucket.
type Store struct {
	client *s3.Client
	bucket string
}

// New builds an S3 client per cfg and returns a Store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("s3store: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *Store) Get(ctx context.Context, path string) (*upstream.Object, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, classifyError(err)
	}

	obj := &upstream.Object{Body: out.Body}
	if out.ContentLength != nil {
		obj.Size = *out.ContentLength
	}
	if out.ContentType != nil {
		obj.ContentType = *out.ContentType
	}
	return obj, nil
}

func (s *Store) Head(ctx context.Context, path string) (*upstream.HeadResult, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, classifyError(err)
	}

	res := &upstream.HeadResult{}
	if out.ContentLength != nil {
		res.Size = *out.ContentLength
	}
	if out.ContentType != nil {
		res.ContentType = *out.ContentType
	}
	return res, nil
}

func (s *Store) PutMultipart(ctx context.Context, path string) (upstream.MultipartWriter, error) {
	out, err := s.client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, classifyError(err)
	}
	return &multipartWriter{
		client:   s.client,
		bucket:   s.bucket,
		key:      path,
		uploadID: *out.UploadId,
	}, nil
}

// classifyError maps AWS SDK errors into the bounded upstream error kinds.
// S3's "smithy" transport wraps HTTP status codes on response errors; a
// 404 is not-found, 403 is permission-denied, 401 unauthenticated, 412
// precondition-failed, everything else collapses to other.
func classifyError(err error) error {
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case 404:
			return fmt.Errorf("%w: %v", upstream.ErrNotFound, err)
		case 403:
			return fmt.Errorf("%w: %v", upstream.ErrPermissionDenied, err)
		case 401:
			return fmt.Errorf("%w: %v", upstream.ErrUnauthenticated, err)
		case 412:
			return fmt.Errorf("%w: %v", upstream.ErrPreconditionFailed, err)
		}
	}
	return fmt.Errorf("%w: %v", upstream.ErrOther, err)
}
