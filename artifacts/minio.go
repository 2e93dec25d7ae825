package artifacts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Error kinds returned by MinIOWriter. Use errors.Is to test for them.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrTimeout          = errors.New("timeout")
	ErrUnavailable      = errors.New("storage unavailable")
)

// MinIOConfig holds the connection settings for a MinIO or S3 endpoint.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
	Bucket    string
	Prefix    string
}

// MinIOWriter uploads artifacts to <Bucket>/<Prefix>/<name>.
type MinIOWriter struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinIOWriter connects to the endpoint and creates the bucket when it
// does not exist yet.
func NewMinIOWriter(ctx context.Context, cfg MinIOConfig) (*MinIOWriter, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: bucket is required", ErrInvalidInput)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w: %w", ErrUnavailable, err)
	}

	w := &MinIOWriter{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}
	if err := w.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *MinIOWriter) ensureBucket(ctx context.Context, region string) error {
	exists, err := w.client.BucketExists(ctx, w.bucket)
	if err != nil {
		return mapError(err, "failed to check bucket")
	}
	if exists {
		return nil
	}

	if err := w.client.MakeBucket(ctx, w.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return mapError(err, "failed to create bucket")
	}
	slog.Info("created artifact bucket", "bucket", w.bucket)
	return nil
}

func (w *MinIOWriter) Write(ctx context.Context, name string, data []byte) (string, error) {
	key := objectKey(w.prefix, name)

	_, err := w.client.PutObject(ctx, w.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType(name)})
	if err != nil {
		return "", mapError(err, fmt.Sprintf("failed to upload %s", key))
	}

	location := fmt.Sprintf("s3://%s/%s", w.bucket, key)
	slog.Debug("uploaded artifact", "location", location, "bytes", len(data))
	return location, nil
}

func objectKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".sql":
		return "application/sql"
	case ".csv":
		return "text/csv"
	default:
		return "text/plain"
	}
}

// mapError classifies a MinIO SDK error into one of the Err* kinds.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %w", msg, ErrTimeout, err)
	}

	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w: %w", msg, ErrNotFound, err)
		case http.StatusForbidden, http.StatusUnauthorized:
			return fmt.Errorf("%s: %w: %w", msg, ErrPermissionDenied, err)
		case http.StatusBadRequest:
			return fmt.Errorf("%s: %w: %w", msg, ErrInvalidInput, err)
		}

		// S3 codes that may arrive without a matching status
		switch resp.Code {
		case "NoSuchBucket", "NoSuchKey":
			return fmt.Errorf("%s: %w: %w", msg, ErrNotFound, err)
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("%s: %w: %w", msg, ErrPermissionDenied, err)
		case "InvalidBucketName", "InvalidObjectName", "KeyTooLongError":
			return fmt.Errorf("%s: %w: %w", msg, ErrInvalidInput, err)
		case "RequestTimeout", "SlowDown":
			return fmt.Errorf("%s: %w: %w", msg, ErrTimeout, err)
		}
	}

	return fmt.Errorf("%s: %w: %w", msg, ErrUnavailable, err)
}
