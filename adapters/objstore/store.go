package objstore

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"tabular/adapters/coerce"
	"tabular/adapters/parquet"
	"tabular/domain/core"
	"tabular/domain/frame"
	"tabular/domain/series"
	apperrors "tabular/internal/errors"
)

// Format selects the artifact encoding
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// Config holds object store connection settings
type Config struct {
	EndpointURL     string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	UseSSL          bool
	Bucket          string
}

// Store pushes and pulls frame artifacts to an S3-compatible object store
type Store struct {
	client *minio.Client
	cfg    Config
}

// New creates an object store client from config
func New(cfg Config) (*Store, error) {
	if cfg.EndpointURL == "" {
		return nil, apperrors.New(apperrors.CodeUnreachable, "endpoint url is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, apperrors.New(apperrors.CodeAuthInvalid, "credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, apperrors.BucketNotFound("(unset)")
	}

	u, err := url.Parse(cfg.EndpointURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "invalid endpoint url")
	}
	endpoint := u.Host
	if endpoint == "" {
		endpoint = cfg.EndpointURL
	}
	useSSL := cfg.UseSSL || u.Scheme == "https"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create object store client")
	}
	return &Store{client: client, cfg: cfg}, nil
}

// Ping lists buckets as a connectivity check
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.ListBuckets(ctx); err != nil {
		return classifyError(err)
	}
	return nil
}

// requireBucket fails with a typed error when the configured bucket is absent
func (s *Store) requireBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return classifyError(err)
	}
	if !exists {
		return apperrors.BucketNotFound(s.cfg.Bucket)
	}
	return nil
}

// PutFrame encodes a frame and uploads it under key. The URL of the stored
// object is returned.
func (s *Store) PutFrame(ctx context.Context, key string, f *frame.Frame, format Format) (string, error) {
	if err := s.requireBucket(ctx); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	var contentType string
	switch format {
	case FormatCSV:
		if err := encodeCSV(f, &buf); err != nil {
			return "", err
		}
		contentType = "text/csv"
	case FormatParquet:
		if err := parquet.WriteParquet(f, &buf); err != nil {
			return "", err
		}
		contentType = "application/octet-stream"
	default:
		return "", apperrors.InvalidInput(fmt.Sprintf("unknown format %q", format))
	}

	// tag each upload so re-pushed artifacts are distinguishable server-side
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()),
		minio.PutObjectOptions{
			ContentType:  contentType,
			UserMetadata: map[string]string{"upload-id": core.NewID().String()},
		})
	if err != nil {
		return "", classifyError(err)
	}
	return fmt.Sprintf("s3://%s/%s", s.cfg.Bucket, key), nil
}

// GetFrame downloads and decodes a frame artifact. Format defaults from the
// key extension when empty.
func (s *Store) GetFrame(ctx context.Context, key string, format Format) (*frame.Frame, error) {
	if err := s.requireBucket(ctx); err != nil {
		return nil, err
	}
	if format == "" {
		if strings.EqualFold(path.Ext(key), ".parquet") {
			format = FormatParquet
		} else {
			format = FormatCSV
		}
	}

	obj, err := s.client.GetObject(ctx, s.cfg.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, classifyError(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, classifyError(err)
	}

	switch format {
	case FormatCSV:
		return decodeCSV(ctx, data)
	case FormatParquet:
		return parquet.ReadParquet(bytes.NewReader(data))
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown format %q", format))
	}
}

// List returns the object keys under a prefix
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	if err := s.requireBucket(ctx); err != nil {
		return nil, err
	}

	var keys []string
	for obj := range s.client.ListObjects(ctx, s.cfg.Bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, classifyError(obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// Delete removes one artifact
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.requireBucket(ctx); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return classifyError(err)
	}
	return nil
}

func encodeCSV(f *frame.Frame, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(f.Columns()); err != nil {
		return apperrors.Wrap(err, "failed to encode header")
	}
	names := f.Columns()
	cols := make([]*series.Series, len(names))
	for j, name := range names {
		col, err := f.Column(name)
		if err != nil {
			return err
		}
		cols[j] = col
	}
	record := make([]string, len(names))
	for i := 0; i < f.NRows(); i++ {
		for j, col := range cols {
			record[j] = col.FormatAt(i)
		}
		if err := writer.Write(record); err != nil {
			return apperrors.Wrap(err, fmt.Sprintf("failed to encode row %d", i))
		}
	}
	writer.Flush()
	return writer.Error()
}

func decodeCSV(ctx context.Context, data []byte) (*frame.Frame, error) {
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse csv artifact")
	}
	if len(rows) == 0 {
		return nil, apperrors.InvalidInput("csv artifact has no header")
	}
	return coerce.New(coerce.DefaultConfig()).CoerceTable(ctx, rows[0], rows[1:], nil)
}

// classifyError converts minio-go errors into coded application errors
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	if resp := minio.ToErrorResponse(err); resp.Code != "" {
		switch resp.Code {
		case "NoSuchBucket":
			return apperrors.WithCode(apperrors.CodeBucketNotFound, err)
		case "NoSuchKey":
			return apperrors.WithCode(apperrors.CodeObjectNotFound, err)
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return apperrors.WithCode(apperrors.CodeAuthInvalid, err)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"):
		return apperrors.WithCode(apperrors.CodeUnreachable, err)
	case strings.Contains(msg, "not found"), strings.Contains(msg, "does not exist"):
		return apperrors.WithCode(apperrors.CodeObjectNotFound, err)
	default:
		return apperrors.WithCode(apperrors.CodeIOError, err)
	}
}
