package minio

import (
	"context"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugflat/pkg/errors"
)

// UploadResult describes one uploaded file.
type UploadResult struct {
	File     string
	Key      string
	Size     int64
	ETag     string
	Duration time.Duration
}

// Publisher copies the written output files of one run to
// <bucket>/<prefix>/<run>/<file>.
type Publisher struct {
	client *MinIOClient
	logger logging.Logger
}

// NewPublisher wraps a connected client.
func NewPublisher(client *MinIOClient, logger logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Publisher{client: client, logger: logger}
}

// ObjectKey returns the object key for file within run.
func (p *Publisher) ObjectKey(run, file string) string {
	parts := []string{}
	if prefix := strings.Trim(p.client.config.Prefix, "/"); prefix != "" {
		parts = append(parts, prefix)
	}
	if run != "" {
		parts = append(parts, run)
	}
	parts = append(parts, filepath.Base(file))
	return path.Join(parts...)
}

// Upload uploads files in order and stops at the first failure. Results of
// the files uploaded before the failure are returned with the error.
func (p *Publisher) Upload(ctx context.Context, run string, files []string) ([]UploadResult, error) {
	results := make([]UploadResult, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return results, errors.Wrap(err, errors.ErrCodeCanceled, "upload canceled")
		}
		start := time.Now()
		key := p.ObjectKey(run, file)
		info, err := p.client.client.FPutObject(ctx, p.client.config.Bucket, key, file, minio.PutObjectOptions{
			ContentType:  contentType(file),
			UserMetadata: map[string]string{"run-id": run},
		})
		if err != nil {
			return results, errors.Wrap(err, errors.ErrCodeStorageUploadFailed, "failed to upload object").WithDetail(key)
		}
		res := UploadResult{File: file, Key: key, Size: info.Size, ETag: info.ETag, Duration: time.Since(start)}
		results = append(results, res)
		p.logger.Info("Object uploaded",
			logging.String("bucket", p.client.config.Bucket),
			logging.String("key", key),
			logging.Int64("size", info.Size))
	}
	return results, nil
}

// Exists reports whether the object for file within run is present.
func (p *Publisher) Exists(ctx context.Context, run, file string) (bool, error) {
	_, err := p.client.client.StatObject(ctx, p.client.config.Bucket, p.ObjectKey(run, file), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, errors.Wrap(err, errors.ErrCodeStorageUnavailable, "failed to stat object")
}

func contentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".csv":
		return "text/csv"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".prom":
		return "text/plain; version=0.0.4"
	default:
		return "application/octet-stream"
	}
}
