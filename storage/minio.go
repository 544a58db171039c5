// SPDX-License-Identifier: EPL-2.0

package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config describes an S3 compatible endpoint.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

// MinioFetcher serves s3://bucket/key locators from an S3 compatible store.
type MinioFetcher struct {
	client *minio.Client
}

func NewMinioFetcher(cfg Config) (*MinioFetcher, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNotConfigured
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	return &MinioFetcher{client: client}, nil
}

// Fetch opens the object. A stat is issued first so that missing objects
// fail here rather than on the first read.
func (m *MinioFetcher) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	bucket, key, err := ParseLocator(locator)
	if err != nil {
		return nil, err
	}

	obj, err := m.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", bucket, key, err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("stat %s/%s: %w", bucket, key, err)
	}

	return obj, nil
}

// ParseLocator splits s3://bucket/path/to/key into bucket and key.
func ParseLocator(locator string) (bucket, key string, err error) {
	u, err := url.Parse(locator)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidLocator, err)
	}
	if !strings.EqualFold(u.Scheme, "s3") {
		return "", "", fmt.Errorf("%w: scheme %q", ErrInvalidLocator, u.Scheme)
	}

	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidLocator, locator)
	}

	return bucket, key, nil
}
