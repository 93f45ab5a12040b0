package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func NewClient(endpoint, key, secret string, useSSL bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(key, secret, ""),
		Secure: useSSL,
	})
}

// Storage implements ports.ObjectStorage over a MinIO bucket. publicURL, when
// set, overrides the endpoint in returned object URLs (CDN or reverse proxy).
type Storage struct {
	client    *minio.Client
	endpoint  string
	publicURL string
	useSSL    bool
}

func NewStorage(client *minio.Client, endpoint, publicURL string, useSSL bool) *Storage {
	return &Storage{
		client:    client,
		endpoint:  strings.TrimSpace(endpoint),
		publicURL: strings.TrimRight(strings.TrimSpace(publicURL), "/"),
		useSSL:    useSSL,
	}
}

func (s *Storage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio: upload %s/%s: %w", bucket, objectName, err)
	}
	return s.objectURL(bucket, objectName), nil
}

func (s *Storage) objectURL(bucket, objectName string) string {
	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s/%s", s.publicURL, bucket, objectName)
	}
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, bucket, objectName)
}
