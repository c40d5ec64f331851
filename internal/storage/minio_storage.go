package storage

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Strg struct {
	Client minioCore
}

type MinioStorage struct {
	client     minioCore
	bucketName string
}

// compile-time check: *MinioStorage must satisfy port.ObjectStore
var _ port.ObjectStore = (*MinioStorage)(nil)

func NewMinioClient(endpoint, accessKey, secretKey string, useSSL bool) (*Strg, error) {
	logger.Info(context.Background(), "initialising minio client...")
	core, err := minio.NewCore(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return &Strg{Client: core}, nil
}

// InitBucket creates bucket if it does not exist yet.
func (c *Strg) InitBucket(bucket string) error {
	ctx := context.Background()
	ok, err := c.Client.BucketExists(ctx, bucket)
	if err != nil {
		return mapMinioErr(err)
	}
	if !ok {
		logger.Infof(ctx, "bucket %q does not exist, creating it...", bucket)
		if err := c.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return mapMinioErr(err)
		}
	}
	return nil
}

// WithBucket returns an object store scoped to bucket, creating it if needed.
func (c *Strg) WithBucket(bucket string) (port.ObjectStore, error) {
	if err := c.InitBucket(bucket); err != nil {
		return nil, err
	}
	return &MinioStorage{client: c.Client, bucketName: bucket}, nil
}

func (s *MinioStorage) CreateTransfer(ctx context.Context, key, contentType string) (string, error) {
	logger.Debugf(ctx, "opening multipart transfer for %q in bucket %q...", key, s.bucketName)

	uploadID, err := s.client.NewMultipartUpload(ctx, s.bucketName, key, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", mapMinioErr(err)
	}
	return uploadID, nil
}

func (s *MinioStorage) UploadPart(ctx context.Context, key, transferID string, partNumber int, r io.Reader, size int64) (string, error) {
	logger.Debugf(ctx, "uploading part %d of %q to bucket %q...", partNumber, key, s.bucketName)

	part, err := s.client.PutObjectPart(ctx, s.bucketName, key, transferID, partNumber, r, size, minio.PutObjectPartOptions{})
	if err != nil {
		return "", mapMinioErr(err)
	}
	if part.ETag == "" {
		return "", fmt.Errorf("part %d of %q returned no ETag", partNumber, key)
	}
	return part.ETag, nil
}

func (s *MinioStorage) CompleteTransfer(ctx context.Context, key, transferID string, parts []port.CompletedPart) (port.ObjectLocation, error) {
	logger.Debugf(ctx, "completing multipart transfer of %q with %d part(s)...", key, len(parts))

	completeParts := make([]minio.CompletePart, len(parts))
	var size int64
	for i, p := range parts {
		completeParts[i] = minio.CompletePart{PartNumber: p.PartNumber, ETag: p.ETag}
		size += p.SizeBytes
	}
	sort.Slice(completeParts, func(i, j int) bool { return completeParts[i].PartNumber < completeParts[j].PartNumber })

	info, err := s.client.CompleteMultipartUpload(ctx, s.bucketName, key, transferID, completeParts, minio.PutObjectOptions{})
	if err != nil {
		return port.ObjectLocation{}, mapMinioErr(err)
	}
	if info.Size > 0 {
		size = info.Size
	}

	return port.ObjectLocation{
		Bucket:    s.bucketName,
		Key:       key,
		URL:       s.publicURL(key),
		URI:       fmt.Sprintf("s3://%s/%s", s.bucketName, key),
		ETag:      info.ETag,
		SizeBytes: size,
	}, nil
}

func (s *MinioStorage) AbortTransfer(ctx context.Context, key, transferID string) error {
	logger.Debugf(ctx, "aborting multipart transfer %q of %q...", transferID, key)

	return mapMinioErr(s.client.AbortMultipartUpload(ctx, s.bucketName, key, transferID))
}

func (s *MinioStorage) publicURL(key string) string {
	base := s.client.EndpointURL()
	if base == nil {
		return ""
	}
	return base.JoinPath(s.bucketName, key).String()
}
