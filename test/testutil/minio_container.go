package testutil

import (
	"context"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	MinioRootUser     = "minioadmin"
	MinioRootPassword = "minioadmin"
)

type MinIOContainerInfo struct {
	Endpoint string
	Cleanup  func()
}

func StartMinIOContainer() (*MinIOContainerInfo, error) {
	c, err := startContainer("minio/minio", "latest", "TEST_MINIO_TAG",
		[]string{
			"MINIO_ROOT_USER=" + MinioRootUser,
			"MINIO_ROOT_PASSWORD=" + MinioRootPassword,
		},
		[]string{"server", "/data"},
	)
	if err != nil {
		return nil, err
	}

	endpoint := c.hostPort("9000/tcp")
	if err := c.waitReady("minio", func() error {
		client, err := NewMinioClient(endpoint)
		if err != nil {
			return err
		}
		// ListBuckets is a light operation to check health
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err = client.ListBuckets(ctx)
		return err
	}); err != nil {
		return nil, err
	}

	return &MinIOContainerInfo{Endpoint: endpoint, Cleanup: c.purger("minio")}, nil
}

// NewMinioClient returns a plain minio client for asserting on stored objects.
func NewMinioClient(endpoint string) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(MinioRootUser, MinioRootPassword, ""),
		Secure: false,
	})
}
