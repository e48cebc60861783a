package integration

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"menu-digitizer/internal/export"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	minioUser     = "minioadmin"
	minioPassword = "minioadmin"
	testBucket    = "menus"
	testRegion    = "us-east-1"
)

// TestStore represents a MinIO object store instance.
type TestStore struct {
	Container testcontainers.Container
	Client    *s3.Client
	Config    export.S3Config
}

// SetupTestStore starts a MinIO container and creates the test bucket.
func SetupTestStore(t *testing.T) *TestStore {
	t.Helper()

	ctx := context.Background()

	// Create MinIO container
	minioContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:RELEASE.2024-01-16T16-07-38Z",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     minioUser,
				"MINIO_ROOT_PASSWORD": minioPassword,
			},
			Cmd: []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").
				WithPort("9000/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start minio container: %v", err)
	}

	t.Cleanup(func() {
		if err := minioContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	// Get endpoint
	host, err := minioContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := minioContainer.MappedPort(ctx, "9000/tcp")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}
	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())

	client := s3.New(s3.Options{
		Region:       testRegion,
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider(minioUser, minioPassword, ""),
	})

	// Create bucket
	if _, err := client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(testBucket)}); err != nil {
		t.Fatalf("failed to create bucket: %v", err)
	}

	return &TestStore{
		Container: minioContainer,
		Client:    client,
		Config: export.S3Config{
			Bucket:    testBucket,
			Region:    testRegion,
			Endpoint:  endpoint,
			AccessKey: minioUser,
			SecretKey: minioPassword,
		},
	}
}

// ReadObject returns the body of an object in the test bucket.
func ReadObject(t *testing.T, ts *TestStore, key string) []byte {
	t.Helper()

	out, err := ts.Client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(testBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		t.Fatalf("failed to get object %s: %v", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		t.Fatalf("failed to read object %s: %v", key, err)
	}
	return body
}
