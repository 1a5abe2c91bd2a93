// Package testhelpers starts throwaway PostgreSQL and MongoDB containers for
// integration tests (build tag "integration").
//
// Requirements:
//   - Docker daemon running and accessible
//   - Docker images: postgres:16-alpine, mongo:7
package testhelpers

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage = "postgres:16-alpine"
	mongoImage    = "mongo:7"
)

// StartPostgres runs a PostgreSQL container and returns a DSN for it.
// The container is terminated when the test completes.
func StartPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "yatube",
			"POSTGRES_PASSWORD": "yatube",
			"POSTGRES_DB":       "yatube",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	host, port := start(t, ctx, req)
	return fmt.Sprintf("host=%s port=%s user=yatube password=yatube dbname=yatube sslmode=disable", host, port)
}

// StartMongo runs a MongoDB container and returns a connection URI for it.
// The container is terminated when the test completes.
func StartMongo(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        mongoImage,
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor: wait.ForListeningPort("27017/tcp").
			WithStartupTimeout(60 * time.Second),
	}
	host, port := start(t, ctx, req)
	return fmt.Sprintf("mongodb://%s:%s", host, port)
}

// start runs req and returns the host and port of its single exposed port.
func start(t *testing.T, ctx context.Context, req testcontainers.ContainerRequest) (string, string) {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start %s container: %v", req.Image, err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate %s container: %v", req.Image, err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Failed to get %s container endpoint: %v", req.Image, err)
	}
	host, port, err := net.SplitHostPort(endpoint)
	if err != nil {
		t.Fatalf("Failed to parse %s container endpoint %q: %v", req.Image, endpoint, err)
	}
	return host, port
}
