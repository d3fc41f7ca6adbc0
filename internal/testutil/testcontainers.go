//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// DefaultMongoImage is used unless TEST_MONGO_IMAGE overrides it.
const DefaultMongoImage = "mongo:7.0"

// MongoDBContainer wraps a MongoDB testcontainer holding audit logs.
type MongoDBContainer struct {
	Container testcontainers.Container
	URI       string
}

// SetupMongoDB starts a MongoDB testcontainer.
// Prefer GetSharedMongoDB from TestMain when a package has several tests.
func SetupMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	image := DefaultMongoImage
	if v := os.Getenv("TEST_MONGO_IMAGE"); v != "" {
		image = v
	}

	container, err := mongodb.Run(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("start mongodb container %s: %w", image, err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("mongodb connection string: %w", err)
	}

	return &MongoDBContainer{Container: container, URI: uri}, nil
}

// Cleanup terminates the container.
func (m *MongoDBContainer) Cleanup(ctx context.Context) error {
	if m == nil || m.Container == nil {
		return nil
	}
	if err := m.Container.Terminate(ctx); err != nil {
		return fmt.Errorf("terminate mongodb container: %w", err)
	}
	return nil
}
