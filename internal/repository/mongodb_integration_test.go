//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoDB_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	t.Run("connection successful", func(t *testing.T) {
		assert.NotNil(t, db.Client)
		assert.NotNil(t, db.Database)
		assert.NotNil(t, db.Logs)
	})

	t.Run("health check", func(t *testing.T) {
		assert.NoError(t, db.HealthCheck(ctx))
	})

	t.Run("set logs TTL is repeatable", func(t *testing.T) {
		require.NoError(t, db.SetLogsTTL(ctx, 24*time.Hour))
		require.NoError(t, db.SetLogsTTL(ctx, 48*time.Hour))

		cursor, err := db.Logs.Indexes().List(ctx)
		require.NoError(t, err)
		var indexes []bson.M
		require.NoError(t, cursor.All(ctx, &indexes))

		var ttl int32
		for _, idx := range indexes {
			if idx["name"] == logsTTLIndexKey {
				ttl = idx["expireAfterSeconds"].(int32)
			}
		}
		assert.Equal(t, int32(48*3600), ttl)
	})

	t.Run("lookup indexes are created", func(t *testing.T) {
		cursor, err := db.Logs.Indexes().List(ctx)
		require.NoError(t, err)
		var indexes []bson.M
		require.NoError(t, cursor.All(ctx, &indexes))

		names := make([]string, 0, len(indexes))
		for _, idx := range indexes {
			names = append(names, idx["name"].(string))
		}
		assert.Contains(t, names, "request_id_1")
		assert.Contains(t, names, "session_id_1_timestamp_-1")
		assert.Contains(t, names, "action_type_1")
	})
}

func TestNewMongoDB_InvalidURI(t *testing.T) {
	start := time.Now()

	_, err := NewMongoDB("mongodb://127.0.0.1:1", "unreachable",
		WithConnectTimeout(500*time.Millisecond), WithoutCompression())

	assert.ErrorContains(t, err, "mongo")
	assert.Less(t, time.Since(start), 5*time.Second)
}
