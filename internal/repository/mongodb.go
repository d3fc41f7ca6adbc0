package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	logsCollection  = "logs"
	logsTTLIndexKey = "timestamp_1"
)

type mongoSettings struct {
	maxPool        uint64
	minPool        uint64
	idle           time.Duration
	connectTimeout time.Duration
	selectTimeout  time.Duration
	socketTimeout  time.Duration
	compressors    []string
}

// MongoOption tunes the audit log connection.
type MongoOption func(*mongoSettings)

// WithPoolSize bounds the connection pool. The audit log is write-mostly and
// low volume, so the defaults are small.
func WithPoolSize(minSize, maxSize uint64) MongoOption {
	return func(s *mongoSettings) {
		s.minPool, s.maxPool = minSize, maxSize
	}
}

// WithConnectTimeout bounds connecting and server selection. Non-positive
// durations keep the default.
func WithConnectTimeout(d time.Duration) MongoOption {
	return func(s *mongoSettings) {
		if d <= 0 {
			return
		}
		s.connectTimeout = d
		if d < s.selectTimeout {
			s.selectTimeout = d
		}
	}
}

// WithoutCompression disables wire compression.
func WithoutCompression() MongoOption {
	return func(s *mongoSettings) { s.compressors = nil }
}

// MongoDB holds the client and the audit log collection.
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	Logs     *mongo.Collection
}

// NewMongoDB connects, pings and prepares the audit log indexes.
func NewMongoDB(uri, databaseName string, opts ...MongoOption) (*MongoDB, error) {
	s := mongoSettings{
		maxPool:        20,
		minPool:        2,
		idle:           10 * time.Minute,
		connectTimeout: 10 * time.Second,
		selectTimeout:  5 * time.Second,
		socketTimeout:  30 * time.Second,
		compressors:    []string{"zstd", "snappy", "zlib"},
	}
	for _, opt := range opts {
		opt(&s)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.connectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetAppName("green-haven").
		SetMaxPoolSize(s.maxPool).
		SetMinPoolSize(s.minPool).
		SetMaxConnIdleTime(s.idle).
		SetConnectTimeout(s.connectTimeout).
		SetServerSelectionTimeout(s.selectTimeout).
		SetSocketTimeout(s.socketTimeout).
		SetRetryWrites(true)
	if len(s.compressors) > 0 {
		clientOptions.SetCompressors(s.compressors)
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(databaseName)
	m := &MongoDB{Client: client, Database: db, Logs: db.Collection(logsCollection)}
	if err := m.createIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}
	return m, nil
}

// createIndexes creates the lookup indexes of the audit log. The TTL index
// is managed by SetLogsTTL.
func (m *MongoDB) createIndexes(ctx context.Context) error {
	_, err := m.Logs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "request_id", Value: 1}}},
		{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "action_type", Value: 1}}},
	})
	return err
}

// SetLogsTTL replaces the TTL index of the logs collection.
func (m *MongoDB) SetLogsTTL(ctx context.Context, ttl time.Duration) error {
	// the index may not exist yet
	_, _ = m.Logs.Indexes().DropOne(ctx, logsTTLIndexKey)

	_, err := m.Logs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
	})
	return err
}

// Close closes the MongoDB connection.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck verifies the MongoDB connection is healthy.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}
