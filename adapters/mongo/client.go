// Package mongo persists finished assessment results. Connection settings are
// supplied by the caller; the adapter knows nothing about the environment.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// Client wraps a connected MongoDB client and the screening database handle.
type Client struct {
	client   *mongo.Client
	Database *mongo.Database
	logger   *zap.Logger
}

// NewClient connects to MongoDB at the given URI and verifies the connection
// with a ping before returning the database handle.
func NewClient(uri, dbName string, logger *zap.Logger) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	logger.Info("Connected to MongoDB", zap.String("database", dbName))

	return &Client{
		client:   client,
		Database: client.Database(dbName),
		logger:   logger,
	}, nil
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongodb disconnect: %w", err)
	}
	c.logger.Info("Disconnected from MongoDB")
	return nil
}
