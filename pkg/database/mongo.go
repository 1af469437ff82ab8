package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/grvup/classroom/config"
)

// Collection names
const (
	UsersCollection   = "users"
	ClassesCollection = "classes"
)

// NewMongo connects to MongoDB and pings the primary
func NewMongo(cfg *config.DatabaseConfig, logger *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info("connected to mongodb", zap.String("database", cfg.MongoDatabase))

	return client, client.Database(cfg.MongoDatabase), nil
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// email index is what keeps the default principal single under concurrent
// startups.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	users := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "sessionid", Value: 1}}},
	}
	if _, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	classes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userid", Value: 1}}},
	}
	if _, err := db.Collection(ClassesCollection).Indexes().CreateMany(ctx, classes); err != nil {
		return fmt.Errorf("create class indexes: %w", err)
	}

	logger.Info("mongodb indexes ensured")
	return nil
}
