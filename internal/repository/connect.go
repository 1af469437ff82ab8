package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/grvup/classroom/config"
	"github.com/grvup/classroom/pkg/database"
)

// Store an open storage backend and the repositories built on it
type Store struct {
	*Repository

	mongoClient *mongo.Client
	gormDB      *gorm.DB
}

// Connect opens the backend selected by cfg.Database.Driver and prepares
// its schema: indexes for MongoDB, migrations for Postgres.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, db, err := database.NewMongo(&cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureIndexes(ctx, db, logger); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &Store{Repository: NewMongoRepository(db), mongoClient: client}, nil

	case config.DriverPostgres:
		db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return &Store{Repository: NewGormRepository(db), gormDB: db}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Database.Driver)
}

// Close releases the underlying connection
func (s *Store) Close(ctx context.Context) error {
	if s.mongoClient != nil {
		return s.mongoClient.Disconnect(ctx)
	}
	if s.gormDB != nil {
		sqlDB, err := s.gormDB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
