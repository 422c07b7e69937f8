package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/eduportal/academic-api/internal/infrastructure/config"
	"github.com/eduportal/academic-api/internal/infrastructure/db/mongo"
	"github.com/eduportal/academic-api/pkg/logger"
)

const appName = "academic-api"

// bootstrap loads configuration and builds the shared logger.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: appName,
	})
	return cfg, log, nil
}

// stores holds the Mongo-backed repositories.
type stores struct {
	client   *mongodriver.Client
	users    *mongo.UserRepository
	requests *mongo.RequestRepository
}

func (s *stores) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// openStores connects to MongoDB and makes sure the collections are indexed.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  appName,
	})
	if err != nil {
		return nil, err
	}

	s := &stores{
		client:   client,
		users:    mongo.NewUserRepository(db),
		requests: mongo.NewRequestRepository(db),
	}
	if err := s.users.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure user indexes: %w", err)
	}
	if err := s.requests.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure request indexes: %w", err)
	}
	return s, nil
}
