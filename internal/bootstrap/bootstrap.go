// Package bootstrap opens the configured quest log collections for the
// process entry points.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/questlog/questlog/internal/config"
	"github.com/questlog/questlog/internal/database"
	"github.com/questlog/questlog/internal/questlog/repository"
	"github.com/questlog/questlog/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store bundles the two collections and whatever must be released on exit.
type Store struct {
	Logs      repository.Repository
	Templates repository.Repository
	Backend   string

	client *mongo.Client
}

// Close releases the Mongo client when one was opened.
func (s *Store) Close(ctx context.Context) {
	if s.client != nil {
		_ = s.client.Disconnect(ctx)
	}
}

// Ping checks that both collections answer.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.Logs.Count(ctx); err != nil {
		return err
	}
	_, err := s.Templates.Count(ctx)
	return err
}

// OpenStore opens the backend named by cfg.Storage.Backend. When Mongo cannot be
// reached the file backend under cfg.Storage.DataDir is used instead.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg.Storage.Backend == config.BackendMongo {
		st, err := openMongo(ctx, cfg)
		if err == nil {
			return st, nil
		}
		logger.Warnf("mongo backend unavailable (%v), using file store in %s", err, cfg.Storage.DataDir)
	}
	return openFiles(cfg)
}

// openFiles makes sure both collection directories exist before any route is reachable.
func openFiles(cfg *config.Config) (*Store, error) {
	logs, err := repository.NewFileRepo(cfg.Storage.LogsDir())
	if err != nil {
		return nil, err
	}
	templates, err := repository.NewFileRepo(cfg.Storage.TemplatesDir())
	if err != nil {
		return nil, err
	}
	return &Store{Logs: logs, Templates: templates, Backend: config.BackendFile}, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*Store, error) {
	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDB.Database)
	logs, err := repository.NewMongoRepo(ctx, db.Collection(repository.LogsCollection))
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("open logs collection: %w", err)
	}
	templates, err := repository.NewMongoRepo(ctx, db.Collection(repository.TemplatesCollection))
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("open templates collection: %w", err)
	}
	return &Store{Logs: logs, Templates: templates, Backend: config.BackendMongo, client: client}, nil
}
