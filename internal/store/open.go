package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"souq/internal/config"
	"souq/internal/logging"
	"souq/internal/store/local"
	"souq/internal/store/mongo"
	"souq/internal/store/postgres"
)

// Open escolhe o backend configurado e já devolve o Store instrumentado.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Store, error) {
	logger = logging.OrNop(logger)

	var (
		s   Store
		err error
	)
	switch cfg.StorageBackend {
	case config.BackendLocal:
		s, err = local.Open(cfg.LocalStorePath)
	case config.BackendPostgres:
		s, err = postgres.Open(ctx, cfg.DatabaseURL)
	case config.BackendMongo:
		s, err = mongo.Open(ctx, cfg.MongoURL, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StorageBackend, err)
	}

	logger.Info("storage ready", zap.String("backend", cfg.StorageBackend))
	return Instrument(s, cfg.StorageBackend), nil
}
