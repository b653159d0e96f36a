package factory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/llm-mail-triage/internal/adapters/store"
	"github.com/mikey/llm-mail-triage/internal/config"
	"go.uber.org/zap"
)

// StoreFactory creates rule and classification hint backends based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateBackend creates a store backend based on the configuration
func (f *StoreFactory) CreateBackend(ctx context.Context) (store.Backend, error) {
	storeCfg := f.cfg.GetStore()

	f.logger.Debug("Creating store", zap.String("type", storeCfg.Type))

	switch storeCfg.Type {
	case "file", "":
		return store.NewFileStore(storeCfg.FileDir, f.logger)
	case "memory":
		return store.NewMemoryStore(f.logger), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(storeCfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(ctx, storeCfg.SQLitePath, f.logger)
	case "mysql":
		return store.NewMySQLStore(ctx, storeCfg.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeCfg.Type)
	}
}
