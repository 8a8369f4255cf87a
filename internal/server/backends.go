package server

import (
	"context"
	"fmt"
	"log/slog"

	"drive/internal/config"
	"drive/internal/domain/repositories"
	driveRepo "drive/internal/domain/repositories/drive"
	"drive/internal/repository/memory"
	"drive/internal/repository/postgres"
	postgresDrive "drive/internal/repository/postgres/drive"
	driveService "drive/internal/service/drive"
	"drive/internal/storage"
	memstore "drive/internal/storage/memory"
	s3store "drive/internal/storage/s3"
)

// Backends are the metadata and blob stores selected by configuration.
type Backends struct {
	Folders   driveRepo.FolderRepository
	Files     driveRepo.FileRepository
	TxManager repositories.TransactionManager
	Blobs     storage.BlobStore

	closers []func()
}

// Close releases connections in reverse order of opening.
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// Services wires the drive services over these backends.
func (b *Backends) Services(cfg *config.Config, logger *slog.Logger) *driveService.Services {
	return driveService.SetupServices(b.Folders, b.Files, b.TxManager, b.Blobs, cfg.MaxUploadBytes, logger)
}

// OpenBackends connects the configured metadata store (postgres|memory) and
// blob store (s3|memory). The postgres schema is created when missing.
func OpenBackends(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backends, error) {
	b := &Backends{}

	switch cfg.MetadataDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres metadata driver")
		}
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			b.Close()
			return nil, err
		}

		repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
		b.Folders = postgresDrive.NewFolderRepository(repoConfig)
		b.Files = postgresDrive.NewFileRepository(repoConfig)
		b.TxManager = postgres.NewTransactionManager(pool, logger)

		logger.Info("database connected", "max_conns", 25, "min_conns", 5, "table_prefix", cfg.TablePrefix)

	case "memory":
		store := memory.NewStore()
		b.Folders = memory.NewFolderRepository(store)
		b.Files = memory.NewFileRepository(store)
		b.TxManager = memory.NewTransactionManager(store)
		logger.Warn("using in-memory metadata store; data is lost on restart")

	default:
		return nil, fmt.Errorf("unknown METADATA_DRIVER %q", cfg.MetadataDriver)
	}

	switch cfg.StorageDriver {
	case "s3":
		blobs, err := s3store.New(ctx, s3store.Config{
			Endpoint:   cfg.S3Endpoint,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Region:     cfg.S3Region,
			PresignTTL: cfg.PresignTTL,
		}, logger)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Blobs = blobs

	case "memory":
		b.Blobs = memstore.New("http://localhost:" + cfg.Port + "/blobs")
		logger.Warn("using in-memory blob store; presigned URLs are not fetchable")

	default:
		b.Close()
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return b, nil
}
