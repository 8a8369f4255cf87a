package drive

import (
	"context"
	"fmt"
	"log/slog"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	driveRepo "drive/internal/domain/repositories/drive"
	"drive/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

const fileColumns = `id, name, folder_id, size, mime_type, owner_id, storage_key, is_starred, is_deleted, deleted_at, created_at, updated_at`

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *postgres.RepositoryConfig) driveRepo.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func scanFile(row scanner) (models.File, error) {
	var f models.File
	err := row.Scan(
		&f.ID,
		&f.Name,
		&f.FolderID,
		&f.Size,
		&f.MimeType,
		&f.OwnerID,
		&f.StorageKey,
		&f.IsStarred,
		&f.IsDeleted,
		&f.DeletedAt,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}

// Create creates a new file record
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, folder_id, size, mime_type, owner_id, storage_key, is_starred, is_deleted, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		file.Name,
		file.FolderID,
		file.Size,
		file.MimeType,
		file.OwnerID,
		file.StorageKey,
		file.IsStarred,
		file.IsDeleted,
		file.DeletedAt,
		file.CreatedAt,
		file.UpdatedAt,
	).Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "folder not found"}
		}
		if postgres.IsPgCheckViolation(err) {
			return &domain.ValidationError{Message: "invalid file"}
		}
		return fmt.Errorf("create file: %w", err)
	}

	r.logger.Debug("file created", "id", file.ID, "folder_id", file.FolderID, "size", file.Size)
	return nil
}

// GetByID retrieves a file by ID, including trashed files
func (r *PostgresFileRepository) GetByID(ctx context.Context, id, ownerID string) (*models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, fileColumns, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	file, err := scanFile(executor.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidText(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return &file, nil
}

// Update updates an existing file record
func (r *PostgresFileRepository) Update(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, folder_id = $2, is_starred = $3, is_deleted = $4, deleted_at = $5, updated_at = $6
		WHERE id = $7 AND owner_id = $8
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		file.Name,
		file.FolderID,
		file.IsStarred,
		file.IsDeleted,
		file.DeletedAt,
		file.UpdatedAt,
		file.ID,
		file.OwnerID,
	)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "folder not found"}
		}
		return fmt.Errorf("update file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete erases file rows
func (r *PostgresFileRepository) Delete(ctx context.Context, ids []string, ownerID string) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1::uuid[]) AND owner_id = $2`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ids, ownerID)
	if err != nil {
		return fmt.Errorf("delete files: %w", err)
	}

	r.logger.Debug("files deleted", "requested", len(ids), "deleted", result.RowsAffected())
	return nil
}

// ListByFolder lists non-deleted files directly in folderID (nil = root)
func (r *PostgresFileRepository) ListByFolder(ctx context.Context, folderID *string, ownerID string, opts models.ListOptions) ([]models.File, int, error) {
	return listPage(ctx, postgres.GetExecutor(ctx, r.pool), pageQuery{
		table:   r.tables.Files,
		columns: fileColumns,
		where:   `owner_id = $1 AND folder_id IS NOT DISTINCT FROM $2::uuid AND NOT is_deleted`,
		orderBy: `name ASC, id ASC`,
		args:    []interface{}{ownerID, folderID},
	}, opts, scanFile)
}

// ListInFolders lists every file, deleted or not, inside any of folderIDs
func (r *PostgresFileRepository) ListInFolders(ctx context.Context, folderIDs []string, ownerID string) ([]models.File, error) {
	if len(folderIDs) == 0 {
		return []models.File{}, nil
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1 AND folder_id = ANY($2::uuid[])
		ORDER BY name ASC, id ASC
	`, fileColumns, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID, folderIDs)
	if err != nil {
		return nil, fmt.Errorf("list files in folders: %w", err)
	}
	defer rows.Close()

	files := []models.File{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// ListStarred lists starred files outside the trash
func (r *PostgresFileRepository) ListStarred(ctx context.Context, ownerID string, opts models.ListOptions) ([]models.File, int, error) {
	return listPage(ctx, postgres.GetExecutor(ctx, r.pool), pageQuery{
		with:    deadFoldersCTE(r.tables.Folders),
		table:   r.tables.Files,
		columns: fileColumns,
		where:   `owner_id = $1 AND is_starred AND NOT is_deleted AND (folder_id IS NULL OR folder_id NOT IN (SELECT id FROM dead))`,
		orderBy: `name ASC, id ASC`,
		args:    []interface{}{ownerID},
	}, opts, scanFile)
}

// ListTrash lists deleted files whose folder chain is live
func (r *PostgresFileRepository) ListTrash(ctx context.Context, ownerID string, opts models.ListOptions) ([]models.File, int, error) {
	return listPage(ctx, postgres.GetExecutor(ctx, r.pool), pageQuery{
		with:    deadFoldersCTE(r.tables.Folders),
		table:   r.tables.Files,
		columns: fileColumns,
		where:   `owner_id = $1 AND is_deleted AND (folder_id IS NULL OR folder_id NOT IN (SELECT id FROM dead))`,
		orderBy: `deleted_at DESC, id ASC`,
		args:    []interface{}{ownerID},
	}, opts, scanFile)
}
