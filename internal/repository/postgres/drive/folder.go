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

const folderColumns = `id, name, parent_id, owner_id, is_starred, is_deleted, deleted_at, created_at, updated_at`

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) driveRepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func scanFolder(row scanner) (models.Folder, error) {
	var f models.Folder
	err := row.Scan(
		&f.ID,
		&f.Name,
		&f.ParentID,
		&f.OwnerID,
		&f.IsStarred,
		&f.IsDeleted,
		&f.DeletedAt,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, parent_id, owner_id, is_starred, is_deleted, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.Name,
		folder.ParentID,
		folder.OwnerID,
		folder.IsStarred,
		folder.IsDeleted,
		folder.DeletedAt,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "parent folder not found"}
		}
		if postgres.IsPgCheckViolation(err) {
			return &domain.ValidationError{Message: "invalid folder"}
		}
		return fmt.Errorf("create folder: %w", err)
	}

	r.logger.Debug("folder created", "id", folder.ID, "parent_id", folder.ParentID)
	return nil
}

// GetByID retrieves a folder by ID, including trashed folders
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidText(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// Update updates an existing folder
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, parent_id = $2, is_starred = $3, is_deleted = $4, deleted_at = $5, updated_at = $6
		WHERE id = $7 AND owner_id = $8
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.Name,
		folder.ParentID,
		folder.IsStarred,
		folder.IsDeleted,
		folder.DeletedAt,
		folder.UpdatedAt,
		folder.ID,
		folder.OwnerID,
	)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "parent folder not found"}
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete erases folder rows. Rows of descendants are removed by the caller first.
func (r *PostgresFolderRepository) Delete(ctx context.Context, ids []string, ownerID string) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1::uuid[]) AND owner_id = $2`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ids, ownerID)
	if err != nil {
		return fmt.Errorf("delete folders: %w", err)
	}

	r.logger.Debug("folders deleted", "requested", len(ids), "deleted", result.RowsAffected())
	return nil
}

// ListChildren lists non-deleted direct subfolders of parentID (nil = root)
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID *string, ownerID string, opts models.ListOptions) ([]models.Folder, int, error) {
	return listPage(ctx, postgres.GetExecutor(ctx, r.pool), pageQuery{
		table:   r.tables.Folders,
		columns: folderColumns,
		where:   `owner_id = $1 AND parent_id IS NOT DISTINCT FROM $2::uuid AND NOT is_deleted`,
		orderBy: `name ASC, id ASC`,
		args:    []interface{}{ownerID, parentID},
	}, opts, scanFolder)
}

// ListAllChildren lists direct subfolders of parentID, deleted or not
func (r *PostgresFolderRepository) ListAllChildren(ctx context.Context, parentID string, ownerID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1 AND parent_id = $2
		ORDER BY name ASC, id ASC
	`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID, parentID)
	if err != nil {
		return nil, fmt.Errorf("list child folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// ListStarred lists starred folders outside the trash
func (r *PostgresFolderRepository) ListStarred(ctx context.Context, ownerID string, opts models.ListOptions) ([]models.Folder, int, error) {
	return listPage(ctx, postgres.GetExecutor(ctx, r.pool), pageQuery{
		with:    deadFoldersCTE(r.tables.Folders),
		table:   r.tables.Folders,
		columns: folderColumns,
		where:   `owner_id = $1 AND is_starred AND id NOT IN (SELECT id FROM dead)`,
		orderBy: `name ASC, id ASC`,
		args:    []interface{}{ownerID},
	}, opts, scanFolder)
}

// ListTrash lists deleted folders that are not inside another deleted folder
func (r *PostgresFolderRepository) ListTrash(ctx context.Context, ownerID string, opts models.ListOptions) ([]models.Folder, int, error) {
	return listPage(ctx, postgres.GetExecutor(ctx, r.pool), pageQuery{
		with:    deadFoldersCTE(r.tables.Folders),
		table:   r.tables.Folders,
		columns: folderColumns,
		where:   `owner_id = $1 AND is_deleted AND (parent_id IS NULL OR parent_id NOT IN (SELECT id FROM dead))`,
		orderBy: `deleted_at DESC, id ASC`,
		args:    []interface{}{ownerID},
	}, opts, scanFolder)
}

// GetAncestors walks parent_id upwards and returns the chain ordered root first, ending at id
func (r *PostgresFolderRepository) GetAncestors(ctx context.Context, id, ownerID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE chain AS (
			SELECT %[1]s, 0 AS depth
			FROM %[2]s
			WHERE id = $1 AND owner_id = $2
			UNION ALL
			SELECT f.id, f.name, f.parent_id, f.owner_id, f.is_starred, f.is_deleted, f.deleted_at, f.created_at, f.updated_at, c.depth + 1
			FROM %[2]s f
			JOIN chain c ON f.id = c.parent_id
		)
		SELECT %[1]s FROM chain ORDER BY depth DESC
	`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, id, ownerID)
	if err != nil {
		if postgres.IsPgInvalidText(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get ancestors: %w", err)
	}
	defer rows.Close()

	var chain []models.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ancestor: %w", err)
		}
		chain = append(chain, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ancestors: %w", err)
	}

	if len(chain) == 0 {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return chain, nil
}

// GetSubtreeIDs returns id followed by every descendant folder id
func (r *PostgresFolderRepository) GetSubtreeIDs(ctx context.Context, id, ownerID string) ([]string, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT id, 0 AS depth FROM %[1]s WHERE id = $1 AND owner_id = $2
			UNION ALL
			SELECT f.id, s.depth + 1 FROM %[1]s f JOIN subtree s ON f.parent_id = s.id
		)
		SELECT id FROM subtree ORDER BY depth
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get subtree: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var folderID string
		if err := rows.Scan(&folderID); err != nil {
			return nil, fmt.Errorf("scan subtree id: %w", err)
		}
		ids = append(ids, folderID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subtree: %w", err)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return ids, nil
}

// GetStats counts the live subtree below id. Traversal stops at deleted folders.
func (r *PostgresFolderRepository) GetStats(ctx context.Context, id, ownerID string) (*models.FolderStats, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE live AS (
			SELECT id FROM %[1]s WHERE id = $1 AND owner_id = $2
			UNION ALL
			SELECT f.id FROM %[1]s f JOIN live l ON f.parent_id = l.id WHERE NOT f.is_deleted
		)
		SELECT
			(SELECT COUNT(*) FROM live) - 1,
			COUNT(fi.id),
			COALESCE(SUM(fi.size), 0)::bigint
		FROM %[2]s fi
		WHERE fi.folder_id IN (SELECT id FROM live) AND NOT fi.is_deleted
	`, r.tables.Folders, r.tables.Files)

	var stats models.FolderStats
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, ownerID).Scan(
		&stats.TotalFolders,
		&stats.TotalFiles,
		&stats.TotalSize,
	)
	if err != nil {
		return nil, fmt.Errorf("folder stats: %w", err)
	}
	if stats.TotalFolders < 0 {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	stats.TotalItems = stats.TotalFolders + stats.TotalFiles
	return &stats, nil
}
