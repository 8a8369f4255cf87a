package drive

import (
	"context"

	"drive/internal/domain/models/drive"
)

// FileRepository defines data access operations for file metadata.
// Every method is scoped to ownerID.
type FileRepository interface {
	// Create inserts a file and fills in its ID and timestamps
	Create(ctx context.Context, file *drive.File) error

	// GetByID returns a file regardless of its trash state
	GetByID(ctx context.Context, id, ownerID string) (*drive.File, error)

	// Update persists name, folder, star and trash fields
	Update(ctx context.Context, file *drive.File) error

	// Delete erases file rows
	Delete(ctx context.Context, ids []string, ownerID string) error

	// ListByFolder lists non-deleted files directly in a folder (folderID nil = root)
	ListByFolder(ctx context.Context, folderID *string, ownerID string, opts drive.ListOptions) ([]drive.File, int, error)

	// ListInFolders lists every file (deleted or not) whose folder is in folderIDs
	ListInFolders(ctx context.Context, folderIDs []string, ownerID string) ([]drive.File, error)

	// ListStarred lists starred files that are not effectively deleted
	ListStarred(ctx context.Context, ownerID string, opts drive.ListOptions) ([]drive.File, int, error)

	// ListTrash lists deleted files whose containing folders are all live
	ListTrash(ctx context.Context, ownerID string, opts drive.ListOptions) ([]drive.File, int, error)
}
