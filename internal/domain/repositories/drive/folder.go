package drive

import (
	"context"

	"drive/internal/domain/models/drive"
)

// FolderRepository defines data access operations for folders.
// Every method is scoped to ownerID; rows owned by someone else behave as missing.
type FolderRepository interface {
	// Create inserts a folder and fills in its ID and timestamps
	Create(ctx context.Context, folder *drive.Folder) error

	// GetByID returns a folder regardless of its trash state
	GetByID(ctx context.Context, id, ownerID string) (*drive.Folder, error)

	// Update persists name, parent, star and trash fields
	Update(ctx context.Context, folder *drive.Folder) error

	// Delete erases folder rows
	Delete(ctx context.Context, ids []string, ownerID string) error

	// ListChildren lists non-deleted direct subfolders (parentID nil = root)
	ListChildren(ctx context.Context, parentID *string, ownerID string, opts drive.ListOptions) ([]drive.Folder, int, error)

	// ListAllChildren lists direct subfolders including deleted ones
	ListAllChildren(ctx context.Context, parentID string, ownerID string) ([]drive.Folder, error)

	// ListStarred lists starred folders that are not effectively deleted
	ListStarred(ctx context.Context, ownerID string, opts drive.ListOptions) ([]drive.Folder, int, error)

	// ListTrash lists deleted folders whose ancestors are all live (topmost deleted)
	ListTrash(ctx context.Context, ownerID string, opts drive.ListOptions) ([]drive.Folder, int, error)

	// GetAncestors returns the chain from the root-level ancestor down to id, inclusive
	GetAncestors(ctx context.Context, id, ownerID string) ([]drive.Folder, error)

	// GetSubtreeIDs returns id and every descendant folder id, deleted or not
	GetSubtreeIDs(ctx context.Context, id, ownerID string) ([]string, error)

	// GetStats aggregates the non-deleted subtree below id
	GetStats(ctx context.Context, id, ownerID string) (*drive.FolderStats, error)
}
