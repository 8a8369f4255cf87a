package drive

import (
	"context"

	"drive/internal/domain/models/drive"
)

// ListingService answers the paginated and navigational read paths.
// Missing paging values fall back to defaults; limit is capped.
type ListingService interface {
	ListFolders(ctx context.Context, parentID *string, ownerID string, opts drive.ListOptions) (*drive.FolderList, error)
	ListFiles(ctx context.Context, folderID *string, ownerID string, opts drive.ListOptions) (*drive.FileList, error)

	ListStarredFolders(ctx context.Context, ownerID string, opts drive.ListOptions) (*drive.FolderList, error)
	ListStarredFiles(ctx context.Context, ownerID string, opts drive.ListOptions) (*drive.FileList, error)

	ListTrashFolders(ctx context.Context, ownerID string, opts drive.ListOptions) (*drive.FolderList, error)
	ListTrashFiles(ctx context.Context, ownerID string, opts drive.ListOptions) (*drive.FileList, error)

	// GetBreadcrumb returns root followed by the folder's ancestors and the folder itself
	GetBreadcrumb(ctx context.Context, folderID, ownerID string) ([]drive.BreadcrumbEntry, error)

	// GetFolderStats aggregates the folder's live subtree
	GetFolderStats(ctx context.Context, folderID, ownerID string) (*drive.FolderStats, error)
}
