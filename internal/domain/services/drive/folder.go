package drive

import (
	"context"

	"drive/internal/domain/models/drive"
)

// FolderService handles folder business logic
type FolderService interface {
	// CreateFolder creates a folder under a live parent (nil = root)
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*drive.Folder, error)

	// GetFolder retrieves a live folder with its computed path
	GetFolder(ctx context.Context, id, ownerID string) (*drive.Folder, error)

	// GetFolderContents returns a folder (nil id = root) and its non-deleted children
	GetFolderContents(ctx context.Context, id *string, ownerID string) (*drive.FolderContents, error)

	// RenameFolder changes a folder's name
	RenameFolder(ctx context.Context, req *RenameRequest) (*drive.Folder, error)

	// MoveFolder reparents a folder; moving into its own subtree fails with CyclicMoveError
	MoveFolder(ctx context.Context, req *MoveRequest) (*drive.Folder, error)

	// CopyFolder duplicates a folder and its live subtree, blobs included
	CopyFolder(ctx context.Context, req *CopyRequest) (*drive.Folder, error)

	// DeleteFolder moves a folder to the trash
	DeleteFolder(ctx context.Context, id, ownerID string) error

	// RestoreFolder takes a folder out of the trash
	RestoreFolder(ctx context.Context, id, ownerID string) (*drive.Folder, error)

	// PermanentDeleteFolder erases a trashed folder, its subtree and their blobs
	PermanentDeleteFolder(ctx context.Context, id, ownerID string) error

	// ToggleStarFolder flips a folder's starred flag
	ToggleStarFolder(ctx context.Context, id, ownerID string) (*drive.Folder, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	OwnerID  string  `json:"-"`
	Name     string  `json:"name"`
	ParentID *string `json:"parentId,omitempty"` // null for root
}

// RenameRequest renames a folder or file
type RenameRequest struct {
	OwnerID string `json:"-"`
	ID      string `json:"-"`
	Name    string `json:"name"`
}

// MoveRequest moves a folder or file. TargetID nil = root.
type MoveRequest struct {
	OwnerID  string  `json:"-"`
	ID       string  `json:"-"`
	TargetID *string `json:"-"`
}

// CopyRequest copies a folder or file into TargetID (nil = root).
// An empty Name keeps the source name.
type CopyRequest struct {
	OwnerID  string  `json:"-"`
	ID       string  `json:"-"`
	TargetID *string `json:"-"`
	Name     string  `json:"name,omitempty"`
}
