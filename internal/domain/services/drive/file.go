package drive

import (
	"context"
	"io"

	"drive/internal/domain/models/drive"
)

// FileService handles file business logic
type FileService interface {
	// UploadFile stores the content and creates the file record
	UploadFile(ctx context.Context, req *UploadFileRequest) (*drive.File, error)

	// GetFile retrieves a live file
	GetFile(ctx context.Context, id, ownerID string) (*drive.File, error)

	RenameFile(ctx context.Context, req *RenameRequest) (*drive.File, error)
	MoveFile(ctx context.Context, req *MoveRequest) (*drive.File, error)

	// CopyFile duplicates the record and the blob
	CopyFile(ctx context.Context, req *CopyRequest) (*drive.File, error)

	DeleteFile(ctx context.Context, id, ownerID string) error
	RestoreFile(ctx context.Context, id, ownerID string) (*drive.File, error)

	// PermanentDeleteFile erases a trashed file and its blob
	PermanentDeleteFile(ctx context.Context, id, ownerID string) error

	ToggleStarFile(ctx context.Context, id, ownerID string) (*drive.File, error)

	// GetDownloadLink returns a presigned attachment URL
	GetDownloadLink(ctx context.Context, id, ownerID string) (*drive.DownloadLink, error)

	// GetPreviewLink returns a presigned inline URL
	GetPreviewLink(ctx context.Context, id, ownerID string) (*drive.PreviewLink, error)
}

// UploadFileRequest carries one uploaded file. Body must yield exactly Size bytes.
type UploadFileRequest struct {
	OwnerID  string
	FolderID *string
	Name     string
	Size     int64
	MimeType string
	Body     io.Reader
}
