package drive

import (
	"time"
)

type File struct {
	ID         string     `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	FolderID   *string    `json:"folderId" db:"folder_id"` // NULL = root level
	Size       int64      `json:"size" db:"size"`
	MimeType   string     `json:"mimeType" db:"mime_type"`
	OwnerID    string     `json:"ownerId" db:"owner_id"`
	IsStarred  bool       `json:"isStarred" db:"is_starred"`
	IsDeleted  bool       `json:"isDeleted" db:"is_deleted"`
	DeletedAt  *time.Time `json:"deletedAt" db:"deleted_at"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
	StorageKey string     `json:"-" db:"storage_key"` // Blob key in the object store
}

// MarkDeleted moves the file to the trash. deletedAt is set iff isDeleted.
func (f *File) MarkDeleted(now time.Time) {
	f.IsDeleted = true
	f.DeletedAt = &now
	f.UpdatedAt = now
}

// ClearDeleted takes the file out of the trash.
func (f *File) ClearDeleted(now time.Time) {
	f.IsDeleted = false
	f.DeletedAt = nil
	f.UpdatedAt = now
}
