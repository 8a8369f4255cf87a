package drive

import (
	"time"
)

type Folder struct {
	ID        string     `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	ParentID  *string    `json:"parentId" db:"parent_id"` // NULL = root level
	OwnerID   string     `json:"ownerId" db:"owner_id"`
	IsStarred bool       `json:"isStarred" db:"is_starred"`
	IsDeleted bool       `json:"isDeleted" db:"is_deleted"`
	DeletedAt *time.Time `json:"deletedAt" db:"deleted_at"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	Path      string     `json:"path,omitempty"` // Computed display path, not stored in DB
}

// MarkDeleted moves the folder to the trash. deletedAt is set iff isDeleted.
func (f *Folder) MarkDeleted(now time.Time) {
	f.IsDeleted = true
	f.DeletedAt = &now
	f.UpdatedAt = now
}

// ClearDeleted takes the folder out of the trash.
func (f *Folder) ClearDeleted(now time.Time) {
	f.IsDeleted = false
	f.DeletedAt = nil
	f.UpdatedAt = now
}
