package capabilities

import "fmt"

// View names a listing surface of the drive UI
type View string

const (
	ViewDrive   View = "drive"
	ViewStarred View = "starred"
	ViewTrash   View = "trash"
)

// ParseView converts a path value into a View
func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewDrive, ViewStarred, ViewTrash:
		return View(s), nil
	default:
		return "", fmt.Errorf("unknown view %q", s)
	}
}

// Action is an item operation that a view may offer
type Action string

const (
	ActionDownload        Action = "download"
	ActionMove            Action = "move"
	ActionCopy            Action = "copy"
	ActionRename          Action = "rename"
	ActionStar            Action = "star"
	ActionDelete          Action = "delete"
	ActionRestore         Action = "restore"
	ActionPermanentDelete Action = "permanentDelete"
	ActionCreateFolder    Action = "createFolder"
	ActionUpload          Action = "upload"
)

// ViewCapabilities is the set of actions a view permits
type ViewCapabilities struct {
	CanDownload        bool `yaml:"can_download" json:"canDownload"`
	CanMove            bool `yaml:"can_move" json:"canMove"`
	CanCopy            bool `yaml:"can_copy" json:"canCopy"`
	CanRename          bool `yaml:"can_rename" json:"canRename"`
	CanStar            bool `yaml:"can_star" json:"canStar"`
	CanDelete          bool `yaml:"can_delete" json:"canDelete"`
	CanRestore         bool `yaml:"can_restore" json:"canRestore"`
	CanPermanentDelete bool `yaml:"can_permanent_delete" json:"canPermanentDelete"`
	CanCreateFolder    bool `yaml:"can_create_folder" json:"canCreateFolder"`
	CanUpload          bool `yaml:"can_upload" json:"canUpload"`
}

// Allows reports whether the action is permitted
func (c ViewCapabilities) Allows(action Action) bool {
	switch action {
	case ActionDownload:
		return c.CanDownload
	case ActionMove:
		return c.CanMove
	case ActionCopy:
		return c.CanCopy
	case ActionRename:
		return c.CanRename
	case ActionStar:
		return c.CanStar
	case ActionDelete:
		return c.CanDelete
	case ActionRestore:
		return c.CanRestore
	case ActionPermanentDelete:
		return c.CanPermanentDelete
	case ActionCreateFolder:
		return c.CanCreateFolder
	case ActionUpload:
		return c.CanUpload
	}
	return false
}
