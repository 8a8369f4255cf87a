package drive

import "fmt"

// ItemKind discriminates the Item variants
type ItemKind string

const (
	KindFolder ItemKind = "folder"
	KindFile   ItemKind = "file"
)

// ParseItemKind converts a wire value into an ItemKind
func ParseItemKind(s string) (ItemKind, error) {
	switch ItemKind(s) {
	case KindFolder, KindFile:
		return ItemKind(s), nil
	default:
		return "", fmt.Errorf("unknown item kind %q", s)
	}
}

// Item is either a Folder or a File. Exactly one of the pointers is set,
// matching Kind.
type Item struct {
	Kind   ItemKind `json:"type"`
	Folder *Folder  `json:"folder,omitempty"`
	File   *File    `json:"file,omitempty"`
}

// FolderItem wraps a folder
func FolderItem(f Folder) Item {
	return Item{Kind: KindFolder, Folder: &f}
}

// FileItem wraps a file
func FileItem(f File) Item {
	return Item{Kind: KindFile, File: &f}
}

func (i Item) ID() string {
	switch i.Kind {
	case KindFolder:
		return i.Folder.ID
	case KindFile:
		return i.File.ID
	}
	return ""
}

func (i Item) Name() string {
	switch i.Kind {
	case KindFolder:
		return i.Folder.Name
	case KindFile:
		return i.File.Name
	}
	return ""
}

func (i Item) IsStarred() bool {
	switch i.Kind {
	case KindFolder:
		return i.Folder.IsStarred
	case KindFile:
		return i.File.IsStarred
	}
	return false
}

// Ref returns the (kind, id) handle of the item
func (i Item) Ref() ItemRef {
	return ItemRef{Kind: i.Kind, ID: i.ID()}
}

// ItemRef identifies an item without carrying its data
type ItemRef struct {
	Kind ItemKind `json:"type"`
	ID   string   `json:"id"`
}

func (r ItemRef) String() string {
	return string(r.Kind) + ":" + r.ID
}
