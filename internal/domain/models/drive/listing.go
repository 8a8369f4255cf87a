package drive

import "math"

// RootFolderName is the display name of the implicit root folder
const RootFolderName = "My Drive"

// ListOptions configures a paginated, searchable listing.
// Page is 1-indexed.
type ListOptions struct {
	Page   int
	Limit  int
	Search string
}

// Offset returns the row offset for the requested page.
// It saturates at math.MaxInt instead of overflowing.
func (o ListOptions) Offset() int {
	if o.Page < 1 || o.Limit < 1 {
		return 0
	}
	if o.Page-1 > math.MaxInt/o.Limit {
		return math.MaxInt
	}
	return (o.Page - 1) * o.Limit
}

// Page describes the position of a listing within the full result set
type Page struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPage computes page info for a result set of total rows
func NewPage(opts ListOptions, total int) Page {
	totalPages := 0
	if opts.Limit > 0 {
		totalPages = (total + opts.Limit - 1) / opts.Limit
	}
	return Page{
		Page:       opts.Page,
		Limit:      opts.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// FolderList is one page of folders
type FolderList struct {
	Folders    []Folder `json:"folders"`
	Pagination Page     `json:"pagination"`
}

// FileList is one page of files
type FileList struct {
	Files      []File `json:"files"`
	Pagination Page   `json:"pagination"`
}

// BreadcrumbEntry is one step of the path from root to a folder.
// The root entry has a nil ID.
type BreadcrumbEntry struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
	Path string  `json:"path"`
}

// FolderStats aggregates a folder's non-deleted subtree
type FolderStats struct {
	TotalItems   int   `json:"totalItems"`
	TotalFolders int   `json:"totalFolders"`
	TotalFiles   int   `json:"totalFiles"`
	TotalSize    int64 `json:"totalSize"`
}

// FolderContents is a folder with its direct, non-deleted children
type FolderContents struct {
	Folder  *Folder  `json:"folder"` // nil for root
	Folders []Folder `json:"folders"`
	Files   []File   `json:"files"`
}

// DownloadLink is a short-lived URL to fetch file content
type DownloadLink struct {
	DownloadURL string `json:"downloadUrl"`
	FileName    string `json:"fileName"`
}

// PreviewLink is a short-lived URL to render file content inline
type PreviewLink struct {
	PreviewURL string `json:"previewUrl"`
	MimeType   string `json:"mimeType"`
}
