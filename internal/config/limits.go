package config

const (
	// MaxNameLength is the maximum length for folder and file names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxNameLength = 255

	// DefaultPageSize is used when a listing request omits limit.
	DefaultPageSize = 20

	// MaxPageSize caps limit. The folder picker loads whole levels at once,
	// so this stays well above a normal page.
	MaxPageSize = 1000

	// MaxPage caps page. Pages past the data come back empty, and the cap keeps
	// (page-1)*limit far from integer overflow.
	MaxPage = 1 << 31

	// DefaultMaxUploadBytes is the per-file upload ceiling (5 GiB).
	DefaultMaxUploadBytes int64 = 5 << 30

	// ForbiddenNameChars may not appear anywhere in a folder or file name.
	ForbiddenNameChars = `<>:"/\|?*`
)
