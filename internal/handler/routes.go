package handler

import (
	"net/http"
)

// Register mounts every drive route on mux. Literal segments such as
// /files/starred take precedence over /files/{id}. /folders/breadcrumb/{id}
// and /folders/{id}/stats overlap as ServeMux patterns, so both go through
// FolderHandler.GetNested.
func Register(mux *http.ServeMux, files *FileHandler, folders *FolderHandler, views *ViewHandler) {
	mux.HandleFunc("GET /health", HealthCheck)
	mux.HandleFunc("GET /views/{view}/capabilities", views.GetCapabilities)

	// Files
	mux.HandleFunc("POST /files/upload", files.UploadFile)
	mux.HandleFunc("GET /files", files.ListFiles)
	mux.HandleFunc("GET /files/starred", files.ListStarred)
	mux.HandleFunc("GET /files/trash", files.ListTrash)
	mux.HandleFunc("GET /files/{id}", files.GetFile)
	mux.HandleFunc("GET /files/{id}/download", files.Download)
	mux.HandleFunc("GET /files/{id}/preview", files.Preview)
	mux.HandleFunc("DELETE /files/{id}", files.DeleteFile)
	mux.HandleFunc("DELETE /files/{id}/permanent", files.PermanentDeleteFile)
	mux.HandleFunc("PUT /files/{id}/rename", files.RenameFile)
	mux.HandleFunc("PUT /files/{id}/move", files.MoveFile)
	mux.HandleFunc("POST /files/{id}/copy", files.CopyFile)
	mux.HandleFunc("PUT /files/{id}/star", files.ToggleStar)
	mux.HandleFunc("PUT /files/{id}/restore", files.RestoreFile)

	// Folders
	mux.HandleFunc("POST /folders", folders.CreateFolder)
	mux.HandleFunc("GET /folders", folders.ListFolders)
	mux.HandleFunc("GET /folders/starred", folders.ListStarred)
	mux.HandleFunc("GET /folders/trash", folders.ListTrash)
	mux.HandleFunc("GET /folders/{id}", folders.GetFolder)
	mux.HandleFunc("GET /folders/{first}/{second}", folders.GetNested)
	mux.HandleFunc("DELETE /folders/{id}", folders.DeleteFolder)
	mux.HandleFunc("DELETE /folders/{id}/permanent", folders.PermanentDeleteFolder)
	mux.HandleFunc("PUT /folders/{id}/rename", folders.RenameFolder)
	mux.HandleFunc("PUT /folders/{id}/move", folders.MoveFolder)
	mux.HandleFunc("POST /folders/{id}/copy", folders.CopyFolder)
	mux.HandleFunc("PUT /folders/{id}/star", folders.ToggleStar)
	mux.HandleFunc("PUT /folders/{id}/restore", folders.RestoreFolder)
}
