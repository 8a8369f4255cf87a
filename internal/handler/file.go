package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	driveSvc "drive/internal/domain/services/drive"
	"drive/internal/httputil"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file
const multipartMemory = 32 << 20

// FileHandler handles file HTTP requests
type FileHandler struct {
	fileService    driveSvc.FileService
	listingService driveSvc.ListingService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService driveSvc.FileService, listingService driveSvc.ListingService, maxUploadBytes int64, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService:    fileService,
		listingService: listingService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

type moveFileBody struct {
	FolderID httputil.OptionalString `json:"folderId"`
}

// UploadFile accepts one file as multipart field "file" with an optional "folderId"
// POST /files/upload
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, httputil.CodeValidation, "upload exceeds the size limit")
			return
		}
		handleError(w, &domain.ValidationError{Message: "failed to parse multipart form"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	content, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, &domain.ValidationError{Message: "multipart field \"file\" is required"})
		return
	}
	defer func() { _ = content.Close() }()

	folderID := r.FormValue("folderId")
	target, err := httputil.OptionalID(&folderID, "folderId")
	if err != nil {
		handleError(w, err)
		return
	}

	file, err := h.fileService.UploadFile(r.Context(), &driveSvc.UploadFileRequest{
		OwnerID:  userID,
		FolderID: target,
		Name:     header.Filename,
		Size:     header.Size,
		MimeType: header.Header.Get("Content-Type"),
		Body:     content,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, file)
}

// ListFiles lists the live files directly in folderId (root when absent)
// GET /files?folderId&page&limit&search
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}

	folderID, err := httputil.QueryID(r, "folderId")
	if err != nil {
		handleError(w, err)
		return
	}
	opts, err := httputil.ParseListOptions(r)
	if err != nil {
		handleError(w, err)
		return
	}

	list, err := h.listingService.ListFiles(r.Context(), folderID, userID, opts)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, list)
}

// ListStarred lists starred files across the hierarchy
// GET /files/starred
func (h *FileHandler) ListStarred(w http.ResponseWriter, r *http.Request) {
	h.listGlobal(w, r, h.listingService.ListStarredFiles)
}

// ListTrash lists deleted files outside deleted folders
// GET /files/trash
func (h *FileHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	h.listGlobal(w, r, h.listingService.ListTrashFiles)
}

func (h *FileHandler) listGlobal(w http.ResponseWriter, r *http.Request, list listFunc[models.FileList]) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	opts, err := httputil.ParseListOptions(r)
	if err != nil {
		handleError(w, err)
		return
	}

	result, err := list(r.Context(), userID, opts)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

// GetFile returns file metadata
// GET /files/{id}
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	file, err := h.fileService.GetFile(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, file)
}

// Download returns a short-lived attachment URL
// GET /files/{id}/download
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	link, err := h.fileService.GetDownloadLink(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, link)
}

// Preview returns a short-lived inline URL
// GET /files/{id}/preview
func (h *FileHandler) Preview(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	link, err := h.fileService.GetPreviewLink(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, link)
}

// RenameFile renames a file
// PUT /files/{id}/rename
func (h *FileHandler) RenameFile(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, err)
		return
	}

	file, err := h.fileService.RenameFile(r.Context(), &driveSvc.RenameRequest{OwnerID: userID, ID: id, Name: body.Name})
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, file)
}

// MoveFile moves a file. "folderId": null moves it to root.
// PUT /files/{id}/move
func (h *FileHandler) MoveFile(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	var body moveFileBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, err)
		return
	}
	if !body.FolderID.Present {
		handleError(w, &domain.ValidationError{Message: "folderId is required (null for root)"})
		return
	}
	targetID, err := httputil.OptionalID(body.FolderID.Normalized(), "folderId")
	if err != nil {
		handleError(w, err)
		return
	}

	file, err := h.fileService.MoveFile(r.Context(), &driveSvc.MoveRequest{OwnerID: userID, ID: id, TargetID: targetID})
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, file)
}

// CopyFile duplicates a file and its content
// POST /files/{id}/copy
func (h *FileHandler) CopyFile(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	var body copyBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, err)
		return
	}
	targetID, err := httputil.OptionalID(body.FolderID, "folderId")
	if err != nil {
		handleError(w, err)
		return
	}

	file, err := h.fileService.CopyFile(r.Context(), &driveSvc.CopyRequest{
		OwnerID:  userID,
		ID:       id,
		TargetID: targetID,
		Name:     body.Name,
	})
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, file)
}

// ToggleStar flips the starred flag
// PUT /files/{id}/star
func (h *FileHandler) ToggleStar(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	file, err := h.fileService.ToggleStarFile(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, file)
}

// DeleteFile moves a file to the trash
// DELETE /files/{id}
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	if err := h.fileService.DeleteFile(r.Context(), id, userID); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondNoContent(w)
}

// RestoreFile takes a file out of the trash
// PUT /files/{id}/restore
func (h *FileHandler) RestoreFile(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	file, err := h.fileService.RestoreFile(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, file)
}

// PermanentDeleteFile erases a trashed file
// DELETE /files/{id}/permanent
func (h *FileHandler) PermanentDeleteFile(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	if err := h.fileService.PermanentDeleteFile(r.Context(), id, userID); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondNoContent(w)
}
