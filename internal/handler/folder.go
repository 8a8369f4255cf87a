package handler

import (
	"log/slog"
	"net/http"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	driveSvc "drive/internal/domain/services/drive"
	"drive/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService  driveSvc.FolderService
	listingService driveSvc.ListingService
	logger         *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService driveSvc.FolderService, listingService driveSvc.ListingService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService:  folderService,
		listingService: listingService,
		logger:         logger,
	}
}

type createFolderBody struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
}

type moveFolderBody struct {
	ParentID httputil.OptionalString `json:"parentId"`
}

type copyBody struct {
	FolderID *string `json:"folderId"`
	ParentID *string `json:"parentId"`
	Name     string  `json:"name"`
}

// BreadcrumbResponse wraps a breadcrumb trail
type BreadcrumbResponse struct {
	Breadcrumb []models.BreadcrumbEntry `json:"breadcrumb"`
}

// CreateFolder creates a new folder
// POST /folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}

	var body createFolderBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, err)
		return
	}
	parentID, err := httputil.OptionalID(body.ParentID, "parentId")
	if err != nil {
		handleError(w, err)
		return
	}

	folder, err := h.folderService.CreateFolder(r.Context(), &driveSvc.CreateFolderRequest{
		OwnerID:  userID,
		Name:     body.Name,
		ParentID: parentID,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// ListFolders lists the live subfolders of parentId (root when absent)
// GET /folders?parentId&page&limit&search
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}

	parentID, err := httputil.QueryID(r, "parentId")
	if err != nil {
		handleError(w, err)
		return
	}
	opts, err := httputil.ParseListOptions(r)
	if err != nil {
		handleError(w, err)
		return
	}

	list, err := h.listingService.ListFolders(r.Context(), parentID, userID, opts)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, list)
}

// ListStarred lists starred folders across the hierarchy
// GET /folders/starred
func (h *FolderHandler) ListStarred(w http.ResponseWriter, r *http.Request) {
	h.listGlobal(w, r, h.listingService.ListStarredFolders)
}

// ListTrash lists the topmost deleted folders
// GET /folders/trash
func (h *FolderHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	h.listGlobal(w, r, h.listingService.ListTrashFolders)
}

func (h *FolderHandler) listGlobal(w http.ResponseWriter, r *http.Request, list listFunc[models.FolderList]) {
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

// GetFolder returns a folder with its live children
// GET /folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	contents, err := h.folderService.GetFolderContents(r.Context(), &id, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, contents)
}

// GetBreadcrumb returns the trail from root to the folder
// GET /folders/breadcrumb/{id}
func (h *FolderHandler) GetBreadcrumb(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	crumbs, err := h.listingService.GetBreadcrumb(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, BreadcrumbResponse{Breadcrumb: crumbs})
}

// GetStats aggregates the folder's live subtree
// GET /folders/{id}/stats
func (h *FolderHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	stats, err := h.listingService.GetFolderStats(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, stats)
}

// RenameFolder renames a folder
// PUT /folders/{id}/rename
func (h *FolderHandler) RenameFolder(w http.ResponseWriter, r *http.Request) {
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

	folder, err := h.folderService.RenameFolder(r.Context(), &driveSvc.RenameRequest{OwnerID: userID, ID: id, Name: body.Name})
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folder)
}

// MoveFolder reparents a folder. "parentId": null moves it to root.
// PUT /folders/{id}/move
func (h *FolderHandler) MoveFolder(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	var body moveFolderBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, err)
		return
	}
	if !body.ParentID.Present {
		handleError(w, &domain.ValidationError{Message: "parentId is required (null for root)"})
		return
	}
	targetID, err := httputil.OptionalID(body.ParentID.Normalized(), "parentId")
	if err != nil {
		handleError(w, err)
		return
	}

	folder, err := h.folderService.MoveFolder(r.Context(), &driveSvc.MoveRequest{OwnerID: userID, ID: id, TargetID: targetID})
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folder)
}

// CopyFolder deep-copies a folder
// POST /folders/{id}/copy
func (h *FolderHandler) CopyFolder(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	var body copyBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, err)
		return
	}
	target := body.ParentID
	if target == nil {
		target = body.FolderID
	}
	targetID, err := httputil.OptionalID(target, "parentId")
	if err != nil {
		handleError(w, err)
		return
	}

	folder, err := h.folderService.CopyFolder(r.Context(), &driveSvc.CopyRequest{
		OwnerID:  userID,
		ID:       id,
		TargetID: targetID,
		Name:     body.Name,
	})
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// ToggleStar flips the starred flag
// PUT /folders/{id}/star
func (h *FolderHandler) ToggleStar(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	folder, err := h.folderService.ToggleStarFolder(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder moves a folder to the trash
// DELETE /folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	if err := h.folderService.DeleteFolder(r.Context(), id, userID); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondNoContent(w)
}

// RestoreFolder takes a folder out of the trash
// PUT /folders/{id}/restore
func (h *FolderHandler) RestoreFolder(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	folder, err := h.folderService.RestoreFolder(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folder)
}

// PermanentDeleteFolder erases a trashed folder and its subtree
// DELETE /folders/{id}/permanent
func (h *FolderHandler) PermanentDeleteFolder(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	if err := h.folderService.PermanentDeleteFolder(r.Context(), id, userID); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondNoContent(w)
}

// GetNested dispatches GET /folders/breadcrumb/{id} and GET /folders/{id}/stats
func (h *FolderHandler) GetNested(w http.ResponseWriter, r *http.Request) {
	first, second := r.PathValue("first"), r.PathValue("second")
	switch {
	case first == "breadcrumb":
		r.SetPathValue("id", second)
		h.GetBreadcrumb(w, r)
	case second == "stats":
		r.SetPathValue("id", first)
		h.GetStats(w, r)
	default:
		handleError(w, &domain.NotFoundError{Message: "route not found"})
	}
}
