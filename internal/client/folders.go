package client

import (
	"context"
	"net/http"
	"net/url"

	models "drive/internal/domain/models/drive"
)

// CreateFolder creates a folder under parentID (nil for root).
func (c *Client) CreateFolder(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	body := map[string]interface{}{"name": name, "parentId": parentID}
	var folder models.Folder
	if err := c.do(ctx, http.MethodPost, "/folders", nil, body, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// ListFolders lists the subfolders of parentID (nil for root).
func (c *Client) ListFolders(ctx context.Context, parentID *string, opts models.ListOptions) (*models.FolderList, error) {
	var list models.FolderList
	q := withFolder(listQuery(opts), "parentId", parentID)
	if err := c.do(ctx, http.MethodGet, "/folders", q, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) ListStarredFolders(ctx context.Context, opts models.ListOptions) (*models.FolderList, error) {
	var list models.FolderList
	if err := c.do(ctx, http.MethodGet, "/folders/starred", listQuery(opts), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) ListTrashFolders(ctx context.Context, opts models.ListOptions) (*models.FolderList, error) {
	var list models.FolderList
	if err := c.do(ctx, http.MethodGet, "/folders/trash", listQuery(opts), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetFolderContents returns a folder with its direct children.
func (c *Client) GetFolderContents(ctx context.Context, id string) (*models.FolderContents, error) {
	var contents models.FolderContents
	if err := c.do(ctx, http.MethodGet, "/folders/"+url.PathEscape(id), nil, nil, &contents); err != nil {
		return nil, err
	}
	return &contents, nil
}

// GetBreadcrumb returns the trail from the drive root to id.
func (c *Client) GetBreadcrumb(ctx context.Context, id string) ([]models.BreadcrumbEntry, error) {
	var resp struct {
		Breadcrumb []models.BreadcrumbEntry `json:"breadcrumb"`
	}
	if err := c.do(ctx, http.MethodGet, "/folders/breadcrumb/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Breadcrumb, nil
}

func (c *Client) GetFolderStats(ctx context.Context, id string) (*models.FolderStats, error) {
	var stats models.FolderStats
	if err := c.do(ctx, http.MethodGet, "/folders/"+url.PathEscape(id)+"/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) RenameFolder(ctx context.Context, id, name string) (*models.Folder, error) {
	return c.folderMutation(ctx, http.MethodPut, id, "/rename", map[string]string{"name": name})
}

// MoveFolder reparents a folder. A nil parentID moves it to root.
func (c *Client) MoveFolder(ctx context.Context, id string, parentID *string) (*models.Folder, error) {
	return c.folderMutation(ctx, http.MethodPut, id, "/move", map[string]interface{}{"parentId": parentID})
}

// CopyFolder deep-copies a folder under parentID. An empty name keeps the source name.
func (c *Client) CopyFolder(ctx context.Context, id string, parentID *string, name string) (*models.Folder, error) {
	return c.folderMutation(ctx, http.MethodPost, id, "/copy", copyBody{ParentID: parentID, Name: name})
}

func (c *Client) ToggleStarFolder(ctx context.Context, id string) (*models.Folder, error) {
	return c.folderMutation(ctx, http.MethodPut, id, "/star", nil)
}

func (c *Client) RestoreFolder(ctx context.Context, id string) (*models.Folder, error) {
	return c.folderMutation(ctx, http.MethodPut, id, "/restore", nil)
}

// DeleteFolder moves a folder to the trash.
func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/folders/"+url.PathEscape(id), nil, nil, nil)
}

// PermanentDeleteFolder erases a trashed folder and everything under it.
func (c *Client) PermanentDeleteFolder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/folders/"+url.PathEscape(id)+"/permanent", nil, nil, nil)
}

func (c *Client) folderMutation(ctx context.Context, method, id, suffix string, body interface{}) (*models.Folder, error) {
	var folder models.Folder
	if err := c.do(ctx, method, "/folders/"+url.PathEscape(id)+suffix, nil, body, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

type copyBody struct {
	ParentID *string `json:"parentId,omitempty"`
	FolderID *string `json:"folderId,omitempty"`
	Name     string  `json:"name,omitempty"`
}
