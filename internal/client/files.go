package client

import (
	"context"
	"net/http"
	"net/url"

	models "drive/internal/domain/models/drive"
)

// ListFiles lists the files directly in folderID (nil for root).
func (c *Client) ListFiles(ctx context.Context, folderID *string, opts models.ListOptions) (*models.FileList, error) {
	var list models.FileList
	q := withFolder(listQuery(opts), "folderId", folderID)
	if err := c.do(ctx, http.MethodGet, "/files", q, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) ListStarredFiles(ctx context.Context, opts models.ListOptions) (*models.FileList, error) {
	var list models.FileList
	if err := c.do(ctx, http.MethodGet, "/files/starred", listQuery(opts), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) ListTrashFiles(ctx context.Context, opts models.ListOptions) (*models.FileList, error) {
	var list models.FileList
	if err := c.do(ctx, http.MethodGet, "/files/trash", listQuery(opts), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetFile(ctx context.Context, id string) (*models.File, error) {
	var file models.File
	if err := c.do(ctx, http.MethodGet, "/files/"+url.PathEscape(id), nil, nil, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// GetDownloadLink returns a short-lived URL serving the file as an attachment.
func (c *Client) GetDownloadLink(ctx context.Context, id string) (*models.DownloadLink, error) {
	var link models.DownloadLink
	if err := c.do(ctx, http.MethodGet, "/files/"+url.PathEscape(id)+"/download", nil, nil, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// GetPreviewLink returns a short-lived URL serving the file inline.
func (c *Client) GetPreviewLink(ctx context.Context, id string) (*models.PreviewLink, error) {
	var link models.PreviewLink
	if err := c.do(ctx, http.MethodGet, "/files/"+url.PathEscape(id)+"/preview", nil, nil, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (c *Client) RenameFile(ctx context.Context, id, name string) (*models.File, error) {
	return c.fileMutation(ctx, http.MethodPut, id, "/rename", map[string]string{"name": name})
}

// MoveFile moves a file into folderID. A nil folderID moves it to root.
func (c *Client) MoveFile(ctx context.Context, id string, folderID *string) (*models.File, error) {
	return c.fileMutation(ctx, http.MethodPut, id, "/move", map[string]interface{}{"folderId": folderID})
}

// CopyFile duplicates a file into folderID. An empty name keeps the source name.
func (c *Client) CopyFile(ctx context.Context, id string, folderID *string, name string) (*models.File, error) {
	return c.fileMutation(ctx, http.MethodPost, id, "/copy", copyBody{FolderID: folderID, Name: name})
}

func (c *Client) ToggleStarFile(ctx context.Context, id string) (*models.File, error) {
	return c.fileMutation(ctx, http.MethodPut, id, "/star", nil)
}

func (c *Client) RestoreFile(ctx context.Context, id string) (*models.File, error) {
	return c.fileMutation(ctx, http.MethodPut, id, "/restore", nil)
}

// DeleteFile moves a file to the trash.
func (c *Client) DeleteFile(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/files/"+url.PathEscape(id), nil, nil, nil)
}

// PermanentDeleteFile erases a trashed file and its content.
func (c *Client) PermanentDeleteFile(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/files/"+url.PathEscape(id)+"/permanent", nil, nil, nil)
}

func (c *Client) fileMutation(ctx context.Context, method, id, suffix string, body interface{}) (*models.File, error) {
	var file models.File
	if err := c.do(ctx, method, "/files/"+url.PathEscape(id)+suffix, nil, body, &file); err != nil {
		return nil, err
	}
	return &file, nil
}
