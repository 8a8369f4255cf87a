package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"drive/internal/capabilities"
	"drive/internal/config"
	models "drive/internal/domain/models/drive"

	"golang.org/x/sync/errgroup"
)

// ViewData is everything one listing screen renders.
type ViewData struct {
	Folders    *models.FolderList
	Files      *models.FileList
	Breadcrumb []models.BreadcrumbEntry // folder view only; nil at root
}

// Items flattens folders then files into one slice
func (v *ViewData) Items() []models.Item {
	var items []models.Item
	if v.Folders != nil {
		for _, f := range v.Folders.Folders {
			items = append(items, models.FolderItem(f))
		}
	}
	if v.Files != nil {
		for _, f := range v.Files.Files {
			items = append(items, models.FileItem(f))
		}
	}
	return items
}

// LoadFolderView fetches the folders, files and breadcrumb of folderID concurrently.
// The first failure cancels the rest and fails the whole view.
func (c *Client) LoadFolderView(ctx context.Context, folderID *string, opts models.ListOptions) (*ViewData, error) {
	var data ViewData
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := c.ListFolders(ctx, folderID, opts)
		data.Folders = list
		return err
	})
	g.Go(func() error {
		list, err := c.ListFiles(ctx, folderID, opts)
		data.Files = list
		return err
	})
	if folderID != nil && *folderID != "" {
		g.Go(func() error {
			crumbs, err := c.GetBreadcrumb(ctx, *folderID)
			data.Breadcrumb = crumbs
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// LoadStarredView fetches starred folders and files concurrently, fail-fast.
func (c *Client) LoadStarredView(ctx context.Context, opts models.ListOptions) (*ViewData, error) {
	return c.loadGlobalView(ctx, opts, c.ListStarredFolders, c.ListStarredFiles)
}

// LoadTrashView fetches trashed folders and files concurrently, fail-fast.
func (c *Client) LoadTrashView(ctx context.Context, opts models.ListOptions) (*ViewData, error) {
	return c.loadGlobalView(ctx, opts, c.ListTrashFolders, c.ListTrashFiles)
}

func (c *Client) loadGlobalView(
	ctx context.Context,
	opts models.ListOptions,
	folders func(context.Context, models.ListOptions) (*models.FolderList, error),
	files func(context.Context, models.ListOptions) (*models.FileList, error),
) (*ViewData, error) {
	var data ViewData
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := folders(ctx, opts)
		data.Folders = list
		return err
	})
	g.Go(func() error {
		list, err := files(ctx, opts)
		data.Files = list
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// CheckFolderNameExists reports whether parentID already holds a folder
// named name, ignoring case. It is advisory: any error yields false.
func (c *Client) CheckFolderNameExists(ctx context.Context, name string, parentID *string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	list, err := c.ListFolders(ctx, parentID, models.ListOptions{Page: 1, Limit: config.MaxPageSize, Search: name})
	if err != nil {
		c.logger.Debug("folder name check failed", "name", name, "error", err)
		return false
	}
	for _, f := range list.Folders {
		if strings.EqualFold(f.Name, name) {
			return true
		}
	}
	return false
}

// GetCapabilities fetches the action set a view permits.
func (c *Client) GetCapabilities(ctx context.Context, view capabilities.View) (*capabilities.ViewCapabilities, error) {
	var caps capabilities.ViewCapabilities
	path := "/views/" + url.PathEscape(string(view)) + "/capabilities"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &caps); err != nil {
		return nil, err
	}
	return &caps, nil
}
