// Package view drives one listing screen (drive, starred or trash) on top of
// the API client: it owns the screen state, gates actions on the view's
// capabilities and re-fetches after every mutation.
package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"drive/internal/capabilities"
	"drive/internal/client"
	"drive/internal/config"
	models "drive/internal/domain/models/drive"
)

// ErrNotPermitted is returned for actions the current view does not offer.
// No request is sent.
var ErrNotPermitted = errors.New("action not permitted in this view")

// API is the subset of *client.Client the controller uses.
type API interface {
	LoadFolderView(ctx context.Context, folderID *string, opts models.ListOptions) (*client.ViewData, error)
	LoadStarredView(ctx context.Context, opts models.ListOptions) (*client.ViewData, error)
	LoadTrashView(ctx context.Context, opts models.ListOptions) (*client.ViewData, error)
	GetCapabilities(ctx context.Context, view capabilities.View) (*capabilities.ViewCapabilities, error)
	GetDownloadLink(ctx context.Context, id string) (*models.DownloadLink, error)
	CreateFolder(ctx context.Context, name string, parentID *string) (*models.Folder, error)
	UploadFiles(ctx context.Context, srcs []client.UploadSource, folderID *string, onProgress func(index, pct int)) client.BatchResult[*models.File]
	RenameItem(ctx context.Context, ref models.ItemRef, name string) error
	MoveItem(ctx context.Context, ref models.ItemRef, targetID *string) error
	CopyItem(ctx context.Context, ref models.ItemRef, targetID *string, name string) error
	ToggleStarItem(ctx context.Context, ref models.ItemRef) error
	DeleteItem(ctx context.Context, ref models.ItemRef) error
	PermanentDeleteItem(ctx context.Context, ref models.ItemRef) error
	RestoreItems(ctx context.Context, refs []models.ItemRef) client.BatchResult[models.ItemRef]
}

// Controller holds the state of one view.
type Controller struct {
	api    API
	caps   capabilities.ViewCapabilities
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// New fetches the view's capabilities and returns a controller in its
// initial, unloaded state.
func New(ctx context.Context, api API, v capabilities.View, logger *slog.Logger) (*Controller, error) {
	caps, err := api.GetCapabilities(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("load %s capabilities: %w", v, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		api:    api,
		caps:   *caps,
		logger: logger,
		state:  NewState(v, config.DefaultPageSize),
	}, nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Capabilities() capabilities.ViewCapabilities {
	return c.caps
}

// Update applies a pure transition, e.g. c.Update(func(s State) State { return s.Select(ref) }).
func (c *Controller) Update(fn func(State) State) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = fn(c.state)
	return c.state
}

// Navigate opens a folder and loads it.
func (c *Controller) Navigate(ctx context.Context, folderID *string) (State, error) {
	c.Update(func(s State) State { return s.Navigate(folderID) })
	return c.Refresh(ctx)
}

// Search filters the view and reloads it.
func (c *Controller) Search(ctx context.Context, search string) (State, error) {
	c.Update(func(s State) State { return s.SetSearch(search) })
	return c.Refresh(ctx)
}

// GoToPage changes page and reloads.
func (c *Controller) GoToPage(ctx context.Context, page int) (State, error) {
	c.Update(func(s State) State { return s.SetPage(page) })
	return c.Refresh(ctx)
}

// Refresh re-fetches the view. Any failed request fails the whole view.
func (c *Controller) Refresh(ctx context.Context) (State, error) {
	snapshot := c.State()
	opts := models.ListOptions{Page: snapshot.Page, Limit: snapshot.Limit, Search: snapshot.Search}

	var (
		data *client.ViewData
		err  error
	)
	switch snapshot.View {
	case capabilities.ViewStarred:
		data, err = c.api.LoadStarredView(ctx, opts)
	case capabilities.ViewTrash:
		data, err = c.api.LoadTrashView(ctx, opts)
	default:
		data, err = c.api.LoadFolderView(ctx, snapshot.Folder, opts)
	}

	if err != nil {
		c.logger.Warn("view load failed", "view", snapshot.View, "error", err)
		return c.Update(func(s State) State { return s.withError(err) }), err
	}

	var folderPage, filePage models.Page
	if data.Folders != nil {
		folderPage = data.Folders.Pagination
	}
	if data.Files != nil {
		filePage = data.Files.Pagination
	}
	return c.Update(func(s State) State {
		return s.withData(data.Items(), data.Breadcrumb, folderPage, filePage)
	}), nil
}

func (c *Controller) allow(action capabilities.Action) error {
	if !c.caps.Allows(action) {
		return fmt.Errorf("%s: %w", action, ErrNotPermitted)
	}
	return nil
}

// mutate runs fn when action is allowed, closes the menu and reloads.
// The reload happens even when fn fails, since part of a batch may have applied.
func (c *Controller) mutate(ctx context.Context, action capabilities.Action, fn func() error) error {
	if err := c.allow(action); err != nil {
		return err
	}
	opErr := fn()
	c.Update(func(s State) State { return s.CloseMenu() })
	if _, err := c.Refresh(ctx); err != nil && opErr == nil {
		return err
	}
	return opErr
}

// destination is where new items land: the open folder in the drive view,
// the root everywhere else.
func (c *Controller) destination() *string {
	s := c.State()
	if s.View != capabilities.ViewDrive {
		return nil
	}
	return s.Folder
}

// CreateFolder creates name in the destination folder and reloads.
func (c *Controller) CreateFolder(ctx context.Context, name string) (*models.Folder, error) {
	var folder *models.Folder
	err := c.mutate(ctx, capabilities.ActionCreateFolder, func() error {
		var err error
		folder, err = c.api.CreateFolder(ctx, name, c.destination())
		return err
	})
	return folder, err
}

// Upload sends srcs concurrently into the destination folder and reloads once
// every upload has settled. Per-file failures are in the result; the error is
// non-nil only when the view refuses uploads or the reload fails.
func (c *Controller) Upload(ctx context.Context, srcs []client.UploadSource, onProgress func(index, pct int)) (client.BatchResult[*models.File], error) {
	var result client.BatchResult[*models.File]
	err := c.mutate(ctx, capabilities.ActionUpload, func() error {
		result = c.api.UploadFiles(ctx, srcs, c.destination(), onProgress)
		return nil
	})
	return result, err
}

func (c *Controller) Rename(ctx context.Context, ref models.ItemRef, name string) error {
	return c.mutate(ctx, capabilities.ActionRename, func() error {
		return c.api.RenameItem(ctx, ref, name)
	})
}

// Move moves every ref into targetID (nil for root).
func (c *Controller) Move(ctx context.Context, refs []models.ItemRef, targetID *string) error {
	return c.mutate(ctx, capabilities.ActionMove, func() error {
		return eachRef(refs, func(ref models.ItemRef) error { return c.api.MoveItem(ctx, ref, targetID) })
	})
}

func (c *Controller) Copy(ctx context.Context, ref models.ItemRef, targetID *string, name string) error {
	return c.mutate(ctx, capabilities.ActionCopy, func() error {
		return c.api.CopyItem(ctx, ref, targetID, name)
	})
}

func (c *Controller) ToggleStar(ctx context.Context, ref models.ItemRef) error {
	return c.mutate(ctx, capabilities.ActionStar, func() error {
		return c.api.ToggleStarItem(ctx, ref)
	})
}

// Delete moves every ref to the trash.
func (c *Controller) Delete(ctx context.Context, refs []models.ItemRef) error {
	return c.mutate(ctx, capabilities.ActionDelete, func() error {
		return eachRef(refs, func(ref models.ItemRef) error { return c.api.DeleteItem(ctx, ref) })
	})
}

func (c *Controller) PermanentDelete(ctx context.Context, refs []models.ItemRef) error {
	return c.mutate(ctx, capabilities.ActionPermanentDelete, func() error {
		return eachRef(refs, func(ref models.ItemRef) error { return c.api.PermanentDeleteItem(ctx, ref) })
	})
}

// Restore restores refs concurrently. The result reports per-item outcomes;
// the error is non-nil only when the view refuses the action or the reload fails.
func (c *Controller) Restore(ctx context.Context, refs []models.ItemRef) (client.BatchResult[models.ItemRef], error) {
	var result client.BatchResult[models.ItemRef]
	err := c.mutate(ctx, capabilities.ActionRestore, func() error {
		result = c.api.RestoreItems(ctx, refs)
		return nil
	})
	return result, err
}

// Download returns the download link of a file.
func (c *Controller) Download(ctx context.Context, ref models.ItemRef) (*models.DownloadLink, error) {
	if err := c.allow(capabilities.ActionDownload); err != nil {
		return nil, err
	}
	if ref.Kind != models.KindFile {
		return nil, fmt.Errorf("download %s: only files can be downloaded", ref)
	}
	return c.api.GetDownloadLink(ctx, ref.ID)
}

// eachRef applies fn to every ref and joins the failures.
func eachRef(refs []models.ItemRef, fn func(models.ItemRef) error) error {
	var errs []error
	for _, ref := range refs {
		if err := fn(ref); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ref, err))
		}
	}
	return errors.Join(errs...)
}
