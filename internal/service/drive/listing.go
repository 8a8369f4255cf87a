package drive

import (
	"context"
	"log/slog"

	"drive/internal/config"
	models "drive/internal/domain/models/drive"
	driveRepo "drive/internal/domain/repositories/drive"
	driveSvc "drive/internal/domain/services/drive"
)

type listingService struct {
	folderRepo driveRepo.FolderRepository
	fileRepo   driveRepo.FileRepository
	resolver   *ResourceResolver
	logger     *slog.Logger
}

// NewListingService creates a new listing service
func NewListingService(
	folderRepo driveRepo.FolderRepository,
	fileRepo driveRepo.FileRepository,
	resolver *ResourceResolver,
	logger *slog.Logger,
) driveSvc.ListingService {
	return &listingService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		resolver:   resolver,
		logger:     logger,
	}
}

// NormalizeListOptions applies the paging defaults: page 1, DefaultPageSize rows,
// at most MaxPageSize rows and at most MaxPage.
func NormalizeListOptions(opts models.ListOptions) models.ListOptions {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Page > config.MaxPage {
		opts.Page = config.MaxPage
	}
	if opts.Limit < 1 {
		opts.Limit = config.DefaultPageSize
	}
	if opts.Limit > config.MaxPageSize {
		opts.Limit = config.MaxPageSize
	}
	return opts
}

// scopePath validates a listing scope and returns its display path. nil is root.
func (s *listingService) scopePath(ctx context.Context, folderID *string, ownerID string) (string, error) {
	if folderID == nil {
		return "", nil
	}
	folder, _, err := s.resolver.LiveFolder(ctx, *folderID, ownerID)
	if err != nil {
		return "", err
	}
	return folder.Path, nil
}

func (s *listingService) ListFolders(ctx context.Context, parentID *string, ownerID string, opts models.ListOptions) (*models.FolderList, error) {
	opts = NormalizeListOptions(opts)
	prefix, err := s.scopePath(ctx, parentID, ownerID)
	if err != nil {
		return nil, err
	}

	folders, total, err := s.folderRepo.ListChildren(ctx, parentID, ownerID, opts)
	if err != nil {
		return nil, err
	}
	for i := range folders {
		folders[i].Path = joinPath(prefix, folders[i].Name)
	}
	return &models.FolderList{Folders: folders, Pagination: models.NewPage(opts, total)}, nil
}

func (s *listingService) ListFiles(ctx context.Context, folderID *string, ownerID string, opts models.ListOptions) (*models.FileList, error) {
	opts = NormalizeListOptions(opts)
	if _, err := s.scopePath(ctx, folderID, ownerID); err != nil {
		return nil, err
	}

	files, total, err := s.fileRepo.ListByFolder(ctx, folderID, ownerID, opts)
	if err != nil {
		return nil, err
	}
	return &models.FileList{Files: files, Pagination: models.NewPage(opts, total)}, nil
}

func (s *listingService) ListStarredFolders(ctx context.Context, ownerID string, opts models.ListOptions) (*models.FolderList, error) {
	opts = NormalizeListOptions(opts)
	folders, total, err := s.folderRepo.ListStarred(ctx, ownerID, opts)
	if err != nil {
		return nil, err
	}
	s.fillPaths(ctx, folders, ownerID)
	return &models.FolderList{Folders: folders, Pagination: models.NewPage(opts, total)}, nil
}

func (s *listingService) ListStarredFiles(ctx context.Context, ownerID string, opts models.ListOptions) (*models.FileList, error) {
	opts = NormalizeListOptions(opts)
	files, total, err := s.fileRepo.ListStarred(ctx, ownerID, opts)
	if err != nil {
		return nil, err
	}
	return &models.FileList{Files: files, Pagination: models.NewPage(opts, total)}, nil
}

func (s *listingService) ListTrashFolders(ctx context.Context, ownerID string, opts models.ListOptions) (*models.FolderList, error) {
	opts = NormalizeListOptions(opts)
	folders, total, err := s.folderRepo.ListTrash(ctx, ownerID, opts)
	if err != nil {
		return nil, err
	}
	s.fillPaths(ctx, folders, ownerID)
	return &models.FolderList{Folders: folders, Pagination: models.NewPage(opts, total)}, nil
}

func (s *listingService) ListTrashFiles(ctx context.Context, ownerID string, opts models.ListOptions) (*models.FileList, error) {
	opts = NormalizeListOptions(opts)
	files, total, err := s.fileRepo.ListTrash(ctx, ownerID, opts)
	if err != nil {
		return nil, err
	}
	return &models.FileList{Files: files, Pagination: models.NewPage(opts, total)}, nil
}

// fillPaths computes display paths for folders gathered from across the hierarchy
func (s *listingService) fillPaths(ctx context.Context, folders []models.Folder, ownerID string) {
	for i := range folders {
		chain, err := s.folderRepo.GetAncestors(ctx, folders[i].ID, ownerID)
		if err != nil {
			s.logger.Warn("failed to compute path", "folder_id", folders[i].ID, "error", err)
			folders[i].Path = folders[i].Name
			continue
		}
		folders[i].Path = chainPath(chain)
	}
}

// GetBreadcrumb builds the navigation trail from the live parent chain
func (s *listingService) GetBreadcrumb(ctx context.Context, folderID, ownerID string) ([]models.BreadcrumbEntry, error) {
	_, chain, err := s.resolver.LiveFolder(ctx, folderID, ownerID)
	if err != nil {
		return nil, err
	}

	crumbs := make([]models.BreadcrumbEntry, 0, len(chain)+1)
	crumbs = append(crumbs, models.BreadcrumbEntry{Name: models.RootFolderName, Path: ""})
	for i := range chain {
		id := chain[i].ID
		crumbs = append(crumbs, models.BreadcrumbEntry{
			ID:   &id,
			Name: chain[i].Name,
			Path: chainPath(chain[:i+1]),
		})
	}
	return crumbs, nil
}

// GetFolderStats aggregates the folder's non-deleted subtree
func (s *listingService) GetFolderStats(ctx context.Context, folderID, ownerID string) (*models.FolderStats, error) {
	if _, _, err := s.resolver.LiveFolder(ctx, folderID, ownerID); err != nil {
		return nil, err
	}
	return s.folderRepo.GetStats(ctx, folderID, ownerID)
}
