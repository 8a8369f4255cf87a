package drive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"drive/internal/config"
	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	"drive/internal/domain/repositories"
	driveRepo "drive/internal/domain/repositories/drive"
	driveSvc "drive/internal/domain/services/drive"
	"drive/internal/metrics"
	"drive/internal/storage"

	"github.com/google/uuid"
)

type folderService struct {
	folderRepo driveRepo.FolderRepository
	fileRepo   driveRepo.FileRepository
	blobs      storage.BlobStore
	txManager  repositories.TransactionManager
	resolver   *ResourceResolver
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo driveRepo.FolderRepository,
	fileRepo driveRepo.FileRepository,
	blobs storage.BlobStore,
	txManager repositories.TransactionManager,
	resolver *ResourceResolver,
	logger *slog.Logger,
) driveSvc.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		blobs:      blobs,
		txManager:  txManager,
		resolver:   resolver,
		logger:     logger,
	}
}

// CreateFolder creates a new folder
func (s *folderService) CreateFolder(ctx context.Context, req *driveSvc.CreateFolderRequest) (folder *models.Folder, err error) {
	defer func() { metrics.RecordMutation("create", string(models.KindFolder), err) }()

	name, err := ValidateName(req.Name)
	if err != nil {
		return nil, err
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		parentChain, err := s.resolver.LiveTarget(ctx, req.ParentID, req.OwnerID)
		if err != nil {
			return err
		}

		now := time.Now()
		folder = &models.Folder{
			Name:      name,
			ParentID:  req.ParentID,
			OwnerID:   req.OwnerID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.folderRepo.Create(ctx, folder); err != nil {
			return err
		}
		folder.Path = joinPath(chainPath(parentChain), folder.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
		"owner_id", folder.OwnerID,
	)
	return folder, nil
}

// GetFolder retrieves a live folder with its computed path
func (s *folderService) GetFolder(ctx context.Context, id, ownerID string) (*models.Folder, error) {
	folder, _, err := s.resolver.LiveFolder(ctx, id, ownerID)
	return folder, err
}

// GetFolderContents returns every non-deleted direct child of a folder (nil = root)
func (s *folderService) GetFolderContents(ctx context.Context, id *string, ownerID string) (*models.FolderContents, error) {
	contents := &models.FolderContents{}
	prefix := ""
	if id != nil {
		folder, _, err := s.resolver.LiveFolder(ctx, *id, ownerID)
		if err != nil {
			return nil, err
		}
		contents.Folder = folder
		prefix = folder.Path
	}

	folders, err := collectPages(func(opts models.ListOptions) ([]models.Folder, int, error) {
		return s.folderRepo.ListChildren(ctx, id, ownerID, opts)
	})
	if err != nil {
		return nil, fmt.Errorf("list child folders: %w", err)
	}
	for i := range folders {
		folders[i].Path = joinPath(prefix, folders[i].Name)
	}

	files, err := collectPages(func(opts models.ListOptions) ([]models.File, int, error) {
		return s.fileRepo.ListByFolder(ctx, id, ownerID, opts)
	})
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	contents.Folders = folders
	contents.Files = files
	return contents, nil
}

// RenameFolder changes a folder's name
func (s *folderService) RenameFolder(ctx context.Context, req *driveSvc.RenameRequest) (folder *models.Folder, err error) {
	defer func() { metrics.RecordMutation("rename", string(models.KindFolder), err) }()

	name, err := ValidateName(req.Name)
	if err != nil {
		return nil, err
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		var chain []models.Folder
		folder, chain, err = s.resolver.LiveFolder(ctx, req.ID, req.OwnerID)
		if err != nil {
			return err
		}

		folder.Name = name
		folder.UpdatedAt = time.Now()
		if err := s.folderRepo.Update(ctx, folder); err != nil {
			return err
		}
		folder.Path = joinPath(chainPath(chain[:len(chain)-1]), name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder renamed", "id", folder.ID, "name", folder.Name)
	return folder, nil
}

// checkNotCyclic fails when targetChain (root first, ending at the target) contains folderID
func checkNotCyclic(folderID string, targetID *string, targetChain []models.Folder) error {
	if targetID == nil {
		return nil
	}
	for _, ancestor := range targetChain {
		if ancestor.ID == folderID {
			return &domain.CyclicMoveError{FolderID: folderID, TargetID: *targetID}
		}
	}
	return nil
}

// MoveFolder reparents a folder. Descendants move with it.
func (s *folderService) MoveFolder(ctx context.Context, req *driveSvc.MoveRequest) (folder *models.Folder, err error) {
	defer func() { metrics.RecordMutation("move", string(models.KindFolder), err) }()

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		folder, _, err = s.resolver.LiveFolder(ctx, req.ID, req.OwnerID)
		if err != nil {
			return err
		}

		targetChain, err := s.resolver.LiveTarget(ctx, req.TargetID, req.OwnerID)
		if err != nil {
			return err
		}
		if err := checkNotCyclic(folder.ID, req.TargetID, targetChain); err != nil {
			return err
		}

		folder.ParentID = req.TargetID
		folder.UpdatedAt = time.Now()
		if err := s.folderRepo.Update(ctx, folder); err != nil {
			return err
		}
		folder.Path = joinPath(chainPath(targetChain), folder.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder moved", "id", folder.ID, "parent_id", folder.ParentID)
	return folder, nil
}

// CopyFolder duplicates the folder and every non-deleted descendant under the target
func (s *folderService) CopyFolder(ctx context.Context, req *driveSvc.CopyRequest) (root *models.Folder, err error) {
	defer func() { metrics.RecordMutation("copy", string(models.KindFolder), err) }()

	var copiedKeys []string
	var copiedFolders, copiedFiles int

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		source, _, err := s.resolver.LiveFolder(ctx, req.ID, req.OwnerID)
		if err != nil {
			return err
		}

		name := source.Name
		if req.Name != "" {
			if name, err = ValidateName(req.Name); err != nil {
				return err
			}
		}

		targetChain, err := s.resolver.LiveTarget(ctx, req.TargetID, req.OwnerID)
		if err != nil {
			return err
		}
		if err := checkNotCyclic(source.ID, req.TargetID, targetChain); err != nil {
			return err
		}

		now := time.Now()
		root = &models.Folder{
			Name:      name,
			ParentID:  req.TargetID,
			OwnerID:   req.OwnerID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.folderRepo.Create(ctx, root); err != nil {
			return err
		}
		root.Path = joinPath(chainPath(targetChain), root.Name)

		// Breadth-first over (source, copy) pairs. Deleted folders are skipped
		// along with everything beneath them.
		type pair struct{ src, dst string }
		queue := []pair{{src: source.ID, dst: root.ID}}
		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]

			files, err := s.fileRepo.ListInFolders(ctx, []string{p.src}, req.OwnerID)
			if err != nil {
				return fmt.Errorf("list files to copy: %w", err)
			}
			for _, f := range files {
				if f.IsDeleted {
					continue
				}
				dstFolder := p.dst
				key, err := s.copyBlob(ctx, f, req.OwnerID)
				if err != nil {
					return err
				}
				copiedKeys = append(copiedKeys, key)
				if err := s.fileRepo.Create(ctx, &models.File{
					Name:       f.Name,
					FolderID:   &dstFolder,
					Size:       f.Size,
					MimeType:   f.MimeType,
					OwnerID:    req.OwnerID,
					StorageKey: key,
					CreatedAt:  now,
					UpdatedAt:  now,
				}); err != nil {
					return err
				}
				copiedFiles++
			}

			children, err := s.folderRepo.ListAllChildren(ctx, p.src, req.OwnerID)
			if err != nil {
				return fmt.Errorf("list folders to copy: %w", err)
			}
			for _, child := range children {
				if child.IsDeleted {
					continue
				}
				parent := p.dst
				dup := &models.Folder{
					Name:      child.Name,
					ParentID:  &parent,
					OwnerID:   req.OwnerID,
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := s.folderRepo.Create(ctx, dup); err != nil {
					return err
				}
				copiedFolders++
				queue = append(queue, pair{src: child.ID, dst: dup.ID})
			}
		}
		return nil
	})
	if err != nil {
		s.purgeBlobs(context.WithoutCancel(ctx), copiedKeys)
		return nil, err
	}

	s.logger.Info("folder copied",
		"source_id", req.ID,
		"id", root.ID,
		"parent_id", root.ParentID,
		"folders", copiedFolders,
		"files", copiedFiles,
	)
	return root, nil
}

func (s *folderService) copyBlob(ctx context.Context, f models.File, ownerID string) (string, error) {
	key := storage.ObjectKey(ownerID, uuid.NewString())
	if err := s.blobs.Copy(ctx, f.StorageKey, key); err != nil {
		return "", fmt.Errorf("copy content of %s: %w", f.ID, err)
	}
	return key, nil
}

// DeleteFolder moves a folder to the trash. Descendants are hidden through it.
func (s *folderService) DeleteFolder(ctx context.Context, id, ownerID string) (err error) {
	defer func() { metrics.RecordMutation("delete", string(models.KindFolder), err) }()

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		folder, _, err := s.resolver.LiveFolder(ctx, id, ownerID)
		if err != nil {
			return err
		}
		folder.MarkDeleted(time.Now())
		return s.folderRepo.Update(ctx, folder)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder moved to trash", "id", id, "owner_id", ownerID)
	return nil
}

// RestoreFolder takes a folder out of the trash. If a folder above it is still
// deleted, the folder is detached to root.
func (s *folderService) RestoreFolder(ctx context.Context, id, ownerID string) (folder *models.Folder, err error) {
	defer func() { metrics.RecordMutation("restore", string(models.KindFolder), err) }()

	detached := false
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		var chain []models.Folder
		folder, chain, err = s.resolver.FolderWithChain(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if !chainDeleted(chain) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder %s is not in the trash", id),
				ResourceType: string(models.KindFolder),
				ResourceID:   id,
			}
		}

		folder.ClearDeleted(time.Now())
		ancestors := chain[:len(chain)-1]
		if chainDeleted(ancestors) {
			folder.ParentID = nil
			detached = true
			ancestors = nil
		}
		if err := s.folderRepo.Update(ctx, folder); err != nil {
			return err
		}
		folder.Path = joinPath(chainPath(ancestors), folder.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder restored", "id", id, "detached_to_root", detached)
	return folder, nil
}

// PermanentDeleteFolder erases a trashed folder with its whole subtree
func (s *folderService) PermanentDeleteFolder(ctx context.Context, id, ownerID string) (err error) {
	defer func() { metrics.RecordMutation("permanent_delete", string(models.KindFolder), err) }()

	var keys []string
	var folderCount int
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		_, chain, err := s.resolver.FolderWithChain(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if !chainDeleted(chain) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder %s must be in the trash before it can be permanently deleted", id),
				ResourceType: string(models.KindFolder),
				ResourceID:   id,
			}
		}

		folderIDs, err := s.folderRepo.GetSubtreeIDs(ctx, id, ownerID)
		if err != nil {
			return err
		}
		files, err := s.fileRepo.ListInFolders(ctx, folderIDs, ownerID)
		if err != nil {
			return fmt.Errorf("list files to erase: %w", err)
		}

		fileIDs := make([]string, len(files))
		for i, f := range files {
			fileIDs[i] = f.ID
			keys = append(keys, f.StorageKey)
		}
		if err := s.fileRepo.Delete(ctx, fileIDs, ownerID); err != nil {
			return err
		}
		folderCount = len(folderIDs)
		return s.folderRepo.Delete(ctx, folderIDs, ownerID)
	})
	if err != nil {
		return err
	}

	s.purgeBlobs(ctx, keys)
	s.logger.Info("folder permanently deleted",
		"id", id,
		"folders", folderCount,
		"files", len(keys),
	)
	return nil
}

// ToggleStarFolder flips the starred flag
func (s *folderService) ToggleStarFolder(ctx context.Context, id, ownerID string) (folder *models.Folder, err error) {
	defer func() { metrics.RecordMutation("star", string(models.KindFolder), err) }()

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		folder, _, err = s.resolver.LiveFolder(ctx, id, ownerID)
		if err != nil {
			return err
		}
		folder.IsStarred = !folder.IsStarred
		folder.UpdatedAt = time.Now()
		return s.folderRepo.Update(ctx, folder)
	})
	if err != nil {
		return nil, err
	}
	return folder, nil
}

// purgeBlobs deletes content after its metadata is gone. Failures only leave
// orphaned objects behind, so they are logged and not returned.
func (s *folderService) purgeBlobs(ctx context.Context, keys []string) {
	purgeBlobs(ctx, s.blobs, s.logger, keys)
}

func purgeBlobs(ctx context.Context, blobs storage.BlobStore, logger *slog.Logger, keys []string) {
	for _, key := range keys {
		if err := blobs.Delete(ctx, key); err != nil {
			logger.Error("failed to delete blob", "key", key, "error", err)
		}
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// collectPages drains a paginated repository call
func collectPages[T any](list func(models.ListOptions) ([]T, int, error)) ([]T, error) {
	opts := models.ListOptions{Page: 1, Limit: config.MaxPageSize}
	all := []T{}
	for {
		items, total, err := list(opts)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) == 0 || len(all) >= total {
			return all, nil
		}
		opts.Page++
	}
}
