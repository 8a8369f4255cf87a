package drive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	"drive/internal/domain/repositories"
	driveRepo "drive/internal/domain/repositories/drive"
	driveSvc "drive/internal/domain/services/drive"
	"drive/internal/metrics"
	"drive/internal/storage"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const defaultMimeType = "application/octet-stream"

type fileService struct {
	fileRepo       driveRepo.FileRepository
	blobs          storage.BlobStore
	txManager      repositories.TransactionManager
	resolver       *ResourceResolver
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo driveRepo.FileRepository,
	blobs storage.BlobStore,
	txManager repositories.TransactionManager,
	resolver *ResourceResolver,
	maxUploadBytes int64,
	logger *slog.Logger,
) driveSvc.FileService {
	return &fileService{
		fileRepo:       fileRepo,
		blobs:          blobs,
		txManager:      txManager,
		resolver:       resolver,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// UploadFile writes the content to the blob store, then records the file.
// The blob is removed again if the record cannot be created.
func (s *fileService) UploadFile(ctx context.Context, req *driveSvc.UploadFileRequest) (file *models.File, err error) {
	defer func() { metrics.RecordMutation("upload", string(models.KindFile), err) }()

	name, err := ValidateName(req.Name)
	if err != nil {
		return nil, err
	}
	if err := validation.Validate(req.Size,
		validation.Min(int64(0)),
		validation.Max(s.maxUploadBytes).Error(fmt.Sprintf("file exceeds the %d byte upload limit", s.maxUploadBytes)),
	); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	// Fail before transferring content into a folder that cannot take it
	if _, err := s.resolver.LiveTarget(ctx, req.FolderID, req.OwnerID); err != nil {
		return nil, err
	}

	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	key := storage.ObjectKey(req.OwnerID, uuid.NewString())
	if err := s.blobs.Put(ctx, key, req.Body, req.Size, mimeType); err != nil {
		return nil, fmt.Errorf("store content: %w", err)
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if _, err := s.resolver.LiveTarget(ctx, req.FolderID, req.OwnerID); err != nil {
			return err
		}
		now := time.Now()
		file = &models.File{
			Name:       name,
			FolderID:   req.FolderID,
			Size:       req.Size,
			MimeType:   mimeType,
			OwnerID:    req.OwnerID,
			StorageKey: key,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return s.fileRepo.Create(ctx, file)
	})
	if err != nil {
		purgeBlobs(context.WithoutCancel(ctx), s.blobs, s.logger, []string{key})
		return nil, err
	}

	metrics.RecordUpload(file.Size)
	s.logger.Info("file uploaded",
		"id", file.ID,
		"name", file.Name,
		"folder_id", file.FolderID,
		"size", file.Size,
		"mime_type", file.MimeType,
	)
	return file, nil
}

// GetFile retrieves a live file
func (s *fileService) GetFile(ctx context.Context, id, ownerID string) (*models.File, error) {
	return s.resolver.LiveFile(ctx, id, ownerID)
}

// RenameFile changes a file's name
func (s *fileService) RenameFile(ctx context.Context, req *driveSvc.RenameRequest) (file *models.File, err error) {
	defer func() { metrics.RecordMutation("rename", string(models.KindFile), err) }()

	name, err := ValidateName(req.Name)
	if err != nil {
		return nil, err
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		file, err = s.resolver.LiveFile(ctx, req.ID, req.OwnerID)
		if err != nil {
			return err
		}
		file.Name = name
		file.UpdatedAt = time.Now()
		return s.fileRepo.Update(ctx, file)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("file renamed", "id", file.ID, "name", file.Name)
	return file, nil
}

// MoveFile sets the file's folder. Blob keys do not change.
func (s *fileService) MoveFile(ctx context.Context, req *driveSvc.MoveRequest) (file *models.File, err error) {
	defer func() { metrics.RecordMutation("move", string(models.KindFile), err) }()

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		file, err = s.resolver.LiveFile(ctx, req.ID, req.OwnerID)
		if err != nil {
			return err
		}
		if _, err := s.resolver.LiveTarget(ctx, req.TargetID, req.OwnerID); err != nil {
			return err
		}
		file.FolderID = req.TargetID
		file.UpdatedAt = time.Now()
		return s.fileRepo.Update(ctx, file)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("file moved", "id", file.ID, "folder_id", file.FolderID)
	return file, nil
}

// CopyFile duplicates the record and its content under a new blob key
func (s *fileService) CopyFile(ctx context.Context, req *driveSvc.CopyRequest) (file *models.File, err error) {
	defer func() { metrics.RecordMutation("copy", string(models.KindFile), err) }()

	var key string
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		source, err := s.resolver.LiveFile(ctx, req.ID, req.OwnerID)
		if err != nil {
			return err
		}

		name := source.Name
		if req.Name != "" {
			if name, err = ValidateName(req.Name); err != nil {
				return err
			}
		}
		if _, err := s.resolver.LiveTarget(ctx, req.TargetID, req.OwnerID); err != nil {
			return err
		}

		key = storage.ObjectKey(req.OwnerID, uuid.NewString())
		if err := s.blobs.Copy(ctx, source.StorageKey, key); err != nil {
			key = ""
			return fmt.Errorf("copy content of %s: %w", source.ID, err)
		}

		now := time.Now()
		file = &models.File{
			Name:       name,
			FolderID:   req.TargetID,
			Size:       source.Size,
			MimeType:   source.MimeType,
			OwnerID:    req.OwnerID,
			StorageKey: key,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return s.fileRepo.Create(ctx, file)
	})
	if err != nil {
		if key != "" {
			purgeBlobs(context.WithoutCancel(ctx), s.blobs, s.logger, []string{key})
		}
		return nil, err
	}

	s.logger.Info("file copied", "source_id", req.ID, "id", file.ID, "folder_id", file.FolderID)
	return file, nil
}

// DeleteFile moves a file to the trash
func (s *fileService) DeleteFile(ctx context.Context, id, ownerID string) (err error) {
	defer func() { metrics.RecordMutation("delete", string(models.KindFile), err) }()

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		file, err := s.resolver.LiveFile(ctx, id, ownerID)
		if err != nil {
			return err
		}
		file.MarkDeleted(time.Now())
		return s.fileRepo.Update(ctx, file)
	})
	if err != nil {
		return err
	}

	s.logger.Info("file moved to trash", "id", id, "owner_id", ownerID)
	return nil
}

// RestoreFile takes a file out of the trash. A file whose folder is still in
// the trash is detached to root.
func (s *fileService) RestoreFile(ctx context.Context, id, ownerID string) (file *models.File, err error) {
	defer func() { metrics.RecordMutation("restore", string(models.KindFile), err) }()

	detached := false
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		var deleted bool
		file, deleted, err = s.resolver.FileState(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if !deleted {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("file %s is not in the trash", id),
				ResourceType: string(models.KindFile),
				ResourceID:   id,
			}
		}

		parentDeleted, err := s.resolver.parentDeleted(ctx, file.FolderID, ownerID)
		if err != nil {
			return err
		}
		file.ClearDeleted(time.Now())
		if parentDeleted {
			file.FolderID = nil
			detached = true
		}
		return s.fileRepo.Update(ctx, file)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("file restored", "id", id, "detached_to_root", detached)
	return file, nil
}

// PermanentDeleteFile erases a trashed file and then its content
func (s *fileService) PermanentDeleteFile(ctx context.Context, id, ownerID string) (err error) {
	defer func() { metrics.RecordMutation("permanent_delete", string(models.KindFile), err) }()

	var key string
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		file, deleted, err := s.resolver.FileState(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if !deleted {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("file %s must be in the trash before it can be permanently deleted", id),
				ResourceType: string(models.KindFile),
				ResourceID:   id,
			}
		}
		key = file.StorageKey
		return s.fileRepo.Delete(ctx, []string{id}, ownerID)
	})
	if err != nil {
		return err
	}

	purgeBlobs(ctx, s.blobs, s.logger, []string{key})
	s.logger.Info("file permanently deleted", "id", id)
	return nil
}

// ToggleStarFile flips the starred flag
func (s *fileService) ToggleStarFile(ctx context.Context, id, ownerID string) (file *models.File, err error) {
	defer func() { metrics.RecordMutation("star", string(models.KindFile), err) }()

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		file, err = s.resolver.LiveFile(ctx, id, ownerID)
		if err != nil {
			return err
		}
		file.IsStarred = !file.IsStarred
		file.UpdatedAt = time.Now()
		return s.fileRepo.Update(ctx, file)
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

// GetDownloadLink presigns an attachment URL for the file's content
func (s *fileService) GetDownloadLink(ctx context.Context, id, ownerID string) (*models.DownloadLink, error) {
	file, err := s.resolver.LiveFile(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	url, err := s.blobs.PresignGet(ctx, file.StorageKey, storage.PresignOptions{
		FileName:    file.Name,
		ContentType: file.MimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("presign download: %w", err)
	}
	return &models.DownloadLink{DownloadURL: url, FileName: file.Name}, nil
}

// GetPreviewLink presigns an inline URL for the file's content
func (s *fileService) GetPreviewLink(ctx context.Context, id, ownerID string) (*models.PreviewLink, error) {
	file, err := s.resolver.LiveFile(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	url, err := s.blobs.PresignGet(ctx, file.StorageKey, storage.PresignOptions{
		FileName:    file.Name,
		ContentType: file.MimeType,
		Inline:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("presign preview: %w", err)
	}
	return &models.PreviewLink{PreviewURL: url, MimeType: file.MimeType}, nil
}
