package memory

import (
	"context"
	"fmt"
	"slices"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	driveRepo "drive/internal/domain/repositories/drive"

	"github.com/google/uuid"
)

// FileRepository implements driveRepo.FileRepository on a Store
type FileRepository struct {
	store *Store
}

// NewFileRepository creates a file repository over store
func NewFileRepository(store *Store) driveRepo.FileRepository {
	return &FileRepository{store: store}
}

func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if file.FolderID != nil {
		folder, ok := s.folders[*file.FolderID]
		if !ok || folder.OwnerID != file.OwnerID {
			return &domain.NotFoundError{Message: "folder not found"}
		}
	}
	if file.Size < 0 {
		return &domain.ValidationError{Message: "invalid file"}
	}

	file.ID = uuid.NewString()
	s.files[file.ID] = *file
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id, ownerID string) (*models.File, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.files[id]
	if !ok || f.OwnerID != ownerID {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	return &f, nil
}

func (r *FileRepository) Update(ctx context.Context, file *models.File) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.files[file.ID]
	if !ok || existing.OwnerID != file.OwnerID {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}
	if file.FolderID != nil {
		if folder, ok := s.folders[*file.FolderID]; !ok || folder.OwnerID != file.OwnerID {
			return &domain.NotFoundError{Message: "folder not found"}
		}
	}

	// Size, MIME type and blob key are immutable
	updated := *file
	updated.Size = existing.Size
	updated.MimeType = existing.MimeType
	updated.StorageKey = existing.StorageKey
	s.files[file.ID] = updated
	return nil
}

func (r *FileRepository) Delete(ctx context.Context, ids []string, ownerID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if f, ok := s.files[id]; ok && f.OwnerID == ownerID {
			delete(s.files, id)
		}
	}
	return nil
}

func (r *FileRepository) ListByFolder(ctx context.Context, folderID *string, ownerID string, opts models.ListOptions) ([]models.File, int, error) {
	return r.list(ownerID, opts, sortFiles, func(f models.File, _ map[string]bool) bool {
		return sameParent(f.FolderID, folderID) && !f.IsDeleted
	})
}

func (r *FileRepository) ListInFolders(ctx context.Context, folderIDs []string, ownerID string) ([]models.File, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := []models.File{}
	for _, f := range s.files {
		if f.OwnerID == ownerID && f.FolderID != nil && slices.Contains(folderIDs, *f.FolderID) {
			files = append(files, f)
		}
	}
	sortFiles(files)
	return files, nil
}

func (r *FileRepository) ListStarred(ctx context.Context, ownerID string, opts models.ListOptions) ([]models.File, int, error) {
	return r.list(ownerID, opts, sortFiles, func(f models.File, dead map[string]bool) bool {
		return f.IsStarred && !f.IsDeleted && (f.FolderID == nil || !dead[*f.FolderID])
	})
}

func (r *FileRepository) ListTrash(ctx context.Context, ownerID string, opts models.ListOptions) ([]models.File, int, error) {
	return r.list(ownerID, opts, sortTrashedFiles, func(f models.File, dead map[string]bool) bool {
		return f.IsDeleted && (f.FolderID == nil || !dead[*f.FolderID])
	})
}

func (r *FileRepository) list(ownerID string, opts models.ListOptions, sortFn func([]models.File), keep func(models.File, map[string]bool) bool) ([]models.File, int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	dead := s.deadFolders(ownerID)
	var matched []models.File
	for _, f := range s.files {
		if f.OwnerID == ownerID && matchesSearch(f.Name, opts.Search) && keep(f, dead) {
			matched = append(matched, f)
		}
	}
	sortFn(matched)
	page, total := paginate(matched, opts)
	return page, total, nil
}

func sortTrashedFiles(files []models.File) {
	slices.SortFunc(files, func(a, b models.File) int {
		if c := b.DeletedAt.Compare(*a.DeletedAt); c != 0 {
			return c
		}
		return byNameThenID("", a.ID, "", b.ID)
	})
}
