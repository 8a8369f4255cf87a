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

// FolderRepository implements driveRepo.FolderRepository on a Store
type FolderRepository struct {
	store *Store
}

// NewFolderRepository creates a folder repository over store
func NewFolderRepository(store *Store) driveRepo.FolderRepository {
	return &FolderRepository{store: store}
}

func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if folder.ParentID != nil {
		parent, ok := s.folders[*folder.ParentID]
		if !ok || parent.OwnerID != folder.OwnerID {
			return &domain.NotFoundError{Message: "parent folder not found"}
		}
	}

	folder.ID = uuid.NewString()
	s.folders[folder.ID] = *folder
	return nil
}

func (r *FolderRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.folders[id]
	if !ok || f.OwnerID != ownerID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return &f, nil
}

func (r *FolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.folders[folder.ID]
	if !ok || existing.OwnerID != folder.OwnerID {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	if folder.ParentID != nil {
		if parent, ok := s.folders[*folder.ParentID]; !ok || parent.OwnerID != folder.OwnerID {
			return &domain.NotFoundError{Message: "parent folder not found"}
		}
	}

	updated := *folder
	updated.Path = ""
	s.folders[folder.ID] = updated
	return nil
}

// Delete removes the folders and, like the foreign key cascade, everything below them
func (r *FolderRepository) Delete(ctx context.Context, ids []string, ownerID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		f, ok := s.folders[id]
		if !ok || f.OwnerID != ownerID {
			continue
		}
		for _, sub := range s.subtree(id) {
			delete(s.folders, sub)
			for fileID, file := range s.files {
				if file.FolderID != nil && *file.FolderID == sub {
					delete(s.files, fileID)
				}
			}
		}
	}
	return nil
}

func (r *FolderRepository) ListChildren(ctx context.Context, parentID *string, ownerID string, opts models.ListOptions) ([]models.Folder, int, error) {
	return r.list(ownerID, opts, sortFolders, func(f models.Folder, _ map[string]bool) bool {
		return sameParent(f.ParentID, parentID) && !f.IsDeleted
	})
}

func (r *FolderRepository) ListAllChildren(ctx context.Context, parentID string, ownerID string) ([]models.Folder, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	folders := []models.Folder{}
	for _, f := range s.folders {
		if f.OwnerID == ownerID && f.ParentID != nil && *f.ParentID == parentID {
			folders = append(folders, f)
		}
	}
	sortFolders(folders)
	return folders, nil
}

func (r *FolderRepository) ListStarred(ctx context.Context, ownerID string, opts models.ListOptions) ([]models.Folder, int, error) {
	return r.list(ownerID, opts, sortFolders, func(f models.Folder, dead map[string]bool) bool {
		return f.IsStarred && !dead[f.ID]
	})
}

func (r *FolderRepository) ListTrash(ctx context.Context, ownerID string, opts models.ListOptions) ([]models.Folder, int, error) {
	return r.list(ownerID, opts, sortTrashedFolders, func(f models.Folder, dead map[string]bool) bool {
		return f.IsDeleted && (f.ParentID == nil || !dead[*f.ParentID])
	})
}

func (r *FolderRepository) list(ownerID string, opts models.ListOptions, sortFn func([]models.Folder), keep func(models.Folder, map[string]bool) bool) ([]models.Folder, int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	dead := s.deadFolders(ownerID)
	var matched []models.Folder
	for _, f := range s.folders {
		if f.OwnerID == ownerID && matchesSearch(f.Name, opts.Search) && keep(f, dead) {
			matched = append(matched, f)
		}
	}
	sortFn(matched)
	page, total := paginate(matched, opts)
	return page, total, nil
}

func sortTrashedFolders(folders []models.Folder) {
	slices.SortFunc(folders, func(a, b models.Folder) int {
		if c := b.DeletedAt.Compare(*a.DeletedAt); c != 0 {
			return c
		}
		return byNameThenID("", a.ID, "", b.ID)
	})
}

func (r *FolderRepository) GetAncestors(ctx context.Context, id, ownerID string) ([]models.Folder, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chain []models.Folder
	current := &id
	for current != nil && len(chain) <= len(s.folders) {
		f, ok := s.folders[*current]
		if !ok || f.OwnerID != ownerID {
			break
		}
		chain = append(chain, f)
		current = f.ParentID
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	slices.Reverse(chain)
	return chain, nil
}

func (r *FolderRepository) GetSubtreeIDs(ctx context.Context, id, ownerID string) ([]string, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	if f, ok := s.folders[id]; !ok || f.OwnerID != ownerID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return s.subtree(id), nil
}

func (r *FolderRepository) GetStats(ctx context.Context, id, ownerID string) (*models.FolderStats, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	if f, ok := s.folders[id]; !ok || f.OwnerID != ownerID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	live := map[string]bool{id: true}
	queue := []string{id}
	stats := &models.FolderStats{}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for _, f := range s.folders {
			if f.ParentID != nil && *f.ParentID == parent && !f.IsDeleted && !live[f.ID] {
				live[f.ID] = true
				queue = append(queue, f.ID)
				stats.TotalFolders++
			}
		}
	}
	for _, file := range s.files {
		if file.FolderID != nil && live[*file.FolderID] && !file.IsDeleted {
			stats.TotalFiles++
			stats.TotalSize += file.Size
		}
	}
	stats.TotalItems = stats.TotalFolders + stats.TotalFiles
	return stats, nil
}
