// Package memory implements the drive repositories in process memory.
// It backs METADATA_DRIVER=memory and the service tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	models "drive/internal/domain/models/drive"
	"drive/internal/domain/repositories"
)

// Store holds folder and file rows for all owners.
type Store struct {
	mu      sync.RWMutex
	txMu    sync.Mutex
	folders map[string]models.Folder
	files   map[string]models.File
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		folders: make(map[string]models.Folder),
		files:   make(map[string]models.File),
	}
}

// deadFolders returns the ids of the owner's folders that are deleted or
// below a deleted folder. Callers hold s.mu.
func (s *Store) deadFolders(ownerID string) map[string]bool {
	memo := make(map[string]bool)
	var visit func(id string, depth int) bool
	visit = func(id string, depth int) bool {
		if dead, ok := memo[id]; ok {
			return dead
		}
		f, ok := s.folders[id]
		if !ok || depth > len(s.folders) {
			return false
		}
		dead := f.IsDeleted
		if !dead && f.ParentID != nil {
			dead = visit(*f.ParentID, depth+1)
		}
		memo[id] = dead
		return dead
	}

	out := make(map[string]bool)
	for id, f := range s.folders {
		if f.OwnerID == ownerID && visit(id, 0) {
			out[id] = true
		}
	}
	return out
}

// subtree returns id and all descendant folder ids. Callers hold s.mu.
func (s *Store) subtree(id string) []string {
	children := make(map[string][]string)
	for _, f := range s.folders {
		if f.ParentID != nil {
			children[*f.ParentID] = append(children[*f.ParentID], f.ID)
		}
	}
	ids := []string{id}
	for i := 0; i < len(ids); i++ {
		ids = append(ids, children[ids[i]]...)
	}
	return ids
}

func matchesSearch(name, search string) bool {
	return search == "" || strings.Contains(strings.ToLower(name), strings.ToLower(search))
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func paginate[T any](items []T, opts models.ListOptions) ([]T, int) {
	total := len(items)
	start := opts.Offset()
	if start > total {
		start = total
	}
	end := total
	if opts.Limit > 0 && start+opts.Limit < total {
		end = start + opts.Limit
	}
	page := make([]T, end-start)
	copy(page, items[start:end])
	return page, total
}

func byNameThenID(aName, aID, bName, bID string) int {
	if c := cmp.Compare(aName, bName); c != 0 {
		return c
	}
	return cmp.Compare(aID, bID)
}

func sortFolders(folders []models.Folder) {
	slices.SortFunc(folders, func(a, b models.Folder) int {
		return byNameThenID(a.Name, a.ID, b.Name, b.ID)
	})
}

func sortFiles(files []models.File) {
	slices.SortFunc(files, func(a, b models.File) int {
		return byNameThenID(a.Name, a.ID, b.Name, b.ID)
	})
}

type txKey struct{}

// TransactionManager serializes units of work and restores a snapshot of the
// store when fn fails.
type TransactionManager struct {
	store *Store
}

// NewTransactionManager creates a transaction manager over store
func NewTransactionManager(store *Store) repositories.TransactionManager {
	return &TransactionManager{store: store}
}

// ExecTx runs fn atomically. Nested calls join the outer unit of work.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s := tm.store
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	folders := make(map[string]models.Folder, len(s.folders))
	for k, v := range s.folders {
		folders[k] = v
	}
	files := make(map[string]models.File, len(s.files))
	for k, v := range s.files {
		files[k] = v
	}
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.folders = folders
		s.files = files
		s.mu.Unlock()
		return err
	}
	return nil
}
