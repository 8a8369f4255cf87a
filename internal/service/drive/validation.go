package drive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"drive/internal/config"
	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	driveRepo "drive/internal/domain/repositories/drive"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var errForbiddenChars = validation.NewError("validation_name_forbidden_chars",
	fmt.Sprintf("name cannot contain any of %s", config.ForbiddenNameChars))

// nameRules are shared by create, rename, copy and upload
var nameRules = []validation.Rule{
	validation.Required.Error("name is required"),
	validation.RuneLength(1, config.MaxNameLength),
	validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if strings.ContainsAny(s, config.ForbiddenNameChars) {
			return errForbiddenChars
		}
		return nil
	}),
}

// ValidateName trims name and checks it against the naming rules
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := validation.Validate(name, nameRules...); err != nil {
		return "", &domain.ValidationError{Message: err.Error()}
	}
	return name, nil
}

// ResourceResolver loads folders and files and classifies their trash state.
// An entity is effectively deleted when its own flag or any ancestor folder's flag is set.
type ResourceResolver struct {
	folderRepo driveRepo.FolderRepository
	fileRepo   driveRepo.FileRepository
}

// NewResourceResolver creates a new resolver
func NewResourceResolver(folderRepo driveRepo.FolderRepository, fileRepo driveRepo.FileRepository) *ResourceResolver {
	return &ResourceResolver{folderRepo: folderRepo, fileRepo: fileRepo}
}

// chainDeleted reports whether any folder in an ancestor chain is deleted
func chainDeleted(chain []models.Folder) bool {
	for _, f := range chain {
		if f.IsDeleted {
			return true
		}
	}
	return false
}

// chainPath joins the names of an ancestor chain into "A/B/C"
func chainPath(chain []models.Folder) string {
	names := make([]string, len(chain))
	for i, f := range chain {
		names[i] = f.Name
	}
	return strings.Join(names, "/")
}

// FolderWithChain returns the folder with its computed path and its ancestor chain (root first, ending at the folder)
func (r *ResourceResolver) FolderWithChain(ctx context.Context, id, ownerID string) (*models.Folder, []models.Folder, error) {
	chain, err := r.folderRepo.GetAncestors(ctx, id, ownerID)
	if err != nil {
		return nil, nil, err
	}
	folder := chain[len(chain)-1]
	folder.Path = chainPath(chain)
	return &folder, chain, nil
}

// LiveFolder returns a folder that is not effectively deleted, or NotFound
func (r *ResourceResolver) LiveFolder(ctx context.Context, id, ownerID string) (*models.Folder, []models.Folder, error) {
	folder, chain, err := r.FolderWithChain(ctx, id, ownerID)
	if err != nil {
		return nil, nil, err
	}
	if chainDeleted(chain) {
		return nil, nil, fmt.Errorf("folder %s is in the trash: %w", id, domain.ErrNotFound)
	}
	return folder, chain, nil
}

// LiveTarget validates a destination folder. nil is the root and always valid.
func (r *ResourceResolver) LiveTarget(ctx context.Context, targetID *string, ownerID string) ([]models.Folder, error) {
	if targetID == nil {
		return nil, nil
	}
	_, chain, err := r.LiveFolder(ctx, *targetID, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("target folder %s not found", *targetID)}
		}
		return nil, err
	}
	return chain, nil
}

// FileState returns a file and whether it is effectively deleted
func (r *ResourceResolver) FileState(ctx context.Context, id, ownerID string) (*models.File, bool, error) {
	file, err := r.fileRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, false, err
	}
	if file.IsDeleted {
		return file, true, nil
	}
	if file.FolderID == nil {
		return file, false, nil
	}
	chain, err := r.folderRepo.GetAncestors(ctx, *file.FolderID, ownerID)
	if err != nil {
		return nil, false, fmt.Errorf("resolve folder of file %s: %w", id, err)
	}
	return file, chainDeleted(chain), nil
}

// LiveFile returns a file that is not effectively deleted, or NotFound
func (r *ResourceResolver) LiveFile(ctx context.Context, id, ownerID string) (*models.File, error) {
	file, deleted, err := r.FileState(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if deleted {
		return nil, fmt.Errorf("file %s is in the trash: %w", id, domain.ErrNotFound)
	}
	return file, nil
}

// parentDeleted reports whether the chain above the entity contains a deleted folder.
// parentID nil means the entity sits at root.
func (r *ResourceResolver) parentDeleted(ctx context.Context, parentID *string, ownerID string) (bool, error) {
	if parentID == nil {
		return false, nil
	}
	chain, err := r.folderRepo.GetAncestors(ctx, *parentID, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return chainDeleted(chain), nil
}
