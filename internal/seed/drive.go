// Package seed fills a drive with demo content through the service layer.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	models "drive/internal/domain/models/drive"
	driveSvc "drive/internal/domain/services/drive"
	driveService "drive/internal/service/drive"
)

// Seeder creates and clears demo data for one owner
type Seeder struct {
	services *driveService.Services
	logger   *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(services *driveService.Services, logger *slog.Logger) *Seeder {
	return &Seeder{services: services, logger: logger}
}

// Summary counts what a seeding run created
type Summary struct {
	Folders int
	Files   int
	Trashed int
	Starred int
}

type seedFolder struct {
	path    string // slash separated, parents listed first
	starred bool
	trashed bool
}

type seedFile struct {
	folder   string // "" for root
	name     string
	mimeType string
	content  string
	starred  bool
	trashed  bool
}

var demoFolders = []seedFolder{
	{path: "Documents"},
	{path: "Documents/Reports", starred: true},
	{path: "Documents/Reports/2024"},
	{path: "Documents/Invoices"},
	{path: "Photos"},
	{path: "Projects"},
	{path: "Projects/Archive"},
	{path: "Old Drafts", trashed: true},
}

var demoFiles = []seedFile{
	{name: "readme.txt", mimeType: "text/plain", content: "Welcome to your drive.\n", starred: true},
	{folder: "Documents/Reports/2024", name: "q1-summary.txt", mimeType: "text/plain", content: "Revenue up 12% quarter over quarter.\n"},
	{folder: "Documents/Reports/2024", name: "q2-summary.txt", mimeType: "text/plain", content: "Headcount flat, churn down.\n"},
	{folder: "Documents/Invoices", name: "invoice-0042.csv", mimeType: "text/csv", content: "item,amount\nhosting,120\n"},
	{folder: "Photos", name: "skyline.svg", mimeType: "image/svg+xml", content: `<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4"/>`, starred: true},
	{folder: "Projects", name: "roadmap.md", mimeType: "text/markdown", content: "# Roadmap\n\n- sharing\n- quotas\n"},
	{folder: "Projects/Archive", name: "2019-plan.md", mimeType: "text/markdown", content: "# 2019\n"},
	{folder: "Old Drafts", name: "draft-v1.txt", mimeType: "text/plain", content: "first draft\n"},
	{name: "scratch.txt", mimeType: "text/plain", content: "delete me\n", trashed: true},
}

// SeedDemoData creates the demo hierarchy for ownerID.
// Folders and files are created before anything is starred or trashed.
func (s *Seeder) SeedDemoData(ctx context.Context, ownerID string) (*Summary, error) {
	summary := &Summary{}
	ids := make(map[string]string, len(demoFolders))

	for _, f := range demoFolders {
		var parentID *string
		name := f.path
		if i := strings.LastIndex(f.path, "/"); i >= 0 {
			parent := ids[f.path[:i]]
			parentID = &parent
			name = f.path[i+1:]
		}

		folder, err := s.services.Folders.CreateFolder(ctx, &driveSvc.CreateFolderRequest{
			OwnerID:  ownerID,
			Name:     name,
			ParentID: parentID,
		})
		if err != nil {
			return summary, fmt.Errorf("create folder %s: %w", f.path, err)
		}
		ids[f.path] = folder.ID
		summary.Folders++
		s.logger.Debug("seeded folder", "path", f.path, "id", folder.ID)
	}

	fileIDs := make([]string, len(demoFiles))
	for i, f := range demoFiles {
		var folderID *string
		if f.folder != "" {
			id := ids[f.folder]
			folderID = &id
		}

		file, err := s.services.Files.UploadFile(ctx, &driveSvc.UploadFileRequest{
			OwnerID:  ownerID,
			FolderID: folderID,
			Name:     f.name,
			Size:     int64(len(f.content)),
			MimeType: f.mimeType,
			Body:     strings.NewReader(f.content),
		})
		if err != nil {
			return summary, fmt.Errorf("upload %s/%s: %w", f.folder, f.name, err)
		}
		fileIDs[i] = file.ID
		summary.Files++
	}

	for _, f := range demoFolders {
		if f.starred {
			if _, err := s.services.Folders.ToggleStarFolder(ctx, ids[f.path], ownerID); err != nil {
				return summary, fmt.Errorf("star folder %s: %w", f.path, err)
			}
			summary.Starred++
		}
	}
	for i, f := range demoFiles {
		if f.starred {
			if _, err := s.services.Files.ToggleStarFile(ctx, fileIDs[i], ownerID); err != nil {
				return summary, fmt.Errorf("star file %s: %w", f.name, err)
			}
			summary.Starred++
		}
	}

	for _, f := range demoFolders {
		if f.trashed {
			if err := s.services.Folders.DeleteFolder(ctx, ids[f.path], ownerID); err != nil {
				return summary, fmt.Errorf("trash folder %s: %w", f.path, err)
			}
			summary.Trashed++
		}
	}
	for i, f := range demoFiles {
		if f.trashed {
			if err := s.services.Files.DeleteFile(ctx, fileIDs[i], ownerID); err != nil {
				return summary, fmt.Errorf("trash file %s: %w", f.name, err)
			}
			summary.Trashed++
		}
	}

	s.logger.Info("demo data seeded",
		"owner_id", ownerID,
		"folders", summary.Folders,
		"files", summary.Files,
		"starred", summary.Starred,
		"trashed", summary.Trashed,
	)
	return summary, nil
}

// ClearOwner trashes everything at the owner's root, then permanently
// deletes the whole trash, blobs included.
func (s *Seeder) ClearOwner(ctx context.Context, ownerID string) error {
	all := models.ListOptions{Page: 1, Limit: 1000}

	// Each pass removes the listed page, so always read page 1
	for {
		folders, err := s.services.Listing.ListFolders(ctx, nil, ownerID, all)
		if err != nil {
			return fmt.Errorf("list root folders: %w", err)
		}
		if len(folders.Folders) == 0 {
			break
		}
		for _, f := range folders.Folders {
			if err := s.services.Folders.DeleteFolder(ctx, f.ID, ownerID); err != nil {
				return fmt.Errorf("trash folder %s: %w", f.ID, err)
			}
		}
	}
	for {
		files, err := s.services.Listing.ListFiles(ctx, nil, ownerID, all)
		if err != nil {
			return fmt.Errorf("list root files: %w", err)
		}
		if len(files.Files) == 0 {
			break
		}
		for _, f := range files.Files {
			if err := s.services.Files.DeleteFile(ctx, f.ID, ownerID); err != nil {
				return fmt.Errorf("trash file %s: %w", f.ID, err)
			}
		}
	}

	for {
		trashed, err := s.services.Listing.ListTrashFolders(ctx, ownerID, all)
		if err != nil {
			return fmt.Errorf("list trashed folders: %w", err)
		}
		if len(trashed.Folders) == 0 {
			break
		}
		for _, f := range trashed.Folders {
			if err := s.services.Folders.PermanentDeleteFolder(ctx, f.ID, ownerID); err != nil {
				return fmt.Errorf("erase folder %s: %w", f.ID, err)
			}
		}
	}
	for {
		trashed, err := s.services.Listing.ListTrashFiles(ctx, ownerID, all)
		if err != nil {
			return fmt.Errorf("list trashed files: %w", err)
		}
		if len(trashed.Files) == 0 {
			break
		}
		for _, f := range trashed.Files {
			if err := s.services.Files.PermanentDeleteFile(ctx, f.ID, ownerID); err != nil {
				return fmt.Errorf("erase file %s: %w", f.ID, err)
			}
		}
	}

	s.logger.Info("owner data cleared", "owner_id", ownerID)
	return nil
}
