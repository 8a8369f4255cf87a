package drive

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	models "drive/internal/domain/models/drive"
	driveSvc "drive/internal/domain/services/drive"
	"drive/internal/repository/memory"
	memstore "drive/internal/storage/memory"

	"github.com/stretchr/testify/require"
)

const (
	owner = "user-1"
	other = "user-2"
)

type fixture struct {
	folders driveSvc.FolderService
	files   driveSvc.FileService
	listing driveSvc.ListingService
	blobs   *memstore.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	folderRepo := memory.NewFolderRepository(store)
	fileRepo := memory.NewFileRepository(store)
	txManager := memory.NewTransactionManager(store)
	blobs := memstore.New("http://blobs.test")
	resolver := NewResourceResolver(folderRepo, fileRepo)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		folders: NewFolderService(folderRepo, fileRepo, blobs, txManager, resolver, logger),
		files:   NewFileService(fileRepo, blobs, txManager, resolver, 1<<20, logger),
		listing: NewListingService(folderRepo, fileRepo, resolver, logger),
		blobs:   blobs,
	}
}

func (f *fixture) mkdir(t *testing.T, name string, parent *models.Folder) *models.Folder {
	t.Helper()
	req := &driveSvc.CreateFolderRequest{OwnerID: owner, Name: name}
	if parent != nil {
		req.ParentID = &parent.ID
	}
	folder, err := f.folders.CreateFolder(context.Background(), req)
	require.NoError(t, err)
	return folder
}

func (f *fixture) upload(t *testing.T, name, content string, parent *models.Folder) *models.File {
	t.Helper()
	req := &driveSvc.UploadFileRequest{
		OwnerID:  owner,
		Name:     name,
		Size:     int64(len(content)),
		MimeType: "text/plain",
		Body:     strings.NewReader(content),
	}
	if parent != nil {
		req.FolderID = &parent.ID
	}
	file, err := f.files.UploadFile(context.Background(), req)
	require.NoError(t, err)
	return file
}

func (f *fixture) rootFolderNames(t *testing.T) []string {
	t.Helper()
	list, err := f.listing.ListFolders(context.Background(), nil, owner, models.ListOptions{})
	require.NoError(t, err)
	names := make([]string, len(list.Folders))
	for i, folder := range list.Folders {
		names[i] = folder.Name
	}
	return names
}

func (f *fixture) trash(t *testing.T) ([]models.Folder, []models.File) {
	t.Helper()
	ctx := context.Background()
	folders, err := f.listing.ListTrashFolders(ctx, owner, models.ListOptions{})
	require.NoError(t, err)
	files, err := f.listing.ListTrashFiles(ctx, owner, models.ListOptions{})
	require.NoError(t, err)
	return folders.Folders, files.Files
}
