package drive

import (
	"log/slog"

	"drive/internal/domain/repositories"
	driveRepo "drive/internal/domain/repositories/drive"
	driveSvc "drive/internal/domain/services/drive"
	"drive/internal/storage"
)

// Services holds all drive services
type Services struct {
	Folders driveSvc.FolderService
	Files   driveSvc.FileService
	Listing driveSvc.ListingService
}

// SetupServices wires the drive services over one metadata store and one blob store.
func SetupServices(
	folderRepo driveRepo.FolderRepository,
	fileRepo driveRepo.FileRepository,
	txManager repositories.TransactionManager,
	blobs storage.BlobStore,
	maxUploadBytes int64,
	logger *slog.Logger,
) *Services {
	resolver := NewResourceResolver(folderRepo, fileRepo)

	logger.Info("drive services initialized",
		"blob_store", blobs.Type(),
		"max_upload_bytes", maxUploadBytes,
	)

	return &Services{
		Folders: NewFolderService(folderRepo, fileRepo, blobs, txManager, resolver, logger),
		Files:   NewFileService(fileRepo, blobs, txManager, resolver, maxUploadBytes, logger),
		Listing: NewListingService(folderRepo, fileRepo, resolver, logger),
	}
}
