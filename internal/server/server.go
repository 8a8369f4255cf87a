package server

import (
	"log/slog"
	"net/http"

	"drive/internal/capabilities"
	"drive/internal/handler"
	"drive/internal/metrics"
	"drive/internal/middleware"
	driveService "drive/internal/service/drive"

	"github.com/rs/cors"
)

// Options configures the HTTP surface
type Options struct {
	Services       *driveService.Services
	Capabilities   *capabilities.Registry
	Auth           func(http.Handler) http.Handler
	CORSOrigins    []string
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// NewHandler builds the routed, instrumented and authenticated handler.
// Order, outermost first: CORS, Instrument, Recovery, Auth, routes.
func NewHandler(opts Options) http.Handler {
	fileHandler := handler.NewFileHandler(opts.Services.Files, opts.Services.Listing, opts.MaxUploadBytes, opts.Logger)
	folderHandler := handler.NewFolderHandler(opts.Services.Folders, opts.Services.Listing, opts.Logger)
	viewHandler := handler.NewViewHandler(opts.Capabilities, opts.Logger)

	mux := http.NewServeMux()
	handler.Register(mux, fileHandler, folderHandler, viewHandler)
	mux.Handle("GET /metrics", metrics.Handler())

	var h http.Handler = mux
	if opts.Auth != nil {
		h = opts.Auth(h)
	}
	h = middleware.Recovery(opts.Logger)(h)
	h = middleware.Instrument(opts.Logger, mux)(h)

	// CORS must run before auth so OPTIONS pre-flight requests succeed
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	return corsHandler.Handler(h)
}
