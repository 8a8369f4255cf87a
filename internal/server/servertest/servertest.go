// Package servertest starts a drive API backed by in-memory stores.
package servertest

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"drive/internal/capabilities"
	"drive/internal/middleware"
	"drive/internal/repository/memory"
	"drive/internal/server"
	driveService "drive/internal/service/drive"
	memstore "drive/internal/storage/memory"

	"github.com/stretchr/testify/require"
)

// Server is a running test API
type Server struct {
	*httptest.Server
	Blobs    *memstore.Store
	Services *driveService.Services
}

// Option adjusts the server before it starts
type Option func(*server.Options)

// WithMaxUploadBytes sets the upload size limit
func WithMaxUploadBytes(n int64) Option {
	return func(o *server.Options) { o.MaxUploadBytes = n }
}

// WithoutAuth leaves requests unauthenticated
func WithoutAuth() Option {
	return func(o *server.Options) { o.Auth = nil }
}

// New starts a server where every request acts as userID.
// It is closed when the test finishes.
func New(t testing.TB, userID string, opts ...Option) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	blobs := memstore.New("http://blobs.test")

	options := server.Options{
		Auth:           middleware.DevAuth(userID),
		CORSOrigins:    []string{"http://localhost:3000"},
		MaxUploadBytes: 1 << 20,
		Logger:         logger,
	}
	for _, opt := range opts {
		opt(&options)
	}

	registry, err := capabilities.NewRegistry()
	require.NoError(t, err)
	options.Capabilities = registry
	options.Services = driveService.SetupServices(
		memory.NewFolderRepository(store),
		memory.NewFileRepository(store),
		memory.NewTransactionManager(store),
		blobs,
		options.MaxUploadBytes,
		logger,
	)

	ts := httptest.NewServer(server.NewHandler(options))
	t.Cleanup(ts.Close)

	return &Server{Server: ts, Blobs: blobs, Services: options.Services}
}
