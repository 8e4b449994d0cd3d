package services

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"sync"

	"github.com/designdesk/backend/internal/config"
	"github.com/designdesk/backend/internal/storage"
	"github.com/designdesk/backend/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// FileUpload is the metadata recorded for a blob that has been written to
// the object store.
type FileUpload struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
}

// UploadService moves multipart request payloads into the object store.
// Blobs are namespaced projects/{userID}/{uuid}-{filename}, so concurrent
// uploads never collide.
type UploadService struct {
	Store storage.ObjectStore
	cfg   config.UploadConfig
}

func NewUploadService(store storage.ObjectStore, cfg config.UploadConfig) *UploadService {
	return &UploadService{Store: store, cfg: cfg}
}

// UploadMany writes every file to the object store concurrently and returns
// their metadata in input order. If any upload fails the whole batch fails
// and blobs already written by this call are removed best-effort.
func (u *UploadService) UploadMany(ctx context.Context, userID uuid.UUID, headers []*multipart.FileHeader) ([]FileUpload, error) {
	if len(headers) == 0 {
		return nil, nil
	}
	if u.cfg.MaxFilesPerRequest > 0 && len(headers) > u.cfg.MaxFilesPerRequest {
		return nil, validationError("files", fmt.Sprintf("at most %d files per request", u.cfg.MaxFilesPerRequest))
	}

	for _, header := range headers {
		if filepath.Base(strings.TrimSpace(header.Filename)) == "" {
			return nil, validationError("files", "invalid filename")
		}
		if u.cfg.MaxFileSizeBytes > 0 && header.Size > u.cfg.MaxFileSizeBytes {
			return nil, validationError("files", fmt.Sprintf("file %s exceeds the %d byte limit", header.Filename, u.cfg.MaxFileSizeBytes))
		}
	}

	uploads := make([]FileUpload, len(headers))
	var mu sync.Mutex
	var written []string

	g, gctx := errgroup.WithContext(ctx)
	for i, header := range headers {
		g.Go(func() error {
			filename := filepath.Base(strings.TrimSpace(header.Filename))
			objectName := fmt.Sprintf("projects/%s/%s-%s", userID, uuid.New(), filename)

			stream, err := header.Open()
			if err != nil {
				return storageError(err)
			}
			defer stream.Close()

			contentType := header.Header.Get("Content-Type")
			if contentType == "" {
				contentType = mime.TypeByExtension(filepath.Ext(filename))
			}
			if contentType == "" {
				contentType = "application/octet-stream"
			}

			if err := u.Store.Upload(gctx, objectName, stream, header.Size, contentType); err != nil {
				return storageError(err)
			}

			mu.Lock()
			written = append(written, objectName)
			mu.Unlock()

			uploads[i] = FileUpload{
				Filename: filename,
				Path:     objectName,
				Size:     header.Size,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		u.cleanup(ctx, written)
		return nil, err
	}

	return uploads, nil
}

// RemoveMany deletes blobs for the given upload metadata, best-effort. Used
// to compensate when a database write fails after the blobs already landed.
func (u *UploadService) RemoveMany(ctx context.Context, uploads []FileUpload) {
	paths := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		paths = append(paths, upload.Path)
	}
	u.cleanup(ctx, paths)
}

func (u *UploadService) cleanup(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		return
	}
	if err := u.Store.DeleteMany(ctx, paths); err != nil {
		logger.Error("upload_cleanup_failed", err, map[string]interface{}{
			"paths": paths,
		})
	}
}
