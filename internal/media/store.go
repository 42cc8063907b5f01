package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	apperrors "github.com/KulmamatovZalkar/newedges/internal/common/errors"
	"github.com/KulmamatovZalkar/newedges/internal/telegram"
)

// Downloader fetches file content hosted by Telegram.
type Downloader interface {
	GetFile(ctx context.Context, fileID string) (telegram.File, error)
	DownloadFile(ctx context.Context, filePath string) ([]byte, error)
}

// Store writes applicant media under a local directory. Stored paths are
// relative to the root so the directory can move between deployments.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// SavePhoto downloads a Telegram photo and stores it under
// applications/<field>/<uuid>.jpg, returning the relative path that goes
// into the response and application records.
func (s *Store) SavePhoto(ctx context.Context, dl Downloader, fileID, fieldName string) (string, error) {
	if fieldName == "" {
		fieldName = "misc"
	}

	file, err := dl.GetFile(ctx, fileID)
	if err != nil {
		return "", apperrors.NewMediaSaveFailedError(fieldName, fmt.Errorf("resolve file: %w", err))
	}
	content, err := dl.DownloadFile(ctx, file.FilePath)
	if err != nil {
		return "", apperrors.NewMediaSaveFailedError(fieldName, fmt.Errorf("download file: %w", err))
	}

	relPath := filepath.Join("applications", fieldName, uuid.NewString()+".jpg")
	fullPath := filepath.Join(s.root, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", apperrors.NewMediaSaveFailedError(fieldName, err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return "", apperrors.NewMediaSaveFailedError(fieldName, err)
	}
	return relPath, nil
}

// Resolve turns a stored relative path into an absolute one.
func (s *Store) Resolve(relPath string) string {
	return filepath.Join(s.root, relPath)
}
