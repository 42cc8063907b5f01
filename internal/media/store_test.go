package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/KulmamatovZalkar/newedges/internal/common/errors"
	"github.com/KulmamatovZalkar/newedges/internal/telegram"
)

type fakeDownloader struct {
	content []byte
	err     error
}

func (f *fakeDownloader) GetFile(_ context.Context, fileID string) (telegram.File, error) {
	if f.err != nil {
		return telegram.File{}, f.err
	}
	return telegram.File{FileID: fileID, FilePath: "photos/" + fileID + ".jpg"}, nil
}

func (f *fakeDownloader) DownloadFile(_ context.Context, _ string) ([]byte, error) {
	return f.content, nil
}

func TestSavePhoto(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)
	dl := &fakeDownloader{content: []byte("jpeg-bytes")}

	relPath, err := store.SavePhoto(context.Background(), dl, "file-1", "passport_main")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(relPath, filepath.Join("applications", "passport_main")))
	assert.True(t, strings.HasSuffix(relPath, ".jpg"))

	content, err := os.ReadFile(store.Resolve(relPath))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), content)
}

func TestSavePhotoUniquePaths(t *testing.T) {
	store := NewStore(t.TempDir())
	dl := &fakeDownloader{content: []byte("x")}

	first, err := store.SavePhoto(context.Background(), dl, "file-1", "passport_main")
	require.NoError(t, err)
	second, err := store.SavePhoto(context.Background(), dl, "file-1", "passport_main")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSavePhotoEmptyFieldFallsBackToMisc(t *testing.T) {
	store := NewStore(t.TempDir())
	dl := &fakeDownloader{content: []byte("x")}

	relPath, err := store.SavePhoto(context.Background(), dl, "file-1", "")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(relPath, filepath.Join("applications", "misc")))
}

func TestSavePhotoWrapsDownloadErrors(t *testing.T) {
	store := NewStore(t.TempDir())
	dl := &fakeDownloader{err: errors.New("file expired")}

	_, err := store.SavePhoto(context.Background(), dl, "file-1", "passport_main")

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMediaSaveFailed))
}
