package tui

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// FileMetaFromPath builds the metadata recorded for a file field from a path
// on disk. The file contents are never read.
func FileMetaFromPath(path string) (model.FileMeta, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.FileMeta{}, fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}
	if info.IsDir() {
		return model.FileMeta{}, fmt.Errorf("%w: %s is a directory", ErrFileUnreadable, path)
	}

	contentType := mime.TypeByExtension(filepath.Ext(info.Name()))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return model.FileMeta{
		Name:         info.Name(),
		Size:         info.Size(),
		Type:         contentType,
		LastModified: info.ModTime().UnixMilli(),
	}, nil
}
