package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type LocalStorage struct {
	dir string
}

var _ Storage = (*LocalStorage)(nil)

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed creating upload dir with error=%w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (l *LocalStorage) Dir() string {
	return l.dir
}

func (l *LocalStorage) path(key string) string {
	return filepath.Join(l.dir, filepath.Base(key))
}

func (l *LocalStorage) Save(c context.Context, key string, contentType string, body io.Reader, size int64) error {
	if err := c.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed creating temp file with error=%w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed writing image with error=%w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed closing image with error=%w", err)
	}
	if err = os.Rename(tmp.Name(), l.path(key)); err != nil {
		return fmt.Errorf("failed moving image with error=%w", err)
	}
	return nil
}

func (l *LocalStorage) Delete(c context.Context, key string) error {
	err := os.Remove(l.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed deleting image with error=%w", err)
	}
	return nil
}

func (l *LocalStorage) URL(baseURL string, key string) string {
	return strings.TrimRight(baseURL, "/") + PUBLIC_UPLOADS_PATH + key
}
