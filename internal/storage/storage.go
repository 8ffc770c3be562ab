package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	inErrors "github.com/Alturino/storefront/internal/errors"
)

const PUBLIC_UPLOADS_PATH = "/public/uploads/"

var fileTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
	"image/jfif": "jfif",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// Storage keeps product images and turns their keys into public urls.
type Storage interface {
	Save(c context.Context, key string, contentType string, body io.Reader, size int64) error
	Delete(c context.Context, key string) error
	URL(baseURL string, key string) string
}

// FileName builds the stored name of an upload, the original name with
// spaces dashed followed by the upload time in unix millis and the
// extension of its content type.
func FileName(original string, contentType string, now time.Time) (string, error) {
	extension, ok := fileTypes[strings.ToLower(contentType)]
	if !ok {
		return "", inErrors.ErrInvalidImageType
	}
	name := strings.Join(strings.Split(path.Base(original), " "), "-")
	return fmt.Sprintf("%s-%d.%s", name, now.UnixMilli(), extension), nil
}

// KeyFromURL recovers the storage key from a url produced by URL.
func KeyFromURL(url string) string {
	if url == "" {
		return ""
	}
	return path.Base(url)
}
