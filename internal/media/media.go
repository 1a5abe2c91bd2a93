// Package media stores user uploaded post images.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"regexp"
	"strings"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 10 << 20

// PostsPrefix is the key prefix post images are stored under.
const PostsPrefix = "posts/"

// ErrInvalidImage is returned for uploads that are not a readable image.
var ErrInvalidImage = errors.New("upload a valid image")

// Store persists media objects and knows their public URL.
type Store interface {
	// Save writes r under a key derived from name and returns the final key,
	// which may differ from name when it is already taken.
	Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error)
	// URL returns the address browsers load key from.
	URL(key string) string
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SaveImage validates an uploaded file as an image and stores it under
// PostsPrefix. The returned error wraps ErrInvalidImage for bad uploads.
func SaveImage(ctx context.Context, store Store, fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxImageSize {
		return "", fmt.Errorf("%w: file is larger than %d bytes", ErrInvalidImage, MaxImageSize)
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	if n == 0 || !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: the file you uploaded was either not an image or a corrupted image", ErrInvalidImage)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	key, err := store.Save(ctx, PostsPrefix+CleanName(fh.Filename), f, contentType)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return key, nil
}

// CleanName reduces a client supplied file name to a safe base name.
func CleanName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "._")
	if name == "" {
		return "image"
	}
	return name
}

// withSuffix inserts suffix before the extension: posts/a.gif -> posts/a_x.gif.
func withSuffix(key, suffix string) string {
	ext := path.Ext(key)
	return strings.TrimSuffix(key, ext) + "_" + suffix + ext
}
