package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aussiebroadwan/recipebox/pkg/idx"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"
)

// MediaURLPrefix is where saved files are served from.
const MediaURLPrefix = "/media"

const DefaultMaxUploadBytes = 5 << 20

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Media stores uploaded images on local disk under ULID names.
type Media struct {
	Dir      string
	MaxBytes int64
}

// NewMedia ensures dir exists.
func NewMedia(dir string, maxBytes int64) (*Media, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Media{Dir: dir, MaxBytes: maxBytes}, nil
}

// SaveImage sniffs r, rejects anything that is not a known image type and
// returns the public URL of the stored copy.
func (m *Media) SaveImage(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, m.MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > m.MaxBytes {
		return "", ErrTooLarge
	}
	if len(data) == 0 {
		return "", invalid("Empty file")
	}

	ext, ok := imageExt[http.DetectContentType(data)]
	if !ok {
		return "", ErrUnsupportedMedia
	}

	name := idx.New().FileName(ext)
	if err := writeFileAtomic(filepath.Join(m.Dir, name), data); err != nil {
		return "", err
	}

	slogx.FromContext(ctx).Info("image stored", "name", name, "bytes", len(data))
	return MediaURLPrefix + "/" + name, nil
}

// Remove deletes a file stored by SaveImage. URLs that do not name one are
// ignored.
func (m *Media) Remove(ctx context.Context, url string) {
	name, ok := strings.CutPrefix(url, MediaURLPrefix+"/")
	if !ok {
		return
	}
	if _, _, err := idx.ParseFileName(name); err != nil {
		return
	}
	if err := os.Remove(filepath.Join(m.Dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		slogx.FromContext(ctx).Warn("remove image", "name", name, "error", err)
		return
	}
	slogx.FromContext(ctx).Info("image removed", "name", name)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("store upload: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("store upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store upload: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("store upload: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
