package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// ImageStorage normalises and stores uploaded images and hands back an opaque URL.
type ImageStorage interface {
	Save(ctx context.Context, productID uint, originalName string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

var ErrUnsupportedImage = errors.New("unsupported image format")

type LocalImageStorage struct {
	dir       string
	urlPrefix string
	maxWidth  int
	quality   int
}

func NewLocalImageStorage(dir, urlPrefix string, maxWidth int) (*LocalImageStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if maxWidth <= 0 {
		maxWidth = 1200
	}
	return &LocalImageStorage{
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		maxWidth:  maxWidth,
		quality:   80,
	}, nil
}

func (s *LocalImageStorage) Save(ctx context.Context, productID uint, originalName string, data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if img.Bounds().Dx() > s.maxWidth {
		img = imaging.Resize(img, s.maxWidth, 0, imaging.Lanczos)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	outFormat, ext := imaging.JPEG, ".jpg"
	if format == "png" || format == "gif" {
		outFormat, ext = imaging.PNG, ".png"
	}

	base := helpers.GenerateSlug(strings.TrimSuffix(originalName, filepath.Ext(originalName)))
	if len(base) > 60 {
		base = strings.Trim(base[:60], "-")
	}
	if base == "" {
		base = "image"
	}
	name := base + "-" + uuid.NewString()[:8] + ext

	productDir := filepath.Join(s.dir, strconv.FormatUint(uint64(productID), 10))
	if err := os.MkdirAll(productDir, 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(productDir, ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if err := imaging.Encode(tmp, img, outFormat, imaging.JPEGQuality(s.quality)); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(productDir, name)); err != nil {
		return "", err
	}

	return path.Join(s.urlPrefix, strconv.FormatUint(uint64(productID), 10), name), nil
}

// Delete is idempotent; a missing file is not an error. Product directories
// are left in place so a concurrent Save never loses its target directory.
func (s *LocalImageStorage) Delete(ctx context.Context, url string) error {
	p, err := s.localPath(url)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalImageStorage) localPath(url string) (string, error) {
	rel := strings.TrimPrefix(url, s.urlPrefix+"/")
	if rel == url {
		return "", fmt.Errorf("url %q is not managed by this storage", url)
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("url %q escapes the upload directory", url)
	}
	return filepath.Join(s.dir, clean), nil
}

func (s *LocalImageStorage) URLPrefix() string {
	return s.urlPrefix
}

// Handler serves stored files. Directory listings are not exposed.
func (s *LocalImageStorage) Handler() http.Handler {
	fs := http.StripPrefix(s.urlPrefix+"/", http.FileServer(http.Dir(s.dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}
