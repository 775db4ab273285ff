package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
)

func TestLocalImageStorage_SaveResizesAndServes(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalImageStorage(dir, "/uploads", 1200)
	if err != nil {
		t.Fatalf("NewLocalImageStorage() error = %v", err)
	}
	ctx := context.Background()

	url, err := storage.Save(ctx, 5, "My Coin Photo.PNG", pngBytes(t, 2400, 10))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/5/my-coin-photo-") || !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q", url)
	}

	local := filepath.Join(dir, "5", filepath.Base(url))
	img, err := imaging.Open(local)
	if err != nil {
		t.Fatalf("open stored file: %v", err)
	}
	if w := img.Bounds().Dx(); w != 1200 {
		t.Errorf("stored width = %d, want 1200", w)
	}

	rec := httptest.NewRecorder()
	storage.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET %s = %d", url, rec.Code)
	}

	rec = httptest.NewRecorder()
	storage.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/5/", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("directory listing status = %d, want 404", rec.Code)
	}

	if err := storage.Delete(ctx, url); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(local); !os.IsNotExist(err) {
		t.Errorf("file still present after delete: %v", err)
	}
	if err := storage.Delete(ctx, url); err != nil {
		t.Errorf("second Delete() should be a no-op, got %v", err)
	}
}

func TestLocalImageStorage_SmallImagesKeepSize(t *testing.T) {
	storage, err := NewLocalImageStorage(t.TempDir(), "/uploads", 1200)
	if err != nil {
		t.Fatalf("NewLocalImageStorage() error = %v", err)
	}
	url, err := storage.Save(context.Background(), 1, "small.png", pngBytes(t, 300, 200))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	img, err := imaging.Open(filepath.Join(storage.dir, "1", filepath.Base(url)))
	if err != nil {
		t.Fatalf("open stored file: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 200 {
		t.Errorf("size = %dx%d, want 300x200", b.Dx(), b.Dy())
	}
}

func TestLocalImageStorage_RejectsForeignURLs(t *testing.T) {
	storage, err := NewLocalImageStorage(t.TempDir(), "/uploads", 1200)
	if err != nil {
		t.Fatalf("NewLocalImageStorage() error = %v", err)
	}
	ctx := context.Background()

	for _, url := range []string{
		"/uploads/../../etc/passwd",
		"https://cdn.example.com/a.jpg",
		"/uploads/",
	} {
		if err := storage.Delete(ctx, url); err == nil {
			t.Errorf("Delete(%q) should fail", url)
		}
	}

	if _, err := storage.Save(ctx, 1, "x.txt", []byte("plain text")); err == nil {
		t.Error("Save() of non-image should fail")
	}
}

func TestLocalImageStorage_ConcurrentSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalImageStorage(dir, "/uploads", 1200)
	if err != nil {
		t.Fatalf("NewLocalImageStorage() error = %v", err)
	}
	ctx := context.Background()
	data := pngBytes(t, 20, 20)

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			url, err := storage.Save(ctx, 9, "coin.png", data)
			if err != nil {
				errs <- err
				return
			}
			errs <- storage.Delete(ctx, url)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("save/delete: %v", err)
		}
	}

	if info, err := os.Stat(filepath.Join(dir, "9")); err != nil || !info.IsDir() {
		t.Errorf("product directory should survive deletes: %v", err)
	}
	if _, err := storage.Save(ctx, 9, "coin.png", data); err != nil {
		t.Errorf("Save() after deletes error = %v", err)
	}
}
