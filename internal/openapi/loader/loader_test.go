package loader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formstate/internal/openapi/loader"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
)

const minimalDoc = `{"openapi":"3.0.0","info":{"title":"t","version":"1"},"paths":{}}`

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "spec.json")
	if err := os.WriteFile(path, []byte(minimalDoc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ldr := loader.New(pkgopenapi.NewLoaderOptions())
	doc, err := ldr.Load(context.Background(), pkgopenapi.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if string(doc.Raw()) != minimalDoc {
		t.Fatalf("raw payload = %q, want fixture contents", doc.Raw())
	}
	if doc.Location() != path {
		t.Fatalf("location = %q, want %q", doc.Location(), path)
	}
}

func TestLoadFromFS(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"specs/api.json": &fstest.MapFile{Data: []byte(minimalDoc)},
	}

	ldr := loader.New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(files)))
	doc, err := ldr.Load(context.Background(), pkgopenapi.SourceFromFS("specs/api.json"))
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if string(doc.Raw()) != minimalDoc {
		t.Fatalf("raw payload = %q, want fixture contents", doc.Raw())
	}
}

func TestLoadFromFSWithoutFilesystem(t *testing.T) {
	t.Parallel()

	ldr := loader.New(pkgopenapi.NewLoaderOptions())
	if _, err := ldr.Load(context.Background(), pkgopenapi.SourceFromFS("specs/api.json")); err == nil {
		t.Fatal("expected error when filesystem is not configured")
	}
}

func TestLoadFromURL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(minimalDoc))
	}))
	defer server.Close()

	ldr := loader.New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPFallback(0)))
	doc, err := ldr.Load(context.Background(), pkgopenapi.SourceFromURL(server.URL))
	if err != nil {
		t.Fatalf("load url: %v", err)
	}
	if string(doc.Raw()) != minimalDoc {
		t.Fatalf("raw payload = %q, want served contents", doc.Raw())
	}
}

func TestLoadFromURLDisabledByDefault(t *testing.T) {
	t.Parallel()

	ldr := loader.New(pkgopenapi.NewLoaderOptions())
	if _, err := ldr.Load(context.Background(), pkgopenapi.SourceFromURL("http://127.0.0.1:0/spec")); err == nil {
		t.Fatal("expected http loading to be disabled without opt-in")
	}
}

func TestLoadFromURLRejectsErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	ldr := loader.New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPFallback(0)))
	if _, err := ldr.Load(context.Background(), pkgopenapi.SourceFromURL(server.URL)); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestLoadNilSource(t *testing.T) {
	t.Parallel()

	ldr := loader.New(pkgopenapi.NewLoaderOptions())
	if _, err := ldr.Load(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil source")
	}
}

func TestLoadHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ldr := loader.New(pkgopenapi.NewLoaderOptions())
	if _, err := ldr.Load(ctx, pkgopenapi.SourceFromFile("does-not-matter.json")); err == nil {
		t.Fatal("expected context cancellation error")
	}
}
