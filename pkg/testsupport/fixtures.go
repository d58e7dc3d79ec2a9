// Package testsupport holds helpers shared by tests across packages:
// fixture loading, golden files, and template output capture.
package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-formstate/pkg/control"
	"github.com/goliatone/go-formstate/pkg/model"
)

// MustLoadFormSpec reads and parses a YAML or JSON form definition fixture.
func MustLoadFormSpec(t *testing.T, path string) model.FormSpec {
	t.Helper()

	spec, err := LoadFormSpec(path)
	if err != nil {
		t.Fatalf("load form spec: %v", err)
	}
	return spec
}

// LoadFormSpec parses a form definition fixture without requiring
// testing.T, so callers can wire fixtures in setup functions.
func LoadFormSpec(path string) (model.FormSpec, error) {
	if path == "" {
		return model.FormSpec{}, errors.New("testsupport: form spec path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.FormSpec{}, fmt.Errorf("testsupport: read form spec: %w", err)
	}
	return model.ParseYAML(data)
}

// MustControl builds the spec's control, failing the test when construction
// errors.
func MustControl(t *testing.T, spec model.FormSpec) *control.Control {
	t.Helper()

	ctrl, err := spec.Control()
	if err != nil {
		t.Fatalf("build control: %v", err)
	}
	return ctrl
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
// Tests can assert the renderer returns and writes the same payload without
// duplicating buffer setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
