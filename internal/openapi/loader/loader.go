// Package loader implements the openapi.Loader contract with file, fs.FS,
// and HTTP strategies. Construction helpers live in the top-level formstate
// package.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
)

// Loader resolves Source values into raw documents. HTTP support is opt-in
// through the options; file and fs.FS lookups always work.
type Loader struct {
	fs      fs.FS
	client  *http.Client
	timeout time.Duration
}

// Ensure the implementation satisfies the public interface.
var _ pkgopenapi.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options pkgopenapi.LoaderOptions) pkgopenapi.Loader {
	loader := &Loader{
		fs:      options.FileSystem,
		timeout: options.RequestTimeout,
	}
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if loader.timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = loader.timeout
		}
		loader.client = &clone
	case options.AllowHTTPFallback:
		loader.client = &http.Client{Timeout: loader.timeout}
	}
	return loader
}

// Load fetches the document behind src and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("openapi loader: source is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case pkgopenapi.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case pkgopenapi.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case pkgopenapi.SourceKindURL:
		if l.client == nil {
			return pkgopenapi.Document{}, errors.New("openapi loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.client, src.Location(), l.timeout)
	default:
		err = errors.New("openapi loader: unsupported source kind")
	}
	if err != nil {
		return pkgopenapi.Document{}, err
	}

	return pkgopenapi.NewDocument(src, data)
}
