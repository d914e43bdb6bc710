package fetcher

import (
	"context"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// Fetcher defines the interface for reading a dataset source.
type Fetcher interface {
	// Download fetches the source and returns its body.
	Download(ctx context.Context, source string) (io.ReadCloser, error)
}

// MaxBodyBytes caps how much of a source is read into memory.
const MaxBodyBytes = 32 << 20

// IsRemote reports whether source is an http(s) URL rather than a local path.
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Router picks the HTTP or file fetcher based on the source scheme.
type Router struct {
	HTTP Fetcher
	File Fetcher
}

// NewRouter creates a Router with an HTTP fetcher built from opts and a file fetcher.
func NewRouter(opts HTTPOptions) *Router {
	return &Router{
		HTTP: NewHTTPFetcher(opts),
		File: NewFileFetcher(),
	}
}

// Download dispatches to the fetcher that handles source.
func (r *Router) Download(ctx context.Context, source string) (io.ReadCloser, error) {
	if IsRemote(source) {
		if r.HTTP == nil {
			return nil, eris.Errorf("fetcher: no http fetcher configured for %s", source)
		}
		return r.HTTP.Download(ctx, source)
	}
	if r.File == nil {
		return nil, eris.Errorf("fetcher: no file fetcher configured for %s", source)
	}
	return r.File.Download(ctx, source)
}

// ReadAll downloads source in one round trip and returns the full body.
func ReadAll(ctx context.Context, f Fetcher, source string) ([]byte, error) {
	body, err := f.Download(ctx, source)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(body, MaxBodyBytes+1))
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read %s", source)
	}
	if len(data) > MaxBodyBytes {
		return nil, eris.Errorf("fetcher: %s exceeds %d bytes", source, MaxBodyBytes)
	}
	return data, nil
}
