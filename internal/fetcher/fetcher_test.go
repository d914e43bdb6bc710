package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("http://example.com/a.geojson"))
	assert.True(t, IsRemote("HTTPS://example.com/a.geojson"))
	assert.False(t, IsRemote("data/attendance.geojson"))
	assert.False(t, IsRemote("file:///tmp/a.geojson"))
}

func TestFileFetcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teams.geojson")
	require.NoError(t, writeTestFile(path, "file content here"))

	f := NewFileFetcher()
	body, err := f.Download(context.Background(), path)
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "file content here", string(data))
}

func TestFileFetcher_FileScheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teams.geojson")
	require.NoError(t, writeTestFile(path, "x"))

	body, err := NewFileFetcher().Download(context.Background(), "file://"+path)
	require.NoError(t, err)
	body.Close()
}

func TestFileFetcher_Missing(t *testing.T) {
	_, err := NewFileFetcher().Download(context.Background(), filepath.Join(t.TempDir(), "nope.geojson"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file: open")
}

func TestRouter_Dispatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "local.geojson")
	require.NoError(t, writeTestFile(path, "local"))

	r := NewRouter(HTTPOptions{UserAgent: "test-agent"})

	data, err := ReadAll(context.Background(), r, srv.URL+"/x")
	require.NoError(t, err)
	assert.Equal(t, "remote", string(data))

	data, err = ReadAll(context.Background(), r, path)
	require.NoError(t, err)
	assert.Equal(t, "local", string(data))
}

func TestRouter_MissingFetcher(t *testing.T) {
	r := &Router{}
	_, err := r.Download(context.Background(), "https://example.com/x")
	assert.Error(t, err)
	_, err = r.Download(context.Background(), "local.geojson")
	assert.Error(t, err)
}

type stubFetcher struct {
	body string
}

func (s stubFetcher) Download(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func TestReadAll_TooLarge(t *testing.T) {
	big := strings.Repeat("a", MaxBodyBytes+1)
	_, err := ReadAll(context.Background(), stubFetcher{body: big}, "big")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}
