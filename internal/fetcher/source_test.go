package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDownloader struct {
	body  string
	calls []string
}

func (s *stubDownloader) DownloadToFile(_ context.Context, rawURL, path string) (int64, error) {
	s.calls = append(s.calls, rawURL)
	return int64(len(s.body)), os.WriteFile(path, []byte(s.body), 0o644)
}

func TestOpener_LocalPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte("id\n1\n"), 0o644))

	o := NewOpener(nil, nil, t.TempDir())
	got, err := o.Localize(context.Background(), path, ".csv")
	require.NoError(t, err)
	assert.Equal(t, path, got)

	got, err = o.Localize(context.Background(), "file://"+path, ".csv")
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestOpener_LocalErrors(t *testing.T) {
	o := NewOpener(nil, nil, t.TempDir())

	tests := []struct {
		name     string
		location string
		want     string
	}{
		{"empty", "  ", "empty location"},
		{"missing", filepath.Join(t.TempDir(), "nope.csv"), "stat"},
		{"directory", t.TempDir(), "is a directory"},
		{"scheme", "s3://bucket/listings.csv", "unsupported scheme"},
		{"no downloader", "https://example.com/listings.csv", "no downloader"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.Localize(context.Background(), tt.location, ".csv")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOpener_HTTPDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("id,price\n1,75\n"))
	}))
	defer srv.Close()

	o := NewOpener(newTestFetcher(1), nil, t.TempDir())
	defer o.Cleanup()

	got, err := o.Localize(context.Background(), srv.URL+"/data/listings.csv", ".csv")
	require.NoError(t, err)
	assert.Equal(t, "listings.csv", filepath.Base(got))

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "id,price\n1,75\n", string(data))
}

func TestOpener_FTPUsesDownloader(t *testing.T) {
	stub := &stubDownloader{body: "id\n1\n"}
	o := NewOpener(nil, stub, t.TempDir())

	got, err := o.Localize(context.Background(), "ftp://data.example.org/madrid/listings.csv", ".csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"ftp://data.example.org/madrid/listings.csv"}, stub.calls)
	assert.Equal(t, "listings.csv", filepath.Base(got))
}

func TestOpener_RemoteShapefileRejected(t *testing.T) {
	stub := &stubDownloader{body: "shp"}
	o := NewOpener(stub, stub, t.TempDir())

	for _, loc := range []string{
		"https://data.example.org/madrid/neighbourhoods.shp",
		"ftp://data.example.org/madrid/NEIGHBOURHOODS.SHP",
	} {
		_, err := o.Localize(context.Background(), loc, ".shp", ".geojson")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be zipped")
	}
	assert.Empty(t, stub.calls)

	_, err := o.Localize(context.Background(), "https://data.example.org/madrid/neighbourhoods.zip", ".shp")
	require.Error(t, err) // stub body is not a zip; the download itself went through
	assert.Len(t, stub.calls, 1)
}

func TestOpener_ZipArchive(t *testing.T) {
	zipPath := writeTestZIP(t, map[string]string{
		"README.txt":                 "madrid",
		"barrios/neighbourhoods.shp": "shp",
		"barrios/neighbourhoods.dbf": "dbf",
	})

	o := NewOpener(nil, nil, t.TempDir())
	got, err := o.Localize(context.Background(), zipPath, ".shp", ".geojson")
	require.NoError(t, err)
	assert.Equal(t, "neighbourhoods.shp", filepath.Base(got))

	_, err = o.Localize(context.Background(), zipPath, ".xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .xlsx file in archive")
}

func TestOpener_Cleanup(t *testing.T) {
	stub := &stubDownloader{body: "x"}
	o := NewOpener(stub, nil, t.TempDir())

	got, err := o.Localize(context.Background(), "http://example.com/listings.csv", ".csv")
	require.NoError(t, err)
	require.FileExists(t, got)

	o.Cleanup()
	assert.NoFileExists(t, got)
}
