package fetcher

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Downloader fetches a remote file to a local path.
type Downloader interface {
	DownloadToFile(ctx context.Context, rawURL, path string) (int64, error)
}

// Opener turns a data source location into a readable local file. Remote
// files are spooled under a temporary directory that Cleanup removes.
type Opener struct {
	HTTP    Downloader
	FTP     Downloader
	TempDir string // parent for spool directories; os.TempDir() when empty

	mu   sync.Mutex
	dirs []string
}

// NewOpener creates an Opener with the given downloaders.
func NewOpener(httpFetcher, ftpFetcher Downloader, tempDir string) *Opener {
	return &Opener{HTTP: httpFetcher, FTP: ftpFetcher, TempDir: tempDir}
}

// Localize resolves location to a local file path. location may be a
// filesystem path, a file:// URL, an http(s):// URL or an ftp:// URL; remote
// shapefiles must be served as a ZIP archive. When the
// resolved file is a ZIP archive it is extracted and the first entry whose
// name ends in one of exts is returned.
func (o *Opener) Localize(ctx context.Context, location string, exts ...string) (string, error) {
	if strings.TrimSpace(location) == "" {
		return "", eris.New("source: empty location")
	}

	local, err := o.resolve(ctx, location)
	if err != nil {
		return "", err
	}

	if !strings.EqualFold(filepath.Ext(local), ".zip") || hasExt(local, exts) {
		return local, nil
	}

	dir, err := o.spoolDir()
	if err != nil {
		return "", err
	}
	files, err := ExtractZIP(local, dir)
	if err != nil {
		return "", eris.Wrapf(err, "source: extract %s", location)
	}
	found, ok := FindByExt(files, exts...)
	if !ok {
		return "", eris.Errorf("source: no %s file in archive %s", strings.Join(exts, "/"), location)
	}
	return found, nil
}

func (o *Opener) resolve(ctx context.Context, location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil || len(u.Scheme) <= 1 {
		// Plain paths, including Windows drive letters.
		return statLocal(location)
	}

	var d Downloader
	switch strings.ToLower(u.Scheme) {
	case "file":
		return statLocal(u.Path)
	case "http", "https":
		d = o.HTTP
	case "ftp":
		d = o.FTP
	default:
		return "", eris.Errorf("source: unsupported scheme %q", u.Scheme)
	}
	if d == nil {
		return "", eris.Errorf("source: no downloader for %s", u.Scheme)
	}
	// A shapefile needs its .dbf and .shx siblings, so remote ones only
	// work as a ZIP archive.
	if strings.EqualFold(path.Ext(u.Path), ".shp") {
		return "", eris.Errorf("source: remote shapefile %s must be zipped with its .dbf and .shx", location)
	}

	dir, err := o.spoolDir()
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		name = "download"
	}
	dest := filepath.Join(dir, name)

	n, err := d.DownloadToFile(ctx, location, dest)
	if err != nil {
		return "", eris.Wrapf(err, "source: download %s", location)
	}
	zap.L().Info("source: downloaded",
		zap.String("url", location),
		zap.String("path", dest),
		zap.Int64("bytes", n),
	)
	return dest, nil
}

func (o *Opener) spoolDir() (string, error) {
	dir, err := os.MkdirTemp(o.TempDir, "madrid-listings-*")
	if err != nil {
		return "", eris.Wrap(err, "source: create temp dir")
	}
	o.mu.Lock()
	o.dirs = append(o.dirs, dir)
	o.mu.Unlock()
	return dir, nil
}

// Cleanup removes every spool directory created so far.
func (o *Opener) Cleanup() {
	o.mu.Lock()
	dirs := o.dirs
	o.dirs = nil
	o.mu.Unlock()

	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			zap.L().Warn("source: remove temp dir", zap.String("dir", dir), zap.Error(err))
		}
	}
}

func statLocal(p string) (string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return "", eris.Wrapf(err, "source: stat %s", p)
	}
	if info.IsDir() {
		return "", eris.Errorf("source: %s is a directory", p)
	}
	return p, nil
}

func hasExt(p string, exts []string) bool {
	_, ok := FindByExt([]string{p}, exts...)
	return ok
}
