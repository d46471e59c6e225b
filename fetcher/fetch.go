package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/neuromisc"
	"github.com/carbocation/pfx"
)

// File describes one resource to retrieve into a dataset directory. Name is
// the path, relative to the dataset directory, that must exist once the fetch
// is complete. When Uncompress is set, the resource at URL is an archive (or a
// compressed file) that provides Name once extracted.
type File struct {
	Name       string
	URL        string
	Uncompress bool
}

// Dataset is a local cache directory for one named dataset.
type Dataset struct {
	Name string

	// Google Storage client used for gs:// URLs. May be nil if no such URLs
	// are fetched.
	StorageClient *storage.Client

	// HTTPClient is used for http:// and https:// URLs. If nil,
	// http.DefaultClient is used.
	HTTPClient *http.Client

	Verbose bool

	dir string
}

// New resolves (creating if needed) the directory of the named dataset. See
// DatasetDir for the search order.
func New(name, dataDir string) (*Dataset, error) {
	dir, err := DatasetDir(name, dataDir)
	if err != nil {
		return nil, err
	}

	return &Dataset{Name: name, dir: dir}, nil
}

// Dir is the dataset's local directory.
func (d *Dataset) Dir() string {
	return d.dir
}

// Fetch makes sure every file is present in the dataset directory and returns
// their local paths, in the order given. Files that already exist are not
// retrieved again. The first failure aborts the fetch; nothing is retried.
func (d *Dataset) Fetch(ctx context.Context, files ...File) ([]string, error) {
	out := make([]string, 0, len(files))

	for _, file := range files {
		target := filepath.Join(d.dir, filepath.FromSlash(file.Name))

		if _, err := os.Stat(target); err == nil {
			out = append(out, target)
			continue
		}

		if d.Verbose {
			log.Printf("Fetching %s from %s\n", file.Name, file.URL)
		}

		if err := d.retrieve(ctx, file); err != nil {
			return nil, err
		}

		if _, err := os.Stat(target); err != nil {
			return nil, pfx.Err(fmt.Errorf("%s was not found in the dataset %s after fetching %s", file.Name, d.Name, file.URL))
		}

		out = append(out, target)
	}

	return out, nil
}

// retrieve downloads file.URL next to its final destination and either moves
// it into place or extracts it.
func (d *Dataset) retrieve(ctx context.Context, file File) error {
	rc, err := neuromisc.OpenSource(ctx, file.URL, d.StorageClient, d.HTTPClient)
	if err != nil {
		return err
	}
	defer rc.Close()

	tmp, err := os.CreateTemp(d.dir, ".fetch-*")
	if err != nil {
		return pfx.Err(err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	n, err := io.Copy(tmp, rc)
	if err != nil {
		tmp.Close()
		return pfx.Err(fmt.Errorf("%s: %w", file.URL, err))
	}
	if err := tmp.Close(); err != nil {
		return pfx.Err(err)
	}

	if d.Verbose {
		log.Printf("Retrieved %d bytes from %s\n", n, file.URL)
	}

	if file.Uncompress {
		return d.extractIntoPlace(tmpName, path.Base(file.URL), file.Name)
	}

	target := filepath.Join(d.dir, filepath.FromSlash(file.Name))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return pfx.Err(err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// extractIntoPlace unpacks the archive into a scratch directory inside the
// dataset directory, and only once every member has been written moves the
// top-level entries into the dataset directory. A failed extraction leaves
// nothing behind. The entry that holds name is moved last, so its presence
// means the rest of the archive is in place.
func (d *Dataset) extractIntoPlace(archivePath, archiveName, name string) error {
	scratch, err := os.MkdirTemp(d.dir, ".extract-*")
	if err != nil {
		return pfx.Err(err)
	}
	defer os.RemoveAll(scratch)

	if err := Extract(archivePath, archiveName, scratch); err != nil {
		return err
	}

	entries, err := os.ReadDir(scratch)
	if err != nil {
		return pfx.Err(err)
	}

	last := strings.SplitN(filepath.ToSlash(name), "/", 2)[0]
	var deferred os.DirEntry
	for _, entry := range entries {
		if entry.Name() == last {
			deferred = entry
			continue
		}
		if err := moveEntry(scratch, d.dir, entry.Name()); err != nil {
			return err
		}
	}

	if deferred != nil {
		return moveEntry(scratch, d.dir, deferred.Name())
	}

	return nil
}

// moveEntry renames from/entry to to/entry, replacing whatever was there.
func moveEntry(from, to, entry string) error {
	target := filepath.Join(to, entry)

	if _, err := os.Lstat(target); err == nil {
		if err := os.RemoveAll(target); err != nil {
			return pfx.Err(err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return pfx.Err(err)
	}

	if err := os.Rename(filepath.Join(from, entry), target); err != nil {
		return pfx.Err(err)
	}

	return nil
}
