package neuromisc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// SplitGoogleStoragePath splits a gs://bucket/path/to/object URL into its
// bucket and object names.
func SplitGoogleStoragePath(path string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// OpenSource opens a remote or local resource for reading. Supported forms
// are gs://bucket/object (requires client), http:// and https:// URLs,
// file:relative/path, file:///absolute/path and bare local paths. A nil
// httpClient falls back to http.DefaultClient.
func OpenSource(ctx context.Context, url string, client *storage.Client, httpClient *http.Client) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(url, "gs://"):
		if client == nil {
			return nil, fmt.Errorf("%s: a Google Storage client is required", url)
		}

		bucketName, pathName, err := SplitGoogleStoragePath(url)
		if err != nil {
			return nil, err
		}

		rdr, err := client.Bucket(bucketName).Object(pathName).NewReader(ctx)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %s", url, err))
		}

		return rdr, nil

	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		if httpClient == nil {
			httpClient = http.DefaultClient
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, pfx.Err(err)
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, pfx.Err(err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, pfx.Err(fmt.Errorf("%s: unexpected status %s", url, resp.Status))
		}

		return resp.Body, nil
	}

	f, err := os.Open(LocalPath(url))
	if err != nil {
		return nil, pfx.Err(err)
	}

	return f, nil
}

// LocalPath strips a file: or file:// scheme from url. Anything else is
// returned as-is.
func LocalPath(url string) string {
	if strings.HasPrefix(url, "file://") {
		return strings.TrimPrefix(url, "file://")
	}

	return strings.TrimPrefix(url, "file:")
}

// JoinURL appends name to a source prefix, using a slash separator regardless
// of scheme.
func JoinURL(prefix, name string) string {
	if prefix == "" {
		return name
	}

	if strings.HasSuffix(prefix, ":") {
		return prefix + name
	}

	return strings.TrimSuffix(prefix, "/") + "/" + name
}
