package fetcher

import (
	"archive/tar"
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/neuromisc"
	"github.com/carbocation/pfx"
	"github.com/krolaw/zipstream"
)

// Offset and magic of the ustar header field in a tar block.
const (
	tarMagicOffset = 257
	tarMagic       = "ustar"
)

// Extract unpacks the archive at archivePath into destDir. Zip and tar
// archives (plain, or gzip, bzip2 or xz compressed) are unpacked member by
// member. A compressed file that is not a tar is decompressed to destDir under
// name with its compression suffix removed.
func Extract(archivePath, name, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	r, dt, err := neuromisc.MaybeDecompress(f)
	if err != nil {
		return pfx.Err(fmt.Errorf("%s: %w", name, err))
	}

	if dt == neuromisc.DataTypeZip {
		return extractZip(r, destDir)
	}

	br := bufio.NewReaderSize(r, 4096)
	if isTar(br) {
		return extractTar(br, destDir)
	}

	if dt == neuromisc.DataTypeNoCompression {
		return fmt.Errorf("%s is neither compressed nor an archive", name)
	}

	return writeFile(filepath.Join(destDir, trimCompressionSuffix(name)), br)
}

func isTar(br *bufio.Reader) bool {
	head, err := br.Peek(tarMagicOffset + len(tarMagic))
	if err != nil {
		return false
	}

	return bytes.Equal(head[tarMagicOffset:], []byte(tarMagic))
}

func extractTar(r io.Reader, destDir string) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			// Read past the end-of-archive blocks so that a truncated or
			// corrupt compressed stream fails its trailer check.
			if _, err := io.Copy(io.Discard, r); err != nil {
				return pfx.Err(err)
			}
			return nil
		} else if err != nil {
			return pfx.Err(err)
		}

		target, err := memberPath(destDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return pfx.Err(err)
			}
		case tar.TypeReg, tar.TypeRegA:
			if err := writeFile(target, tr); err != nil {
				return err
			}
		}
	}
}

func extractZip(r io.Reader, destDir string) error {
	zr := zipstream.NewReader(r)
	for {
		hdr, err := zr.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return pfx.Err(err)
		}

		target, err := memberPath(destDir, hdr.Name)
		if err != nil {
			return err
		}

		if strings.HasSuffix(hdr.Name, "/") {
			if err := os.MkdirAll(target, 0755); err != nil {
				return pfx.Err(err)
			}
			continue
		}

		if err := writeFile(target, zr); err != nil {
			return err
		}
	}
}

// memberPath resolves an archive member name below destDir, refusing names
// that would land outside of it.
func memberPath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))

	rel, err := filepath.Rel(destDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(name) {
		return "", fmt.Errorf("archive member %q escapes the destination directory", name)
	}

	return target, nil
}

func writeFile(target string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return pfx.Err(err)
	}

	out, err := os.Create(target)
	if err != nil {
		return pfx.Err(err)
	}

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return pfx.Err(fmt.Errorf("%s: %w", target, err))
	}

	return out.Close()
}

var compressionSuffixes = []string{".gz", ".tgz", ".bz2", ".xz", ".zip"}

func trimCompressionSuffix(name string) string {
	for _, suffix := range compressionSuffixes {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}

	return name
}
