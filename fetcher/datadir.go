package fetcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/neuromisc"
	"github.com/carbocation/pfx"
)

const (
	// EnvData names a single directory under which datasets are stored.
	EnvData = "NEUROMISC_DATA"

	// EnvSharedData is a list of read-mostly directories (separated by the OS
	// path-list separator) that are searched before EnvData.
	EnvSharedData = "NEUROMISC_SHARED_DATA"

	defaultDataDir = "~/neuromisc_data"
)

// candidateBases lists the directories that may hold the datasets, in order of
// preference. An explicit dataDir overrides the environment.
func candidateBases(dataDir string) []string {
	if dataDir != "" {
		return []string{dataDir}
	}

	var bases []string
	for _, p := range filepath.SplitList(os.Getenv(EnvSharedData)) {
		if strings.TrimSpace(p) != "" {
			bases = append(bases, p)
		}
	}
	if p := os.Getenv(EnvData); p != "" {
		bases = append(bases, p)
	}

	return append(bases, defaultDataDir)
}

// DatasetDir returns the local directory for the named dataset. The first
// candidate base that already holds the dataset wins; otherwise the directory
// is created under the first base where that succeeds.
func DatasetDir(name, dataDir string) (string, error) {
	bases := candidateBases(dataDir)

	paths := make([]string, 0, len(bases))
	for _, base := range bases {
		base, err := neuromisc.ExpandHome(base)
		if err != nil {
			return "", err
		}
		paths = append(paths, filepath.Join(base, name))
	}

	for _, path := range paths {
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			return path, nil
		}
	}

	var errs []string
	for _, path := range paths {
		if err := os.MkdirAll(path, 0755); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		return path, nil
	}

	return "", pfx.Err(fmt.Errorf("could not create a directory for dataset %s: %s", name, strings.Join(errs, "; ")))
}
