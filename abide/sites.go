package abide

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownSite is returned for a SITE_ID that has no folder mapping. This
// points at inconsistent data rather than a missing download.
var ErrUnknownSite = errors.New("unknown site")

// siteFolders maps the phenotype file's SITE_ID to the folder-name prefix of
// the per-subject directories. Sites scanned in two waves share a folder.
var siteFolders = map[string]string{
	"CALTECH":  "Caltech",
	"CMU":      "CMU",
	"KKI":      "KKI",
	"LEUVEN_1": "Leuven",
	"LEUVEN_2": "Leuven",
	"MAX_MUN":  "MaxMun",
	"NYU":      "NYU",
	"OHSU":     "OHSU",
	"OLIN":     "Olin",
	"PITT":     "Pitt",
	"SBL":      "SBL",
	"SDSU":     "SDSU",
	"STANFORD": "Stanford",
	"TRINITY":  "Trinity",
	"UCLA_1":   "UCLA",
	"UCLA_2":   "UCLA",
	"UM_1":     "UM",
	"UM_2":     "UM",
	"USM":      "USM",
	"YALE":     "Yale",
}

// SiteFolder returns the folder-name prefix for a site identifier.
func SiteFolder(site string) (string, error) {
	folder, exists := siteFolders[site]
	if !exists {
		return "", fmt.Errorf("%w %q", ErrUnknownSite, site)
	}

	return folder, nil
}

// SubjectFolder is the per-subject directory name, e.g. Yale_50551.
func SubjectFolder(site, subjectID string) (string, error) {
	folder, err := SiteFolder(site)
	if err != nil {
		return "", err
	}

	return folder + "_" + subjectID, nil
}

// Sites lists the known site identifiers, sorted.
func Sites() []string {
	out := make([]string, 0, len(siteFolders))
	for site := range siteFolders {
		out = append(out, site)
	}
	sort.Strings(out)
	return out
}
