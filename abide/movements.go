package abide

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/carbocation/neuromisc"
	"github.com/carbocation/neuromisc/criteria"
	"github.com/carbocation/neuromisc/fetcher"
	"github.com/carbocation/neuromisc/motion"
	"github.com/carbocation/neuromisc/phenotype"
	"gonum.org/v1/gonum/mat"
)

const (
	// DatasetName is the directory name of the dataset under the data dir.
	DatasetName = "abide_movements"

	// DefaultSource is where the phenotype file and the motion archive are
	// fetched from when Options.Source is empty.
	DefaultSource = "file:dataset"

	PhenotypeFile = "Phenotypic_V1_0b.csv"
	ReferenceFile = "sort.csv"
	MotionArchive = "abide_movements.tgz"
	MotionFile    = "rp_deleteorient_rest.txt"

	ColSiteID    = "SITE_ID"
	ColSubjectID = "SUB_ID"
)

// Source is the retrieval collaborator: a local dataset directory plus cached
// fetching into it. *fetcher.Dataset satisfies it.
type Source interface {
	Dir() string
	Fetch(ctx context.Context, files ...fetcher.File) ([]string, error)
}

// Options configures FetchMovements. Use NewOptions for the defaults.
type Options struct {
	// Source is the URL prefix holding PhenotypeFile and MotionArchive.
	Source string

	// Sort restricts the subjects to those included by the reference file, in
	// the reference file's order.
	Sort bool

	// MaxSubjects keeps only the first MaxSubjects subjects once everything
	// else is done. Zero means no limit.
	MaxSubjects int

	// Filters are column criteria that each subject must satisfy, e.g.
	// {"SEX": Equals(Int(1)), "AGE_AT_SCAN": Range(Unbounded, At(Int(18)))}.
	// Known columns include SUB_ID, SITE_ID, DX_GROUP (1 autism, 2 control),
	// DSM_IV_TR (0-4), AGE_AT_SCAN, SEX (1 male, 2 female),
	// HANDEDNESS_CATEGORY and HANDEDNESS_SCORE.
	Filters criteria.Filters

	Verbose bool
}

func NewOptions() Options {
	return Options{
		Source: DefaultSource,
		Sort:   true,
	}
}

// Movements pairs the selected phenotype rows with their motion series. Row i
// of Pheno belongs to Movement[i].
type Movements struct {
	Pheno    *phenotype.Table
	Movement []*mat.Dense
}

// Open resolves the dataset directory under dataDir (see fetcher.DatasetDir)
// and returns a Source for FetchMovements.
func Open(dataDir string) (*fetcher.Dataset, error) {
	return fetcher.New(DatasetName, dataDir)
}

// FetchMovements loads the ABIDE phenotype table and the motion parameters of
// every subject that survives, in this order:
//
//  1. the reference inclusion list and ordering, if opts.Sort is set;
//  2. opts.Filters;
//  3. availability of the subject's motion file;
//  4. truncation to opts.MaxSubjects.
//
// The order matters: the reference defines which subjects come first when
// MaxSubjects truncates. A subject without a motion file is dropped silently.
// Any other problem aborts the call without a partial result.
func FetchMovements(ctx context.Context, src Source, opts Options) (*Movements, error) {
	if opts.MaxSubjects < 0 {
		return nil, fmt.Errorf("MaxSubjects must not be negative, got %d", opts.MaxSubjects)
	}

	base := opts.Source
	if base == "" {
		base = DefaultSource
	}

	// The archive that carries the reference file also carries the
	// per-subject motion folders, so it is fetched even when Sort is off.
	paths, err := src.Fetch(ctx,
		fetcher.File{Name: PhenotypeFile, URL: neuromisc.JoinURL(base, PhenotypeFile)},
		fetcher.File{Name: ReferenceFile, URL: neuromisc.JoinURL(base, MotionArchive), Uncompress: true},
	)
	if err != nil {
		return nil, err
	}

	pheno, err := phenotype.Load(paths[0])
	if err != nil {
		return nil, err
	}

	if opts.Sort {
		reference, err := LoadReference(paths[1])
		if err != nil {
			return nil, err
		}

		if pheno, err = ApplyReference(pheno, reference); err != nil {
			return nil, err
		}
	}

	mask, err := criteria.EvaluateAll(pheno, opts.Filters)
	if err != nil {
		return nil, err
	}
	pheno = pheno.Select(mask)

	if opts.Verbose {
		log.Println(pheno.Len(), "subjects match the filters")
	}

	kept := make([]int, 0, pheno.Len())
	movement := make([]*mat.Dense, 0, pheno.Len())
	for i := 0; i < pheno.Len(); i++ {
		path, err := motionPath(src.Dir(), pheno, i)
		if err != nil {
			return nil, err
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			if opts.Verbose {
				log.Println("No motion file for", path, "-- skipping")
			}
			continue
		} else if err != nil {
			return nil, err
		}

		m, err := motion.Load(path)
		if err != nil {
			return nil, err
		}

		kept = append(kept, i)
		movement = append(movement, m)
	}
	pheno = pheno.Take(kept)

	if opts.MaxSubjects > 0 && opts.MaxSubjects < len(movement) {
		pheno = pheno.Head(opts.MaxSubjects)
		movement = movement[:opts.MaxSubjects]
	}

	return &Movements{Pheno: pheno, Movement: movement}, nil
}

func motionPath(dir string, pheno *phenotype.Table, row int) (string, error) {
	site, err := pheno.Value(row, ColSiteID)
	if err != nil {
		return "", err
	}
	id, err := pheno.Value(row, ColSubjectID)
	if err != nil {
		return "", err
	}

	folder, err := SubjectFolder(site.String(), id.String())
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, folder, MotionFile), nil
}
