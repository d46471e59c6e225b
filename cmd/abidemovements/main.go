package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/neuromisc/abide"
	"github.com/carbocation/neuromisc/compileinfo"
	"github.com/carbocation/neuromisc/criteria"
	"github.com/carbocation/neuromisc/motion"
	"github.com/carbocation/neuromisc/phenotype"
	"google.golang.org/api/option"
)

func main() {
	fmt.Fprintf(os.Stderr, "%q\n", os.Args)

	var dataDir, source, outFile string
	var filters flagSlice
	var nSubjects int
	var noSort, gsAnonymous, verbose, listSites bool
	var radius float64

	flag.StringVar(&dataDir, "data-dir", "", "Directory under which the dataset is cached. If empty, $NEUROMISC_SHARED_DATA, $NEUROMISC_DATA and then ~/neuromisc_data are tried.")
	flag.StringVar(&source, "source", abide.DefaultSource, "Location of Phenotypic_V1_0b.csv and abide_movements.tgz. May be file:, http(s):// or gs://.")
	flag.Var(&filters, "filter", "COLUMN=CRITERION. Pass once per column (e.g., -filter SEX=1 -filter AGE_AT_SCAN=:18 -filter SITE_ID=NYU,YALE). A criterion is a value, a lo:hi range (either side may be empty), or a comma-separated list of these. Double-quote a value to match it as text, e.g. NOTE=\"a,b\".")
	flag.IntVar(&nSubjects, "n", 0, "Keep only the first n subjects once all filtering is done. 0 keeps all.")
	flag.BoolVar(&noSort, "nosort", false, "Use all subjects in phenotype file order, rather than those included by the reference file in its order.")
	flag.Float64Var(&radius, "radius", motion.DefaultHeadRadius, "Head radius (mm) used to convert rotations to displacement for framewise displacement.")
	flag.BoolVar(&gsAnonymous, "gs-anonymous", false, "Access gs:// sources without credentials (for public buckets).")
	flag.BoolVar(&verbose, "verbose", false, "Log build information and progress.")
	flag.BoolVar(&listSites, "sites", false, "Print the known SITE_ID values and exit.")
	flag.StringVar(&outFile, "out", "", "Output file. If not specified, writes to stdout.")
	flag.Parse()

	if listSites {
		for _, site := range abide.Sites() {
			folder, _ := abide.SiteFolder(site)
			fmt.Printf("%s\t%s\n", site, folder)
		}
		return
	}

	parsed, err := criteria.ParseFilters(filters)
	if err != nil {
		log.Fatalln(err)
	}

	ctx := context.Background()

	ds, err := abide.Open(dataDir)
	if err != nil {
		log.Fatalln(err)
	}
	ds.Verbose = verbose

	// Initialize the Google Storage client only if we're pointing to Google
	// Storage paths.
	if strings.HasPrefix(source, "gs://") {
		var opts []option.ClientOption
		if gsAnonymous {
			opts = append(opts, option.WithoutAuthentication())
		}

		ds.StorageClient, err = storage.NewClient(ctx, opts...)
		if err != nil {
			log.Fatalln(err)
		}
		defer ds.StorageClient.Close()
	}

	opts := abide.NewOptions()
	opts.Source = source
	opts.Sort = !noSort
	opts.MaxSubjects = nSubjects
	opts.Filters = parsed
	opts.Verbose = verbose

	if verbose {
		log.Println(compileinfo.Get())
		log.Println("Using dataset directory", ds.Dir())
		for _, col := range parsed.Columns() {
			log.Printf("Filtering %s on %s\n", col, parsed[col])
		}
	}

	res, err := abide.FetchMovements(ctx, ds, opts)
	if err != nil {
		log.Fatalln(err)
	}

	log.Println("Loaded motion parameters for", len(res.Movement), "subjects")

	out, err := summaryTable(res, radius)
	if err != nil {
		log.Fatalln(err)
	}

	var w io.WriteCloser = os.Stdout
	if outFile != "" {
		w, err = os.Create(outFile)
		if err != nil {
			log.Fatalln(err)
		}
	}

	if err := out.WriteTSV(w); err != nil {
		log.Fatalln(err)
	}

	if err := w.Close(); err != nil {
		log.Fatalln(err)
	}
}

// summaryTable appends the number of time points and the framewise
// displacement summary of each subject to the phenotype rows.
func summaryTable(res *abide.Movements, radius float64) (*phenotype.Table, error) {
	n := len(res.Movement)
	timePoints := make([]phenotype.Value, n)
	meanFD := make([]phenotype.Value, n)
	maxFD := make([]phenotype.Value, n)

	for i, m := range res.Movement {
		s := motion.Summarize(m, radius)
		timePoints[i] = phenotype.Int(int64(s.TimePoints))
		meanFD[i] = phenotype.Float(s.MeanFD)
		maxFD[i] = phenotype.Float(s.MaxFD)
	}

	out := res.Pheno
	for _, col := range []struct {
		name   string
		values []phenotype.Value
	}{
		{"N_TIMEPOINTS", timePoints},
		{"MEAN_FD", meanFD},
		{"MAX_FD", maxFD},
	} {
		var err error
		if out, err = out.WithColumn(col.name, col.values); err != nil {
			return nil, err
		}
	}

	return out, nil
}
