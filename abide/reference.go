package abide

import (
	"math"
	"os"

	"github.com/carbocation/neuromisc/phenotype"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// ReferenceEntry is one row of the headerless sort file shipped with the
// motion archive. Fields are positional.
type ReferenceEntry struct {
	Key       string `csv:"key"`
	SubjectID int64  `csv:"sub_id"`
	Included  int64  `csv:"included"`
}

// LoadReference reads the sort file.
func LoadReference(path string) ([]ReferenceEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	entries := []ReferenceEntry{}
	if err := gocsv.UnmarshalWithoutHeaders(f, &entries); err != nil {
		return nil, pfx.Err(err)
	}

	return entries, nil
}

// IncludedOrder lists the subject IDs flagged as included, in file order.
// Repeated IDs keep their first position.
func IncludedOrder(entries []ReferenceEntry) []int64 {
	seen := make(map[int64]struct{}, len(entries))
	out := make([]int64, 0, len(entries))
	for _, e := range entries {
		if e.Included != 1 {
			continue
		}
		if _, exists := seen[e.SubjectID]; exists {
			continue
		}
		seen[e.SubjectID] = struct{}{}
		out = append(out, e.SubjectID)
	}

	return out
}

// ApplyReference restricts pheno to the included subjects and reorders it to
// follow the reference. Subjects that the reference includes but pheno does
// not have are ignored. If pheno repeats a subject, every copy is kept, in
// pheno's order, at that subject's position.
func ApplyReference(pheno *phenotype.Table, entries []ReferenceEntry) (*phenotype.Table, error) {
	ids, err := pheno.Column(ColSubjectID)
	if err != nil {
		return nil, err
	}

	rowsByID := make(map[int64][]int)
	for i, v := range ids {
		id, ok := subjectID(v)
		if !ok {
			continue
		}
		rowsByID[id] = append(rowsByID[id], i)
	}

	indices := make([]int, 0, len(ids))
	for _, id := range IncludedOrder(entries) {
		indices = append(indices, rowsByID[id]...)
	}

	return pheno.Take(indices), nil
}

// subjectID accepts integral floats too, since a SUB_ID column with a blank
// cell is parsed as Float.
func subjectID(v phenotype.Value) (int64, bool) {
	if id, ok := v.Int64(); ok {
		return id, true
	}

	f, ok := v.Float64()
	if !ok || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}

	return int64(f), true
}
