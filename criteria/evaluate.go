package criteria

import (
	"sort"

	"github.com/carbocation/neuromisc/phenotype"
)

// Filters maps column names to the criterion each column must satisfy. All
// entries must hold for a row to be selected.
type Filters map[string]Criterion

// Columns returns the filtered column names in sorted order.
func (f Filters) Columns() []string {
	out := make([]string, 0, len(f))
	for col := range f {
		out = append(out, col)
	}
	sort.Strings(out)
	return out
}

// Evaluate returns the mask of rows in t whose value in column satisfies c.
// A column that t does not have yields phenotype.ErrUnknownColumn.
func Evaluate(t *phenotype.Table, column string, c Criterion) (phenotype.Mask, error) {
	values, err := t.Column(column)
	if err != nil {
		return nil, err
	}

	return evaluate(values, c), nil
}

func evaluate(values []phenotype.Value, c Criterion) phenotype.Mask {
	if c.kind == KindAnyOf {
		mask := phenotype.None(len(values))
		for _, sub := range c.anyOf {
			mask = mask.Or(evaluate(values, sub))
		}
		return mask
	}

	mask := make(phenotype.Mask, len(values))
	for i, v := range values {
		mask[i] = c.matches(v)
	}
	return mask
}

// EvaluateAll ANDs together the masks of every entry in filters. An empty
// filter set selects every row. Columns are visited in sorted order, so both
// the mask and the first error reported do not depend on map ordering.
func EvaluateAll(t *phenotype.Table, filters Filters) (phenotype.Mask, error) {
	mask := phenotype.All(t.Len())

	for _, col := range filters.Columns() {
		m, err := Evaluate(t, col, filters[col])
		if err != nil {
			return nil, err
		}
		mask = mask.And(m)
	}

	return mask, nil
}
