package phenotype

import "fmt"

// Mask marks rows of a Table, positionally. Masks combined with And or Or must
// have the same length.
type Mask []bool

// All returns a mask of n rows, all selected.
func All(n int) Mask {
	m := make(Mask, n)
	for i := range m {
		m[i] = true
	}
	return m
}

// None returns a mask of n rows, none selected.
func None(n int) Mask {
	return make(Mask, n)
}

// And returns the elementwise conjunction of m and o.
func (m Mask) And(o Mask) Mask {
	mustMatch(m, o)

	out := make(Mask, len(m))
	for i := range m {
		out[i] = m[i] && o[i]
	}
	return out
}

// Or returns the elementwise disjunction of m and o.
func (m Mask) Or(o Mask) Mask {
	mustMatch(m, o)

	out := make(Mask, len(m))
	for i := range m {
		out[i] = m[i] || o[i]
	}
	return out
}

// Count returns the number of selected rows.
func (m Mask) Count() int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

// Indices returns the positions of the selected rows, in order.
func (m Mask) Indices() []int {
	out := make([]int, 0, m.Count())
	for i, v := range m {
		if v {
			out = append(out, i)
		}
	}
	return out
}

func mustMatch(m, o Mask) {
	if len(m) != len(o) {
		panic(fmt.Sprintf("phenotype: mask length mismatch (%d vs %d)", len(m), len(o)))
	}
}
