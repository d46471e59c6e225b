package criteria

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/carbocation/neuromisc/phenotype"
)

// ErrInterval is returned when an interval is not built from exactly two
// bounds.
var ErrInterval = errors.New("an interval must have 2 values")

// Kind identifies which form a Criterion takes.
type Kind byte

const (
	// KindEquals matches a single value exactly.
	KindEquals Kind = iota
	// KindRange matches values between two inclusive, possibly open, bounds.
	KindRange
	// KindAnyOf matches when any nested criterion does.
	KindAnyOf
)

// Criterion is a filter on the values of a single column.
type Criterion struct {
	kind   Kind
	value  phenotype.Value
	lo, hi Bound
	anyOf  []Criterion
}

// Bound is one end of a Range. The zero Bound is open (unbounded).
type Bound struct {
	Value phenotype.Value
	Set   bool
}

// Unbounded leaves one end of a Range open.
var Unbounded = Bound{}

// At closes one end of a Range at v, inclusively.
func At(v phenotype.Value) Bound {
	return Bound{Value: v, Set: true}
}

// Equals selects rows whose value is exactly v.
func Equals(v phenotype.Value) Criterion {
	return Criterion{kind: KindEquals, value: v}
}

// Range selects rows with lo <= value <= hi. An unset bound is not checked.
func Range(lo, hi Bound) Criterion {
	return Criterion{kind: KindRange, lo: lo, hi: hi}
}

// Interval is Range for callers that hold the bounds as a list. Anything other
// than exactly two bounds is rejected with ErrInterval.
func Interval(bounds ...Bound) (Criterion, error) {
	if len(bounds) != 2 {
		return Criterion{}, fmt.Errorf("%w, got %d", ErrInterval, len(bounds))
	}

	return Range(bounds[0], bounds[1]), nil
}

// AnyOf selects rows matched by at least one of cs. With no criteria it
// selects nothing.
func AnyOf(cs ...Criterion) Criterion {
	return Criterion{kind: KindAnyOf, anyOf: append([]Criterion{}, cs...)}
}

// OneOf is shorthand for AnyOf over Equals criteria.
func OneOf(vs ...phenotype.Value) Criterion {
	cs := make([]Criterion, 0, len(vs))
	for _, v := range vs {
		cs = append(cs, Equals(v))
	}
	return AnyOf(cs...)
}

// Kind reports which constructor built c.
func (c Criterion) Kind() Kind {
	return c.kind
}

// String renders c in the form accepted by Parse, except that AnyOf is
// bracketed so nesting stays visible.
func (c Criterion) String() string {
	switch c.kind {
	case KindRange:
		lo, hi := "", ""
		if c.lo.Set {
			lo = valueText(c.lo.Value)
		}
		if c.hi.Set {
			hi = valueText(c.hi.Value)
		}
		return lo + ":" + hi
	case KindAnyOf:
		parts := make([]string, 0, len(c.anyOf))
		for _, sub := range c.anyOf {
			parts = append(parts, sub.String())
		}
		return "[" + strings.Join(parts, ",") + "]"
	}

	return valueText(c.value)
}

// valueText quotes strings that Parse would otherwise split or read as a
// number.
func valueText(v phenotype.Value) string {
	str, ok := v.Str()
	if !ok {
		return v.String()
	}
	if str == "" || strings.ContainsAny(str, `,:"`) || str != strings.TrimSpace(str) || phenotype.Infer(str).Kind() != phenotype.KindString {
		return strconv.Quote(str)
	}

	return str
}

// matches evaluates c against a single value.
func (c Criterion) matches(v phenotype.Value) bool {
	switch c.kind {
	case KindAnyOf:
		for _, sub := range c.anyOf {
			if sub.matches(v) {
				return true
			}
		}
		return false

	case KindRange:
		if c.lo.Set {
			cmp, ok := v.Compare(c.lo.Value)
			if !ok || cmp < 0 {
				return false
			}
		}
		if c.hi.Set {
			cmp, ok := v.Compare(c.hi.Value)
			if !ok || cmp > 0 {
				return false
			}
		}
		return true
	}

	return v.Equal(c.value)
}
