package phenotype

import (
	"math"
	"strconv"
)

// Kind identifies which of the scalar forms a Value holds.
type Kind byte

const (
	KindInt Kind = iota
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	}

	return "string"
}

// Value is a single phenotype cell: an integer, a float or a string.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

func Int(v int64) Value { return Value{kind: KindInt, i: v} }

func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

func String(v string) Value { return Value{kind: KindString, s: v} }

func (v Value) Kind() Kind { return v.kind }

// IsMissing is true for the NaN that stands in for an empty numeric cell.
func (v Value) IsMissing() bool { return v.kind == KindFloat && math.IsNaN(v.f) }

// IsNumber is true for Int and Float values.
func (v Value) IsNumber() bool { return v.kind != KindString }

// Float64 returns the numeric value of v. ok is false for strings.
func (v Value) Float64() (f float64, ok bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}

	return 0, false
}

// Int64 returns the integer held by v. ok is false unless v is an Int.
func (v Value) Int64() (int64, bool) {
	return v.i, v.kind == KindInt
}

// Str returns the string held by v. ok is false unless v is a String.
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	}

	return v.s
}

// Equal reports exact equality. Ints and floats compare numerically with each
// other; strings are only ever equal to strings.
func (v Value) Equal(o Value) bool {
	if v.kind == KindInt && o.kind == KindInt {
		return v.i == o.i
	}

	if v.IsNumber() && o.IsNumber() {
		a, _ := v.Float64()
		b, _ := o.Float64()
		return a == b
	}

	if v.kind == KindString && o.kind == KindString {
		return v.s == o.s
	}

	return false
}

// Compare orders v against o, returning -1, 0 or +1. ok is false when the two
// values are not ordered against each other: a number and a string, or a NaN.
func (v Value) Compare(o Value) (cmp int, ok bool) {
	if v.kind == KindInt && o.kind == KindInt {
		return compareOrdered(v.i, o.i), true
	}

	if v.IsNumber() && o.IsNumber() {
		a, _ := v.Float64()
		b, _ := o.Float64()
		if math.IsNaN(a) || math.IsNaN(b) {
			return 0, false
		}
		return compareOrdered(a, b), true
	}

	if v.kind == KindString && o.kind == KindString {
		return compareOrdered(v.s, o.s), true
	}

	return 0, false
}

func compareOrdered[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}

// Infer parses a raw cell into the narrowest Value that represents it: an Int
// if it is an integer literal, a Float if it is any other number, and a
// String otherwise.
func Infer(raw string) Value {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Int(i)
	}

	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return Float(f)
	}

	return String(raw)
}
