package criteria

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/carbocation/neuromisc/phenotype"
)

func mustTable(t *testing.T, columns []string, rows ...[]phenotype.Value) *phenotype.Table {
	t.Helper()

	tab, err := phenotype.NewTable(columns, rows)
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

func singleColumn(t *testing.T, name string, values ...phenotype.Value) *phenotype.Table {
	t.Helper()

	rows := make([][]phenotype.Value, 0, len(values))
	for _, v := range values {
		rows = append(rows, []phenotype.Value{v})
	}
	return mustTable(t, []string{name}, rows...)
}

func sameMask(a, b phenotype.Mask) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEqualsExample(t *testing.T) {
	tab := mustTable(t, []string{"SITE_ID", "SUB_ID", "SEX"},
		[]phenotype.Value{phenotype.String("YALE"), phenotype.Int(1), phenotype.Int(1)},
		[]phenotype.Value{phenotype.String("YALE"), phenotype.Int(2), phenotype.Int(2)},
	)

	mask, err := EvaluateAll(tab, Filters{"SEX": Equals(phenotype.Int(1))})
	if err != nil {
		t.Fatal(err)
	}
	if !sameMask(mask, phenotype.Mask{true, false}) {
		t.Error("Unexpected mask", mask)
	}
}

func TestOpenLowerBoundExample(t *testing.T) {
	tab := singleColumn(t, "AGE_AT_SCAN", phenotype.Int(10), phenotype.Int(20), phenotype.Int(18))

	mask, err := EvaluateAll(tab, Filters{"AGE_AT_SCAN": Range(Unbounded, At(phenotype.Int(18)))})
	if err != nil {
		t.Fatal(err)
	}
	if !sameMask(mask, phenotype.Mask{true, false, true}) {
		t.Error("Unexpected mask", mask)
	}
}

func TestOpenUpperBound(t *testing.T) {
	tab := singleColumn(t, "AGE_AT_SCAN", phenotype.Int(10), phenotype.Int(20), phenotype.Int(18))

	mask, err := Evaluate(tab, "AGE_AT_SCAN", Range(At(phenotype.Float(18)), Unbounded))
	if err != nil {
		t.Fatal(err)
	}
	if !sameMask(mask, phenotype.Mask{false, true, true}) {
		t.Error("Unexpected mask", mask)
	}
}

func TestClosedRangeIsInclusive(t *testing.T) {
	tab := singleColumn(t, "AGE_AT_SCAN", phenotype.Float(9.99), phenotype.Int(10), phenotype.Float(15.5), phenotype.Int(20), phenotype.Float(20.01))

	mask, err := Evaluate(tab, "AGE_AT_SCAN", Range(At(phenotype.Int(10)), At(phenotype.Int(20))))
	if err != nil {
		t.Fatal(err)
	}
	if !sameMask(mask, phenotype.Mask{false, true, true, true, false}) {
		t.Error("Unexpected mask", mask)
	}
}

func TestFullyOpenRangeMatchesEverything(t *testing.T) {
	tab := singleColumn(t, "AGE_AT_SCAN", phenotype.Int(10), phenotype.String("x"))

	mask, err := Evaluate(tab, "AGE_AT_SCAN", Range(Unbounded, Unbounded))
	if err != nil {
		t.Fatal(err)
	}
	if !sameMask(mask, phenotype.Mask{true, true}) {
		t.Error("Unexpected mask", mask)
	}
}

func TestAnyOfExample(t *testing.T) {
	tab := singleColumn(t, "DX_GROUP", phenotype.Int(1), phenotype.Int(2), phenotype.Int(3))

	mask, err := EvaluateAll(tab, Filters{"DX_GROUP": OneOf(phenotype.Int(1), phenotype.Int(2))})
	if err != nil {
		t.Fatal(err)
	}
	if !sameMask(mask, phenotype.Mask{true, true, false}) {
		t.Error("Unexpected mask", mask)
	}
}

func TestAnyOfIsUnionOfParts(t *testing.T) {
	tab := singleColumn(t, "V", phenotype.Int(1), phenotype.Int(2), phenotype.Int(3), phenotype.Int(4), phenotype.Int(5))
	parts := []Criterion{
		Equals(phenotype.Int(1)),
		Range(At(phenotype.Int(3)), At(phenotype.Int(4))),
		AnyOf(Equals(phenotype.Int(4)), AnyOf(Equals(phenotype.Int(5)))),
	}

	union := phenotype.None(tab.Len())
	for _, p := range parts {
		m, err := Evaluate(tab, "V", p)
		if err != nil {
			t.Fatal(err)
		}
		union = union.Or(m)
	}

	got, err := Evaluate(tab, "V", AnyOf(parts...))
	if err != nil {
		t.Fatal(err)
	}
	if !sameMask(got, union) || !sameMask(got, phenotype.Mask{true, false, true, true, true}) {
		t.Error("Unexpected mask", got)
	}

	empty, err := Evaluate(tab, "V", AnyOf())
	if err != nil {
		t.Fatal(err)
	}
	if empty.Count() != 0 {
		t.Error("An empty AnyOf must select nothing")
	}
}

func TestEqualsIsTypeSensitive(t *testing.T) {
	tab := singleColumn(t, "HANDEDNESS_CATEGORY", phenotype.String("1"), phenotype.String("R"))

	mask, err := Evaluate(tab, "HANDEDNESS_CATEGORY", Equals(phenotype.Int(1)))
	if err != nil {
		t.Fatal(err)
	}
	if mask.Count() != 0 {
		t.Error("An int must not match a string cell", mask)
	}
}

func TestUnknownColumn(t *testing.T) {
	tab := singleColumn(t, "SEX", phenotype.Int(1))

	if _, err := Evaluate(tab, "IQ", Equals(phenotype.Int(1))); !errors.Is(err, phenotype.ErrUnknownColumn) {
		t.Error("Expected ErrUnknownColumn, got", err)
	}

	if _, err := EvaluateAll(tab, Filters{"SEX": Equals(phenotype.Int(1)), "IQ": Equals(phenotype.Int(100))}); !errors.Is(err, phenotype.ErrUnknownColumn) {
		t.Error("Expected ErrUnknownColumn, got", err)
	}
}

func TestMalformedInterval(t *testing.T) {
	if _, err := Interval(At(phenotype.Int(1))); !errors.Is(err, ErrInterval) {
		t.Error("Expected ErrInterval, got", err)
	}
	if _, err := Interval(At(phenotype.Int(1)), Unbounded, At(phenotype.Int(3))); !errors.Is(err, ErrInterval) {
		t.Error("Expected ErrInterval, got", err)
	}
	if _, err := Interval(Unbounded, At(phenotype.Int(3))); err != nil {
		t.Error(err)
	}
}

func TestEmptyFiltersSelectEverything(t *testing.T) {
	tab := singleColumn(t, "SEX", phenotype.Int(1), phenotype.Int(2), phenotype.Int(2))

	mask, err := EvaluateAll(tab, Filters{})
	if err != nil {
		t.Fatal(err)
	}
	if !sameMask(mask, phenotype.All(3)) {
		t.Error("Unexpected mask", mask)
	}

	mask, err = EvaluateAll(tab, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !sameMask(mask, phenotype.All(3)) {
		t.Error("Unexpected mask", mask)
	}
}

// randomTable builds n rows of small integers so that equalities and range
// edges are hit often.
func randomTable(t *testing.T, rng *rand.Rand, n int) *phenotype.Table {
	t.Helper()

	rows := make([][]phenotype.Value, n)
	for i := range rows {
		rows[i] = []phenotype.Value{
			phenotype.Int(int64(rng.Intn(5))),
			phenotype.Float(float64(rng.Intn(40)) / 2),
			phenotype.Int(int64(rng.Intn(3))),
		}
	}
	return mustTable(t, []string{"A", "B", "C"}, rows...)
}

func TestScalarAndRangeProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for iter := 0; iter < 50; iter++ {
		tab := randomTable(t, rng, 30)
		values, _ := tab.Column("B")
		target := phenotype.Float(float64(rng.Intn(40)) / 2)
		lo := phenotype.Float(float64(rng.Intn(20)) / 2)
		hi := phenotype.Float(10 + float64(rng.Intn(20))/2)

		eq, _ := Evaluate(tab, "B", Equals(target))
		between, _ := Evaluate(tab, "B", Range(At(lo), At(hi)))
		atMost, _ := Evaluate(tab, "B", Range(Unbounded, At(hi)))
		atLeast, _ := Evaluate(tab, "B", Range(At(lo), Unbounded))

		if !sameMask(between, atMost.And(atLeast)) {
			t.Fatal("A closed range must equal the AND of its two open halves")
		}

		for i, v := range values {
			f, _ := v.Float64()
			tf, _ := target.Float64()
			lf, _ := lo.Float64()
			hf, _ := hi.Float64()

			if eq[i] != (f == tf) {
				t.Fatalf("Row %d: equality mismatch for %v == %v", i, f, tf)
			}
			if atMost[i] != (f <= hf) {
				t.Fatalf("Row %d: %v <= %v mismatch", i, f, hf)
			}
			if atLeast[i] != (f >= lf) {
				t.Fatalf("Row %d: %v >= %v mismatch", i, f, lf)
			}
		}
	}
}

func TestEvaluateAllIsOrderInsensitive(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	tab := randomTable(t, rng, 60)

	filters := Filters{
		"A": OneOf(phenotype.Int(1), phenotype.Int(3)),
		"B": Range(At(phenotype.Int(2)), At(phenotype.Float(15.5))),
		"C": Equals(phenotype.Int(1)),
	}

	got, err := EvaluateAll(tab, filters)
	if err != nil {
		t.Fatal(err)
	}

	orders := [][]string{
		{"A", "B", "C"}, {"A", "C", "B"}, {"B", "A", "C"},
		{"B", "C", "A"}, {"C", "A", "B"}, {"C", "B", "A"},
	}
	for _, order := range orders {
		mask := phenotype.All(tab.Len())
		for _, col := range order {
			m, err := Evaluate(tab, col, filters[col])
			if err != nil {
				t.Fatal(err)
			}
			mask = mask.And(m)
		}
		if !sameMask(mask, got) {
			t.Error("Order", order, "produced a different mask")
		}
	}
}
