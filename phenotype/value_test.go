package phenotype

import (
	"math"
	"testing"
)

func TestValueEqual(t *testing.T) {
	cases := []struct {
		a, b Value
		want bool
	}{
		{Int(1), Int(1), true},
		{Int(1), Float(1), true},
		{Float(2.5), Float(2.5), true},
		{Int(1), String("1"), false},
		{String("R"), String("R"), true},
		{String("R"), String("L"), false},
		{Float(math.NaN()), Float(math.NaN()), false},
	}

	for _, c := range cases {
		if got := c.a.Equal(c.b); got != c.want {
			t.Errorf("%v (%s) == %v (%s): expected %v", c.a, c.a.Kind(), c.b, c.b.Kind(), c.want)
		}
	}
}

func TestValueCompare(t *testing.T) {
	if cmp, ok := Int(10).Compare(Float(18)); !ok || cmp != -1 {
		t.Error("Expected 10 < 18")
	}
	if cmp, ok := String("b").Compare(String("a")); !ok || cmp != 1 {
		t.Error("Expected b > a")
	}
	if _, ok := String("b").Compare(Int(1)); ok {
		t.Error("Strings and numbers must not be ordered")
	}
	if _, ok := Float(math.NaN()).Compare(Int(1)); ok {
		t.Error("NaN must not be ordered")
	}
}

func TestInfer(t *testing.T) {
	if v := Infer("50551"); v.Kind() != KindInt {
		t.Error("Expected int, got", v.Kind())
	}
	if v := Infer("6.47"); v.Kind() != KindFloat {
		t.Error("Expected float, got", v.Kind())
	}
	if v := Infer("Ambi"); v.Kind() != KindString {
		t.Error("Expected string, got", v.Kind())
	}
}

func TestMask(t *testing.T) {
	a := Mask{true, true, false}
	b := Mask{true, false, false}

	if got := a.And(b); got[0] != true || got[1] != false || got[2] != false {
		t.Error("Unexpected And", got)
	}
	if got := a.Or(b); got[0] != true || got[1] != true || got[2] != false {
		t.Error("Unexpected Or", got)
	}
	if All(4).Count() != 4 || None(4).Count() != 0 {
		t.Error("Unexpected counts")
	}
	if idx := a.Indices(); len(idx) != 2 || idx[0] != 0 || idx[1] != 1 {
		t.Error("Unexpected indices", idx)
	}
}
