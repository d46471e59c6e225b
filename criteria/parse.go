package criteria

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/carbocation/neuromisc/phenotype"
)

// Parse reads a criterion from its textual form:
//
//	50551        Equals (typed as int, float or string)
//	R            Equals
//	6.5:18       Range, both ends inclusive
//	:18          Range with no lower bound
//	30:          Range with no upper bound
//	1,2          AnyOf; each alternative may itself be a range
//	"a,b"        Equals on the string a,b
//
// A double-quoted token is always a string, uses Go escapes, and may contain
// commas and colons, e.g. "10" matches the string 10 rather than the number.
func Parse(s string) (Criterion, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Criterion{}, fmt.Errorf("empty criterion")
	}

	alternatives, err := splitUnquoted(s, ',')
	if err != nil {
		return Criterion{}, err
	}
	if len(alternatives) == 1 {
		return parseOne(s)
	}

	cs := make([]Criterion, 0, len(alternatives))
	for _, alt := range alternatives {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			return Criterion{}, fmt.Errorf("empty alternative in %q", s)
		}

		c, err := parseOne(alt)
		if err != nil {
			return Criterion{}, err
		}
		cs = append(cs, c)
	}

	return AnyOf(cs...), nil
}

func parseOne(s string) (Criterion, error) {
	parts, err := splitUnquoted(s, ':')
	if err != nil {
		return Criterion{}, err
	}
	if len(parts) == 1 {
		v, err := parseValue(s)
		if err != nil {
			return Criterion{}, err
		}
		return Equals(v), nil
	}

	bounds := make([]Bound, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			bounds = append(bounds, Unbounded)
			continue
		}
		v, err := parseValue(part)
		if err != nil {
			return Criterion{}, err
		}
		bounds = append(bounds, At(v))
	}

	c, err := Interval(bounds...)
	if err != nil {
		return Criterion{}, fmt.Errorf("%q: %w", s, err)
	}

	return c, nil
}

func parseValue(s string) (phenotype.Value, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, `"`) {
		return phenotype.Infer(s), nil
	}

	unquoted, err := strconv.Unquote(s)
	if err != nil {
		return phenotype.Value{}, fmt.Errorf("malformed quoted value %s: %w", s, err)
	}

	return phenotype.String(unquoted), nil
}

// splitUnquoted splits s on sep, ignoring separators inside double quotes.
// The quotes themselves are kept so that parseValue can tell a quoted string
// from an inferred value.
func splitUnquoted(s string, sep byte) ([]string, error) {
	var out []string
	quoted := false
	last := 0
	for i := 0; i < len(s); i++ {
		switch {
		case quoted && s[i] == '\\':
			i++
		case s[i] == '"':
			quoted = !quoted
		case !quoted && s[i] == sep:
			out = append(out, s[last:i])
			last = i + 1
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote in %q", s)
	}

	return append(out, s[last:]), nil
}

// ParseFilter splits a COLUMN=CRITERION expression and parses the criterion.
func ParseFilter(expr string) (column string, c Criterion, err error) {
	parts := strings.SplitN(expr, "=", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
		return "", Criterion{}, fmt.Errorf("filter %q is not of the form COLUMN=CRITERION", expr)
	}

	c, err = Parse(parts[1])
	if err != nil {
		return "", Criterion{}, fmt.Errorf("filter %q: %w", expr, err)
	}

	return strings.TrimSpace(parts[0]), c, nil
}

// ParseFilters parses a list of COLUMN=CRITERION expressions. Repeating a
// column is an error, since the criteria would otherwise silently replace one
// another.
func ParseFilters(exprs []string) (Filters, error) {
	out := make(Filters, len(exprs))
	for _, expr := range exprs {
		col, c, err := ParseFilter(expr)
		if err != nil {
			return nil, err
		}
		if _, exists := out[col]; exists {
			return nil, fmt.Errorf("column %s was filtered more than once; combine the criteria with commas", col)
		}
		out[col] = c
	}

	return out, nil
}
