package phenotype

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/carbocation/neuromisc"
	"github.com/carbocation/pfx"
)

// Load reads a delimited phenotype file from disk. The delimiter is detected
// from the file's contents.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	delim, err := neuromisc.DetermineDelimiter(f)
	if err != nil {
		return nil, pfx.Err(err)
	}

	t, err := Parse(bufio.NewReader(f), delim)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return t, nil
}

// Parse reads a header row followed by data rows. Each column is typed from
// its contents: integer columns become Int, other numeric columns become
// Float, and anything else stays String. Empty cells in a numeric column are
// represented as a missing (NaN) Float, which forces the column to Float.
func Parse(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("no header row was found")
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	body := records[1:]
	rows := make([][]Value, len(body))
	for i := range rows {
		rows[i] = make([]Value, len(header))
	}

	for col := range header {
		kind, hasMissing := columnKind(body, col)
		for i, record := range body {
			raw := strings.TrimSpace(record[col])
			rows[i][col] = typed(raw, kind, hasMissing)
		}
	}

	return NewTable(header, rows)
}

// columnKind determines the narrowest kind that holds every non-empty cell of
// the column.
func columnKind(body [][]string, col int) (kind Kind, hasMissing bool) {
	kind = KindInt
	seen := false
	for _, record := range body {
		raw := strings.TrimSpace(record[col])
		if raw == "" {
			hasMissing = true
			continue
		}
		seen = true

		switch v := Infer(raw); v.Kind() {
		case KindString:
			return KindString, hasMissing
		case KindFloat:
			kind = KindFloat
		}
	}

	if !seen {
		return KindString, hasMissing
	}

	return kind, hasMissing
}

func typed(raw string, kind Kind, hasMissing bool) Value {
	switch {
	case kind == KindString:
		return String(raw)
	case raw == "":
		return Float(math.NaN())
	case kind == KindFloat || hasMissing:
		f, _ := strconv.ParseFloat(raw, 64)
		return Float(f)
	}

	i, _ := strconv.ParseInt(raw, 10, 64)
	return Int(i)
}
