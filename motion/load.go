package motion

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/mat"
)

// Load reads a motion series (e.g., SPM's rp_*.txt realignment parameters)
// from disk.
func Load(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return m, nil
}

// Read parses whitespace- and/or comma-delimited numbers into a matrix with
// one row per time point. Blank lines and anything after a '#' are ignored.
// Every row must have the same number of values.
func Read(r io.Reader) (*mat.Dense, error) {
	var data []float64
	cols := 0
	rows := 0

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		fields := strings.FieldsFunc(line, isSeparator)
		if len(fields) == 0 {
			continue
		}

		if rows == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf("line %d has %d values, expected %d", lineNo, len(fields), cols)
		}

		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if rows == 0 {
		return nil, fmt.Errorf("no values were found")
	}

	return mat.NewDense(rows, cols, data), nil
}

func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}
