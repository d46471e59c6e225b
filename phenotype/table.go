package phenotype

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrUnknownColumn is returned when a column is referenced that the table does
// not have.
var ErrUnknownColumn = errors.New("unknown column")

// Table is an ordered set of phenotype rows sharing one header. Tables are
// not modified after construction; Select, Take, Head and WithColumn return
// new tables that share no row storage with the original.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// NewTable builds a table from column names and rows. Each row must have one
// value per column and column names must be unique.
func NewTable(columns []string, rows [][]Value) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, exists := index[name]; exists {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = i
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(columns))
		}
	}

	return &Table{
		columns: append([]string{}, columns...),
		index:   index,
		rows:    rows,
	}, nil
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) Columns() []string {
	return append([]string{}, t.columns...)
}

func (t *Table) HasColumn(name string) bool {
	_, exists := t.index[name]
	return exists
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) ([]Value, error) {
	col, exists := t.index[name]
	if !exists {
		return nil, fmt.Errorf("%w %q", ErrUnknownColumn, name)
	}

	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[col]
	}

	return out, nil
}

// Value returns a single cell.
func (t *Table) Value(row int, name string) (Value, error) {
	col, exists := t.index[name]
	if !exists {
		return Value{}, fmt.Errorf("%w %q", ErrUnknownColumn, name)
	}
	if row < 0 || row >= len(t.rows) {
		return Value{}, fmt.Errorf("row %d is out of range for a table of %d rows", row, len(t.rows))
	}

	return t.rows[row][col], nil
}

// Row returns a copy of the ith row, in column order.
func (t *Table) Row(i int) []Value {
	return append([]Value{}, t.rows[i]...)
}

// Select keeps the rows that m marks, preserving order. m must have one entry
// per row.
func (t *Table) Select(m Mask) *Table {
	if len(m) != len(t.rows) {
		panic(fmt.Sprintf("phenotype: mask of %d rows applied to a table of %d rows", len(m), len(t.rows)))
	}

	return t.Take(m.Indices())
}

// Take builds a table from the rows at the given positions, in the order
// given. Positions may repeat.
func (t *Table) Take(indices []int) *Table {
	rows := make([][]Value, 0, len(indices))
	for _, i := range indices {
		rows = append(rows, t.Row(i))
	}

	return &Table{columns: t.columns, index: t.index, rows: rows}
}

// Head keeps at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n < 0 {
		n = 0
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	return t.Take(indices)
}

// WithColumn returns a copy of the table with one more column on the right.
func (t *Table) WithColumn(name string, values []Value) (*Table, error) {
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("column %q has %d values, expected %d", name, len(values), len(t.rows))
	}

	rows := make([][]Value, len(t.rows))
	for i := range t.rows {
		rows[i] = append(t.Row(i), values[i])
	}

	return NewTable(append(t.Columns(), name), rows)
}

// WriteTSV writes the header and every row as tab-delimited text.
func (t *Table) WriteTSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(t.columns); err != nil {
		return err
	}

	record := make([]string, len(t.columns))
	for _, row := range t.rows {
		for j, v := range row {
			record[j] = v.String()
			if v.IsMissing() {
				record[j] = "NA"
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
