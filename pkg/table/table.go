// Package table holds the normalized tabular form every statistics source
// renders into. A Table is an ordered set of typed columns with row-major
// appends; exports (CSV, Arrow) and tests read it back column by column.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Kind is the value type of a column.
type Kind uint8

const (
	KindString Kind = iota
	KindFloat
	KindInt
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Column declares a name and the kind of values it holds.
type Column struct {
	Name string
	Kind Kind
}

func StrCol(name string) Column   { return Column{Name: name, Kind: KindString} }
func FloatCol(name string) Column { return Column{Name: name, Kind: KindFloat} }
func IntCol(name string) Column   { return Column{Name: name, Kind: KindInt} }
func TimeCol(name string) Column  { return Column{Name: name, Kind: KindTime} }

// Value is one cell. Build with String, Float, Int or Time;
// read back with the As* accessor matching its Kind.
type Value struct {
	kind Kind
	s    string
	f    float64
	i    int64
	t    time.Time
}

func String(s string) Value  { return Value{kind: KindString, s: s} }
func Float(f float64) Value  { return Value{kind: KindFloat, f: f} }
func Int(i int64) Value      { return Value{kind: KindInt, i: i} }
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

func (v Value) Kind() Kind        { return v.kind }
func (v Value) AsString() string  { return v.s }
func (v Value) AsFloat() float64  { return v.f }
func (v Value) AsInt() int64      { return v.i }
func (v Value) AsTime() time.Time { return v.t }

// text renders the cell for CSV output.
func (v Value) text() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindTime:
		return v.t.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

// Table is columns + rows. The zero Table is not usable; start with New.
type Table struct {
	cols []Column
	rows [][]Value
}

func New(cols ...Column) *Table {
	return &Table{cols: cols}
}

func (t *Table) Columns() []Column {
	return t.cols
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Append adds one row. The cells must match the declared columns in
// number and kind.
func (t *Table) Append(cells ...Value) error {
	if len(cells) != len(t.cols) {
		return fmt.Errorf(
			"row width unmatch: %d cells against %d columns", len(cells), len(t.cols),
		)
	}
	for nth, c := range cells {
		if c.kind != t.cols[nth].Kind {
			return fmt.Errorf(
				"column %q holds %s, not %s", t.cols[nth].Name, t.cols[nth].Kind, c.kind,
			)
		}
	}
	t.rows = append(t.rows, cells)
	return nil
}

// MustAppend is Append for rows built from literals. It panics on mismatch.
func (t *Table) MustAppend(cells ...Value) {
	if err := t.Append(cells...); err != nil {
		panic(err)
	}
}

// At returns the cell at (row, col).
func (t *Table) At(row, col int) Value {
	return t.rows[row][col]
}

// Rows iterates rows in order.
func (t *Table) Rows(f func(nth int, cells []Value) bool) {
	for nth, row := range t.rows {
		if !f(nth, row) {
			return
		}
	}
}

// WriteCSV writes the table with a header line.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(t.cols))
	for nth, c := range t.cols {
		header[nth] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(t.cols))
	for _, row := range t.rows {
		for nth, cell := range row {
			record[nth] = cell.text()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
