// Package rowmap iterates result rows with qualified column lookup.
//
// An Iterator walks an underlying row source and resolves columns by
// (table qualifier, bare name) pairs. Column names are split on dots:
// everything before the last dot is the table qualifier path, the rest
// is the bare column name. Per-column value factories convert raw
// scanned values on access.
package rowmap

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateColumn is returned when two column specs share a fully
// qualified name.
var ErrDuplicateColumn = errors.New("duplicate column name")

// ErrNoRow is returned when row data is requested with no current row.
var ErrNoRow = errors.New("no current row")

// RowSource produces rows one at a time. *sql.Rows satisfies it.
type RowSource interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// Factory converts a raw column value on access. A nil Factory leaves
// the value as scanned.
type Factory func(any) any

// ColumnSpec names one result column, optionally qualified with a
// dotted table path, plus its value factory.
type ColumnSpec struct {
	Name    string
	Factory Factory
}

// Iterator walks a row source with qualified column access.
type Iterator struct {
	src       RowSource
	bare      []string
	factories []Factory
	index     map[string]map[string]int

	row      []any
	produced int
	done     bool
	scanErr  error
}

// New constructs an Iterator over src for the given column list.
// Duplicate fully-qualified column names are rejected.
func New(src RowSource, cols []ColumnSpec) (*Iterator, error) {
	if len(cols) == 0 {
		return nil, errors.New("rowmap: no columns")
	}

	it := &Iterator{
		src:       src,
		bare:      make([]string, len(cols)),
		factories: make([]Factory, len(cols)),
		index:     make(map[string]map[string]int),
	}

	seen := make(map[string]struct{}, len(cols))
	for i, col := range cols {
		if col.Name == "" {
			return nil, fmt.Errorf("rowmap: column %d has no name", i)
		}
		if _, dup := seen[col.Name]; dup {
			return nil, fmt.Errorf("rowmap: %w: %s", ErrDuplicateColumn, col.Name)
		}
		seen[col.Name] = struct{}{}

		qualifier, bare := splitQualified(col.Name)
		it.bare[i] = bare
		it.factories[i] = col.Factory

		byName, ok := it.index[qualifier]
		if !ok {
			byName = make(map[string]int)
			it.index[qualifier] = byName
		}
		// Two specs may share a bare name under different qualifiers;
		// within one qualifier the fully-qualified dedup above already
		// rejected the clash.
		byName[bare] = i
	}

	return it, nil
}

// splitQualified splits a dotted column name into its table qualifier
// path and bare column name.
func splitQualified(name string) (qualifier, bare string) {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// Next advances to the next row. It returns false at exhaustion or on
// a scan error; Err reports the latter.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	if !it.src.Next() {
		it.done = true
		it.row = nil
		return false
	}

	row := make([]any, len(it.bare))
	ptrs := make([]any, len(row))
	for i := range row {
		ptrs[i] = &row[i]
	}
	if err := it.src.Scan(ptrs...); err != nil {
		it.scanErr = err
		it.done = true
		it.row = nil
		return false
	}

	it.row = row
	it.produced++
	return true
}

// Err returns the first scan or source error encountered.
func (it *Iterator) Err() error {
	if it.scanErr != nil {
		return it.scanErr
	}
	return it.src.Err()
}

// Row returns the raw tuple of the current row.
func (it *Iterator) Row() ([]any, error) {
	if it.row == nil {
		return nil, ErrNoRow
	}
	out := make([]any, len(it.row))
	copy(out, it.row)
	return out, nil
}

// Index returns the zero-based index of the row just produced. The
// second return is false before the first row and after exhaustion.
func (it *Iterator) Index() (int, bool) {
	if it.row == nil {
		return 0, false
	}
	return it.produced - 1, true
}

// ColumnIndex resolves a (table qualifier, bare column name) pair to
// its position in the row tuple. Use an empty qualifier for
// unqualified columns.
func (it *Iterator) ColumnIndex(qualifier, name string) (int, error) {
	byName, ok := it.index[qualifier]
	if !ok {
		return 0, fmt.Errorf("rowmap: unknown table qualifier %q", qualifier)
	}
	i, ok := byName[name]
	if !ok {
		return 0, fmt.Errorf("rowmap: unknown column %q under qualifier %q", name, qualifier)
	}
	return i, nil
}

// ColumnAt returns the current row's value at position i with the
// column's factory applied.
func (it *Iterator) ColumnAt(i int) (any, error) {
	if it.row == nil {
		return nil, ErrNoRow
	}
	if i < 0 || i >= len(it.row) {
		return nil, fmt.Errorf("rowmap: column index %d out of range", i)
	}
	v := it.row[i]
	if fac := it.factories[i]; fac != nil {
		return fac(v), nil
	}
	return v, nil
}

// Column resolves a qualified column and returns its converted value
// from the current row.
func (it *Iterator) Column(qualifier, name string) (any, error) {
	i, err := it.ColumnIndex(qualifier, name)
	if err != nil {
		return nil, err
	}
	return it.ColumnAt(i)
}
