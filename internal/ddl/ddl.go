// Package ddl generates CREATE TABLE statements from descriptor-typed
// column definitions.
package ddl

import (
	"fmt"
	"strings"

	"github.com/electwix/sqlshape/internal/descriptor"
)

// Column is one table column: a name plus the descriptor that renders
// its SQL type.
type Column struct {
	Name       string
	Type       *descriptor.Descriptor
	PrimaryKey bool
}

// Table is an ordered collection of columns under a table name.
type Table struct {
	Name    string
	Columns []Column
}

// Options controls statement generation.
type Options struct {
	// DropExisting prepends a DROP TABLE IF EXISTS statement.
	DropExisting bool
}

// GenerateColumnDef renders a single column definition.
func GenerateColumnDef(col Column) string {
	def := fmt.Sprintf("`%s` %s", col.Name, col.Type.SQL())
	if col.PrimaryKey {
		def += " PRIMARY KEY"
	}
	return def
}

// GenerateDrop renders a standalone DROP TABLE IF EXISTS statement for
// callers that execute statements one at a time.
func GenerateDrop(name string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS `%s`", name)
}

// GenerateTable renders the CREATE TABLE statement for one table. The
// returned text carries no trailing terminator; the capture layer owns
// statement termination.
func GenerateTable(t Table, opts Options) string {
	var buf strings.Builder

	if opts.DropExisting {
		fmt.Fprintf(&buf, "DROP TABLE IF EXISTS `%s`;\n", t.Name)
	}

	fmt.Fprintf(&buf, "CREATE TABLE `%s`(\n", t.Name)
	for i, col := range t.Columns {
		if i > 0 {
			buf.WriteString(",\n")
		}
		buf.WriteString("  ")
		buf.WriteString(GenerateColumnDef(col))
	}
	buf.WriteString("\n)")

	return buf.String()
}

// GenerateSchema renders all tables, each statement terminated.
func GenerateSchema(tables []Table, opts Options) string {
	var buf strings.Builder
	for _, t := range tables {
		buf.WriteString(GenerateTable(t, opts))
		buf.WriteString(";\n")
	}
	return buf.String()
}
