// Package typeparse parses SQL type expressions into descriptors.
//
// A type expression is a shape or alias name with an optional
// parenthesized parameter: "Int", "VarChar(64)", "Enum('a', 'b')".
// The result is an ordinary canonical descriptor produced through the
// binding engine.
package typeparse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/electwix/sqlshape/internal/descriptor"
	"github.com/electwix/sqlshape/internal/shape"
)

// typeLexer tokenizes SQL type expressions.
var typeLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "String", Pattern: `'[^']*'`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Number", Pattern: `[0-9]+`},
		{Name: "Symbol", Pattern: `[\(\),]`},
	},
})

// typeExpr is the parsed form of a type expression.
type typeExpr struct {
	Name string   `parser:"@Ident"`
	Args *argList `parser:"('(' @@ ')')?"`
}

type argList struct {
	Length *string  `parser:"@Number"`
	Values []string `parser:"| @String (',' @String)*"`
}

var exprParser = participle.MustBuild[typeExpr](
	participle.Lexer(typeLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a type expression and binds it on b.
func Parse(b *descriptor.Binder, text string) (*descriptor.Descriptor, error) {
	expr, err := exprParser.ParseString("", text)
	if err != nil {
		return nil, fmt.Errorf("parse type %q: %w", text, err)
	}

	s, err := shape.Lookup(expr.Name)
	if err != nil {
		return nil, err
	}

	switch {
	case expr.Args == nil:
		return b.Bind(s)
	case expr.Args.Length != nil:
		n, err := strconv.Atoi(*expr.Args.Length)
		if err != nil {
			return nil, fmt.Errorf("parse type %q: %w", text, err)
		}
		return b.BindLength(s, n)
	default:
		values := make([]string, len(expr.Args.Values))
		for i, v := range expr.Args.Values {
			values[i] = strings.Trim(v, "'")
		}
		return b.BindValues(s, values...)
	}
}
