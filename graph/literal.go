package graph

import (
	"strings"

	"github.com/syssam/graphapi/blockstring"
)

// LiteralKind tags a Literal.
type LiteralKind int

// Literal kinds.
const (
	IntLiteral LiteralKind = iota + 1
	FloatLiteral
	StringLiteral
	BooleanLiteral
	EnumLiteral
	NullLiteral
	ListLiteral
	ObjectLiteral
)

var literalKindNames = [...]string{
	IntLiteral:     "Int",
	FloatLiteral:   "Float",
	StringLiteral:  "String",
	BooleanLiteral: "Boolean",
	EnumLiteral:    "Enum",
	NullLiteral:    "Null",
	ListLiteral:    "List",
	ObjectLiteral:  "Object",
}

// String returns the kind name.
func (k LiteralKind) String() string {
	if k > 0 && int(k) < len(literalKindNames) {
		return literalKindNames[k]
	}
	return "Invalid"
}

// Literal is a constant input value. Raw holds the source text of scalar
// kinds (the unquoted value for strings), List the elements of a list, and
// Fields the entries of an object.
type Literal struct {
	Kind   LiteralKind
	Raw    string
	List   []*Literal
	Fields []*ObjectField
}

// ObjectField is one entry of an object literal.
type ObjectField struct {
	Name  string
	Value *Literal
}

// String returns the literal in schema notation.
func (l *Literal) String() string {
	if l == nil {
		return ""
	}
	var b strings.Builder
	l.write(&b)
	return b.String()
}

func (l *Literal) write(b *strings.Builder) {
	switch l.Kind {
	case StringLiteral:
		b.WriteString(blockstring.Quote(l.Raw))
	case NullLiteral:
		b.WriteString("null")
	case ListLiteral:
		b.WriteByte('[')
		for i, item := range l.List {
			if i > 0 {
				b.WriteString(", ")
			}
			item.write(b)
		}
		b.WriteByte(']')
	case ObjectLiteral:
		b.WriteByte('{')
		for i, f := range l.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			f.Value.write(b)
		}
		b.WriteByte('}')
	default:
		b.WriteString(l.Raw)
	}
}
