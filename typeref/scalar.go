package typeref

// Document primitive kinds.
const (
	Integer = "integer"
	Number  = "number"
	String  = "string"
	Boolean = "boolean"
	Object  = "object"
	Array   = "array"
)

// BuiltinScalars are the scalars every schema declares.
var BuiltinScalars = []string{"Int", "Float", "String", "Boolean", "ID"}

// IsBuiltinScalar reports whether name is a built-in scalar.
func IsBuiltinScalar(name string) bool {
	switch name {
	case "Int", "Float", "String", "Boolean", "ID":
		return true
	}
	return false
}

// Coercion maps scalar names to document primitives. In strict mode the
// float built-in keeps its name as format, the same way custom scalars do.
type Coercion struct {
	Strict bool
}

// Classify returns the primitive kind and format of a scalar. Int, Float,
// String and Boolean map to plain primitives; any other name becomes a
// string tagged with its own name. It never fails.
func (c Coercion) Classify(name string) (primitive, format string) {
	switch name {
	case "Int":
		return Integer, ""
	case "Float":
		if c.Strict {
			return Number, name
		}
		return Number, ""
	case "String":
		return String, ""
	case "Boolean":
		return Boolean, ""
	}
	return String, name
}

// ScalarName returns the scalar a primitive fragment denotes: its format
// when present, otherwise the built-in of that primitive.
func ScalarName(primitive, format string) (string, bool) {
	if format != "" {
		return format, true
	}
	switch primitive {
	case Integer:
		return "Int", true
	case Number:
		return "Float", true
	case String:
		return "String", true
	case Boolean:
		return "Boolean", true
	}
	return "", false
}
