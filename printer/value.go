package printer

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/syssam/graphapi"
	"github.com/syssam/graphapi/blockstring"
	"github.com/syssam/graphapi/typeref"
)

// value prints a default or directive argument as a literal. When ref is
// known the literal follows it: enum members print bare, input objects use
// their field types and integral numbers under Int print without a
// fraction. Values decoded from JSON, YAML or msgpack arrive as plain Go
// numbers and map[string]any and print the same as the builder's int64
// and *graphapi.Map[any].
func (p *printer) value(v any, ref *typeref.Ref) (string, error) {
	if v == nil {
		return "null", nil
	}
	if ref != nil && ref.Shape == typeref.ListShape {
		list, ok := v.([]any)
		if !ok {
			// Input coercion accepts a single item for a list.
			return p.value(v, ref.Items)
		}
		items := make([]string, 0, len(list))
		for _, item := range list {
			s, err := p.value(item, ref.Items)
			if err != nil {
				return "", err
			}
			items = append(items, s)
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	}
	if ref != nil && ref.Shape == typeref.NamedShape {
		kind, _, target, err := p.doc.Resolve(ref.Target)
		if err != nil {
			return "", err
		}
		switch kind {
		case graphapi.KindEnum:
			if s, ok := v.(string); ok {
				return s, nil
			}
		case graphapi.KindInputObject:
			if in, ok := target.(*graphapi.InputObject); ok {
				return p.objectValue(v, in.InputFields)
			}
		case graphapi.KindScalar:
			if sc, ok := target.(*graphapi.Scalar); ok {
				r := typeref.Scalar(sc.Type.Kind(), sc.Format, true)
				return p.value(v, &r)
			}
		}
		return p.value(v, nil)
	}

	switch v := v.(type) {
	case string:
		return blockstring.Quote(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v), nil
	case float32:
		return formatFloat(float64(v), ref != nil && ref.Shape == typeref.ScalarShape && ref.Type == typeref.Integer), nil
	case float64:
		return formatFloat(v, ref != nil && ref.Shape == typeref.ScalarShape && ref.Type == typeref.Integer), nil
	case json.Number:
		return v.String(), nil
	case []any:
		return p.value(v, &typeref.Ref{Shape: typeref.ListShape, Items: ref})
	case *graphapi.Map[any], map[string]any:
		return p.objectValue(v, nil)
	}
	return "", graphapi.NewPrintError(graphapi.ErrMalformedTypeRef, "", fmt.Sprintf("cannot print value of type %T", v))
}

type entry struct {
	name  string
	value any
}

// objectValue prints an input object literal. Field types come from fields
// when the object type is known.
func (p *printer) objectValue(v any, fields *graphapi.Map[*graphapi.InputValue]) (string, error) {
	var entries []entry
	switch v := v.(type) {
	case *graphapi.Map[any]:
		for k, val := range v.All() {
			entries = append(entries, entry{k, val})
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		// Keep declaration order when the fields are known.
		order := fields.Keys()
		slices.SortFunc(keys, func(a, b string) int {
			ia, ib := slices.Index(order, a), slices.Index(order, b)
			if ia != ib {
				return ia - ib
			}
			return strings.Compare(a, b)
		})
		for _, k := range keys {
			entries = append(entries, entry{k, v[k]})
		}
	default:
		return p.value(v, nil)
	}
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		var ref *typeref.Ref
		if f, ok := fields.Get(e.name); ok {
			r, err := p.typeRef(f.Schema)
			if err != nil {
				return "", err
			}
			ref = &r
		}
		s, err := p.value(e.value, ref)
		if err != nil {
			return "", err
		}
		items = append(items, e.name+": "+s)
	}
	return "{" + strings.Join(items, ", ") + "}", nil
}

func formatFloat(f float64, integer bool) string {
	if integer && f == math.Trunc(f) && math.Abs(f) < 1e18 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
