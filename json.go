package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// FromJSON builds a table from a JSON array of objects, one row per object.
// Columns follow the key order of each object as written. Numbers without a
// fraction or exponent become int64, other numbers float64; nested objects and
// arrays are kept as their raw JSON text.
func FromJSON(data []byte) (*Table, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed document", ErrInvalidJSON)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: expected array, got %s", ErrInvalidJSON, elemType(doc))
	}

	t := NewTable()
	var err error
	doc.ForEach(func(i, elem gjson.Result) bool {
		if !elem.IsObject() {
			err = fmt.Errorf("%w: element %d is %s, not an object", ErrInvalidJSON, i.Int(), elemType(elem))
			return false
		}
		elem.ForEach(func(key, value gjson.Result) bool {
			t.Cell(key.String(), jsonValue(value))
			return true
		})
		t.FlushRow()
		return true
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func jsonValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.True, gjson.False:
		return v.Bool()
	case gjson.Number:
		if n, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
			return n
		}
		return v.Float()
	case gjson.String:
		return v.String()
	default:
		return v.Raw
	}
}

func elemType(v gjson.Result) string {
	switch {
	case v.IsArray():
		return "array"
	case v.IsObject():
		return "object"
	default:
		return strings.ToLower(v.Type.String())
	}
}
