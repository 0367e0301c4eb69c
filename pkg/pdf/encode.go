package pdf

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Name is a PDF name in host form. The leading slash is required, as in
// Name("/Type").
type Name string

func (n Name) engine() (types.Name, error) {
	if !strings.HasPrefix(string(n), "/") {
		return "", &ArgumentError{Msg: fmt.Sprintf("name %q must begin with '/'", string(n))}
	}
	return types.Name(string(n)[1:]), nil
}

// maxEncodeDepth bounds nesting so a self-referencing host structure fails
// instead of recursing forever.
const maxEncodeDepth = 100

// Encode converts a host value into its engine representation. Strings
// become PDF string literals, byte slices byte-strings, slices arrays and
// maps dictionaries; *Object handles pass their underlying value through.
// Encode builds a detached value and never touches any document graph, so
// a failure leaves nothing partially converted.
func Encode(value interface{}) (types.Object, error) {
	return encodeDepth(value, 0)
}

func encodeDepth(value interface{}, depth int) (types.Object, error) {
	if depth > maxEncodeDepth {
		return nil, &ArgumentError{Msg: "value nests too deeply"}
	}

	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool:
		return types.Boolean(v), nil
	case int:
		return types.Integer(v), nil
	case int32:
		return types.Integer(v), nil
	case int64:
		return types.Integer(v), nil
	case float32:
		return types.Float(v), nil
	case float64:
		return types.Float(v), nil
	case string:
		return types.StringLiteral(v), nil
	case []byte:
		return types.HexLiteral(fmt.Sprintf("%X", v)), nil
	case Name:
		return v.engine()
	case []interface{}:
		arr := make(types.Array, 0, len(v))
		for _, item := range v {
			enc, err := encodeDepth(item, depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, enc)
		}
		return arr, nil
	case map[string]interface{}:
		d := types.Dict{}
		for k, item := range v {
			enc, err := encodeDepth(item, depth+1)
			if err != nil {
				return nil, err
			}
			if enc == nil {
				return nil, &ArgumentError{Msg: fmt.Sprintf("%s: dictionary values may not be null", k)}
			}
			d[strings.TrimPrefix(k, "/")] = enc
		}
		return d, nil
	case *Object:
		if v == nil {
			return nil, nil
		}
		return v.val, nil
	case types.Object:
		return v, nil
	default:
		return nil, &ArgumentError{Msg: fmt.Sprintf("can't convert %T to a PDF object", value)}
	}
}

// Decode maps an engine value back into host form: the inverse of Encode
// for every primitive. References and streams have no host form and are
// returned untouched.
func Decode(obj types.Object) interface{} {
	switch v := obj.(type) {
	case nil:
		return nil
	case types.Boolean:
		return bool(v)
	case types.Integer:
		return int(v)
	case types.Float:
		return float64(v)
	case types.StringLiteral:
		return string(v)
	case types.HexLiteral:
		b, err := hex.DecodeString(string(v))
		if err != nil {
			return string(v)
		}
		return b
	case types.Name:
		return Name("/" + string(v))
	case types.Array:
		out := make([]interface{}, 0, len(v))
		for _, item := range v {
			out = append(out, Decode(item))
		}
		return out
	case types.Dict:
		out := make(map[string]interface{}, len(v))
		for k, item := range v {
			out["/"+k] = Decode(item)
		}
		return out
	default:
		return obj
	}
}

// NewDictionary encodes a host map into a direct dictionary handle.
func NewDictionary(entries map[string]interface{}) (*Object, error) {
	enc, err := Encode(entries)
	if err != nil {
		return nil, err
	}
	return &Object{val: enc}, nil
}

// NewArray encodes host values into a direct array handle.
func NewArray(items ...interface{}) (*Object, error) {
	enc, err := Encode(items)
	if err != nil {
		return nil, err
	}
	return &Object{val: enc}, nil
}

// NewString returns a direct byte-string handle.
func NewString(s string) *Object {
	return &Object{val: types.StringLiteral(s)}
}
