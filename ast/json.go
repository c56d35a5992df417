package ast

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// EncodeOptions controls the ESTree JSON rendering.
type EncodeOptions struct {
	// Ranges adds "start" and "end" byte offsets to every node.
	Ranges bool
	// Indent, when non-empty, pretty prints with the given indent.
	Indent string
}

// Marshal renders n as ESTree JSON. Properties appear in a fixed order:
// "type" first, then the node's fields in declaration order, then the
// range and location. Nil nodes and holes render as null, nil lists as [].
// A "loc" property appears for nodes whose Span carries a location.
func Marshal(n Node, opts EncodeOptions) ([]byte, error) {
	e := &encoder{opts: opts}
	e.value(reflect.ValueOf(n))
	if e.err != nil {
		return nil, e.err
	}
	if opts.Indent == "" {
		return e.buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, e.buf.Bytes(), "", opts.Indent); err != nil {
		return nil, errors.Wrap(err, "indenting ESTree JSON")
	}
	return out.Bytes(), nil
}

// Encode writes the ESTree JSON for n to w, followed by a newline.
func Encode(w io.Writer, n Node, opts EncodeOptions) error {
	b, err := Marshal(n, opts)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return errors.Wrap(err, "writing ESTree JSON")
}

var (
	spanType = reflect.TypeOf(Span{})
	nodeType = reflect.TypeOf((*Node)(nil)).Elem()
)

type encoder struct {
	buf  bytes.Buffer
	opts EncodeOptions
	err  error
}

func (e *encoder) value(v reflect.Value) {
	if e.err != nil {
		return
	}
	switch v.Kind() {
	case reflect.Invalid:
		e.buf.WriteString("null")
	case reflect.Interface, reflect.Ptr:
		if v.IsNil() {
			e.buf.WriteString("null")
			return
		}
		if v.Kind() == reflect.Ptr && v.Type().Implements(nodeType) {
			e.node(v)
			return
		}
		e.value(v.Elem())
	case reflect.Struct:
		e.object(v, "")
	case reflect.Slice:
		e.buf.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.value(v.Index(i))
		}
		e.buf.WriteByte(']')
	case reflect.String:
		e.str(v.String())
	case reflect.Bool:
		if v.Bool() {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case reflect.Float64, reflect.Float32:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			e.buf.WriteString("null")
			return
		}
		e.scalar(f)
	case reflect.Int, reflect.Int64, reflect.Int32:
		e.scalar(v.Int())
	default:
		e.err = errors.Errorf("ast: cannot encode %s", v.Type())
	}
}

func (e *encoder) node(v reflect.Value) {
	n := v.Interface().(Node)
	e.object(v.Elem(), n.Type())
	if e.err != nil {
		return
	}
	// reopen the object to append the span properties
	e.buf.Truncate(e.buf.Len() - 1)
	span := n.Bounds()
	if e.opts.Ranges {
		e.buf.WriteString(`,"start":`)
		e.scalar(span.Start)
		e.buf.WriteString(`,"end":`)
		e.scalar(span.End)
	}
	if span.Loc != nil {
		e.buf.WriteString(`,"loc":`)
		e.object(reflect.ValueOf(*span.Loc), "")
	}
	e.buf.WriteByte('}')
}

// object writes the tagged fields of struct v. A non-empty typ is written
// first as the "type" property.
func (e *encoder) object(v reflect.Value, typ string) {
	e.buf.WriteByte('{')
	first := true
	if typ != "" {
		e.buf.WriteString(`"type":`)
		e.str(typ)
		first = false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == spanType {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name, omitEmpty := tag, false
		if idx := strings.IndexByte(tag, ','); idx >= 0 {
			name, omitEmpty = tag[:idx], strings.Contains(tag[idx:], "omitempty")
		}
		fv := v.Field(i)
		if omitEmpty && isEmpty(fv) {
			continue
		}
		if !first {
			e.buf.WriteByte(',')
		}
		first = false
		e.str(name)
		e.buf.WriteByte(':')
		e.value(fv)
	}
	e.buf.WriteByte('}')
}

// isEmpty reports the zero values dropped by omitempty. Empty but non-nil
// lists are kept so an option can force `"attributes": []`.
func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func (e *encoder) str(s string) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		e.err = errors.Wrap(err, "encoding string")
		return
	}
	e.buf.Write(bytes.TrimRight(b.Bytes(), "\n"))
}

func (e *encoder) scalar(x interface{}) {
	b, err := json.Marshal(x)
	if err != nil {
		e.err = errors.Wrapf(err, "encoding %v", x)
		return
	}
	e.buf.Write(b)
}
