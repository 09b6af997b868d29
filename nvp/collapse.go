package nvp

import (
	"encoding/json"
	"regexp"
	"slices"
	"strconv"
)

// ArrayPrefix marks keys that may carry a positional index.
const ArrayPrefix = "L_"

// MaxIndex is the largest array index that is padded. Larger indices, and
// indices that do not fit in an int, are reported as an *IndexRangeError,
// which is also an order violation since the value cannot be positioned.
const MaxIndex = 1<<20 - 1

// The field name must not end in a digit; only the trailing run is the index.
var arrayKeyPattern = regexp.MustCompile(`^(` + ArrayPrefix + `.*\D)(\d+)$`)

// SplitArrayKey splits an array key into its collapsed field name and index
// digits. ok is false for scalar keys.
//
//	SplitArrayKey("L_TRANSACTIONID12") // "L_TRANSACTIONID", "12", true
//	SplitArrayKey("L_OPTION2NAME0")    // "L_OPTION2NAME", "0", true
//	SplitArrayKey("CORRELATIONID")     // "", "", false
func SplitArrayKey(key string) (field, index string, ok bool) {
	m := arrayKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Value is one element of an array field. Valid is false for positions that
// were padded because their index never appeared in the body.
type Value struct {
	String string
	Valid  bool
}

// V returns a valid Value.
func V(s string) Value {
	return Value{String: s, Valid: true}
}

// Null is the placeholder for a skipped index.
var Null = Value{}

// MarshalJSON encodes null placeholders as JSON null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.String)
}

// Field is one entry of a Collapsed record: either a scalar or an array.
type Field struct {
	Name    string
	Scalar  string
	Values  []Value
	IsArray bool
}

// Collapsed is a Record with array keys grouped into ordered lists. Fields
// keep the position at which their name first appeared.
type Collapsed struct {
	fields []Field
	index  map[string]int
}

// Collapse groups the array keys of r. It does not use or fill the cache
// kept by Record.Collapse.
//
// Keys are read in wire order. A scalar key is stored as-is, replacing any
// earlier field with that name. An array key L_<F><i> appends to the list
// for L_<F>; when i is beyond the end of the list the gap is padded with
// Null, and when i points into the list an *OrderViolationError is
// returned.
func Collapse(r *Record) (*Collapsed, error) {
	c := &Collapsed{
		fields: make([]Field, 0, len(r.pairs)),
		index:  make(map[string]int),
	}

	for _, p := range r.pairs {
		name, digits, ok := SplitArrayKey(p.Key)
		if !ok {
			c.setScalar(p.Key, p.Value)
			continue
		}

		idx, err := strconv.Atoi(digits)
		if err != nil || idx > MaxIndex {
			return nil, &IndexRangeError{Key: p.Key, Index: digits}
		}

		f := c.array(name)
		n := len(f.Values)
		switch {
		case idx < n:
			return nil, &OrderViolationError{Key: p.Key, Field: name, Index: idx, Length: n}
		case idx > n:
			f.Values = append(f.Values, make([]Value, idx-n)...)
		}
		f.Values = append(f.Values, V(p.Value))
	}

	return c, nil
}

func (c *Collapsed) setScalar(name, value string) {
	if i, ok := c.index[name]; ok {
		c.fields[i] = Field{Name: name, Scalar: value}
		return
	}
	c.index[name] = len(c.fields)
	c.fields = append(c.fields, Field{Name: name, Scalar: value})
}

// array returns the array field called name, creating it, or turning a
// scalar of that name into an empty array, as needed.
func (c *Collapsed) array(name string) *Field {
	i, ok := c.index[name]
	if !ok {
		i = len(c.fields)
		c.index[name] = i
		c.fields = append(c.fields, Field{Name: name, IsArray: true})
	} else if !c.fields[i].IsArray {
		c.fields[i] = Field{Name: name, IsArray: true}
	}
	return &c.fields[i]
}

// Len returns the number of fields.
func (c *Collapsed) Len() int {
	return len(c.fields)
}

// Get returns the field called name. The returned Values slice is a copy.
func (c *Collapsed) Get(name string) (Field, bool) {
	i, ok := c.index[name]
	if !ok {
		return Field{}, false
	}
	f := c.fields[i]
	f.Values = slices.Clone(f.Values)
	return f, true
}

// Scalar returns the scalar field called name. ok is false when the field
// is missing or is an array.
func (c *Collapsed) Scalar(name string) (value string, ok bool) {
	i, found := c.index[name]
	if !found || c.fields[i].IsArray {
		return "", false
	}
	return c.fields[i].Scalar, true
}

// Array returns a copy of the array field called name, e.g. "L_AMT". ok is
// false when the field is missing or is a scalar.
func (c *Collapsed) Array(name string) (values []Value, ok bool) {
	i, found := c.index[name]
	if !found || !c.fields[i].IsArray {
		return nil, false
	}
	return slices.Clone(c.fields[i].Values), true
}

// Fields returns a copy of all fields in order.
func (c *Collapsed) Fields() []Field {
	out := make([]Field, len(c.fields))
	for i, f := range c.fields {
		f.Values = slices.Clone(f.Values)
		out[i] = f
	}
	return out
}

// Equal reports whether c and other hold the same fields, in the same
// order, with the same values.
func (c *Collapsed) Equal(other *Collapsed) bool {
	if c == nil || other == nil {
		return c == other
	}
	return slices.EqualFunc(c.fields, other.fields, func(a, b Field) bool {
		return a.Name == b.Name &&
			a.IsArray == b.IsArray &&
			a.Scalar == b.Scalar &&
			slices.Equal(a.Values, b.Values)
	})
}

// MarshalJSON encodes the collapsed record as a JSON object in field order.
// Arrays become JSON arrays with null for padded positions.
func (c *Collapsed) MarshalJSON() ([]byte, error) {
	var b objectBuilder
	for _, f := range c.fields {
		var v any = f.Scalar
		if f.IsArray {
			v = f.Values
		}
		if err := b.add(f.Name, v); err != nil {
			return nil, err
		}
	}
	return b.bytes(), nil
}
