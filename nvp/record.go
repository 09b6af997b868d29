package nvp

import (
	"encoding/json"
	"iter"
	"strings"
	"sync"
)

// Pair is a single decoded key/value pair.
type Pair struct {
	Key   string
	Value string
}

// Record is a decoded NVP body. Pairs keep the order in which they appeared
// on the wire. A Record is immutable once built and safe for concurrent use.
type Record struct {
	pairs []Pair
	index map[string]int

	once      sync.Once
	collapsed *Collapsed
	err       error
}

// Decode parses a raw application/x-www-form-urlencoded body.
//
// Decoding never fails: '+' becomes a space and percent sequences that are
// not followed by two hex digits are kept verbatim. Empty segments are
// skipped and a segment without '=' decodes to an empty value. When a key
// repeats, the first position is kept and the last value wins.
func Decode(raw string) *Record {
	r := &Record{index: make(map[string]int)}
	for raw != "" {
		var segment string
		segment, raw, _ = strings.Cut(raw, "&")
		if segment == "" {
			continue
		}
		key, value, _ := strings.Cut(segment, "=")
		r.set(unescape(key), unescape(value))
	}
	return r
}

// DecodeBytes is Decode for a response body read as bytes.
func DecodeBytes(raw []byte) *Record {
	return Decode(string(raw))
}

// NewRecord builds a Record from already decoded pairs, applying the same
// duplicate-key rule as Decode.
func NewRecord(pairs ...Pair) *Record {
	r := &Record{
		pairs: make([]Pair, 0, len(pairs)),
		index: make(map[string]int, len(pairs)),
	}
	for _, p := range pairs {
		r.set(p.Key, p.Value)
	}
	return r
}

func (r *Record) set(key, value string) {
	if i, ok := r.index[key]; ok {
		r.pairs[i].Value = value
		return
	}
	r.index[key] = len(r.pairs)
	r.pairs = append(r.pairs, Pair{Key: key, Value: value})
}

// Len returns the number of distinct keys.
func (r *Record) Len() int {
	return len(r.pairs)
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (string, bool) {
	i, ok := r.index[key]
	if !ok {
		return "", false
	}
	return r.pairs[i].Value, true
}

// Lookup is Get for required keys. A missing key yields a
// *MissingFieldError.
func (r *Record) Lookup(key string) (string, error) {
	v, ok := r.Get(key)
	if !ok {
		return "", &MissingFieldError{Key: key}
	}
	return v, nil
}

// Pairs returns a copy of the pairs in wire order.
func (r *Record) Pairs() []Pair {
	out := make([]Pair, len(r.pairs))
	copy(out, r.pairs)
	return out
}

// Keys returns the keys in wire order.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.pairs))
	for i, p := range r.pairs {
		keys[i] = p.Key
	}
	return keys
}

// All iterates over the pairs in wire order.
func (r *Record) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, p := range r.pairs {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Collapse returns the collapsed form of the record. The result is computed
// on first use and cached; later calls, from any goroutine, return the same
// value or the same error.
func (r *Record) Collapse() (*Collapsed, error) {
	r.once.Do(func() {
		r.collapsed, r.err = Collapse(r)
	})
	return r.collapsed, r.err
}

// Zip collapses the record and returns the per-entity sequence.
func (r *Record) Zip() (iter.Seq[Entry], error) {
	c, err := r.Collapse()
	if err != nil {
		return nil, err
	}
	return c.Zip(), nil
}

// MarshalJSON encodes the record as a JSON object in wire order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var b objectBuilder
	for _, p := range r.pairs {
		if err := b.add(p.Key, p.Value); err != nil {
			return nil, err
		}
	}
	return b.bytes(), nil
}

// objectBuilder writes a JSON object with caller-controlled key order.
type objectBuilder struct {
	buf []byte
}

func (b *objectBuilder) add(key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if len(b.buf) == 0 {
		b.buf = append(b.buf, '{')
	} else {
		b.buf = append(b.buf, ',')
	}
	b.buf = append(b.buf, k...)
	b.buf = append(b.buf, ':')
	b.buf = append(b.buf, v...)
	return nil
}

func (b *objectBuilder) bytes() []byte {
	if len(b.buf) == 0 {
		return []byte("{}")
	}
	return append(b.buf, '}')
}

// unescape decodes '+' and %XX sequences, leaving malformed escapes as-is.
func unescape(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '+':
			b.WriteByte(' ')
		case '%':
			if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
				b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
				i += 2
				continue
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
