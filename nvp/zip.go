package nvp

import (
	"iter"
	"strings"
)

// Entry is one zipped record, keyed by array field name without the L_
// prefix.
type Entry map[string]Value

// Get returns the string stored under name. ok is false when the name is
// absent or its position was padded.
func (e Entry) Get(name string) (value string, ok bool) {
	v, found := e[name]
	if !found || !v.Valid {
		return "", false
	}
	return v.String, true
}

// Zip returns the array fields zipped position by position. Scalars are not
// part of the output. The sequence stops at the shortest array, so lists of
// unequal length are truncated; with no array fields it is empty.
//
// The sequence is restartable: every iteration reads the collapsed record
// afresh and nothing is consumed.
func (c *Collapsed) Zip() iter.Seq[Entry] {
	return zipArrays(c.arrays)
}

// ZipFields is Zip restricted to the named arrays, given without the L_
// prefix. Names that are absent or hold a scalar are skipped, so a response
// that also carries unrelated arrays (such as L_ERRORCODE warnings) does not
// truncate the result.
func (c *Collapsed) ZipFields(names ...string) iter.Seq[Entry] {
	return zipArrays(func() []Field {
		var arrays []Field
		for _, name := range names {
			i, ok := c.index[ArrayPrefix+name]
			if ok && c.fields[i].IsArray {
				arrays = append(arrays, c.fields[i])
			}
		}
		return arrays
	})
}

func zipArrays(selectArrays func() []Field) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		arrays := selectArrays()
		n := zipLen(arrays)
		for p := 0; p < n; p++ {
			e := make(Entry, len(arrays))
			for _, f := range arrays {
				e[strings.TrimPrefix(f.Name, ArrayPrefix)] = f.Values[p]
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Entries returns the zipped records as a slice.
func (c *Collapsed) Entries() []Entry {
	out := make([]Entry, 0, c.ZipLen())
	for e := range c.Zip() {
		out = append(out, e)
	}
	return out
}

// ZipLen returns the number of records Zip yields.
func (c *Collapsed) ZipLen() int {
	return zipLen(c.arrays())
}

func (c *Collapsed) arrays() []Field {
	var arrays []Field
	for _, f := range c.fields {
		if f.IsArray {
			arrays = append(arrays, f)
		}
	}
	return arrays
}

func zipLen(arrays []Field) int {
	if len(arrays) == 0 {
		return 0
	}
	n := len(arrays[0].Values)
	for _, f := range arrays[1:] {
		n = min(n, len(f.Values))
	}
	return n
}
