package jsonapi

import (
	"bytes"
	"io"
	"reflect"

	json "github.com/goccy/go-json"

	"github.com/am-/json-api/internal/engine"
)

// orderedMap is the insertion-ordered string-keyed map backing Meta, Links,
// Attributes and Relationships. The zero value is empty and ready to use.
// Setting an existing key overwrites the value in place (last-write-wins)
// without changing its position.
type orderedMap[V any] struct {
	keys []string
	vals map[string]V
}

// Set inserts or overwrites a member, preserving first-insertion order.
func (m *orderedMap[V]) Set(k string, v V) {
	if m.vals == nil {
		m.vals = make(map[string]V)
	}
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

// Get reports the value stored under k and whether the key is present.
func (m orderedMap[V]) Get(k string) (V, bool) {
	v, ok := m.vals[k]
	return v, ok
}

// Has reports whether the key is present.
func (m orderedMap[V]) Has(k string) bool {
	_, ok := m.vals[k]
	return ok
}

// Len reports the number of members.
func (m orderedMap[V]) Len() int { return len(m.keys) }

// Keys returns the member keys in insertion order.
func (m orderedMap[V]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// union combines two maps with a left-biased key union: the receiver's value
// wins on conflict and the receiver's keys keep their positions. The empty
// map is the identity on either side.
func (m orderedMap[V]) union(o orderedMap[V]) orderedMap[V] {
	var out orderedMap[V]
	for _, k := range m.keys {
		out.Set(k, m.vals[k])
	}
	for _, k := range o.keys {
		if !out.Has(k) {
			out.Set(k, o.vals[k])
		}
	}
	return out
}

// equal reports member-wise equality including key order.
func (m orderedMap[V]) equal(o orderedMap[V]) bool {
	if len(m.keys) != len(o.keys) {
		return false
	}
	for i, k := range m.keys {
		if o.keys[i] != k {
			return false
		}
		if !reflect.DeepEqual(m.vals[k], o.vals[k]) {
			return false
		}
	}
	return true
}

// MarshalJSON renders the map as a JSON object with keys in insertion order.
func (m orderedMap[V]) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving its key order. Numbers
// inside values decode as json.Number.
func (m *orderedMap[V]) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = orderedMap[V]{}
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	keys, err := topLevelKeys(b)
	if err != nil {
		return err
	}
	out := orderedMap[V]{}
	for _, k := range keys {
		dec := json.NewDecoder(bytes.NewReader(raw[k]))
		dec.UseNumber()
		var v V
		if err := dec.Decode(&v); err != nil {
			return err
		}
		out.Set(k, v)
	}
	*m = out
	return nil
}

// topLevelKeys scans the object's immediate member names in input order.
func topLevelKeys(b []byte) ([]string, error) {
	src := engine.NewBytes(b)
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind != engine.KindBeginObject {
		return nil, io.ErrUnexpectedEOF
	}
	depth := 1
	var keys []string
	for depth > 0 {
		tok, err = src.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case engine.KindBeginObject, engine.KindBeginArray:
			depth++
		case engine.KindEndObject, engine.KindEndArray:
			depth--
		case engine.KindKey:
			if depth == 1 {
				keys = append(keys, tok.String)
			}
		}
	}
	return keys, nil
}
