package jsonapi

import (
	json "github.com/goccy/go-json"
)

// Included accumulates pre-rendered resources destined for a document's
// included section. It is append-only and order-preserving; it never
// deduplicates by identifier and never validates against the document's
// data section. The zero value is empty.
//
// Appends return a new accumulator and leave the receiver observably
// unaffected, so intermediate values may be kept or discarded freely.
type Included struct {
	items []json.RawMessage
}

// Append converts one entity via NewResource and adds its rendered form to
// the tail of the sequence.
func (in Included) Append(e Entity) (Included, error) {
	r, err := NewResource(e)
	if err != nil {
		return in, err
	}
	return in.AppendResource(r)
}

// AppendAll appends every entity in source order.
func (in Included) AppendAll(es []Entity) (Included, error) {
	out := in
	for _, e := range es {
		var err error
		out, err = out.Append(e)
		if err != nil {
			return in, err
		}
	}
	return out, nil
}

// AppendResource adds an already-converted resource.
func (in Included) AppendResource(r Resource) (Included, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return in, err
	}
	// Full slice expression keeps appends from writing into storage shared
	// with the receiver.
	items := append(in.items[:len(in.items):len(in.items)], json.RawMessage(b))
	return Included{items: items}, nil
}

// Len reports the number of accumulated resources.
func (in Included) Len() int { return len(in.items) }

// Items flattens the accumulated values in insertion order.
func (in Included) Items() []json.RawMessage {
	if len(in.items) == 0 {
		return nil
	}
	out := make([]json.RawMessage, len(in.items))
	copy(out, in.items)
	return out
}
