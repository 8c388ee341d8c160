package jsonapi

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// PrimaryData constrains the cardinality of a document's data section:
// exactly one resource, or an ordered collection of resources. The choice is
// made at construction and preserved through encode and decode; a single
// resource never silently degrades into a one-element array or vice versa.
type PrimaryData interface {
	Resource | []Resource
}

// Document is the top-level success envelope. Data is always emitted; links,
// meta and included are omitted from output when empty, never emitted as
// {} or [].
type Document[T PrimaryData] struct {
	Data     T
	Links    Links
	Meta     Meta
	Included []json.RawMessage
}

// Single wraps one resource in a document. Links, meta and included start
// empty; attach them with the With setters.
func Single(r Resource) Document[Resource] {
	return Document[Resource]{Data: r}
}

// Collection wraps an ordered collection of resources in a document. An empty
// or nil collection is valid and encodes as "data": [].
func Collection(rs []Resource) Document[[]Resource] {
	out := make([]Resource, len(rs))
	copy(out, rs)
	return Document[[]Resource]{Data: out}
}

// WithLinks returns a copy of the document carrying the given links.
func (d Document[T]) WithLinks(l Links) Document[T] {
	d.Links = l
	return d
}

// WithMeta returns a copy of the document carrying the given meta.
func (d Document[T]) WithMeta(m Meta) Document[T] {
	d.Meta = m
	return d
}

// WithIncluded returns a copy of the document carrying the accumulator's
// resources as its included section, in insertion order.
func (d Document[T]) WithIncluded(in Included) Document[T] {
	d.Included = in.Items()
	return d
}

// MarshalJSON renders the envelope. The data key is always present; a single
// resource renders as an object and a collection as an array, even for zero
// or one elements.
func (d Document[T]) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteString(`{"data":`)
	switch data := any(d.Data).(type) {
	case Resource:
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	case []Resource:
		if data == nil {
			data = []Resource{}
		}
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	if d.Links.Len() > 0 {
		b, err := json.Marshal(d.Links)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"links":`)
		buf.Write(b)
	}
	if d.Meta.Len() > 0 {
		b, err := json.Marshal(d.Meta)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"meta":`)
		buf.Write(b)
	}
	if len(d.Included) > 0 {
		b, err := json.Marshal(d.Included)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"included":`)
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
