package jsonapi

import (
	"bytes"

	json "github.com/goccy/go-json"

	"github.com/am-/json-api/i18n"
)

// ErrorObject is one application error. Every field is optional; an
// all-absent ErrorObject is valid and serializes to {}.
type ErrorObject struct {
	ID     string
	Status string
	Code   string
	Title  string
	Detail string
	Links  Links
	Meta   Meta
}

// Equal reports deep equality of all fields.
func (e ErrorObject) Equal(o ErrorObject) bool {
	return e.ID == o.ID && e.Status == o.Status && e.Code == o.Code &&
		e.Title == o.Title && e.Detail == o.Detail &&
		e.Links.Equal(o.Links) && e.Meta.Equal(o.Meta)
}

// MarshalJSON emits only the present fields.
func (e ErrorObject) MarshalJSON() ([]byte, error) {
	var om orderedMap[any]
	if e.ID != "" {
		om.Set("id", e.ID)
	}
	if e.Status != "" {
		om.Set("status", e.Status)
	}
	if e.Code != "" {
		om.Set("code", e.Code)
	}
	if e.Title != "" {
		om.Set("title", e.Title)
	}
	if e.Detail != "" {
		om.Set("detail", e.Detail)
	}
	if e.Links.Len() > 0 {
		om.Set("links", e.Links)
	}
	if e.Meta.Len() > 0 {
		om.Set("meta", e.Meta)
	}
	return om.MarshalJSON()
}

// ErrorDocument is the top-level failure envelope. The errors key is always
// emitted, even when the sequence is empty; links and meta are omitted when
// empty.
type ErrorDocument struct {
	Errors []ErrorObject
	Links  Links
	Meta   Meta
}

// NewErrorDocument wraps the given errors in a failure envelope.
func NewErrorDocument(errs ...ErrorObject) ErrorDocument {
	out := make([]ErrorObject, len(errs))
	copy(out, errs)
	return ErrorDocument{Errors: out}
}

// WithLinks returns a copy of the document carrying the given links.
func (d ErrorDocument) WithLinks(l Links) ErrorDocument {
	d.Links = l
	return d
}

// WithMeta returns a copy of the document carrying the given meta.
func (d ErrorDocument) WithMeta(m Meta) ErrorDocument {
	d.Meta = m
	return d
}

// MarshalJSON renders the envelope with errors always present.
func (d ErrorDocument) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteString(`{"errors":`)
	errs := d.Errors
	if errs == nil {
		errs = []ErrorObject{}
	}
	b, err := json.Marshal(errs)
	if err != nil {
		return nil, err
	}
	buf.Write(b)
	if d.Links.Len() > 0 {
		lb, err := json.Marshal(d.Links)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"links":`)
		buf.Write(lb)
	}
	if d.Meta.Len() > 0 {
		mb, err := json.Marshal(d.Meta)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"meta":`)
		buf.Write(mb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ErrorsFromIssues renders decode or conversion failures as a wire-ready
// error document: one ErrorObject per issue, in order. The issue code maps
// to code, its translated message to title, the raw message to detail and
// the JSON Pointer (when present) to meta.pointer.
func ErrorsFromIssues(iss Issues) ErrorDocument {
	errs := make([]ErrorObject, 0, len(iss))
	for _, it := range iss {
		eo := ErrorObject{
			Code:   it.Code,
			Title:  i18n.T(it.Code, nil),
			Detail: it.Message,
		}
		if it.Path != "" {
			var m Meta
			m.Set("pointer", it.Path)
			eo.Meta = m
		}
		errs = append(errs, eo)
	}
	return ErrorDocument{Errors: errs}
}
