package jsonapi

import (
	json "github.com/goccy/go-json"
)

// Meta is an ordered mapping from member name to arbitrary JSON value, used
// for non-standard metadata on documents, resources, relationships, links and
// errors. The zero value is empty and ready to use. Meta is not safe to
// mutate once attached to a document.
type Meta struct {
	orderedMap[any]
}

// Merge combines two Meta values with a left-biased key union: the receiver
// wins on conflicting keys. The empty Meta is the identity on either side.
func (m Meta) Merge(o Meta) Meta { return Meta{m.union(o.orderedMap)} }

// Equal reports member-wise equality including key order.
func (m Meta) Equal(o Meta) bool { return m.equal(o.orderedMap) }

// Link is a member of a links object: either a bare URL, or a URL with
// attached meta. It marshals to the string form when Meta is empty and to
// the {"href": ..., "meta": ...} object form otherwise.
type Link struct {
	Href string
	Meta Meta
}

// MarshalJSON renders the string form unless meta is attached.
func (l Link) MarshalJSON() ([]byte, error) {
	if l.Meta.Len() == 0 {
		return json.Marshal(l.Href)
	}
	var om orderedMap[any]
	om.Set("href", l.Href)
	om.Set("meta", l.Meta)
	return om.MarshalJSON()
}

// UnmarshalJSON accepts both the bare string and the object form.
func (l *Link) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*l = Link{Href: s}
		return nil
	}
	var obj struct {
		Href *string `json:"href"`
		Meta Meta    `json:"meta"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.Href == nil {
		return singleIssue("/href", CodeShapeMismatch, "link object must carry an href string")
	}
	*l = Link{Href: *obj.Href, Meta: obj.Meta}
	return nil
}

// Links is an ordered mapping from link name to Link. The zero value is
// empty and ready to use.
type Links struct {
	orderedMap[Link]
}

// Merge combines two Links values with a left-biased key union, like
// Meta.Merge.
func (l Links) Merge(o Links) Links { return Links{l.union(o.orderedMap)} }

// Equal reports member-wise equality including key order.
func (l Links) Equal(o Links) bool { return l.equal(o.orderedMap) }

// SelfLink builds a Links containing only the conventional "self" member.
func SelfLink(href string) Links {
	var l Links
	l.Set("self", Link{Href: href})
	return l
}
