package jsonapi

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// ResourceIdentifier identifies a resource within a document by its type and
// id. Relationships reference resources by identifier only, never by
// embedding.
type ResourceIdentifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Attributes is the ordered mapping of a resource's domain fields, excluding
// id, type and relationships. The zero value is empty and ready to use.
type Attributes struct {
	orderedMap[any]
}

// Equal reports member-wise equality including key order.
func (a Attributes) Equal(o Attributes) bool { return a.equal(o.orderedMap) }

// Relationship carries resource linkage (one or many identifiers) plus
// optional links and meta. Construct with ToOne or ToMany; the linkage
// cardinality is fixed at construction.
type Relationship struct {
	many  bool
	one   ResourceIdentifier
	ids   []ResourceIdentifier
	links Links
	meta  Meta
}

// ToOne builds a relationship whose linkage is a single identifier.
func ToOne(id ResourceIdentifier) Relationship {
	return Relationship{one: id}
}

// ToMany builds a relationship whose linkage is an ordered set of
// identifiers. Zero identifiers is valid and encodes as an empty array.
func ToMany(ids ...ResourceIdentifier) Relationship {
	out := make([]ResourceIdentifier, len(ids))
	copy(out, ids)
	return Relationship{many: true, ids: out}
}

// IsToMany reports whether the linkage is an identifier array.
func (r Relationship) IsToMany() bool { return r.many }

// One returns the single identifier and true for to-one linkage.
func (r Relationship) One() (ResourceIdentifier, bool) {
	if r.many {
		return ResourceIdentifier{}, false
	}
	return r.one, true
}

// Many returns the identifiers and true for to-many linkage.
func (r Relationship) Many() ([]ResourceIdentifier, bool) {
	if !r.many {
		return nil, false
	}
	out := make([]ResourceIdentifier, len(r.ids))
	copy(out, r.ids)
	return out, true
}

// Links returns the relationship's links.
func (r Relationship) Links() Links { return r.links }

// Meta returns the relationship's meta.
func (r Relationship) Meta() Meta { return r.meta }

// WithLinks returns a copy carrying the given links.
func (r Relationship) WithLinks(l Links) Relationship {
	r.links = l
	return r
}

// WithMeta returns a copy carrying the given meta.
func (r Relationship) WithMeta(m Meta) Relationship {
	r.meta = m
	return r
}

// Equal reports equality of linkage, links and meta.
func (r Relationship) Equal(o Relationship) bool {
	if r.many != o.many || r.one != o.one || len(r.ids) != len(o.ids) {
		return false
	}
	for i := range r.ids {
		if r.ids[i] != o.ids[i] {
			return false
		}
	}
	return r.links.Equal(o.links) && r.meta.Equal(o.meta)
}

// MarshalJSON emits {"data": <identifier | [identifier, ...]>} plus links and
// meta when non-empty.
func (r Relationship) MarshalJSON() ([]byte, error) {
	var om orderedMap[any]
	if r.many {
		ids := r.ids
		if ids == nil {
			ids = []ResourceIdentifier{}
		}
		om.Set("data", ids)
	} else {
		om.Set("data", r.one)
	}
	if r.links.Len() > 0 {
		om.Set("links", r.links)
	}
	if r.meta.Len() > 0 {
		om.Set("meta", r.meta)
	}
	return om.MarshalJSON()
}

// UnmarshalJSON decodes both linkage shapes. The data member is required.
func (r *Relationship) UnmarshalJSON(b []byte) error {
	var obj struct {
		Data  json.RawMessage `json:"data"`
		Links Links           `json:"links"`
		Meta  Meta            `json:"meta"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if len(obj.Data) == 0 {
		return singleIssue("/data", CodeShapeMismatch, "relationship must carry resource linkage")
	}
	out := Relationship{links: obj.Links, meta: obj.Meta}
	switch obj.Data[0] {
	case '[':
		out.many = true
		if err := json.Unmarshal(obj.Data, &out.ids); err != nil {
			return err
		}
		if out.ids == nil {
			out.ids = []ResourceIdentifier{}
		}
	case '{':
		if err := json.Unmarshal(obj.Data, &out.one); err != nil {
			return err
		}
	default:
		return singleIssue("/data", CodeShapeMismatch, "resource linkage must be an identifier or an identifier array")
	}
	*r = out
	return nil
}

// Relationships is the ordered mapping from relationship name to
// Relationship. The zero value is empty and ready to use.
type Relationships struct {
	orderedMap[Relationship]
}

// Equal reports member-wise equality including key order.
func (r Relationships) Equal(o Relationships) bool { return r.equal(o.orderedMap) }

// Resource is one domain entity rendered for the wire. ID and Type are
// required; the remaining sections are omitted from output when empty.
type Resource struct {
	ID            string
	Type          string
	Attributes    Attributes
	Relationships Relationships
	Links         Links
	Meta          Meta
}

// Identifier returns the resource's identifier pair.
func (r Resource) Identifier() ResourceIdentifier {
	return ResourceIdentifier{ID: r.ID, Type: r.Type}
}

// Equal reports deep equality of all sections.
func (r Resource) Equal(o Resource) bool {
	return r.ID == o.ID && r.Type == o.Type &&
		r.Attributes.Equal(o.Attributes) &&
		r.Relationships.Equal(o.Relationships) &&
		r.Links.Equal(o.Links) &&
		r.Meta.Equal(o.Meta)
}

// MarshalJSON always emits id and type; attributes, relationships, links and
// meta appear only when non-empty, never as {}.
func (r Resource) MarshalJSON() ([]byte, error) {
	var om orderedMap[any]
	om.Set("id", r.ID)
	om.Set("type", r.Type)
	if r.Attributes.Len() > 0 {
		om.Set("attributes", r.Attributes)
	}
	if r.Relationships.Len() > 0 {
		om.Set("relationships", r.Relationships)
	}
	if r.Links.Len() > 0 {
		om.Set("links", r.Links)
	}
	if r.Meta.Len() > 0 {
		om.Set("meta", r.Meta)
	}
	return om.MarshalJSON()
}

// Entity is the capability contract a domain value implements to be rendered
// as a resource. It replaces reflective field discovery: the entity reports
// its identity and sections explicitly.
type Entity interface {
	// ResourceIdentity reports the resource type name and id. Both must be
	// non-empty for conversion to succeed.
	ResourceIdentity() (typ, id string)
	// ResourceAttributes reports the domain fields, excluding id, type and
	// relationships.
	ResourceAttributes() Attributes
	// ResourceRelationships reports linkage to other resources by identifier.
	ResourceRelationships() Relationships
}

// Linkable is implemented by entities that carry resource-level links.
type Linkable interface {
	ResourceLinks() Links
}

// Metable is implemented by entities that carry resource-level meta.
type Metable interface {
	ResourceMeta() Meta
}

// NewResource converts a domain entity into its canonical Resource form. It
// fails with a missing_identity issue when the entity reports an empty type
// or id.
func NewResource(e Entity) (Resource, error) {
	typ, id := e.ResourceIdentity()
	if typ == "" || id == "" {
		return Resource{}, singleIssue("", CodeMissingIdentity,
			fmt.Sprintf("entity reported type=%q id=%q; both must be non-empty", typ, id))
	}
	r := Resource{
		ID:            id,
		Type:          typ,
		Attributes:    e.ResourceAttributes(),
		Relationships: e.ResourceRelationships(),
	}
	if l, ok := e.(Linkable); ok {
		r.Links = l.ResourceLinks()
	}
	if m, ok := e.(Metable); ok {
		r.Meta = m.ResourceMeta()
	}
	return r, nil
}
