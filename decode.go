package jsonapi

import (
	"bytes"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/am-/json-api/internal/engine"
)

// DecodeOne parses a document whose data section is a single resource.
// The caller chooses the cardinality up front: the wire format alone cannot
// distinguish a single resource from a one-element collection.
func DecodeOne(data []byte) (Document[Resource], error) {
	return DecodeOneReader(bytes.NewReader(data))
}

// DecodeOneReader is DecodeOne over an io.Reader.
func DecodeOneReader(r io.Reader) (Document[Resource], error) {
	var zero Document[Resource]
	root, err := decodeTree(r)
	if err != nil {
		return zero, err
	}
	return documentOneFromNode(root)
}

// DecodeMany parses a document whose data section is a collection of
// resources. The empty collection is valid.
func DecodeMany(data []byte) (Document[[]Resource], error) {
	return DecodeManyReader(bytes.NewReader(data))
}

// DecodeManyReader is DecodeMany over an io.Reader.
func DecodeManyReader(r io.Reader) (Document[[]Resource], error) {
	var zero Document[[]Resource]
	root, err := decodeTree(r)
	if err != nil {
		return zero, err
	}
	return documentManyFromNode(root)
}

// DecodeErrors parses a top-level error document. The errors key is
// required, though it may be an empty array.
func DecodeErrors(data []byte) (ErrorDocument, error) {
	return DecodeErrorsReader(bytes.NewReader(data))
}

// DecodeErrorsReader is DecodeErrors over an io.Reader.
func DecodeErrorsReader(r io.Reader) (ErrorDocument, error) {
	var zero ErrorDocument
	root, err := decodeTree(r)
	if err != nil {
		return zero, err
	}
	return errorDocumentFromNode(root)
}

// decodeTree tokenizes JSON input into an ordered any tree. Objects surface
// as *engine.Object, arrays as []any, numbers as json.Number.
func decodeTree(r io.Reader) (any, error) {
	src := engine.NewReader(r)
	root, err := engine.DecodeAnyFromSource(src)
	if err != nil {
		return nil, Issues{{Path: "", Code: CodeMalformedJSON, Message: "input is not valid JSON", Cause: err, Offset: -1}}
	}
	// A JSON text is a single value; anything after it is a syntax error.
	if _, err := src.NextToken(); err != io.EOF {
		return nil, singleIssue("", CodeMalformedJSON, "unexpected trailing content after document")
	}
	return root, nil
}

// ---- document assembly (shared by JSON and YAML ingestion) ----

// envelope carries the optional top-level sections common to both
// cardinalities.
type envelope struct {
	links    Links
	meta     Meta
	included []json.RawMessage
}

func documentOneFromNode(root any) (Document[Resource], error) {
	var zero Document[Resource]
	dataNode, env, err := splitEnvelope(root)
	if err != nil {
		return zero, err
	}
	if _, isArr := dataNode.([]any); isArr {
		return zero, singleIssue("/data", CodeShapeMismatch, "expected a single resource object, got an array")
	}
	res, err := resourceFromNode(dataNode, "/data")
	if err != nil {
		return zero, err
	}
	return Document[Resource]{Data: res, Links: env.links, Meta: env.meta, Included: env.included}, nil
}

func documentManyFromNode(root any) (Document[[]Resource], error) {
	var zero Document[[]Resource]
	dataNode, env, err := splitEnvelope(root)
	if err != nil {
		return zero, err
	}
	arr, ok := dataNode.([]any)
	if !ok {
		return zero, singleIssue("/data", CodeShapeMismatch, "expected an array of resources")
	}
	rs := make([]Resource, 0, len(arr))
	for i, el := range arr {
		res, err := resourceFromNode(el, fmt.Sprintf("/data/%d", i))
		if err != nil {
			return zero, err
		}
		rs = append(rs, res)
	}
	return Document[[]Resource]{Data: rs, Links: env.links, Meta: env.meta, Included: env.included}, nil
}

// splitEnvelope validates the top-level object, extracts the required data
// node and decodes the optional sections. Unknown top-level keys are ignored.
func splitEnvelope(root any) (any, envelope, error) {
	var env envelope
	obj, ok := root.(*engine.Object)
	if !ok {
		return nil, env, singleIssue("", CodeShapeMismatch, "document must be a JSON object")
	}
	dataNode, ok := obj.Get("data")
	if !ok {
		return nil, env, singleIssue("", CodeMissingData, "document has no data key")
	}
	if v, ok := obj.Get("links"); ok {
		l, err := linksFromNode(v, "/links")
		if err != nil {
			return nil, env, err
		}
		env.links = l
	}
	if v, ok := obj.Get("meta"); ok {
		m, err := metaFromNode(v, "/meta")
		if err != nil {
			return nil, env, err
		}
		env.meta = m
	}
	if v, ok := obj.Get("included"); ok {
		inc, err := includedFromNode(v, "/included")
		if err != nil {
			return nil, env, err
		}
		env.included = inc
	}
	return dataNode, env, nil
}

func errorDocumentFromNode(root any) (ErrorDocument, error) {
	var zero ErrorDocument
	obj, ok := root.(*engine.Object)
	if !ok {
		return zero, singleIssue("", CodeShapeMismatch, "error document must be a JSON object")
	}
	errsNode, ok := obj.Get("errors")
	if !ok {
		return zero, singleIssue("", CodeMissingErrors, "error document has no errors key")
	}
	arr, ok := errsNode.([]any)
	if !ok {
		return zero, singleIssue("/errors", CodeShapeMismatch, "errors must be an array")
	}
	out := ErrorDocument{Errors: make([]ErrorObject, 0, len(arr))}
	for i, el := range arr {
		eo, err := errorObjectFromNode(el, fmt.Sprintf("/errors/%d", i))
		if err != nil {
			return zero, err
		}
		out.Errors = append(out.Errors, eo)
	}
	if v, ok := obj.Get("links"); ok {
		l, err := linksFromNode(v, "/links")
		if err != nil {
			return zero, err
		}
		out.Links = l
	}
	if v, ok := obj.Get("meta"); ok {
		m, err := metaFromNode(v, "/meta")
		if err != nil {
			return zero, err
		}
		out.Meta = m
	}
	return out, nil
}

// ---- node -> model conversions ----

func resourceFromNode(v any, path string) (Resource, error) {
	var zero Resource
	obj, ok := v.(*engine.Object)
	if !ok {
		return zero, singleIssue(path, CodeShapeMismatch, "resource must be a JSON object")
	}
	id, err := requiredString(obj, "id", path)
	if err != nil {
		return zero, err
	}
	typ, err := requiredString(obj, "type", path)
	if err != nil {
		return zero, err
	}
	out := Resource{ID: id, Type: typ}
	if av, ok := obj.Get("attributes"); ok {
		attrs, err := attributesFromNode(av, path+"/attributes")
		if err != nil {
			return zero, err
		}
		out.Attributes = attrs
	}
	if rv, ok := obj.Get("relationships"); ok {
		rels, err := relationshipsFromNode(rv, path+"/relationships")
		if err != nil {
			return zero, err
		}
		out.Relationships = rels
	}
	if lv, ok := obj.Get("links"); ok {
		links, err := linksFromNode(lv, path+"/links")
		if err != nil {
			return zero, err
		}
		out.Links = links
	}
	if mv, ok := obj.Get("meta"); ok {
		meta, err := metaFromNode(mv, path+"/meta")
		if err != nil {
			return zero, err
		}
		out.Meta = meta
	}
	return out, nil
}

func requiredString(obj *engine.Object, key, path string) (string, error) {
	v, ok := obj.Get(key)
	if !ok {
		return "", singleIssue(path+"/"+key, CodeShapeMismatch, "resource is missing "+key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", singleIssue(path+"/"+key, CodeShapeMismatch, key+" must be a non-empty string")
	}
	return s, nil
}

func attributesFromNode(v any, path string) (Attributes, error) {
	var zero Attributes
	obj, ok := v.(*engine.Object)
	if !ok {
		return zero, singleIssue(path, CodeShapeMismatch, "attributes must be a JSON object")
	}
	var out Attributes
	for _, k := range obj.Keys {
		out.Set(k, plainValue(obj.Values[k]))
	}
	return out, nil
}

func metaFromNode(v any, path string) (Meta, error) {
	var zero Meta
	obj, ok := v.(*engine.Object)
	if !ok {
		return zero, singleIssue(path, CodeShapeMismatch, "meta must be a JSON object")
	}
	var out Meta
	for _, k := range obj.Keys {
		out.Set(k, plainValue(obj.Values[k]))
	}
	return out, nil
}

func linksFromNode(v any, path string) (Links, error) {
	var zero Links
	obj, ok := v.(*engine.Object)
	if !ok {
		return zero, singleIssue(path, CodeShapeMismatch, "links must be a JSON object")
	}
	var out Links
	for _, k := range obj.Keys {
		l, err := linkFromNode(obj.Values[k], path+"/"+k)
		if err != nil {
			return zero, err
		}
		out.Set(k, l)
	}
	return out, nil
}

func linkFromNode(v any, path string) (Link, error) {
	var zero Link
	switch t := v.(type) {
	case string:
		return Link{Href: t}, nil
	case *engine.Object:
		hv, ok := t.Get("href")
		if !ok {
			return zero, singleIssue(path+"/href", CodeShapeMismatch, "link object must carry an href string")
		}
		href, ok := hv.(string)
		if !ok {
			return zero, singleIssue(path+"/href", CodeShapeMismatch, "href must be a string")
		}
		out := Link{Href: href}
		if mv, ok := t.Get("meta"); ok {
			m, err := metaFromNode(mv, path+"/meta")
			if err != nil {
				return zero, err
			}
			out.Meta = m
		}
		return out, nil
	default:
		return zero, singleIssue(path, CodeShapeMismatch, "link must be a URL string or a link object")
	}
}

func relationshipsFromNode(v any, path string) (Relationships, error) {
	var zero Relationships
	obj, ok := v.(*engine.Object)
	if !ok {
		return zero, singleIssue(path, CodeShapeMismatch, "relationships must be a JSON object")
	}
	var out Relationships
	for _, k := range obj.Keys {
		rel, err := relationshipFromNode(obj.Values[k], path+"/"+k)
		if err != nil {
			return zero, err
		}
		out.Set(k, rel)
	}
	return out, nil
}

func relationshipFromNode(v any, path string) (Relationship, error) {
	var zero Relationship
	obj, ok := v.(*engine.Object)
	if !ok {
		return zero, singleIssue(path, CodeShapeMismatch, "relationship must be a JSON object")
	}
	dataNode, ok := obj.Get("data")
	if !ok {
		return zero, singleIssue(path+"/data", CodeShapeMismatch, "relationship must carry resource linkage")
	}
	var out Relationship
	switch d := dataNode.(type) {
	case *engine.Object:
		id, err := identifierFromNode(d, path+"/data")
		if err != nil {
			return zero, err
		}
		out = ToOne(id)
	case []any:
		ids := make([]ResourceIdentifier, 0, len(d))
		for i, el := range d {
			id, err := identifierFromNode(el, fmt.Sprintf("%s/data/%d", path, i))
			if err != nil {
				return zero, err
			}
			ids = append(ids, id)
		}
		out = ToMany(ids...)
	default:
		return zero, singleIssue(path+"/data", CodeShapeMismatch, "resource linkage must be an identifier or an identifier array")
	}
	if lv, ok := obj.Get("links"); ok {
		links, err := linksFromNode(lv, path+"/links")
		if err != nil {
			return zero, err
		}
		out = out.WithLinks(links)
	}
	if mv, ok := obj.Get("meta"); ok {
		meta, err := metaFromNode(mv, path+"/meta")
		if err != nil {
			return zero, err
		}
		out = out.WithMeta(meta)
	}
	return out, nil
}

func identifierFromNode(v any, path string) (ResourceIdentifier, error) {
	var zero ResourceIdentifier
	obj, ok := v.(*engine.Object)
	if !ok {
		return zero, singleIssue(path, CodeShapeMismatch, "resource identifier must be a JSON object")
	}
	id, err := requiredString(obj, "id", path)
	if err != nil {
		return zero, err
	}
	typ, err := requiredString(obj, "type", path)
	if err != nil {
		return zero, err
	}
	return ResourceIdentifier{ID: id, Type: typ}, nil
}

// includedFromNode keeps the compound-document resources as pre-rendered raw
// values: order preserved, duplicates permitted, no validation against data.
func includedFromNode(v any, path string) ([]json.RawMessage, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, singleIssue(path, CodeShapeMismatch, "included must be an array")
	}
	out := make([]json.RawMessage, 0, len(arr))
	for i, el := range arr {
		b, err := json.Marshal(el)
		if err != nil {
			return nil, Issues{{Path: fmt.Sprintf("%s/%d", path, i), Code: CodeShapeMismatch, Message: "included value cannot be re-rendered", Cause: err, Offset: -1}}
		}
		out = append(out, json.RawMessage(b))
	}
	return out, nil
}

func errorObjectFromNode(v any, path string) (ErrorObject, error) {
	var zero ErrorObject
	obj, ok := v.(*engine.Object)
	if !ok {
		return zero, singleIssue(path, CodeShapeMismatch, "error must be a JSON object")
	}
	var out ErrorObject
	fields := []struct {
		key string
		dst *string
	}{
		{"id", &out.ID},
		{"status", &out.Status},
		{"code", &out.Code},
		{"title", &out.Title},
		{"detail", &out.Detail},
	}
	for _, f := range fields {
		if fv, ok := obj.Get(f.key); ok {
			s, ok := fv.(string)
			if !ok {
				return zero, singleIssue(path+"/"+f.key, CodeShapeMismatch, f.key+" must be a string")
			}
			*f.dst = s
		}
	}
	if lv, ok := obj.Get("links"); ok {
		links, err := linksFromNode(lv, path+"/links")
		if err != nil {
			return zero, err
		}
		out.Links = links
	}
	if mv, ok := obj.Get("meta"); ok {
		meta, err := metaFromNode(mv, path+"/meta")
		if err != nil {
			return zero, err
		}
		out.Meta = meta
	}
	return out, nil
}

// plainValue flattens engine tree nodes into ordinary Go values for storage
// inside Attributes and Meta. Section-level key order is preserved by the
// ordered maps themselves; nested objects become plain maps.
func plainValue(v any) any {
	switch t := v.(type) {
	case *engine.Object:
		m := make(map[string]any, len(t.Keys))
		for _, k := range t.Keys {
			m[k] = plainValue(t.Values[k])
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = plainValue(el)
		}
		return out
	default:
		return t
	}
}
