package jsonapi_test

import (
	"strings"
	"testing"

	jsonapi "github.com/am-/json-api"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func articleResource() jsonapi.Resource {
	var attrs jsonapi.Attributes
	attrs.Set("title", "Composable documents")
	attrs.Set("views", json.Number("41"))

	var rels jsonapi.Relationships
	rels.Set("author", jsonapi.ToOne(jsonapi.ResourceIdentifier{ID: "9", Type: "person"}))
	rels.Set("tags", jsonapi.ToMany(
		jsonapi.ResourceIdentifier{ID: "1", Type: "tag"},
		jsonapi.ResourceIdentifier{ID: "2", Type: "tag"},
	))

	var meta jsonapi.Meta
	meta.Set("revision", json.Number("3"))

	return jsonapi.Resource{
		ID:            "7",
		Type:          "article",
		Attributes:    attrs,
		Relationships: rels,
		Links:         jsonapi.SelfLink("https://example.com/articles/7"),
		Meta:          meta,
	}
}

func TestDecodeOne_RoundTrip(t *testing.T) {
	want := jsonapi.Single(articleResource())
	wire, err := jsonapi.Marshal(want)
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}
	got, err := jsonapi.DecodeOne(wire)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMany_RoundTrip(t *testing.T) {
	want := jsonapi.Collection([]jsonapi.Resource{
		articleResource(),
		{ID: "8", Type: "article"},
	})
	wire, err := jsonapi.Marshal(want)
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}
	got, err := jsonapi.DecodeMany(wire)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMany_EmptyCollectionRoundTrip(t *testing.T) {
	want := jsonapi.Collection(nil)
	wire, err := jsonapi.Marshal(want)
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}
	got, err := jsonapi.DecodeMany(wire)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(got.Data) != 0 {
		t.Fatalf("expected empty collection, got %d resources", len(got.Data))
	}
}

func TestDecode_CardinalityDisambiguation(t *testing.T) {
	one := []byte(`{"data":{"id":"1","type":"widget"}}`)
	many := []byte(`{"data":[{"id":"1","type":"widget"}]}`)

	if _, err := jsonapi.DecodeMany(one); !hasCode(err, jsonapi.CodeShapeMismatch) {
		t.Fatalf("object data with Many hint must fail with shape_mismatch, got %v", err)
	}
	if _, err := jsonapi.DecodeOne(many); !hasCode(err, jsonapi.CodeShapeMismatch) {
		t.Fatalf("array data with Single hint must fail with shape_mismatch, got %v", err)
	}
}

func TestDecode_MissingData(t *testing.T) {
	_, err := jsonapi.DecodeOne([]byte(`{"links":{}}`))
	if !hasCode(err, jsonapi.CodeMissingData) {
		t.Fatalf("expected missing_data, got %v", err)
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, err := jsonapi.DecodeOne([]byte(`{"data":`))
	if !hasCode(err, jsonapi.CodeMalformedJSON) {
		t.Fatalf("expected malformed_json, got %v", err)
	}
	_, err = jsonapi.DecodeOne(nil)
	if !hasCode(err, jsonapi.CodeMalformedJSON) {
		t.Fatalf("empty input must be malformed_json, got %v", err)
	}
}

func TestDecode_TrailingContent(t *testing.T) {
	cases := []string{
		`{"data":{"id":"1","type":"w"}} {"oops":true}`,
		`{"data":{"id":"1","type":"w"}}]`,
		`{"data":{"id":"1","type":"w"}} x`,
	}
	for _, wire := range cases {
		if _, err := jsonapi.DecodeOne([]byte(wire)); !hasCode(err, jsonapi.CodeMalformedJSON) {
			t.Fatalf("trailing content must be malformed_json for %s, got %v", wire, err)
		}
	}
	if _, err := jsonapi.DecodeMany([]byte(`{"data":[]}[]`)); !hasCode(err, jsonapi.CodeMalformedJSON) {
		t.Fatalf("trailing content must be malformed_json for collections, got %v", err)
	}
	if _, err := jsonapi.DecodeErrors([]byte(`{"errors":[]}{}`)); !hasCode(err, jsonapi.CodeMalformedJSON) {
		t.Fatalf("trailing content must be malformed_json for error documents, got %v", err)
	}
}

func TestDecode_UnknownKeysIgnored(t *testing.T) {
	wire := []byte(`{"data":{"id":"1","type":"widget","unknown":1},"jsonapi":{"version":"1.0"}}`)
	doc, err := jsonapi.DecodeOne(wire)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if doc.Data.ID != "1" || doc.Data.Type != "widget" {
		t.Fatalf("unexpected resource: %+v", doc.Data)
	}
}

func TestDecode_OptionalSectionsDefaultEmpty(t *testing.T) {
	doc, err := jsonapi.DecodeOne([]byte(`{"data":{"id":"1","type":"widget"}}`))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if doc.Links.Len() != 0 || doc.Meta.Len() != 0 || len(doc.Included) != 0 {
		t.Fatalf("optional sections must default to empty: %+v", doc)
	}
}

func TestDecode_ResourceMissingIdentity(t *testing.T) {
	cases := []string{
		`{"data":{"type":"widget"}}`,
		`{"data":{"id":"1"}}`,
		`{"data":{"id":"","type":"widget"}}`,
		`{"data":{"id":1,"type":"widget"}}`,
	}
	for _, wire := range cases {
		if _, err := jsonapi.DecodeOne([]byte(wire)); !hasCode(err, jsonapi.CodeShapeMismatch) {
			t.Fatalf("expected shape_mismatch for %s, got %v", wire, err)
		}
	}
}

func TestDecode_IssuePathsArePointers(t *testing.T) {
	_, err := jsonapi.DecodeMany([]byte(`{"data":[{"id":"1","type":"a"},{"type":"b"}]}`))
	iss, ok := jsonapi.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected issues, got %v", err)
	}
	if !strings.HasPrefix(iss[0].Path, "/data/1") {
		t.Fatalf("expected pointer into second element, got %q", iss[0].Path)
	}
}

func TestDecode_LinksForms(t *testing.T) {
	wire := []byte(`{"data":{"id":"1","type":"w"},"links":{"self":"u","docs":{"href":"d","meta":{"v":1}}}}`)
	doc, err := jsonapi.DecodeOne(wire)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if l, _ := doc.Links.Get("self"); l.Href != "u" {
		t.Fatalf("unexpected self link: %+v", l)
	}
	l, _ := doc.Links.Get("docs")
	if l.Href != "d" || l.Meta.Len() != 1 {
		t.Fatalf("unexpected docs link: %+v", l)
	}

	bad := []byte(`{"data":{"id":"1","type":"w"},"links":{"self":7}}`)
	if _, err := jsonapi.DecodeOne(bad); !hasCode(err, jsonapi.CodeShapeMismatch) {
		t.Fatalf("non-string link must fail with shape_mismatch, got %v", err)
	}
}

func TestDecode_RelationshipShapes(t *testing.T) {
	wire := []byte(`{"data":{"id":"1","type":"post","relationships":{"author":{"data":{"id":"9","type":"person"}},"tags":{"data":[]}}}}`)
	doc, err := jsonapi.DecodeOne(wire)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	author, _ := doc.Data.Relationships.Get("author")
	if id, ok := author.One(); !ok || id.ID != "9" {
		t.Fatalf("unexpected author linkage: %+v", author)
	}
	tags, _ := doc.Data.Relationships.Get("tags")
	ids, ok := tags.Many()
	if !ok || len(ids) != 0 {
		t.Fatalf("empty to-many must decode as empty array linkage: %+v", tags)
	}

	bad := []byte(`{"data":{"id":"1","type":"post","relationships":{"author":{"links":{}}}}}`)
	if _, err := jsonapi.DecodeOne(bad); !hasCode(err, jsonapi.CodeShapeMismatch) {
		t.Fatalf("relationship without linkage must fail, got %v", err)
	}
}

func TestDecode_IncludedPassthrough(t *testing.T) {
	wire := []byte(`{"data":{"id":"1","type":"a"},"included":[{"id":"2","type":"b"},{"id":"2","type":"b"}]}`)
	doc, err := jsonapi.DecodeOne(wire)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(doc.Included) != 2 {
		t.Fatalf("included must keep duplicates, got %d", len(doc.Included))
	}
	if string(doc.Included[0]) != `{"id":"2","type":"b"}` {
		t.Fatalf("included must re-render in original order: %s", doc.Included[0])
	}
}

func TestDecode_AttributeOrderSurvivesRoundTrip(t *testing.T) {
	wire := []byte(`{"data":{"id":"1","type":"w","attributes":{"zebra":1,"apple":2,"mango":3}}}`)
	doc, err := jsonapi.DecodeOne(wire)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	keys := doc.Data.Attributes.Keys()
	if len(keys) != 3 || keys[0] != "zebra" || keys[1] != "apple" || keys[2] != "mango" {
		t.Fatalf("attribute order lost: %v", keys)
	}
	out, err := jsonapi.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}
	if string(out) != string(wire) {
		t.Fatalf("wire form changed across round trip:\n got %s\nwant %s", out, wire)
	}
}

func TestDecode_NumbersKeepPrecision(t *testing.T) {
	wire := []byte(`{"data":{"id":"1","type":"w","attributes":{"big":9007199254740993}}}`)
	doc, err := jsonapi.DecodeOne(wire)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	v, _ := doc.Data.Attributes.Get("big")
	n, ok := v.(json.Number)
	if !ok || n.String() != "9007199254740993" {
		t.Fatalf("expected lossless number, got %T %v", v, v)
	}
}

func TestDecodeOneReader(t *testing.T) {
	doc, err := jsonapi.DecodeOneReader(strings.NewReader(`{"data":{"id":"1","type":"w"}}`))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if doc.Data.ID != "1" {
		t.Fatalf("unexpected resource: %+v", doc.Data)
	}
}

func hasCode(err error, code string) bool {
	iss, ok := jsonapi.AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}
