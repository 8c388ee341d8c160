package jsonapi_test

import (
	"fmt"
	"strings"
	"testing"

	jsonapi "github.com/am-/json-api"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := jsonapi.Issues{
		{Path: "/data", Code: jsonapi.CodeShapeMismatch},
		{Path: "/links", Code: jsonapi.CodeShapeMismatch},
		{Path: "/meta", Code: jsonapi.CodeShapeMismatch},
		{Path: "/included", Code: jsonapi.CodeShapeMismatch},
	}
	s := iss.Error()
	if !strings.Contains(s, "shape_mismatch at /data") {
		t.Fatalf("summary must include the first issue: %q", s)
	}
	if !strings.Contains(s, "total 4") {
		t.Fatalf("summary must report the total: %q", s)
	}
}

func TestIssues_ErrorEmpty(t *testing.T) {
	if s := (jsonapi.Issues{}).Error(); s != "" {
		t.Fatalf("empty issues must summarize to empty string, got %q", s)
	}
}

func TestAsIssues(t *testing.T) {
	iss := jsonapi.Issues{{Code: jsonapi.CodeMissingData}}
	wrapped := fmt.Errorf("decode failed: %w", iss)
	got, ok := jsonapi.AsIssues(wrapped)
	if !ok || len(got) != 1 || got[0].Code != jsonapi.CodeMissingData {
		t.Fatalf("expected issues through wrapping, got %v %v", got, ok)
	}
	if _, ok := jsonapi.AsIssues(nil); ok {
		t.Fatalf("nil error must not extract issues")
	}
	if _, ok := jsonapi.AsIssues(fmt.Errorf("plain")); ok {
		t.Fatalf("plain error must not extract issues")
	}
}

func TestAppendIssues(t *testing.T) {
	got := jsonapi.AppendIssues(nil, jsonapi.Issue{Code: jsonapi.CodeMissingData})
	if len(got) != 1 {
		t.Fatalf("expected initialized slice with one issue")
	}
	got = jsonapi.AppendIssues(got, jsonapi.Issue{Code: jsonapi.CodeMissingErrors})
	if len(got) != 2 {
		t.Fatalf("expected two issues, got %d", len(got))
	}
}
