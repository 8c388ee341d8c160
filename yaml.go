package jsonapi

import (
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/am-/json-api/internal/engine"
)

// DecodeOneYAML parses a single-resource document from YAML. The YAML tree
// is walked through the same validator as the JSON wire format; mapping key
// order is preserved.
func DecodeOneYAML(data []byte) (Document[Resource], error) {
	root, err := yamlTree(data)
	if err != nil {
		return Document[Resource]{}, err
	}
	return documentOneFromNode(root)
}

// DecodeManyYAML parses a resource-collection document from YAML.
func DecodeManyYAML(data []byte) (Document[[]Resource], error) {
	root, err := yamlTree(data)
	if err != nil {
		return Document[[]Resource]{}, err
	}
	return documentManyFromNode(root)
}

// DecodeErrorsYAML parses an error document from YAML.
func DecodeErrorsYAML(data []byte) (ErrorDocument, error) {
	root, err := yamlTree(data)
	if err != nil {
		return ErrorDocument{}, err
	}
	return errorDocumentFromNode(root)
}

// yamlTree parses YAML into the same ordered tree shape the JSON engine
// produces, using the yaml.Node API so mapping order survives.
func yamlTree(data []byte) (any, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, Issues{{Path: "", Code: CodeMalformedJSON, Message: "input is not valid YAML", Cause: err, Offset: -1}}
	}
	if n.Kind == 0 {
		return nil, singleIssue("", CodeMalformedJSON, "empty YAML input")
	}
	return yamlValue(&n)
}

func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlValue(n.Content[0])
	case yaml.MappingNode:
		obj := &engine.Object{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, singleIssue("", CodeShapeMismatch, "mapping keys must be scalars")
			}
			v, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(k.Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return nil, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, singleIssue("", CodeShapeMismatch, fmt.Sprintf("bad bool scalar %q", n.Value))
			}
			return b, nil
		case "!!int", "!!float":
			// Numbers stay textual, matching the JSON path's json.Number.
			return json.Number(n.Value), nil
		default:
			return n.Value, nil
		}
	default:
		return nil, singleIssue("", CodeShapeMismatch, "unsupported YAML node")
	}
}
