package jsonapi

import (
	json "github.com/goccy/go-json"
)

// Marshal renders a document to its wire form.
func Marshal[T PrimaryData](d Document[T]) ([]byte, error) {
	return json.Marshal(d)
}

// MarshalErrors renders an error document to its wire form.
func MarshalErrors(d ErrorDocument) ([]byte, error) {
	return json.Marshal(d)
}
