package jsonapi

// Package jsonapi provides:
//
// - Composition of JSON:API documents (data, links, meta, included, errors)
// - A capability contract (Entity) for rendering domain values as resources
// - Strict, path-annotated decoding via Issues (JSON Pointer, code, message)
// - YAML ingestion of documents alongside the JSON wire format
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place attribute codecs under codec/ and the CLI under cmd/jsonapi.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  r, err := jsonapi.NewResource(entity)
//  doc := jsonapi.Single(r).WithMeta(meta)
//  wire, err := jsonapi.Marshal(doc)
//
//  one, err := jsonapi.DecodeOne(wire)
//  many, err := jsonapi.DecodeMany(wire)
//
