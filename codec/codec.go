// Package codec provides bidirectional conversions between attribute wire
// forms and domain values, for callers that keep typed values behind a
// resource's attributes.
package codec

import "context"

// Codec converts between the wire representation W stored in an attributes
// section and the domain representation D.
type Codec[W, D any] interface {
	Decode(ctx context.Context, w W) (D, error)
	Encode(ctx context.Context, d D) (W, error)
}
