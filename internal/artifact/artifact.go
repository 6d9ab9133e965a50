// Package artifact owns the two well-known photo locations: the staging
// slot the capture device writes into, and the durable profile photo.
//
// The staging slot is always on the local filesystem because the device is
// handed a path. The durable photo lives behind the Durable interface, with a
// filesystem implementation (FSStore) and an S3-compatible one (S3Store).
// Every Durable.Replace is all-or-nothing for readers.
package artifact

import (
	"context"
	"io"
)

// Durable is the single, unversioned profile photo.
type Durable interface {
	// Exists reports whether a durable photo is present.
	Exists(ctx context.Context) (bool, error)

	// Read returns the photo bytes, or common.ErrorNotFound.
	Read(ctx context.Context) ([]byte, error)

	// Replace fully overwrites the photo with the content of r.
	// On failure the previous photo is left intact.
	Replace(ctx context.Context, r io.ReadSeeker) error

	// Location describes where the photo lives, for logs and status output.
	Location() string
}
