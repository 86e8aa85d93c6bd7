package domain

import "context"

// ArchiveWriter streams manifest entries, resolved against dataRoot, into a
// compressed tar at destination and returns the archive size.
type ArchiveWriter interface {
	Write(ctx context.Context, destination, dataRoot string, manifest Manifest, format Format) (int64, error)
}
