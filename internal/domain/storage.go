package domain

import "context"

// ArchiveStore lists and removes archives of a single backup type.
type ArchiveStore interface {
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}
