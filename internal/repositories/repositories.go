// package repositories provides persistence layer implementations for the playlist record.
package repositories

import "context"

// RecordStore reads and writes named records.
//
// Get returns [shared.ErrRecordNotFound] when no record exists under name.
type RecordStore interface {
	Get(ctx context.Context, name string) (string, error)
	Put(ctx context.Context, name, value string) error
	Delete(ctx context.Context, name string) error
}
