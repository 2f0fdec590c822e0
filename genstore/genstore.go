// Package genstore keeps one generation counter per event. The archive
// stamps every entry with the generation it was computed under; bumping the
// counter (archive.Forget) makes all older entries of the event stale.
package genstore

import (
	"context"
	"time"

	"github.com/unkn0wn-root/evcache"
)

// GenStore abstracts where generations live.
// Use LocalGenStore for a single process, or RedisGenStore when the archive
// itself is shared.
type GenStore interface {
	// Snapshot returns the current generation; missing => 0.
	Snapshot(ctx context.Context, id evcache.EventID) (uint64, error)
	// Bump atomically increments and returns the new generation.
	Bump(ctx context.Context, id evcache.EventID) (uint64, error)
	// Cleanup prunes old metadata if applicable (no-op for Redis).
	Cleanup(retention time.Duration)
	Close(context.Context) error
}
