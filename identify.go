package sandwich

import (
	"context"
	"time"
)

var (
	// StandardIdentifyLimit is how long a single identify occupies a concurrency bucket.
	StandardIdentifyLimit = 5 * time.Second
	IdentifyRetry         = 5 * time.Second
	IdentifyRateLimit     = StandardIdentifyLimit + (time.Millisecond * 500)
)

// IdentifyProvider decides when a shard may identify. Identify blocks until
// the shard may send its identify or ctx is done. Returning an error closes
// the connection and the shard retries after IdentifyRetry.
type IdentifyProvider interface {
	Identify(ctx context.Context, shard *Shard) error
}

// IdentifyFunc allows a function to be used as an IdentifyProvider.
type IdentifyFunc func(ctx context.Context, shard *Shard) error

func (f IdentifyFunc) Identify(ctx context.Context, shard *Shard) error {
	return f(ctx, shard)
}
