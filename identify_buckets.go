package sandwich

import (
	"context"
	"fmt"

	bucketstore "github.com/WelcomerTeam/Sandwich-Gateway/pkg/bucketStore"
)

// IdentifyViaBuckets is a bare minimum identify provider that uses buckets to identify shards.
// This will work for most use cases, but it's not the most efficient way to identify shards when dealing with multiple processes.
type IdentifyViaBuckets struct {
	bucketStore *bucketstore.BucketStore
}

func NewIdentifyViaBuckets() *IdentifyViaBuckets {
	return &IdentifyViaBuckets{
		bucketStore: bucketstore.NewBucketStore(),
	}
}

func (i *IdentifyViaBuckets) Identify(ctx context.Context, shard *Shard) error {
	gateway := shard.manager.Configuration.Gateway

	bucketName := fmt.Sprintf(
		"identify:%s:%d",
		tokenHash(gateway.Token),
		shard.ShardID%gateway.MaxConcurrency,
	)

	// Create the bucket if it doesn't exist with a limit of 1 request per IdentifyRateLimit.
	err := i.bucketStore.CreateWaitForBucket(ctx, bucketName, 1, IdentifyRateLimit)
	if err != nil {
		return fmt.Errorf("failed to wait for bucket: %w", err)
	}

	return nil
}
