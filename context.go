package sandwich

import (
	"context"
)

type contextKey string

var shardIDKey contextKey = "shardID"

// WithShardID adds a shard ID to the context
func WithShardID(ctx context.Context, shardID int32) context.Context {
	return context.WithValue(ctx, shardIDKey, shardID)
}

// ShardIDFromContext retrieves the shard ID from the context if present
func ShardIDFromContext(ctx context.Context) (int32, bool) {
	shardID, ok := ctx.Value(shardIDKey).(int32)

	return shardID, ok
}
