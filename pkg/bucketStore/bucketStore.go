package bucketstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/WelcomerTeam/Sandwich-Gateway/pkg/limiter"
)

// ErrNoSuchBucket is when a Bucket was requested that does not exist.
// Use CreateWaitForBucket to create a bucket if it does not exist.
var ErrNoSuchBucket = errors.New("bucket does not exist, use CreateWaitForBucket instead")

// BucketStore is used for managing various limiters
type BucketStore struct {
	bucketsMu sync.RWMutex
	buckets   map[string]*limiter.DurationLimiter
}

// NewBucketStore creates a new Buckets map to store different limits
func NewBucketStore() *BucketStore {
	return &BucketStore{
		buckets: make(map[string]*limiter.DurationLimiter),
	}
}

// CreateBucket will create a new bucket or overwrite an existing one.
func (bs *BucketStore) CreateBucket(name string, limit int32, duration time.Duration) *limiter.DurationLimiter {
	bucket := limiter.NewDurationLimiter(limit, duration)

	bs.bucketsMu.Lock()
	bs.buckets[name] = bucket
	bs.bucketsMu.Unlock()

	return bucket
}

// Bucket returns the named bucket if it exists.
func (bs *BucketStore) Bucket(name string) (*limiter.DurationLimiter, bool) {
	bs.bucketsMu.RLock()
	bucket, ok := bs.buckets[name]
	bs.bucketsMu.RUnlock()

	return bucket, ok
}

// WaitForBucket will wait for a bucket to be ready
func (bs *BucketStore) WaitForBucket(ctx context.Context, name string) error {
	bucket, ok := bs.Bucket(name)
	if !ok {
		return ErrNoSuchBucket
	}

	return bucket.Lock(ctx)
}

// CreateWaitForBucket will create a bucket if it does not exist and then will wait
// for it.
func (bs *BucketStore) CreateWaitForBucket(ctx context.Context, name string, limit int32, duration time.Duration) error {
	bs.bucketsMu.Lock()

	bucket, ok := bs.buckets[name]
	if !ok {
		bucket = limiter.NewDurationLimiter(limit, duration)
		bs.buckets[name] = bucket
	}

	bs.bucketsMu.Unlock()

	return bucket.Lock(ctx)
}
