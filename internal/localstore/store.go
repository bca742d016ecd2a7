// Package localstore provides the on-device bucket store: an asynchronous
// key-value layer holding one opaque serialized blob per named bucket.
// Callers above it (the domain API) own serialization; this layer never
// inspects blob contents.
package localstore

import "context"

// Bucket names one blob in the store.
type Bucket string

const (
	BucketUser         Bucket = "upwardia_user"
	BucketMissions     Bucket = "upwardia_missions"
	BucketTransactions Bucket = "upwardia_transactions"
	BucketRewards      Bucket = "upwardia_rewards"
	BucketMilestones   Bucket = "upwardia_milestones"
)

// Buckets lists every bucket the client uses, in seed order.
var Buckets = []Bucket{
	BucketUser,
	BucketMissions,
	BucketTransactions,
	BucketRewards,
	BucketMilestones,
}

// Store is the persistence contract. Get reports ok=false when the bucket
// has never been written. SetIfAbsent writes only when the bucket is empty
// and reports whether it wrote, which is how first-launch seeding stays
// idempotent.
type Store interface {
	Get(ctx context.Context, b Bucket) (value []byte, ok bool, err error)
	Set(ctx context.Context, b Bucket, value []byte) error
	SetIfAbsent(ctx context.Context, b Bucket, value []byte) (wrote bool, err error)
}
