package domain

import "context"

type LenderRepository interface {
	// Write paths
	UpsertLender(ctx context.Context, l LenderRecord) error
	LogMiss(ctx context.Context, source string, status int, reason string) error

	// Read paths
	ListLenders(ctx context.Context) ([]LenderRecord, error)
}

// ConfigClient fetches the raw lender configuration dataset. The payload is
// returned undecoded-shape (array or id-keyed object); normalization happens
// in the app-layer mapper.
type ConfigClient interface {
	FetchDataset(ctx context.Context) (any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
