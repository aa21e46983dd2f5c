package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.trai.ch/zerr"
)

// GetOrFetch is the typed form of Store.Fetch.
//
// A live entry that no longer decodes into T is dropped and refetched.
func GetOrFetch[T any](
	ctx context.Context,
	store *Store,
	key string,
	fetch func(ctx context.Context) (T, error),
	ttl time.Duration,
) (T, error) {
	var fetched *T
	raw, err := store.Fetch(ctx, key, encodeFetch(fetch, &fetched), ttl)
	if err != nil {
		var zero T
		return zero, err
	}
	if fetched != nil {
		return *fetched, nil
	}

	var value T
	if err := json.Unmarshal(raw, &value); err == nil {
		return value, nil
	}

	store.Invalidate(ctx, key)
	fetched = nil
	raw, err = store.Fetch(ctx, key, encodeFetch(fetch, &fetched), ttl)
	if err != nil {
		var zero T
		return zero, err
	}
	if fetched != nil {
		return *fetched, nil
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		var zero T
		return zero, zerr.With(zerr.Wrap(err, "failed to decode cached value"), "key", key)
	}
	return value, nil
}

// encodeFetch adapts a typed fetch to a FetchFunc and keeps the decoded
// result so the caller can skip a decode round trip.
func encodeFetch[T any](fetch func(ctx context.Context) (T, error), out **T) FetchFunc {
	return func(ctx context.Context) (json.RawMessage, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to encode fetched value")
		}
		*out = &value
		return raw, nil
	}
}
