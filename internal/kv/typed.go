package kv

import (
	"context"
	"encoding/json"
)

// GetAs fetches the value at key and decodes it into T. It returns
// ErrNotFound unchanged when the key is absent.
func GetAs[T any](ctx context.Context, s Store, key string) (T, error) {
	var v T
	raw, err := s.Get(ctx, key)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, err
	}
	return v, nil
}
