package metadata

import (
	"context"
	"encoding/json"
	"fmt"
)

// ErrMalformed wraps values that are stored but do not decode.
type ErrMalformed struct {
	Key string
	Err error
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("malformed metadata[%s]: %v", e.Key, e.Err)
}

func (e *ErrMalformed) Unwrap() error { return e.Err }

// GetJSON decodes the value stored under key into v. It reports false when
// nothing is stored.
func GetJSON(ctx context.Context, r Repository, key string, v any) (bool, error) {
	raw, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, &ErrMalformed{Key: key, Err: err}
	}
	return true, nil
}

// SetJSON stores v encoded as JSON under key.
func SetJSON(ctx context.Context, r Repository, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode metadata[%s]: %w", key, err)
	}
	return r.Set(ctx, key, raw)
}
