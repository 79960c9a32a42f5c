// Package metadata is the local key/value store. It holds the serialized
// work-order list and the login session.
package metadata

import (
	"context"
)

// Repository stores opaque values by key. Keys in use are "aircontrol_os"
// (the local work-order list), "air_user" (the session) and
// "air_offline_credential" (the cached offline login).
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
