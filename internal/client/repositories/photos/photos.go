// Package photos stores work-order photo attachments. Two backends exist:
// the local SQLite database (default) and an S3-compatible bucket.
package photos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/aircontrol/internal/client/models"
	"github.com/google/uuid"
)

type Repository interface {
	// Put stores blob under blob.ID, replacing any previous value.
	Put(ctx context.Context, blob models.PhotoBlob) error
	// Get returns (nil, nil) when id is not stored.
	Get(ctx context.Context, id string) (*models.PhotoBlob, error)
	// GetMany returns the stored blobs in the order of ids. Missing ids are
	// skipped.
	GetMany(ctx context.Context, ids []string) ([]models.PhotoBlob, error)
	// ObjectURL returns a displayable reference to a stored photo. The caller
	// must Release it. Unknown ids yield models.ErrNotFound.
	ObjectURL(ctx context.Context, id string) (models.ObjectRef, error)
}

// NewPhotoID returns "<prefix>-<unix ms>-<random suffix>".
func NewPhotoID(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), suffix)
}

func orderByKeys(ids []string, found map[string]models.PhotoBlob) []models.PhotoBlob {
	out := make([]models.PhotoBlob, 0, len(found))
	for _, id := range ids {
		if b, ok := found[id]; ok {
			out = append(out, b)
		}
	}
	return out
}
