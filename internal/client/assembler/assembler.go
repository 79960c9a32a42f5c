// Package assembler builds the local work-order record from create-form
// input when the API cannot take it.
package assembler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/aircontrol/internal/client/models"
	"github.com/dmitrijs2005/aircontrol/internal/client/repositories/photos"
)

type Assembler struct {
	photos photos.Repository
	now    func() time.Time
}

type Option func(*Assembler)

// WithClock replaces time.Now as the source of ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

func New(photos photos.Repository, opts ...Option) *Assembler {
	a := &Assembler{photos: photos, now: time.Now}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Build turns form into a record that can be appended after existing.
//
// Photos are written to the blob store first, in order. If any write fails
// Build returns the error and no record; blobs written before the failure
// stay in the store.
func (a *Assembler) Build(ctx context.Context, form models.WorkOrderForm, existing []models.WorkOrder) (models.WorkOrder, error) {
	form = form.Normalized()
	if err := form.Validate(); err != nil {
		return models.WorkOrder{}, err
	}

	now := a.now()

	before, err := a.savePhotos(ctx, form.PhotosBefore, models.PhotoBefore, now)
	if err != nil {
		return models.WorkOrder{}, err
	}
	after, err := a.savePhotos(ctx, form.PhotosAfter, models.PhotoAfter, now)
	if err != nil {
		return models.WorkOrder{}, err
	}

	address := strings.TrimSpace(form.Location.Address)
	w := models.WorkOrder{
		ID:           nextID(now, existing),
		Code:         models.LocalCode(now.Year(), len(existing)+1),
		LocationName: firstNonEmpty(form.LocationText, address, "-"),
		Technician:   firstNonEmpty(form.TechnicianText, "-"),
		Description:  strings.TrimSpace(form.Description),
		Priority:     form.Priority,
		Notes:        strings.TrimSpace(form.Notes),
		CreatedAt:    models.FormatTimestamp(now),
		Location: models.Location{
			Address: address,
			Lat:     strings.TrimSpace(form.Location.Lat),
			Lng:     strings.TrimSpace(form.Location.Lng),
		},
		Equipment:      form.Equipment,
		Parts:          form.Parts,
		PhotoBeforeIDs: before,
		PhotoAfterIDs:  after,
	}
	w.ApplyStatus(form.Status, now)

	return w, nil
}

func (a *Assembler) savePhotos(ctx context.Context, blobs [][]byte, prefix string, now time.Time) ([]string, error) {
	ids := make([]string, 0, len(blobs))
	for i, data := range blobs {
		id := photos.NewPhotoID(prefix, now)
		err := a.photos.Put(ctx, models.PhotoBlob{ID: id, Data: data, CreatedAt: now.UnixMilli()})
		if err != nil {
			return nil, fmt.Errorf("save %s photo %d: %w", prefix, i+1, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// nextID is the current unix millisecond, bumped past the largest existing
// id so ids stay strictly increasing.
func nextID(now time.Time, existing []models.WorkOrder) int64 {
	id := now.UnixMilli()
	for _, w := range existing {
		if w.ID >= id {
			id = w.ID + 1
		}
	}
	return id
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
