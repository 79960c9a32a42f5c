// Package records is the local work-order store: the whole list is kept as
// one JSON array under a single metadata key and rewritten on every save.
package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/aircontrol/internal/client/models"
	"github.com/dmitrijs2005/aircontrol/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/aircontrol/internal/dbx"
	"github.com/dmitrijs2005/aircontrol/internal/logging"
)

// Key is the metadata key holding the serialized list.
const Key = "aircontrol_os"

type Repository interface {
	// Load returns the stored work orders, or an empty list when nothing is
	// stored or the stored value does not decode.
	Load(ctx context.Context) ([]models.WorkOrder, error)
	// Save replaces the stored list.
	Save(ctx context.Context, orders []models.WorkOrder) error
}

type SQLiteRepository struct {
	src dbx.Source
	log logging.Logger
}

func NewSQLiteRepository(src dbx.Source, log logging.Logger) *SQLiteRepository {
	return &SQLiteRepository{src: src, log: log}
}

func (r *SQLiteRepository) kv(ctx context.Context) (metadata.Repository, error) {
	db, err := r.src.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("open local database: %w", err)
	}
	return metadata.NewSQLiteRepository(db), nil
}

func (r *SQLiteRepository) Load(ctx context.Context) ([]models.WorkOrder, error) {
	kv, err := r.kv(ctx)
	if err != nil {
		return nil, err
	}

	var orders []models.WorkOrder
	_, err = metadata.GetJSON(ctx, kv, Key, &orders)
	var malformed *metadata.ErrMalformed
	if errors.As(err, &malformed) {
		r.log.Warn(ctx, "discarding malformed local work orders", "error", err)
		return []models.WorkOrder{}, nil
	}
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.WorkOrder{}
	}
	return orders, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, orders []models.WorkOrder) error {
	kv, err := r.kv(ctx)
	if err != nil {
		return err
	}
	if orders == nil {
		orders = []models.WorkOrder{}
	}
	return metadata.SetJSON(ctx, kv, Key, orders)
}
