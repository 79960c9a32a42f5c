package photos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/aircontrol/internal/client/models"
	"github.com/dmitrijs2005/aircontrol/internal/dbx"
	"github.com/dmitrijs2005/aircontrol/internal/filex"
)

type SQLiteRepository struct {
	src    dbx.Source
	urlDir string
}

// NewSQLiteRepository stores photos in the local database. Object URLs are
// files materialized under urlDir.
func NewSQLiteRepository(src dbx.Source, urlDir string) *SQLiteRepository {
	return &SQLiteRepository{src: src, urlDir: urlDir}
}

func (r *SQLiteRepository) db(ctx context.Context) (*sql.DB, error) {
	db, err := r.src.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("open local database: %w", err)
	}
	return db, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, b models.PhotoBlob) error {
	db, err := r.db(ctx)
	if err != nil {
		return err
	}
	data := b.Data
	if data == nil {
		data = []byte{}
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO photos (id, blob, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET blob = excluded.blob, created_at = excluded.created_at
	`, b.ID, data, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to put photo[%s]: %w", b.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.PhotoBlob, error) {
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}
	b := &models.PhotoBlob{}
	err = db.QueryRowContext(ctx, `SELECT id, blob, created_at FROM photos WHERE id = ?`, id).
		Scan(&b.ID, &b.Data, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo[%s]: %w", id, err)
	}
	return b, nil
}

func (r *SQLiteRepository) GetMany(ctx context.Context, ids []string) ([]models.PhotoBlob, error) {
	if len(ids) == 0 {
		return []models.PhotoBlob{}, nil
	}
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Select("id", "blob", "created_at").
		From("photos").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build photo query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select photos: %w", err)
	}
	defer rows.Close()

	found := make(map[string]models.PhotoBlob, len(ids))
	for rows.Next() {
		var b models.PhotoBlob
		if err := rows.Scan(&b.ID, &b.Data, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo row: %w", err)
		}
		found[b.ID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate photo rows: %w", err)
	}

	return orderByKeys(ids, found), nil
}

func (r *SQLiteRepository) ObjectURL(ctx context.Context, id string) (models.ObjectRef, error) {
	b, err := r.Get(ctx, id)
	if err != nil {
		return models.ObjectRef{}, err
	}
	if b == nil {
		return models.ObjectRef{}, fmt.Errorf("photo %s: %w", id, models.ErrNotFound)
	}

	path, err := filex.WriteTemp(r.urlDir, id+"-*.jpg", b.Data)
	if err != nil {
		return models.ObjectRef{}, fmt.Errorf("materialize photo %s: %w", id, err)
	}

	u := url.URL{Scheme: "file", Path: path}
	return models.NewObjectRef(u.String(), func() error {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}), nil
}
