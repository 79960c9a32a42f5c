package bootstrap

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/aircontrol/internal/client/config"
	"github.com/dmitrijs2005/aircontrol/internal/client/models"
	"github.com/dmitrijs2005/aircontrol/internal/client/repositories/photos"
	"github.com/dmitrijs2005/aircontrol/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	var c config.Config
	c.LoadDefaults()
	c.DatabasePath = filepath.Join(t.TempDir(), "os.db")
	c.ObjectURLDir = t.TempDir()
	c.APIBaseURL = "http://127.0.0.1:1"
	return &c
}

func TestBuild_SQLiteBackend(t *testing.T) {
	c := testConfig(t)
	d, err := Build(context.Background(), c, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	_, ok := d.Photos.(*photos.SQLiteRepository)
	assert.True(t, ok)

	ctx := context.Background()
	require.NoError(t, d.Photos.Put(ctx, models.PhotoBlob{ID: "antes-1-a", Data: []byte("x")}))
	got, err := d.Photos.Get(ctx, "antes-1-a")
	require.NoError(t, err)
	require.NotNil(t, got)

	list, err := d.Records.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBuild_S3Backend(t *testing.T) {
	orig := newS3Repository
	t.Cleanup(func() { newS3Repository = orig })

	var got photos.S3Options
	newS3Repository = func(_ context.Context, o photos.S3Options) (photos.Repository, error) {
		got = o
		return photos.NewSQLiteRepository(nil, ""), nil
	}

	c := testConfig(t)
	c.BlobBackend = config.BlobS3
	c.S3Bucket = "fotos"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"

	d, err := Build(context.Background(), c, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	assert.Equal(t, "fotos", got.Bucket)
	assert.Equal(t, "http://127.0.0.1:9000/", got.BaseEndpoint)
	assert.Equal(t, c.S3URLExpiry, got.URLExpiry)
}

func TestBuild_S3Error(t *testing.T) {
	orig := newS3Repository
	t.Cleanup(func() { newS3Repository = orig })
	newS3Repository = func(context.Context, photos.S3Options) (photos.Repository, error) {
		return nil, errors.New("no credentials")
	}

	c := testConfig(t)
	c.BlobBackend = config.BlobS3
	_, err := Build(context.Background(), c, logging.Discard())
	require.Error(t, err)
}
