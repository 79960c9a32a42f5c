// Package bootstrap wires the local stores, the API gateway and the
// services from a Config. Both binaries start from Build.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/aircontrol/internal/client/config"
	"github.com/dmitrijs2005/aircontrol/internal/client/gateway"
	"github.com/dmitrijs2005/aircontrol/internal/client/geocode"
	"github.com/dmitrijs2005/aircontrol/internal/client/localdb"
	"github.com/dmitrijs2005/aircontrol/internal/client/repositories/photos"
	"github.com/dmitrijs2005/aircontrol/internal/client/repositories/records"
	"github.com/dmitrijs2005/aircontrol/internal/client/services"
	"github.com/dmitrijs2005/aircontrol/internal/logging"
)

type Deps struct {
	DB         *localdb.Handle
	API        *gateway.HTTPClient
	Photos     photos.Repository
	Records    records.Repository
	Auth       services.AuthService
	WorkOrders services.WorkOrderService
	Staff      services.StaffService
	Lookup     services.LookupService
	Geocoder   *geocode.Geocoder
}

// newS3Repository is a test seam.
var newS3Repository = func(ctx context.Context, o photos.S3Options) (photos.Repository, error) {
	return photos.NewS3Repository(ctx, o)
}

// Build constructs the dependency graph. The local database is opened
// lazily on first use.
func Build(ctx context.Context, c *config.Config, log logging.Logger) (*Deps, error) {
	db := localdb.New(c.DatabasePath, log)

	var (
		ph  photos.Repository
		err error
	)
	switch c.BlobBackend {
	case config.BlobS3:
		ph, err = newS3Repository(ctx, photos.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
			URLExpiry:    c.S3URLExpiry,
		})
		if err != nil {
			return nil, fmt.Errorf("init s3 blob store: %w", err)
		}
	default:
		ph = photos.NewSQLiteRepository(db, c.ObjectURLDir)
	}

	api := gateway.New(c.APIBaseURL)
	rec := records.NewSQLiteRepository(db, log)
	auth := services.NewAuthService(api, db, log, c.OfflineLogin)

	return &Deps{
		DB:         db,
		API:        api,
		Photos:     ph,
		Records:    rec,
		Auth:       auth,
		WorkOrders: services.NewWorkOrderService(api, rec, ph, log),
		Staff:      services.NewStaffService(api, auth),
		Lookup:     services.NewLookupService(api, c.LookupCacheTTL, log),
		Geocoder:   geocode.New(c.GeocoderURL, c.GeocoderRatePerSec),
	}, nil
}

func (d *Deps) Close() error {
	return d.DB.Close()
}
