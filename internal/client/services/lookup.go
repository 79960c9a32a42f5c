package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/aircontrol/internal/client/gateway"
	"github.com/dmitrijs2005/aircontrol/internal/client/models"
	"github.com/dmitrijs2005/aircontrol/internal/logging"
	"github.com/patrickmn/go-cache"
)

const (
	clientsCacheKey     = "clients"
	techniciansCacheKey = "technicians"
)

// LookupService serves the client and technician pickers of the create
// form. Lists are cached; a failed fetch yields an empty list and is not
// cached.
type LookupService interface {
	Clients(ctx context.Context) []models.Client
	Technicians(ctx context.Context) []models.Technician
	// ResolveLocation maps a picker text ("name — address" or "name") to
	// the client id, 0 when nothing matches exactly.
	ResolveLocation(ctx context.Context, text string) int64
	ResolveTechnician(ctx context.Context, text string) int64
	Invalidate()
}

type lookupService struct {
	api   gateway.API
	cache *cache.Cache
	log   logging.Logger
}

func NewLookupService(api gateway.API, ttl time.Duration, log logging.Logger) LookupService {
	return &lookupService{
		api:   api,
		cache: cache.New(ttl, 2*ttl),
		log:   log.With("component", "lookup"),
	}
}

func cached[T any](ctx context.Context, s *lookupService, key string, fetch func(context.Context) ([]T, error)) []T {
	if v, ok := s.cache.Get(key); ok {
		return v.([]T)
	}
	items, err := fetch(ctx)
	if err != nil {
		s.log.Warn(ctx, "lookup failed", "list", key, "kind", string(gateway.Kind(err)), "error", err)
		return []T{}
	}
	s.cache.SetDefault(key, items)
	return items
}

func (s *lookupService) Clients(ctx context.Context) []models.Client {
	return cached(ctx, s, clientsCacheKey, s.api.ListClients)
}

func (s *lookupService) Technicians(ctx context.Context) []models.Technician {
	return cached(ctx, s, techniciansCacheKey, s.api.ListTechnicians)
}

func (s *lookupService) ResolveLocation(ctx context.Context, text string) int64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	for _, c := range s.Clients(ctx) {
		if c.DisplayText() == text {
			return c.ID
		}
	}
	return 0
}

func (s *lookupService) ResolveTechnician(ctx context.Context, text string) int64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	for _, t := range s.Technicians(ctx) {
		if t.Name == text {
			return t.ID
		}
	}
	return 0
}

func (s *lookupService) Invalidate() {
	s.cache.Flush()
}
