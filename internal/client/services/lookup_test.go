package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/aircontrol/internal/client/models"
	"github.com/dmitrijs2005/aircontrol/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countCalls(api *fakeAPI, name string) int {
	n := 0
	for _, c := range api.called() {
		if c == name {
			n++
		}
	}
	return n
}

func newLookupAPI() *fakeAPI {
	return &fakeAPI{
		clients: []models.Client{
			{ID: 1, Name: "Loja Centro", Address: "Rua A, 10"},
			{ID: 2, Name: "Escola Sul"},
		},
		techs: []models.Technician{{ID: 5, Name: "João"}, {ID: 6, Name: "Maria"}},
	}
}

func TestLookup_CachesLists(t *testing.T) {
	api := newLookupAPI()
	l := NewLookupService(api, time.Minute, logging.Discard())
	ctx := context.Background()

	require.Len(t, l.Clients(ctx), 2)
	require.Len(t, l.Clients(ctx), 2)
	require.Len(t, l.Technicians(ctx), 2)
	assert.Equal(t, 1, countCalls(api, "clients"))
	assert.Equal(t, 1, countCalls(api, "technicians"))

	l.Invalidate()
	l.Clients(ctx)
	assert.Equal(t, 2, countCalls(api, "clients"))
}

func TestLookup_FailureIsEmptyAndNotCached(t *testing.T) {
	api := newLookupAPI()
	api.err = errOffline
	l := NewLookupService(api, time.Minute, logging.Discard())
	ctx := context.Background()

	got := l.Clients(ctx)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, l.Technicians(ctx))

	api.err = nil
	assert.Len(t, l.Clients(ctx), 2)
}

func TestLookup_Resolve(t *testing.T) {
	l := NewLookupService(newLookupAPI(), time.Minute, logging.Discard())
	ctx := context.Background()

	assert.Equal(t, int64(1), l.ResolveLocation(ctx, "Loja Centro — Rua A, 10"))
	assert.Equal(t, int64(2), l.ResolveLocation(ctx, " Escola Sul "))
	assert.Zero(t, l.ResolveLocation(ctx, "Loja Centro"))
	assert.Zero(t, l.ResolveLocation(ctx, ""))

	assert.Equal(t, int64(6), l.ResolveTechnician(ctx, "Maria"))
	assert.Zero(t, l.ResolveTechnician(ctx, "maria"))
}
