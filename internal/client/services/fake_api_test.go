package services

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/aircontrol/internal/client/gateway"
	"github.com/dmitrijs2005/aircontrol/internal/client/localdb"
	"github.com/dmitrijs2005/aircontrol/internal/client/models"
	"github.com/dmitrijs2005/aircontrol/internal/logging"
)

var errOffline = &gateway.NetworkError{Op: "test", Err: context.DeadlineExceeded}

// fakeAPI implements gateway.API. Every method fails with err when set.
type fakeAPI struct {
	mu sync.Mutex

	err   error
	calls []string
	token string

	loginResp   *gateway.LoginResponse
	loginErr    error
	items       []gateway.RemoteWorkOrder
	counts      models.Counts
	detail      *gateway.RemoteWorkOrder
	created     *gateway.RemoteWorkOrder
	createReq   gateway.CreateWorkOrderRequest
	clients     []models.Client
	techs       []models.Technician
	techForm    models.TechnicianForm
	userForm    models.UserForm
	statusCalls map[int64]string
}

func (f *fakeAPI) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeAPI) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Login(_ context.Context, _, _ string) (*gateway.LoginResponse, error) {
	if err := f.record("login"); err != nil {
		return nil, err
	}
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResp, nil
}

func (f *fakeAPI) ListWorkOrders(context.Context, string, string) ([]gateway.RemoteWorkOrder, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	return f.items, nil
}

func (f *fakeAPI) CountWorkOrders(context.Context) (models.Counts, error) {
	if err := f.record("counts"); err != nil {
		return models.Counts{}, err
	}
	return f.counts, nil
}

func (f *fakeAPI) GetWorkOrder(context.Context, int64) (*gateway.RemoteWorkOrder, error) {
	if err := f.record("detail"); err != nil {
		return nil, err
	}
	return f.detail, nil
}

func (f *fakeAPI) CreateWorkOrder(_ context.Context, req gateway.CreateWorkOrderRequest) (*gateway.RemoteWorkOrder, error) {
	if err := f.record("create"); err != nil {
		return nil, err
	}
	f.createReq = req
	return f.created, nil
}

func (f *fakeAPI) UpdateWorkOrderStatus(_ context.Context, id int64, status string) error {
	if err := f.record("status"); err != nil {
		return err
	}
	if f.statusCalls == nil {
		f.statusCalls = map[int64]string{}
	}
	f.statusCalls[id] = status
	return nil
}

func (f *fakeAPI) DeleteWorkOrder(context.Context, int64) error {
	return f.record("delete")
}

func (f *fakeAPI) ListClients(context.Context) ([]models.Client, error) {
	if err := f.record("clients"); err != nil {
		return nil, err
	}
	return f.clients, nil
}

func (f *fakeAPI) ListTechnicians(context.Context) ([]models.Technician, error) {
	if err := f.record("technicians"); err != nil {
		return nil, err
	}
	return f.techs, nil
}

func (f *fakeAPI) CreateTechnician(_ context.Context, form models.TechnicianForm) error {
	if err := f.record("create technician"); err != nil {
		return err
	}
	f.techForm = form
	return nil
}

func (f *fakeAPI) RegisterUser(_ context.Context, form models.UserForm) error {
	if err := f.record("register user"); err != nil {
		return err
	}
	f.userForm = form
	return nil
}

func (f *fakeAPI) Ping(context.Context) error {
	return f.record("ping")
}

func (f *fakeAPI) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeAPI) currentToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func newHandle(t *testing.T) *localdb.Handle {
	t.Helper()
	h := localdb.New(":memory:", logging.Discard())
	t.Cleanup(func() { _ = h.Close() })
	return h
}
