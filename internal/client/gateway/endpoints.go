package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/aircontrol/internal/client/models"
)

const (
	workOrdersPath  = "/api/OrdensServico"
	clientsPath     = "/api/Clientes"
	techniciansPath = "/api/Tecnicos"
)

func lookupQuery() url.Values {
	return url.Values{"page": {"1"}, "pageSize": {"1000"}}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	const op = "login"
	b, err := c.do(ctx, op, http.MethodPost, "/api/auth/login", nil, loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	var out LoginResponse
	if err := decode(op, b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListWorkOrders returns the first page (100 records) filtered server-side.
// An empty status or models.FilterAll lists every status.
func (c *HTTPClient) ListWorkOrders(ctx context.Context, status, query string) ([]RemoteWorkOrder, error) {
	const op = "list work orders"
	q := url.Values{}
	if !models.IsAllFilter(status) {
		q.Set("status", status)
	}
	if s := strings.TrimSpace(query); s != "" {
		q.Set("q", s)
	}
	q.Set("page", "1")
	q.Set("pageSize", "100")

	b, err := c.do(ctx, op, http.MethodGet, workOrdersPath, q, nil)
	if err != nil {
		return nil, err
	}
	var env ItemsEnvelope[RemoteWorkOrder]
	if err := decode(op, b, &env); err != nil {
		return nil, err
	}
	return env.Items, nil
}

func (c *HTTPClient) CountWorkOrders(ctx context.Context) (models.Counts, error) {
	const op = "count work orders"
	b, err := c.do(ctx, op, http.MethodGet, workOrdersPath+"/contagem", nil, nil)
	if err != nil {
		return models.Counts{}, err
	}
	var out models.Counts
	if err := decode(op, b, &out); err != nil {
		return models.Counts{}, err
	}
	return out, nil
}

func (c *HTTPClient) GetWorkOrder(ctx context.Context, id int64) (*RemoteWorkOrder, error) {
	const op = "get work order"
	b, err := c.do(ctx, op, http.MethodGet, fmt.Sprintf("%s/%d", workOrdersPath, id), nil, nil)
	if err != nil {
		return nil, err
	}
	var out RemoteWorkOrder
	if err := decode(op, b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateWorkOrder returns the created record when the API echoes it, nil
// otherwise.
func (c *HTTPClient) CreateWorkOrder(ctx context.Context, req CreateWorkOrderRequest) (*RemoteWorkOrder, error) {
	const op = "create work order"
	b, err := c.do(ctx, op, http.MethodPost, workOrdersPath, nil, req)
	if err != nil {
		return nil, err
	}
	if b.JSON == nil {
		return nil, nil
	}
	var out RemoteWorkOrder
	if err := decode(op, b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateWorkOrderStatus(ctx context.Context, id int64, status string) error {
	_, err := c.do(ctx, "update work order status", http.MethodPut,
		fmt.Sprintf("%s/%d/status", workOrdersPath, id), nil, statusRequest{Status: status})
	return err
}

func (c *HTTPClient) DeleteWorkOrder(ctx context.Context, id int64) error {
	_, err := c.do(ctx, "delete work order", http.MethodDelete, fmt.Sprintf("%s/%d", workOrdersPath, id), nil, nil)
	return err
}

func (c *HTTPClient) ListClients(ctx context.Context) ([]models.Client, error) {
	const op = "list clients"
	b, err := c.do(ctx, op, http.MethodGet, clientsPath, lookupQuery(), nil)
	if err != nil {
		return nil, err
	}
	var env ItemsEnvelope[models.Client]
	if err := decode(op, b, &env); err != nil {
		return nil, err
	}
	return env.Items, nil
}

func (c *HTTPClient) ListTechnicians(ctx context.Context) ([]models.Technician, error) {
	const op = "list technicians"
	b, err := c.do(ctx, op, http.MethodGet, techniciansPath, lookupQuery(), nil)
	if err != nil {
		return nil, err
	}
	var env ItemsEnvelope[models.Technician]
	if err := decode(op, b, &env); err != nil {
		return nil, err
	}
	return env.Items, nil
}

func (c *HTTPClient) CreateTechnician(ctx context.Context, form models.TechnicianForm) error {
	_, err := c.do(ctx, "create technician", http.MethodPost, techniciansPath, nil, form)
	return err
}

func (c *HTTPClient) RegisterUser(ctx context.Context, form models.UserForm) error {
	_, err := c.do(ctx, "register user", http.MethodPost, "/api/Auth/registrar", nil, form)
	return err
}

// Ping reports whether the API host answers at all. Any HTTP status counts
// as reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, "ping", http.MethodGet, workOrdersPath+"/contagem", nil, nil)
	if IsNetwork(err) {
		return err
	}
	return nil
}
