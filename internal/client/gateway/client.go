package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/aircontrol/internal/client/models"
	"github.com/dmitrijs2005/aircontrol/internal/netx"
)

// API is the remote surface the client services depend on.
type API interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ListWorkOrders(ctx context.Context, status, query string) ([]RemoteWorkOrder, error)
	CountWorkOrders(ctx context.Context) (models.Counts, error)
	GetWorkOrder(ctx context.Context, id int64) (*RemoteWorkOrder, error)
	CreateWorkOrder(ctx context.Context, req CreateWorkOrderRequest) (*RemoteWorkOrder, error)
	UpdateWorkOrderStatus(ctx context.Context, id int64, status string) error
	DeleteWorkOrder(ctx context.Context, id int64) error
	ListClients(ctx context.Context) ([]models.Client, error)
	ListTechnicians(ctx context.Context) ([]models.Technician, error)
	CreateTechnician(ctx context.Context, form models.TechnicianForm) error
	RegisterUser(ctx context.Context, form models.UserForm) error
	Ping(ctx context.Context) error
	SetToken(token string)
}

// HTTPClient implements API over net/http. It is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

func New(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken sets the bearer token sent with every request. Empty disables it.
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Body is a successful response: absent (204), raw text for non-JSON
// content types, or validated JSON.
type Body struct {
	Absent bool
	Text   string
	JSON   json.RawMessage
}

// do performs one API call. Non-2xx statuses become *StatusError, transport
// failures *NetworkError and invalid JSON *MalformedResponseError.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, query url.Values, in any) (Body, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	header := http.Header{"Accept": {"application/json"}}
	if tok := c.bearer(); tok != "" {
		header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := netx.Send(ctx, c.http, netx.Request{Method: method, URL: u, Header: header, JSON: in})
	if err != nil {
		return Body{}, &NetworkError{Op: op, Err: err}
	}

	if !resp.OK() {
		return Body{}, &StatusError{Op: op, Code: resp.Status, Body: strings.TrimSpace(string(resp.Body))}
	}
	if resp.Status == http.StatusNoContent {
		return Body{Absent: true}, nil
	}
	if !resp.IsJSON() {
		return Body{Text: string(resp.Body)}, nil
	}
	if !json.Valid(resp.Body) {
		return Body{}, &MalformedResponseError{Op: op, Err: errors.New("invalid JSON")}
	}
	return Body{JSON: resp.Body}, nil
}

var errNotJSON = errors.New("expected a JSON body")

// decode unmarshals a JSON body into out.
func decode(op string, b Body, out any) error {
	switch {
	case b.Absent:
		return ErrNoContent
	case b.JSON == nil:
		return &MalformedResponseError{Op: op, Err: errNotJSON}
	}
	if err := json.Unmarshal(b.JSON, out); err != nil {
		return &MalformedResponseError{Op: op, Err: err}
	}
	return nil
}
