// Package geocode resolves addresses to coordinates and back using a
// Nominatim-compatible service.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/aircontrol/internal/netx"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	userAgent      = "aircontrol-cli"
	language       = "pt-BR"
	minQueryLen    = 3
)

// ErrLookupFailed is returned when the service answers with a non-2xx status.
var ErrLookupFailed = errors.New("geocoding failed")

// Point is a coordinate pair formatted with six decimals.
type Point struct {
	Lat string
	Lng string
}

type Geocoder struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
}

type Option func(*Geocoder)

func WithHTTPClient(hc *http.Client) Option {
	return func(g *Geocoder) { g.http = hc }
}

// New builds a Geocoder allowing perSec requests per second. A
// non-positive perSec disables the limit.
func New(baseURL string, perSec float64, opts ...Option) *Geocoder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limit := rate.Inf
	if perSec > 0 {
		limit = rate.Limit(perSec)
	}
	g := &Geocoder{
		base:    strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(limit, 1),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// FormatCoord renders a coordinate the way it is stored on work orders.
func FormatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

type searchHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Search returns the best match for an address, restricted to Brazil first
// and then worldwide. It returns nil for queries shorter than three
// characters and when nothing matches.
func (g *Geocoder) Search(ctx context.Context, query string) (*Point, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLen {
		return nil, nil
	}

	for _, country := range []string{"br", ""} {
		q := url.Values{"format": {"jsonv2"}, "limit": {"1"}, "q": {query}}
		if country != "" {
			q.Set("countrycodes", country)
		}
		var hits []searchHit
		if err := g.get(ctx, "/search", q, &hits); err != nil {
			return nil, err
		}
		if len(hits) == 0 {
			continue
		}
		lat, err := strconv.ParseFloat(hits[0].Lat, 64)
		if err != nil {
			return nil, fmt.Errorf("bad latitude %q: %w", hits[0].Lat, err)
		}
		lng, err := strconv.ParseFloat(hits[0].Lon, 64)
		if err != nil {
			return nil, fmt.Errorf("bad longitude %q: %w", hits[0].Lon, err)
		}
		return &Point{Lat: FormatCoord(lat), Lng: FormatCoord(lng)}, nil
	}
	return nil, nil
}

type reverseResult struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Road          string `json:"road"`
		HouseNumber   string `json:"house_number"`
		Suburb        string `json:"suburb"`
		Neighbourhood string `json:"neighbourhood"`
		City          string `json:"city"`
		Town          string `json:"town"`
		Village       string `json:"village"`
		State         string `json:"state"`
		Postcode      string `json:"postcode"`
	} `json:"address"`
}

// Reverse returns a postal address for the coordinates, "" when the
// service knows none.
func (g *Geocoder) Reverse(ctx context.Context, lat, lng string) (string, error) {
	q := url.Values{"format": {"jsonv2"}, "lat": {lat}, "lon": {lng}, "accept-language": {language}}
	var r reverseResult
	if err := g.get(ctx, "/reverse", q, &r); err != nil {
		return "", err
	}

	a := r.Address
	parts := make([]string, 0, 5)
	street := strings.Join(nonEmpty(a.Road, a.HouseNumber), ", ")
	parts = append(parts, nonEmpty(
		street,
		firstOf(a.Suburb, a.Neighbourhood),
		firstOf(a.City, a.Town, a.Village),
		a.State,
		a.Postcode,
	)...)
	if len(parts) == 0 {
		return r.DisplayName, nil
	}
	return strings.Join(parts, " - "), nil
}

func (g *Geocoder) get(ctx context.Context, path string, q url.Values, out any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := netx.Send(ctx, g.http, netx.Request{
		Method: http.MethodGet,
		URL:    g.base + path + "?" + q.Encode(),
		Header: http.Header{
			"Accept":          {"application/json"},
			"Accept-Language": {language},
			"User-Agent":      {userAgent},
		},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: %s: status %d", ErrLookupFailed, path, resp.Status)
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", path, err)
	}
	return nil
}

func nonEmpty(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
