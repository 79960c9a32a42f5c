// Package models defines the work-order types shared by the client stores,
// the remote gateway and the coordinator.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status values as the API and the local store spell them.
const (
	StatusOpen       = "Aberta"
	StatusInProgress = "Em Andamento"
	StatusCompleted  = "Concluída"

	// FilterAll disables status filtering in list queries.
	FilterAll = "Todas"
)

// Priorities accepted by the create form.
const (
	PriorityLow    = "Baixa"
	PriorityMedium = "Media"
	PriorityHigh   = "Alta"
)

// Bucket groups free-text statuses into the three dashboard counters.
type Bucket int

const (
	BucketOpen Bucket = iota
	BucketInProgress
	BucketCompleted
)

func (b Bucket) String() string {
	switch b {
	case BucketInProgress:
		return "in_progress"
	case BucketCompleted:
		return "completed"
	default:
		return "open"
	}
}

// BucketOf classifies a stored status by case-insensitive substring.
// Anything not recognised counts as open.
func BucketOf(status string) Bucket {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "andamento"):
		return BucketInProgress
	case IsCompleted(status):
		return BucketCompleted
	default:
		return BucketOpen
	}
}

// IsCompleted reports whether status marks a finished work order.
func IsCompleted(status string) bool {
	s := strings.ToLower(status)
	return strings.Contains(s, "conclu") || strings.Contains(s, "complet")
}

// IsAllFilter reports whether filter means "no status filter".
func IsAllFilter(filter string) bool {
	f := strings.TrimSpace(filter)
	return f == "" || strings.EqualFold(f, FilterAll) || strings.EqualFold(f, "all")
}

// timestampLayout keeps millisecond precision with a fixed width so that
// stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t the way records store creation and completion times.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// LocalCode builds the display code of an offline work order.
func LocalCode(year, seq int) string {
	return fmt.Sprintf("OS-%d-%03d", year, seq)
}

// RemoteCode derives the display code of a server record from its id and
// opening date. Without a parseable date the year part is omitted.
func RemoteCode(id int64, openedAt string) string {
	if t, ok := ParseTimestamp(openedAt); ok {
		return fmt.Sprintf("OS-%d-%03d", t.Year(), id)
	}
	return fmt.Sprintf("OS-%03d", id)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts the date formats seen in API payloads.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Location is the structured address attached to a local work order.
type Location struct {
	Address string `json:"endereco"`
	Lat     string `json:"lat"`
	Lng     string `json:"lng"`
}

// Unit types.
const (
	UnitNormal   = "Normal"
	UnitInverter = "Inverter"
)

// Refrigerant types. RefrigerantOther requires a free-text name.
const (
	RefrigerantR22   = "R22"
	RefrigerantR410A = "R410A"
	RefrigerantR32   = "R32"
	RefrigerantOther = "Outro"
)

// Refrigerants lists the accepted refrigerant types in display order.
var Refrigerants = []string{RefrigerantR22, RefrigerantR410A, RefrigerantR32, RefrigerantOther}

// Equipment describes one air-conditioning unit serviced by a work order.
type Equipment struct {
	AssetTag         string `json:"patrimonio"`
	Room             string `json:"ambiente"`
	Brand            string `json:"marca"`
	Capacity         string `json:"btus"`
	Model            string `json:"modelo"`
	UnitType         string `json:"tipo"`
	Refrigerant      string `json:"gasTipo"`
	RefrigerantOther string `json:"gasOutro"`
	Serial           string `json:"serie"`
}

// Part is a consumed item with its quantity as typed by the technician.
type Part struct {
	Item     string `json:"item"`
	Quantity string `json:"qtd"`
}

// WorkOrder is the record kept in the local store. JSON names follow the
// on-device format. Keys this type does not declare, such as the legacy
// inline "fotosAntes"/"fotosDepois" arrays, are kept in Extra and written
// back unchanged.
type WorkOrder struct {
	ID             int64       `json:"id"`
	Code           string      `json:"codigo"`
	LocationName   string      `json:"localNome"`
	Technician     string      `json:"tecnico"`
	Description    string      `json:"descricao"`
	Priority       string      `json:"prioridade"`
	Status         string      `json:"status"`
	Notes          string      `json:"observacoes,omitempty"`
	CreatedAt      string      `json:"criadoEm"`
	CompletedAt    *string     `json:"concluidaEm"`
	Location       Location    `json:"local"`
	Equipment      []Equipment `json:"equipamento"`
	Parts          []Part      `json:"pecas"`
	PhotoBeforeIDs []string    `json:"fotosAntesIds"`
	PhotoAfterIDs  []string    `json:"fotosDepoisIds"`

	Extra map[string]json.RawMessage `json:"-"`
}

// ApplyStatus sets the status and keeps CompletedAt in step with it.
func (w *WorkOrder) ApplyStatus(status string, now time.Time) {
	w.Status = status
	if IsCompleted(status) {
		ts := FormatTimestamp(now)
		w.CompletedAt = &ts
		return
	}
	w.CompletedAt = nil
}

// Matches reports whether the record passes a list filter and search text.
func (w WorkOrder) Matches(filter, query string) bool {
	if !IsAllFilter(filter) && !strings.Contains(strings.ToLower(w.Status), strings.ToLower(strings.TrimSpace(filter))) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	text := strings.ToLower(w.Code + " " + w.LocationName + " " + w.Location.Address)
	return strings.Contains(text, q)
}
