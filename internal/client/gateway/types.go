package gateway

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ItemsEnvelope decodes the list shapes of the API: a bare array, or an
// object holding the array under "itens" or "items". Anything else decodes
// to an empty list.
type ItemsEnvelope[T any] struct {
	Items []T
}

func (e *ItemsEnvelope[T]) UnmarshalJSON(b []byte) error {
	e.Items = []T{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}

	switch b[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		if items != nil {
			e.Items = items
		}
	case '{':
		var wrapped struct {
			Itens json.RawMessage `json:"itens"`
			Items json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(b, &wrapped); err != nil {
			return err
		}
		for _, raw := range []json.RawMessage{wrapped.Itens, wrapped.Items} {
			raw = bytes.TrimSpace(raw)
			if len(raw) == 0 || raw[0] != '[' {
				continue
			}
			var items []T
			if err := json.Unmarshal(raw, &items); err != nil {
				return err
			}
			if items != nil {
				e.Items = items
			}
			return nil
		}
	}
	return nil
}

// Text is a string field the API sometimes sends as a number.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err == nil {
			*t = Text(n.String())
			return nil
		}
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*t = Text(strconv.FormatBool(v))
	}
	return nil
}

// NamedRef is a nested {"nome": ...} object. A plain string is accepted as
// the name.
type NamedRef struct {
	ID      int64  `json:"id"`
	Name    string `json:"nome"`
	Address string `json:"endereco"`
}

func (n *NamedRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = NamedRef{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NamedRef{Name: s}
		return nil
	}
	type plain NamedRef
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*n = NamedRef(p)
	return nil
}

// RemoteEquipment is the single equipment object of a server work order.
type RemoteEquipment struct {
	Type   Text `json:"tipo"`
	BTUs   Text `json:"btus"`
	Brand  Text `json:"marca"`
	Model  Text `json:"modelo"`
	Serial Text `json:"serie"`
}

// IsZero reports an absent or empty equipment object.
func (e RemoteEquipment) IsZero() bool {
	return e == RemoteEquipment{}
}

// RemoteWorkOrder is a work order as the API returns it.
type RemoteWorkOrder struct {
	ID          int64            `json:"id"`
	Client      *NamedRef        `json:"cliente"`
	Technician  *NamedRef        `json:"tecnico"`
	Location    Text             `json:"local"`
	Address     Text             `json:"endereco"`
	Description Text             `json:"descricao"`
	Notes       Text             `json:"observacoes"`
	Priority    Text             `json:"prioridade"`
	Status      Text             `json:"status"`
	OpenedAt    Text             `json:"dataAbertura"`
	ClosedAt    Text             `json:"dataConclusao"`
	Equipment   *RemoteEquipment `json:"equipamento"`
}

// CreateWorkOrderRequest is the body of POST /api/OrdensServico.
type CreateWorkOrderRequest struct {
	ClientID     int64  `json:"clienteId"`
	TechnicianID int64  `json:"tecnicoId"`
	Description  string `json:"descricao"`
	Priority     string `json:"prioridade"`
	Status       string `json:"status"`
	Notes        string `json:"observacoes"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// LoginResponse is the user object returned by a successful login. The
// role arrives as "cargo" in any letter case.
type LoginResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"nome"`
	Role  string `json:"cargo"`
	Token string `json:"token"`
}
