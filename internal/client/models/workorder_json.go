package models

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
)

// workOrderFields is the JSON encoding of WorkOrder without its methods.
type workOrderFields WorkOrder

var declaredKeys = jsonKeys(reflect.TypeOf(workOrderFields{}))

func jsonKeys(t reflect.Type) map[string]struct{} {
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if !f.IsExported() || name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		keys[name] = struct{}{}
	}
	return keys
}

// fillLists replaces nil lists with empty ones so they encode as [].
func (w *WorkOrder) fillLists() {
	if w.Equipment == nil {
		w.Equipment = []Equipment{}
	}
	if w.Parts == nil {
		w.Parts = []Part{}
	}
	if w.PhotoBeforeIDs == nil {
		w.PhotoBeforeIDs = []string{}
	}
	if w.PhotoAfterIDs == nil {
		w.PhotoAfterIDs = []string{}
	}
}

func (w *WorkOrder) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var v workOrderFields
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	for k := range raw {
		if _, ok := declaredKeys[k]; ok {
			delete(raw, k)
		}
	}
	if len(raw) > 0 {
		v.Extra = raw
	}

	*w = WorkOrder(v)
	w.fillLists()
	return nil
}

func (w WorkOrder) MarshalJSON() ([]byte, error) {
	w.fillLists()
	b, err := json.Marshal(workOrderFields(w))
	if err != nil || len(w.Extra) == 0 {
		return b, err
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for k, v := range w.Extra {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
	return json.Marshal(m)
}
