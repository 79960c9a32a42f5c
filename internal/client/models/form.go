package models

import (
	"fmt"
	"strings"
)

// WorkOrderForm is the raw input of the create form.
type WorkOrderForm struct {
	// ClientID and TechnicianID are the resolved lookup ids, 0 when the
	// typed text did not match a known entry.
	ClientID       int64
	LocationText   string
	TechnicianID   int64
	TechnicianText string

	Description string
	Priority    string
	Status      string
	Notes       string

	Location  Location
	Equipment []Equipment
	Parts     []Part

	PhotosBefore [][]byte
	PhotosAfter  [][]byte
}

// Validate checks the fields required by both the API and the local path.
// It expects a form returned by Normalized.
func (f WorkOrderForm) Validate() error {
	if strings.TrimSpace(f.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	for i, e := range f.Equipment {
		if e.Refrigerant == RefrigerantOther && strings.TrimSpace(e.RefrigerantOther) == "" {
			return fmt.Errorf("%w: equipment %d: refrigerant name is required for %q", ErrValidation, i+1, RefrigerantOther)
		}
	}
	return nil
}

// WithDefaults fills priority and status when left empty.
func (f WorkOrderForm) WithDefaults() WorkOrderForm {
	if strings.TrimSpace(f.Priority) == "" {
		f.Priority = PriorityLow
	}
	if strings.TrimSpace(f.Status) == "" {
		f.Status = StatusOpen
	}
	return f
}

// Normalized applies WithDefaults and the equipment and parts
// normalization, so every create path validates and stores the same rows.
func (f WorkOrderForm) Normalized() WorkOrderForm {
	f = f.WithDefaults()
	f.Equipment = NormalizeEquipment(f.Equipment)
	f.Parts = NormalizeParts(f.Parts)
	return f
}
