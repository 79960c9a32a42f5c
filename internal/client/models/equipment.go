package models

import "strings"

// NormalizeRefrigerant maps the chosen type onto Refrigerants. An unknown
// type becomes "Outro" and is kept as the free-text name unless one was
// given. "other" is accepted as a spelling of "Outro". The free text is
// dropped for the known types.
func NormalizeRefrigerant(kind, other string) (string, string) {
	kind = strings.TrimSpace(kind)
	other = strings.TrimSpace(other)
	if kind == "" {
		return "", ""
	}
	for _, r := range Refrigerants {
		if strings.EqualFold(kind, r) && r != RefrigerantOther {
			return r, ""
		}
	}
	if strings.EqualFold(kind, RefrigerantOther) || strings.EqualFold(kind, "other") {
		return RefrigerantOther, other
	}
	if other == "" {
		other = kind
	}
	return RefrigerantOther, other
}

// NormalizeEquipment trims every field and puts unit and refrigerant types
// into their canonical spelling.
func NormalizeEquipment(rows []Equipment) []Equipment {
	out := make([]Equipment, 0, len(rows))
	for _, e := range rows {
		n := Equipment{
			AssetTag: strings.TrimSpace(e.AssetTag),
			Room:     strings.TrimSpace(e.Room),
			Brand:    strings.TrimSpace(e.Brand),
			Capacity: strings.TrimSpace(e.Capacity),
			Model:    strings.TrimSpace(e.Model),
			UnitType: UnitNormal,
			Serial:   strings.TrimSpace(e.Serial),
		}
		if strings.EqualFold(strings.TrimSpace(e.UnitType), UnitInverter) {
			n.UnitType = UnitInverter
		}
		n.Refrigerant, n.RefrigerantOther = NormalizeRefrigerant(e.Refrigerant, e.RefrigerantOther)
		out = append(out, n)
	}
	return out
}

func NormalizeParts(rows []Part) []Part {
	out := make([]Part, 0, len(rows))
	for _, p := range rows {
		out = append(out, Part{Item: strings.TrimSpace(p.Item), Quantity: strings.TrimSpace(p.Quantity)})
	}
	return out
}
