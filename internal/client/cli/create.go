package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/aircontrol/internal/client/fallback"
	"github.com/dmitrijs2005/aircontrol/internal/client/models"
)

// Create walks the user through the work-order form and submits it.
func (a *App) Create(ctx context.Context) error {
	form, err := a.inputWorkOrder(ctx)
	if err != nil {
		return a.fail(err)
	}

	res, src, err := a.workOrders.Create(ctx, form)
	if err != nil {
		return a.fail(err)
	}

	switch {
	case src == fallback.Offline:
		a.printf("No connection: work order saved locally as %s.\n", res.Code)
	case res.Code != "":
		a.printf("Work order %s created.\n", res.Code)
	default:
		a.println("Work order created.")
	}
	return nil
}

func (a *App) inputWorkOrder(ctx context.Context) (models.WorkOrderForm, error) {
	var f models.WorkOrderForm
	var err error

	if f.LocationText, f.ClientID, err = a.pickClient(ctx); err != nil {
		return f, err
	}
	if f.TechnicianText, f.TechnicianID, err = a.pickTechnician(ctx); err != nil {
		return f, err
	}
	if f.Description, err = GetMultiline(a.reader, "Describe the service", a.out); err != nil {
		return f, err
	}
	priorities := []string{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
	if f.Priority, err = GetChoice(a.reader, "Priority", priorities, models.PriorityLow, a.out); err != nil {
		return f, err
	}
	statuses := []string{models.StatusOpen, models.StatusInProgress, models.StatusCompleted}
	if f.Status, err = GetChoice(a.reader, "Status", statuses, models.StatusOpen, a.out); err != nil {
		return f, err
	}
	if f.Location, err = a.inputLocation(ctx); err != nil {
		return f, err
	}
	if f.Equipment, err = a.inputEquipment(); err != nil {
		return f, err
	}

	pairs, err := GetPairs(a.reader, "Parts used", a.out)
	if err != nil {
		return f, err
	}
	for _, p := range pairs {
		f.Parts = append(f.Parts, models.Part{Item: p[0], Quantity: p[1]})
	}

	if f.PhotosBefore, err = a.inputPhotos("Photos before the service"); err != nil {
		return f, err
	}
	if f.PhotosAfter, err = a.inputPhotos("Photos after the service"); err != nil {
		return f, err
	}
	if f.Notes, err = getSimpleText(a.reader, "Notes (optional)", a.out); err != nil {
		return f, err
	}
	return f, nil
}

// pickClient offers the cached client list. The answer is either a list
// number or free text; free text is matched against the list.
func (a *App) pickClient(ctx context.Context) (string, int64, error) {
	clients := a.lookup.Clients(ctx)
	for i, c := range clients {
		a.printf("  %d) %s\n", i+1, c.DisplayText())
	}
	answer, err := getSimpleText(a.reader, "Location (number from the list or name)", a.out)
	if err != nil {
		return "", 0, err
	}
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(clients) {
		c := clients[n-1]
		return c.DisplayText(), c.ID, nil
	}
	return answer, a.lookup.ResolveLocation(ctx, answer), nil
}

func (a *App) pickTechnician(ctx context.Context) (string, int64, error) {
	techs := a.lookup.Technicians(ctx)
	for i, t := range techs {
		a.printf("  %d) %s\n", i+1, t.Name)
	}
	answer, err := getSimpleText(a.reader, "Technician (number from the list or name)", a.out)
	if err != nil {
		return "", 0, err
	}
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(techs) {
		t := techs[n-1]
		return t.Name, t.ID, nil
	}
	return answer, a.lookup.ResolveTechnician(ctx, answer), nil
}

// inputLocation asks for the address and fills the coordinates from the
// geocoder when it finds a match.
func (a *App) inputLocation(ctx context.Context) (models.Location, error) {
	var loc models.Location
	var err error
	if loc.Address, err = getSimpleText(a.reader, "Address", a.out); err != nil {
		return loc, err
	}

	if a.geocoder != nil {
		p, gerr := a.geocoder.Search(ctx, loc.Address)
		if gerr != nil {
			a.log.Warn(ctx, "geocoding failed", "error", gerr)
		}
		if p != nil {
			loc.Lat, loc.Lng = p.Lat, p.Lng
		}
	}

	lat, err := getSimpleText(a.reader, fmt.Sprintf("Latitude (Enter to keep %q)", loc.Lat), a.out)
	if err != nil {
		return loc, err
	}
	if lat != "" {
		loc.Lat = lat
	}
	lng, err := getSimpleText(a.reader, fmt.Sprintf("Longitude (Enter to keep %q)", loc.Lng), a.out)
	if err != nil {
		return loc, err
	}
	if lng != "" {
		loc.Lng = lng
	}
	return loc, nil
}

func (a *App) inputEquipment() ([]models.Equipment, error) {
	var out []models.Equipment
	for {
		more, err := Confirm(a.reader, "Add equipment?", a.out)
		if err != nil || !more {
			return out, err
		}

		var e models.Equipment
		fields := []struct {
			prompt string
			dst    *string
		}{
			{"Asset tag", &e.AssetTag},
			{"Room", &e.Room},
			{"Brand", &e.Brand},
			{"Capacity (BTU)", &e.Capacity},
			{"Model", &e.Model},
			{"Serial number", &e.Serial},
		}
		for _, fld := range fields {
			if *fld.dst, err = getSimpleText(a.reader, fld.prompt, a.out); err != nil {
				return nil, err
			}
		}
		if e.UnitType, err = GetChoice(a.reader, "Unit type", []string{models.UnitNormal, models.UnitInverter}, models.UnitNormal, a.out); err != nil {
			return nil, err
		}
		gas, err := getSimpleText(a.reader, "Refrigerant (R22, R410A, R32 or another name; empty for none)", a.out)
		if err != nil {
			return nil, err
		}
		e.Refrigerant, e.RefrigerantOther = models.NormalizeRefrigerant(gas, "")
		if e.Refrigerant == models.RefrigerantOther && e.RefrigerantOther == "" {
			if e.RefrigerantOther, err = getSimpleText(a.reader, "Refrigerant name", a.out); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}
}

// inputPhotos reads a comma-separated list of image files.
func (a *App) inputPhotos(prompt string) ([][]byte, error) {
	answer, err := getSimpleText(a.reader, prompt+" (file paths separated by commas, empty for none)", a.out)
	if err != nil {
		return nil, err
	}
	var out [][]byte
	for _, p := range strings.Split(answer, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read photo %s: %w", p, err)
		}
		out = append(out, data)
	}
	return out, nil
}
