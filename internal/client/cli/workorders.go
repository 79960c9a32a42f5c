package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/aircontrol/internal/client/fallback"
	"github.com/dmitrijs2005/aircontrol/internal/client/models"
)

var statusWords = map[string]string{
	"todas":      models.FilterAll,
	"all":        models.FilterAll,
	"aberta":     models.StatusOpen,
	"open":       models.StatusOpen,
	"andamento":  models.StatusInProgress,
	"progress":   models.StatusInProgress,
	"concluida":  models.StatusCompleted,
	"concluída":  models.StatusCompleted,
	"done":       models.StatusCompleted,
	"completed":  models.StatusCompleted,
	"em":         models.StatusInProgress,
	"inprogress": models.StatusInProgress,
}

// parseStatus maps a typed status word onto the stored spelling.
func parseStatus(word string) (string, bool) {
	s, ok := statusWords[strings.ToLower(strings.TrimSpace(word))]
	return s, ok
}

func parseID(args []string, usage string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: usage: %s", models.ErrValidation, usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", models.ErrValidation, args[0])
	}
	return id, nil
}

func (a *App) sourceNote(src fallback.Source) {
	if src == fallback.Offline {
		a.println("(offline: local data)")
	}
}

// List prints work orders. The first argument is taken as a status filter
// when it names one; the rest is search text.
func (a *App) List(ctx context.Context, args []string) error {
	filter := models.FilterAll
	if len(args) > 0 {
		if s, ok := parseStatus(args[0]); ok {
			filter = s
			args = args[1:]
			if len(args) > 0 && strings.EqualFold(args[0], "andamento") && filter == models.StatusInProgress {
				args = args[1:]
			}
		}
	}
	query := strings.Join(args, " ")

	views, src, err := a.workOrders.List(ctx, filter, query)
	if err != nil {
		return a.fail(err)
	}
	if len(views) == 0 {
		a.println("No work orders found.")
		a.sourceNote(src)
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tLOCATION\tTECHNICIAN\tPRIORITY\tSTATUS\tOPENED")
	for _, v := range views {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.Code, v.LocationName, v.Technician, v.Priority, v.Status, shortDate(v.CreatedAt))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	a.sourceNote(src)
	return nil
}

func (a *App) Counts(ctx context.Context) error {
	c, src, err := a.workOrders.Counts(ctx)
	if err != nil {
		return a.fail(err)
	}
	a.printf("Open: %d  In progress: %d  Completed: %d  Total: %d\n", c.Open, c.InProgress, c.Completed, c.Total())
	a.sourceNote(src)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseID(args, "show <id>")
	if err != nil {
		return a.fail(err)
	}
	v, src, err := a.workOrders.Detail(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	if v == nil {
		a.println("Work order not found.")
		return nil
	}
	a.printView(*v)
	a.sourceNote(src)
	return nil
}

func (a *App) printView(v models.WorkOrderView) {
	a.printf("%s  [%s]  priority %s\n", v.Code, v.Status, v.Priority)
	a.printf("Location:    %s\n", v.LocationName)
	if v.Address != "" {
		a.printf("Address:     %s\n", v.Address)
	}
	if v.Lat != "" || v.Lng != "" {
		a.printf("Coordinates: %s, %s\n", v.Lat, v.Lng)
	}
	a.printf("Technician:  %s\n", v.Technician)
	a.printf("Opened:      %s\n", longDate(v.CreatedAt))
	if v.CompletedAt != nil {
		a.printf("Completed:   %s\n", longDate(*v.CompletedAt))
	}
	a.printf("Description: %s\n", v.Description)
	if v.Notes != "" {
		a.printf("Notes:       %s\n", v.Notes)
	}
	for i, e := range v.Equipment {
		a.printf("Equipment %d: %s\n", i+1, equipmentLine(e))
	}
	for _, p := range v.Parts {
		a.printf("Part:        %s x %s\n", p.Item, p.Quantity)
	}
	if n := len(v.PhotoBeforeIDs) + len(v.PhotoAfterIDs); n > 0 {
		a.printf("Photos:      %d before, %d after (use 'photos %d')\n", len(v.PhotoBeforeIDs), len(v.PhotoAfterIDs), v.ID)
	}
}

func equipmentLine(e models.Equipment) string {
	parts := []string{}
	add := func(label, v string) {
		if v != "" {
			parts = append(parts, label+" "+v)
		}
	}
	add("asset", e.AssetTag)
	add("room", e.Room)
	add("brand", e.Brand)
	add("model", e.Model)
	add("BTU", e.Capacity)
	add("type", e.UnitType)
	gas := e.Refrigerant
	if gas == models.RefrigerantOther && e.RefrigerantOther != "" {
		gas = e.RefrigerantOther
	}
	add("gas", gas)
	add("serial", e.Serial)
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func shortDate(ts string) string {
	if t, ok := models.ParseTimestamp(ts); ok {
		return t.Local().Format("02/01/2006")
	}
	return ts
}

func longDate(ts string) string {
	if t, ok := models.ParseTimestamp(ts); ok {
		return t.Local().Format("02/01/2006 15:04")
	}
	return ts
}

func (a *App) SetStatus(ctx context.Context, args []string) error {
	id, err := parseID(args, "status <id> <status>")
	if err != nil {
		return a.fail(err)
	}

	status := ""
	if len(args) > 1 {
		word := strings.Join(args[1:], " ")
		if s, ok := parseStatus(args[1]); ok && s != models.FilterAll {
			status = s
		} else {
			for _, st := range []string{models.StatusOpen, models.StatusInProgress, models.StatusCompleted} {
				if strings.EqualFold(st, word) {
					status = st
				}
			}
		}
	}
	if status == "" {
		status, err = GetChoice(a.reader, "New status", []string{models.StatusOpen, models.StatusInProgress, models.StatusCompleted}, "", a.out)
		if err != nil {
			return err
		}
	}

	src, err := a.workOrders.SetStatus(ctx, id, status)
	if err != nil {
		return a.fail(err)
	}
	a.printf("Status set to %s.\n", status)
	a.sourceNote(src)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args, "delete <id>")
	if err != nil {
		return a.fail(err)
	}
	ok, err := Confirm(a.reader, fmt.Sprintf("Delete work order %d?", id), a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.println("Cancelled.")
		return nil
	}

	src, err := a.workOrders.Delete(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	a.println("Deleted.")
	a.sourceNote(src)
	return nil
}

// Photos prints URLs for the photos of a work order. The URLs stay valid
// until the next photos command or exit.
func (a *App) Photos(ctx context.Context, args []string) error {
	id, err := parseID(args, "photos <id>")
	if err != nil {
		return a.fail(err)
	}
	v, _, err := a.workOrders.Detail(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	if v == nil {
		a.println("Work order not found.")
		return nil
	}

	a.releasePhotos()
	for _, group := range []struct {
		label string
		ids   []string
	}{{"before", v.PhotoBeforeIDs}, {"after", v.PhotoAfterIDs}} {
		refs, err := a.workOrders.PhotoURLs(ctx, group.ids)
		if err != nil {
			return a.fail(err)
		}
		for _, r := range refs {
			a.printf("%-7s %s\n", group.label, r.URL)
		}
		a.photoRefs = append(a.photoRefs, refs...)
	}
	if len(a.photoRefs) == 0 {
		a.println("No photos.")
	}
	return nil
}

func (a *App) releasePhotos() {
	for i := range a.photoRefs {
		if err := a.photoRefs[i].Release(); err != nil {
			a.log.Warn(context.Background(), "release photo url", "url", a.photoRefs[i].URL, "error", err)
		}
	}
	a.photoRefs = nil
}
