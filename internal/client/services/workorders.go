package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/aircontrol/internal/client/assembler"
	"github.com/dmitrijs2005/aircontrol/internal/client/fallback"
	"github.com/dmitrijs2005/aircontrol/internal/client/gateway"
	"github.com/dmitrijs2005/aircontrol/internal/client/models"
	"github.com/dmitrijs2005/aircontrol/internal/client/repositories/photos"
	"github.com/dmitrijs2005/aircontrol/internal/client/repositories/records"
	"github.com/dmitrijs2005/aircontrol/internal/logging"
)

// WorkOrderService routes every work-order operation to the API first and
// to the local stores when the API fails.
//
// Reads (List, Counts, Detail) skip the API entirely while any local record
// exists. Writes always try the API first; any failure, 4xx included,
// switches to the local path. Offline SetStatus, Delete and Detail on an
// unknown id do nothing and report no error.
type WorkOrderService interface {
	Create(ctx context.Context, form models.WorkOrderForm) (CreateResult, fallback.Source, error)
	List(ctx context.Context, filter, query string) ([]models.WorkOrderView, fallback.Source, error)
	Counts(ctx context.Context) (models.Counts, fallback.Source, error)
	// Detail returns nil when the record is unknown locally.
	Detail(ctx context.Context, id int64) (*models.WorkOrderView, fallback.Source, error)
	SetStatus(ctx context.Context, id int64, status string) (fallback.Source, error)
	Delete(ctx context.Context, id int64) (fallback.Source, error)
	// PhotoURLs returns references for the stored ids, skipping unknown
	// ones. Every returned reference must be released by the caller.
	PhotoURLs(ctx context.Context, ids []string) ([]models.ObjectRef, error)
	Photo(ctx context.Context, id string) (*models.PhotoBlob, error)
}

// CreateResult identifies a created work order. ID is 0 when the API
// accepted the record without echoing it.
type CreateResult struct {
	ID   int64
	Code string
}

type workOrderService struct {
	api       gateway.API
	records   records.Repository
	photos    photos.Repository
	assembler *assembler.Assembler
	log       logging.Logger
	now       func() time.Time

	// serializes local read-modify-write cycles within this process
	mu sync.Mutex
}

func NewWorkOrderService(api gateway.API, rec records.Repository, ph photos.Repository, log logging.Logger) WorkOrderService {
	return newWorkOrderService(api, rec, ph, log, time.Now)
}

func newWorkOrderService(api gateway.API, rec records.Repository, ph photos.Repository, log logging.Logger, now func() time.Time) *workOrderService {
	return &workOrderService{
		api:       api,
		records:   rec,
		photos:    ph,
		assembler: assembler.New(ph, assembler.WithClock(now)),
		log:       log.With("component", "workorders"),
		now:       now,
	}
}

func (s *workOrderService) Create(ctx context.Context, form models.WorkOrderForm) (CreateResult, fallback.Source, error) {
	form = form.Normalized()
	if err := form.Validate(); err != nil {
		return CreateResult{}, "", err
	}

	online := func(ctx context.Context) (CreateResult, error) {
		created, err := s.api.CreateWorkOrder(ctx, gateway.CreateWorkOrderRequest{
			ClientID:     form.ClientID,
			TechnicianID: form.TechnicianID,
			Description:  strings.TrimSpace(form.Description),
			Priority:     form.Priority,
			Status:       form.Status,
			Notes:        strings.TrimSpace(form.Notes),
		})
		if err != nil {
			return CreateResult{}, err
		}
		// no echo, or an echo without an id: nothing to derive a code from
		if created == nil || created.ID == 0 {
			return CreateResult{}, nil
		}
		return CreateResult{ID: created.ID, Code: models.RemoteCode(created.ID, string(created.OpenedAt))}, nil
	}

	offline := func(ctx context.Context) (CreateResult, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		list, err := s.records.Load(ctx)
		if err != nil {
			return CreateResult{}, err
		}
		w, err := s.assembler.Build(ctx, form, list)
		if err != nil {
			return CreateResult{}, err
		}
		if err := s.records.Save(ctx, append(list, w)); err != nil {
			return CreateResult{}, err
		}
		s.log.Info(ctx, "work order saved locally", "id", w.ID, "code", w.Code)
		return CreateResult{ID: w.ID, Code: w.Code}, nil
	}

	return fallback.Run(ctx, s.log, "create", online, offline)
}

// localRecords returns the stored records, or nil when there are none and
// the API should be asked.
func (s *workOrderService) localRecords(ctx context.Context) ([]models.WorkOrder, error) {
	list, err := s.records.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list, nil
}

func (s *workOrderService) List(ctx context.Context, filter, query string) ([]models.WorkOrderView, fallback.Source, error) {
	local, err := s.localRecords(ctx)
	if err != nil {
		return nil, "", err
	}
	if local != nil {
		return fallback.Local(ctx, "list", func(context.Context) ([]models.WorkOrderView, error) {
			return filterLocal(local, filter, query), nil
		})
	}

	online := func(ctx context.Context) ([]models.WorkOrderView, error) {
		items, err := s.api.ListWorkOrders(ctx, filter, query)
		if err != nil {
			return nil, err
		}
		out := make([]models.WorkOrderView, 0, len(items))
		for _, it := range items {
			out = append(out, remoteView(it))
		}
		return out, nil
	}
	offline := func(context.Context) ([]models.WorkOrderView, error) {
		return []models.WorkOrderView{}, nil
	}
	return fallback.Run(ctx, s.log, "list", online, offline)
}

func filterLocal(list []models.WorkOrder, filter, query string) []models.WorkOrderView {
	out := make([]models.WorkOrderView, 0, len(list))
	for _, w := range list {
		if w.Matches(filter, query) {
			out = append(out, models.ViewOf(w))
		}
	}
	slices.SortStableFunc(out, func(a, b models.WorkOrderView) int {
		return strings.Compare(b.CreatedAt, a.CreatedAt)
	})
	return out
}

func (s *workOrderService) Counts(ctx context.Context) (models.Counts, fallback.Source, error) {
	local, err := s.localRecords(ctx)
	if err != nil {
		return models.Counts{}, "", err
	}
	if local != nil {
		return fallback.Local(ctx, "counts", func(context.Context) (models.Counts, error) {
			var c models.Counts
			for _, w := range local {
				c.Add(w.Status)
			}
			return c, nil
		})
	}

	return fallback.Run(ctx, s.log, "counts",
		s.api.CountWorkOrders,
		func(context.Context) (models.Counts, error) { return models.Counts{}, nil },
	)
}

func (s *workOrderService) Detail(ctx context.Context, id int64) (*models.WorkOrderView, fallback.Source, error) {
	local, err := s.localRecords(ctx)
	if err != nil {
		return nil, "", err
	}
	if local != nil {
		return fallback.Local(ctx, "detail", func(context.Context) (*models.WorkOrderView, error) {
			return findLocal(local, id), nil
		})
	}

	online := func(ctx context.Context) (*models.WorkOrderView, error) {
		r, err := s.api.GetWorkOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		v := remoteView(*r)
		return &v, nil
	}
	offline := func(ctx context.Context) (*models.WorkOrderView, error) {
		list, err := s.records.Load(ctx)
		if err != nil {
			return nil, err
		}
		return findLocal(list, id), nil
	}
	return fallback.Run(ctx, s.log, "detail", online, offline)
}

func findLocal(list []models.WorkOrder, id int64) *models.WorkOrderView {
	for _, w := range list {
		if w.ID == id {
			v := models.ViewOf(w)
			return &v
		}
	}
	return nil
}

type none struct{}

func (s *workOrderService) SetStatus(ctx context.Context, id int64, status string) (fallback.Source, error) {
	online := func(ctx context.Context) (none, error) {
		return none{}, s.api.UpdateWorkOrderStatus(ctx, id, status)
	}
	offline := func(ctx context.Context) (none, error) {
		return none{}, s.mutateLocal(ctx, func(list []models.WorkOrder) ([]models.WorkOrder, bool) {
			for i := range list {
				if list[i].ID == id {
					list[i].ApplyStatus(status, s.now())
					return list, true
				}
			}
			return list, false
		})
	}
	_, src, err := fallback.Run(ctx, s.log, "set status", online, offline)
	return src, err
}

func (s *workOrderService) Delete(ctx context.Context, id int64) (fallback.Source, error) {
	online := func(ctx context.Context) (none, error) {
		return none{}, s.api.DeleteWorkOrder(ctx, id)
	}
	offline := func(ctx context.Context) (none, error) {
		return none{}, s.mutateLocal(ctx, func(list []models.WorkOrder) ([]models.WorkOrder, bool) {
			n := len(list)
			list = slices.DeleteFunc(list, func(w models.WorkOrder) bool { return w.ID == id })
			return list, len(list) != n
		})
	}
	_, src, err := fallback.Run(ctx, s.log, "delete", online, offline)
	return src, err
}

// mutateLocal loads the records, applies fn and saves them back when fn
// reports a change.
func (s *workOrderService) mutateLocal(ctx context.Context, fn func([]models.WorkOrder) ([]models.WorkOrder, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.records.Load(ctx)
	if err != nil {
		return err
	}
	list, changed := fn(list)
	if !changed {
		s.log.Debug(ctx, "local work order not found, nothing to do")
		return nil
	}
	return s.records.Save(ctx, list)
}

func (s *workOrderService) PhotoURLs(ctx context.Context, ids []string) ([]models.ObjectRef, error) {
	refs := make([]models.ObjectRef, 0, len(ids))
	for _, id := range ids {
		ref, err := s.photos.ObjectURL(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			for i := range refs {
				_ = refs[i].Release()
			}
			return nil, fmt.Errorf("photo %s: %w", id, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *workOrderService) Photo(ctx context.Context, id string) (*models.PhotoBlob, error) {
	return s.photos.Get(ctx, id)
}

// remoteView reshapes an API record: the code comes from the server id and
// opening year, names from the nested client and technician objects, and
// the single equipment object becomes a one-element list.
func remoteView(r gateway.RemoteWorkOrder) models.WorkOrderView {
	v := models.WorkOrderView{
		ID:             r.ID,
		Code:           models.RemoteCode(r.ID, string(r.OpenedAt)),
		Address:        string(r.Address),
		Technician:     "-",
		Description:    string(r.Description),
		Priority:       string(r.Priority),
		Status:         string(r.Status),
		Notes:          string(r.Notes),
		CreatedAt:      string(r.OpenedAt),
		Equipment:      []models.Equipment{},
		Parts:          []models.Part{},
		PhotoBeforeIDs: []string{},
		PhotoAfterIDs:  []string{},
	}

	if r.Client != nil {
		v.LocationName = r.Client.Name
		if v.Address == "" {
			v.Address = r.Client.Address
		}
	}
	if v.LocationName == "" {
		v.LocationName = string(r.Location)
	}
	if v.LocationName == "" {
		v.LocationName = "-"
	}
	if r.Technician != nil && r.Technician.Name != "" {
		v.Technician = r.Technician.Name
	}
	if r.ClosedAt != "" {
		closed := string(r.ClosedAt)
		v.CompletedAt = &closed
	}
	if r.Equipment != nil && !r.Equipment.IsZero() {
		v.Equipment = []models.Equipment{{
			UnitType: string(r.Equipment.Type),
			Capacity: string(r.Equipment.BTUs),
			Brand:    string(r.Equipment.Brand),
			Model:    string(r.Equipment.Model),
			Serial:   string(r.Equipment.Serial),
		}}
	}
	return v
}
