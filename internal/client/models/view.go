package models

// WorkOrderView is the normalized shape handed to callers regardless of
// whether the data came from the API or the local store.
type WorkOrderView struct {
	ID             int64       `json:"id"`
	Code           string      `json:"code"`
	LocationName   string      `json:"locationName"`
	Address        string      `json:"address,omitempty"`
	Lat            string      `json:"lat,omitempty"`
	Lng            string      `json:"lng,omitempty"`
	Technician     string      `json:"technician"`
	Description    string      `json:"description"`
	Priority       string      `json:"priority"`
	Status         string      `json:"status"`
	Notes          string      `json:"notes,omitempty"`
	CreatedAt      string      `json:"createdAt"`
	CompletedAt    *string     `json:"completedAt"`
	Equipment      []Equipment `json:"equipment"`
	Parts          []Part      `json:"parts"`
	PhotoBeforeIDs []string    `json:"photoBeforeIds"`
	PhotoAfterIDs  []string    `json:"photoAfterIds"`
}

// ViewOf converts a local record.
func ViewOf(w WorkOrder) WorkOrderView {
	return WorkOrderView{
		ID:             w.ID,
		Code:           w.Code,
		LocationName:   w.LocationName,
		Address:        w.Location.Address,
		Lat:            w.Location.Lat,
		Lng:            w.Location.Lng,
		Technician:     w.Technician,
		Description:    w.Description,
		Priority:       w.Priority,
		Status:         w.Status,
		Notes:          w.Notes,
		CreatedAt:      w.CreatedAt,
		CompletedAt:    w.CompletedAt,
		Equipment:      w.Equipment,
		Parts:          w.Parts,
		PhotoBeforeIDs: w.PhotoBeforeIDs,
		PhotoAfterIDs:  w.PhotoAfterIDs,
	}
}

// Counts holds the dashboard counters. JSON names match the API aggregate.
type Counts struct {
	Open       int `json:"abertas"`
	InProgress int `json:"andamento"`
	Completed  int `json:"concluidas"`
}

// Add increments the counter for status.
func (c *Counts) Add(status string) {
	switch BucketOf(status) {
	case BucketInProgress:
		c.InProgress++
	case BucketCompleted:
		c.Completed++
	default:
		c.Open++
	}
}

// Total is the number of counted work orders.
func (c Counts) Total() int {
	return c.Open + c.InProgress + c.Completed
}
