package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/aircontrol/internal/client/fallback"
	"github.com/dmitrijs2005/aircontrol/internal/client/models"
	"github.com/dmitrijs2005/aircontrol/internal/client/services"
	"github.com/dmitrijs2005/aircontrol/internal/logging"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	workOrders services.WorkOrderService
	log        logging.Logger
}

func NewHandler(wo services.WorkOrderService, log logging.Logger) *Handler {
	return &Handler{workOrders: wo, log: log.With("component", "httpapi")}
}

type envelope struct {
	Source fallback.Source `json:"source"`
	Data   any             `json:"data"`
}

// createRequest is the create-form payload. Photos are base64 strings.
type createRequest struct {
	ClientID       int64              `json:"clientId"`
	LocationText   string             `json:"locationText"`
	TechnicianID   int64              `json:"technicianId"`
	TechnicianText string             `json:"technicianText"`
	Description    string             `json:"description"`
	Priority       string             `json:"priority"`
	Status         string             `json:"status"`
	Notes          string             `json:"notes"`
	Location       models.Location    `json:"location"`
	Equipment      []models.Equipment `json:"equipment"`
	Parts          []models.Part      `json:"parts"`
	PhotosBefore   [][]byte           `json:"photosBefore"`
	PhotosAfter    [][]byte           `json:"photosAfter"`
}

func (r createRequest) form() models.WorkOrderForm {
	return models.WorkOrderForm{
		ClientID:       r.ClientID,
		LocationText:   r.LocationText,
		TechnicianID:   r.TechnicianID,
		TechnicianText: r.TechnicianText,
		Description:    r.Description,
		Priority:       r.Priority,
		Status:         r.Status,
		Notes:          r.Notes,
		Location:       r.Location,
		Equipment:      r.Equipment,
		Parts:          r.Parts,
		PhotosBefore:   r.PhotosBefore,
		PhotosAfter:    r.PhotosAfter,
	}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, models.ErrValidation) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// List handles GET /api/os?status=&q=.
func (h *Handler) List(c *gin.Context) {
	views, src, err := h.workOrders.List(c.Request.Context(), c.Query("status"), c.Query("q"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Source: src, Data: views})
}

func (h *Handler) Counts(c *gin.Context) {
	counts, src, err := h.workOrders.Counts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Source: src, Data: counts})
}

func (h *Handler) Detail(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	v, src, err := h.workOrders.Detail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if v == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "work order not found"})
		return
	}
	c.JSON(http.StatusOK, envelope{Source: src, Data: v})
}

func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	res, src, err := h.workOrders.Create(c.Request.Context(), req.form())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, envelope{Source: src, Data: gin.H{"id": res.ID, "code": res.Code}})
}

func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	src, err := h.workOrders.SetStatus(c.Request.Context(), id, strings.TrimSpace(req.Status))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Source: src, Data: nil})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	src, err := h.workOrders.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Source: src, Data: nil})
}

// Photo streams a stored blob.
func (h *Handler) Photo(c *gin.Context) {
	b, err := h.workOrders.Photo(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if b == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(b.Data), b.Data)
}
