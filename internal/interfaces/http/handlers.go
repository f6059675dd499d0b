package http

import (
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cabinet-medical/cabinet-console/internal/application/port"
	"github.com/cabinet-medical/cabinet-console/internal/application/service"
	"github.com/cabinet-medical/cabinet-console/internal/domain/cabinet"
	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
	"github.com/cabinet-medical/cabinet-console/internal/domain/navigation"
	"github.com/cabinet-medical/cabinet-console/internal/observability"
)

// Version is reported by the health check
var Version = "dev"

// Handlers contains all JSON API handlers
type Handlers struct {
	cabinet    service.CabinetService
	navigation service.NavigationService
	metrics    *observability.Metrics
	logger     Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	cabinet service.CabinetService,
	navigation service.NavigationService,
	metrics *observability.Metrics,
	logger Logger,
) *Handlers {
	return &Handlers{
		cabinet:    cabinet,
		navigation: navigation,
		metrics:    metrics,
		logger:     logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   Version,
		},
	})
}

// Navigation handles GET /api/v1/navigation
func (h *Handlers) Navigation(c *gin.Context) {
	ctx := c.Request.Context()
	subject := subjectOf(c)
	currentPath := c.DefaultQuery("path", "/")

	menu := h.navigation.Menu(ctx, subject, currentPath)
	resp := NavigationResponse{
		Subject:   subject,
		Roles:     h.navigation.Roles(ctx, subject),
		Items:     toMenuItems(menu),
		CanExport: h.navigation.CanExport(ctx, subject),
	}
	if active, ok := navigation.ActiveItem(menu); ok {
		resp.Current = &toMenuItems([]navigation.Item{active})[0]
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: resp})
}

// ListSupplies handles GET /api/v1/cabinet/supplies
func (h *Handlers) ListSupplies(c *gin.Context) {
	filter := filterFromQuery(c)

	supplies, err := h.cabinet.ListSupplies(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: SupplyListResponse{
			Supplies: supplies,
			Count:    len(supplies),
			Search:   filter.Search,
			Range: RangeResponse{
				StartDate: filter.Range.StartRaw,
				EndDate:   filter.Range.EndRaw,
				Valid:     filter.Range.Valid(),
			},
		},
	})
}

// CreateSupply handles POST /api/v1/cabinet/supplies
func (h *Handlers) CreateSupply(c *gin.Context) {
	var req entity.Supply
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	supply, err := h.cabinet.AddSupply(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.metrics.RecordCreated("supply")

	c.JSON(http.StatusCreated, Response{Success: true, Data: supply})
}

// ListAbsences handles GET /api/v1/cabinet/absences
func (h *Handlers) ListAbsences(c *gin.Context) {
	absences, err := h.cabinet.ListAbsences(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    AbsenceListResponse{Absences: absences, Count: len(absences)},
	})
}

// CreateAbsence handles POST /api/v1/cabinet/absences
func (h *Handlers) CreateAbsence(c *gin.Context) {
	var req entity.Absence
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	absence, err := h.cabinet.AddAbsence(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.metrics.RecordCreated("absence")

	c.JSON(http.StatusCreated, Response{Success: true, Data: absence})
}

// UpdateAbsenceStatus handles PATCH /api/v1/cabinet/absences/:id/status
func (h *Handlers) UpdateAbsenceStatus(c *gin.Context) {
	id := c.Param("id")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "status is required"})
		return
	}

	updated, err := h.cabinet.UpdateAbsenceStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    StatusUpdateResponse{ID: id, Status: req.Status, Updated: updated},
	})
}

// Export handles POST /api/v1/cabinet/export
func (h *Handlers) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}
	opts, err := req.viewOptions()
	if err != nil {
		h.writeError(c, err)
		return
	}

	file, err := h.cabinet.Export(c.Request.Context(), opts)
	if err != nil {
		h.metrics.ObserveExport(string(opts.Tab), 0, err)
		h.writeError(c, err)
		return
	}
	h.metrics.ObserveExport(string(opts.Tab), file.Rows, nil)

	sendFile(c, file)
}

// writeError maps domain errors onto status codes
func (h *Handlers) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err, "path", c.Request.URL.Path)
		message = "internal error"
	}
	c.JSON(status, Response{Success: false, Error: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, cabinet.ErrUnknownTab),
		errors.Is(err, cabinet.ErrUnknownColumn),
		errors.Is(err, cabinet.ErrNoColumnsSelected):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, port.ErrDuplicateID):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func sendFile(c *gin.Context, file *port.ExportFile) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func toMenuItems(items []navigation.Item) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, it := range items {
		out = append(out, MenuItem{Icon: it.Icon, Label: it.Label, Path: it.Path, Active: it.Active})
	}
	return out
}
