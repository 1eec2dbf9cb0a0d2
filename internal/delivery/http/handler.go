package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fridgebot/backend/internal/domain"
	"github.com/fridgebot/backend/internal/pkg/logger"
	"github.com/fridgebot/backend/internal/usecase"
)

// CatalogReloader rebuilds the catalog snapshot
type CatalogReloader interface {
	Reload(ctx context.Context) (*usecase.Snapshot, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service   *usecase.InventoryService
	equipment *usecase.EquipmentService
	reloader  CatalogReloader
	log       *logger.Logger
}

// NewHandler creates a new HTTP handler. A nil service makes its endpoints answer 503.
func NewHandler(
	service *usecase.InventoryService,
	equipment *usecase.EquipmentService,
	reloader CatalogReloader,
	log *logger.Logger,
) *Handler {
	return &Handler{
		service:   service,
		equipment: equipment,
		reloader:  reloader,
		log:       log.With("component", "Handler"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "fridgebot-backend",
		"version": "1.0.0",
	})
}

// ParseStatement parses text without touching any inventory
func (h *Handler) ParseStatement(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req statementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	result, err := h.service.ParseText(req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetInventory lists the user's products
func (h *Handler) GetInventory(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	lines, err := h.service.Inventory(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inventoryResponse{UserID: userID, Items: lines})
}

// AddToInventory parses text and merges it into the user's inventory
func (h *Handler) AddToInventory(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req statementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	parsed, report, err := h.service.AddText(c.Request.Context(), userID, req.FirstName, req.Text)
	if errors.Is(err, domain.ErrEmptyStatement) {
		c.JSON(http.StatusOK, addResponse{Parsed: parsed, Noop: true})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, addResponse{Parsed: parsed, Report: report})
}

// RemoveFromInventory parses text and subtracts it from the user's inventory
func (h *Handler) RemoveFromInventory(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req statementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	parsed, report, err := h.service.RemoveText(c.Request.Context(), userID, req.Text)
	if errors.Is(err, domain.ErrEmptyStatement) {
		c.JSON(http.StatusOK, removeResponse{Parsed: parsed, Noop: true})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, removeResponse{Parsed: parsed, Report: report})
}

// ConsumeIngredients deducts the ingredients of a cooked dish
func (h *Handler) ConsumeIngredients(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req consumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items must be a non-empty list of {product, quantity, unit}"})
		return
	}
	if !req.validQuantities() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be greater than zero"})
		return
	}

	report, err := h.service.Consume(c.Request.Context(), userID, req.parsedItems())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetEquipment lists the user's kitchen tools
func (h *Handler) GetEquipment(c *gin.Context) {
	if !h.equipmentReady(c) {
		return
	}
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	names, err := h.equipment.List(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, equipmentResponse{UserID: userID, Items: names})
}

// AddEquipment adds the tools named in a comma separated list
func (h *Handler) AddEquipment(c *gin.Context) {
	if !h.equipmentReady(c) {
		return
	}
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req statementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	report, err := h.equipment.AddText(c.Request.Context(), userID, req.FirstName, req.Text)
	h.writeEquipmentReport(c, report, err)
}

// RemoveEquipment removes the tools named in a comma separated list
func (h *Handler) RemoveEquipment(c *gin.Context) {
	if !h.equipmentReady(c) {
		return
	}
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req statementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	report, err := h.equipment.RemoveText(c.Request.Context(), userID, req.Text)
	h.writeEquipmentReport(c, report, err)
}

func (h *Handler) writeEquipmentReport(c *gin.Context, report *domain.EquipmentReport, err error) {
	if errors.Is(err, domain.ErrEmptyStatement) {
		c.JSON(http.StatusOK, equipmentReportResponse{Noop: true})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, equipmentReportResponse{Report: report})
}

// ReloadCatalog swaps in a freshly loaded catalog snapshot
func (h *Handler) ReloadCatalog(c *gin.Context) {
	if h.reloader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog reload not configured"})
		return
	}

	snap, err := h.reloader.Reload(c.Request.Context())
	if err != nil {
		h.log.Error("catalog reload failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog reload failed, previous catalog kept"})
		return
	}
	c.JSON(http.StatusOK, reloadResponse{
		Products:  snap.Catalog.Len(),
		Equipment: snap.Equipment.Len(),
		LoadedAt:  snap.LoadedAt,
	})
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Inventory service not configured"})
		return false
	}
	return true
}

func (h *Handler) equipmentReady(c *gin.Context) bool {
	if h.equipment == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Equipment service not configured"})
		return false
	}
	return true
}

// writeError maps domain errors to status codes. Storage details never reach the client.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
	case errors.Is(err, domain.ErrLockTimeout):
		c.JSON(http.StatusConflict, gin.H{"error": "Inventory is being updated, try again"})
	case errors.Is(err, domain.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Inventory storage temporarily unavailable"})
	case errors.Is(err, domain.ErrCatalogNotLoaded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog not loaded yet"})
	default:
		h.log.Error("unexpected error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func userIDParam(c *gin.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.Param("userID"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userID must be a positive integer"})
		return 0, false
	}
	return userID, true
}
