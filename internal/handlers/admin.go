package handlers

import (
	"log"
	"net/http"

	"inmobiliaria-backend/internal/cleanup"
	"inmobiliaria-backend/internal/database"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles back-office statistics and maintenance operations.
type AdminHandler struct {
	store          *database.Store
	cleanupService *cleanup.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store *database.Store, cleanupService *cleanup.Service) *AdminHandler {
	return &AdminHandler{store: store, cleanupService: cleanupService}
}

// GetStats returns back-office dashboard statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()
	stats := make(map[string]interface{})

	porEstado, err := h.store.CountPropertiesByEstado(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	var total int64
	for _, count := range porEstado {
		total += count
	}
	destacadas, err := h.store.CountDestacadas(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	stats["propiedades"] = map[string]interface{}{
		"total":      total,
		"por_estado": porEstado,
		"destacadas": destacadas,
	}

	mediaCount, err := h.store.CountMedia(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	stats["multimedia"] = map[string]interface{}{
		"total": mediaCount,
	}

	pendientes, err := h.store.CountSolicitudesPendientes(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	stats["solicitudes"] = map[string]interface{}{
		"pendientes": pendientes,
	}

	c.JSON(http.StatusOK, stats)
}

// RunCleanup executes an orphaned-object sweep on demand
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	var req struct {
		MaxDeletionCount int  `json:"max_deletion_count"`
		DryRun           bool `json:"dry_run"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config := cleanup.DefaultCleanupConfig()
	if req.MaxDeletionCount > 0 {
		config.MaxDeletionCount = req.MaxDeletionCount
	}
	config.DryRun = req.DryRun

	log.Printf("[admin] running cleanup max=%d dry_run=%v", config.MaxDeletionCount, config.DryRun)

	result, err := h.cleanupService.Sweep(c.Request.Context(), config)
	if err != nil {
		log.Printf("[admin] cleanup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
