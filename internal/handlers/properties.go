package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"inmobiliaria-backend/internal/database"
	"inmobiliaria-backend/internal/search"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PropertyHandler serves the public listing endpoints.
type PropertyHandler struct {
	store  *database.Store
	search *search.SearchClient
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(store *database.Store, searchClient *search.SearchClient) *PropertyHandler {
	return &PropertyHandler{store: store, search: searchClient}
}

// List returns active listings matching the query filters
func (h *PropertyHandler) List(c *gin.Context) {
	filters := database.PropertyFilters{
		Categoria:   c.Query("categoria"),
		TipoAccion:  c.Query("tipo_accion"),
		Estado:      c.Query("estado"),
		Zona:        c.Query("zona"),
		OrderBy:     c.Query("order_by"),
		OrderDir:    c.DefaultQuery("order_dir", "desc"),
		SoloActivas: true,
	}
	filters.PrecioMin = queryFloat(c, "precio_min")
	filters.PrecioMax = queryFloat(c, "precio_max")
	filters.AlcobasMin = queryInt(c, "alcobas_min")
	filters.BanosMin = queryInt(c, "banos_min")
	filters.MetrosMin = queryFloat(c, "metros_min")
	filters.MetrosMax = queryFloat(c, "metros_max")
	if v := c.Query("destacada"); v != "" {
		destacada := v == "true" || v == "1"
		filters.Destacada = &destacada
	}
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filters.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := h.store.ListProperties(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get returns a single listing with its media gallery
func (h *PropertyHandler) Get(c *gin.Context) {
	id := c.Param("id")

	propiedad, err := h.store.GetProperty(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Propiedad no encontrada"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	imagenes, err := h.store.ListMedia(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"propiedad": propiedad,
		"imagenes":  imagenes,
	})
}

// Search performs a full-text search over the listings index
func (h *PropertyHandler) Search(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Búsqueda no disponible"})
		return
	}

	params := search.FilterParams{
		Query:      c.Query("q"),
		Categoria:  c.Query("categoria"),
		TipoAccion: c.Query("tipo_accion"),
		Estado:     c.Query("estado"),
		SortBy:     c.Query("orden"),
	}
	params.PrecioMin = queryFloat(c, "precio_min")
	params.PrecioMax = queryFloat(c, "precio_max")
	params.AlcobasMin = queryInt(c, "alcobas_min")
	params.Limit, _ = strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	params.Offset, _ = strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)

	items, total, err := h.search.Search(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
	})
}

func queryFloat(c *gin.Context, key string) *float64 {
	if v := c.Query(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}
	return nil
}

func queryInt(c *gin.Context, key string) *int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}
