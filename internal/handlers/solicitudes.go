package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"inmobiliaria-backend/internal/auth"
	"inmobiliaria-backend/internal/database"
	"inmobiliaria-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// SolicitudHandler serves the service-request endpoints.
type SolicitudHandler struct {
	store *database.Store
}

// NewSolicitudHandler creates a new service-request handler
func NewSolicitudHandler(store *database.Store) *SolicitudHandler {
	return &SolicitudHandler{store: store}
}

type solicitudInput struct {
	PropiedadID          *string  `json:"propiedad_id"`
	Tipo                 string   `json:"tipo"`
	NombrePersona        string   `json:"nombre_persona"`
	Email                *string  `json:"email"`
	Telefono             string   `json:"telefono"`
	Ubicacion            *string  `json:"ubicacion"`
	Descripcion          string   `json:"descripcion"`
	FechaVisitaPreferida *string  `json:"fecha_visita_preferida"`
	HoraPreferida        *string  `json:"hora_preferida"`
	PresupuestoEstimado  *float64 `json:"presupuesto_estimado"`
}

// Create receives a service request from the public site
func (h *SolicitudHandler) Create(c *gin.Context) {
	var input solicitudInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la solicitud inválido"})
		return
	}

	if !models.ValidTipoSolicitud(input.Tipo) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de solicitud inválido"})
		return
	}

	nombre := cleanText(input.NombrePersona)
	telefono := cleanText(input.Telefono)
	descripcion := cleanText(input.Descripcion)
	if len(nombre) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre es obligatorio"})
		return
	}
	if len(telefono) < 7 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El teléfono es obligatorio"})
		return
	}
	if len(descripcion) < 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La descripción debe tener al menos 10 caracteres"})
		return
	}

	if input.PropiedadID != nil && *input.PropiedadID != "" {
		exists, err := h.store.PropertyExists(c.Request.Context(), *input.PropiedadID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Propiedad no encontrada"})
			return
		}
	} else {
		input.PropiedadID = nil
	}

	solicitud := models.Solicitud{
		PropiedadID:          input.PropiedadID,
		Tipo:                 models.TipoSolicitud(input.Tipo),
		NombrePersona:        nombre,
		Email:                cleanTextPtr(input.Email),
		Telefono:             telefono,
		Ubicacion:            cleanTextPtr(input.Ubicacion),
		Descripcion:          descripcion,
		FechaVisitaPreferida: input.FechaVisitaPreferida,
		HoraPreferida:        input.HoraPreferida,
		PresupuestoEstimado:  input.PresupuestoEstimado,
	}
	if err := h.store.InsertSolicitud(c.Request.Context(), &solicitud); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, solicitud)
}

// List returns service requests for the back office
func (h *SolicitudHandler) List(c *gin.Context) {
	filters := database.SolicitudFilters{
		Tipo:        c.Query("tipo"),
		Estado:      c.Query("estado"),
		PropiedadID: c.Query("propiedad_id"),
	}
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filters.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := h.store.ListSolicitudes(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

// UpdateEstado transitions a service request to a new state
func (h *SolicitudHandler) UpdateEstado(c *gin.Context) {
	id := c.Param("id")

	var input struct {
		Estado string `json:"estado"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la solicitud inválido"})
		return
	}
	if !models.ValidEstadoSolicitud(input.Estado) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado de solicitud inválido"})
		return
	}

	err := h.store.UpdateSolicitudEstado(c.Request.Context(), id,
		models.EstadoSolicitud(input.Estado), auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "estado": input.Estado})
}

// Delete removes a service request
func (h *SolicitudHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteSolicitud(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}

// cleanText strips markup from visitor-supplied text and trims it.
func cleanText(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

func cleanTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := cleanText(*s)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
