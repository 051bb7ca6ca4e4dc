package database

import (
	"context"
	"time"

	"inmobiliaria-backend/internal/models"

	"github.com/google/uuid"
)

// SolicitudFilters holds the admin request-list query parameters.
type SolicitudFilters struct {
	Tipo        string
	Estado      string
	PropiedadID string
	Limit       int
	Offset      int
}

// PagedSolicitudes is a paginated request-list result.
type PagedSolicitudes struct {
	Items  []models.Solicitud `json:"items"`
	Total  int64              `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// InsertSolicitud creates a service request row.
func (s *Store) InsertSolicitud(ctx context.Context, sol *models.Solicitud) error {
	if sol.ID == "" {
		sol.ID = uuid.NewString()
	}
	if sol.Estado == "" {
		sol.Estado = models.SolicitudPendiente
	}
	return s.db.WithContext(ctx).Create(sol).Error
}

// ListSolicitudes retrieves service requests matching the filters.
func (s *Store) ListSolicitudes(ctx context.Context, filters SolicitudFilters) (*PagedSolicitudes, error) {
	query := s.db.WithContext(ctx).Model(&models.Solicitud{})
	if filters.Tipo != "" {
		query = query.Where("tipo = ?", filters.Tipo)
	}
	if filters.Estado != "" {
		query = query.Where("estado = ?", filters.Estado)
	}
	if filters.PropiedadID != "" {
		query = query.Where("propiedad_id = ?", filters.PropiedadID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var items []models.Solicitud
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &PagedSolicitudes{Items: items, Total: total, Limit: limit, Offset: filters.Offset}, nil
}

// UpdateSolicitudEstado sets a request's state and stamps the matching
// transition timestamp.
func (s *Store) UpdateSolicitudEstado(ctx context.Context, id string, estado models.EstadoSolicitud, atendidaPor string) error {
	now := time.Now()
	fields := map[string]any{
		"estado":     estado,
		"updated_at": now,
	}
	if atendidaPor != "" {
		fields["atendida_por"] = atendidaPor
	}
	switch estado {
	case models.SolicitudContactado:
		fields["fecha_contacto"] = &now
	case models.SolicitudCompletado:
		fields["fecha_completado"] = &now
	}
	return s.db.WithContext(ctx).
		Model(&models.Solicitud{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// DeleteSolicitud removes a service request.
func (s *Store) DeleteSolicitud(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Solicitud{}).Error
}

// CountSolicitudesPendientes returns the number of unattended requests.
func (s *Store) CountSolicitudesPendientes(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Solicitud{}).
		Where("estado = ?", models.SolicitudPendiente).
		Count(&count).Error
	return count, err
}
