package database

import (
	"context"
	"time"

	"inmobiliaria-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PropertyFilters holds the public listing query parameters.
type PropertyFilters struct {
	Categoria   string
	TipoAccion  string
	Estado      string
	Zona        string
	PrecioMin   *float64
	PrecioMax   *float64
	AlcobasMin  *int
	BanosMin    *int
	MetrosMin   *float64
	MetrosMax   *float64
	Destacada   *bool
	SoloActivas bool

	Limit    int
	Offset   int
	OrderBy  string
	OrderDir string
}

// PagedProperties is a paginated listing result.
type PagedProperties struct {
	Items  []models.Propiedad `json:"items"`
	Total  int64              `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// InsertProperty creates a property row from a write payload and returns the
// new id. Payloads carry only the fields the caller set, so server-managed
// columns keep their defaults.
func (s *Store) InsertProperty(ctx context.Context, fields map[string]any) (string, error) {
	id := uuid.NewString()
	now := time.Now()
	fields["id"] = id
	fields["created_at"] = now
	fields["updated_at"] = now

	err := s.db.WithContext(ctx).Model(&models.Propiedad{}).Create(fields).Error
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateProperty applies a partial update to the row with the given id.
func (s *Store) UpdateProperty(ctx context.Context, id string, fields map[string]any) error {
	fields["updated_at"] = time.Now()
	return s.db.WithContext(ctx).
		Model(&models.Propiedad{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// GetProperty retrieves a property by id.
func (s *Store) GetProperty(ctx context.Context, id string) (*models.Propiedad, error) {
	var p models.Propiedad
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// PropertyExists reports whether a property row exists.
func (s *Store) PropertyExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Propiedad{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// DeleteProperty removes the property row.
func (s *Store) DeleteProperty(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Propiedad{}).Error
}

// ListProperties retrieves properties matching the filters with pagination.
func (s *Store) ListProperties(ctx context.Context, filters PropertyFilters) (*PagedProperties, error) {
	query := s.db.WithContext(ctx).Model(&models.Propiedad{})
	query = applyPropertyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var items []models.Propiedad
	err := query.
		Order(propertyOrderClause(filters.OrderBy, filters.OrderDir)).
		Limit(limit).
		Offset(filters.Offset).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &PagedProperties{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: filters.Offset,
	}, nil
}

// AllProperties retrieves every property (used by the search reindex).
func (s *Store) AllProperties(ctx context.Context) ([]models.Propiedad, error) {
	var items []models.Propiedad
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	return items, err
}

func applyPropertyFilters(query *gorm.DB, f PropertyFilters) *gorm.DB {
	if f.SoloActivas {
		query = query.Where("activo = ?", true)
	}
	if f.Categoria != "" {
		query = query.Where("categoria = ?", f.Categoria)
	}
	if f.TipoAccion != "" {
		query = query.Where("tipo_accion = ?", f.TipoAccion)
	}
	if f.Estado != "" {
		query = query.Where("estado = ?", f.Estado)
	}
	if f.Zona != "" {
		// LOWER on both sides keeps this portable across postgres and mysql.
		query = query.Where("LOWER(direccion) LIKE LOWER(?)", "%"+f.Zona+"%")
	}
	if f.PrecioMin != nil {
		query = query.Where("precio >= ?", *f.PrecioMin)
	}
	if f.PrecioMax != nil {
		query = query.Where("precio <= ?", *f.PrecioMax)
	}
	if f.AlcobasMin != nil {
		query = query.Where("alcobas >= ?", *f.AlcobasMin)
	}
	if f.BanosMin != nil {
		query = query.Where("banos >= ?", *f.BanosMin)
	}
	if f.MetrosMin != nil {
		query = query.Where("metros_cuadrados >= ?", *f.MetrosMin)
	}
	if f.MetrosMax != nil {
		query = query.Where("metros_cuadrados <= ?", *f.MetrosMax)
	}
	if f.Destacada != nil {
		query = query.Where("destacada = ?", *f.Destacada)
	}
	return query
}

func propertyOrderClause(orderBy, orderDir string) string {
	dir := "DESC"
	if orderDir == "asc" {
		dir = "ASC"
	}
	switch orderBy {
	case "precio":
		return "precio " + dir
	case "metros_cuadrados":
		return "metros_cuadrados " + dir
	case "alcobas":
		return "alcobas " + dir
	default:
		return "created_at " + dir
	}
}

// CountPropertiesByEstado returns the number of properties per state.
func (s *Store) CountPropertiesByEstado(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Estado string
		Count  int64
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Model(&models.Propiedad{}).
		Select("estado, count(*) as count").
		Group("estado").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Estado] = r.Count
	}
	return counts, nil
}

// CountDestacadas returns the number of featured properties.
func (s *Store) CountDestacadas(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Propiedad{}).
		Where("destacada = ?", true).
		Count(&count).Error
	return count, err
}
