package database

import (
	"context"
	"time"

	"inmobiliaria-backend/internal/models"

	"github.com/google/uuid"
)

// ListMedia retrieves a property's media ordered by gallery position.
func (s *Store) ListMedia(ctx context.Context, propiedadID string) ([]models.ImagenPropiedad, error) {
	var items []models.ImagenPropiedad
	err := s.db.WithContext(ctx).
		Where("propiedad_id = ?", propiedadID).
		Order("orden ASC").
		Find(&items).Error
	return items, err
}

// InsertMedia creates a media row. The id is assigned here when absent.
func (s *Store) InsertMedia(ctx context.Context, m *models.ImagenPropiedad) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return s.db.WithContext(ctx).Create(m).Error
}

// DeleteMedia removes the rows with the given ids.
func (s *Store) DeleteMedia(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.ImagenPropiedad{}).Error
}

// DeleteMediaByProperty removes every media row of a property.
func (s *Store) DeleteMediaByProperty(ctx context.Context, propiedadID string) error {
	return s.db.WithContext(ctx).
		Where("propiedad_id = ?", propiedadID).
		Delete(&models.ImagenPropiedad{}).Error
}

// ClearPrincipal resets the principal flag on all of a property's media.
// Running it before reconciliation makes the later set idempotent.
func (s *Store) ClearPrincipal(ctx context.Context, propiedadID string) error {
	return s.db.WithContext(ctx).
		Model(&models.ImagenPropiedad{}).
		Where("propiedad_id = ?", propiedadID).
		Update("es_principal", false).Error
}

// MarkPrincipal sets the principal flag on a single media row.
func (s *Store) MarkPrincipal(ctx context.Context, mediaID string) error {
	return s.db.WithContext(ctx).
		Model(&models.ImagenPropiedad{}).
		Where("id = ?", mediaID).
		Update("es_principal", true).Error
}

// CountMedia returns the total number of media rows.
func (s *Store) CountMedia(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ImagenPropiedad{}).Count(&count).Error
	return count, err
}
