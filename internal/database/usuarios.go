package database

import (
	"context"

	"inmobiliaria-backend/internal/models"
)

// GetUsuarioByEmail retrieves a staff account by email.
func (s *Store) GetUsuarioByEmail(ctx context.Context, email string) (*models.Usuario, error) {
	var u models.Usuario
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUsuario retrieves a staff account by id.
func (s *Store) GetUsuario(ctx context.Context, id string) (*models.Usuario, error) {
	var u models.Usuario
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
