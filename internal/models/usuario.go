package models

import "time"

// Usuario is a back-office staff account.
type Usuario struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"type:varchar(100);not null" json:"-"`
	Nombre       string `gorm:"type:varchar(200);not null" json:"nombre"`
	Rol          string `gorm:"type:varchar(20);not null;default:'admin'" json:"rol"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Usuario) TableName() string {
	return "usuarios"
}
