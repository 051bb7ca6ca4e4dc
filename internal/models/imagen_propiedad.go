package models

import "time"

// ImagenPropiedad represents one image or video attached to a property.
// The gallery order is determined by Orden; at most one row per property
// should carry EsPrincipal (enforced by the save flow, not the schema).
type ImagenPropiedad struct {
	ID           string  `gorm:"type:uuid;primaryKey" json:"id"`
	PropiedadID  string  `gorm:"type:uuid;not null;index" json:"propiedad_id"`
	URL          string  `gorm:"type:text;not null" json:"url"`
	URLThumbnail *string `gorm:"type:text" json:"url_thumbnail,omitempty"`
	Titulo       *string `gorm:"type:varchar(200)" json:"titulo,omitempty"`
	Descripcion  *string `gorm:"type:text" json:"descripcion,omitempty"`
	TipoArchivo  string  `gorm:"type:varchar(10);not null;default:'image'" json:"tipo_archivo"`
	Orden        int     `gorm:"not null;default:0;index" json:"orden"`
	EsPrincipal  bool    `gorm:"not null;default:false" json:"es_principal"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ImagenPropiedad) TableName() string {
	return "imagenes_propiedad"
}
