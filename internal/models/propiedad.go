package models

import "time"

type Propiedad struct {
	// Identidad
	ID     string  `gorm:"type:uuid;primaryKey" json:"id"`
	Codigo *string `gorm:"type:varchar(50)" json:"codigo,omitempty"`

	// Clasificación
	Categoria  string     `gorm:"type:varchar(50);not null;index" json:"categoria"`
	TipoAccion TipoAccion `gorm:"type:varchar(20);not null;index" json:"tipo_accion"`

	// Descripción
	Nombre      string `gorm:"type:varchar(200);not null" json:"nombre"`
	Descripcion string `gorm:"type:text;not null" json:"descripcion"`
	Direccion   string `gorm:"type:text;not null" json:"direccion"`

	// Datos numéricos
	Precio               float64 `gorm:"not null;default:0;index" json:"precio"`
	PrecioAdministracion float64 `gorm:"not null;default:0" json:"precio_administracion"`
	Alcobas              int     `gorm:"not null;default:0;index" json:"alcobas"`
	Banos                int     `gorm:"not null;default:0" json:"banos"`
	Parqueaderos         int     `gorm:"not null;default:0" json:"parqueaderos"`
	MetrosCuadrados      float64 `gorm:"not null;default:0" json:"metros_cuadrados"`
	MetrosConstruidos    float64 `gorm:"not null;default:0" json:"metros_construidos"`

	// Estado y banderas
	Estado    EstadoPropiedad `gorm:"type:varchar(20);not null;default:'Disponible';index" json:"estado"`
	Destacada bool            `gorm:"not null;default:false;index" json:"destacada"`
	Activo    bool            `gorm:"not null;default:true;index" json:"activo"`

	// Propietario del registro (para políticas de acceso por fila)
	OwnerID string `gorm:"type:uuid" json:"owner_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_propiedades_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// TipoAccion indica si la propiedad se ofrece en venta o arriendo
type TipoAccion string

const (
	TipoAccionVenta    TipoAccion = "Venta"
	TipoAccionArriendo TipoAccion = "Arriendo"
)

// EstadoPropiedad es el estado comercial de la propiedad
type EstadoPropiedad string

const (
	EstadoDisponible EstadoPropiedad = "Disponible"
	EstadoReservada  EstadoPropiedad = "Reservada"
	EstadoVendida    EstadoPropiedad = "Vendida"
	EstadoArrendada  EstadoPropiedad = "Arrendada"
)

func (Propiedad) TableName() string {
	return "propiedades"
}

// ValidEstadoPropiedad reports whether s is one of the known property states.
func ValidEstadoPropiedad(s string) bool {
	switch EstadoPropiedad(s) {
	case EstadoDisponible, EstadoReservada, EstadoVendida, EstadoArrendada:
		return true
	}
	return false
}

// ValidTipoAccion reports whether s is a known action type.
func ValidTipoAccion(s string) bool {
	switch TipoAccion(s) {
	case TipoAccionVenta, TipoAccionArriendo:
		return true
	}
	return false
}
