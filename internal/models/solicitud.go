package models

import "time"

// Solicitud is a service request submitted from the public site:
// an information/visit request about a listing, or a remodeling or
// sale/lease inquiry.
type Solicitud struct {
	ID          string        `gorm:"type:uuid;primaryKey" json:"id"`
	PropiedadID *string       `gorm:"type:uuid;index" json:"propiedad_id,omitempty"`
	Tipo        TipoSolicitud `gorm:"type:varchar(20);not null;index" json:"tipo"`

	NombrePersona string  `gorm:"type:varchar(200);not null" json:"nombre_persona"`
	Email         *string `gorm:"type:varchar(200)" json:"email,omitempty"`
	Telefono      string  `gorm:"type:varchar(50);not null" json:"telefono"`
	Ubicacion     *string `gorm:"type:text" json:"ubicacion,omitempty"`
	Descripcion   string  `gorm:"type:text;not null" json:"descripcion"`

	FechaVisitaPreferida *string  `gorm:"type:varchar(20)" json:"fecha_visita_preferida,omitempty"`
	HoraPreferida        *string  `gorm:"type:varchar(20)" json:"hora_preferida,omitempty"`
	PresupuestoEstimado  *float64 `json:"presupuesto_estimado,omitempty"`

	Estado        EstadoSolicitud `gorm:"type:varchar(20);not null;default:'Pendiente';index" json:"estado"`
	NotasInternas *string         `gorm:"type:text" json:"notas_internas,omitempty"`
	AtendidaPor   *string         `gorm:"type:uuid" json:"atendida_por,omitempty"`

	FechaContacto   *time.Time `json:"fecha_contacto,omitempty"`
	FechaCompletado *time.Time `json:"fecha_completado,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_solicitudes_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type TipoSolicitud string

const (
	SolicitudInformacion  TipoSolicitud = "Informacion"
	SolicitudVisita       TipoSolicitud = "Visita"
	SolicitudRemodelacion TipoSolicitud = "Remodelacion"
	SolicitudVenta        TipoSolicitud = "Venta"
)

type EstadoSolicitud string

const (
	SolicitudPendiente  EstadoSolicitud = "Pendiente"
	SolicitudContactado EstadoSolicitud = "Contactado"
	SolicitudEnProceso  EstadoSolicitud = "En_Proceso"
	SolicitudCompletado EstadoSolicitud = "Completado"
	SolicitudCancelado  EstadoSolicitud = "Cancelado"
)

func (Solicitud) TableName() string {
	return "solicitudes"
}

// ValidTipoSolicitud reports whether s is a known request type.
func ValidTipoSolicitud(s string) bool {
	switch TipoSolicitud(s) {
	case SolicitudInformacion, SolicitudVisita, SolicitudRemodelacion, SolicitudVenta:
		return true
	}
	return false
}

// ValidEstadoSolicitud reports whether s is a known request state.
func ValidEstadoSolicitud(s string) bool {
	switch EstadoSolicitud(s) {
	case SolicitudPendiente, SolicitudContactado, SolicitudEnProceso,
		SolicitudCompletado, SolicitudCancelado:
		return true
	}
	return false
}
