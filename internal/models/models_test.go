package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEstadoPropiedad(t *testing.T) {
	for _, estado := range []string{"Disponible", "Reservada", "Vendida", "Arrendada"} {
		assert.True(t, ValidEstadoPropiedad(estado), estado)
	}
	assert.False(t, ValidEstadoPropiedad("disponible"))
	assert.False(t, ValidEstadoPropiedad(""))
}

func TestValidTipoAccion(t *testing.T) {
	assert.True(t, ValidTipoAccion("Venta"))
	assert.True(t, ValidTipoAccion("Arriendo"))
	assert.False(t, ValidTipoAccion("venta"))
	assert.False(t, ValidTipoAccion("Permuta"))
}

func TestValidTipoSolicitud(t *testing.T) {
	for _, tipo := range []string{"Informacion", "Visita", "Remodelacion", "Venta"} {
		assert.True(t, ValidTipoSolicitud(tipo), tipo)
	}
	assert.False(t, ValidTipoSolicitud("Otra"))
}

func TestValidEstadoSolicitud(t *testing.T) {
	for _, estado := range []string{"Pendiente", "Contactado", "En_Proceso", "Completado", "Cancelado"} {
		assert.True(t, ValidEstadoSolicitud(estado), estado)
	}
	assert.False(t, ValidEstadoSolicitud("Archivado"))
}
