package property_test

import (
	"testing"

	"inmobiliaria-backend/internal/property"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(n int) *int           { return &n }
func boolPtr(b bool) *bool        { return &b }

func validForm() property.Form {
	return property.Form{
		Nombre:          strPtr("Casa campestre"),
		Direccion:       strPtr("Calle 10 #5-20"),
		Descripcion:     strPtr("Amplia casa con jardín y garaje doble."),
		Precio:          floatPtr(350000000),
		MetrosCuadrados: floatPtr(220),
	}
}

func TestValidateRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*property.Form)
		field  string
	}{
		{"nombre too short", func(f *property.Form) { f.Nombre = strPtr("ab") }, "nombre"},
		{"nombre only spaces", func(f *property.Form) { f.Nombre = strPtr("   a   ") }, "nombre"},
		{"direccion too short", func(f *property.Form) { f.Direccion = strPtr("cra") }, "direccion"},
		{"descripcion 9 chars", func(f *property.Form) { f.Descripcion = strPtr("123456789") }, "descripcion"},
		{"descripcion 9 accented chars", func(f *property.Form) { f.Descripcion = strPtr("áéíóúáéíó") }, "descripcion"},
		{"descripcion missing", func(f *property.Form) { f.Descripcion = nil }, "descripcion"},
		{"precio missing", func(f *property.Form) { f.Precio = nil }, "precio"},
		{"precio zero", func(f *property.Form) { f.Precio = floatPtr(0) }, "precio"},
		{"metros missing", func(f *property.Form) { f.MetrosCuadrados = nil }, "metros_cuadrados"},
		{"metros construidos negative", func(f *property.Form) { f.MetrosConstruidos = floatPtr(-1) }, "metros_construidos"},
		{"alcobas over cap", func(f *property.Form) { f.Alcobas = intPtr(51) }, "alcobas"},
		{"banos negative", func(f *property.Form) { f.Banos = intPtr(-1) }, "banos"},
		{"parqueaderos over cap", func(f *property.Form) { f.Parqueaderos = intPtr(21) }, "parqueaderos"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.mutate(&form)
			err := form.Validate()
			var vErr *property.ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestValidateAccepts(t *testing.T) {
	form := validForm()
	assert.NoError(t, form.Validate())

	// Ten characters is the minimum accepted description.
	form.Descripcion = strPtr("1234567890")
	assert.NoError(t, form.Validate())

	// Lengths count characters, not bytes: ten accented characters pass
	// even though they encode to twenty bytes.
	form.Descripcion = strPtr("áéíóúáéíóú")
	form.Nombre = strPtr("ñña")
	assert.NoError(t, form.Validate())
	form = validForm()

	// Bounded optional fields may be absent entirely.
	form.Alcobas = nil
	form.Banos = nil
	form.Parqueaderos = nil
	form.MetrosConstruidos = nil
	assert.NoError(t, form.Validate())

	// Boundary values inside the caps.
	form.Alcobas = intPtr(50)
	form.Banos = intPtr(0)
	form.Parqueaderos = intPtr(20)
	assert.NoError(t, form.Validate())
}

func TestPayloadCopiesOnlyProvidedFields(t *testing.T) {
	form := property.Form{
		Nombre:    strPtr("Apartamento centro"),
		Precio:    floatPtr(120000000),
		Destacada: boolPtr(true),
	}
	fields := form.Payload()

	assert.Equal(t, "Apartamento centro", fields["nombre"])
	assert.Equal(t, 120000000.0, fields["precio"])
	assert.Equal(t, true, fields["destacada"])
	assert.NotContains(t, fields, "descripcion")
	assert.NotContains(t, fields, "alcobas")
	assert.NotContains(t, fields, "activo")
	assert.NotContains(t, fields, "owner_id")
	assert.NotContains(t, fields, "created_at")
}
