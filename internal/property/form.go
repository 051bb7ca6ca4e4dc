package property

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// descripcionPlaceholder is stored when the sanitized description is empty.
const descripcionPlaceholder = "Sin descripción"

// Form carries the editable property fields of a create/edit submission.
// Nil means the field was not provided and must not be written.
type Form struct {
	Nombre               *string
	Categoria            *string
	Descripcion          *string
	Direccion            *string
	TipoAccion           *string
	Precio               *float64
	PrecioAdministracion *float64
	Alcobas              *int
	Banos                *int
	Parqueaderos         *int
	MetrosCuadrados      *float64
	MetrosConstruidos    *float64
	Estado               *string
	Destacada            *bool
	Activo               *bool
}

// ValidationError is a user-facing pre-network validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks the form rules in order; the first failing rule is
// returned and nothing is persisted. Numeric fields with a lower bound of
// zero may be absent (they are defaulted at insert time).
func (f *Form) Validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(deref(f.Nombre))) < 3 {
		return invalid("nombre", "el nombre debe tener al menos 3 caracteres")
	}
	if utf8.RuneCountInString(strings.TrimSpace(deref(f.Direccion))) < 5 {
		return invalid("direccion", "la dirección debe tener al menos 5 caracteres")
	}
	desc := strings.TrimSpace(deref(f.Descripcion))
	if n := utf8.RuneCountInString(desc); n < 10 || n > 5000 {
		return invalid("descripcion", "la descripción debe tener entre 10 y 5000 caracteres")
	}
	if f.Precio == nil || *f.Precio <= 0 {
		return invalid("precio", "el precio debe ser mayor que 0")
	}
	if f.MetrosCuadrados == nil || *f.MetrosCuadrados <= 0 {
		return invalid("metros_cuadrados", "los metros cuadrados deben ser mayores que 0")
	}
	if f.MetrosConstruidos != nil && *f.MetrosConstruidos < 0 {
		return invalid("metros_construidos", "los metros construidos no pueden ser negativos")
	}
	if f.Alcobas != nil && (*f.Alcobas < 0 || *f.Alcobas > 50) {
		return invalid("alcobas", "las alcobas deben estar entre 0 y 50")
	}
	if f.Banos != nil && (*f.Banos < 0 || *f.Banos > 50) {
		return invalid("banos", "los baños deben estar entre 0 y 50")
	}
	if f.Parqueaderos != nil && (*f.Parqueaderos < 0 || *f.Parqueaderos > 20) {
		return invalid("parqueaderos", "los parqueaderos deben estar entre 0 y 20")
	}
	return nil
}

// Payload builds the write payload: only provided fields are copied, so
// server-managed columns are never overwritten. This is the single place
// that defines which fields are copyable.
func (f *Form) Payload() map[string]any {
	fields := make(map[string]any)
	putString(fields, "nombre", f.Nombre)
	putString(fields, "categoria", f.Categoria)
	putString(fields, "descripcion", f.Descripcion)
	putString(fields, "direccion", f.Direccion)
	putString(fields, "tipo_accion", f.TipoAccion)
	putString(fields, "estado", f.Estado)
	if f.Precio != nil {
		fields["precio"] = *f.Precio
	}
	if f.PrecioAdministracion != nil {
		fields["precio_administracion"] = *f.PrecioAdministracion
	}
	if f.Alcobas != nil {
		fields["alcobas"] = *f.Alcobas
	}
	if f.Banos != nil {
		fields["banos"] = *f.Banos
	}
	if f.Parqueaderos != nil {
		fields["parqueaderos"] = *f.Parqueaderos
	}
	if f.MetrosCuadrados != nil {
		fields["metros_cuadrados"] = *f.MetrosCuadrados
	}
	if f.MetrosConstruidos != nil {
		fields["metros_construidos"] = *f.MetrosConstruidos
	}
	if f.Destacada != nil {
		fields["destacada"] = *f.Destacada
	}
	if f.Activo != nil {
		fields["activo"] = *f.Activo
	}
	return fields
}

// numericDefaults fills NOT NULL numeric columns absent from a create
// payload, avoiding storage-side constraint errors.
func numericDefaults(fields map[string]any) {
	intCols := []string{"alcobas", "banos", "parqueaderos"}
	for _, col := range intCols {
		if _, ok := fields[col]; !ok {
			fields[col] = 0
		}
	}
	floatCols := []string{"precio", "precio_administracion", "metros_cuadrados", "metros_construidos"}
	for _, col := range floatCols {
		if _, ok := fields[col]; !ok {
			fields[col] = float64(0)
		}
	}
}

var strictPolicy = bluemonday.StrictPolicy()

// sanitizeDescripcion strips markup and control characters, trims, caps the
// length at 1000 characters, and falls back to a placeholder when empty.
func sanitizeDescripcion(s string) string {
	s = strictPolicy.Sanitize(s)
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return ' '
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	// The cap counts characters, not bytes; slicing bytes would split a rune.
	if utf8.RuneCountInString(s) > 1000 {
		s = string([]rune(s)[:1000])
	}
	if s == "" {
		s = descripcionPlaceholder
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func putString(fields map[string]any, col string, v *string) {
	if v != nil {
		fields[col] = *v
	}
}
