package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"inmobiliaria-backend/internal/auth"
	"inmobiliaria-backend/internal/database"
	"inmobiliaria-backend/internal/media"
	"inmobiliaria-backend/internal/models"
	"inmobiliaria-backend/internal/property"
	"inmobiliaria-backend/internal/search"
	"inmobiliaria-backend/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// managerStore is the database capability the back-office handlers consume.
// *database.Store satisfies it.
type managerStore interface {
	PropertyExists(ctx context.Context, id string) (bool, error)
	GetProperty(ctx context.Context, id string) (*models.Propiedad, error)
	AllProperties(ctx context.Context) ([]models.Propiedad, error)
	DeleteProperty(ctx context.Context, id string) error
	ListMedia(ctx context.Context, propiedadID string) ([]models.ImagenPropiedad, error)
	DeleteMediaByProperty(ctx context.Context, propiedadID string) error
	ClearPrincipal(ctx context.Context, propiedadID string) error
	MarkPrincipal(ctx context.Context, mediaID string) error
}

// ManagerHandler serves the back-office property endpoints: create/edit with
// staged media, the single-file upload primitive, deletion and reindexing.
type ManagerHandler struct {
	store        managerStore
	objects      storage.ObjectStore
	orchestrator *property.Orchestrator
	uploader     *media.Uploader
	search       *search.SearchClient
}

// NewManagerHandler creates a new back-office handler
func NewManagerHandler(store *database.Store, objects storage.ObjectStore, searchClient *search.SearchClient) *ManagerHandler {
	return &ManagerHandler{
		store:        store,
		objects:      objects,
		orchestrator: property.NewOrchestrator(store, store, objects),
		uploader:     media.NewUploader(objects, store),
		search:       searchClient,
	}
}

// SaveProperty handles both create (no id param) and edit (id param set).
// The multipart body carries the form fields, new files under "archivos",
// existing media ids to remove under "eliminar" and the principal
// designation under "principal".
func (h *ManagerHandler) SaveProperty(c *gin.Context) {
	propiedadID := c.Param("id")
	ctx := c.Request.Context()

	if propiedadID != "" {
		exists, err := h.store.PropertyExists(ctx, propiedadID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Propiedad no encontrada"})
			return
		}
	}

	form, err := parsePropertyForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := media.NewSession()
	if propiedadID != "" {
		rows, err := h.store.ListMedia(ctx, propiedadID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		sess.LoadExisting(existingItems(rows))
	}

	for _, id := range c.PostFormArray("eliminar") {
		if media.IsPendingID(id) {
			sess.RemovePending(id)
		} else {
			sess.DeleteExisting(id)
		}
	}

	files, err := readUploadedFiles(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var advertencias []string
	for _, stageErr := range sess.AddPending(files) {
		advertencias = append(advertencias, stageErr.Error())
	}

	if principal := c.PostForm("principal"); principal != "" {
		if err := sess.SetPrincipal(principal, sess.IsVideo(principal)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := h.orchestrator.Save(ctx, auth.UserID(c), propiedadID, form, sess)
	if err != nil {
		var vErr *property.ValidationError
		switch {
		case errors.Is(err, property.ErrNoAutorizado):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message, "campo": vErr.Field})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.reindexProperty(result.PropiedadID)

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	response := gin.H{"resultado": result}
	if len(advertencias) > 0 {
		response["advertencias"] = advertencias
	}
	c.JSON(status, response)
}

// UploadMultimedia uploads a single file for an existing property
func (h *ManagerHandler) UploadMultimedia(c *gin.Context) {
	propiedadID := c.Param("id")
	ctx := c.Request.Context()

	exists, err := h.store.PropertyExists(ctx, propiedadID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Propiedad no encontrada"})
		return
	}

	fileHeader, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Falta el archivo"})
		return
	}
	file, err := readFile(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind := media.DetectKind(file.MIME)
	if kind != media.KindUnsupported && file.Size > kind.MaxBytes() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "El archivo supera el tamaño máximo permitido",
		})
		return
	}

	esPrincipal := c.PostForm("es_principal") == "true"

	row, upErr := h.uploader.Upload(ctx, file, propiedadID, esPrincipal)
	if upErr != nil {
		status := http.StatusInternalServerError
		if upErr.Code == media.CodeInvalidFileType {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": upErr.Message, "code": upErr.Code})
		return
	}

	if esPrincipal {
		// The old flag is dropped only once the new row exists; a failed
		// upload leaves the current principal in place.
		if err := h.store.ClearPrincipal(ctx, propiedadID); err != nil {
			log.Printf("[media] clear principal failed propiedad_id=%s err=%v", propiedadID, err)
		} else if err := h.store.MarkPrincipal(ctx, row.ID); err != nil {
			log.Printf("[media] set principal failed media_id=%s err=%v", row.ID, err)
		}
	}

	c.JSON(http.StatusCreated, row)
}

// DeleteProperty removes a property, its media rows, its storage objects and
// its search document. Storage and search failures are logged but do not keep
// the row alive.
func (h *ManagerHandler) DeleteProperty(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if _, err := h.store.GetProperty(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Propiedad no encontrada"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rows, err := h.store.ListMedia(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, row := range rows {
		key, ok := ExtractStorageKey(row.URL, id)
		if !ok {
			log.Printf("[media] no storage key derivable url=%s", row.URL)
			continue
		}
		if err := h.objects.Delete(ctx, key); err != nil {
			log.Printf("[media] object delete failed key=%s err=%v", key, err)
		}
	}

	if err := h.store.DeleteMediaByProperty(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.DeleteProperty(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.search != nil {
		go func() {
			if err := h.search.RemoveProperty(id); err != nil {
				log.Printf("[search] remove failed propiedad_id=%s err=%v", id, err)
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true, "media_removed": len(rows)})
}

// Reindex pushes every property into the search index
func (h *ManagerHandler) Reindex(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Búsqueda no disponible"})
		return
	}

	properties, err := h.store.AllProperties(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.search.IndexProperties(properties); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"indexed": len(properties)})
}

// reindexProperty refreshes one search document in the background.
func (h *ManagerHandler) reindexProperty(id string) {
	if h.search == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		p, err := h.store.GetProperty(ctx, id)
		if err != nil {
			log.Printf("[search] reload failed propiedad_id=%s err=%v", id, err)
			return
		}
		if err := h.search.IndexProperty(p); err != nil {
			log.Printf("[search] index failed propiedad_id=%s err=%v", id, err)
		}
	}()
}

// ExtractStorageKey derives the bucket-relative key from a public media URL.
// Keys always start with the property id, so the segment match works for both
// virtual-hosted and path-style URLs.
func ExtractStorageKey(rawURL, propiedadID string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	path := strings.TrimPrefix(u.Path, "/")
	if idx := strings.Index(path, propiedadID+"/"); idx >= 0 {
		return path[idx:], true
	}
	return "", false
}

func parsePropertyForm(c *gin.Context) (property.Form, error) {
	var form property.Form
	var err error

	form.Nombre = formString(c, "nombre")
	form.Categoria = formString(c, "categoria")
	form.Descripcion = formString(c, "descripcion")
	form.Direccion = formString(c, "direccion")
	form.TipoAccion = formString(c, "tipo_accion")
	form.Estado = formString(c, "estado")

	if form.Estado != nil && !models.ValidEstadoPropiedad(*form.Estado) {
		return form, errors.New("estado de propiedad inválido")
	}
	if form.TipoAccion != nil && !models.ValidTipoAccion(*form.TipoAccion) {
		return form, errors.New("tipo de acción inválido")
	}

	if form.Precio, err = formFloat(c, "precio"); err != nil {
		return form, err
	}
	if form.PrecioAdministracion, err = formFloat(c, "precio_administracion"); err != nil {
		return form, err
	}
	if form.MetrosCuadrados, err = formFloat(c, "metros_cuadrados"); err != nil {
		return form, err
	}
	if form.MetrosConstruidos, err = formFloat(c, "metros_construidos"); err != nil {
		return form, err
	}
	if form.Alcobas, err = formInt(c, "alcobas"); err != nil {
		return form, err
	}
	if form.Banos, err = formInt(c, "banos"); err != nil {
		return form, err
	}
	if form.Parqueaderos, err = formInt(c, "parqueaderos"); err != nil {
		return form, err
	}
	form.Destacada = formBool(c, "destacada")
	form.Activo = formBool(c, "activo")

	return form, nil
}

func formString(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

func formFloat(c *gin.Context, key string) (*float64, error) {
	v, ok := c.GetPostForm(key)
	if !ok || v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, errors.New("el campo " + key + " debe ser numérico")
	}
	return &f, nil
}

func formInt(c *gin.Context, key string) (*int, error) {
	v, ok := c.GetPostForm(key)
	if !ok || v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, errors.New("el campo " + key + " debe ser un entero")
	}
	return &n, nil
}

func formBool(c *gin.Context, key string) *bool {
	if v, ok := c.GetPostForm(key); ok {
		b := v == "true" || v == "1"
		return &b
	}
	return nil
}

func readUploadedFiles(c *gin.Context) ([]media.FileInput, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	headers := form.File["archivos"]
	files := make([]media.FileInput, 0, len(headers))
	for _, fh := range headers {
		file, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func readFile(fh *multipart.FileHeader) (media.FileInput, error) {
	f, err := fh.Open()
	if err != nil {
		return media.FileInput{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, media.MaxVideoBytes+1))
	if err != nil {
		return media.FileInput{}, err
	}
	return media.FileInput{
		Name: fh.Filename,
		MIME: fh.Header.Get("Content-Type"),
		Size: fh.Size,
		Data: data,
	}, nil
}

func existingItems(rows []models.ImagenPropiedad) []media.ExistingItem {
	items := make([]media.ExistingItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, media.ExistingItem{
			ID:          r.ID,
			URL:         r.URL,
			Orden:       r.Orden,
			EsPrincipal: r.EsPrincipal,
		})
	}
	return items
}
