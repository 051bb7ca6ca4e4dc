package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"inmobiliaria-backend/internal/media"
	"inmobiliaria-backend/internal/models"
	"inmobiliaria-backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// fakeManagerStore records the order of principal-related calls so the
// upload flow can be checked step by step.
type fakeManagerStore struct {
	calls      []string
	insertedID string
	markedID   string
}

func (f *fakeManagerStore) PropertyExists(ctx context.Context, id string) (bool, error) {
	return true, nil
}

func (f *fakeManagerStore) GetProperty(ctx context.Context, id string) (*models.Propiedad, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeManagerStore) AllProperties(ctx context.Context) ([]models.Propiedad, error) {
	return nil, nil
}

func (f *fakeManagerStore) DeleteProperty(ctx context.Context, id string) error { return nil }

func (f *fakeManagerStore) ListMedia(ctx context.Context, propiedadID string) ([]models.ImagenPropiedad, error) {
	return nil, nil
}

func (f *fakeManagerStore) DeleteMediaByProperty(ctx context.Context, propiedadID string) error {
	return nil
}

func (f *fakeManagerStore) ClearPrincipal(ctx context.Context, propiedadID string) error {
	f.calls = append(f.calls, "clear")
	return nil
}

func (f *fakeManagerStore) MarkPrincipal(ctx context.Context, mediaID string) error {
	f.calls = append(f.calls, "mark")
	f.markedID = mediaID
	return nil
}

func (f *fakeManagerStore) InsertMedia(ctx context.Context, m *models.ImagenPropiedad) error {
	f.calls = append(f.calls, "insert")
	f.insertedID = m.ID
	return nil
}

// failingObjects fails every Put while delegating the rest.
type failingObjects struct {
	storage.ObjectStore
	putErr error
}

func (f *failingObjects) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	return f.putErr
}

func newUploadTestRouter(store *fakeManagerStore, objects storage.ObjectStore) *gin.Engine {
	h := &ManagerHandler{
		store:    store,
		objects:  objects,
		uploader: media.NewUploader(objects, store),
	}
	r := gin.New()
	r.POST("/propiedades/:id/multimedia", h.UploadMultimedia)
	return r
}

func multimediaRequest(t *testing.T, esPrincipal bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="archivo"; filename="foto.jpg"`)
	hdr.Set("Content-Type", "image/jpeg")
	part, err := w.CreatePart(hdr)
	assert.NoError(t, err)
	_, err = part.Write([]byte("datos"))
	assert.NoError(t, err)

	if esPrincipal {
		assert.NoError(t, w.WriteField("es_principal", "true"))
	}
	assert.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/propiedades/prop-1/multimedia", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadMultimediaPromotesPrincipalAfterInsert(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeManagerStore{}
	r := newUploadTestRouter(store, storage.NewMemoryStore(""))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, multimediaRequest(t, true))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"insert", "clear", "mark"}, store.calls)
	assert.Equal(t, store.insertedID, store.markedID)
}

func TestUploadMultimediaFailureKeepsCurrentPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeManagerStore{}
	objects := &failingObjects{
		ObjectStore: storage.NewMemoryStore(""),
		putErr:      errors.New("bucket unavailable"),
	}
	r := newUploadTestRouter(store, objects)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, multimediaRequest(t, true))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, store.calls, "clear")
	assert.NotContains(t, store.calls, "mark")
}

func TestUploadMultimediaNonPrincipalSkipsFlagWrites(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeManagerStore{}
	r := newUploadTestRouter(store, storage.NewMemoryStore(""))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, multimediaRequest(t, false))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"insert"}, store.calls)
}
