package property_test

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"

	"inmobiliaria-backend/internal/media"
	"inmobiliaria-backend/internal/models"
	"inmobiliaria-backend/internal/property"
	"inmobiliaria-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPropertyStore is a mock implementation of property.PropertyStore
type MockPropertyStore struct {
	mock.Mock
}

func (m *MockPropertyStore) InsertProperty(ctx context.Context, fields map[string]any) (string, error) {
	args := m.Called(ctx, fields)
	return args.String(0), args.Error(1)
}

func (m *MockPropertyStore) UpdateProperty(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

// MockMediaStore is a mock implementation of property.MediaStore
type MockMediaStore struct {
	mock.Mock
	mu   sync.Mutex
	rows []*models.ImagenPropiedad
}

func (m *MockMediaStore) ClearPrincipal(ctx context.Context, propiedadID string) error {
	args := m.Called(ctx, propiedadID)
	return args.Error(0)
}

func (m *MockMediaStore) DeleteMedia(ctx context.Context, ids []string) error {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	args := m.Called(ctx, sorted)
	return args.Error(0)
}

func (m *MockMediaStore) InsertMedia(ctx context.Context, row *models.ImagenPropiedad) error {
	args := m.Called(ctx, row)
	if args.Error(0) == nil {
		m.mu.Lock()
		m.rows = append(m.rows, row)
		m.mu.Unlock()
	}
	return args.Error(0)
}

func (m *MockMediaStore) MarkPrincipal(ctx context.Context, mediaID string) error {
	args := m.Called(ctx, mediaID)
	return args.Error(0)
}

// failingPutStore wraps a real in-memory store and fails uploads carrying a
// chosen content type.
type failingPutStore struct {
	storage.ObjectStore
	failMIME string
}

func (f *failingPutStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	if contentType == f.failMIME {
		return errors.New("simulated upload failure")
	}
	return f.ObjectStore.Put(ctx, key, r, contentType)
}

func newOrchestrator(props *MockPropertyStore, mediaRows *MockMediaStore, objects storage.ObjectStore) *property.Orchestrator {
	if objects == nil {
		objects = storage.NewMemoryStore("https://cdn.example.com")
	}
	return property.NewOrchestrator(props, mediaRows, objects)
}

func TestSaveRequiresAuthentication(t *testing.T) {
	props := new(MockPropertyStore)
	mediaRows := new(MockMediaStore)
	orch := newOrchestrator(props, mediaRows, nil)

	result, err := orch.Save(context.Background(), "", "", validForm(), media.NewSession())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, property.ErrNoAutorizado)
	props.AssertNotCalled(t, "InsertProperty", mock.Anything, mock.Anything)
	mediaRows.AssertNotCalled(t, "ClearPrincipal", mock.Anything, mock.Anything)
}

func TestSaveValidationGatesAllWrites(t *testing.T) {
	props := new(MockPropertyStore)
	mediaRows := new(MockMediaStore)
	orch := newOrchestrator(props, mediaRows, nil)

	form := validForm()
	form.Descripcion = strPtr("muy corta")

	sess := media.NewSession()
	sess.AddPending([]media.FileInput{{Name: "a.jpg", MIME: "image/jpeg", Size: 10, Data: []byte("x")}})

	result, err := orch.Save(context.Background(), "user-1", "", form, sess)

	assert.Nil(t, result)
	var vErr *property.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "descripcion", vErr.Field)
	props.AssertNotCalled(t, "InsertProperty", mock.Anything, mock.Anything)
	mediaRows.AssertNotCalled(t, "ClearPrincipal", mock.Anything, mock.Anything)
	mediaRows.AssertNotCalled(t, "InsertMedia", mock.Anything, mock.Anything)
}

func TestSaveUpdateFailureIsFatal(t *testing.T) {
	props := new(MockPropertyStore)
	mediaRows := new(MockMediaStore)
	orch := newOrchestrator(props, mediaRows, nil)

	props.On("UpdateProperty", mock.Anything, "prop-1", mock.Anything).
		Return(errors.New("fila bloqueada"))

	sess := media.NewSession()
	sess.AddPending([]media.FileInput{{Name: "a.jpg", MIME: "image/jpeg", Size: 10, Data: []byte("x")}})

	result, err := orch.Save(context.Background(), "user-1", "prop-1", validForm(), sess)

	assert.Nil(t, result)
	assert.ErrorContains(t, err, "error al actualizar la propiedad")
	mediaRows.AssertNotCalled(t, "ClearPrincipal", mock.Anything, mock.Anything)
	mediaRows.AssertNotCalled(t, "DeleteMedia", mock.Anything, mock.Anything)
	mediaRows.AssertNotCalled(t, "InsertMedia", mock.Anything, mock.Anything)
}

func TestSaveCreateAppliesDefaultsAndSanitizes(t *testing.T) {
	props := new(MockPropertyStore)
	mediaRows := new(MockMediaStore)
	orch := newOrchestrator(props, mediaRows, nil)

	var captured map[string]any
	props.On("InsertProperty", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(map[string]any)
		}).
		Return("prop-new", nil)
	mediaRows.On("ClearPrincipal", mock.Anything, "prop-new").Return(nil)

	form := validForm()
	form.Descripcion = strPtr("<script>alert(1)</script>Hermosa casa\x01 con vista")

	result, err := orch.Save(context.Background(), "user-1", "", form, media.NewSession())

	assert.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, "prop-new", result.PropiedadID)

	assert.Equal(t, "user-1", captured["owner_id"])
	assert.Equal(t, "Hermosa casa  con vista", captured["descripcion"])
	assert.Equal(t, 0, captured["alcobas"])
	assert.Equal(t, 0, captured["banos"])
	assert.Equal(t, 0, captured["parqueaderos"])
	assert.Equal(t, float64(0), captured["precio_administracion"])
	assert.Equal(t, float64(0), captured["metros_construidos"])

	props.AssertExpectations(t)
	mediaRows.AssertExpectations(t)
}

func TestSaveReconcilesStagedMedia(t *testing.T) {
	props := new(MockPropertyStore)
	mediaRows := new(MockMediaStore)
	objects := storage.NewMemoryStore("https://cdn.example.com")
	orch := newOrchestrator(props, mediaRows, objects)

	props.On("UpdateProperty", mock.Anything, "prop-1", mock.Anything).Return(nil)
	mediaRows.On("ClearPrincipal", mock.Anything, "prop-1").Return(nil)
	mediaRows.On("DeleteMedia", mock.Anything, []string{"m1", "m2"}).Return(nil)
	mediaRows.On("InsertMedia", mock.Anything, mock.Anything).Return(nil)

	sess := media.NewSession()
	sess.LoadExisting([]media.ExistingItem{
		{ID: "m1", URL: "https://cdn.example.com/prop-1/a.jpg", EsPrincipal: true},
		{ID: "m2", URL: "https://cdn.example.com/prop-1/b.jpg"},
	})
	sess.DeleteExisting("m2")
	sess.DeleteExisting("m1")
	sess.AddPending([]media.FileInput{
		{Name: "c.jpg", MIME: "image/jpeg", Size: 3, Data: []byte("abc")},
		{Name: "tour.mp4", MIME: "video/mp4", Size: 3, Data: []byte("xyz")},
	})

	result, err := orch.Save(context.Background(), "user-1", "prop-1", validForm(), sess)

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Uploaded)
	assert.Len(t, result.Media, 2)
	assert.Equal(t, 2, objects.Len())

	// Outcomes keep the staging order and carry the row ids.
	assert.Equal(t, sess.Pending()[0].ID, result.Media[0].PendingID)
	assert.Equal(t, 0, result.Media[0].Orden)
	assert.Equal(t, 1, result.Media[1].Orden)
	assert.NotEmpty(t, result.Media[0].MediaID)
	assert.NotEmpty(t, result.Media[0].URL)

	// After both existing items were deleted, the pending image was
	// designated principal and must be inserted with the flag.
	var principalRows int
	for _, row := range mediaRows.rows {
		if row.EsPrincipal {
			principalRows++
			assert.Equal(t, "image", row.TipoArchivo)
		}
	}
	assert.Equal(t, 1, principalRows)
	mediaRows.AssertNotCalled(t, "MarkPrincipal", mock.Anything, mock.Anything)
	mediaRows.AssertExpectations(t)
}

func TestSavePartialUploadFailure(t *testing.T) {
	props := new(MockPropertyStore)
	mediaRows := new(MockMediaStore)
	objects := &failingPutStore{
		ObjectStore: storage.NewMemoryStore("https://cdn.example.com"),
		failMIME:    "image/gif",
	}
	orch := newOrchestrator(props, mediaRows, objects)

	props.On("UpdateProperty", mock.Anything, "prop-1", mock.Anything).Return(nil)
	mediaRows.On("ClearPrincipal", mock.Anything, "prop-1").Return(nil)
	mediaRows.On("InsertMedia", mock.Anything, mock.Anything).Return(nil)
	mediaRows.On("MarkPrincipal", mock.Anything, "m1").Return(nil)

	sess := media.NewSession()
	sess.LoadExisting([]media.ExistingItem{
		{ID: "m1", URL: "https://cdn.example.com/prop-1/a.jpg", EsPrincipal: true},
	})
	sess.AddPending([]media.FileInput{
		{Name: "ok1.jpg", MIME: "image/jpeg", Size: 3, Data: []byte("abc")},
		{Name: "falla.gif", MIME: "image/gif", Size: 3, Data: []byte("def")},
		{Name: "ok2.png", MIME: "image/png", Size: 3, Data: []byte("ghi")},
	})

	result, err := orch.Save(context.Background(), "user-1", "prop-1", validForm(), sess)

	assert.NoError(t, err, "media failures never fail the save")
	assert.Equal(t, 2, result.Uploaded)
	assert.Empty(t, result.Media[0].Error)
	assert.NotEmpty(t, result.Media[1].Error, "the failed item is tagged")
	assert.Empty(t, result.Media[1].MediaID)
	assert.Empty(t, result.Media[2].Error)
}

func TestSaveMarksExistingPrincipal(t *testing.T) {
	props := new(MockPropertyStore)
	mediaRows := new(MockMediaStore)
	orch := newOrchestrator(props, mediaRows, nil)

	props.On("UpdateProperty", mock.Anything, "prop-1", mock.Anything).Return(nil)
	mediaRows.On("ClearPrincipal", mock.Anything, "prop-1").Return(nil)
	mediaRows.On("MarkPrincipal", mock.Anything, "m2").Return(nil)

	sess := media.NewSession()
	sess.LoadExisting([]media.ExistingItem{
		{ID: "m1", URL: "https://cdn.example.com/prop-1/a.jpg", EsPrincipal: true},
		{ID: "m2", URL: "https://cdn.example.com/prop-1/b.jpg"},
	})
	assert.NoError(t, sess.SetPrincipal("m2", sess.IsVideo("m2")))

	_, err := orch.Save(context.Background(), "user-1", "prop-1", validForm(), sess)

	assert.NoError(t, err)
	mediaRows.AssertExpectations(t)
}

func TestSaveClearPrincipalFailureIsNonFatal(t *testing.T) {
	props := new(MockPropertyStore)
	mediaRows := new(MockMediaStore)
	orch := newOrchestrator(props, mediaRows, nil)

	props.On("UpdateProperty", mock.Anything, "prop-1", mock.Anything).Return(nil)
	mediaRows.On("ClearPrincipal", mock.Anything, "prop-1").Return(errors.New("timeout"))
	mediaRows.On("InsertMedia", mock.Anything, mock.Anything).Return(nil)

	sess := media.NewSession()
	sess.AddPending([]media.FileInput{
		{Name: "a.jpg", MIME: "image/jpeg", Size: 3, Data: []byte("abc")},
	})

	result, err := orch.Save(context.Background(), "user-1", "prop-1", validForm(), sess)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Uploaded)
}
