package cleanup_test

import (
	"bytes"
	"context"
	"testing"

	"inmobiliaria-backend/internal/cleanup"
	"inmobiliaria-backend/internal/models"
	"inmobiliaria-backend/internal/storage"

	"github.com/stretchr/testify/assert"
)

type fakeCatalog struct {
	properties []models.Propiedad
	media      map[string][]models.ImagenPropiedad
}

func (f *fakeCatalog) AllProperties(ctx context.Context) ([]models.Propiedad, error) {
	return f.properties, nil
}

func (f *fakeCatalog) ListMedia(ctx context.Context, propiedadID string) ([]models.ImagenPropiedad, error) {
	return f.media[propiedadID], nil
}

func seedObjects(t *testing.T, store *storage.MemoryStore, keys ...string) {
	t.Helper()
	for _, key := range keys {
		err := store.Put(context.Background(), key, bytes.NewReader([]byte("x")), "image/jpeg")
		assert.NoError(t, err)
	}
}

func TestSweepDeletesOrphans(t *testing.T) {
	objects := storage.NewMemoryStore("https://cdn.example.com")
	seedObjects(t, objects,
		"p1/referenced.jpg",
		"p1/huerfano.jpg",
		"p2/borrada.jpg",
	)

	catalog := &fakeCatalog{
		properties: []models.Propiedad{{ID: "p1"}},
		media: map[string][]models.ImagenPropiedad{
			"p1": {{ID: "m1", PropiedadID: "p1", URL: "https://cdn.example.com/p1/referenced.jpg"}},
		},
	}

	service := cleanup.NewService(catalog, objects)
	result, err := service.Sweep(context.Background(), cleanup.DefaultCleanupConfig())

	assert.NoError(t, err)
	assert.Equal(t, 2, result.OrphanCount)
	assert.Equal(t, 2, result.DeletedCount)
	assert.Equal(t, 0, result.ErrorCount)
	assert.ElementsMatch(t, []string{"p1/huerfano.jpg", "p2/borrada.jpg"}, result.DeletedKeys)

	assert.True(t, objects.Has("p1/referenced.jpg"), "referenced objects survive")
	assert.False(t, objects.Has("p1/huerfano.jpg"))
	assert.False(t, objects.Has("p2/borrada.jpg"))
}

func TestSweepDryRunDeletesNothing(t *testing.T) {
	objects := storage.NewMemoryStore("")
	seedObjects(t, objects, "p1/huerfano.jpg")

	catalog := &fakeCatalog{properties: []models.Propiedad{{ID: "p1"}}}
	service := cleanup.NewService(catalog, objects)

	cfg := cleanup.DefaultCleanupConfig()
	cfg.DryRun = true
	result, err := service.Sweep(context.Background(), cfg)

	assert.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.DeletedCount)
	assert.True(t, objects.Has("p1/huerfano.jpg"), "dry run keeps every object")
}

func TestSweepSafetyLimit(t *testing.T) {
	objects := storage.NewMemoryStore("")
	seedObjects(t, objects, "p9/a.jpg", "p9/b.jpg", "p9/c.jpg")

	catalog := &fakeCatalog{}
	service := cleanup.NewService(catalog, objects)

	cfg := cleanup.DefaultCleanupConfig()
	cfg.MaxDeletionCount = 2
	result, err := service.Sweep(context.Background(), cfg)

	assert.Nil(t, result)
	assert.ErrorContains(t, err, "safety check failed")
	assert.Equal(t, 3, objects.Len(), "the aborted run touches nothing")
}

func TestSweepThumbnailsCountAsReferences(t *testing.T) {
	objects := storage.NewMemoryStore("https://cdn.example.com")
	seedObjects(t, objects, "p1/miniatura.jpg")

	thumb := "https://cdn.example.com/p1/miniatura.jpg"
	catalog := &fakeCatalog{
		properties: []models.Propiedad{{ID: "p1"}},
		media: map[string][]models.ImagenPropiedad{
			"p1": {{
				ID:           "m1",
				PropiedadID:  "p1",
				URL:          "https://cdn.example.com/p1/grande.jpg",
				URLThumbnail: &thumb,
			}},
		},
	}

	service := cleanup.NewService(catalog, objects)
	result, err := service.Sweep(context.Background(), cleanup.DefaultCleanupConfig())

	assert.NoError(t, err)
	assert.Equal(t, 0, result.OrphanCount)
	assert.True(t, objects.Has("p1/miniatura.jpg"))
}
