package search

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"inmobiliaria-backend/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  "propiedades",
	}
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"nombre",
		"descripcion",
		"direccion",
		"categoria",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"id",
		"categoria",
		"tipo_accion",
		"estado",
		"precio",
		"alcobas",
		"banos",
		"metros_cuadrados",
		"destacada",
		"activo",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"precio",
		"metros_cuadrados",
		"created_at",
	})
	return err
}

// IndexProperty indexes a single property
func (s *SearchClient) IndexProperty(p *models.Propiedad) error {
	_, err := s.client.Index(s.index).AddDocuments([]models.Propiedad{*p})
	return err
}

// IndexProperties indexes multiple properties
func (s *SearchClient) IndexProperties(properties []models.Propiedad) error {
	if len(properties) == 0 {
		return nil
	}
	_, err := s.client.Index(s.index).AddDocuments(properties)
	return err
}

// RemoveProperty deletes a property from the index
func (s *SearchClient) RemoveProperty(id string) error {
	_, err := s.client.Index(s.index).DeleteDocument(id)
	return err
}

// FilterParams holds the public search parameters.
type FilterParams struct {
	Query      string
	Categoria  string
	TipoAccion string
	Estado     string
	PrecioMin  *float64
	PrecioMax  *float64
	AlcobasMin *int
	SortBy     string
	Limit      int64
	Offset     int64
}

// BuildFilter assembles the Meilisearch filter expression for the params.
// Only active listings are ever surfaced publicly.
func BuildFilter(params FilterParams) string {
	filters := []string{"activo = true"}

	if params.Categoria != "" {
		filters = append(filters, fmt.Sprintf("categoria = '%s'", escape(params.Categoria)))
	}
	if params.TipoAccion != "" {
		filters = append(filters, fmt.Sprintf("tipo_accion = '%s'", escape(params.TipoAccion)))
	}
	if params.Estado != "" {
		filters = append(filters, fmt.Sprintf("estado = '%s'", escape(params.Estado)))
	}
	if params.PrecioMin != nil {
		filters = append(filters, "precio >= "+strconv.FormatFloat(*params.PrecioMin, 'f', -1, 64))
	}
	if params.PrecioMax != nil {
		filters = append(filters, "precio <= "+strconv.FormatFloat(*params.PrecioMax, 'f', -1, 64))
	}
	if params.AlcobasMin != nil {
		filters = append(filters, fmt.Sprintf("alcobas >= %d", *params.AlcobasMin))
	}

	return strings.Join(filters, " AND ")
}

func escape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

// Search performs a filtered full-text search over the listings index.
func (s *SearchClient) Search(params FilterParams) ([]models.Propiedad, int64, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	req := &meilisearch.SearchRequest{
		Limit:  limit,
		Offset: params.Offset,
		Filter: BuildFilter(params),
	}
	if params.SortBy != "" {
		req.Sort = []string{params.SortBy}
	}

	result, err := s.client.Index(s.index).Search(params.Query, req)
	if err != nil {
		return nil, 0, err
	}

	properties := make([]models.Propiedad, 0, len(result.Hits))
	for _, hit := range result.Hits {
		data, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var p models.Propiedad
		if err := json.Unmarshal(data, &p); err != nil {
			continue
		}
		properties = append(properties, p)
	}

	return properties, result.EstimatedTotalHits, nil
}
