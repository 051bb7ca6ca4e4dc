package cleanup

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"inmobiliaria-backend/internal/models"
	"inmobiliaria-backend/internal/storage"
)

// MediaCatalog is the database view the sweep needs: every property and the
// media rows attached to each.
type MediaCatalog interface {
	AllProperties(ctx context.Context) ([]models.Propiedad, error)
	ListMedia(ctx context.Context, propiedadID string) ([]models.ImagenPropiedad, error)
}

// Service removes storage objects that no media row references anymore.
// Orphans accumulate when an upload succeeds but the save that owned it
// fails later, or when a rollback delete itself fails.
type Service struct {
	catalog MediaCatalog
	objects storage.ObjectStore
}

// NewService creates a new cleanup service
func NewService(catalog MediaCatalog, objects storage.ObjectStore) *Service {
	return &Service{catalog: catalog, objects: objects}
}

// CleanupConfig holds configuration for cleanup operations
type CleanupConfig struct {
	MaxDeletionCount int  // Maximum number of objects to delete in one run (safety limit)
	DryRun           bool // If true, only log what would be deleted without actually deleting
}

// DefaultCleanupConfig returns default configuration
func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		MaxDeletionCount: 1000,
		DryRun:           false,
	}
}

// CleanupResult holds the result of a cleanup operation
type CleanupResult struct {
	OrphanCount  int       `json:"orphan_count"`  // Number of objects with no referencing row
	DeletedCount int       `json:"deleted_count"` // Number of objects actually deleted
	ErrorCount   int       `json:"error_count"`   // Number of errors encountered
	DryRun       bool      `json:"dry_run"`       // Whether this was a dry run
	ExecutedAt   time.Time `json:"executed_at"`   // When the cleanup was executed
	DeletedKeys  []string  `json:"deleted_keys"`  // Keys of deleted objects
	Errors       []string  `json:"errors,omitempty"`
}

// FindOrphanedKeys lists every storage key that belongs to a deleted property
// or that no media row of its property references.
func (s *Service) FindOrphanedKeys(ctx context.Context) ([]string, error) {
	keys, err := s.objects.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list storage objects: %w", err)
	}

	properties, err := s.catalog.AllProperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	exists := make(map[string]bool, len(properties))
	for _, p := range properties {
		exists[p.ID] = true
	}

	// Referenced keys per property, loaded lazily. A media URL references a
	// key when the URL's path ends with it.
	referenced := make(map[string]map[string]bool)

	var orphans []string
	for _, key := range keys {
		propID, _, ok := strings.Cut(key, "/")
		if !ok || propID == "" {
			continue
		}
		if !exists[propID] {
			orphans = append(orphans, key)
			continue
		}

		refs, loaded := referenced[propID]
		if !loaded {
			media, err := s.catalog.ListMedia(ctx, propID)
			if err != nil {
				return nil, fmt.Errorf("failed to list media for property %s: %w", propID, err)
			}
			refs = make(map[string]bool, len(media))
			for _, m := range media {
				refs[m.URL] = true
				if m.URLThumbnail != nil {
					refs[*m.URLThumbnail] = true
				}
			}
			referenced[propID] = refs
		}

		if !anyURLEndsWith(refs, key) {
			orphans = append(orphans, key)
		}
	}

	log.Printf("[cleanup] scanned=%d orphans=%d", len(keys), len(orphans))
	return orphans, nil
}

func anyURLEndsWith(urls map[string]bool, key string) bool {
	for url := range urls {
		if strings.HasSuffix(url, "/"+key) || url == key {
			return true
		}
	}
	return false
}

// Sweep deletes orphaned storage objects, honoring the safety limit and
// dry-run mode.
func (s *Service) Sweep(ctx context.Context, config CleanupConfig) (*CleanupResult, error) {
	result := &CleanupResult{
		DryRun:     config.DryRun,
		ExecutedAt: time.Now(),
	}

	orphans, err := s.FindOrphanedKeys(ctx)
	if err != nil {
		return nil, err
	}

	result.OrphanCount = len(orphans)
	if result.OrphanCount == 0 {
		log.Println("[cleanup] no orphaned objects found")
		return result, nil
	}

	// Safety check: abort if too many objects would be deleted
	if config.MaxDeletionCount > 0 && result.OrphanCount > config.MaxDeletionCount {
		return nil, fmt.Errorf("safety check failed: %d orphans exceed max deletion limit of %d",
			result.OrphanCount, config.MaxDeletionCount)
	}

	for _, key := range orphans {
		if config.DryRun {
			log.Printf("[cleanup] dry-run, would delete key=%s", key)
			result.DeletedKeys = append(result.DeletedKeys, key)
			result.DeletedCount++
			continue
		}

		if err := s.objects.Delete(ctx, key); err != nil {
			errMsg := fmt.Sprintf("failed to delete object %s: %v", key, err)
			log.Printf("[cleanup] %s", errMsg)
			result.Errors = append(result.Errors, errMsg)
			result.ErrorCount++
			continue
		}
		result.DeletedKeys = append(result.DeletedKeys, key)
		result.DeletedCount++
	}

	log.Printf("[cleanup] completed deleted=%d/%d errors=%d dry_run=%v",
		result.DeletedCount, result.OrphanCount, result.ErrorCount, config.DryRun)

	return result, nil
}
