package property

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"inmobiliaria-backend/internal/media"
	"inmobiliaria-backend/internal/models"
	"inmobiliaria-backend/internal/storage"

	"github.com/google/uuid"
)

// ErrNoAutorizado is returned when a save is attempted without a session.
var ErrNoAutorizado = errors.New("debes iniciar sesión para crear o editar propiedades")

// PropertyStore is the property-row capability consumed by the orchestrator.
type PropertyStore interface {
	InsertProperty(ctx context.Context, fields map[string]any) (string, error)
	UpdateProperty(ctx context.Context, id string, fields map[string]any) error
}

// MediaStore is the media-row capability consumed by the orchestrator.
type MediaStore interface {
	ClearPrincipal(ctx context.Context, propiedadID string) error
	DeleteMedia(ctx context.Context, ids []string) error
	InsertMedia(ctx context.Context, m *models.ImagenPropiedad) error
	MarkPrincipal(ctx context.Context, mediaID string) error
}

// MediaOutcome is the tagged result of one media reconciliation operation,
// so callers can tell which staged items failed without re-deriving state.
type MediaOutcome struct {
	PendingID string `json:"pending_id"`
	MediaID   string `json:"media_id,omitempty"`
	URL       string `json:"url,omitempty"`
	Orden     int    `json:"orden"`
	Error     string `json:"error,omitempty"`
}

// Result reports a completed save.
type Result struct {
	PropiedadID string         `json:"propiedad_id"`
	Created     bool           `json:"created"`
	Media       []MediaOutcome `json:"media,omitempty"`
	Uploaded    int            `json:"uploaded"`
}

// Orchestrator performs the full property persist sequence: validation, the
// property-row write, and best-effort media reconciliation. The property-row
// write is strict (any failure aborts with no media touched); individual
// media operations are best-effort and never abort siblings.
type Orchestrator struct {
	properties PropertyStore
	mediaRows  MediaStore
	objects    storage.ObjectStore
}

func NewOrchestrator(properties PropertyStore, mediaRows MediaStore, objects storage.ObjectStore) *Orchestrator {
	return &Orchestrator{properties: properties, mediaRows: mediaRows, objects: objects}
}

// Save validates the form, writes the property row (update when propiedadID
// is set, insert otherwise) and commits the staged media changes. userID
// must identify the authenticated caller; it is attached as owner on insert.
func (o *Orchestrator) Save(ctx context.Context, userID, propiedadID string, form Form, sess *media.Session) (*Result, error) {
	if userID == "" {
		return nil, ErrNoAutorizado
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	fields := form.Payload()
	result := &Result{PropiedadID: propiedadID}

	if propiedadID != "" {
		if err := o.properties.UpdateProperty(ctx, propiedadID, fields); err != nil {
			return nil, fmt.Errorf("error al actualizar la propiedad: %w", err)
		}
	} else {
		// Owner attached at creation so row-level access policies permit
		// later mutation.
		fields["owner_id"] = userID
		numericDefaults(fields)
		desc, _ := fields["descripcion"].(string)
		fields["descripcion"] = sanitizeDescripcion(desc)

		id, err := o.properties.InsertProperty(ctx, fields)
		if err != nil {
			return nil, fmt.Errorf("error al crear la propiedad: %w", err)
		}
		result.PropiedadID = id
		result.Created = true
	}

	o.reconcile(ctx, result, sess)
	return result, nil
}

// reconcile applies the staged media changes. Partial failures are logged
// and tagged in the result, never rolled back: the property row already
// exists, so media commit is deliberately best-effort.
func (o *Orchestrator) reconcile(ctx context.Context, result *Result, sess *media.Session) {
	if sess == nil {
		return
	}
	propiedadID := result.PropiedadID
	principalID := sess.PrincipalID()

	// Principal reset and marked deletes run concurrently; both must settle
	// before uploads so uploads don't race a stale principal state.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := o.mediaRows.ClearPrincipal(ctx, propiedadID); err != nil {
			log.Printf("[media] clear principal failed propiedad_id=%s err=%v", propiedadID, err)
		}
	}()
	if deleted := sess.DeletedIDs(); len(deleted) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := o.mediaRows.DeleteMedia(ctx, deleted); err != nil {
				log.Printf("[media] delete rows failed propiedad_id=%s count=%d err=%v",
					propiedadID, len(deleted), err)
			}
		}()
	}
	wg.Wait()

	pending := sess.Pending()
	outcomes := make([]MediaOutcome, len(pending))
	for i, item := range pending {
		wg.Add(1)
		go func(i int, item media.PendingItem) {
			defer wg.Done()
			outcomes[i] = o.uploadPending(ctx, propiedadID, principalID, i, item)
		}(i, item)
	}
	wg.Wait()

	for _, out := range outcomes {
		if out.Error == "" {
			result.Uploaded++
		}
	}
	result.Media = outcomes

	// Pending items receive the correct flag at insert time; an existing
	// item needs a separate update.
	if principalID != "" && !media.IsPendingID(principalID) {
		if err := o.mediaRows.MarkPrincipal(ctx, principalID); err != nil {
			log.Printf("[media] set principal failed media_id=%s err=%v", principalID, err)
		}
	}

	if len(pending) > 0 {
		log.Printf("[media] propiedad_id=%s uploaded=%d failed=%d",
			propiedadID, result.Uploaded, len(pending)-result.Uploaded)
	}
}

// uploadPending commits one staged file: upload, public URL, row insert.
// The storage path embeds a random token, the timestamp and the positional
// index so same-named files in one batch never collide.
func (o *Orchestrator) uploadPending(ctx context.Context, propiedadID, principalID string, index int, item media.PendingItem) MediaOutcome {
	out := MediaOutcome{PendingID: item.ID, Orden: index}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	path := fmt.Sprintf("%s/%s-%d-%d%s",
		propiedadID, token, time.Now().UnixMilli(), index, filepath.Ext(item.Name))

	if err := o.objects.Put(ctx, path, bytes.NewReader(item.Data), item.MIME); err != nil {
		log.Printf("[media] upload failed propiedad_id=%s file=%s err=%v", propiedadID, item.Name, err)
		out.Error = err.Error()
		return out
	}

	publicURL, ok := o.objects.PublicURL(path)
	if !ok || publicURL == "" {
		log.Printf("[media] public url unavailable propiedad_id=%s path=%s", propiedadID, path)
		out.Error = "public URL unavailable"
		return out
	}

	row := &models.ImagenPropiedad{
		ID:          uuid.NewString(),
		PropiedadID: propiedadID,
		URL:         publicURL,
		TipoArchivo: string(item.Kind),
		Orden:       index,
		EsPrincipal: item.ID == principalID,
	}
	if err := o.mediaRows.InsertMedia(ctx, row); err != nil {
		log.Printf("[media] insert row failed propiedad_id=%s file=%s err=%v", propiedadID, item.Name, err)
		out.Error = err.Error()
		return out
	}

	out.MediaID = row.ID
	out.URL = publicURL
	return out
}
