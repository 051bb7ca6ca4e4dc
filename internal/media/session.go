package media

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// pendingPrefix marks locally generated ids so the save flow can tell staged
// items apart from persisted ones.
const pendingPrefix = "pending-"

// ExistingItem is a persisted media item loaded into an edit session.
type ExistingItem struct {
	ID          string
	URL         string
	Orden       int
	EsPrincipal bool
	Kind        Kind
}

// PendingItem is a locally staged, not-yet-uploaded file.
type PendingItem struct {
	ID   string
	Name string
	MIME string
	Size int64
	Data []byte
	Kind Kind
}

// FileInput is a file handed to the session for staging.
type FileInput struct {
	Name string
	MIME string
	Size int64
	Data []byte
}

// Session holds the editable superset of a property's media before commit.
// It performs no I/O: deletions are markers, additions are staged bytes, and
// the principal designation is tracked separately from both lists.
type Session struct {
	existing    []ExistingItem
	pending     []PendingItem
	deleted     map[string]bool
	principalID string
}

func NewSession() *Session {
	return &Session{deleted: make(map[string]bool)}
}

// IsPendingID reports whether id names a staged (not yet persisted) item.
func IsPendingID(id string) bool {
	return strings.HasPrefix(id, pendingPrefix)
}

// LoadExisting replaces the existing list with persisted items, classifying
// each by URL. If a loaded item carries the principal flag, the designation
// is set to its id.
func (s *Session) LoadExisting(items []ExistingItem) {
	s.existing = make([]ExistingItem, 0, len(items))
	for _, it := range items {
		if it.Kind == KindUnsupported {
			it.Kind = KindFromURL(it.URL)
		}
		s.existing = append(s.existing, it)
		if it.EsPrincipal && s.principalID == "" {
			s.principalID = it.ID
		}
	}
}

// AddPending stages the given files. Oversized and unsupported files are
// rejected per-file; the returned errors are user-facing and non-fatal (the
// remaining files are still staged). If the session held no media at all and
// no principal was designated, the first staged image becomes principal.
func (s *Session) AddPending(files []FileInput) []error {
	wasEmpty := len(s.existing) == 0 && len(s.pending) == 0
	var errs []error

	for _, f := range files {
		kind := DetectKind(f.MIME)
		if kind == KindUnsupported {
			errs = append(errs, fmt.Errorf("archivo %s: tipo no soportado (%s)", f.Name, f.MIME))
			continue
		}
		if f.Size > kind.MaxBytes() {
			errs = append(errs, fmt.Errorf("archivo %s supera el límite de %d MB",
				f.Name, kind.MaxBytes()/(1024*1024)))
			continue
		}

		item := PendingItem{
			ID:   pendingPrefix + uuid.NewString(),
			Name: f.Name,
			MIME: f.MIME,
			Size: f.Size,
			Data: f.Data,
			Kind: kind,
		}
		s.pending = append(s.pending, item)

		if wasEmpty && s.principalID == "" && kind == KindImage {
			s.principalID = item.ID
		}
	}
	return errs
}

// DeleteExisting marks a persisted item for deletion and removes it from the
// visible list. If it held the principal designation, the designation falls
// back to the first remaining image or is cleared.
func (s *Session) DeleteExisting(id string) {
	kept := s.existing[:0]
	found := false
	for _, it := range s.existing {
		if it.ID == id {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	s.existing = kept
	if !found {
		return
	}
	s.deleted[id] = true
	if s.principalID == id {
		s.principalID = s.firstImageID()
	}
}

// RemovePending drops a staged item. Principal reassignment follows the same
// rule as DeleteExisting.
func (s *Session) RemovePending(id string) {
	kept := s.pending[:0]
	found := false
	for _, it := range s.pending {
		if it.ID == id {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	s.pending = kept
	if found && s.principalID == id {
		s.principalID = s.firstImageID()
	}
}

// SetPrincipal designates id as the property's principal image. Videos are
// never eligible.
func (s *Session) SetPrincipal(id string, isVideo bool) error {
	if isVideo {
		return fmt.Errorf("un video no puede ser la imagen principal")
	}
	s.principalID = id
	return nil
}

// Reset clears all staged state so the session can be reused.
func (s *Session) Reset() {
	s.existing = nil
	s.pending = nil
	s.deleted = make(map[string]bool)
	s.principalID = ""
}

// IsVideo reports whether the item with the given id (existing or pending)
// is a video.
func (s *Session) IsVideo(id string) bool {
	for _, it := range s.existing {
		if it.ID == id {
			return it.Kind == KindVideo
		}
	}
	for _, it := range s.pending {
		if it.ID == id {
			return it.Kind == KindVideo
		}
	}
	return false
}

// Existing returns the visible (not deletion-marked) persisted items.
func (s *Session) Existing() []ExistingItem {
	return s.existing
}

// Pending returns the staged items in the order they were added.
func (s *Session) Pending() []PendingItem {
	return s.pending
}

// DeletedIDs returns the ids marked for deletion.
func (s *Session) DeletedIDs() []string {
	ids := make([]string, 0, len(s.deleted))
	for id := range s.deleted {
		ids = append(ids, id)
	}
	return ids
}

// PrincipalID returns the current principal designation, or "" if unset.
func (s *Session) PrincipalID() string {
	return s.principalID
}

// firstImageID returns the id of the first image-kind item, existing items
// first, then pending, or "" if none remain.
func (s *Session) firstImageID() string {
	for _, it := range s.existing {
		if it.Kind == KindImage {
			return it.ID
		}
	}
	for _, it := range s.pending {
		if it.Kind == KindImage {
			return it.ID
		}
	}
	return ""
}
