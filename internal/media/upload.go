package media

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"inmobiliaria-backend/internal/models"
	"inmobiliaria-backend/internal/storage"

	"github.com/google/uuid"
)

// Upload error codes.
const (
	CodeInvalidFileType = "INVALID_FILE_TYPE"
	CodeUploadFailed    = "UPLOAD_FAILED"
	CodeURLFailed       = "URL_FAILED"
	CodeInsertFailed    = "INSERT_FAILED"
)

// UploadError describes a failed multimedia upload.
type UploadError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MediaInserter is the database capability the uploader needs.
type MediaInserter interface {
	InsertMedia(ctx context.Context, m *models.ImagenPropiedad) error
}

// Uploader uploads a single multimedia file to object storage and registers
// it in the database. A failure at any step after a successful upload removes
// the uploaded object, so no orphaned storage objects are left behind.
type Uploader struct {
	objects storage.ObjectStore
	db      MediaInserter
}

func NewUploader(objects storage.ObjectStore, db MediaInserter) *Uploader {
	return &Uploader{objects: objects, db: db}
}

// Upload performs upload -> public-URL fetch -> record insert for one file.
// propertyID must identify an existing property. On success the inserted row
// is returned; on failure the returned record is nil and the error carries
// one of the upload error codes.
func (u *Uploader) Upload(ctx context.Context, file FileInput, propertyID string, esPrincipal bool) (*models.ImagenPropiedad, *UploadError) {
	kind := DetectKind(file.MIME)
	if kind == KindUnsupported {
		return nil, &UploadError{
			Code:    CodeInvalidFileType,
			Message: fmt.Sprintf("Invalid file type: %s. Only images and videos are allowed.", file.MIME),
		}
	}

	path := fmt.Sprintf("%s/%d_%s", propertyID, time.Now().UnixMilli(), file.Name)

	if err := u.objects.Put(ctx, path, bytes.NewReader(file.Data), file.MIME); err != nil {
		return nil, &UploadError{
			Code:    CodeUploadFailed,
			Message: fmt.Sprintf("Failed to upload file: %v", err),
		}
	}

	publicURL, ok := u.objects.PublicURL(path)
	if !ok || publicURL == "" {
		u.rollback(ctx, path)
		return nil, &UploadError{
			Code:    CodeURLFailed,
			Message: "Failed to get public URL for uploaded file",
		}
	}

	row := &models.ImagenPropiedad{
		ID:          uuid.NewString(),
		PropiedadID: propertyID,
		URL:         publicURL,
		TipoArchivo: string(kind),
		EsPrincipal: esPrincipal,
	}
	if err := u.db.InsertMedia(ctx, row); err != nil {
		u.rollback(ctx, path)
		return nil, &UploadError{
			Code:    CodeInsertFailed,
			Message: fmt.Sprintf("Failed to insert record in database: %v", err),
		}
	}

	return row, nil
}

// rollback deletes the uploaded object. Its own failure is logged only; the
// caller still reports the original error.
func (u *Uploader) rollback(ctx context.Context, path string) {
	if err := u.objects.Delete(ctx, path); err != nil {
		log.Printf("[media] rollback delete failed path=%s err=%v", path, err)
	}
}
