package media

import "strings"

// Kind classifies a media item as image or video.
type Kind string

const (
	KindImage       Kind = "image"
	KindVideo       Kind = "video"
	KindUnsupported Kind = ""
)

// Size ceilings for staged files.
const (
	MaxImageBytes = 5 * 1024 * 1024
	MaxVideoBytes = 50 * 1024 * 1024
)

// videoExtensions are the URL markers that classify a persisted item as video.
var videoExtensions = []string{".mp4", ".webm", ".ogg", ".mov", ".avi", ".mkv"}

// DetectKind classifies a file by MIME type: image/* is an image, video/* is
// a video, anything else is unsupported.
func DetectKind(mimeType string) Kind {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return KindImage
	case strings.HasPrefix(mimeType, "video/"):
		return KindVideo
	default:
		return KindUnsupported
	}
}

// KindFromURL classifies a persisted media item by its URL. A URL containing
// a recognized video extension (case-insensitive) is a video; everything else
// is treated as an image.
func KindFromURL(url string) Kind {
	lower := strings.ToLower(url)
	for _, ext := range videoExtensions {
		if strings.Contains(lower, ext) {
			return KindVideo
		}
	}
	return KindImage
}

// MaxBytes returns the size ceiling for the kind. Unsupported kinds have no
// ceiling because they are rejected before a size check applies.
func (k Kind) MaxBytes() int64 {
	switch k {
	case KindVideo:
		return MaxVideoBytes
	default:
		return MaxImageBytes
	}
}
