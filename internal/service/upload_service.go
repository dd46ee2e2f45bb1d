package service

import (
	"context"
	"fmt"
	"mime"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/mozillazg/go-unidecode"

	"movie-discovery-bff/internal/models"
)

const defaultUploadFolder = "uploads"

var (
	folderPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]+(/[A-Za-z0-9_-]+)*$`)
	unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// URLPresigner issues presigned PUT URLs for object keys.
type URLPresigner interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
}

// UploadService hands out short-lived upload URLs.
type UploadService struct {
	presigner URLPresigner
	ttl       time.Duration
	now       func() time.Time
}

// NewUploadService creates a new UploadService. presigner may be nil when
// object storage is not configured.
func NewUploadService(presigner URLPresigner, ttl time.Duration) *UploadService {
	return &UploadService{presigner: presigner, ttl: ttl, now: time.Now}
}

// UploadURL returns a presigned URL for folder/<unix-millis>_<fileName>.
func (s *UploadService) UploadURL(ctx context.Context, req models.UploadURLRequest) (*models.UploadURLResponse, error) {
	if strings.TrimSpace(req.FileName) == "" || strings.TrimSpace(req.FileType) == "" {
		return nil, validationError("fileName and fileType are required")
	}
	mediaType, _, err := mime.ParseMediaType(req.FileType)
	if err != nil || mimetype.Lookup(mediaType) == nil {
		return nil, validationError("Unsupported fileType")
	}

	name := sanitizeFileName(req.FileName)
	if name == "" {
		return nil, validationError("Invalid fileName")
	}

	folder := strings.Trim(strings.TrimSpace(req.Folder), "/")
	if folder == "" {
		folder = defaultUploadFolder
	}
	if !folderPattern.MatchString(folder) {
		return nil, validationError("Invalid folder")
	}

	if s.presigner == nil {
		return nil, internalError("Object storage is not configured", nil)
	}

	key := fmt.Sprintf("%s/%d_%s", folder, s.now().UnixMilli(), name)
	url, err := s.presigner.PresignPut(ctx, key, mediaType, s.ttl)
	if err != nil {
		return nil, internalError("Failed to generate upload URL", err)
	}
	return &models.UploadURLResponse{URL: url, Key: key}, nil
}

// sanitizeFileName keeps the base name, transliterates it to ASCII and
// replaces anything outside [A-Za-z0-9._-] with underscores.
func sanitizeFileName(fileName string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), `\`, "/"))
	name = unsafeNameChars.ReplaceAllString(unidecode.Unidecode(name), "_")
	name = strings.Trim(name, "_")
	if name == "" || strings.Trim(name, ".") == "" {
		return ""
	}
	return name
}
