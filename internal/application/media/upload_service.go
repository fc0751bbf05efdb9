package media

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const uploadURLExpiry = 15 * time.Minute

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ErrUnsupportedMediaType is returned for content types other than jpeg, png and webp
var ErrUnsupportedMediaType = shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", "Only image/jpeg, image/png and image/webp uploads are allowed")

// ObjectStorage signs direct uploads to the image bucket
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	PublicURL(storageKey string) string
}

// UploadURLRequest asks for a signed upload slot
type UploadURLRequest struct {
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// UploadURLResponse is a signed PUT target plus the URL the image will be served from
type UploadURLResponse struct {
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service issues presigned product image uploads
type Service struct {
	storage ObjectStorage
	logger  *zap.Logger
}

// NewService creates a new media Service
func NewService(storage ObjectStorage, logger *zap.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

// RequestUploadURL returns a 15 minute PUT URL under the vendor's prefix
func (s *Service) RequestUploadURL(ctx context.Context, vendorID uuid.UUID, req UploadURLRequest) (*UploadURLResponse, error) {
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedMediaType
	}
	// keep the client's extension when it agrees with the content type
	if e := strings.ToLower(path.Ext(req.Filename)); e == ext || (contentType == "image/jpeg" && e == ".jpeg") {
		ext = e
	}

	key := "products/" + vendorID.String() + "/" + uuid.NewString() + ext
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, uploadURLExpiry)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Upload URL issued",
		zap.String("vendor_id", vendorID.String()),
		zap.String("key", key),
		zap.String("content_type", contentType))
	return &UploadURLResponse{
		UploadURL: uploadURL,
		PublicURL: s.storage.PublicURL(key),
		Key:       key,
		ExpiresAt: expiresAt,
	}, nil
}
