package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atelier/marketplace/internal/application/media"
)

var _ media.ObjectStorage = (*StubStorage)(nil)

// StubStorage hands out unsigned URLs under BaseURL. It is used when no
// bucket is configured so uploads can be exercised locally.
type StubStorage struct {
	BaseURL string
}

// NewStubStorage creates a StubStorage; an empty baseURL selects a placeholder host
func NewStubStorage(baseURL string) *StubStorage {
	if baseURL == "" {
		baseURL = "http://localhost:9000/atelier-media"
	}
	return &StubStorage{BaseURL: strings.TrimRight(baseURL, "/")}
}

// GenerateUploadURL returns a fake upload URL that expires after expiresIn
func (s *StubStorage) GenerateUploadURL(
	_ context.Context,
	storageKey, _ string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/upload/" + storageKey + "?expires=" + expiresAt.UTC().Format(time.RFC3339), expiresAt, nil
}

// PublicURL returns BaseURL joined with the key
func (s *StubStorage) PublicURL(storageKey string) string {
	return s.BaseURL + "/" + strings.TrimLeft(storageKey, "/")
}
