package storage

import (
	"context"
	"io"
	"time"
)

// Storage abstracts the blob store that holds member avatars and rendered
// ID-card images. The card pixels are produced client-side; the backend
// only stores the result and hands out URLs.
type Storage interface {
	// Upload stores data under key (server-side upload) and returns the
	// public or bucket URL of the object.
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)

	// Download opens the object for reading.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// GetPresignedUploadURL returns a URL a client can PUT to directly.
	GetPresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error)

	// GetPresignedDownloadURL returns a time-limited download URL.
	GetPresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// Delete removes the object. Deleting an absent object is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether the object is present.
	Exists(ctx context.Context, key string) (bool, error)

	// GetFileInfo returns object metadata.
	GetFileInfo(ctx context.Context, key string) (*FileInfo, error)

	// GetStorageType returns the backend type name.
	GetStorageType() string
}

// FileInfo holds object metadata.
type FileInfo struct {
	Key          string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// StorageType identifies a backend.
type StorageType string

const (
	StorageTypeLocal StorageType = "local" // local filesystem
	StorageTypeOSS   StorageType = "oss"   // Aliyun OSS
)

// Well-known key prefixes for campaign assets.
const (
	AvatarKeyPrefix = "avatars/"
	CardKeyPrefix   = "cards/"
)

// AvatarKey builds the object key for a user's avatar.
func AvatarKey(userID string) string {
	return AvatarKeyPrefix + userID + ".png"
}

// CardKey builds the object key for a user's issued ID card.
func CardKey(userID string) string {
	return CardKeyPrefix + userID + ".png"
}
