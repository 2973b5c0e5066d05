package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"strings"

	"github.com/AliceYangAC/product-service-bb/internal/blob"
	perrors "github.com/AliceYangAC/product-service-bb/internal/errors"
)

// defaultExt is used when an uploaded filename carries no extension.
const defaultExt = "jpg"

// defaultMIME is returned when the stored extension is unrecognized.
const defaultMIME = "image/jpeg"

// Image is a stored product image ready to be streamed to a client.
// The caller owns Body and must close it.
type Image struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

// ImageService defines the image association operations. At most one image
// exists per product id at any time, stored as "{id}.{ext}".
type ImageService interface {
	// Upload replaces the product's image with the given content. The
	// stored filename is "{id}.{ext}" with ext derived from filename
	// (case-folded, default jpg). Every previously stored object with the
	// "{id}." prefix is removed first, so changing extension never leaves
	// a second object behind. Returns the stored filename.
	Upload(ctx context.Context, productID int64, filename string, content io.Reader) (string, error)

	// Fetch returns the product's stored image, or ErrImageNotFound when
	// none exists. If more than one object somehow matches, the first one
	// the store lists is returned.
	Fetch(ctx context.Context, productID int64) (*Image, error)
}

// Images implements ImageService on top of a blob store. Store errors are
// logged here and reported to callers only as taxonomy errors.
type Images struct {
	blobs  blob.Store
	logger *slog.Logger
}

// NewImages creates a new instance of ImageService with the provided blob store.
func NewImages(blobs blob.Store, logger *slog.Logger) *Images {
	return &Images{
		blobs:  blobs,
		logger: logger.With("component", "images"),
	}
}

// Upload stores a new image for the product, removing any previous one.
func (s *Images) Upload(ctx context.Context, productID int64, filename string, content io.Reader) (string, error) {
	if productID <= 0 || content == nil {
		return "", perrors.ErrInvalidInput
	}

	if err := s.blobs.EnsureContainer(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to ensure image container", "error", err)
		return "", perrors.ErrUploadFailed
	}

	prefix := imagePrefix(productID)
	stale, err := s.blobs.List(ctx, prefix)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list stale images", "prefix", prefix, "error", err)
		return "", perrors.ErrUploadFailed
	}
	for _, key := range stale {
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.logger.ErrorContext(ctx, "Failed to delete stale image", "key", key, "error", err)
			return "", perrors.ErrUploadFailed
		}
	}

	stored := fmt.Sprintf("%d.%s", productID, extensionOf(filename))
	if err := s.blobs.Upload(ctx, stored, content); err != nil {
		s.logger.ErrorContext(ctx, "Failed to upload image", "key", stored, "error", err)
		return "", perrors.ErrUploadFailed
	}
	return stored, nil
}

// Fetch streams back the product's stored image.
func (s *Images) Fetch(ctx context.Context, productID int64) (*Image, error) {
	prefix := imagePrefix(productID)
	keys, err := s.blobs.List(ctx, prefix)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list images", "prefix", prefix, "error", err)
		return nil, perrors.ErrImageNotFound
	}
	if len(keys) == 0 {
		return nil, perrors.ErrImageNotFound
	}

	key := keys[0]
	body, err := s.blobs.Download(ctx, key)
	if err != nil {
		if !errors.Is(err, blob.ErrObjectNotFound) {
			s.logger.ErrorContext(ctx, "Failed to download image", "key", key, "error", err)
		}
		return nil, perrors.ErrImageNotFound
	}
	return &Image{
		Filename:    key,
		ContentType: contentTypeOf(key),
		Body:        body,
	}, nil
}

// imagePrefix is the listing prefix covering every key ever stored for the
// product, regardless of extension.
func imagePrefix(productID int64) string {
	return fmt.Sprintf("%d.", productID)
}

// extensionOf derives the stored extension from an uploaded filename:
// last path extension, lower-cased, without the dot, default jpg.
func extensionOf(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return defaultExt
	}
	return ext
}

// contentTypeOf maps a stored key's extension to a MIME type,
// falling back to image/jpeg for unrecognized extensions.
func contentTypeOf(key string) string {
	mimeType := mime.TypeByExtension(path.Ext(key))
	if mimeType == "" {
		return defaultMIME
	}
	return mimeType
}
