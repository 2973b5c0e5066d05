package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/AliceYangAC/product-service-bb/internal/blob/memory"
	perrors "github.com/AliceYangAC/product-service-bb/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImagesForTest(t *testing.T) (*Images, *memory.Backend) {
	t.Helper()
	backend := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewImages(backend, logger), backend
}

func Test_Images_Upload(t *testing.T) {
	testCases := []struct {
		name           string
		productID      int64
		filename       string
		content        io.Reader
		expectedStored string
		expectError    error
	}{
		{
			name:           "Success - extension case-folded",
			productID:      7,
			filename:       "photo.PNG",
			content:        bytes.NewReader([]byte("png-bytes")),
			expectedStored: "7.png",
		},
		{
			name:           "Success - missing extension defaults to jpg",
			productID:      3,
			filename:       "photo",
			content:        bytes.NewReader([]byte("bytes")),
			expectedStored: "3.jpg",
		},
		{
			name:           "Success - only last extension counts",
			productID:      4,
			filename:       "archive.tar.gif",
			content:        bytes.NewReader([]byte("bytes")),
			expectedStored: "4.gif",
		},
		{
			name:        "Error - missing product id",
			productID:   0,
			filename:    "photo.png",
			content:     bytes.NewReader([]byte("bytes")),
			expectError: perrors.ErrInvalidInput,
		},
		{
			name:        "Error - missing content",
			productID:   7,
			filename:    "photo.png",
			content:     nil,
			expectError: perrors.ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc, backend := newImagesForTest(t)
			// when
			stored, err := svc.Upload(context.Background(), tc.productID, tc.filename, tc.content)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedStored, stored)

			keys, err := backend.List(context.Background(), "")
			require.NoError(t, err)
			assert.Equal(t, []string{tc.expectedStored}, keys)
		})
	}
}

// Replacing an image across an extension change must leave exactly one
// stored object for the product.
func Test_Images_Upload_ReplacesAcrossExtensions(t *testing.T) {
	// given
	svc, backend := newImagesForTest(t)
	ctx := context.Background()

	stored, err := svc.Upload(ctx, 7, "photo.PNG", bytes.NewReader([]byte("old")))
	require.NoError(t, err)
	require.Equal(t, "7.png", stored)

	// when
	stored, err = svc.Upload(ctx, 7, "x.jpg", bytes.NewReader([]byte("new")))

	// then
	require.NoError(t, err)
	assert.Equal(t, "7.jpg", stored)

	keys, err := backend.List(ctx, "7.")
	require.NoError(t, err)
	assert.Equal(t, []string{"7.jpg"}, keys)
}

// An image for product 71 must not be clobbered by uploads for product 7:
// the prefix includes the dot.
func Test_Images_Upload_PrefixIsExact(t *testing.T) {
	// given
	svc, backend := newImagesForTest(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, 71, "a.png", bytes.NewReader([]byte("keep")))
	require.NoError(t, err)

	// when
	_, err = svc.Upload(ctx, 7, "b.png", bytes.NewReader([]byte("new")))

	// then
	require.NoError(t, err)
	keys, err := backend.List(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"7.png", "71.png"}, keys)
}

func Test_Images_Fetch(t *testing.T) {
	// given
	svc, _ := newImagesForTest(t)
	ctx := context.Background()
	_, err := svc.Upload(ctx, 7, "photo.png", bytes.NewReader([]byte("png-bytes")))
	require.NoError(t, err)

	// when
	image, err := svc.Fetch(ctx, 7)

	// then
	require.NoError(t, err)
	defer func() { _ = image.Body.Close() }()
	assert.Equal(t, "7.png", image.Filename)
	assert.Equal(t, "image/png", image.ContentType)
	data, err := io.ReadAll(image.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func Test_Images_Fetch_NotFound(t *testing.T) {
	// given
	svc, _ := newImagesForTest(t)
	// when
	image, err := svc.Fetch(context.Background(), 12)
	// then
	assert.ErrorIs(t, err, perrors.ErrImageNotFound)
	assert.Nil(t, image)
}

func Test_Images_Fetch_UnknownExtensionDefaultsToJpeg(t *testing.T) {
	// given
	svc, _ := newImagesForTest(t)
	ctx := context.Background()
	_, err := svc.Upload(ctx, 9, "capture.xyzimg", bytes.NewReader([]byte("bytes")))
	require.NoError(t, err)

	// when
	image, err := svc.Fetch(ctx, 9)

	// then
	require.NoError(t, err)
	defer func() { _ = image.Body.Close() }()
	assert.Equal(t, "image/jpeg", image.ContentType)
}
