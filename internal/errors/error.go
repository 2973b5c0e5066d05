// Package errors provides the error taxonomy for catalog and image operations.
package errors

import "errors"

var (
	// ErrProductNotFound indicates no product matched the requested ID.
	ErrProductNotFound = errors.New("product not found")
	// ErrImageNotFound indicates no stored image exists for the product.
	ErrImageNotFound = errors.New("image not found")
	// ErrInvalidInput indicates malformed or missing request data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUploadFailed indicates the blob store rejected an image operation.
	// Store detail is logged server-side, never surfaced to the caller.
	ErrUploadFailed = errors.New("upload failed")
)
