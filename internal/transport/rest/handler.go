// Package rest provides the HTTP handlers for the product catalog.
package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AliceYangAC/product-service-bb/internal/domain"
	perrors "github.com/AliceYangAC/product-service-bb/internal/errors"
	"github.com/AliceYangAC/product-service-bb/internal/service"
	"github.com/AliceYangAC/product-service-bb/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxUploadMemory caps the in-memory portion of multipart parsing;
// larger files spill to disk.
const maxUploadMemory = 32 << 20

type Handler struct {
	catalog service.CatalogService
	images  service.ImageService
	version string
	logger  *slog.Logger
}

// NewHandler creates a new Handler serving the catalog and image APIs.
func NewHandler(catalog service.CatalogService, images service.ImageService, version string, logger *slog.Logger) *Handler {
	return &Handler{
		catalog: catalog,
		images:  images,
		version: version,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the catalog service.
// The product collection is served at the router root.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/health", h.Health)
	r.Get("/", h.ListAll)
	r.Post("/", h.Create)
	r.Put("/", h.Update)
	r.Post("/upload", h.UploadImage)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetByID)
		r.Delete("/", h.DeleteByID)
		r.Get("/image", h.GetImage)
	})
}

// Health reports service liveness and the running version.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

// ListAll returns every product in the catalog.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	products, err := h.catalog.ListAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(products))
	web.RespondJSON(w, mLogger, http.StatusOK, products)
}

// GetByID returns a single product.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r)
	if !ok {
		return
	}
	found, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, http.StatusNotFound, "Product not found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Create stores a new product with a server-assigned ID.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var payload domain.Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	created, err := h.catalog.Create(r.Context(), payload)
	if err != nil {
		if errors.Is(err, perrors.ErrInvalidInput) {
			mLogger.WarnContext(r.Context(), "Invalid product payload", "error", err)
			web.RespondError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID)
	web.RespondJSON(w, mLogger, http.StatusOK, created)
}

// Update merges the payload into the product identified by its id field.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var payload domain.Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	updated, err := h.catalog.Update(r.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, perrors.ErrInvalidInput):
			mLogger.WarnContext(r.Context(), "Invalid update payload", "error", err)
			web.RespondError(w, http.StatusBadRequest, "Invalid input")
		case errors.Is(err, perrors.ErrProductNotFound):
			mLogger.WarnContext(r.Context(), "Product not found for update", "ID", payload.ID)
			web.RespondError(w, http.StatusNotFound, "Product not found")
		default:
			mLogger.ErrorContext(r.Context(), "Error updating product", "ID", payload.ID, "error", err)
			web.RespondError(w, http.StatusInternalServerError, "Failed to update product")
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByID removes a product. Success is an empty 200 response.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r)
	if !ok {
		return
	}
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for deletion", "ID", id)
			web.RespondError(w, http.StatusNotFound, "Product not found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusOK)
}

// UploadImage stores a product image from a multipart form with a "file"
// part and a "productId" value.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		mLogger.WarnContext(r.Context(), "Error parsing multipart form", "error", err)
		web.RespondError(w, http.StatusBadRequest, "File and productId required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		mLogger.WarnContext(r.Context(), "Missing file part in upload", "error", err)
		web.RespondError(w, http.StatusBadRequest, "File and productId required")
		return
	}
	defer func() { _ = file.Close() }()

	productID, err := strconv.ParseInt(r.FormValue("productId"), 10, 64)
	if err != nil || productID <= 0 {
		mLogger.WarnContext(r.Context(), "Missing or invalid productId in upload", "productId", r.FormValue("productId"))
		web.RespondError(w, http.StatusBadRequest, "File and productId required")
		return
	}

	stored, err := h.images.Upload(r.Context(), productID, header.Filename, file)
	if err != nil {
		if errors.Is(err, perrors.ErrInvalidInput) {
			web.RespondError(w, http.StatusBadRequest, "File and productId required")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error uploading image", "ID", productID, "error", err)
		web.RespondError(w, http.StatusInternalServerError, "Upload failed")
		return
	}
	mLogger.InfoContext(r.Context(), "Image uploaded successfully", "ID", productID, "filename", stored)
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]string{
		"status":   "uploaded",
		"filename": stored,
	})
}

// GetImage streams the product's stored image with its MIME type.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r)
	if !ok {
		return
	}
	image, err := h.images.Fetch(r.Context(), id)
	if err != nil {
		mLogger.WarnContext(r.Context(), "Image not found", "ID", id)
		web.RespondError(w, http.StatusNotFound, "Image not found")
		return
	}
	defer func() { _ = image.Body.Close() }()

	w.Header().Set("Content-Type", image.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, image.Body); err != nil {
		mLogger.ErrorContext(r.Context(), "Error streaming image", "ID", id, "error", err)
	}
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
