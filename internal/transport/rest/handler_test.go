package rest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AliceYangAC/product-service-bb/internal/domain"
	perrors "github.com/AliceYangAC/product-service-bb/internal/errors"
	"github.com/AliceYangAC/product-service-bb/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCatalog is a mock implementation of the CatalogService interface
type mockCatalog struct {
	products []domain.Product
	product  *domain.Product
	error    error
}

func (m *mockCatalog) ListAll(_ context.Context) ([]domain.Product, error) {
	return m.products, m.error
}

func (m *mockCatalog) GetByID(_ context.Context, _ int64) (*domain.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockCatalog) Create(_ context.Context, payload domain.Product) (*domain.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	if payload.Fields == nil {
		return nil, perrors.ErrInvalidInput
	}
	return m.product, nil
}

func (m *mockCatalog) Update(_ context.Context, payload domain.Product) (*domain.Product, error) {
	if payload.ID <= 0 {
		return nil, perrors.ErrInvalidInput
	}
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockCatalog) Delete(_ context.Context, _ int64) error {
	return m.error
}

// mockImages is a mock implementation of the ImageService interface
type mockImages struct {
	stored string
	image  *service.Image
	error  error
}

func (m *mockImages) Upload(_ context.Context, _ int64, _ string, _ io.Reader) (string, error) {
	if m.error != nil {
		return "", m.error
	}
	return m.stored, nil
}

func (m *mockImages) Fetch(_ context.Context, _ int64) (*service.Image, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.image, nil
}

func newTestRouter(catalog service.CatalogService, images service.ImageService) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := chi.NewRouter()
	NewHandler(catalog, images, "test", logger).RegisterRoutes(mux)
	return mux
}

func doRequest(t *testing.T, mux *chi.Mux, method, target, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func Test_Handler_Health(t *testing.T) {
	mux := newTestRouter(&mockCatalog{}, &mockImages{})

	rec := doRequest(t, mux, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"test"}`, rec.Body.String())
}

func Test_Handler_ListAll(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockCatalog
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - products returned",
			mockService: &mockCatalog{products: []domain.Product{
				{ID: 1, Fields: map[string]any{"name": "Toy"}},
			}},
			expectedCode: http.StatusOK,
			expectedBody: `[{"id":1,"name":"Toy"}]`,
		},
		{
			name:         "Success - empty catalog",
			mockService:  &mockCatalog{products: []domain.Product{}},
			expectedCode: http.StatusOK,
			expectedBody: `[]`,
		},
		{
			name:         "Error - store unavailable",
			mockService:  &mockCatalog{error: errors.New("service unavailable")},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestRouter(tc.mockService, &mockImages{})

			rec := doRequest(t, mux, http.MethodGet, "/", "", nil)

			assert.Equal(t, tc.expectedCode, rec.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rec.Body.String())
			}
		})
	}
}

func Test_Handler_GetByID(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockCatalog
		target       string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product found",
			mockService:  &mockCatalog{product: &domain.Product{ID: 4, Fields: map[string]any{"name": "Toy"}}},
			target:       "/4",
			expectedCode: http.StatusOK,
			expectedBody: `{"id":4,"name":"Toy"}`,
		},
		{
			name:         "Error - product not found",
			mockService:  &mockCatalog{error: perrors.ErrProductNotFound},
			target:       "/99",
			expectedCode: http.StatusNotFound,
			expectedBody: "Product not found",
		},
		{
			name:         "Error - non-numeric id",
			mockService:  &mockCatalog{},
			target:       "/abc",
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestRouter(tc.mockService, &mockImages{})

			rec := doRequest(t, mux, http.MethodGet, tc.target, "", nil)

			assert.Equal(t, tc.expectedCode, rec.Code)
			if tc.expectedCode == http.StatusOK {
				assert.JSONEq(t, tc.expectedBody, rec.Body.String())
			} else if tc.expectedBody != "" {
				assert.Equal(t, tc.expectedBody, rec.Body.String())
			}
		})
	}
}

func Test_Handler_Create(t *testing.T) {
	created := &domain.Product{ID: 11, Fields: map[string]any{"name": "Toy"}}
	testCases := []struct {
		name         string
		mockService  *mockCatalog
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product created",
			mockService:  &mockCatalog{product: created},
			body:         `{"name":"Toy"}`,
			expectedCode: http.StatusOK,
			expectedBody: `{"id":11,"name":"Toy"}`,
		},
		{
			name:         "Error - body is not a JSON object",
			mockService:  &mockCatalog{product: created},
			body:         `"just a string"`,
			expectedCode: http.StatusBadRequest,
			expectedBody: "Invalid input",
		},
		{
			name:         "Error - empty body",
			mockService:  &mockCatalog{product: created},
			body:         ``,
			expectedCode: http.StatusBadRequest,
			expectedBody: "Invalid input",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestRouter(tc.mockService, &mockImages{})

			rec := doRequest(t, mux, http.MethodPost, "/", "application/json", strings.NewReader(tc.body))

			assert.Equal(t, tc.expectedCode, rec.Code)
			if tc.expectedCode == http.StatusOK {
				assert.JSONEq(t, tc.expectedBody, rec.Body.String())
			} else {
				assert.Equal(t, tc.expectedBody, rec.Body.String())
			}
		})
	}
}

func Test_Handler_Update(t *testing.T) {
	updated := &domain.Product{ID: 4, Fields: map[string]any{"name": "New"}}
	testCases := []struct {
		name         string
		mockService  *mockCatalog
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product updated",
			mockService:  &mockCatalog{product: updated},
			body:         `{"id":4,"name":"New"}`,
			expectedCode: http.StatusOK,
			expectedBody: `{"id":4,"name":"New"}`,
		},
		{
			name:         "Error - missing id",
			mockService:  &mockCatalog{product: updated},
			body:         `{"name":"New"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: "Invalid input",
		},
		{
			name:         "Error - product not found",
			mockService:  &mockCatalog{error: perrors.ErrProductNotFound},
			body:         `{"id":99,"name":"New"}`,
			expectedCode: http.StatusNotFound,
			expectedBody: "Product not found",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestRouter(tc.mockService, &mockImages{})

			rec := doRequest(t, mux, http.MethodPut, "/", "application/json", strings.NewReader(tc.body))

			assert.Equal(t, tc.expectedCode, rec.Code)
			if tc.expectedCode == http.StatusOK {
				assert.JSONEq(t, tc.expectedBody, rec.Body.String())
			} else {
				assert.Equal(t, tc.expectedBody, rec.Body.String())
			}
		})
	}
}

func Test_Handler_DeleteByID(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockCatalog
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - empty 200",
			mockService:  &mockCatalog{},
			expectedCode: http.StatusOK,
			expectedBody: "",
		},
		{
			name:         "Error - product not found",
			mockService:  &mockCatalog{error: perrors.ErrProductNotFound},
			expectedCode: http.StatusNotFound,
			expectedBody: "Product not found",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestRouter(tc.mockService, &mockImages{})

			rec := doRequest(t, mux, http.MethodDelete, "/4", "", nil)

			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.Equal(t, tc.expectedBody, rec.Body.String())
		})
	}
}

// multipartBody builds a multipart form with an optional file part and
// an optional productId value.
func multipartBody(t *testing.T, filename string, content []byte, productID string) (string, io.Reader) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	if productID != "" {
		require.NoError(t, mw.WriteField("productId", productID))
	}
	require.NoError(t, mw.Close())
	return mw.FormDataContentType(), &buf
}

func Test_Handler_UploadImage(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockImages
		filename     string
		productID    string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - image uploaded",
			mockService:  &mockImages{stored: "7.png"},
			filename:     "photo.PNG",
			productID:    "7",
			expectedCode: http.StatusOK,
			expectedBody: `{"status":"uploaded","filename":"7.png"}`,
		},
		{
			name:         "Error - missing file part",
			mockService:  &mockImages{},
			filename:     "",
			productID:    "7",
			expectedCode: http.StatusBadRequest,
			expectedBody: "File and productId required",
		},
		{
			name:         "Error - missing productId",
			mockService:  &mockImages{},
			filename:     "photo.png",
			productID:    "",
			expectedCode: http.StatusBadRequest,
			expectedBody: "File and productId required",
		},
		{
			name:         "Error - blob store failure",
			mockService:  &mockImages{error: perrors.ErrUploadFailed},
			filename:     "photo.png",
			productID:    "7",
			expectedCode: http.StatusInternalServerError,
			expectedBody: "Upload failed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestRouter(&mockCatalog{}, tc.mockService)
			contentType, body := multipartBody(t, tc.filename, []byte("image-bytes"), tc.productID)

			rec := doRequest(t, mux, http.MethodPost, "/upload", contentType, body)

			assert.Equal(t, tc.expectedCode, rec.Code)
			if tc.expectedCode == http.StatusOK {
				assert.JSONEq(t, tc.expectedBody, rec.Body.String())
			} else {
				assert.Equal(t, tc.expectedBody, rec.Body.String())
			}
		})
	}
}

func Test_Handler_GetImage(t *testing.T) {
	testCases := []struct {
		name          string
		mockService   *mockImages
		expectedCode  int
		expectedType  string
		expectedBytes []byte
	}{
		{
			name: "Success - image streamed",
			mockService: &mockImages{image: &service.Image{
				Filename:    "7.png",
				ContentType: "image/png",
				Body:        io.NopCloser(bytes.NewReader([]byte("png-bytes"))),
			}},
			expectedCode:  http.StatusOK,
			expectedType:  "image/png",
			expectedBytes: []byte("png-bytes"),
		},
		{
			name:         "Error - image not found",
			mockService:  &mockImages{error: perrors.ErrImageNotFound},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestRouter(&mockCatalog{}, tc.mockService)

			rec := doRequest(t, mux, http.MethodGet, "/7/image", "", nil)

			assert.Equal(t, tc.expectedCode, rec.Code)
			if tc.expectedCode == http.StatusOK {
				assert.Equal(t, tc.expectedType, rec.Header().Get("Content-Type"))
				assert.Equal(t, tc.expectedBytes, rec.Body.Bytes())
			} else {
				assert.Equal(t, "Image not found", rec.Body.String())
			}
		})
	}
}
