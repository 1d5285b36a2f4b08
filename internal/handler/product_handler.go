package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"kasirkita/internal/middleware"
	"kasirkita/internal/model"
	"kasirkita/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxImageSize bounds uploaded product images.
const maxImageSize = 2 << 20 // 2MB

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests with pagination.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	limit := 50 // default
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit parameter", h.logger)
			return
		}
	}

	offset := 0 // default
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		var err error
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset parameter", h.logger)
			return
		}
	}

	products, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err, h.logger, nil)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID format", h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger, nil)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /api/products requests (multipart form).
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", h.logger)
		return
	}

	input, image, err := h.parseProductForm(w, r)
	if err != nil {
		writeServiceError(w, err, h.logger, nil)
		return
	}

	product, err := h.service.Create(r.Context(), claims.UserID, input, image)
	if err != nil {
		writeServiceError(w, err, h.logger, nil)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id} requests (multipart form).
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID format", h.logger)
		return
	}

	input, image, err := h.parseProductForm(w, r)
	if err != nil {
		writeServiceError(w, err, h.logger, nil)
		return
	}

	product, err := h.service.Update(r.Context(), id, input, image)
	if err != nil {
		writeServiceError(w, err, h.logger, nil)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id} requests.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID format", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger, nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// parseProductForm reads the multipart product form. Absent fields stay
// nil so updates can keep existing values; the optional image is
// validated for type and size.
func (h *ProductHandler) parseProductForm(w http.ResponseWriter, r *http.Request) (*model.ProductInput, *service.ImageUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+64*1024)

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		return nil, nil, model.NewDomainError(model.ErrCodeValidation, "invalid form data or image too large")
	}

	input := &model.ProductInput{}

	if v, ok := formValue(r, "name"); ok {
		input.Name = &v
	}
	if v, ok := formValue(r, "description"); ok {
		input.Description = &v
	}
	if v, ok := formValue(r, "category"); ok {
		input.Category = &v
	}
	if v, ok := formValue(r, "price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, nil, model.NewDomainError(model.ErrCodeValidation, "invalid price")
		}
		input.Price = &price
	}
	if v, ok := formValue(r, "stock"); ok {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, model.NewDomainError(model.ErrCodeValidation, "invalid stock")
		}
		input.Stock = &stock
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return input, nil, nil
		}
		return nil, nil, model.NewDomainError(model.ErrCodeValidation, "invalid image upload")
	}

	if header.Size > maxImageSize {
		file.Close()
		return nil, nil, model.NewDomainError(model.ErrCodeInvalidImage, "image exceeds the 2MB limit")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		file.Close()
		return nil, nil, model.NewDomainError(model.ErrCodeInvalidImage, "only jpeg, png and gif images are allowed")
	}

	return input, &service.ImageUpload{Ext: ext, Content: file}, nil
}

func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}
