package handler

import (
	"net/http"
	"strconv"

	"threadcart/internal/model"
	"threadcart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CatalogHandler handles catalogue read requests.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalogue handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// List handles GET /api/products requests.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error(), h.logger)
		return
	}

	page, svcErr := h.service.ListProducts(r.Context(), filter)
	if svcErr != nil {
		writeServiceError(w, svcErr, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /api/products/{slug} requests.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "product slug is required", h.logger)
		return
	}

	product, err := h.service.GetProduct(r.Context(), slug)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeProductNotFound, "product not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Categories handles GET /api/categories requests.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

func parseFilter(r *http.Request) (model.ProductFilter, error) {
	q := r.URL.Query()

	filter := model.ProductFilter{
		Query:        q.Get("q"),
		CategorySlug: q.Get("category"),
		Sort:         q.Get("sort"),
		InStockOnly:  q.Get("stock") == "in",
	}

	if raw := q.Get("min"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil || min.IsNegative() {
			return filter, errInvalidPrice("min")
		}
		filter.MinPrice = &min
	}
	if raw := q.Get("max"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil || max.IsNegative() {
			return filter, errInvalidPrice("max")
		}
		filter.MaxPrice = &max
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, model.NewDomainError(model.ErrCodeInvalidInput, "page must be a positive integer")
		}
		filter.Page = page
	}

	return filter, nil
}

func errInvalidPrice(field string) error {
	return model.NewDomainError(model.ErrCodeInvalidInput, field+" must be a non-negative number")
}
