package handlers

import (
	"net/http"
	"time"

	"dayTracker/internal/handlers/dto"
	"dayTracker/internal/logger"

	"go.uber.org/zap"
)

type CategoryHandler struct {
	CategoryService CategoryService
}

func NewCategoryHandler(categoryService CategoryService) CategoryHandler {
	return CategoryHandler{
		CategoryService: categoryService,
	}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	isActive, fe := queryBool(r, "isActive")
	if fe != nil {
		logger.Warn("HTTP: Invalid query parameter",
			zap.String("query", fe.Field),
			zap.String("client_ip", r.RemoteAddr))
		writeValidationError(w, r, *fe)
		return
	}

	res, err := h.CategoryService.ListCategories(r.Context(), isActive)
	if err != nil {
		handleServiceError(w, r, err, "list_categories")
		return
	}

	logger.Info("HTTP_OUT: Categories listed",
		zap.Int("count", len(res.Data)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	writeResult(w, r, res)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, fe := pathID(r, "id")
	if fe != nil {
		logger.Warn("HTTP: Invalid category id",
			zap.String("client_ip", r.RemoteAddr))
		writeValidationError(w, r, *fe)
		return
	}

	res, err := h.CategoryService.GetCategory(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_category")
		return
	}

	logger.Info("HTTP_OUT: Category found",
		zap.String("category_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	writeResult(w, r, res)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CategoryRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	res, err := h.CategoryService.CreateCategory(r.Context(), request.Input())
	if err != nil {
		handleServiceError(w, r, err, "create_category")
		return
	}

	logger.Info("HTTP_OUT: Category created",
		zap.String("category_id", res.Data.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	writeResult(w, r, res)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, fe := pathID(r, "id")
	if fe != nil {
		logger.Warn("HTTP: Invalid category id",
			zap.String("client_ip", r.RemoteAddr))
		writeValidationError(w, r, *fe)
		return
	}

	var request dto.CategoryRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	res, err := h.CategoryService.UpdateCategory(r.Context(), id, request.Input())
	if err != nil {
		handleServiceError(w, r, err, "update_category")
		return
	}

	logger.Info("HTTP_OUT: Category updated",
		zap.String("category_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	writeResult(w, r, res)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, fe := pathID(r, "id")
	if fe != nil {
		logger.Warn("HTTP: Invalid category id",
			zap.String("client_ip", r.RemoteAddr))
		writeValidationError(w, r, *fe)
		return
	}

	res, err := h.CategoryService.DeleteCategory(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "delete_category")
		return
	}

	logger.Info("HTTP_OUT: Category deleted",
		zap.String("category_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	writeResult(w, r, res)
}

func (h *CategoryHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.ReorderCategoriesRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	res, err := h.CategoryService.ReorderCategories(r.Context(), request.Categories)
	if err != nil {
		handleServiceError(w, r, err, "reorder_categories")
		return
	}

	logger.Info("HTTP_OUT: Categories reordered",
		zap.Int("count", len(request.Categories)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	writeResult(w, r, res)
}
