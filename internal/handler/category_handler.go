package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	stderrors "errors"

	"library-be/internal/domain"
	"library-be/internal/repository"
	"library-be/pkg/errors"
	"library-be/pkg/logger"
)

// CategoryHandler serves the category CRUD endpoints
type CategoryHandler struct {
	categories repository.CategoryRepository
	log        *logger.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories repository.CategoryRepository, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, log: log}
}

func validateCategory(category *domain.Category) *errors.AppError {
	if category.Description == "" {
		return errors.NewValidationError("Category description is required", nil)
	}
	if category.Status != "" && !category.Status.Valid() {
		return errors.NewValidationError("Unknown category status", map[string]interface{}{"status": string(category.Status)})
	}
	return nil
}

// CreateCategory handles POST /api/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		writeError(w, errors.NewValidationError("Invalid request body", map[string]interface{}{"cause": err.Error()}), h.log)
		return
	}
	if category.ID != 0 {
		writeError(w, errors.NewValidationError("A new category cannot already have an ID", nil), h.log)
		return
	}
	if appErr := validateCategory(&category); appErr != nil {
		writeError(w, appErr, h.log)
		return
	}
	h.log.WithField("description", category.Description).Debug("REST request to save category")

	if err := h.categories.Create(r.Context(), &category); err != nil {
		writeFailure(w, err, h.log)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/categories/%d", category.ID))
	writeJSON(w, http.StatusCreated, category, h.log)
}

// UpdateCategory handles PUT /api/categories/{id}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, errors.NewValidationError("Invalid category id", nil), h.log)
		return
	}

	var category domain.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		writeError(w, errors.NewValidationError("Invalid request body", map[string]interface{}{"cause": err.Error()}), h.log)
		return
	}
	if category.ID != id {
		writeError(w, errors.NewValidationError("Body id does not match path id", nil), h.log)
		return
	}
	if appErr := validateCategory(&category); appErr != nil {
		writeError(w, appErr, h.log)
		return
	}
	h.log.WithField("id", id).Debug("REST request to update category")

	if err := h.categories.Update(r.Context(), &category); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			writeError(w, errors.NewNotFoundError("Category not found"), h.log)
			return
		}
		writeFailure(w, err, h.log)
		return
	}

	writeJSON(w, http.StatusOK, category, h.log)
}

// PatchCategory handles PATCH /api/categories/{id} with merge-patch semantics
func (h *CategoryHandler) PatchCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, errors.NewValidationError("Invalid category id", nil), h.log)
		return
	}

	var patch domain.CategoryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, errors.NewValidationError("Invalid request body", map[string]interface{}{"cause": err.Error()}), h.log)
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		writeError(w, errors.NewValidationError("Unknown category status", map[string]interface{}{"status": string(*patch.Status)}), h.log)
		return
	}

	category, err := h.categories.FindByID(r.Context(), id)
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}
	if category == nil {
		writeError(w, errors.NewNotFoundError("Category not found"), h.log)
		return
	}

	patch.Apply(category)
	if err := h.categories.Update(r.Context(), category); err != nil {
		writeFailure(w, err, h.log)
		return
	}

	writeJSON(w, http.StatusOK, category, h.log)
}

// GetCategory handles GET /api/categories/{id}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, errors.NewValidationError("Invalid category id", nil), h.log)
		return
	}

	category, err := h.categories.FindByID(r.Context(), id)
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}
	if category == nil {
		writeError(w, errors.NewNotFoundError("Category not found"), h.log)
		return
	}

	writeJSON(w, http.StatusOK, category, h.log)
}

// GetAllCategories handles GET /api/categories
func (h *CategoryHandler) GetAllCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.categories.Count(ctx)
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}

	categories, err := h.categories.FindAll(ctx, pageableFromRequest(r))
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}
	if categories == nil {
		categories = []*domain.Category{}
	}

	setTotalCount(w, total)
	writeJSON(w, http.StatusOK, categories, h.log)
}

// DeleteCategory handles DELETE /api/categories/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, errors.NewValidationError("Invalid category id", nil), h.log)
		return
	}
	h.log.WithField("id", id).Debug("REST request to delete category")

	if err := h.categories.Delete(r.Context(), id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			writeError(w, errors.NewNotFoundError("Category not found"), h.log)
			return
		}
		writeFailure(w, err, h.log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
