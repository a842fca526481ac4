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

// CustomerHandler serves the customer CRUD endpoints
type CustomerHandler struct {
	customers repository.CustomerRepository
	log       *logger.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customers repository.CustomerRepository, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{customers: customers, log: log}
}

// CreateCustomer handles POST /api/customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var customer domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		writeError(w, errors.NewValidationError("Invalid request body", map[string]interface{}{"cause": err.Error()}), h.log)
		return
	}
	if customer.ID != 0 {
		writeError(w, errors.NewValidationError("A new customer cannot already have an ID", nil), h.log)
		return
	}
	h.log.WithField("email", customer.Email).Debug("REST request to save customer")

	if err := h.customers.Create(r.Context(), &customer); err != nil {
		writeFailure(w, err, h.log)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/customers/%d", customer.ID))
	writeJSON(w, http.StatusCreated, customer, h.log)
}

// UpdateCustomer handles PUT /api/customers/{id}
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, errors.NewValidationError("Invalid customer id", nil), h.log)
		return
	}

	var customer domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		writeError(w, errors.NewValidationError("Invalid request body", map[string]interface{}{"cause": err.Error()}), h.log)
		return
	}
	if customer.ID != id {
		writeError(w, errors.NewValidationError("Body id does not match path id", nil), h.log)
		return
	}
	h.log.WithField("id", id).Debug("REST request to update customer")

	if err := h.customers.Update(r.Context(), &customer); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			writeError(w, errors.NewNotFoundError("Customer not found"), h.log)
			return
		}
		writeFailure(w, err, h.log)
		return
	}

	writeJSON(w, http.StatusOK, customer, h.log)
}

// PatchCustomer handles PATCH /api/customers/{id} with merge-patch semantics
func (h *CustomerHandler) PatchCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, errors.NewValidationError("Invalid customer id", nil), h.log)
		return
	}

	var patch domain.CustomerPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, errors.NewValidationError("Invalid request body", map[string]interface{}{"cause": err.Error()}), h.log)
		return
	}

	customer, err := h.customers.FindByID(r.Context(), id)
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}
	if customer == nil {
		writeError(w, errors.NewNotFoundError("Customer not found"), h.log)
		return
	}

	patch.Apply(customer)
	if err := h.customers.Update(r.Context(), customer); err != nil {
		writeFailure(w, err, h.log)
		return
	}

	writeJSON(w, http.StatusOK, customer, h.log)
}

// GetCustomer handles GET /api/customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, errors.NewValidationError("Invalid customer id", nil), h.log)
		return
	}

	customer, err := h.customers.FindByID(r.Context(), id)
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}
	if customer == nil {
		writeError(w, errors.NewNotFoundError("Customer not found"), h.log)
		return
	}

	writeJSON(w, http.StatusOK, customer, h.log)
}

// GetAllCustomers handles GET /api/customers
func (h *CustomerHandler) GetAllCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.customers.Count(ctx)
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}

	customers, err := h.customers.FindAll(ctx, pageableFromRequest(r))
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}
	if customers == nil {
		customers = []*domain.Customer{}
	}

	setTotalCount(w, total)
	writeJSON(w, http.StatusOK, customers, h.log)
}

// DeleteCustomer handles DELETE /api/customers/{id}
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, errors.NewValidationError("Invalid customer id", nil), h.log)
		return
	}
	h.log.WithField("id", id).Debug("REST request to delete customer")

	if err := h.customers.Delete(r.Context(), id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			writeError(w, errors.NewNotFoundError("Customer not found"), h.log)
			return
		}
		writeFailure(w, err, h.log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
