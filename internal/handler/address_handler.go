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

// AddressHandler serves the address CRUD endpoints
type AddressHandler struct {
	addresses repository.AddressRepository
	log       *logger.Logger
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(addresses repository.AddressRepository, log *logger.Logger) *AddressHandler {
	return &AddressHandler{addresses: addresses, log: log}
}

func validateAddress(address *domain.Address) *errors.AppError {
	if address.Postcode == "" {
		return errors.NewValidationError("Address postcode is required", nil)
	}
	if len(address.Postcode) > 10 {
		return errors.NewValidationError("Address postcode must not exceed 10 characters", nil)
	}
	if address.Country == "" {
		return errors.NewValidationError("Address country is required", nil)
	}
	if len(address.Country) > 2 {
		return errors.NewValidationError("Address country must not exceed 2 characters", nil)
	}
	return nil
}

// CreateAddress handles POST /api/addresses
func (h *AddressHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var address domain.Address
	if err := json.NewDecoder(r.Body).Decode(&address); err != nil {
		writeError(w, errors.NewValidationError("Invalid request body", map[string]interface{}{"cause": err.Error()}), h.log)
		return
	}
	if address.ID != 0 {
		writeError(w, errors.NewValidationError("A new address cannot already have an ID", nil), h.log)
		return
	}
	if appErr := validateAddress(&address); appErr != nil {
		writeError(w, appErr, h.log)
		return
	}
	h.log.WithField("city", address.City).Debug("REST request to save address")

	if err := h.addresses.Create(r.Context(), &address); err != nil {
		writeFailure(w, err, h.log)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/addresses/%d", address.ID))
	writeJSON(w, http.StatusCreated, address, h.log)
}

// UpdateAddress handles PUT /api/addresses/{id}
func (h *AddressHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, errors.NewValidationError("Invalid address id", nil), h.log)
		return
	}

	var address domain.Address
	if err := json.NewDecoder(r.Body).Decode(&address); err != nil {
		writeError(w, errors.NewValidationError("Invalid request body", map[string]interface{}{"cause": err.Error()}), h.log)
		return
	}
	if address.ID != id {
		writeError(w, errors.NewValidationError("Body id does not match path id", nil), h.log)
		return
	}
	if appErr := validateAddress(&address); appErr != nil {
		writeError(w, appErr, h.log)
		return
	}
	h.log.WithField("id", id).Debug("REST request to update address")

	if err := h.addresses.Update(r.Context(), &address); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			writeError(w, errors.NewNotFoundError("Address not found"), h.log)
			return
		}
		writeFailure(w, err, h.log)
		return
	}

	writeJSON(w, http.StatusOK, address, h.log)
}

// PatchAddress handles PATCH /api/addresses/{id} with merge-patch semantics
func (h *AddressHandler) PatchAddress(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, errors.NewValidationError("Invalid address id", nil), h.log)
		return
	}

	var patch domain.AddressPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, errors.NewValidationError("Invalid request body", map[string]interface{}{"cause": err.Error()}), h.log)
		return
	}

	address, err := h.addresses.FindByID(r.Context(), id)
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}
	if address == nil {
		writeError(w, errors.NewNotFoundError("Address not found"), h.log)
		return
	}

	patch.Apply(address)
	if err := h.addresses.Update(r.Context(), address); err != nil {
		writeFailure(w, err, h.log)
		return
	}

	writeJSON(w, http.StatusOK, address, h.log)
}

// GetAddress handles GET /api/addresses/{id}
func (h *AddressHandler) GetAddress(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, errors.NewValidationError("Invalid address id", nil), h.log)
		return
	}

	address, err := h.addresses.FindByID(r.Context(), id)
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}
	if address == nil {
		writeError(w, errors.NewNotFoundError("Address not found"), h.log)
		return
	}

	writeJSON(w, http.StatusOK, address, h.log)
}

// GetAllAddresses handles GET /api/addresses
func (h *AddressHandler) GetAllAddresses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.addresses.Count(ctx)
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}

	addresses, err := h.addresses.FindAll(ctx, pageableFromRequest(r))
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}
	if addresses == nil {
		addresses = []*domain.Address{}
	}

	setTotalCount(w, total)
	writeJSON(w, http.StatusOK, addresses, h.log)
}

// DeleteAddress handles DELETE /api/addresses/{id}
func (h *AddressHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, errors.NewValidationError("Invalid address id", nil), h.log)
		return
	}
	h.log.WithField("id", id).Debug("REST request to delete address")

	if err := h.addresses.Delete(r.Context(), id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			writeError(w, errors.NewNotFoundError("Address not found"), h.log)
			return
		}
		writeFailure(w, err, h.log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
