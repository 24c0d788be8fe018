package adaptor

import (
	"net/http"

	"puremilk/internal/dto/request"
	"puremilk/internal/usecase"
	"puremilk/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	service usecase.CustomerService
	log     *zap.Logger
}

func NewCustomerHandler(service usecase.CustomerService, log *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		log:     log,
	}
}

// List handles GET /api/customers
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	req := request.ListCustomersFromQuery(r.URL.Query())
	if !validateRequest(w, req) {
		return
	}

	resp, err := h.service.List(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "list customers")
		return
	}

	utils.ResponseSuccess(w, "Customers retrieved", resp)
}

// Create handles POST /api/customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipal(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateCustomerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	req.Email = utils.NormalizeEmail(req.Email)
	if !validateRequest(w, req) {
		return
	}

	resp, err := h.service.Create(r.Context(), principal, &req)
	if err != nil {
		writeError(w, h.log, err, "create customer")
		return
	}

	utils.ResponseCreated(w, "Customer created", resp)
}

// Get handles GET /api/customers/{id}
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.customerID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err, "get customer")
		return
	}

	utils.ResponseSuccess(w, "Customer retrieved", resp)
}

// Update handles PUT /api/customers/{id}
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.customerID(w, r)
	if !ok {
		return
	}

	var req request.UpdateCustomerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if !validateRequest(w, req) {
		return
	}

	resp, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, h.log, err, "update customer")
		return
	}

	utils.ResponseSuccess(w, "Customer updated", resp)
}

// Delete handles DELETE /api/customers/{id}
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.customerID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, h.log, err, "delete customer")
		return
	}

	utils.ResponseSuccess(w, "Customer deleted", nil)
}

// Profile handles GET /api/customer/profile
func (h *CustomerHandler) Profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipal(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	resp, err := h.service.Profile(r.Context(), principal)
	if err != nil {
		writeError(w, h.log, err, "get customer profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved", resp)
}

func (h *CustomerHandler) customerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid customer ID", nil)
		return uuid.Nil, false
	}
	return id, true
}
