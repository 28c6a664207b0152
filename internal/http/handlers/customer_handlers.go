package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/waterx/internal/models"
)

// GetCustomersHandler godoc
// @Summary List customers
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Pagination cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} Envelope{data=repo.Page[models.Customer]}
// @Failure 400 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /customers [get]
func (s *Server) GetCustomersHandler(w http.ResponseWriter, r *http.Request) {
	page, okPage := listPage(w, r, s.stores.Customers)
	if !okPage {
		return
	}
	ok(w, r, http.StatusOK, page)
}

// CreateCustomerHandler godoc
// @Summary Create a customer
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param customer body CustomerRequest true "Customer to add"
// @Success 201 {object} Envelope{data=models.Customer}
// @Failure 400 {object} Envelope
// @Router /customers [post]
func (s *Server) CreateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := readJSON(w, r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := validateRequest(req); len(errs) > 0 {
		invalid(w, r, errs)
		return
	}

	customer := models.Customer{
		Name:          req.Name,
		Address:       req.Address,
		Contact:       req.Contact,
		BottleBalance: *req.BottleBalance,
		PaymentStatus: models.CustomerPaymentStatus(req.PaymentStatus),
		CreatedAt:     s.timestamp(),
	}
	createRecord(s, w, r, s.stores.Customers, customer, identity[models.Customer])
}

// UpdateCustomerHandler godoc
// @Summary Update a customer
// @Description Fields present in the body replace the stored ones
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Param customer body CustomerUpdateRequest true "Fields to change"
// @Success 200 {object} Envelope{data=models.Customer}
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /customers/{id} [put]
func (s *Server) UpdateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var req CustomerUpdateRequest
	patch, okPatch := decodeUpdate(w, r, &req)
	if !okPatch {
		return
	}
	patchRecord(s, w, r, s.stores.Customers, patch, identity[models.Customer])
}

// DeleteCustomerHandler godoc
// @Summary Delete a customer
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 200 {object} Envelope{data=DeleteResult}
// @Failure 404 {object} Envelope
// @Router /customers/{id} [delete]
func (s *Server) DeleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	deleteRecord(s, w, r, s.stores.Customers)
}
