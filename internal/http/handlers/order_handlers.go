package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/waterx/internal/metrics"
	"github.com/rogerio-castellano/waterx/internal/models"
	"github.com/rogerio-castellano/waterx/internal/repo"
)

// GetOrdersHandler godoc
// @Summary List orders
// @Description Each order carries its customer name and total item count
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Pagination cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} Envelope{data=repo.Page[metrics.OrderDetails]}
// @Failure 500 {object} Envelope
// @Router /orders [get]
func (s *Server) GetOrdersHandler(w http.ResponseWriter, r *http.Request) {
	page, okPage := listPage(w, r, s.stores.Orders)
	if !okPage {
		return
	}
	details, err := s.metrics.OrdersWithDetails(r.Context(), page.Items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, repo.Page[metrics.OrderDetails]{Items: details, Next: page.Next})
}

// CreateOrderHandler godoc
// @Summary Create an order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order body OrderRequest true "Order to add"
// @Success 201 {object} Envelope{data=models.Order}
// @Failure 400 {object} Envelope
// @Router /orders [post]
func (s *Server) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := readJSON(w, r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := validateRequest(req); len(errs) > 0 {
		invalid(w, r, errs)
		return
	}

	order := models.Order{
		CustomerID:       req.CustomerID,
		Items:            orderItems(req.Items),
		DeliveryDate:     req.DeliveryDate,
		Status:           models.OrderStatus(req.Status),
		PaymentStatus:    models.PaymentStatus(req.PaymentStatus),
		AssignedDriverID: req.AssignedDriverID,
		Notes:            req.Notes,
		CreatedAt:        s.timestamp(),
	}
	createRecord(s, w, r, s.stores.Orders, order, identity[models.Order])
}

// UpdateOrderHandler godoc
// @Summary Update an order
// @Description Items in the body replace the whole item list
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param order body OrderUpdateRequest true "Fields to change"
// @Success 200 {object} Envelope{data=models.Order}
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /orders/{id} [put]
func (s *Server) UpdateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req OrderUpdateRequest
	patch, okPatch := decodeUpdate(w, r, &req)
	if !okPatch {
		return
	}
	patchRecord(s, w, r, s.stores.Orders, patch, identity[models.Order])
}

// DeleteOrderHandler godoc
// @Summary Delete an order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} Envelope{data=DeleteResult}
// @Failure 404 {object} Envelope
// @Router /orders/{id} [delete]
func (s *Server) DeleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	deleteRecord(s, w, r, s.stores.Orders)
}

// GetDeliveriesHandler godoc
// @Summary List pending deliveries
// @Description Orders that are neither delivered nor cancelled, unpaginated
// @Tags deliveries
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope{data=repo.Page[metrics.OrderDetails]}
// @Failure 500 {object} Envelope
// @Router /deliveries [get]
func (s *Server) GetDeliveriesHandler(w http.ResponseWriter, r *http.Request) {
	pending, err := s.metrics.Deliveries(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, repo.Page[metrics.OrderDetails]{Items: pending})
}
