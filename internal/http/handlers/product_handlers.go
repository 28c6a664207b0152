package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/waterx/internal/models"
)

// GetProductsHandler godoc
// @Summary List products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Pagination cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} Envelope{data=repo.Page[models.Product]}
// @Failure 500 {object} Envelope
// @Router /products [get]
func (s *Server) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	page, okPage := listPage(w, r, s.stores.Products)
	if !okPage {
		return
	}
	ok(w, r, http.StatusOK, page)
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product with its bottle stock to the inventory
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} Envelope{data=models.Product}
// @Failure 400 {object} Envelope
// @Router /products [post]
func (s *Server) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := validateRequest(req); len(errs) > 0 {
		invalid(w, r, errs)
		return
	}

	product := models.Product{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock.model(),
	}
	createRecord(s, w, r, s.stores.Products, product, identity[models.Product])
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description A stock object in the body replaces all three counters
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param product body ProductUpdateRequest true "Fields to change"
// @Success 200 {object} Envelope{data=models.Product}
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /products/{id} [put]
func (s *Server) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductUpdateRequest
	patch, okPatch := decodeUpdate(w, r, &req)
	if !okPatch {
		return
	}
	patchRecord(s, w, r, s.stores.Products, patch, identity[models.Product])
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} Envelope{data=DeleteResult}
// @Failure 404 {object} Envelope
// @Router /products/{id} [delete]
func (s *Server) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	deleteRecord(s, w, r, s.stores.Products)
}
