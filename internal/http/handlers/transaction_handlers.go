package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/waterx/internal/models"
)

// GetTransactionsHandler godoc
// @Summary List finance transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Pagination cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} Envelope{data=repo.Page[models.Transaction]}
// @Failure 500 {object} Envelope
// @Router /transactions [get]
func (s *Server) GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	page, okPage := listPage(w, r, s.stores.Transactions)
	if !okPage {
		return
	}
	ok(w, r, http.StatusOK, page)
}

// CreateTransactionHandler godoc
// @Summary Record a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transaction body TransactionRequest true "Transaction to add"
// @Success 201 {object} Envelope{data=models.Transaction}
// @Failure 400 {object} Envelope
// @Router /transactions [post]
func (s *Server) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := readJSON(w, r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := validateRequest(req); len(errs) > 0 {
		invalid(w, r, errs)
		return
	}

	tx := models.Transaction{
		OrderID:     req.OrderID,
		Type:        models.TransactionType(req.Type),
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
		Category:    models.TransactionCategory(req.Category),
	}
	createRecord(s, w, r, s.stores.Transactions, tx, identity[models.Transaction])
}

// UpdateTransactionHandler godoc
// @Summary Update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param transaction body TransactionUpdateRequest true "Fields to change"
// @Success 200 {object} Envelope{data=models.Transaction}
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /transactions/{id} [put]
func (s *Server) UpdateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req TransactionUpdateRequest
	patch, okPatch := decodeUpdate(w, r, &req)
	if !okPatch {
		return
	}
	patchRecord(s, w, r, s.stores.Transactions, patch, identity[models.Transaction])
}

// DeleteTransactionHandler godoc
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} Envelope{data=DeleteResult}
// @Failure 404 {object} Envelope
// @Router /transactions/{id} [delete]
func (s *Server) DeleteTransactionHandler(w http.ResponseWriter, r *http.Request) {
	deleteRecord(s, w, r, s.stores.Transactions)
}
