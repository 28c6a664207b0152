package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/waterx/internal/auth"
	mw "github.com/rogerio-castellano/waterx/internal/http/middleware"
	"github.com/rogerio-castellano/waterx/internal/models"
	"github.com/rogerio-castellano/waterx/internal/repo"
)

func publicEmployee(e models.Employee) any { return e.Public() }

// emailTaken reports whether another employee already uses email.
func (s *Server) emailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	employees, err := s.stores.Employees.All(ctx)
	if err != nil {
		return false, err
	}
	for _, e := range employees {
		if e.ID != exceptID && strings.EqualFold(e.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// GetEmployeesHandler godoc
// @Summary List employees
// @Description Passwords are never returned
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Pagination cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} Envelope{data=repo.Page[models.Employee]}
// @Failure 403 {object} Envelope
// @Router /employees [get]
func (s *Server) GetEmployeesHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := s.seeder.EnsureAdmin(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	page, okPage := listPage(w, r, s.stores.Employees)
	if !okPage {
		return
	}
	for i := range page.Items {
		page.Items[i] = page.Items[i].Public()
	}
	ok(w, r, http.StatusOK, page)
}

// CreateEmployeeHandler godoc
// @Summary Create an employee
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param employee body EmployeeRequest true "Employee to add, password required"
// @Success 201 {object} Envelope{data=models.Employee}
// @Failure 400 {object} Envelope
// @Failure 409 {object} Envelope
// @Router /employees [post]
func (s *Server) CreateEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := readJSON(w, r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := validateRequest(req); len(errs) > 0 {
		invalid(w, r, errs)
		return
	}
	if req.Password == "" {
		fail(w, r, http.StatusBadRequest, "Password is required for new employees")
		return
	}

	taken, err := s.emailTaken(r.Context(), req.Email, "")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if taken {
		fail(w, r, http.StatusConflict, "email already in use")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	employee := models.Employee{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     models.Role(req.Role),
		JoinDate: s.timestamp(),
		Status:   models.EmployeeStatus(req.Status),
		Password: hash,
	}
	createRecord(s, w, r, s.stores.Employees, employee, publicEmployee)
}

// UpdateEmployeeHandler godoc
// @Summary Update an employee
// @Description A blank or absent password keeps the current one
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Param employee body EmployeeUpdateRequest true "Fields to change"
// @Success 200 {object} Envelope{data=models.Employee}
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /employees/{id} [put]
func (s *Server) UpdateEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	s.updateEmployee(w, r, false)
}

// UpdateProfileHandler godoc
// @Summary Update one's own profile
// @Description Non-admins may change neither their role nor their status
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Param employee body EmployeeUpdateRequest true "Fields to change"
// @Success 200 {object} Envelope{data=models.Employee}
// @Failure 400 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /employees/profile/{id} [put]
func (s *Server) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	s.updateEmployee(w, r, true)
}

func (s *Server) updateEmployee(w http.ResponseWriter, r *http.Request, profile bool) {
	var req EmployeeUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := validateRequest(req); len(errs) > 0 {
		invalid(w, r, errs)
		return
	}

	if profile {
		if claims, found := mw.ClaimsFromContext(r.Context()); !found || claims.Role != models.RoleAdmin {
			req.Role, req.Status = nil, nil
		}
	}

	id := chi.URLParam(r, "id")
	if req.Email != nil {
		taken, err := s.emailTaken(r.Context(), *req.Email, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if taken {
			fail(w, r, http.StatusConflict, "email already in use")
			return
		}
	}

	patch, err := repo.PatchFrom(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}
		patch["password"], _ = json.Marshal(hash)
	}

	patchRecord(s, w, r, s.stores.Employees, patch, publicEmployee)
}

// DeleteEmployeeHandler godoc
// @Summary Delete an employee
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} Envelope{data=DeleteResult}
// @Failure 404 {object} Envelope
// @Router /employees/{id} [delete]
func (s *Server) DeleteEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	deleteRecord(s, w, r, s.stores.Employees)
}
