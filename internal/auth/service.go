package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rogerio-castellano/waterx/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type EmployeeLister interface {
	All(ctx context.Context) ([]models.Employee, error)
}

// Service authenticates employees against the employee collection.
type Service struct {
	employees EmployeeLister
	tokens    *Tokens
}

func NewService(employees EmployeeLister, tokens *Tokens) *Service {
	return &Service{employees: employees, tokens: tokens}
}

func (s *Service) Tokens() *Tokens {
	return s.tokens
}

// Login matches email case-insensitively and returns a signed token with the
// employee, password stripped.
func (s *Service) Login(ctx context.Context, email, password string) (string, models.Employee, error) {
	employees, err := s.employees.All(ctx)
	if err != nil {
		return "", models.Employee{}, fmt.Errorf("failed to load employees: %w", err)
	}

	var found *models.Employee
	for i := range employees {
		if strings.EqualFold(employees[i].Email, email) {
			found = &employees[i]
			break
		}
	}
	if found == nil || found.Password == "" || !CheckPassword(found.Password, password) {
		return "", models.Employee{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(*found)
	if err != nil {
		return "", models.Employee{}, err
	}
	return token, found.Public(), nil
}
