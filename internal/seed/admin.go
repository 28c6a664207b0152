// Package seed creates the initial admin account when no employee exists.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/waterx/internal/auth"
	"github.com/rogerio-castellano/waterx/internal/models"
	"github.com/rogerio-castellano/waterx/internal/repo"
	"github.com/rs/zerolog"
)

const AdminID = "admin-01"

type Admin struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

type Seeder struct {
	employees *repo.Store[models.Employee]
	locker    Locker
	admin     Admin
	now       func() time.Time
}

func NewSeeder(employees *repo.Store[models.Employee], locker Locker, admin Admin) *Seeder {
	if admin.Phone == "" {
		admin.Phone = "03001234567"
	}
	return &Seeder{employees: employees, locker: locker, admin: admin, now: time.Now}
}

// EnsureAdmin seeds the admin when the employee collection is empty and
// reports whether it did.
func (s *Seeder) EnsureAdmin(ctx context.Context) (bool, error) {
	if seeded, err := s.hasEmployees(ctx); err != nil || seeded {
		return false, err
	}

	unlock, err := s.locker.Lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	if seeded, err := s.hasEmployees(ctx); err != nil || seeded {
		return false, err
	}

	zerolog.Ctx(ctx).Info().Msg("No employees found. Seeding admin user...")

	hash, err := auth.HashPassword(s.admin.Password)
	if err != nil {
		return false, err
	}
	_, err = s.employees.Create(ctx, models.Employee{
		ID:       AdminID,
		Name:     s.admin.Name,
		Email:    s.admin.Email,
		Phone:    s.admin.Phone,
		Role:     models.RoleAdmin,
		JoinDate: s.now().UTC().Format(time.RFC3339),
		Status:   models.EmployeeActive,
		Password: hash,
	})
	if errors.Is(err, repo.ErrConflict) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to seed admin: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("email", s.admin.Email).Msg("Admin user seeded successfully.")
	return true, nil
}

func (s *Seeder) hasEmployees(ctx context.Context) (bool, error) {
	employees, err := s.employees.All(ctx)
	if err != nil {
		return false, err
	}
	return len(employees) > 0, nil
}
