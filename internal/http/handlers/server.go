package handlers

import (
	"time"

	"github.com/rogerio-castellano/waterx/internal/auth"
	"github.com/rogerio-castellano/waterx/internal/events"
	"github.com/rogerio-castellano/waterx/internal/http/ban"
	"github.com/rogerio-castellano/waterx/internal/metrics"
	"github.com/rogerio-castellano/waterx/internal/repo"
	"github.com/rogerio-castellano/waterx/internal/seed"
)

// Server holds the dependencies shared by every handler.
type Server struct {
	stores    *repo.Stores
	metrics   *metrics.Service
	auth      *auth.Service
	lockout   ban.Lockout
	seeder    *seed.Seeder
	publisher events.Publisher
	now       func() time.Time
}

type Deps struct {
	Stores    *repo.Stores
	Auth      *auth.Service
	Lockout   ban.Lockout
	Seeder    *seed.Seeder
	Publisher events.Publisher
}

func NewServer(d Deps) *Server {
	if d.Publisher == nil {
		d.Publisher = events.Noop{}
	}
	if d.Lockout == nil {
		d.Lockout = ban.NewMemoryLockout(ban.DefaultLimit, ban.DefaultWindow)
	}
	return &Server{
		stores:    d.Stores,
		metrics:   metrics.NewService(d.Stores.Orders, d.Stores.Customers, d.Stores.Products, d.Stores.Transactions),
		auth:      d.Auth,
		lockout:   d.Lockout,
		seeder:    d.Seeder,
		publisher: d.Publisher,
		now:       time.Now,
	}
}

// SetClock replaces the time source for timestamps and "today".
func (s *Server) SetClock(now func() time.Time) {
	s.now = now
	s.metrics.SetClock(now)
}

func (s *Server) Tokens() *auth.Tokens {
	return s.auth.Tokens()
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}
