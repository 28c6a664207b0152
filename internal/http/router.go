package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/waterx/docs"
	"github.com/rogerio-castellano/waterx/internal/http/handlers"
	mw "github.com/rogerio-castellano/waterx/internal/http/middleware"
	rl "github.com/rogerio-castellano/waterx/internal/http/rate_limiter"
	"github.com/rogerio-castellano/waterx/internal/logger"
	"github.com/rogerio-castellano/waterx/internal/models"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// NewRouter mounts the API under /api and the Swagger UI under /swagger.
func NewRouter(s *handlers.Server, limiter *rl.Limiter, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(log))
	r.Use(middleware.Recoverer)

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.HealthHandler)
		r.With(limiter.Middleware(handlers.RateLimitedHandler)).Post("/auth/login", s.LoginHandler)

		r.Group(func(r chi.Router) {
			r.Use(mw.AuthMiddleware(s.Tokens()))

			r.Get("/dashboard", s.GetDashboardHandler)
			r.Get("/deliveries", s.GetDeliveriesHandler)
			r.With(mw.SelfOrAdmin("id")).Put("/employees/profile/{id}", s.UpdateProfileHandler)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRoles(models.RoleAdmin, models.RoleManager))

				r.Get("/customers", s.GetCustomersHandler)
				r.Post("/customers", s.CreateCustomerHandler)
				r.Put("/customers/{id}", s.UpdateCustomerHandler)
				r.Delete("/customers/{id}", s.DeleteCustomerHandler)

				r.Get("/products", s.GetProductsHandler)
				r.Post("/products", s.CreateProductHandler)
				r.Put("/products/{id}", s.UpdateProductHandler)
				r.Delete("/products/{id}", s.DeleteProductHandler)

				r.Get("/orders", s.GetOrdersHandler)
				r.Post("/orders", s.CreateOrderHandler)
				r.Put("/orders/{id}", s.UpdateOrderHandler)
				r.Delete("/orders/{id}", s.DeleteOrderHandler)

				r.Get("/transactions", s.GetTransactionsHandler)
				r.Post("/transactions", s.CreateTransactionHandler)
				r.Put("/transactions/{id}", s.UpdateTransactionHandler)
				r.Delete("/transactions/{id}", s.DeleteTransactionHandler)

				r.Get("/finance", s.GetFinanceHandler)
			})

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRoles(models.RoleAdmin))

				r.Get("/employees", s.GetEmployeesHandler)
				r.Post("/employees", s.CreateEmployeeHandler)
				r.Put("/employees/{id}", s.UpdateEmployeeHandler)
				r.Delete("/employees/{id}", s.DeleteEmployeeHandler)
			})
		})
	})

	return r
}
