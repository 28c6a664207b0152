package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/waterx/internal/auth"
	"github.com/rogerio-castellano/waterx/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(tokens *auth.Tokens) http.Handler {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(tokens))
	r.With(RequireRoles(models.RoleAdmin, models.RoleManager)).Get("/managed", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.With(SelfOrAdmin("id")).Put("/profile/{id}", func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(claims.Subject))
	})
	return r
}

func bearer(t *testing.T, tokens *auth.Tokens, id string, role models.Role) string {
	t.Helper()
	token, err := tokens.Generate(models.Employee{ID: id, Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(h http.Handler, method, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	h := newRouter(tokens)

	tests := []struct {
		name          string
		method, path  string
		authorization string
		want          int
	}{
		{"no token", http.MethodGet, "/managed", "", http.StatusUnauthorized},
		{"bad scheme", http.MethodGet, "/managed", "Basic abc", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/managed", "Bearer abc", http.StatusUnauthorized},
		{"manager allowed", http.MethodGet, "/managed", bearer(t, tokens, "m1", models.RoleManager), http.StatusOK},
		{"driver forbidden", http.MethodGet, "/managed", bearer(t, tokens, "d1", models.RoleDriver), http.StatusForbidden},
		{"self profile", http.MethodPut, "/profile/d1", bearer(t, tokens, "d1", models.RoleDriver), http.StatusOK},
		{"other profile", http.MethodPut, "/profile/d2", bearer(t, tokens, "d1", models.RoleDriver), http.StatusForbidden},
		{"admin on other profile", http.MethodPut, "/profile/d2", bearer(t, tokens, "a1", models.RoleAdmin), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, tt.method, tt.path, tt.authorization)
			assert.Equal(t, tt.want, w.Code)
			if w.Code != http.StatusOK {
				assert.Contains(t, w.Body.String(), `"success":false`)
			}
		})
	}
}
