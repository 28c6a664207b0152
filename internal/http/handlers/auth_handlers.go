package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rogerio-castellano/waterx/internal/auth"
	"github.com/rs/zerolog"
)

// LoginHandler godoc
// @Summary Authenticate an employee and return a JWT token
// @Description Seeds the admin account when no employee exists. Repeated failures lock the email out for a while.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "email and password"
// @Success 200 {object} Envelope{data=LoginResult}
// @Failure 400 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 429 {object} Envelope
// @Router /auth/login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := validateRequest(req); len(errs) > 0 {
		invalid(w, r, errs)
		return
	}

	ctx := r.Context()
	if _, err := s.seeder.EnsureAdmin(ctx); err != nil {
		writeError(w, r, err)
		return
	}

	blocked, retryAfter, err := s.lockout.Blocked(ctx, req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if blocked {
		seconds := max(int(retryAfter.Seconds()), 1)
		fail(w, r, http.StatusTooManyRequests, "too many failed login attempts", http.Header{
			"Retry-After": []string{strconv.Itoa(seconds)},
		})
		return
	}

	token, user, err := s.auth.Login(ctx, req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		if _, err := s.lockout.Fail(ctx, req.Email); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("failed to record login failure")
		}
		fail(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.lockout.Reset(ctx, req.Email); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to reset login failures")
	}
	ok(w, r, http.StatusOK, LoginResult{Token: token, User: user})
}

// RateLimitedHandler answers requests rejected by the login rate limiter.
func RateLimitedHandler(w http.ResponseWriter, r *http.Request) {
	fail(w, r, http.StatusTooManyRequests, "rate limit exceeded", http.Header{
		"Retry-After": []string{"1"},
	})
}
