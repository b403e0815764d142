// AngelaMos | 2026
// handler.go

package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/silvershift/internal/core"
)

// Resolver returns the session store of the profile a request belongs to.
type Resolver func(ctx context.Context) (*Store, bool)

type Handler struct {
	resolve   Resolver
	validator *validator.Validate
}

func NewHandler(resolve Resolver) *Handler {
	return &Handler{
		resolve:   resolve,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the session endpoints. loginLimiter guards the
// credential endpoints and may be nil.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	loginLimiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if loginLimiter != nil {
				r.Use(loginLimiter)
			}
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
		})

		r.Post("/logout", h.Logout)
		r.Get("/me", h.GetMe)
		r.Patch("/profile", h.UpdateProfile)
	})
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) (*Store, bool) {
	s, ok := h.resolve(r.Context())
	if !ok {
		core.Unauthorized(w, "profile required")
		return nil, false
	}
	return s, true
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ok, err := s.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	if !ok {
		core.JSONError(w, core.UnauthorizedError("invalid email or password"))
		return
	}

	core.OK(w, sessionOf(s))
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ok, err := s.Register(r.Context(), req.toData())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	if !ok {
		core.JSONError(w, core.DuplicateError("email"))
		return
	}

	core.Created(w, sessionOf(s))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	if err := s.Logout(r.Context()); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	core.OK(w, sessionOf(s))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	updated, err := s.UpdateProfile(r.Context(), req.toProfile())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	if !updated {
		core.Unauthorized(w, "not signed in")
		return
	}

	core.OK(w, sessionOf(s))
}
