// AngelaMos | 2026
// handler.go

package listing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carterperez-dev/silvershift/internal/core"
	"github.com/carterperez-dev/silvershift/internal/user"
)

// Resolver returns the catalog store of the profile a request belongs to.
type Resolver func(ctx context.Context) (*Store, bool)

// UserResolver returns the signed-in user of the request's profile.
type UserResolver func(ctx context.Context) (user.User, bool)

var filterKeys = []string{"industry", "location", "keyword", "priceMin", "priceMax", "verified"}

type Handler struct {
	resolve     Resolver
	currentUser UserResolver
	validator   *validator.Validate
	now         func() time.Time
}

func NewHandler(resolve Resolver, currentUser UserResolver) *Handler {
	return &Handler{
		resolve:     resolve,
		currentUser: currentUser,
		validator:   validator.New(validator.WithRequiredStructEnabled()),
		now:         time.Now,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/listings", func(r chi.Router) {
		r.Get("/", h.Search)
		r.Post("/", h.Create)
		r.Get("/{listingID}", h.Get)
		r.Delete("/{listingID}", h.Remove)
		r.Post("/{listingID}/favorite", h.ToggleFavorite)
		r.Post("/{listingID}/inquiries", h.Inquire)
	})

	r.Get("/favorites", h.Favorites)
	r.Get("/filters", h.GetFilters)
	r.Put("/filters", h.SetFilters)
	r.Get("/reference", h.Reference)
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) (*Store, bool) {
	s, ok := h.resolve(r.Context())
	if !ok {
		core.Unauthorized(w, "profile required")
		return nil, false
	}
	return s, true
}

// Search filters by the query string. A request carrying no filter
// parameters uses the profile's saved filters.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	sortBy, err := ParseSortBy(q.Get("sort"))
	if err != nil {
		core.BadRequest(w, "sort must be one of [price revenue date]")
		return
	}

	filters := s.Filters()
	if hasAny(q, filterKeys) {
		filters, err = FiltersFromQuery(q)
		if err != nil {
			core.BadRequest(w, err.Error())
			return
		}
	}

	results := s.Search(filters, sortBy)
	core.OK(w, results)
}

func hasAny(q map[string][]string, keys []string) bool {
	for _, k := range keys {
		if _, ok := q[k]; ok {
			return true
		}
	}
	return false
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	l, found := s.GetListingByID(chi.URLParam(r, "listingID"))
	if !found {
		core.NotFound(w, "listing")
		return
	}

	core.OK(w, l)
}

func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "listingID")
	added, err := s.ToggleFavorite(r.Context(), id)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	resp := ToggleResponse{ListingID: id, Favorited: added}
	if l, found := s.GetListingByID(id); found {
		resp.FavoriteCount = &l.FavoriteCount
	}
	core.OK(w, resp)
}

func (h *Handler) Favorites(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	core.OK(w, s.GetFavoriteListings())
}

func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	core.OK(w, s.Filters())
}

func (h *Handler) SetFilters(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	var req SearchFilters
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	s.SetFilters(req)
	core.OK(w, s.Filters())
}

func (h *Handler) Reference(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, ReferenceResponse{Industries: Industries, Locations: Locations})
}

func (h *Handler) seller(w http.ResponseWriter, r *http.Request) (user.User, bool) {
	u, ok := h.currentUser(r.Context())
	if !ok {
		core.Unauthorized(w, "not signed in")
		return user.User{}, false
	}
	if !u.IsSeller() {
		core.Forbidden(w, "only sellers can manage listings")
		return user.User{}, false
	}
	return u, true
}

func (h *Handler) buyer(w http.ResponseWriter, r *http.Request) bool {
	u, ok := h.currentUser(r.Context())
	if !ok {
		core.Unauthorized(w, "not signed in")
		return false
	}
	if !u.IsBuyer() {
		core.Forbidden(w, "only buyers can send inquiries")
		return false
	}
	return true
}

// Inquire records a buyer's inquiry against a listing. The message is
// validated but not stored.
func (h *Handler) Inquire(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}
	if !h.buyer(w, r) {
		return
	}

	var req InquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	l, found := s.RecordInquiry(r.Context(), chi.URLParam(r, "listingID"))
	if !found {
		core.NotFound(w, "listing")
		return
	}

	core.Created(w, InquiryResponse{ListingID: l.ID, InquiryCount: l.InquiryCount})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}
	seller, ok := h.seller(w, r)
	if !ok {
		return
	}

	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	l := req.toListing(uuid.NewString(), seller.ID, h.now().UTC())
	if err := s.AddListing(r.Context(), l); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("listing"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, l)
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}
	seller, ok := h.seller(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "listingID")
	l, found := s.GetListingByID(id)
	if !found {
		core.NotFound(w, "listing")
		return
	}
	if l.SellerID != seller.ID {
		core.Forbidden(w, "listing belongs to another seller")
		return
	}

	if err := s.RemoveListing(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "listing")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
