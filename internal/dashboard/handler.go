// AngelaMos | 2026
// handler.go

package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/silvershift/internal/core"
	"github.com/carterperez-dev/silvershift/internal/listing"
	"github.com/carterperez-dev/silvershift/internal/profile"
	"github.com/carterperez-dev/silvershift/internal/user"
)

type Handler struct {
	courses []Course
}

func NewHandler(courses []Course) *Handler {
	return &Handler{courses: courses}
}

type BuyerResponse struct {
	User               user.User         `json:"user"`
	Favorites          []listing.Listing `json:"favorites"`
	FavoriteCount      int               `json:"favoriteCount"`
	RecommendedCourses []Course          `json:"recommendedCourses"`
}

type SellerResponse struct {
	User  user.User           `json:"user"`
	Stats listing.SellerStats `json:"stats"`
}

// RegisterRoutes mounts the dashboards behind their role guards and the
// public course list.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	buyerOnly, sellerOnly func(http.Handler) http.Handler,
) {
	r.Get("/courses", h.Courses)

	r.Route("/dashboard", func(r chi.Router) {
		r.With(buyerOnly).Get("/buyer", h.Buyer)
		r.With(sellerOnly).Get("/seller", h.Seller)
	})
}

func (h *Handler) Courses(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.courses)
}

func (h *Handler) Buyer(w http.ResponseWriter, r *http.Request) {
	ws, u, ok := signedIn(w, r)
	if !ok {
		return
	}

	favorites := ws.Catalog.GetFavoriteListings()
	core.OK(w, BuyerResponse{
		User:               u,
		Favorites:          favorites,
		FavoriteCount:      len(favorites),
		RecommendedCourses: h.courses[:min(RecommendedCourses, len(h.courses))],
	})
}

func (h *Handler) Seller(w http.ResponseWriter, r *http.Request) {
	ws, u, ok := signedIn(w, r)
	if !ok {
		return
	}

	core.OK(w, SellerResponse{
		User:  u,
		Stats: ws.Catalog.SellerStats(u.ID),
	})
}

func signedIn(
	w http.ResponseWriter,
	r *http.Request,
) (*profile.Workspace, user.User, bool) {
	ws, ok := profile.FromContext(r.Context())
	if !ok {
		core.Unauthorized(w, "profile required")
		return nil, user.User{}, false
	}

	u, ok := ws.Session.CurrentUser()
	if !ok {
		core.Unauthorized(w, "not signed in")
		return nil, user.User{}, false
	}

	return ws, u, true
}
