// AngelaMos | 2026
// dto.go

package listing

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/carterperez-dev/silvershift/internal/core"
)

// SearchFilters narrow a listing search. Zero values do not filter;
// Verified is tri-state.
type SearchFilters struct {
	Industry string `json:"industry,omitempty" validate:"max=100"`
	PriceMin int64  `json:"priceMin,omitempty" validate:"min=0"`
	PriceMax int64  `json:"priceMax,omitempty" validate:"min=0"`
	Location string `json:"location,omitempty" validate:"max=100"`
	Verified *bool  `json:"verified,omitempty"`
	Keyword  string `json:"keyword,omitempty"  validate:"max=200"`
}

type SortBy string

const (
	SortPrice   SortBy = "price"
	SortRevenue SortBy = "revenue"
	SortDate    SortBy = "date"
)

func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(s) {
	case "", SortDate:
		return SortDate, nil
	case SortPrice, SortRevenue:
		return SortBy(s), nil
	}
	return "", fmt.Errorf("sort %q: %w", s, core.ErrInvalidInput)
}

// FiltersFromQuery reads filters from URL query parameters of the same
// names as the JSON fields.
func FiltersFromQuery(q url.Values) (SearchFilters, error) {
	f := SearchFilters{
		Industry: q.Get("industry"),
		Location: q.Get("location"),
		Keyword:  q.Get("keyword"),
	}

	var err error
	if f.PriceMin, err = parseInt64(q, "priceMin"); err != nil {
		return SearchFilters{}, err
	}
	if f.PriceMax, err = parseInt64(q, "priceMax"); err != nil {
		return SearchFilters{}, err
	}

	if v := q.Get("verified"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return SearchFilters{}, fmt.Errorf("verified %q: %w", v, core.ErrInvalidInput)
		}
		f.Verified = &b
	}

	return f, nil
}

func parseInt64(q url.Values, key string) (int64, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", key, v, core.ErrInvalidInput)
	}
	return n, nil
}

type SellerStats struct {
	SellerID       string    `json:"sellerId"`
	Listings       []Listing `json:"listings"`
	TotalListings  int       `json:"totalListings"`
	TotalViews     int       `json:"totalViews"`
	TotalInquiries int       `json:"totalInquiries"`
	VerifiedCount  int       `json:"verifiedCount"`
}

type ToggleResponse struct {
	ListingID     string `json:"listingId"`
	Favorited     bool   `json:"favorited"`
	FavoriteCount *int   `json:"favoriteCount,omitempty"`
}

type InquiryRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type InquiryResponse struct {
	ListingID    string `json:"listingId"`
	InquiryCount int    `json:"inquiryCount"`
}

type CreateListingRequest struct {
	Title           string    `json:"title"           validate:"required,min=3,max=200"`
	Description     string    `json:"description"     validate:"required,max=5000"`
	Industry        string    `json:"industry"        validate:"required,max=100"`
	Location        string    `json:"location"        validate:"required,max=100"`
	AskingPrice     int64     `json:"askingPrice"     validate:"min=0"`
	AnnualRevenue   int64     `json:"annualRevenue"   validate:"min=0"`
	YearEstablished int       `json:"yearEstablished" validate:"min=1800,max=2100"`
	EmployeeCount   *int      `json:"employeeCount"   validate:"omitempty,min=0"`
	Status          string    `json:"status"          validate:"omitempty,oneof=DRAFT PUBLISHED"`
	Images          []string  `json:"images"          validate:"max=20,dive,max=512"`
	Financials      Financial `json:"financials"`
}

func (r CreateListingRequest) toListing(id, sellerID string, now time.Time) Listing {
	status := r.Status
	if status == "" {
		status = StatusDraft
	}
	images := r.Images
	if images == nil {
		images = []string{}
	}
	return Listing{
		ID:              id,
		SellerID:        sellerID,
		Title:           r.Title,
		Description:     r.Description,
		Industry:        r.Industry,
		Location:        r.Location,
		AskingPrice:     r.AskingPrice,
		AnnualRevenue:   r.AnnualRevenue,
		YearEstablished: r.YearEstablished,
		EmployeeCount:   r.EmployeeCount,
		Status:          status,
		Images:          images,
		Financials:      r.Financials,
		CreatedAt:       now,
	}
}

type ReferenceResponse struct {
	Industries []string `json:"industries"`
	Locations  []string `json:"locations"`
}
