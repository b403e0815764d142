// AngelaMos | 2026
// search.go

package listing

import (
	"cmp"
	"slices"
	"strings"
)

// Search returns published listings matching f, ordered by sortBy. Ties
// keep catalog order.
func (s *Store) Search(f SearchFilters, sortBy SortBy) []Listing {
	s.mu.Lock()
	matched := make([]Listing, 0, len(s.listings))
	for i := range s.listings {
		if f.matches(&s.listings[i]) {
			matched = append(matched, s.listings[i].clone())
		}
	}
	s.mu.Unlock()

	slices.SortStableFunc(matched, compareBy(sortBy))
	return matched
}

func (f SearchFilters) matches(l *Listing) bool {
	if !l.IsPublished() {
		return false
	}
	if f.Industry != "" && l.Industry != f.Industry {
		return false
	}
	if f.Location != "" && l.Location != f.Location {
		return false
	}
	if f.Verified != nil && l.Verified != *f.Verified {
		return false
	}
	if f.PriceMin != 0 && l.AskingPrice < f.PriceMin {
		return false
	}
	if f.PriceMax != 0 && l.AskingPrice > f.PriceMax {
		return false
	}
	if f.Keyword != "" {
		text := strings.ToLower(l.Title + " " + l.Description + " " + l.Industry)
		if !strings.Contains(text, strings.ToLower(f.Keyword)) {
			return false
		}
	}
	return true
}

func compareBy(sortBy SortBy) func(a, b Listing) int {
	switch sortBy {
	case SortPrice:
		return func(a, b Listing) int {
			return cmp.Compare(a.AskingPrice, b.AskingPrice)
		}
	case SortRevenue:
		return func(a, b Listing) int {
			return cmp.Compare(b.AnnualRevenue, a.AnnualRevenue)
		}
	default:
		return func(a, b Listing) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}
}

// SellerStats summarizes the listings owned by sellerID.
func (s *Store) SellerStats(sellerID string) SellerStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := SellerStats{SellerID: sellerID, Listings: []Listing{}}
	for _, l := range s.listings {
		if l.SellerID != sellerID {
			continue
		}
		stats.Listings = append(stats.Listings, l.clone())
		stats.TotalViews += l.ViewCount
		stats.TotalInquiries += l.InquiryCount
		if l.Verified {
			stats.VerifiedCount++
		}
	}
	stats.TotalListings = len(stats.Listings)
	return stats
}
