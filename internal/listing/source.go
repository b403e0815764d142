// AngelaMos | 2026
// source.go

package listing

import (
	"context"
)

// Source supplies the listings every new catalog starts with.
type Source interface {
	ListAllSeedListings(ctx context.Context) ([]Listing, error)
}

type staticSource struct {
	listings []Listing
}

// NewStaticSource serves a fixed set of listings, copied on every call.
func NewStaticSource(listings []Listing) Source {
	return &staticSource{listings: listings}
}

func (s *staticSource) ListAllSeedListings(context.Context) ([]Listing, error) {
	out := make([]Listing, len(s.listings))
	for i := range s.listings {
		out[i] = s.listings[i].clone()
	}
	return out, nil
}
