// AngelaMos | 2026
// store.go

// Package listing holds the catalog store: the listings a profile browses
// and the set of listings it has marked as favorites. Only favorites are
// persisted.
package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/silvershift/internal/core"
	"github.com/carterperez-dev/silvershift/internal/storage"
)

const FavoritesKey = "silvershift_favorites"

var tracer = core.Tracer("silvershift/listing")

type Options struct {
	Logger  *slog.Logger
	Metrics *core.Metrics
}

type Store struct {
	kv      storage.KV
	logger  *slog.Logger
	metrics *core.Metrics

	mu        sync.Mutex
	listings  []Listing
	favorites []string
	filters   SearchFilters
	isLoading bool
}

// NewStore seeds listings from source and restores saved favorites. An
// unreadable favorites entry is removed and the set starts empty.
func NewStore(
	ctx context.Context,
	kv storage.KV,
	source Source,
	opts Options,
) (*Store, error) {
	listings, err := source.ListAllSeedListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load seed listings: %w", err)
	}

	s := &Store{
		kv:       kv,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		listings: listings,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	if err := s.restore(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) restore(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, FavoritesKey)
	if storage.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read saved favorites: %w", err)
	}

	var saved *[]string
	if err := json.Unmarshal(raw, &saved); err != nil || saved == nil {
		s.logger.Warn("discarding unreadable saved favorites",
			"key", FavoritesKey,
			"error", err,
		)
		if err := s.kv.Delete(ctx, FavoritesKey); err != nil {
			return fmt.Errorf("delete saved favorites: %w", err)
		}
		return nil
	}

	ids := make([]string, 0, len(*saved))
	for _, id := range *saved {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	s.favorites = ids
	return nil
}

// persistFavorites writes ids as the saved set. Callers hold s.mu.
func (s *Store) persistFavorites(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := s.kv.Set(ctx, FavoritesKey, raw); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}

// ToggleFavorite flips id in the favorites set and moves the listing's
// favorite count with it. Both follow from a single membership check. An
// id with no listing is still toggled.
func (s *Store) ToggleFavorite(
	ctx context.Context,
	id string,
) (added bool, err error) {
	ctx, span := tracer.Start(ctx, "listing.ToggleFavorite")
	defer func() {
		span.SetAttributes(
			attribute.String("listing.id", id),
			attribute.Bool("listing.favorited", added),
		)
		core.EndSpan(span, err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	wasFavorite := slices.Contains(s.favorites, id)

	var next []string
	if wasFavorite {
		next = slices.DeleteFunc(slices.Clone(s.favorites), func(f string) bool {
			return f == id
		})
	} else {
		next = append(slices.Clone(s.favorites), id)
	}

	if err := s.persistFavorites(ctx, next); err != nil {
		return false, err
	}

	s.favorites = next
	if i := s.indexOf(id); i >= 0 {
		if wasFavorite {
			s.listings[i].FavoriteCount--
		} else {
			s.listings[i].FavoriteCount++
		}
	}

	s.metrics.ObserveFavorite(!wasFavorite)
	return !wasFavorite, nil
}

// GetFavoriteListings returns the favorited listings in listing order.
func (s *Store) GetFavoriteListings() []Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Listing, 0, len(s.favorites))
	for _, l := range s.listings {
		if slices.Contains(s.favorites, l.ID) {
			out = append(out, l.clone())
		}
	}
	return out
}

func (s *Store) GetListingByID(id string) (Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Listing{}, false
	}
	return s.listings[i].clone(), true
}

// RecordInquiry bumps the inquiry count of id and returns the updated
// listing. An unknown id reports false and changes nothing.
func (s *Store) RecordInquiry(ctx context.Context, id string) (Listing, bool) {
	_, span := tracer.Start(ctx, "listing.RecordInquiry")
	defer span.End()
	span.SetAttributes(attribute.String("listing.id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Listing{}, false
	}
	s.listings[i].InquiryCount++
	return s.listings[i].clone(), true
}

// AddListing appends l to the catalog. Favorites are left untouched.
func (s *Store) AddListing(_ context.Context, l Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(l.ID) >= 0 {
		return fmt.Errorf("add listing %s: %w", l.ID, core.ErrDuplicateKey)
	}

	s.listings = append(s.listings, l.clone())
	return nil
}

// RemoveListing drops the listing and prunes it from favorites so no
// favorite points at a missing listing.
func (s *Store) RemoveListing(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove listing %s: %w", id, core.ErrNotFound)
	}

	if slices.Contains(s.favorites, id) {
		next := slices.DeleteFunc(slices.Clone(s.favorites), func(f string) bool {
			return f == id
		})
		if err := s.persistFavorites(ctx, next); err != nil {
			return err
		}
		s.favorites = next
	}

	s.listings = slices.Delete(s.listings, i, i+1)
	return nil
}

// SetFilters replaces the current filters without validating them.
func (s *Store) SetFilters(f SearchFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = f
}

func (s *Store) Filters() SearchFilters {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filters
}

// IsLoading is reserved for asynchronous loading and is always false.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.isLoading
}

func (s *Store) Listings() []Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Listing, len(s.listings))
	for i := range s.listings {
		out[i] = s.listings[i].clone()
	}
	return out
}

// Favorites returns favorited ids in the order they were added.
func (s *Store) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.favorites)
}

func (s *Store) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Contains(s.favorites, id)
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.listings, func(l Listing) bool {
		return l.ID == id
	})
}
