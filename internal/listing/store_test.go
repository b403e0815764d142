// AngelaMos | 2026
// store_test.go

package listing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/silvershift/internal/core"
	"github.com/carterperez-dev/silvershift/internal/storage"
)

func newStore(t *testing.T, kv storage.KV) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), kv, NewStaticSource(SeedListings()), Options{})
	require.NoError(t, err)
	return s
}

func ids(listings []Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func TestNewStore_Defaults(t *testing.T) {
	s := newStore(t, storage.NewMemory())

	assert.Len(t, s.Listings(), 5)
	assert.Empty(t, s.Favorites())
	assert.Equal(t, SearchFilters{}, s.Filters())
	assert.False(t, s.IsLoading())
}

func TestToggleFavorite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())

	before, _ := s.GetListingByID("3")

	added, err := s.ToggleFavorite(ctx, "3")
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, s.IsFavorite("3"))

	mid, _ := s.GetListingByID("3")
	assert.Equal(t, before.FavoriteCount+1, mid.FavoriteCount)

	added, err = s.ToggleFavorite(ctx, "3")
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, s.IsFavorite("3"))

	after, _ := s.GetListingByID("3")
	assert.Equal(t, before.FavoriteCount, after.FavoriteCount)
}

func TestToggleFavorite_UnknownIDStillToggles(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())

	added, err := s.ToggleFavorite(ctx, "missing")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []string{"missing"}, s.Favorites())
	assert.Empty(t, s.GetFavoriteListings())
}

func TestToggleFavorite_PersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := newStore(t, kv)

	_, err := s.ToggleFavorite(ctx, "4")
	require.NoError(t, err)
	_, err = s.ToggleFavorite(ctx, "2")
	require.NoError(t, err)

	raw, err := kv.Get(ctx, FavoritesKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["4","2"]`, string(raw))

	reloaded := newStore(t, kv)
	assert.Equal(t, []string{"4", "2"}, reloaded.Favorites())
}

func TestNewStore_RestoresSavedFavorites(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, FavoritesKey, []byte(`["2","4","2"]`)))

	s := newStore(t, kv)
	assert.Equal(t, []string{"2", "4"}, s.Favorites())
	assert.True(t, s.IsFavorite("2"))
	assert.True(t, s.IsFavorite("4"))
}

func TestNewStore_DiscardsUnreadableFavorites(t *testing.T) {
	for name, raw := range map[string]string{
		"garbage":    "[1,",
		"null":       "null",
		"not a list": `{"a":1}`,
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := storage.NewMemory()
			require.NoError(t, kv.Set(ctx, FavoritesKey, []byte(raw)))

			s := newStore(t, kv)
			assert.Empty(t, s.Favorites())

			_, err := kv.Get(ctx, FavoritesKey)
			assert.True(t, storage.IsNotFound(err))
		})
	}
}

func TestGetFavoriteListings_PreservesListingOrder(t *testing.T) {
	ctx := context.Background()

	cases := map[string][]string{
		"none":     {},
		"reversed": {"5", "3", "1"},
		"all":      {"4", "2", "5", "1", "3"},
	}
	want := map[string][]string{
		"none":     {},
		"reversed": {"1", "3", "5"},
		"all":      {"1", "2", "3", "4", "5"},
	}

	for name, toggles := range cases {
		t.Run(name, func(t *testing.T) {
			s := newStore(t, storage.NewMemory())
			for _, id := range toggles {
				_, err := s.ToggleFavorite(ctx, id)
				require.NoError(t, err)
			}
			assert.Equal(t, want[name], ids(s.GetFavoriteListings()))
		})
	}
}

func TestGetListingByID_Absent(t *testing.T) {
	s := newStore(t, storage.NewMemory())

	_, ok := s.GetListingByID("nonexistent")
	assert.False(t, ok)
}

func TestListingsAreCopies(t *testing.T) {
	s := newStore(t, storage.NewMemory())

	l, _ := s.GetListingByID("1")
	l.Images[0] = "changed"
	l.FavoriteCount = 999

	again, _ := s.GetListingByID("1")
	assert.Equal(t, "/listings/hvac-1.jpg", again.Images[0])
	assert.Equal(t, 18, again.FavoriteCount)
}

func TestListingsKeepEmptyImages(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())

	require.NoError(t, s.AddListing(ctx, Listing{ID: "6", Images: []string{}}))

	l, ok := s.GetListingByID("6")
	require.True(t, ok)
	require.NotNil(t, l.Images)

	raw, err := json.Marshal(l)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"images":[]`)
}

func TestRecordInquiry(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())

	l, ok := s.RecordInquiry(ctx, "1")
	require.True(t, ok)
	assert.Equal(t, 8, l.InquiryCount)

	again, _ := s.GetListingByID("1")
	assert.Equal(t, 8, again.InquiryCount)

	_, ok = s.RecordInquiry(ctx, "nonexistent")
	assert.False(t, ok)
	assert.Len(t, s.Listings(), 5)
}

func TestSetFilters(t *testing.T) {
	s := newStore(t, storage.NewMemory())
	yes := true

	s.SetFilters(SearchFilters{Industry: "Healthcare", Verified: &yes})
	assert.Equal(t, "Healthcare", s.Filters().Industry)
	assert.True(t, *s.Filters().Verified)
}

func TestAddAndRemoveListing(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := newStore(t, kv)

	require.NoError(t, s.AddListing(ctx, Listing{ID: "6", SellerID: "2", Status: StatusDraft}))
	assert.ErrorIs(t, s.AddListing(ctx, Listing{ID: "6"}), core.ErrDuplicateKey)
	assert.Len(t, s.Listings(), 6)

	_, err := s.ToggleFavorite(ctx, "6")
	require.NoError(t, err)
	_, err = s.ToggleFavorite(ctx, "1")
	require.NoError(t, err)

	require.NoError(t, s.RemoveListing(ctx, "6"))
	assert.Equal(t, []string{"1"}, s.Favorites())
	_, ok := s.GetListingByID("6")
	assert.False(t, ok)

	raw, err := kv.Get(ctx, FavoritesKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["1"]`, string(raw))

	assert.ErrorIs(t, s.RemoveListing(ctx, "6"), core.ErrNotFound)
}

type failingKV struct {
	storage.KV
}

var errBackend = errors.New("backend down")

func (failingKV) Set(context.Context, string, []byte) error {
	return errBackend
}

func TestToggleFavorite_BackendFailureKeepsState(t *testing.T) {
	s := newStore(t, failingKV{KV: storage.NewMemory()})
	before, _ := s.GetListingByID("1")

	_, err := s.ToggleFavorite(context.Background(), "1")
	require.ErrorIs(t, err, errBackend)

	assert.False(t, s.IsFavorite("1"))
	after, _ := s.GetListingByID("1")
	assert.Equal(t, before.FavoriteCount, after.FavoriteCount)
}

func TestToggleFavorite_ConcurrentPairsCancelOut(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())
	before, _ := s.GetListingByID("2")

	done := make(chan struct{})
	for range 50 {
		go func() {
			defer func() { done <- struct{}{} }()
			_, _ = s.ToggleFavorite(ctx, "2")
		}()
	}
	for range 50 {
		<-done
	}

	after, _ := s.GetListingByID("2")
	assert.False(t, s.IsFavorite("2"))
	assert.Equal(t, before.FavoriteCount, after.FavoriteCount)
}
