package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelens/models"
)

// identityConverter treats every amount as already-INR.
type identityConverter struct{}

func (identityConverter) ToINR(amount *float64, _ string) *int {
	if amount == nil {
		return nil
	}
	v := int(*amount)
	return &v
}

func TestSearchWithoutKeyUsesFallback(t *testing.T) {
	svc := NewService("", identityConverter{})

	entries, fallback := svc.Search(context.Background(), "wireless headphones")

	assert.True(t, fallback)
	require.Len(t, entries, len(DefaultRetailers))
	for i, entry := range entries {
		assert.Nil(t, entry.Price)
		assert.Equal(t, "Check website", entry.PriceText)
		assert.Equal(t, DefaultRetailers[i].Name, entry.Source)
		assert.Contains(t, entry.Link, "wireless+headphones")
		assert.False(t, entry.IsLowest)
		assert.False(t, entry.IsHighest)
	}
}

func TestSearchLivePath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "google_shopping", r.URL.Query().Get("engine"))
		assert.Equal(t, "wireless headphones", r.URL.Query().Get("q"))
		assert.Equal(t, "in", r.URL.Query().Get("gl"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"shopping_results":[
			{"title":"Headphones A","price":"₹1,999","source":"Amazon.in","rating":4.5,"reviews":120,"link":"https://a.example/1"},
			{"title":"Headphones B","price":"₹2,499","source":"Flipkart","delivery":"Free delivery","link":"https://b.example/2"},
			{"title":"Headphones C","price":"₹1,999","source":"Croma","product_link":"https://c.example/3"},
			{"title":"Headphones D","price":"₹3,999","source":"Other","link":"https://d.example/4"}
		]}`))
	}))
	defer server.Close()

	svc := NewService("test-key", identityConverter{})
	svc.client.baseURL = server.URL

	entries, fallback := svc.Search(context.Background(), "wireless headphones")

	assert.False(t, fallback)
	require.Len(t, entries, 3) // top results only, D is cut

	require.NotNil(t, entries[0].Price)
	assert.Equal(t, 1999, *entries[0].Price)
	assert.True(t, entries[0].IsLowest)
	assert.False(t, entries[0].IsHighest)
	require.NotNil(t, entries[0].Rating)
	assert.InDelta(t, 4.5, *entries[0].Rating, 0.001)
	require.NotNil(t, entries[0].Reviews)
	assert.Equal(t, 120, *entries[0].Reviews)

	assert.False(t, entries[1].IsLowest)
	assert.True(t, entries[1].IsHighest)
	assert.Equal(t, "Free delivery", entries[1].Delivery)
	assert.Nil(t, entries[1].Rating)

	// A and C tie for lowest, both are marked
	assert.True(t, entries[2].IsLowest)
	assert.Equal(t, "https://c.example/3", entries[2].Link)
}

func TestSearchServiceErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := NewService("bad-key", identityConverter{})
	svc.client.baseURL = server.URL

	entries, fallback := svc.Search(context.Background(), "laptop")

	assert.True(t, fallback)
	assert.Len(t, entries, len(DefaultRetailers))
}

func TestSearchEmptyResultsFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"shopping_results":[]}`))
	}))
	defer server.Close()

	svc := NewService("test-key", identityConverter{})
	svc.client.baseURL = server.URL

	entries, fallback := svc.Search(context.Background(), "laptop")

	assert.True(t, fallback)
	assert.Len(t, entries, len(DefaultRetailers))
}

func TestMarkExtremes(t *testing.T) {
	price := func(v int) *int { return &v }

	t.Run("skips priceless entries", func(t *testing.T) {
		entries := []models.ComparisonEntry{
			{Price: nil},
			{Price: price(500)},
			{Price: price(900)},
		}
		MarkExtremes(entries)
		assert.False(t, entries[0].IsLowest)
		assert.False(t, entries[0].IsHighest)
		assert.True(t, entries[1].IsLowest)
		assert.True(t, entries[2].IsHighest)
	})

	t.Run("all tied", func(t *testing.T) {
		entries := []models.ComparisonEntry{
			{Price: price(500)},
			{Price: price(500)},
		}
		MarkExtremes(entries)
		for _, e := range entries {
			assert.True(t, e.IsLowest)
			assert.True(t, e.IsHighest)
		}
	})

	t.Run("no prices at all", func(t *testing.T) {
		entries := []models.ComparisonEntry{{Price: nil}, {Price: nil}}
		MarkExtremes(entries)
		for _, e := range entries {
			assert.False(t, e.IsLowest)
			assert.False(t, e.IsHighest)
		}
	})
}

func TestShoppingResultURL(t *testing.T) {
	assert.Equal(t, "https://a.example", ShoppingResult{Link: "https://a.example", ProductLink: "https://b.example"}.URL())
	assert.Equal(t, "https://b.example", ShoppingResult{ProductLink: "https://b.example"}.URL())
}
