package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchTestServer(t *testing.T, lastQuery *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		if lastQuery != nil {
			*lastQuery = r.URL.RawQuery
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"products":[{"id":1,"title":"Blue Bowl","price":30,"currency":"USD","category":"ceramics"}],"total":1,"limit":20,"offset":0}`)
	})
}

func TestSearch_Run(t *testing.T) {
	c, _ := newServerClient(t, searchTestServer(t, nil))
	search := NewSearch(c)

	page, err := search.Run(context.Background(), SearchParams{Query: "bowl"})
	assert.NoError(t, err)
	assert.False(t, page.Stale)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Blue Bowl", page.Products[0].Title)
}

func TestSearch_EncodesParams(t *testing.T) {
	var query string
	c, _ := newServerClient(t, searchTestServer(t, &query))
	search := NewSearch(c)

	customizable := true
	_, err := search.Run(context.Background(), SearchParams{
		Query:        "vase",
		Category:     "ceramics",
		MinPrice:     10,
		MaxPrice:     99.5,
		Materials:    []string{"clay", "glaze"},
		Customizable: &customizable,
		Sort:         "price",
		Ascending:    true,
		Page:         2,
		Limit:        10,
	})
	require.NoError(t, err)

	assert.Contains(t, query, "q=vase")
	assert.Contains(t, query, "category=ceramics")
	assert.Contains(t, query, "min_price=10")
	assert.Contains(t, query, "max_price=99.5")
	assert.Contains(t, query, "materials=clay%2Cglaze")
	assert.Contains(t, query, "customizable=true")
	assert.Contains(t, query, "sort=price")
	assert.Contains(t, query, "order=asc")
	assert.Contains(t, query, "page=2")
	assert.Contains(t, query, "limit=10")
}

func TestSearch_OfflineServesCachedPage(t *testing.T) {
	c, _ := newServerClient(t, searchTestServer(t, nil))
	search := NewSearch(c)

	_, err := search.Run(context.Background(), SearchParams{Query: "bowl"})
	require.NoError(t, err)

	c.SetOnline(false)
	page, err := search.Run(context.Background(), SearchParams{Query: "anything"})
	assert.NoError(t, err)
	assert.True(t, page.Stale)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Blue Bowl", page.Products[0].Title)
}

func TestSearch_OfflineWithoutCache(t *testing.T) {
	c, _ := newServerClient(t, searchTestServer(t, nil))
	search := NewSearch(c)

	c.SetOnline(false)
	_, err := search.Run(context.Background(), SearchParams{Query: "bowl"})
	assert.ErrorIs(t, err, ErrNoCachedResults)
}

func TestSearch_TransportFailureFallsBackToCache(t *testing.T) {
	server := httptest.NewServer(searchTestServer(t, nil))
	c, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)
	search := NewSearch(c)

	_, err = search.Run(context.Background(), SearchParams{Query: "bowl"})
	require.NoError(t, err)

	// Server goes away but the client still believes it is online
	server.Close()

	page, err := search.Run(context.Background(), SearchParams{Query: "bowl"})
	assert.NoError(t, err)
	assert.True(t, page.Stale)
}

func TestSearch_RecentTerms(t *testing.T) {
	c, _ := newServerClient(t, searchTestServer(t, nil))
	search := NewSearch(c)

	for _, term := range []string{"bowl", "vase", "ring", "bowl", "lamp", "rug", "mask"} {
		_, err := search.Run(context.Background(), SearchParams{Query: term})
		require.NoError(t, err)
	}

	// Capped at five, deduped, most recent first
	assert.Equal(t, []string{"mask", "rug", "lamp", "bowl", "ring"}, search.RecentTerms())
}

func TestSearch_EmptyQueryNotRecorded(t *testing.T) {
	c, _ := newServerClient(t, searchTestServer(t, nil))
	search := NewSearch(c)

	_, err := search.Run(context.Background(), SearchParams{Category: "ceramics"})
	require.NoError(t, err)

	assert.Empty(t, search.RecentTerms())
}

func TestSearch_ClearHistory(t *testing.T) {
	c, _ := newServerClient(t, searchTestServer(t, nil))
	search := NewSearch(c)

	_, err := search.Run(context.Background(), SearchParams{Query: "bowl"})
	require.NoError(t, err)

	search.ClearHistory()
	assert.Empty(t, search.RecentTerms())

	c.SetOnline(false)
	_, err = search.Run(context.Background(), SearchParams{Query: "bowl"})
	assert.ErrorIs(t, err, ErrNoCachedResults)
}
