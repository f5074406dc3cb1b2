package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

const (
	lastSearchKey     = "craftbizz_last_search"
	recentSearchesKey = "craftbizz_recent_searches"

	maxRecentSearches = 5
)

// SearchParams narrows a marketplace search. Zero values mean "no filter".
type SearchParams struct {
	Query          string
	Category       string
	MinPrice       float64
	MaxPrice       float64
	Materials      []string
	MinRating      float64
	Customizable   *bool
	VerifiedSeller *bool
	SellerID       uint

	// Sort is one of relevance, price, rating, newest, popular. Ascending
	// flips the default descending order.
	Sort      string
	Ascending bool

	Page  int
	Limit int
}

// SearchProduct is a product as returned by the search endpoint.
type SearchProduct struct {
	ID            uint     `json:"id"`
	SellerID      uint     `json:"seller_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Price         float64  `json:"price"`
	Currency      string   `json:"currency"`
	StockQuantity int      `json:"stock_quantity"`
	Customizable  bool     `json:"customizable"`
	Materials     []string `json:"materials"`
	Rating        float64  `json:"rating"`
	ViewCount     int      `json:"view_count"`
	Images        []struct {
		URL       string `json:"url"`
		IsPrimary bool   `json:"is_primary"`
	} `json:"images"`
}

// Snapshot converts a search hit into the compact form the local stores
// persist.
func (p SearchProduct) Snapshot() Product {
	snap := Product{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		Currency: p.Currency,
		Category: p.Category,
		Rating:   p.Rating,
	}
	for _, img := range p.Images {
		if img.IsPrimary {
			snap.ImageURL = img.URL
			break
		}
	}
	if snap.ImageURL == "" && len(p.Images) > 0 {
		snap.ImageURL = p.Images[0].URL
	}
	return snap
}

// SearchPage is one page of results. Stale marks a page served from the
// local cache because the live search could not reach the server.
type SearchPage struct {
	Products []SearchProduct `json:"products"`
	Total    int64           `json:"total"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
	Stale    bool            `json:"-"`
}

// Search runs marketplace searches and keeps enough local state to stay
// useful offline: the most recent result page and the last few search
// terms.
type Search struct {
	client *Client
	mu     sync.Mutex
}

// NewSearch builds the orchestrator. One instance per application.
func NewSearch(c *Client) *Search {
	return &Search{client: c}
}

// Run executes a search. A successful live search caches the page and
// records the query term; when the client is offline or the server is
// unreachable the last cached page is returned with Stale set. A server
// rejection is returned as-is, without cache fallback.
func (s *Search) Run(ctx context.Context, params SearchParams) (SearchPage, error) {
	if !s.client.Online() {
		return s.cached()
	}

	var page SearchPage
	err := s.client.do(ctx, http.MethodGet, "/products?"+params.encode(), nil, &page)
	if err != nil {
		if IsTransport(err) {
			if cachedPage, cacheErr := s.cached(); cacheErr == nil {
				return cachedPage, nil
			}
		}
		return SearchPage{}, err
	}

	s.mu.Lock()
	s.client.Store().Set(lastSearchKey, page)
	if term := strings.TrimSpace(params.Query); term != "" {
		s.recordTerm(term)
	}
	s.mu.Unlock()

	return page, nil
}

// RecentTerms returns the last search terms, most recent first.
func (s *Search) RecentTerms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var terms []string
	s.client.Store().Get(recentSearchesKey, &terms)
	return terms
}

// ClearHistory forgets the cached page and the recent terms.
func (s *Search) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client.Store().Delete(lastSearchKey)
	s.client.Store().Delete(recentSearchesKey)
}

func (s *Search) cached() (SearchPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var page SearchPage
	if !s.client.Store().Get(lastSearchKey, &page) {
		return SearchPage{}, ErrNoCachedResults
	}
	page.Stale = true
	return page, nil
}

// recordTerm pushes term onto the recent list, most recent first, deduped,
// capped. Callers hold s.mu.
func (s *Search) recordTerm(term string) {
	var terms []string
	s.client.Store().Get(recentSearchesKey, &terms)

	out := make([]string, 0, len(terms)+1)
	out = append(out, term)
	for _, t := range terms {
		if !strings.EqualFold(t, term) {
			out = append(out, t)
		}
	}
	if len(out) > maxRecentSearches {
		out = out[:maxRecentSearches]
	}
	s.client.Store().Set(recentSearchesKey, out)
}

func (p SearchParams) encode() string {
	q := url.Values{}
	if p.Query != "" {
		q.Set("q", p.Query)
	}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if p.MinPrice > 0 {
		q.Set("min_price", strconv.FormatFloat(p.MinPrice, 'f', -1, 64))
	}
	if p.MaxPrice > 0 {
		q.Set("max_price", strconv.FormatFloat(p.MaxPrice, 'f', -1, 64))
	}
	if len(p.Materials) > 0 {
		q.Set("materials", strings.Join(p.Materials, ","))
	}
	if p.MinRating > 0 {
		q.Set("min_rating", strconv.FormatFloat(p.MinRating, 'f', -1, 64))
	}
	if p.Customizable != nil {
		q.Set("customizable", strconv.FormatBool(*p.Customizable))
	}
	if p.VerifiedSeller != nil {
		q.Set("verified_seller", strconv.FormatBool(*p.VerifiedSeller))
	}
	if p.SellerID > 0 {
		q.Set("seller_id", strconv.FormatUint(uint64(p.SellerID), 10))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.Ascending {
		q.Set("order", "asc")
	}
	if p.Page > 1 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q.Encode()
}
