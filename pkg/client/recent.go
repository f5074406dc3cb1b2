package client

import (
	"time"
)

const (
	recentlyViewedKey = "craftbizz_recently_viewed"

	// Retention limits: newest-first, bounded count, bounded age.
	maxRecentlyViewed = 20
	recentlyViewedTTL = 30 * 24 * time.Hour
)

// RecentEntry is one product view: the snapshot shown plus when it was
// seen.
type RecentEntry struct {
	Product  Product   `json:"product"`
	ViewedAt time.Time `json:"viewed_at"`
}

// RecentlyViewed tracks the products a user looked at, newest first.
type RecentlyViewed struct {
	client *Client
	now    func() time.Time
}

// NewRecentlyViewed builds the store. One instance per application.
func NewRecentlyViewed(c *Client) *RecentlyViewed {
	return &RecentlyViewed{client: c, now: time.Now}
}

// Add records a view of product. Viewing a product already in the list
// moves it to the front with a fresh timestamp; the list never exceeds 20
// entries and never holds the same product twice.
func (r *RecentlyViewed) Add(product Product) {
	entries := r.load()

	filtered := make([]RecentEntry, 0, len(entries)+1)
	filtered = append(filtered, RecentEntry{Product: product, ViewedAt: r.now()})
	for _, e := range entries {
		if e.Product.ID != product.ID {
			filtered = append(filtered, e)
		}
	}

	if len(filtered) > maxRecentlyViewed {
		filtered = filtered[:maxRecentlyViewed]
	}

	r.client.Store().Set(recentlyViewedKey, filtered)
}

// List returns the entries newest first, dropping anything older than 30
// days. When the load pruned expired entries the stored list is rewritten
// immediately so the pruning cost is paid once, not on every read.
func (r *RecentlyViewed) List() []RecentEntry {
	entries := r.load()

	cutoff := r.now().Add(-recentlyViewedTTL)
	fresh := make([]RecentEntry, 0, len(entries))
	for _, e := range entries {
		if e.ViewedAt.After(cutoff) {
			fresh = append(fresh, e)
		}
	}

	if len(fresh) != len(entries) {
		if len(fresh) == 0 {
			r.client.Store().Delete(recentlyViewedKey)
		} else {
			r.client.Store().Set(recentlyViewedKey, fresh)
		}
	}

	return fresh
}

// Clear forgets the whole history.
func (r *RecentlyViewed) Clear() {
	r.client.Store().Delete(recentlyViewedKey)
}

func (r *RecentlyViewed) load() []RecentEntry {
	var entries []RecentEntry
	r.client.Store().Get(recentlyViewedKey, &entries)
	return entries
}
