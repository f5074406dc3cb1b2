package client

const (
	comparisonKey = "craftbizz_comparison_products"

	// A side-by-side view wider than four products stops being readable
	maxComparison = 4
)

// Comparison is the purely local set of products picked for side-by-side
// comparison. Snapshots are kept as stored; they are not refetched when the
// catalog changes.
type Comparison struct {
	client *Client
}

// NewComparison builds the store. One instance per application.
func NewComparison(c *Client) *Comparison {
	return &Comparison{client: c}
}

// List returns the current comparison set in insertion order.
func (cs *Comparison) List() []Product {
	return cs.load()
}

// Contains reports membership by product ID.
func (cs *Comparison) Contains(productID uint) bool {
	for _, p := range cs.load() {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// Add puts product into the set. Returns false without changing anything
// when the set is full or the product is already present.
func (cs *Comparison) Add(product Product) bool {
	products := cs.load()

	if len(products) >= maxComparison {
		return false
	}
	for _, p := range products {
		if p.ID == product.ID {
			return false
		}
	}

	products = append(products, product)
	cs.client.Store().Set(comparisonKey, products)
	return true
}

// Toggle flips membership. The first return reports whether anything
// changed, the second whether the product is in the set afterwards:
//
//	(true, true)   added
//	(true, false)  removed
//	(false, false) set was full, nothing changed
func (cs *Comparison) Toggle(product Product) (changed, inComparison bool) {
	products := cs.load()

	for i, p := range products {
		if p.ID == product.ID {
			products = append(products[:i], products[i+1:]...)
			cs.store(products)
			return true, false
		}
	}

	if len(products) >= maxComparison {
		return false, false
	}

	products = append(products, product)
	cs.client.Store().Set(comparisonKey, products)
	return true, true
}

// Remove drops the product from the set if present.
func (cs *Comparison) Remove(productID uint) {
	products := cs.load()
	for i, p := range products {
		if p.ID == productID {
			products = append(products[:i], products[i+1:]...)
			cs.store(products)
			return
		}
	}
}

// Clear empties the set.
func (cs *Comparison) Clear() {
	cs.client.Store().Delete(comparisonKey)
}

func (cs *Comparison) load() []Product {
	var products []Product
	cs.client.Store().Get(comparisonKey, &products)
	return products
}

func (cs *Comparison) store(products []Product) {
	if len(products) == 0 {
		cs.client.Store().Delete(comparisonKey)
		return
	}
	cs.client.Store().Set(comparisonKey, products)
}
