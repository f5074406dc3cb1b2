package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

const cartKey = "craftbizz_cart"

// CartLine is one product in the cart as the SDK mirrors it locally.
// ItemID is the server row ID; it is zero for lines created while offline
// until the next Fetch after replay.
type CartLine struct {
	ItemID            uint   `json:"item_id,omitempty"`
	ProductID         uint   `json:"product_id"`
	Quantity          int    `json:"quantity"`
	CustomizationNote string `json:"customization_note,omitempty"`
}

// CartView is the server's cart with the computed total.
type CartView struct {
	Lines []CartLine
	Total float64
}

type addToCartPayload struct {
	ProductID         uint   `json:"product_id"`
	Quantity          int    `json:"quantity"`
	CustomizationNote string `json:"customization_note,omitempty"`
}

type updateCartPayload struct {
	ItemID   uint `json:"item_id"`
	Quantity int  `json:"quantity"`
}

// Cart is the server-backed cart with a durable local mirror. While the
// client is offline, mutations queue on the sync queue and the mirror is
// updated optimistically; Fetch after a replay adopts the server's state as
// the new baseline.
type Cart struct {
	client *Client
	queue  *SyncQueue
	mu     sync.Mutex
}

// NewCart builds the store. One instance per application.
func NewCart(c *Client, q *SyncQueue) *Cart {
	return &Cart{client: c, queue: q}
}

// Local returns the mirrored cart lines without touching the network.
func (ct *Cart) Local() []CartLine {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return ct.load()
}

// Fetch loads the cart from the server and replaces the local mirror with
// it. Server state is the baseline; queued offline mutations re-apply on
// top of it when replayed.
func (ct *Cart) Fetch(ctx context.Context) (CartView, error) {
	if !ct.client.SignedIn() {
		return CartView{}, ErrNotSignedIn
	}

	var resp struct {
		CartItems []struct {
			ID                uint   `json:"id"`
			ProductID         uint   `json:"product_id"`
			Quantity          int    `json:"quantity"`
			CustomizationNote string `json:"customization_note"`
		} `json:"cart_items"`
		Total float64 `json:"total"`
	}
	if err := ct.client.do(ctx, http.MethodGet, "/cart", nil, &resp); err != nil {
		return CartView{}, err
	}

	lines := make([]CartLine, 0, len(resp.CartItems))
	for _, item := range resp.CartItems {
		lines = append(lines, CartLine{
			ItemID:            item.ID,
			ProductID:         item.ProductID,
			Quantity:          item.Quantity,
			CustomizationNote: item.CustomizationNote,
		})
	}

	ct.mu.Lock()
	ct.persist(lines)
	ct.mu.Unlock()

	return CartView{Lines: lines, Total: resp.Total}, nil
}

// Add upserts a cart line: adding a product already in the cart replaces
// its quantity and note, and a quantity of zero or less removes the line.
// Offline the mutation queues and the mirror updates optimistically; the
// returned queued flag reports which path was taken.
func (ct *Cart) Add(ctx context.Context, productID uint, quantity int, note string) (line CartLine, queued bool, err error) {
	if !ct.client.SignedIn() {
		return CartLine{}, false, ErrNotSignedIn
	}

	payload := addToCartPayload{ProductID: productID, Quantity: quantity, CustomizationNote: note}

	if !ct.client.Online() {
		if _, err := ct.queue.Enqueue(ActionAddToCart, payload); err != nil {
			return CartLine{}, false, err
		}
		line = CartLine{ProductID: productID, Quantity: quantity, CustomizationNote: note}
		ct.applyUpsert(line)
		return line, true, nil
	}

	var resp struct {
		CartItem *struct {
			ID                uint   `json:"id"`
			ProductID         uint   `json:"product_id"`
			Quantity          int    `json:"quantity"`
			CustomizationNote string `json:"customization_note"`
		} `json:"cart_item"`
	}
	if err := ct.client.do(ctx, http.MethodPost, "/cart", payload, &resp); err != nil {
		return CartLine{}, false, err
	}

	if resp.CartItem == nil {
		// Zero quantity removed the line
		ct.applyUpsert(CartLine{ProductID: productID, Quantity: 0})
		return CartLine{ProductID: productID}, false, nil
	}

	line = CartLine{
		ItemID:            resp.CartItem.ID,
		ProductID:         resp.CartItem.ProductID,
		Quantity:          resp.CartItem.Quantity,
		CustomizationNote: resp.CartItem.CustomizationNote,
	}
	ct.applyUpsert(line)
	return line, false, nil
}

// Update changes the quantity of a cart line by its server item ID; zero or
// less removes it. Lines created offline have no item ID yet; update those
// through Add, which addresses by product.
func (ct *Cart) Update(ctx context.Context, itemID uint, quantity int) (queued bool, err error) {
	if !ct.client.SignedIn() {
		return false, ErrNotSignedIn
	}

	if !ct.client.Online() {
		if _, err := ct.queue.Enqueue(ActionUpdateCart, updateCartPayload{ItemID: itemID, Quantity: quantity}); err != nil {
			return false, err
		}
		ct.applyUpdate(itemID, quantity)
		return true, nil
	}

	body := map[string]int{"quantity": quantity}
	if err := ct.client.do(ctx, http.MethodPut, fmt.Sprintf("/cart/%d", itemID), body, nil); err != nil {
		return false, err
	}
	ct.applyUpdate(itemID, quantity)
	return false, nil
}

// Remove deletes the line for a product. Offline it queues as an upsert to
// zero quantity, which the server treats as removal.
func (ct *Cart) Remove(ctx context.Context, productID uint) (queued bool, err error) {
	if !ct.client.SignedIn() {
		return false, ErrNotSignedIn
	}

	if !ct.client.Online() {
		payload := addToCartPayload{ProductID: productID, Quantity: 0}
		if _, err := ct.queue.Enqueue(ActionAddToCart, payload); err != nil {
			return false, err
		}
		ct.applyUpsert(CartLine{ProductID: productID, Quantity: 0})
		return true, nil
	}

	if err := ct.client.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/%d", productID), nil, nil); err != nil {
		return false, err
	}
	ct.applyUpsert(CartLine{ProductID: productID, Quantity: 0})
	return false, nil
}

// Clear empties the cart on the server and locally. Clearing is not
// queueable; offline it fails with the transport error.
func (ct *Cart) Clear(ctx context.Context) error {
	if !ct.client.SignedIn() {
		return ErrNotSignedIn
	}
	if err := ct.client.do(ctx, http.MethodDelete, "/cart", nil, nil); err != nil {
		return err
	}
	ct.mu.Lock()
	ct.persist(nil)
	ct.mu.Unlock()
	return nil
}

// applyUpsert mirrors the server's upsert semantics locally: replace the
// line for the product, append when new, drop when quantity <= 0.
func (ct *Cart) applyUpsert(line CartLine) {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	lines := ct.load()
	out := make([]CartLine, 0, len(lines)+1)
	for _, l := range lines {
		if l.ProductID != line.ProductID {
			out = append(out, l)
		} else if line.ItemID == 0 {
			// Keep a known server row ID across optimistic replaces
			line.ItemID = l.ItemID
		}
	}
	if line.Quantity > 0 {
		out = append(out, line)
	}
	ct.persist(out)
}

func (ct *Cart) applyUpdate(itemID uint, quantity int) {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	lines := ct.load()
	out := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		if l.ItemID != itemID {
			out = append(out, l)
			continue
		}
		if quantity > 0 {
			l.Quantity = quantity
			out = append(out, l)
		}
	}
	ct.persist(out)
}

// load reads the mirror; callers hold ct.mu.
func (ct *Cart) load() []CartLine {
	var lines []CartLine
	ct.client.Store().Get(cartKey, &lines)
	return lines
}

// persist writes the mirror; callers hold ct.mu.
func (ct *Cart) persist(lines []CartLine) {
	if len(lines) == 0 {
		ct.client.Store().Delete(cartKey)
		return
	}
	ct.client.Store().Set(cartKey, lines)
}
