package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const syncQueueKey = "craftbizz_sync_queue"

// Action types the queue knows how to replay.
const (
	ActionAddToCart      = "add_to_cart"
	ActionUpdateCart     = "update_cart"
	ActionToggleWishlist = "toggle_wishlist"
)

// QueuedAction is one deferred mutation. The payload carries everything
// needed to replay it, so the queue survives restarts without any other
// state.
type QueuedAction struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	QueuedAt time.Time       `json:"queued_at"`
}

// DroppedAction records a queued action the server rejected during replay.
type DroppedAction struct {
	Action QueuedAction
	Err    *APIError
}

// ReplayReport summarizes one Replay pass.
type ReplayReport struct {
	// Replayed is how many actions the server accepted.
	Replayed int
	// Dropped holds actions the server rejected; they are removed from
	// the queue and will not be retried.
	Dropped []DroppedAction
	// Remaining is the queue length after the pass. Non-zero when a
	// transport failure stopped the replay early.
	Remaining int
}

// SyncQueue is the durable FIFO of mutations made while offline. Queueing
// is cheap and never touches the network; Replay drains in order once
// connectivity returns.
//
// Replay applies actions oldest first and last write wins, both locally and
// across devices. Concurrent remote changes between queueing and replay are
// overwritten, which is an accepted limitation of the model.
type SyncQueue struct {
	client *Client
	mu     sync.Mutex
}

// NewSyncQueue builds the queue. One instance per application.
func NewSyncQueue(c *Client) *SyncQueue {
	return &SyncQueue{client: c}
}

// Enqueue appends an action. The payload is marshalled immediately so later
// mutation of the value cannot corrupt the queue.
func (q *SyncQueue) Enqueue(actionType string, payload interface{}) (QueuedAction, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return QueuedAction{}, err
	}

	action := QueuedAction{
		ID:       uuid.New().String(),
		Type:     actionType,
		Payload:  data,
		QueuedAt: time.Now(),
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	actions := q.load()
	actions = append(actions, action)
	if err := q.client.Store().Set(syncQueueKey, actions); err != nil {
		return QueuedAction{}, err
	}
	return action, nil
}

// Pending returns the number of queued actions.
func (q *SyncQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.load())
}

// Clear drops every queued action without replaying.
func (q *SyncQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.client.Store().Delete(syncQueueKey)
}

// Replay drains the queue in FIFO order. Server rejections (4xx) drop the
// action and continue; a transport failure stops the pass, keeps the
// remaining tail queued, and is returned as the error alongside the partial
// report. Replaying an empty queue is a no-op.
func (q *SyncQueue) Replay(ctx context.Context) (ReplayReport, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	actions := q.load()
	report := ReplayReport{}

	for len(actions) > 0 {
		action := actions[0]

		err := q.dispatch(ctx, action)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
				// The server understood and refused; retrying is pointless
				report.Dropped = append(report.Dropped, DroppedAction{Action: action, Err: apiErr})
				actions = actions[1:]
				q.persist(actions)
				continue
			}
			// Transport failure (or 5xx): keep the tail for the next pass
			report.Remaining = len(actions)
			q.persist(actions)
			return report, err
		}

		report.Replayed++
		actions = actions[1:]
		q.persist(actions)
	}

	return report, nil
}

func (q *SyncQueue) dispatch(ctx context.Context, action QueuedAction) error {
	switch action.Type {
	case ActionAddToCart:
		return q.client.do(ctx, http.MethodPost, "/cart", action.Payload, nil)

	case ActionUpdateCart:
		var p struct {
			ItemID   uint `json:"item_id"`
			Quantity int  `json:"quantity"`
		}
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			// Undecodable payloads can never succeed; treat like a rejection
			return &APIError{StatusCode: http.StatusBadRequest, Code: "CLIENT_BAD_PAYLOAD", Message: err.Error()}
		}
		body := map[string]int{"quantity": p.Quantity}
		return q.client.do(ctx, http.MethodPut, fmt.Sprintf("/cart/%d", p.ItemID), body, nil)

	case ActionToggleWishlist:
		return q.client.do(ctx, http.MethodPost, "/wishlist/toggle", action.Payload, nil)

	default:
		return &APIError{StatusCode: http.StatusBadRequest, Code: "CLIENT_UNKNOWN_ACTION", Message: action.Type}
	}
}

// load reads the queue; callers hold q.mu.
func (q *SyncQueue) load() []QueuedAction {
	var actions []QueuedAction
	q.client.Store().Get(syncQueueKey, &actions)
	return actions
}

// persist writes the queue back; callers hold q.mu.
func (q *SyncQueue) persist(actions []QueuedAction) {
	if len(actions) == 0 {
		q.client.Store().Delete(syncQueueKey)
		return
	}
	q.client.Store().Set(syncQueueKey, actions)
}
