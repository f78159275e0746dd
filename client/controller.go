package client

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Viewer is the acting identity, injected at construction. A nil viewer means
// read-only browsing; every mutation fails with ErrAuth before the network.
type Viewer struct {
	ID          uint
	DisplayName string
}

// Controller owns the local projection of one parent's comment collection.
//
// Create, Update and Delete wait for server confirmation before touching local
// state, so a failure needs no rollback. ToggleLike is the one optimistic
// operation: the flip applies immediately and is reverted exactly if the call
// fails for any reason, context expiry included. A per-item in-flight guard
// rejects a second toggle before the first resolves (ErrLikeInFlight) instead
// of letting the two calls race each other to the server.
//
// Methods are safe for concurrent use; in the intended single-event-loop UI
// the mutex is simply never contended.
type Controller struct {
	parentID string
	viewer   *Viewer
	api      *Client
	logger   *zap.Logger

	mu       sync.Mutex
	items    []Item
	total    int
	avg      float64
	loading  bool
	loadErr  error
	inFlight map[string]bool
}

// NewController binds a controller to one parent id.
func NewController(api *Client, parentID string, viewer *Viewer, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		parentID: parentID,
		viewer:   viewer,
		api:      api,
		logger:   logger,
		inFlight: make(map[string]bool),
	}
}

// Load replaces the collection with the server's ordered result and adopts its
// aggregates verbatim. On failure the collection is left empty with the error
// exposed via Err; retrying is the caller's call.
func (ctl *Controller) Load(ctx context.Context) error {
	ctl.mu.Lock()
	ctl.loading = true
	ctl.mu.Unlock()

	res, err := ctl.api.ListItems(ctx, ctl.parentID)

	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	ctl.loading = false
	if err != nil {
		ctl.items = nil
		ctl.total = 0
		ctl.avg = 0
		ctl.loadErr = err
		return err
	}
	ctl.items = res.Items
	ctl.total = res.Total
	ctl.avg = res.AverageRating
	ctl.loadErr = nil
	return nil
}

// Loading reports whether the initial read is still pending.
func (ctl *Controller) Loading() bool {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.loading
}

// Err returns the error from the last failed Load, nil after a successful one.
func (ctl *Controller) Err() error {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.loadErr
}

// Items returns a copy of the current collection, newest first.
func (ctl *Controller) Items() []Item {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	out := make([]Item, len(ctl.items))
	copy(out, ctl.items)
	return out
}

// Total returns the collection's item count.
func (ctl *Controller) Total() int {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.total
}

// AverageRating returns the mean of all non-null ratings, rounded to 1
// decimal, or 0 when nothing is rated.
func (ctl *Controller) AverageRating() float64 {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.avg
}

// recomputeAverage derives the aggregate from the full local collection.
// Exact, because the controller always holds every item for its parent.
// Callers hold the mutex.
func (ctl *Controller) recomputeAverage() {
	sum, n := 0, 0
	for i := range ctl.items {
		if ctl.items[i].Rating != nil {
			sum += *ctl.items[i].Rating
			n++
		}
	}
	if n == 0 {
		ctl.avg = 0
		return
	}
	ctl.avg = math.Round(float64(sum)/float64(n)*10) / 10
}

func (ctl *Controller) requireViewer() error {
	if ctl.viewer == nil {
		return fmt.Errorf("%w: no viewer session", ErrAuth)
	}
	return nil
}

// Create posts a new comment. Not optimistic: the server assigns the
// canonical id, so the item is prepended only after confirmation. Validation
// failures never reach the network.
func (ctl *Controller) Create(ctx context.Context, body string, rating *int) (Item, error) {
	if err := ctl.requireViewer(); err != nil {
		return Item{}, err
	}
	if strings.TrimSpace(body) == "" {
		return Item{}, fmt.Errorf("%w: body cannot be empty", ErrValidation)
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return Item{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	item, err := ctl.api.CreateItem(ctx, ctl.parentID, body, rating)
	if err != nil {
		return Item{}, err
	}

	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	ctl.items = append([]Item{item}, ctl.items...)
	ctl.total++
	ctl.recomputeAverage()
	return item, nil
}

// Update edits an owned comment and merges the server's returned fields into
// the matching local item. Local state is untouched on failure.
func (ctl *Controller) Update(ctx context.Context, itemID, body string, rating *int) (Item, error) {
	if err := ctl.requireViewer(); err != nil {
		return Item{}, err
	}
	if strings.TrimSpace(body) == "" {
		return Item{}, fmt.Errorf("%w: body cannot be empty", ErrValidation)
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return Item{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	item, err := ctl.api.UpdateItem(ctx, ctl.parentID, itemID, body, rating)
	if err != nil {
		return Item{}, err
	}

	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	if i := ctl.indexOf(itemID); i >= 0 {
		ctl.items[i].BodyText = item.BodyText
		ctl.items[i].BodyHTML = item.BodyHTML
		ctl.items[i].Rating = item.Rating
		ctl.items[i].UpdatedAt = item.UpdatedAt
	}
	ctl.recomputeAverage()
	return item, nil
}

// Delete removes an owned comment after server confirmation; the rating folds
// out of the average with it.
func (ctl *Controller) Delete(ctx context.Context, itemID string) error {
	if err := ctl.requireViewer(); err != nil {
		return err
	}

	if err := ctl.api.DeleteItem(ctx, ctl.parentID, itemID); err != nil {
		return err
	}

	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	if i := ctl.indexOf(itemID); i >= 0 {
		ctl.items = append(ctl.items[:i], ctl.items[i+1:]...)
		ctl.total--
	}
	ctl.recomputeAverage()
	return nil
}

// ToggleLike flips the viewer's like state optimistically, then confirms with
// the server. On any failure the exact local mutation is reverted: same flag,
// same ±1. While a toggle for an item is unresolved, further toggles on that
// item fail fast with ErrLikeInFlight.
func (ctl *Controller) ToggleLike(ctx context.Context, itemID string) error {
	if err := ctl.requireViewer(); err != nil {
		return err
	}

	ctl.mu.Lock()
	i := ctl.indexOf(itemID)
	if i < 0 {
		ctl.mu.Unlock()
		return fmt.Errorf("%w: item %s", ErrNotFound, itemID)
	}
	if ctl.inFlight[itemID] {
		ctl.mu.Unlock()
		return ErrLikeInFlight
	}
	ctl.inFlight[itemID] = true

	// Optimistic flip
	nowLiked := !ctl.items[i].ViewerHasLiked
	ctl.items[i].ViewerHasLiked = nowLiked
	if nowLiked {
		ctl.items[i].LikeCount++
	} else {
		ctl.items[i].LikeCount--
	}
	ctl.mu.Unlock()

	var err error
	if nowLiked {
		err = ctl.api.LikeItem(ctx, ctl.parentID, itemID)
	} else {
		err = ctl.api.UnlikeItem(ctx, ctl.parentID, itemID)
	}

	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	delete(ctl.inFlight, itemID)

	if err == nil {
		return nil
	}

	// Rollback the exact mutation applied above
	if i := ctl.indexOf(itemID); i >= 0 {
		ctl.items[i].ViewerHasLiked = !nowLiked
		if nowLiked {
			ctl.items[i].LikeCount--
		} else {
			ctl.items[i].LikeCount++
		}
	}
	ctl.logger.Warn("like toggle failed, rolled back",
		zap.String("item", itemID),
		zap.Error(err),
	)
	return err
}

// indexOf finds an item by id. Callers hold the mutex.
func (ctl *Controller) indexOf(itemID string) int {
	for i := range ctl.items {
		if ctl.items[i].ID == itemID {
			return i
		}
	}
	return -1
}
