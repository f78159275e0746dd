package client

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer implements the comments wire contract in memory so controller
// behavior can be tested without a real API, including injected failures.
type fakeServer struct {
	mu       sync.Mutex
	items    []Item
	nextID   int
	requests int
	failAll  bool          // every call answers 500 {"error": ...}
	likeGate chan struct{} // when set, like/unlike handlers block on it
}

func (f *fakeServer) countItems() int {
	return len(f.items)
}

func (f *fakeServer) average() float64 {
	sum, n := 0, 0
	for i := range f.items {
		if f.items[i].Rating != nil {
			sum += *f.items[i].Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}

func (f *fakeServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests++
		failAll := f.failAll
		gate := f.likeGate
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")

		if failAll {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "database exploded"})
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		// /items/{parent} | /items/{parent}/{item} | /items/{parent}/{item}/like
		isLike := len(parts) == 4 && parts[3] == "like"

		if isLike && gate != nil {
			<-gate
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && len(parts) == 2:
			_ = json.NewEncoder(w).Encode(ListResult{
				Items:         f.items,
				Total:         f.countItems(),
				AverageRating: f.average(),
			})

		case r.Method == http.MethodPost && len(parts) == 2:
			var in itemInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			f.nextID++
			now := time.Now()
			item := Item{
				ID:        fmt.Sprintf("c%d", f.nextID),
				ParentID:  parts[1],
				BodyText:  in.Body,
				Rating:    in.Rating,
				CreatedAt: now,
				UpdatedAt: now,
			}
			f.items = append([]Item{item}, f.items...)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(itemEnvelope{Item: item})

		case r.Method == http.MethodPatch && len(parts) == 3:
			var in itemInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			for i := range f.items {
				if f.items[i].ID == parts[2] {
					f.items[i].BodyText = in.Body
					if in.Rating != nil {
						f.items[i].Rating = in.Rating
					}
					f.items[i].UpdatedAt = time.Now()
					_ = json.NewEncoder(w).Encode(itemEnvelope{Item: f.items[i]})
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "comment not found"})

		case r.Method == http.MethodDelete && len(parts) == 3:
			for i := range f.items {
				if f.items[i].ID == parts[2] {
					f.items = append(f.items[:i], f.items[i+1:]...)
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "comment not found"})

		case isLike:
			for i := range f.items {
				if f.items[i].ID == parts[2] {
					if r.Method == http.MethodPost {
						f.items[i].LikeCount++
					} else {
						f.items[i].LikeCount--
					}
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "comment not found"})

		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "no route"})
		}
	})
}

func intp(v int) *int { return &v }

func newTestController(t *testing.T, fake *fakeServer) (*Controller, func()) {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	api := New(srv.URL, srv.Client(), nil)
	viewer := &Viewer{ID: 7, DisplayName: "rani"}
	ctl := NewController(api, "siti2014", viewer, nil)
	return ctl, srv.Close
}

func seedItem(id string, likeCount int, liked bool, rating *int) Item {
	now := time.Now()
	return Item{
		ID:             id,
		ParentID:       "siti2014",
		BodyText:       "seeded",
		Rating:         rating,
		LikeCount:      likeCount,
		CreatedAt:      now,
		UpdatedAt:      now,
		ViewerHasLiked: liked,
	}
}

func TestToggleLikeSelfInverse(t *testing.T) {
	fake := &fakeServer{items: []Item{seedItem("c1", 3, false, nil)}}
	ctl, closeFn := newTestController(t, fake)
	defer closeFn()

	require.NoError(t, ctl.Load(context.Background()))

	require.NoError(t, ctl.ToggleLike(context.Background(), "c1"))
	item := ctl.Items()[0]
	assert.True(t, item.ViewerHasLiked)
	assert.Equal(t, 4, item.LikeCount)

	require.NoError(t, ctl.ToggleLike(context.Background(), "c1"))
	item = ctl.Items()[0]
	assert.False(t, item.ViewerHasLiked)
	assert.Equal(t, 3, item.LikeCount)
}

func TestToggleLikeRollbackOnFailure(t *testing.T) {
	fake := &fakeServer{items: []Item{seedItem("c1", 5, false, nil)}}
	ctl, closeFn := newTestController(t, fake)
	defer closeFn()

	require.NoError(t, ctl.Load(context.Background()))
	before := ctl.Items()[0]

	fake.mu.Lock()
	fake.failAll = true
	fake.mu.Unlock()

	err := ctl.ToggleLike(context.Background(), "c1")
	require.ErrorIs(t, err, ErrRemote)
	assert.Contains(t, err.Error(), "database exploded")

	after := ctl.Items()[0]
	assert.Equal(t, before.ViewerHasLiked, after.ViewerHasLiked)
	assert.Equal(t, before.LikeCount, after.LikeCount)
}

func TestToggleLikeRollbackOnContextTimeout(t *testing.T) {
	fake := &fakeServer{items: []Item{seedItem("c1", 2, false, nil)}}
	fake.likeGate = make(chan struct{})
	ctl, closeFn := newTestController(t, fake)
	defer closeFn()

	require.NoError(t, ctl.Load(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := ctl.ToggleLike(ctx, "c1")
	close(fake.likeGate)
	require.ErrorIs(t, err, ErrRemote)

	item := ctl.Items()[0]
	assert.False(t, item.ViewerHasLiked)
	assert.Equal(t, 2, item.LikeCount)
}

func TestToggleLikeInFlightGuard(t *testing.T) {
	fake := &fakeServer{items: []Item{seedItem("c1", 0, false, nil)}}
	fake.likeGate = make(chan struct{})
	ctl, closeFn := newTestController(t, fake)
	defer closeFn()

	require.NoError(t, ctl.Load(context.Background()))

	done := make(chan error, 1)
	go func() {
		done <- ctl.ToggleLike(context.Background(), "c1")
	}()

	// Wait until the optimistic flip landed, then the second toggle must be
	// rejected while the first is unresolved.
	require.Eventually(t, func() bool {
		return ctl.Items()[0].ViewerHasLiked
	}, time.Second, 5*time.Millisecond)

	err := ctl.ToggleLike(context.Background(), "c1")
	assert.ErrorIs(t, err, ErrLikeInFlight)

	close(fake.likeGate)
	require.NoError(t, <-done)

	item := ctl.Items()[0]
	assert.True(t, item.ViewerHasLiked)
	assert.Equal(t, 1, item.LikeCount)
}

func TestCreateDoesNotDuplicateUnderFailure(t *testing.T) {
	fake := &fakeServer{items: []Item{seedItem("c1", 0, false, nil)}}
	ctl, closeFn := newTestController(t, fake)
	defer closeFn()

	require.NoError(t, ctl.Load(context.Background()))

	fake.mu.Lock()
	fake.failAll = true
	fake.mu.Unlock()

	_, err := ctl.Create(context.Background(), "hello", nil)
	require.ErrorIs(t, err, ErrRemote)

	assert.Equal(t, 1, ctl.Total())
	assert.Len(t, ctl.Items(), 1)
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	fake := &fakeServer{items: []Item{
		seedItem("c2", 0, false, nil),
		seedItem("c1", 0, false, intp(4)),
	}}
	ctl, closeFn := newTestController(t, fake)
	defer closeFn()

	require.NoError(t, ctl.Load(context.Background()))
	require.Equal(t, 2, ctl.Total())

	require.NoError(t, ctl.Delete(context.Background(), "c2"))
	assert.Equal(t, 1, ctl.Total())
	require.Len(t, ctl.Items(), 1)
	assert.Equal(t, "c1", ctl.Items()[0].ID)

	// Failure leaves collection and count unchanged
	fake.mu.Lock()
	fake.failAll = true
	fake.mu.Unlock()

	err := ctl.Delete(context.Background(), "c1")
	require.ErrorIs(t, err, ErrRemote)
	assert.Equal(t, 1, ctl.Total())
	assert.Len(t, ctl.Items(), 1)
}

func TestAverageRatingRecomputation(t *testing.T) {
	fake := &fakeServer{items: []Item{
		seedItem("c1", 0, false, intp(4)),
		seedItem("c2", 0, false, intp(4)),
	}}
	ctl, closeFn := newTestController(t, fake)
	defer closeFn()

	require.NoError(t, ctl.Load(context.Background()))
	require.Equal(t, 2, ctl.Total())
	require.InDelta(t, 4.0, ctl.AverageRating(), 1e-9)

	_, err := ctl.Create(context.Background(), "underwhelming", intp(2))
	require.NoError(t, err)

	assert.Equal(t, 3, ctl.Total())
	assert.InDelta(t, 3.3, ctl.AverageRating(), 1e-9)
}

func TestValidationPrecedesNetwork(t *testing.T) {
	fake := &fakeServer{}
	ctl, closeFn := newTestController(t, fake)
	defer closeFn()

	require.NoError(t, ctl.Load(context.Background()))

	fake.mu.Lock()
	requestsAfterLoad := fake.requests
	fake.mu.Unlock()

	_, err := ctl.Create(context.Background(), "   ", nil)
	require.ErrorIs(t, err, ErrValidation)

	_, err = ctl.Create(context.Background(), "fine body", intp(9))
	require.ErrorIs(t, err, ErrValidation)

	fake.mu.Lock()
	assert.Equal(t, requestsAfterLoad, fake.requests, "validation errors must never reach the network")
	fake.mu.Unlock()
}

func TestMutationsRequireViewer(t *testing.T) {
	fake := &fakeServer{items: []Item{seedItem("c1", 0, false, nil)}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	api := New(srv.URL, srv.Client(), nil)
	ctl := NewController(api, "siti2014", nil, nil) // anonymous viewer
	require.NoError(t, ctl.Load(context.Background()))

	_, err := ctl.Create(context.Background(), "hi", nil)
	assert.ErrorIs(t, err, ErrAuth)
	assert.ErrorIs(t, ctl.ToggleLike(context.Background(), "c1"), ErrAuth)
	assert.ErrorIs(t, ctl.Delete(context.Background(), "c1"), ErrAuth)
}

func TestLoadFailureExposesErrorAndEmptyCollection(t *testing.T) {
	fake := &fakeServer{failAll: true}
	ctl, closeFn := newTestController(t, fake)
	defer closeFn()

	err := ctl.Load(context.Background())
	require.ErrorIs(t, err, ErrRemote)
	assert.ErrorIs(t, ctl.Err(), ErrRemote)
	assert.Empty(t, ctl.Items())
	assert.Zero(t, ctl.Total())
	assert.False(t, ctl.Loading())
}

func TestUpdateMergesReturnedFields(t *testing.T) {
	fake := &fakeServer{items: []Item{seedItem("c1", 2, true, intp(3))}}
	ctl, closeFn := newTestController(t, fake)
	defer closeFn()

	require.NoError(t, ctl.Load(context.Background()))

	_, err := ctl.Update(context.Background(), "c1", "revised take", intp(5))
	require.NoError(t, err)

	item := ctl.Items()[0]
	assert.Equal(t, "revised take", item.BodyText)
	require.NotNil(t, item.Rating)
	assert.Equal(t, 5, *item.Rating)
	// Like state is not part of the update payload and must survive the merge
	assert.True(t, item.ViewerHasLiked)
	assert.Equal(t, 2, item.LikeCount)
	assert.InDelta(t, 5.0, ctl.AverageRating(), 1e-9)
}

func TestEndToEndScenario(t *testing.T) {
	fake := &fakeServer{}
	ctl, closeFn := newTestController(t, fake)
	defer closeFn()

	require.NoError(t, ctl.Load(context.Background()))
	require.Empty(t, ctl.Items())
	require.Zero(t, ctl.Total())

	item, err := ctl.Create(context.Background(), "Great film!", intp(5))
	require.NoError(t, err)
	require.Len(t, ctl.Items(), 1)
	assert.Equal(t, 1, ctl.Total())
	assert.Equal(t, "Great film!", ctl.Items()[0].BodyText)
	assert.InDelta(t, 5.0, ctl.AverageRating(), 1e-9)
	assert.Equal(t, 0, ctl.Items()[0].LikeCount)
	assert.False(t, ctl.Items()[0].ViewerHasLiked)

	require.NoError(t, ctl.ToggleLike(context.Background(), item.ID))
	assert.Equal(t, 1, ctl.Items()[0].LikeCount)
	assert.True(t, ctl.Items()[0].ViewerHasLiked)

	fake.mu.Lock()
	fake.failAll = true
	fake.mu.Unlock()

	err = ctl.ToggleLike(context.Background(), item.ID)
	require.ErrorIs(t, err, ErrRemote)
	assert.Equal(t, 1, ctl.Items()[0].LikeCount)
	assert.True(t, ctl.Items()[0].ViewerHasLiked)
}
