package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		wantText string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"login required"}`, ErrAuth, "login required"},
		{"forbidden", http.StatusForbidden, `{"error":"you can only edit your own comments"}`, ErrAuth, "you can only edit your own comments"},
		{"not found", http.StatusNotFound, `{"error":"comment not found"}`, ErrNotFound, "comment not found"},
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, ErrRemote, "boom"},
		{"empty envelope", http.StatusBadGateway, ``, ErrRemote, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			api := New(srv.URL, srv.Client(), nil)
			_, err := api.ListItems(context.Background(), "siti2014")
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantText)
		})
	}
}

func TestSessionCookieForwarded(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		_ = json.NewEncoder(w).Encode(ListResult{})
	}))
	defer srv.Close()

	api := New(srv.URL, srv.Client(), nil)
	api.SetSessionCookie("soular_session=abc123")

	_, err := api.ListItems(context.Background(), "siti2014")
	require.NoError(t, err)
	assert.Equal(t, "soular_session=abc123", gotCookie)
}

func TestCreateSendsBodyAndRating(t *testing.T) {
	var got itemInput
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(itemEnvelope{Item: Item{ID: "c1", BodyText: got.Body, Rating: got.Rating}})
	}))
	defer srv.Close()

	api := New(srv.URL, srv.Client(), nil)
	rating := 4
	item, err := api.CreateItem(context.Background(), "siti2014", "wonderful", &rating)
	require.NoError(t, err)
	assert.Equal(t, "wonderful", got.Body)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 4, *got.Rating)
	assert.Equal(t, "c1", item.ID)
}
