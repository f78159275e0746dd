// Package client keeps a local, renderable projection of one film's comment
// collection in sync with the Soular API. Mutations apply optimistically where
// the UI needs instant feedback (like toggles) and reconcile against the
// server response, rolling back on failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Item is the wire shape of one user-authored comment.
type Item struct {
	ID                string    `json:"id"`
	ParentID          string    `json:"parent_id"`
	AuthorID          uint      `json:"author_id"`
	AuthorDisplayName string    `json:"author_display_name"`
	AuthorAvatar      string    `json:"author_avatar"`
	BodyText          string    `json:"body_text"`
	BodyHTML          string    `json:"body_html"`
	Rating            *int      `json:"rating,omitempty"`
	LikeCount         int       `json:"like_count"`
	ReplyTo           *string   `json:"reply_to,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	ViewerHasLiked    bool      `json:"viewer_has_liked"`
}

// ListResult is the read endpoint's payload. The aggregates are authoritative
// on load; the controller only recomputes them after its own mutations.
type ListResult struct {
	Items         []Item  `json:"items"`
	Total         int     `json:"total"`
	AverageRating float64 `json:"average_rating"`
}

type itemEnvelope struct {
	Item Item `json:"item"`
}

type errEnvelope struct {
	Error string `json:"error"`
}

type itemInput struct {
	Body    string `json:"body"`
	Rating  *int   `json:"rating,omitempty"`
	ReplyTo string `json:"reply_to,omitempty"`
}

// Client speaks the comments REST contract. It carries the viewer's session
// cookie on every request; authorization decisions stay server-side.
type Client struct {
	baseURL string
	http    *http.Client
	cookie  string
	logger  *zap.Logger
}

// New returns a Client for the API at baseURL. hc may be nil, in which case a
// default client with a 10s cap is used; per-call deadlines come from ctx.
func New(baseURL string, hc *http.Client, logger *zap.Logger) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    hc,
		logger:  logger,
	}
}

// SetSessionCookie installs the session cookie issued by the auth system.
func (c *Client) SetSessionCookie(cookie string) {
	c.cookie = cookie
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRemote, err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemote, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decoding response: %v", ErrRemote, err)
		}
		return nil
	}

	// Non-2xx responses carry {"error": "..."}; surface the text verbatim.
	var env errEnvelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	if env.Error == "" {
		env.Error = http.StatusText(resp.StatusCode)
	}

	c.logger.Debug("request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("server_error", env.Error),
	)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuth, env.Error)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, env.Error)
	default:
		return fmt.Errorf("%w: %s", ErrRemote, env.Error)
	}
}

// ListItems fetches the full ordered collection for one parent.
func (c *Client) ListItems(ctx context.Context, parentID string) (ListResult, error) {
	var res ListResult
	err := c.do(ctx, http.MethodGet, "/items/"+parentID, nil, &res)
	return res, err
}

// CreateItem posts a new comment and returns the server's canonical item.
func (c *Client) CreateItem(ctx context.Context, parentID, body string, rating *int) (Item, error) {
	var env itemEnvelope
	err := c.do(ctx, http.MethodPost, "/items/"+parentID, itemInput{Body: body, Rating: rating}, &env)
	return env.Item, err
}

// UpdateItem edits body and rating of an owned comment.
func (c *Client) UpdateItem(ctx context.Context, parentID, itemID, body string, rating *int) (Item, error) {
	var env itemEnvelope
	err := c.do(ctx, http.MethodPatch, "/items/"+parentID+"/"+itemID, itemInput{Body: body, Rating: rating}, &env)
	return env.Item, err
}

// DeleteItem removes an owned comment.
func (c *Client) DeleteItem(ctx context.Context, parentID, itemID string) error {
	return c.do(ctx, http.MethodDelete, "/items/"+parentID+"/"+itemID, nil, nil)
}

// LikeItem records the viewer's like.
func (c *Client) LikeItem(ctx context.Context, parentID, itemID string) error {
	return c.do(ctx, http.MethodPost, "/items/"+parentID+"/"+itemID+"/like", nil, nil)
}

// UnlikeItem removes the viewer's like.
func (c *Client) UnlikeItem(ctx context.Context, parentID, itemID string) error {
	return c.do(ctx, http.MethodDelete, "/items/"+parentID+"/"+itemID+"/like", nil, nil)
}
