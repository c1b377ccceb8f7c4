package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/time/rate"

	"github.com/subscope/subscope/pkg/domain"
)

// ErrUnreachable is returned when the API can't be used at all, e.g. no OAuth token can be obtained
var ErrUnreachable = errors.New("board api unreachable")

// Client fetches posts and comments. Requests are paced by the rate limiter and never retried.
type Client struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// NewClient creates a client with the given config
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.reddit.com"
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = "https://www.reddit.com/api/v1/access_token"
	}
	if cfg.OAuthURL == "" {
		cfg.OAuthURL = "https://oauth.reddit.com"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "subscope/1.0"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Every(cfg.RateLimit)
	}

	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Listing returns up to limit posts of the board for the listing type. Window is sent for
// top and controversial only, unknown listing types are treated as top.
func (c *Client) Listing(ctx context.Context, board string, listing domain.Listing, window domain.TimeWindow, limit int) ([]domain.Post, error) {
	listing = listing.Resolve()
	posts := make([]domain.Post, 0, limit)
	after := ""

	for len(posts) < limit {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(min(limit-len(posts), maxPageSize)))
		params.Set("raw_json", "1")
		if listing.UsesWindow() && window != "" {
			params.Set("t", string(window))
		}
		if after != "" {
			params.Set("after", after)
		}
		path := fmt.Sprintf("/r/%s/%s.json?%s", url.PathEscape(board), listing, params.Encode())

		var resp listingResponse
		if err := c.getJSON(ctx, path, &resp); err != nil {
			return nil, fmt.Errorf("r/%s %s listing: %w", board, listing, err)
		}

		for _, child := range resp.Data.Children {
			if child.Kind != "t3" || len(posts) >= limit {
				continue
			}
			posts = append(posts, toPost(child.Data))
		}

		if resp.Data.After == "" || len(resp.Data.Children) == 0 {
			break
		}
		after = resp.Data.After
	}

	lgr.Printf("[DEBUG] fetched %d posts from r/%s/%s", len(posts), board, listing)
	return posts, nil
}

// TopComments returns up to n top-level comments of the post sorted by score, highest first.
// Collapsed "more" placeholders are not expanded.
func (c *Client) TopComments(ctx context.Context, post domain.Post, n int) ([]domain.Comment, error) {
	if post.Permalink == "" {
		return nil, fmt.Errorf("post %s has no permalink", post.ID)
	}

	params := url.Values{}
	params.Set("sort", "top")
	params.Set("depth", "1")
	params.Set("raw_json", "1")
	path := strings.TrimSuffix(post.Permalink, "/") + ".json?" + params.Encode()

	// reddit returns [postListing, commentListing]
	var listings []listingResponse
	if err := c.getJSON(ctx, path, &listings); err != nil {
		return nil, fmt.Errorf("comments of %s: %w", post.ID, err)
	}
	if len(listings) < 2 {
		return []domain.Comment{}, nil
	}

	comments := []domain.Comment{}
	for _, child := range listings[1].Data.Children {
		if child.Kind != "t1" || child.Data.Depth != 0 {
			continue
		}
		comments = append(comments, domain.Comment{ID: child.Data.ID, Body: child.Data.Body, Score: child.Data.Score})
	}

	sort.SliceStable(comments, func(i, j int) bool { return comments[i].Score > comments[j].Score })
	if len(comments) > n {
		comments = comments[:n]
	}
	return comments, nil
}

// getJSON requests path relative to the API base and decodes the response
func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	base, token, err := c.endpoint(ctx)
	if err != nil {
		return err
	}

	if err = c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if token != "" {
		req.Header.Set("Authorization", "bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// endpoint returns API base and bearer token, the token is empty for the public API
func (c *Client) endpoint(ctx context.Context) (base, token string, err error) {
	if c.cfg.ClientID == "" {
		return strings.TrimSuffix(c.cfg.BaseURL, "/"), "", nil
	}
	token, err = c.accessToken(ctx)
	if err != nil {
		return "", "", err
	}
	return strings.TrimSuffix(c.cfg.OAuthURL, "/"), token, nil
}

// accessToken returns cached application-only OAuth token, refreshing it a minute before expiration
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token request: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token request status %d", ErrUnreachable, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: decode token: %v", ErrUnreachable, err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: no access token, %s", ErrUnreachable, tr.Error)
	}

	c.token = tr.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - time.Minute)
	lgr.Printf("[DEBUG] obtained api token, expires in %ds", tr.ExpiresIn)
	return c.token, nil
}

func toPost(d listingData) domain.Post {
	ratio := d.UpvoteRatio
	switch {
	case ratio < 0:
		ratio = 0
	case ratio > 1:
		ratio = 1
	}
	author := d.Author
	if author == "" {
		author = "[deleted]"
	}
	return domain.Post{
		ID:          d.ID,
		Title:       d.Title,
		SelfText:    d.SelfText,
		Author:      author,
		Board:       d.Subreddit,
		Score:       d.Score,
		UpvoteRatio: ratio,
		NumComments: d.NumComments,
		CreatedUTC:  time.Unix(int64(d.CreatedUTC), 0).UTC(),
		URL:         d.URL,
		Permalink:   d.Permalink,
		IsSelf:      d.IsSelf,
		Flair:       d.LinkFlairText,
	}
}
