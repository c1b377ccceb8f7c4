// Package reddit provides a client for Reddit's JSON API, used as the board-content source
package reddit

import "time"

// Config controls client behavior
type Config struct {
	BaseURL      string // public API, used without credentials
	AuthURL      string // OAuth token endpoint
	OAuthURL     string // API base used with OAuth token
	ClientID     string
	ClientSecret string
	UserAgent    string
	Timeout      time.Duration
	RateLimit    time.Duration // minimal interval between requests
}

// maxPageSize is the largest page the listing endpoint returns
const maxPageSize = 100

// Reddit JSON API response types

type listingResponse struct {
	Data struct {
		Children []listingChild `json:"children"`
		After    string         `json:"after"`
	} `json:"data"`
}

type listingChild struct {
	Kind string      `json:"kind"`
	Data listingData `json:"data"`
}

type listingData struct {
	ID            string  `json:"id"`
	Subreddit     string  `json:"subreddit"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	SelfText      string  `json:"selftext"`
	Body          string  `json:"body"`
	URL           string  `json:"url"`
	Permalink     string  `json:"permalink"`
	Score         int     `json:"score"`
	UpvoteRatio   float64 `json:"upvote_ratio"`
	NumComments   int     `json:"num_comments"`
	CreatedUTC    float64 `json:"created_utc"`
	IsSelf        bool    `json:"is_self"`
	LinkFlairText string  `json:"link_flair_text"`
	Depth         int     `json:"depth"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}
