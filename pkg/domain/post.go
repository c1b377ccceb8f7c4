package domain

import "time"

// Post represents a single board post as returned by the board-content API
type Post struct {
	ID          string
	Title       string
	SelfText    string
	Author      string
	Board       string
	Score       int
	UpvoteRatio float64
	NumComments int
	CreatedUTC  time.Time
	URL         string
	Permalink   string // path part, e.g. /r/golang/comments/abc/title/
	IsSelf      bool
	Flair       string
}

// Comment represents a top-level comment on a post
type Comment struct {
	ID    string
	Body  string
	Score int
}

// Record is an annotated post ready to be written as an output row
type Record struct {
	Post
	TopComments []string
	Topics      []string
	Sentiment   Sentiment
}

// Sentiment is a coarse three-way sentiment label
type Sentiment string

// sentiment labels
const (
	SentimentPositive      Sentiment = "positive"
	SentimentNegative      Sentiment = "negative"
	SentimentControversial Sentiment = "controversial"
)
