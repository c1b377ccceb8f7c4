package collector

import (
	"strconv"
	"strings"
	"time"

	"github.com/subscope/subscope/pkg/annotate"
	"github.com/subscope/subscope/pkg/domain"
)

// Header is the first row of every output file
var Header = []string{
	"post_id", "title", "selftext", "author", "subreddit", "score", "upvote_ratio",
	"num_comments", "created_utc", "url", "permalink", "is_self", "link_flair_text",
	"top_comments", "topic_tags", "sentiment",
}

// commentSeparator joins top comments in a single cell
const commentSeparator = " >>> "

// permalinkHost is prepended to the post permalink path
const permalinkHost = "https://reddit.com"

// formatRow renders the record as csv fields in Header order
func formatRow(r domain.Record) []string {
	comments := make([]string, 0, len(r.TopComments))
	for _, c := range r.TopComments {
		comments = append(comments, annotate.Clean(c))
	}

	return []string{
		r.ID,
		annotate.Clean(r.Title),
		annotate.Clean(r.SelfText),
		r.Author,
		r.Board,
		strconv.Itoa(r.Score),
		strconv.FormatFloat(r.UpvoteRatio, 'f', -1, 64),
		strconv.Itoa(r.NumComments),
		r.CreatedUTC.UTC().Format(time.RFC3339),
		r.URL,
		permalinkHost + r.Permalink,
		strconv.FormatBool(r.IsSelf),
		r.Flair,
		annotate.Clean(strings.Join(comments, commentSeparator)),
		annotate.FormatTags(r.Topics),
		string(r.Sentiment),
	}
}
