// Package collector implements the collection pipeline: it fetches posts of each board,
// annotates them with topics and sentiment and writes one CSV row per post.
package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/subscope/subscope/pkg/annotate"
	"github.com/subscope/subscope/pkg/domain"
	"github.com/subscope/subscope/pkg/keywords"
	"github.com/subscope/subscope/pkg/reddit"
)

//go:generate moq -out mocks/board_client.go -pkg mocks -skip-ensure -fmt goimports . BoardClient
//go:generate moq -out mocks/sentiment.go -pkg mocks -skip-ensure -fmt goimports . SentimentClassifier

// ErrAllBoardsFailed is returned when every board failed on a transport error, treated as the API
// being unreachable. Boards rejected by the API with an HTTP status don't count.
var ErrAllBoardsFailed = errors.New("all boards failed")

// commentsPerPost is the number of top comments kept for each post
const commentsPerPost = 3

// BoardClient retrieves posts and comments from the board-content API
type BoardClient interface {
	Listing(ctx context.Context, board string, listing domain.Listing, window domain.TimeWindow, limit int) ([]domain.Post, error)
	TopComments(ctx context.Context, post domain.Post, n int) ([]domain.Comment, error)
}

// SentimentClassifier labels a post by its text and upvote ratio
type SentimentClassifier interface {
	Classify(ctx context.Context, title, body string, ratio float64) (domain.Sentiment, error)
}

// Collector runs collection pipeline. Boards are processed sequentially with a single csv writer.
type Collector struct {
	client     BoardClient
	keywords   *keywords.Store
	classifier SentimentClassifier
	pause      time.Duration
	now        func() time.Time
	log        lgr.L

	mu      sync.Mutex
	summary []BoardSummary
}

// Config holds collector dependencies and settings
type Config struct {
	Client     BoardClient
	Keywords   *keywords.Store
	Classifier SentimentClassifier // nil means the VADER classifier
	Pause      time.Duration       // pacing delay between boards
	Now        func() time.Time    // clock used for the file date, time.Now by default
	Log        lgr.L               // progress and warnings, lgr.Default() by default
}

// BoardSummary holds per-board result of the last run
type BoardSummary struct {
	Board   string
	Posts   int
	Skipped int
	Err     error
}

// New makes a collector from the config
func New(cfg Config) *Collector {
	res := &Collector{
		client:     cfg.Client,
		keywords:   cfg.Keywords,
		classifier: cfg.Classifier,
		pause:      cfg.Pause,
		now:        cfg.Now,
		log:        cfg.Log,
	}
	if res.keywords == nil {
		res.keywords = keywords.NewStore(keywords.DefaultFile)
	}
	if res.classifier == nil {
		res.classifier = annotate.NewClassifier(nil)
	}
	if res.now == nil {
		res.now = time.Now
	}
	if res.log == nil {
		res.log = lgr.Default()
	}
	return res
}

// FileName returns output file name for the given run date
func FileName(date time.Time) string {
	return fmt.Sprintf("reddit_data_%s.csv", date.Format("2006-01-02"))
}

// Run collects posts of all boards into reddit_data_<date>.csv inside params.OutputDir and
// returns absolute path of the file. A failed board is logged and skipped, the run fails only
// if the output can't be created, the API is unreachable or every board failed on a transport error.
// Boards the API answered with an error status, e.g. 404 for a missing board, leave a header-only file.
// Rows written before a failure stay in the file.
func (c *Collector) Run(ctx context.Context, params domain.RunParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", fmt.Errorf("invalid run parameters: %w", err)
	}
	listing := params.Listing.Resolve()

	if err := os.MkdirAll(params.OutputDir, 0o750); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path, err := filepath.Abs(filepath.Join(params.OutputDir, FileName(c.now())))
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}

	fh, err := os.Create(path) //nolint:gosec // path is built from configured dir and fixed name
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := fh.Close(); cerr != nil {
			c.log.Logf("[WARN] can't close %s: %v", path, cerr)
		}
	}()

	topics := c.keywords.Load()
	c.log.Logf("[INFO] loaded %d topics", topics.Len())

	w := csv.NewWriter(fh)
	if err := w.Write(Header); err != nil {
		return path, fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return path, fmt.Errorf("write header: %w", err)
	}

	summary := make([]BoardSummary, 0, len(params.Boards))
	defer func() { c.setSummary(summary) }()

	failed, transport := 0, 0
	for i, board := range params.Boards {
		if i > 0 {
			if err := c.wait(ctx); err != nil {
				return path, fmt.Errorf("collection interrupted: %w", err)
			}
		}

		c.log.Logf("[INFO] collecting r/%s, %s, limit %d", board, listing, params.Limit)
		bs := c.collectBoard(ctx, w, board, listing, params, topics)
		summary = append(summary, bs)

		if bs.Err != nil {
			if errors.Is(bs.Err, reddit.ErrUnreachable) {
				return path, fmt.Errorf("collect r/%s: %w", board, bs.Err)
			}
			failed++
			if isTransportErr(bs.Err) {
				transport++
			}
			c.log.Logf("[WARN] error collecting r/%s: %v", board, bs.Err)
			continue
		}
		c.log.Logf("[INFO] collected %d posts from r/%s", bs.Posts, board)
	}

	if transport == len(params.Boards) {
		return path, fmt.Errorf("%w: %d of %d", ErrAllBoardsFailed, failed, len(params.Boards))
	}
	if failed > 0 {
		c.log.Logf("[WARN] %d of %d boards failed", failed, len(params.Boards))
	}

	c.log.Logf("[INFO] saved to %s", path)
	return path, nil
}

// isTransportErr checks if the request never got a response from the API
func isTransportErr(err error) bool {
	if errors.Is(err, reddit.ErrUnreachable) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// LastSummary returns per-board results of the most recent run
func (c *Collector) LastSummary() []BoardSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := make([]BoardSummary, len(c.summary))
	copy(res, c.summary)
	return res
}

// collectBoard writes rows for a single board and flushes them. Errors of a single post are
// logged and the post is skipped, the summary Err is set for failures of the whole board.
func (c *Collector) collectBoard(ctx context.Context, w *csv.Writer, board string, listing domain.Listing,
	params domain.RunParams, topics *keywords.Topics) BoardSummary {
	res := BoardSummary{Board: board}

	posts, err := c.client.Listing(ctx, board, listing, params.Window, params.Limit)
	if err != nil {
		res.Err = fmt.Errorf("fetch listing: %w", err)
		return res
	}

	for _, post := range posts {
		rec, err := c.annotatePost(ctx, post, topics)
		if err != nil {
			c.log.Logf("[WARN] skip post %q in r/%s: %v", post.ID, board, err)
			res.Skipped++
			continue
		}
		if rec.Board == "" {
			rec.Board = board
		}
		if err := w.Write(formatRow(rec)); err != nil {
			res.Err = fmt.Errorf("write row: %w", err)
			break
		}
		res.Posts++
	}

	// flush even after a write error so earlier rows of this board make it to the file
	w.Flush()
	if err := w.Error(); err != nil && res.Err == nil {
		res.Err = fmt.Errorf("flush rows: %w", err)
	}
	return res
}

// annotatePost fetches top comments and derives topics and sentiment of the post
func (c *Collector) annotatePost(ctx context.Context, post domain.Post, topics *keywords.Topics) (domain.Record, error) {
	if post.ID == "" {
		return domain.Record{}, errors.New("malformed post without id")
	}

	comments, err := c.client.TopComments(ctx, post, commentsPerPost)
	if err != nil {
		return domain.Record{}, fmt.Errorf("fetch comments: %w", err)
	}
	bodies := make([]string, 0, len(comments))
	for _, cm := range comments {
		bodies = append(bodies, cm.Body)
	}

	sentiment, err := c.classifier.Classify(ctx, post.Title, post.SelfText, post.UpvoteRatio)
	if err != nil {
		return domain.Record{}, fmt.Errorf("classify sentiment: %w", err)
	}

	return domain.Record{
		Post:        post,
		TopComments: bodies,
		Topics:      annotate.Tag(post.Title, post.SelfText, topics),
		Sentiment:   sentiment,
	}, nil
}

// wait pauses between boards, returns early with error if context canceled
func (c *Collector) wait(ctx context.Context) error {
	if c.pause <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.pause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Collector) setSummary(s []BoardSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary = s
}
