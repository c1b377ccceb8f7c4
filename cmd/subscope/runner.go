package main

import (
	"context"

	"github.com/go-pkgz/lgr"

	"github.com/subscope/subscope/pkg/annotate"
	"github.com/subscope/subscope/pkg/collector"
	"github.com/subscope/subscope/pkg/config"
	"github.com/subscope/subscope/pkg/domain"
	"github.com/subscope/subscope/pkg/keywords"
	"github.com/subscope/subscope/pkg/llm"
	"github.com/subscope/subscope/pkg/reddit"
)

// collectRunner adapts collector to the server's Runner, making a collector per run
// so each job reports to its own log
type collectRunner struct {
	cfg    *config.Config
	client collector.BoardClient
	store  *keywords.Store
}

func newCollectRunner(cfg *config.Config, store *keywords.Store) *collectRunner {
	return &collectRunner{cfg: cfg, client: newRedditClient(cfg.Reddit), store: store}
}

// Run implements server.Runner
func (r *collectRunner) Run(ctx context.Context, params domain.RunParams, log lgr.L) (string, error) {
	return r.collector(log).Run(ctx, params)
}

func (r *collectRunner) collector(log lgr.L) *collector.Collector {
	return collector.New(collector.Config{
		Client:     r.client,
		Keywords:   r.store,
		Classifier: newClassifier(r.cfg),
		Pause:      r.cfg.Collect.Pause,
		Log:        log,
	})
}

func newRedditClient(cfg config.RedditConfig) *reddit.Client {
	return reddit.NewClient(reddit.Config{
		BaseURL:      cfg.BaseURL,
		AuthURL:      cfg.AuthURL,
		OAuthURL:     cfg.OAuthURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		UserAgent:    cfg.UserAgent,
		Timeout:      cfg.Timeout,
		RateLimit:    cfg.RateLimit,
	})
}

// newClassifier makes sentiment classifier with the configured polarity scorer
func newClassifier(cfg *config.Config) *annotate.Classifier {
	if cfg.Sentiment.Scorer == config.ScorerLLM {
		return annotate.NewClassifier(llm.NewPolarityScorer(cfg.LLM))
	}
	return annotate.NewClassifier(nil)
}
