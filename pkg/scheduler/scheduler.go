// Package scheduler starts collection runs periodically while the server is running
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/subscope/subscope/pkg/domain"
)

//go:generate moq -out mocks/starter.go -pkg mocks -skip-ensure -fmt goimports . Starter

// Starter starts a collection job in background and returns its id
type Starter interface {
	StartCollection(params domain.RunParams) (string, error)
}

// Params holds scheduler dependencies and settings
type Params struct {
	Starter   Starter
	Interval  time.Duration
	RunParams domain.RunParams // boards and settings of every scheduled run
}

// Scheduler starts a collection every interval, the first one after the first interval.
// A tick is skipped if the previous job is still running.
type Scheduler struct {
	starter  Starter
	interval time.Duration
	params   domain.RunParams

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewScheduler creates a new scheduler instance
func NewScheduler(p Params) *Scheduler {
	return &Scheduler{
		starter:  p.Starter,
		interval: p.Interval,
		params:   p.RunParams,
	}
}

// Start begins the scheduler, does nothing for non-positive interval
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		lgr.Printf("[DEBUG] scheduled collection disabled")
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.worker(ctx)

	lgr.Printf("[INFO] scheduler started, collecting %v every %v", s.params.Boards, s.interval)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.trigger()
		}
	}
}

// trigger starts a single scheduled collection
func (s *Scheduler) trigger() {
	params := s.params
	params.Boards = append([]string(nil), s.params.Boards...)

	id, err := s.starter.StartCollection(params)
	if err != nil {
		lgr.Printf("[WARN] scheduled collection skipped: %v", err)
		return
	}
	lgr.Printf("[INFO] scheduled collection started, job %s", id)
}
