package server

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/subscope/subscope/pkg/domain"
)

// ErrJobActive is returned when a collection is requested while another one is running
var ErrJobActive = errors.New("collection already running")

const (
	messageBuffer = 64  // capacity of worker to job message channel
	maxMessages   = 500 // messages kept per job, older ones dropped
	maxJobs       = 20  // finished jobs kept for lookup
)

// JobStatus is a state of the collection job
type JobStatus string

// job states, done and error are terminal
const (
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobError   JobStatus = "error"
)

// Job is a snapshot of background collection state
type Job struct {
	ID       string    `json:"id"`
	Status   JobStatus `json:"status"`
	Boards   []string  `json:"boards"`
	Messages []string  `json:"messages"`
	File     string    `json:"file,omitempty"`
	Error    string    `json:"error,omitempty"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished,omitzero"`
}

// FileName returns base name of the output file, empty if the job produced none
func (j Job) FileName() string {
	if j.File == "" {
		return ""
	}
	return filepath.Base(j.File)
}

// jobManager runs one collection at a time in background and keeps recent job states
type jobManager struct {
	runner Runner

	mu     sync.Mutex
	ctx    context.Context
	jobs   *orderedmap.OrderedMap[string, *Job]
	active string
}

func newJobManager(runner Runner) *jobManager {
	return &jobManager{
		runner: runner,
		ctx:    context.Background(),
		jobs:   orderedmap.New[string, *Job](),
	}
}

// setContext sets parent context of all further jobs
func (m *jobManager) setContext(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx = ctx
}

// Start launches collection in a goroutine and returns the new job.
// Returns ErrJobActive if another job is still running.
func (m *jobManager) Start(params domain.RunParams) (Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != "" {
		return Job{}, fmt.Errorf("%w: job %s", ErrJobActive, m.active)
	}

	job := &Job{
		ID:       uuid.NewString(),
		Status:   JobRunning,
		Boards:   params.Boards,
		Messages: []string{},
		Started:  time.Now(),
	}
	m.jobs.Set(job.ID, job)
	m.active = job.ID
	m.prune()

	lgr.Printf("[INFO] job %s started for %v", job.ID, params.Boards)
	go m.run(m.ctx, job.ID, params)
	return job.snapshot(), nil
}

// Get returns a copy of the job state
func (m *jobManager) Get(id string) (Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs.Get(id)
	if !ok {
		return Job{}, false
	}
	return job.snapshot(), true
}

// Active returns id of the running job, empty if none
func (m *jobManager) Active() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// run executes the collection. Progress lines go from the worker through a bounded channel
// to the consumer appending them to the job.
func (m *jobManager) run(ctx context.Context, id string, params domain.RunParams) {
	msgs := make(chan string, messageBuffer)
	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		for msg := range msgs {
			m.addMessage(id, msg)
		}
	}()

	log := lgr.Func(func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		lgr.Printf("[DEBUG] job %s: %s", id, msg)
		msgs <- msg
	})

	path, err := m.runner.Run(ctx, params, log)
	close(msgs)
	<-consumed
	m.finish(id, path, err)
}

func (m *jobManager) addMessage(id, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs.Get(id)
	if !ok {
		return
	}
	job.Messages = append(job.Messages, msg)
	if len(job.Messages) > maxMessages {
		job.Messages = job.Messages[len(job.Messages)-maxMessages:]
	}
}

func (m *jobManager) finish(id, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == id {
		m.active = ""
	}
	job, ok := m.jobs.Get(id)
	if !ok {
		return
	}
	job.Finished = time.Now()
	job.File = path
	if err != nil {
		job.Status = JobError
		job.Error = err.Error()
		lgr.Printf("[WARN] job %s failed: %v", id, err)
		return
	}
	job.Status = JobDone
	lgr.Printf("[INFO] job %s done, %s", id, path)
}

// prune drops the oldest finished jobs over the limit, must be called under lock
func (m *jobManager) prune() {
	for p := m.jobs.Oldest(); p != nil && m.jobs.Len() > maxJobs; {
		next := p.Next()
		if p.Value.Status != JobRunning {
			m.jobs.Delete(p.Key)
		}
		p = next
	}
}

func (j Job) snapshot() Job {
	res := j
	res.Boards = append([]string(nil), j.Boards...)
	res.Messages = append([]string{}, j.Messages...)
	return res
}
