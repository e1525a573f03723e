package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/parchment-labs/docask-cli/internal/core/ports/driving"
	"github.com/parchment-labs/docask-cli/internal/logger"
)

// JobState describes where an ingest job is in its lifecycle.
type JobState string

// Job lifecycle states.
const (
	JobPending   JobState = "pending"
	JobRunning   JobState = "running"
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
)

// Job tracks a single queued ingestion.
type Job struct {
	ID         string
	Filename   string
	State      JobState
	Report     *driving.IngestReport
	Err        error
	EnqueuedAt time.Time
	FinishedAt time.Time
}

// ErrQueueClosed is returned by Enqueue once the queue has been closed.
var ErrQueueClosed = errors.New("ingest queue is closed")

// queued is the unit of work handed to the worker.
type queued struct {
	id       string
	filename string
	payload  []byte
}

// IngestQueue serialises ingestions through a single background worker
// so bursts of files (a directory watch, a batch ingest) never run the
// extraction tools concurrently.
type IngestQueue struct {
	ingester driving.IngestService

	mu   sync.RWMutex
	jobs map[string]*Job

	// closeMu serialises sends on work against its close.
	closeMu sync.Mutex
	closed  bool

	work   chan queued
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewIngestQueue creates a queue with the given buffer size and starts
// its worker.
func NewIngestQueue(ingester driving.IngestService, buffer int) *IngestQueue {
	if buffer <= 0 {
		buffer = 16
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &IngestQueue{
		ingester: ingester,
		jobs:     make(map[string]*Job),
		work:     make(chan queued, buffer),
		cancel:   cancel,
	}

	q.wg.Add(1)
	go q.worker(ctx)

	return q
}

// Enqueue registers a job and returns its id immediately. It blocks only
// when the buffer is full, and returns ErrQueueClosed after Close.
func (q *IngestQueue) Enqueue(filename string, payload []byte) (string, error) {
	q.closeMu.Lock()
	defer q.closeMu.Unlock()

	if q.closed {
		return "", ErrQueueClosed
	}

	id := uuid.NewString()

	q.mu.Lock()
	q.jobs[id] = &Job{
		ID:         id,
		Filename:   filename,
		State:      JobPending,
		EnqueuedAt: time.Now(),
	}
	q.mu.Unlock()

	q.work <- queued{id: id, filename: filename, payload: payload}
	return id, nil
}

// Status returns a copy of the job, or nil if the id is unknown.
func (q *IngestQueue) Status(id string) *Job {
	q.mu.RLock()
	defer q.mu.RUnlock()

	job, ok := q.jobs[id]
	if !ok {
		return nil
	}
	copied := *job
	return &copied
}

// Wait blocks until the job finishes and returns its final state.
// Returns nil if the id is unknown.
func (q *IngestQueue) Wait(id string) *Job {
	for {
		job := q.Status(id)
		if job == nil {
			return nil
		}
		if job.State == JobCompleted || job.State == JobFailed {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Close stops the worker after draining queued work. It is safe to call
// more than once.
func (q *IngestQueue) Close() {
	q.closeMu.Lock()
	if !q.closed {
		q.closed = true
		close(q.work)
	}
	q.closeMu.Unlock()

	q.wg.Wait()
	q.cancel()
}

// worker drains the queue one job at a time.
func (q *IngestQueue) worker(ctx context.Context) {
	defer q.wg.Done()

	for item := range q.work {
		q.setState(item.id, JobRunning)

		report, err := q.ingester.Ingest(ctx, item.filename, item.payload)

		q.mu.Lock()
		job := q.jobs[item.id]
		job.Report = report
		job.Err = err
		job.FinishedAt = time.Now()
		if err != nil {
			job.State = JobFailed
			logger.Warn("ingest of %q failed: %v", item.filename, err)
		} else {
			job.State = JobCompleted
		}
		q.mu.Unlock()
	}
}

// setState updates a job's state.
func (q *IngestQueue) setState(id string, state JobState) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if job, ok := q.jobs[id]; ok {
		job.State = state
	}
}
