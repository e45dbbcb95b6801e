// Package upload manages the life cycle of a bulk-transaction upload: the
// client-side file checks, the submission, and the polling of the
// server-side job until it reaches a terminal state.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/payshield/payshield-cli/internal/client/api"
	"github.com/payshield/payshield-cli/internal/client/models"
	"github.com/payshield/payshield-cli/internal/logging"
)

var (
	ErrBadFileType  = errors.New("please upload a CSV or Excel file (.csv, .xls, .xlsx)")
	ErrFileTooLarge = errors.New("file size must be less than 10MB")

	ErrAlreadySubmitted = errors.New("tracker already used; create a new one per upload")
)

// errJobRunning drives the retry loop while the job is non-terminal.
var errJobRunning = errors.New("job still running")

// State is the tracker's view of the upload life cycle. PENDING and
// PROCESSING mirror the server job status; SUBMITTING, COMPLETED, FAILED
// and DETACHED are client-side.
type State string

const (
	StateIdle       State = ""
	StateSubmitting State = "SUBMITTING"
	StatePending    State = "PENDING"
	StateProcessing State = "PROCESSING"
	StateCompleted  State = "COMPLETED"
	StateFailed     State = "FAILED"
	StateDetached   State = "DETACHED"
)

// Terminal reports whether the tracker will make no further transitions.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateDetached
}

var stateRank = map[State]int{
	StateIdle:       0,
	StateSubmitting: 1,
	StatePending:    2,
	StateProcessing: 3,
	StateCompleted:  4,
	StateFailed:     4,
	StateDetached:   4,
}

// API is the slice of the backend the tracker needs.
type API interface {
	UploadBulk(ctx context.Context, filename string, file io.Reader) (*api.UploadResponse, error)
	JobStatus(ctx context.Context, jobID string) (*models.UploadJob, error)
}

// Invalidator receives the completion signal so list views refetch the
// newly ingested rows.
type Invalidator interface {
	Invalidate()
}

// Event is a state-change or progress notification.
type Event struct {
	State    State
	Progress *models.JobProgress  // nil until the server reports progress
	Result   *models.UploadResult // set when the server ingested synchronously
	Err      error                // terminal failure detail
}

// Options tune the tracker; zero values fall back to the defaults the
// dashboard uses (2s polls, 10 MiB ceiling).
type Options struct {
	PollInterval time.Duration
	MaxFileBytes int64
}

const (
	defaultPollInterval = 2 * time.Second
	defaultMaxFileBytes = 10 << 20
)

var allowedExtensions = []string{".csv", ".xls", ".xlsx"}

// ValidateFile applies the client-side constraints: allowed extension and
// size ceiling. Violations never reach the network.
func ValidateFile(path string, maxBytes int64) error {
	ext := strings.ToLower(filepath.Ext(path))
	ok := false
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			ok = true
			break
		}
	}
	if !ok {
		return ErrBadFileType
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading file info: %w", err)
	}
	if info.Size() > maxBytes {
		return ErrFileTooLarge
	}
	return nil
}

// Tracker drives one upload from submission to a terminal state. It is
// single-use: construct a new Tracker per file.
type Tracker struct {
	api  API
	inv  Invalidator
	log  logging.Logger
	opts Options

	mu      sync.Mutex
	state   State
	jobID   string
	percent float64
	done    bool
	cancel  context.CancelFunc

	events chan Event
}

func NewTracker(a API, inv Invalidator, log logging.Logger, opts Options) *Tracker {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = defaultMaxFileBytes
	}
	return &Tracker{
		api:    a,
		inv:    inv,
		log:    log.With("component", "upload"),
		opts:   opts,
		events: make(chan Event, 16),
	}
}

// Events delivers state and progress notifications. The terminal event is
// delivered exactly once; the channel is never closed.
func (t *Tracker) Events() <-chan Event {
	return t.events
}

// State returns the current tracker state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Submit validates the file, uploads it, and either finishes immediately
// (synchronous server result) or starts the polling loop for the returned
// job. A failed submission is terminal; transient errors are only
// tolerated while polling.
func (t *Tracker) Submit(ctx context.Context, path string) error {
	t.mu.Lock()
	if t.state != StateIdle {
		t.mu.Unlock()
		return ErrAlreadySubmitted
	}
	t.state = StateSubmitting
	t.mu.Unlock()

	if err := ValidateFile(path, t.opts.MaxFileBytes); err != nil {
		t.fail(err)
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("opening upload file: %w", err)
		t.fail(err)
		return err
	}
	defer f.Close()

	resp, err := t.api.UploadBulk(ctx, filepath.Base(path), f)
	if err != nil {
		t.fail(fmt.Errorf("upload failed: %w", err))
		return fmt.Errorf("upload failed: %w", err)
	}

	if resp.Result != nil {
		t.log.Info(ctx, "upload ingested synchronously",
			"total", resp.Result.TotalRows, "failed", resp.Result.FailedRows)
		t.completeSync(resp.Result)
		return nil
	}

	pollCtx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	t.jobID = resp.Job.JobID
	t.cancel = cancel
	t.mu.Unlock()

	t.update(resp.Job)
	go t.poll(pollCtx, resp.Job.JobID)
	return nil
}

// Detach stops the polling loop. A poll result that arrives after Detach
// is discarded without touching shared state, and no completion signal is
// emitted.
func (t *Tracker) Detach() {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	if !t.state.Terminal() {
		t.state = StateDetached
	}
	t.mu.Unlock()
}

// poll runs the status loop: one request per tick, the next tick only
// scheduled after the previous request resolves, so polls for the same
// job never pile up.
func (t *Tracker) poll(ctx context.Context, jobID string) {
	var last *models.UploadJob

	backoff := retry.NewConstant(t.opts.PollInterval)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		job, err := t.api.JobStatus(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			// Transient transport failure: keep the job alive and try
			// again on the next tick.
			t.log.Warn(ctx, "status poll failed, retrying", "job_id", jobID, "error", err)
			return retry.RetryableError(err)
		}

		t.update(job)

		if !job.Status.Terminal() {
			return retry.RetryableError(errJobRunning)
		}
		last = job
		return nil
	})
	if err != nil || last == nil {
		// Canceled by detach; whatever arrived late stays discarded.
		return
	}

	t.finish(last)
}

// update merges a polled job status into the tracker, enforcing the
// one-directional state machine and monotonic progress.
func (t *Tracker) update(job *models.UploadJob) {
	t.mu.Lock()

	if t.state.Terminal() {
		t.mu.Unlock()
		return
	}

	next := stateForStatus(job.Status)
	if stateRank[next] < stateRank[t.state] {
		// A stale response must not regress the state machine.
		t.mu.Unlock()
		return
	}
	if next == StatePending || next == StateProcessing {
		t.state = next
	}

	var progress *models.JobProgress
	if job.Progress != nil {
		p := *job.Progress
		if p.Percent < t.percent {
			p.Percent = t.percent
		}
		t.percent = p.Percent
		progress = &p
	}
	state := t.state
	t.mu.Unlock()

	t.emit(Event{State: state, Progress: progress})
}

// finish emits the completion signal exactly once and, on success,
// invalidates the transactions cache.
func (t *Tracker) finish(job *models.UploadJob) {
	t.mu.Lock()
	if t.done || t.state == StateDetached {
		t.mu.Unlock()
		return
	}
	t.done = true

	var err error
	if job.Status == models.JobFailed {
		t.state = StateFailed
		if job.Error != "" {
			err = errors.New(job.Error)
		} else {
			err = errors.New("upload failed")
		}
	} else {
		t.state = StateCompleted
	}

	var progress *models.JobProgress
	if job.Progress != nil {
		p := *job.Progress
		if p.Percent < t.percent {
			p.Percent = t.percent
		}
		progress = &p
	}
	state := t.state
	t.mu.Unlock()

	t.events <- Event{State: state, Progress: progress, Err: err}

	if state == StateCompleted && t.inv != nil {
		t.inv.Invalidate()
	}
}

func (t *Tracker) completeSync(result *models.UploadResult) {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return
	}
	t.done = true
	t.state = StateCompleted
	t.mu.Unlock()

	t.events <- Event{State: StateCompleted, Result: result}

	if t.inv != nil {
		t.inv.Invalidate()
	}
}

func (t *Tracker) fail(err error) {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return
	}
	t.done = true
	t.state = StateFailed
	t.mu.Unlock()

	t.events <- Event{State: StateFailed, Err: err}
}

// emit delivers progress notifications without blocking the poll loop;
// a slow consumer misses intermediate updates, never the terminal event.
func (t *Tracker) emit(ev Event) {
	select {
	case t.events <- ev:
	default:
	}
}

func stateForStatus(s models.JobStatus) State {
	switch s {
	case models.JobPending:
		return StatePending
	case models.JobProcessing:
		return StateProcessing
	case models.JobCompleted:
		return StateCompleted
	case models.JobFailed:
		return StateFailed
	}
	return StatePending
}
