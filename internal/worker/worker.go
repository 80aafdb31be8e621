package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/gsarma/mailrender/internal/delivery"
	"github.com/gsarma/mailrender/internal/metrics"
)

// Job states.
const (
	StatusQueued    = "queued"
	StatusRetrying  = "retrying"
	StatusSent      = "sent"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

var ErrQueueFull = errors.New("worker: delivery queue is full")

// Job is a snapshot of one asynchronous delivery.
type Job struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Provider    string     `json:"provider"`
	Attempt     int        `json:"attempt"`
	MaxAttempts int        `json:"maxAttempts"`
	MessageID   string     `json:"messageId,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	msg delivery.Message
}

type Options struct {
	Concurrency int
	QueueSize   int
	MaxAttempts int
	// BackoffBase is the delay before the first retry; it doubles per attempt.
	BackoffBase time.Duration
	// StatusTTL is how long finished jobs stay queryable.
	StatusTTL time.Duration
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

// Pool delivers queued messages with a fixed number of goroutines. Job state
// lives in memory only and expires after StatusTTL.
type Pool struct {
	sender  delivery.Sender
	opts    Options
	queue   chan *Job
	jobs    *gocache.Cache
	log     *zap.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	stopped bool
}

func New(sender delivery.Sender, opts Options) *Pool {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = 10 * time.Second
	}
	if opts.StatusTTL <= 0 {
		opts.StatusTTL = time.Hour
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{
		sender:  sender,
		opts:    opts,
		queue:   make(chan *Job, opts.QueueSize),
		jobs:    gocache.New(opts.StatusTTL, time.Minute),
		log:     log.With(zap.String("component", "delivery_worker")),
		metrics: opts.Metrics,
	}
}

// Enqueue accepts msg for background delivery without blocking.
func (p *Pool) Enqueue(msg delivery.Message) (Job, error) {
	job := &Job{
		ID:          uuid.NewString(),
		Status:      StatusQueued,
		Provider:    p.sender.Name(),
		MaxAttempts: p.opts.MaxAttempts,
		CreatedAt:   time.Now().UTC(),
		msg:         msg,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return Job{}, ErrQueueFull
	}

	// A worker owns job once it is on the queue; only the copy is used after.
	snapshot := *job
	p.jobs.SetDefault(job.ID, snapshot)
	select {
	case p.queue <- job:
		return snapshot, nil
	default:
		p.jobs.Delete(job.ID)
		return Job{}, ErrQueueFull
	}
}

// Status returns the latest snapshot of job id.
func (p *Pool) Status(id string) (Job, bool) {
	v, ok := p.jobs.Get(id)
	if !ok {
		return Job{}, false
	}
	return v.(Job), true
}

// Run spawns the workers and blocks until ctx is cancelled and every worker
// has returned. Jobs still queued at that point are marked cancelled.
func (p *Pool) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < p.opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.loop(ctx)
		}()
	}
	<-ctx.Done()
	wg.Wait()

	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
	for {
		select {
		case job := <-p.queue:
			p.finish(job, StatusCancelled, "", ctx.Err())
		default:
			return nil
		}
	}
}

func (p *Pool) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.queue:
			p.process(ctx, job)
		}
	}
}

func (p *Pool) process(ctx context.Context, job *Job) {
	job.Attempt++
	id, err := p.sender.Send(ctx, job.msg)
	p.metrics.ObserveDelivery(job.Provider, err)

	if err == nil {
		p.finish(job, StatusSent, id, nil)
		return
	}

	log := p.log.With(zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
	if job.Attempt >= job.MaxAttempts || ctx.Err() != nil {
		log.Error("Delivery failed permanently", zap.Error(err))
		p.finish(job, StatusFailed, "", err)
		return
	}

	backoff := time.Duration(int64(1)<<uint(job.Attempt-1)) * p.opts.BackoffBase
	log.Warn("Delivery failed, retrying", zap.Error(err), zap.Duration("backoff", backoff))
	job.Status = StatusRetrying
	job.Error = err.Error()
	p.jobs.SetDefault(job.ID, *job)

	time.AfterFunc(backoff, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.stopped {
			p.finishLocked(job, StatusCancelled, "", nil)
			return
		}
		select {
		case p.queue <- job:
		default:
			p.finishLocked(job, StatusFailed, "", ErrQueueFull)
		}
	})
}

func (p *Pool) finish(job *Job, status, messageID string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finishLocked(job, status, messageID, err)
}

func (p *Pool) finishLocked(job *Job, status, messageID string, err error) {
	now := time.Now().UTC()
	job.Status = status
	job.MessageID = messageID
	job.CompletedAt = &now
	job.Error = ""
	if err != nil {
		job.Error = err.Error()
	}
	p.jobs.SetDefault(job.ID, *job)
}
