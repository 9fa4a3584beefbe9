package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docsum/internal/config"
	"github.com/dgallion1/docsum/internal/summarize"
)

var (
	// ErrQueueFull is returned by Submit when no run slot is free.
	ErrQueueFull = errors.New("run queue is full")
	// ErrPipelineStopped is returned by Submit after Stop, and recorded on
	// sessions still queued when the pipeline stops.
	ErrPipelineStopped = errors.New("pipeline stopped")
)

// Orchestrator owns the sessions and feeds summarization runs to a fixed
// pool of workers.
type Orchestrator struct {
	sessions *SessionStore
	queue    chan *Session
	runner   *Runner
	log      *slog.Logger
	cfg      config.Config

	mu      sync.Mutex
	stopped bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, runner *Runner, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		sessions: NewSessionStore(cfg.SessionTTL),
		queue:    make(chan *Session, cfg.MaxQueueSize),
		runner:   runner,
		log:      log,
		cfg:      cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case s, ok := <-o.queue:
					if !ok {
						return
					}
					o.runner.Run(workerCtx, s)
				}
			}
		}()
	}

	// Start session store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				if n := o.sessions.Cleanup(); n > 0 {
					o.log.Info("evicted idle sessions", "count", n)
				}
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Sessions still waiting in the
// queue fail with ErrPipelineStopped.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()

	dropped := 0
	for s := range o.queue {
		s.Fail(ErrPipelineStopped)
		dropped++
	}
	if dropped > 0 {
		o.log.Warn("dropped queued runs at shutdown", "count", dropped)
	}
}

// Submit queues a run of s with settings. It fails when the session already
// has a run in flight or the queue is full; a rejected run leaves the session
// as it was.
func (o *Orchestrator) Submit(s *Session, settings summarize.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := o.runner.Available(); err != nil {
		return err
	}
	if err := s.BeginRun(settings); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		s.ReleaseRun()
		return ErrPipelineStopped
	}
	select {
	case o.queue <- s:
		return nil
	default:
		s.ReleaseRun()
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// Ask answers a question about the session's document.
func (o *Orchestrator) Ask(ctx context.Context, s *Session, question string) (summarize.Answer, error) {
	return o.runner.Ask(ctx, s, question)
}

// Available reports why model-dependent operations cannot run, or nil.
func (o *Orchestrator) Available() error {
	return o.runner.Available()
}

// Sessions returns the session store.
func (o *Orchestrator) Sessions() *SessionStore {
	return o.sessions
}

// GetSession returns a session by ID.
func (o *Orchestrator) GetSession(id string) (*Session, error) {
	return o.sessions.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// DefaultSettings returns the configured run defaults.
func (o *Orchestrator) DefaultSettings() summarize.Settings {
	return o.cfg.DefaultSettings()
}
