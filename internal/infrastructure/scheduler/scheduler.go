package scheduler

import (
	"context"
	"sync"
	"time"

	"tradepost/pkg/logger"
)

// Task is one periodic poll loop. Guard is re-evaluated on every tick;
// when it turns false the loop stops itself. Run must be an idempotent
// merge: a tick may still be in flight when the next one fires, and a
// tick may complete after the task has been stopped, so handlers carry
// their own "is this context still active" check before mutating state.
type Task struct {
	Name     string
	Interval time.Duration
	Guard    func() bool
	Run      func(ctx context.Context)
}

// Scheduler owns the lifecycle of all poll loops. Tasks are registered
// once at startup and started/stopped as UI surfaces open and close.
type Scheduler struct {
	mutex   sync.Mutex
	tasks   map[string]Task
	running map[string]context.CancelFunc
}

func New() *Scheduler {
	return &Scheduler{
		tasks:   make(map[string]Task),
		running: make(map[string]context.CancelFunc),
	}
}

func (s *Scheduler) Register(task Task) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.tasks[task.Name] = task
}

// Start launches a registered task. Starting a task that is already
// running is a no-op. The first run fires immediately so an opened
// surface is not blank for a full interval.
func (s *Scheduler) Start(name string) {
	s.mutex.Lock()
	task, ok := s.tasks[name]
	if !ok {
		s.mutex.Unlock()
		logger.Warn("Scheduler: unknown task %s", name)
		return
	}
	if _, alreadyRunning := s.running[name]; alreadyRunning {
		s.mutex.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.running[name] = cancel
	s.mutex.Unlock()

	logger.Debug("Scheduler: task %s started (every %s)", name, task.Interval)

	go s.loop(ctx, task)
}

func (s *Scheduler) loop(ctx context.Context, task Task) {
	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	s.tick(ctx, task)

	for {
		select {
		case <-ticker.C:
			if !s.tick(ctx, task) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, task Task) bool {
	if ctx.Err() != nil {
		return false
	}
	if !task.Guard() {
		// Guard went false without an explicit Stop (e.g. token expired
		// mid-session). Tear the loop down so no further calls happen.
		s.Stop(task.Name)
		return false
	}
	task.Run(ctx)
	return true
}

// Stop cancels a running task. The cancellation also aborts any HTTP
// request the current tick has in flight.
func (s *Scheduler) Stop(name string) {
	s.mutex.Lock()
	cancel, ok := s.running[name]
	if ok {
		delete(s.running, name)
	}
	s.mutex.Unlock()

	if ok {
		cancel()
		logger.Debug("Scheduler: task %s stopped", name)
	}
}

func (s *Scheduler) StopAll() {
	s.mutex.Lock()
	cancels := make([]context.CancelFunc, 0, len(s.running))
	for name, cancel := range s.running {
		cancels = append(cancels, cancel)
		delete(s.running, name)
	}
	s.mutex.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// Running reports whether the named task currently has a live loop.
func (s *Scheduler) Running(name string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	_, ok := s.running[name]
	return ok
}
