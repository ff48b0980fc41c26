package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/nimasrn/inbox-ledger/pkg/logger"
)

var (
	ErrNoHandler      = errors.New("worker: handler is not set")
	ErrAlreadyStarted = errors.New("worker: already started")
	ErrClosed         = errors.New("worker: manager is closed")
)

type WorkerHandler = func(workerIndex int, job any)

type WorkerManager struct {
	bufferSize     int
	jobChannel     chan any
	numberOfWorker int
	do             WorkerHandler
	waiter         sync.WaitGroup

	mu      sync.RWMutex
	started bool
	closed  bool
}

// NewWorkerManager
// is a job manager based on go routines. Define the number of internal
// workers, set the handler, Start, and publish jobs with Enqueue. Close stops
// accepting jobs and returns once every queued job has been handled.
func NewWorkerManager(bufferSize, numberOfWorkers int) *WorkerManager {
	if numberOfWorkers < 1 {
		numberOfWorkers = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}
	return &WorkerManager{
		bufferSize:     bufferSize,
		numberOfWorker: numberOfWorkers,
		jobChannel:     make(chan any, bufferSize),
	}
}

func (w *WorkerManager) GetUnreadCount() int64 {
	return int64(len(w.jobChannel))
}

func (w *WorkerManager) SetWorker(worker WorkerHandler) {
	w.do = worker
}

// Start
// starts off the workers as many as defined
// by w.numberOfWorker; it does not block.
func (w *WorkerManager) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.do == nil {
		return ErrNoHandler
	}
	if w.started {
		return ErrAlreadyStarted
	}
	if w.closed {
		return ErrClosed
	}
	w.started = true

	w.waiter.Add(w.numberOfWorker)
	for i := 0; i < w.numberOfWorker; i++ {
		go func(index int) {
			defer w.waiter.Done()
			for job := range w.jobChannel {
				w.run(index, job)
			}
		}(i)
	}
	return nil
}

func (w *WorkerManager) run(index int, job any) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("[worker] job panicked", "worker", index, "panic", r)
		}
	}()
	w.do(index, job)
}

// Enqueue
// publishes a job onto the channel, waiting for room until ctx is done.
func (w *WorkerManager) Enqueue(ctx context.Context, val any) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrClosed
	}
	select {
	case w.jobChannel <- val:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close
// stops accepting jobs and waits for the workers to drain the channel.
// Jobs still queued on a manager that was never started are dropped.
func (w *WorkerManager) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.jobChannel)
	started := w.started
	w.mu.Unlock()

	if !started {
		return
	}
	w.waiter.Wait()
	logger.Debug("[worker] all workers finished", "workers", w.numberOfWorker)
}
