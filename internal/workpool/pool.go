// Package workpool implements the fixed-size worker pool that backs the
// rasterizer's per-tile and per-row parallelism (spec.md §5). Tasks are
// non-suspending closures keyed by worker id, matching the original
// ThreadPool's `void(size_t thread_id)` task shape (spec.md §9).
package workpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Task is a unit of work dispatched to a specific worker. threadID
// identifies which worker is executing it, in [0, Pool.Size()), so
// callers can index into a preallocated per-thread context array (the
// original design's reason for threading an id through every task,
// spec.md §9).
type Task func(threadID int)

// Pool is a fixed-size collection of worker goroutines draining an
// unbounded FIFO task queue.
type Pool struct {
	size    int
	mu      sync.Mutex
	tasks   []Task
	cond    *sync.Cond
	pending atomic.Int64 // queued + running
	paused  atomic.Bool
	running atomic.Bool
	wg      sync.WaitGroup
}

// New creates a pool sized to n workers. n <= 0 defaults to
// runtime.NumCPU(), matching ThreadPool's hardware_concurrency() default.
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	p := &Pool{size: n}
	p.cond = sync.NewCond(&p.mu)
	p.running.Store(true)
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker(i)
	}
	return p
}

// Size returns the number of worker goroutines in the pool.
func (p *Pool) Size() int { return p.size }

// SetPaused prevents (or allows) new tasks from being popped by workers.
// Tasks already running are not preempted, matching the source's
// `paused` flag (spec.md §5 "Cancellation").
func (p *Pool) SetPaused(paused bool) {
	p.paused.Store(paused)
	if !paused {
		p.mu.Lock()
		p.cond.Broadcast()
		p.mu.Unlock()
	}
}

// Push enqueues a task for execution by some worker.
func (p *Pool) Push(task Task) {
	p.pending.Add(1)
	p.mu.Lock()
	p.tasks = append(p.tasks, task)
	p.mu.Unlock()
	p.cond.Signal()
}

// WaitTasksFinish blocks until the queued-and-running task count reaches
// zero, matching ThreadPool::waitTasksFinish's cooperative-yield poll.
func (p *Pool) WaitTasksFinish() {
	for p.pending.Load() != 0 {
		runtime.Gosched()
	}
}

// Close drains all outstanding work then signals every worker to exit.
func (p *Pool) Close() {
	p.WaitTasksFinish()
	p.running.Store(false)
	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) popTask() (Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for {
		if !p.running.Load() {
			return nil, false
		}
		if !p.paused.Load() && len(p.tasks) > 0 {
			task := p.tasks[0]
			p.tasks = p.tasks[1:]
			return task, true
		}
		p.cond.Wait()
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		task, ok := p.popTask()
		if !ok {
			return
		}
		runTaskSafely(task, id)
		p.pending.Add(-1)
	}
}

// runTaskSafely recovers a panicking task so one bad tile cannot take
// down the pool, mirroring the render loop's panic-recover pattern.
func runTaskSafely(task Task, id int) {
	defer func() { _ = recover() }()
	task(id)
}
