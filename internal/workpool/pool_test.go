package workpool

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsAllTasks(t *testing.T) {
	p := New(4)
	defer p.Close()

	var counter atomic.Int64
	const n = 200
	for i := 0; i < n; i++ {
		p.Push(func(threadID int) {
			counter.Add(1)
		})
	}
	p.WaitTasksFinish()

	if got := counter.Load(); got != n {
		t.Fatalf("counter = %d; want %d", got, n)
	}
}

func TestPoolPauseBlocksNewTasks(t *testing.T) {
	p := New(2)
	defer p.Close()

	p.SetPaused(true)
	var ran atomic.Bool
	p.Push(func(threadID int) { ran.Store(true) })

	time.Sleep(20 * time.Millisecond)
	if ran.Load() {
		t.Fatalf("task ran while pool was paused")
	}

	p.SetPaused(false)
	p.WaitTasksFinish()
	if !ran.Load() {
		t.Fatalf("task never ran after unpausing")
	}
}

func TestPoolTaskPanicDoesNotKillWorker(t *testing.T) {
	p := New(1)
	defer p.Close()

	p.Push(func(threadID int) { panic("boom") })
	p.WaitTasksFinish()

	var ran atomic.Bool
	p.Push(func(threadID int) { ran.Store(true) })
	p.WaitTasksFinish()

	if !ran.Load() {
		t.Fatalf("worker did not survive a panicking task")
	}
}

func TestPoolThreadIDInRange(t *testing.T) {
	p := New(3)
	defer p.Close()

	var bad atomic.Bool
	for i := 0; i < 50; i++ {
		p.Push(func(threadID int) {
			if threadID < 0 || threadID >= p.Size() {
				bad.Store(true)
			}
		})
	}
	p.WaitTasksFinish()
	if bad.Load() {
		t.Fatalf("task received out-of-range thread id")
	}
}
