package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidFireTime = errors.New("scheduler: invalid fire time")
	ErrEngineStopped   = errors.New("scheduler: engine stopped")
)

// ReminderEvent is one pending local reminder. Exactly one event is live
// per task at any time; scheduling again for the same task replaces the
// pending one instead of duplicating it.
type ReminderEvent struct {
	TaskID string
	Title  string
	Body   string
	FireAt time.Time
}

type queueItem struct {
	event ReminderEvent
	seq   uint64
}

type fireQueue []queueItem

func (q fireQueue) Len() int { return len(q) }

func (q fireQueue) Less(i, j int) bool {
	return q[i].event.FireAt.Before(q[j].event.FireAt)
}

func (q fireQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *fireQueue) Push(x any) {
	*q = append(*q, x.(queueItem))
}

func (q *fireQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// Engine delivers one-shot reminders at their fire time on an output
// channel. Superseded entries stay in the heap but are skipped on pop;
// liveSeq tracks the current generation per task id.
type Engine struct {
	mu      sync.Mutex
	queue   fireQueue
	liveSeq map[string]uint64
	nextSeq uint64
	out     chan ReminderEvent
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:   make(fireQueue, 0),
		liveSeq: make(map[string]uint64),
		out:     make(chan ReminderEvent, bufferSize),
		wakeup:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

func (e *Engine) C() <-chan ReminderEvent {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule queues a reminder for the given task. A second call with the
// same TaskID supersedes the earlier pending reminder.
func (e *Engine) Schedule(ev ReminderEvent) error {
	if ev.FireAt.IsZero() {
		return ErrInvalidFireTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}

	e.nextSeq++
	e.liveSeq[ev.TaskID] = e.nextSeq
	heap.Push(&e.queue, queueItem{event: ev, seq: e.nextSeq})
	e.signalWakeup()
	return nil
}

// Cancel drops any pending reminder for the task id. Unknown ids are a
// no-op.
func (e *Engine) Cancel(taskID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.liveSeq, taskID)
	e.signalWakeup()
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.FireAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, ev := range e.popDue(time.Now()) {
				select {
				case e.out <- ev:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

// peek returns the earliest live event, discarding superseded heap
// entries along the way.
func (e *Engine) peek() (ReminderEvent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) > 0 {
		head := e.queue[0]
		if e.liveSeq[head.event.TaskID] == head.seq {
			return head.event, true
		}
		heap.Pop(&e.queue)
	}
	return ReminderEvent{}, false
}

func (e *Engine) popDue(now time.Time) []ReminderEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	due := make([]ReminderEvent, 0)
	for len(e.queue) > 0 {
		head := e.queue[0]
		if e.liveSeq[head.event.TaskID] != head.seq {
			heap.Pop(&e.queue)
			continue
		}
		if head.event.FireAt.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		delete(e.liveSeq, item.event.TaskID)
		due = append(due, item.event)
	}
	return due
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
