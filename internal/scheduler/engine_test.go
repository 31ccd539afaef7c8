package scheduler

import (
	"testing"
	"time"
)

func TestEngineEmitsInFireOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(ReminderEvent{TaskID: "later", FireAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(ReminderEvent{TaskID: "sooner", FireAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.TaskID != "sooner" || second.TaskID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.TaskID, second.TaskID)
	}
}

func TestScheduleSameTaskReplacesPendingReminder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(ReminderEvent{TaskID: "task-1", Body: "old", FireAt: now.Add(60 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule first: %v", err)
	}
	if err := engine.Schedule(ReminderEvent{TaskID: "task-1", Body: "new", FireAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule replacement: %v", err)
	}

	got := waitEvent(t, engine.C(), time.Second)
	if got.Body != "new" {
		t.Fatalf("expected replacement event, got %#v", got)
	}

	select {
	case extra := <-engine.C():
		t.Fatalf("superseded reminder still fired: %#v", extra)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestCancelDropsPendingReminder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	if err := engine.Schedule(ReminderEvent{TaskID: "task-1", FireAt: time.Now().Add(30 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	engine.Cancel("task-1")

	select {
	case ev := <-engine.C():
		t.Fatalf("cancelled reminder fired: %#v", ev)
	case <-time.After(120 * time.Millisecond):
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	now := time.Now().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(ReminderEvent{
			TaskID: "task-" + string(rune('a'+i)),
			FireAt: now,
		}); err != nil {
			t.Fatalf("schedule event: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", engine.Dropped())
	}
}

func TestScheduleValidatesFireTime(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(ReminderEvent{TaskID: "bad"}); err != ErrInvalidFireTime {
		t.Fatalf("expected ErrInvalidFireTime, got %v", err)
	}
}

func TestScheduleAfterStopFails(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	engine.Stop()

	err := engine.Schedule(ReminderEvent{TaskID: "task-1", FireAt: time.Now().Add(time.Minute)})
	if err != ErrEngineStopped {
		t.Fatalf("expected ErrEngineStopped, got %v", err)
	}
}

func waitEvent(t *testing.T, ch <-chan ReminderEvent, timeout time.Duration) ReminderEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return ReminderEvent{}
	}
}
