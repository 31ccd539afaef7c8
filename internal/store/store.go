// Package store owns the authoritative ordered task collection. All
// mutations go through the Store, which persists a full snapshot after
// every change and asks the reminder scheduler for a one-shot reminder
// per created task.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskmint/internal/model"
	"taskmint/internal/storage"
)

// ReminderScheduler is the contract the store needs from the local
// reminder subsystem. Scheduling is fire-and-forget: the store logs a
// failure and moves on, it never blocks task creation on it. A second
// schedule for the same task id replaces the pending reminder.
type ReminderScheduler interface {
	Schedule(taskID, title, body string, fireAt time.Time) error
}

type CreateTaskInput struct {
	Title     string
	Details   string
	StartDate time.Time
	EndDate   time.Time
	Priority  model.Priority
	Category  model.Category
}

// Store is the single source of truth for tasks. A write lock is held
// across mutate+sort+persist, so a mutation is atomic from a reader's
// point of view; Tasks returns a copy taken under the read lock.
type Store struct {
	mu        sync.RWMutex
	tasks     []model.Task
	snapshots storage.SnapshotStore
	scheduler ReminderScheduler
	log       zerolog.Logger
}

// New builds a store and hydrates it from the persisted snapshot. A
// missing or undecodable snapshot starts the collection empty; neither
// is surfaced to the caller.
func New(ctx context.Context, snapshots storage.SnapshotStore, scheduler ReminderScheduler, log zerolog.Logger) *Store {
	s := &Store{
		tasks:     make([]model.Task, 0),
		snapshots: snapshots,
		scheduler: scheduler,
		log:       log,
	}

	tasks, err := snapshots.Load(ctx)
	switch {
	case err == nil:
		s.tasks = tasks
		sort.SliceStable(s.tasks, func(i, j int) bool {
			return s.tasks[i].StartDate.Before(s.tasks[j].StartDate)
		})
	case errors.Is(err, storage.ErrNotFound):
		// First run, nothing persisted yet.
	default:
		log.Warn().Err(err).Msg("snapshot unreadable, starting with empty task list")
	}
	return s
}

// Create adds a task with a fresh id and default flags, keeps the
// collection sorted ascending by start date (stable, so equal start
// dates keep creation order), persists, and schedules the reminder.
// Titles, details and dates are accepted as given; the store does not
// validate them.
func (s *Store) Create(ctx context.Context, in CreateTaskInput) model.Task {
	task := model.Task{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Details:   in.Details,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Priority:  in.Priority,
		Category:  in.Category,
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	sort.SliceStable(s.tasks, func(i, j int) bool {
		return s.tasks[i].StartDate.Before(s.tasks[j].StartDate)
	})
	s.persistLocked(ctx)
	s.mu.Unlock()

	if err := s.scheduler.Schedule(task.ID, task.Title, task.Details, task.ReminderTime()); err != nil {
		s.log.Error().Err(err).Str("task_id", task.ID).Msg("schedule reminder failed")
	}
	return task
}

// ToggleCompletion flips the completion flag of the task with the given
// id and persists. An unknown id is a silent no-op.
func (s *Store) ToggleCompletion(ctx context.Context, id string) (model.Task, bool) {
	return s.toggle(ctx, id, func(t *model.Task) {
		t.IsCompleted = !t.IsCompleted
	})
}

// ToggleFavorite flips the favorite flag of the task with the given id
// and persists. An unknown id is a silent no-op.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (model.Task, bool) {
	return s.toggle(ctx, id, func(t *model.Task) {
		t.IsFavorite = !t.IsFavorite
	})
}

func (s *Store) toggle(ctx context.Context, id string, flip func(*model.Task)) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		flip(&s.tasks[i])
		s.persistLocked(ctx)
		return s.tasks[i], true
	}
	return model.Task{}, false
}

// Tasks returns a copy of the collection in start-date order.
func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len reports the current number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// persistLocked writes the full collection, best effort. In-memory
// state stays authoritative for the running process; the next
// successful write reconciles the medium.
func (s *Store) persistLocked(ctx context.Context) {
	if err := s.snapshots.Save(ctx, s.tasks); err != nil {
		s.log.Error().Err(err).Int("tasks", len(s.tasks)).Msg("persist snapshot failed")
	}
}
