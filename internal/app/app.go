// Package app wires the task store, snapshot storage, reminder engine
// and desktop notifier into a running process.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"taskmint/internal/config"
	"taskmint/internal/notify"
	"taskmint/internal/scheduler"
	"taskmint/internal/storage"
	"taskmint/internal/store"
)

type App struct {
	Store *store.Store

	log      zerolog.Logger
	repo     *storage.SQLiteSnapshotStore
	engine   *scheduler.Engine
	notifier notify.Notifier
	done     chan struct{}
}

// engineScheduler adapts the reminder engine to the interface the task
// store consumes.
type engineScheduler struct {
	engine *scheduler.Engine
}

func (s engineScheduler) Schedule(taskID, title, body string, fireAt time.Time) error {
	return s.engine.Schedule(scheduler.ReminderEvent{
		TaskID: taskID,
		Title:  title,
		Body:   body,
		FireAt: fireAt,
	})
}

func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	repo, err := storage.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	if err := storage.MigrateUp(repo.DB()); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	engine.Start()

	var notifier notify.Notifier = notify.NoopNotifier{}
	if cfg.DesktopNotifications {
		notifier = notify.ExecNotifier{}
	}

	a := &App{
		Store:    store.New(ctx, repo, engineScheduler{engine: engine}, log),
		log:      log,
		repo:     repo,
		engine:   engine,
		notifier: notifier,
		done:     make(chan struct{}),
	}
	go a.dispatchReminders()

	log.Info().
		Str("db", cfg.DatabasePath).
		Int("tasks", a.Store.Len()).
		Msg("task store ready")
	return a, nil
}

// dispatchReminders forwards fired reminders to the notifier. Delivery
// failures are logged and dropped; they never reach the store.
func (a *App) dispatchReminders() {
	defer close(a.done)
	for ev := range a.engine.C() {
		a.log.Debug().Str("task_id", ev.TaskID).Time("fire_at", ev.FireAt).Msg("reminder fired")
		if err := a.notifier.Send(notify.Notification{Title: ev.Title, Body: ev.Body}); err != nil {
			a.log.Error().Err(err).Str("task_id", ev.TaskID).Msg("reminder delivery failed")
		}
	}
}

func (a *App) Close() error {
	a.engine.Stop()
	<-a.done
	return a.repo.Close()
}
