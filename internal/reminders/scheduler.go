// Package reminders runs the periodic due-date sweep over tasks.
package reminders

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tasktrail/tasktrail-backend/internal/tasks"
)

type Scheduler struct {
	repo   *tasks.Repo
	window time.Duration
	cron   *cron.Cron
}

func NewScheduler(repo *tasks.Repo, window time.Duration) *Scheduler {
	return &Scheduler{repo: repo, window: window}
}

// Start registers the sweep with the given cron spec (six-field, with
// seconds) and starts the scheduler.
func (s *Scheduler) Start(spec string) {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(spec, func() {
		s.sweep()
	})
	if err != nil {
		log.Printf("Failed to create reminder job: %v", err)
		return
	}

	log.Printf("Reminder scheduler started (spec %q, window %s)", spec, s.window)
	c.Start()
	s.cron = c
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	due, err := s.repo.DueWithin(ctx, s.window)
	if err != nil {
		log.Printf("Reminder sweep failed: %v", err)
		return
	}

	for _, t := range due {
		assignee := "unassigned"
		if t.AssigneeID != nil {
			assignee = *t.AssigneeID
		}
		log.Printf("Reminder: task %q (%s) due %s, assignee %s",
			t.Title, tasks.DueBucket(t.DueDate, time.Now()), t.DueDate.Format(time.RFC3339), assignee)
	}

	log.Printf("Reminder sweep completed: %d task(s) due within %s", len(due), s.window)
}
