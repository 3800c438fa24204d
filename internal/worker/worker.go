// SPDX-License-Identifier: AGPL-3.0-only
package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fluffyriot/postdeck/internal/posts"
	"github.com/robfig/cron/v3"
)

// Publisher is the slice of the post service the worker drives.
type Publisher interface {
	PublishDue(ctx context.Context, now time.Time) (int64, error)
}

// Worker flips due scheduled posts to published on a cron schedule.
type Worker struct {
	Posts    Publisher
	Location *time.Location
	Now      func() time.Time

	cron    *cron.Cron
	mu      sync.Mutex
	running bool
	active  bool
}

func NewWorker(svc *posts.Service, loc *time.Location) *Worker {
	if loc == nil {
		loc = time.UTC
	}
	return &Worker{
		Posts:    svc,
		Location: loc,
		Now:      time.Now,
	}
}

// Start registers the publish job on schedule ("@every 1m", "*/5 * * * *", ...)
// and starts the scheduler.
func (w *Worker) Start(schedule string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.active {
		log.Println("Worker: Scheduler already active, use Restart to change schedule")
		return nil
	}

	c := cron.New(cron.WithLocation(w.Location))
	if _, err := c.AddFunc(schedule, w.PublishDue); err != nil {
		return fmt.Errorf("invalid publish schedule %q: %w", schedule, err)
	}
	c.Start()

	w.cron = c
	w.active = true
	log.Printf("Background worker started with schedule: %s", schedule)
	return nil
}

// Stop halts the scheduler and waits for a publish run in flight to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.active {
		w.mu.Unlock()
		log.Println("Worker: Scheduler not active")
		return
	}
	c := w.cron
	w.cron = nil
	w.active = false
	w.mu.Unlock()

	<-c.Stop().Done()
	log.Println("Background worker stopped")
}

func (w *Worker) Restart(schedule string) error {
	w.Stop()
	return w.Start(schedule)
}

func (w *Worker) IsActive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// PublishDue runs one publish pass. Overlapping calls are skipped.
func (w *Worker) PublishDue() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		log.Println("Worker: Publish already in progress, skipping...")
		return
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := w.Posts.PublishDue(ctx, w.Now())
	if err != nil {
		log.Printf("Worker: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Worker: published %d scheduled post(s)", n)
	}
}
