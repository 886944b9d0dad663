package jobs

import (
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler runs recurring maintenance jobs on cron expressions with a
// seconds field, e.g. "0 0 2 * * *" for 02:00 every day.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates a stopped scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithSeconds())}
}

// Register adds a named job. The name only appears in logs.
func (s *Scheduler) Register(name, spec string, job func()) error {
	_, err := s.cron.AddFunc(spec, func() {
		log.Printf("⏰ Running scheduled job: %s", name)
		job()
	})
	if err != nil {
		return err
	}
	log.Printf("📅 Scheduled job registered: %s (%s)", name, spec)
	return nil
}

// Start launches the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("🚀 Job scheduler started")
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Job scheduler stopped")
}
