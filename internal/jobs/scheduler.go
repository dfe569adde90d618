package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the Runner tasks on fixed cron cadences in the configured
// local timezone. It runs on one logical timeline; serializing task types
// across multiple instances is a deployment concern, not handled here.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
}

func NewScheduler(runner *Runner, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		runner: runner,
	}
}

// Start registers every task and starts the timer loop.
func (s *Scheduler) Start() error {
	tasks := []struct {
		spec string
		name string
		run  func(context.Context) error
	}{
		{"0 0 * * *", "expire_campaigns", s.runner.ExpireCampaigns},
		{"0 17 * * *", "generate_playlists", s.runner.GeneratePlaylists},
		{"*/5 * * * *", "truck_status_sweep", s.runner.SweepTruckStatus},
		{"0 2 * * 0", "audit_log_cleanup", s.runner.CleanupAuditLogs},
		{"0 3 * * 0", "playlist_cleanup", s.runner.CleanupPlaylists},
	}

	for _, task := range tasks {
		run := task.run
		name := task.name
		if _, err := s.cron.AddFunc(task.spec, func() {
			if err := run(context.Background()); err != nil {
				log.Printf("scheduled task %s failed: %v", name, err)
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	log.Println("cron jobs scheduled successfully")
	return nil
}

// Stop halts the timers and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
