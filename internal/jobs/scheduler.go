package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type Task struct {
	Name string
	Run  func(ctx context.Context) (int64, error)
}

// Scheduler runs maintenance tasks on a cron spec, one after the other.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func NewScheduler(log zerolog.Logger, loc *time.Location) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

func (s *Scheduler) Add(spec string, tasks ...Task) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.RunOnce(context.Background(), tasks...)
	})
	return err
}

// RunOnce executes tasks in order; a failing task does not stop the rest.
func (s *Scheduler) RunOnce(ctx context.Context, tasks ...Task) {
	for _, t := range tasks {
		n, err := t.Run(ctx)
		if err != nil {
			s.log.Error().Err(err).Str("task", t.Name).Msg("scheduled task failed")
			continue
		}
		s.log.Info().Str("task", t.Name).Int64("affected", n).Msg("scheduled task done")
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
