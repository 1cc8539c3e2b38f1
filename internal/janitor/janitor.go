package janitor

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"github.com/hyperifyio/courseport/internal/download"
)

// Janitor periodically removes stale downloaded and protected temp files so
// the work dir does not grow without bound.
type Janitor struct {
	scheduler gocron.Scheduler
	dir       string
	maxAge    time.Duration
	interval  time.Duration
	log       zerolog.Logger
}

func New(dir string, maxAge, interval time.Duration, log zerolog.Logger) (*Janitor, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &Janitor{
		scheduler: s,
		dir:       dir,
		maxAge:    maxAge,
		interval:  interval,
		log:       log,
	}, nil
}

// Start schedules the sweep and runs one immediately.
func (j *Janitor) Start() error {
	_, err := j.scheduler.NewJob(
		gocron.DurationJob(j.interval),
		gocron.NewTask(j.sweep),
	)
	if err != nil {
		return err
	}
	j.scheduler.Start()
	go j.sweep()
	return nil
}

func (j *Janitor) Stop() {
	if err := j.scheduler.Shutdown(); err != nil {
		j.log.Error().Err(err).Msg("janitor shutdown error")
	}
}

func (j *Janitor) sweep() {
	removed := download.CleanTemp(j.dir, j.maxAge)
	if removed > 0 {
		j.log.Info().Int("removed", removed).Str("dir", j.dir).Msg("temp files cleaned")
	}
}
