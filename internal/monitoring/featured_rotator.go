package monitoring

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/witslabs/wits-be/internal/services"
)

// FeaturedRotator re-picks the daily-challenge puzzle on a cron schedule.
type FeaturedRotator struct {
	puzzleSvc services.PuzzleServiceProvider
	eventSvc  services.EventServiceProvider
	schedule  cron.Schedule
	nextRun   time.Time
	ticker    *time.Ticker
	done      chan bool
}

// NewFeaturedRotator creates a rotator for the given cron expression
// (standard five-field syntax, e.g. "0 0 * * *" for midnight).
func NewFeaturedRotator(puzzleSvc services.PuzzleServiceProvider, eventSvc services.EventServiceProvider, cronExpr string) (*FeaturedRotator, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid rotation cron expression %q: %w", cronExpr, err)
	}
	return &FeaturedRotator{
		puzzleSvc: puzzleSvc,
		eventSvc:  eventSvc,
		schedule:  schedule,
		nextRun:   schedule.Next(time.Now()),
		done:      make(chan bool),
	}, nil
}

// Run starts the rotator's ticking loop. It also rotates once on start when
// no puzzle is currently featured, so a fresh install has a daily challenge.
func (fr *FeaturedRotator) Run() {
	log.Info().Time("next_run", fr.nextRun).Msg("Starting featured puzzle rotator")
	fr.ticker = time.NewTicker(1 * time.Minute)
	defer fr.ticker.Stop()

	if _, err := fr.puzzleSvc.GetFeaturedPuzzle(); err != nil {
		fr.rotate()
	}

	for {
		select {
		case <-fr.done:
			log.Info().Msg("Stopping featured puzzle rotator")
			return
		case <-fr.ticker.C:
			now := time.Now()
			if now.After(fr.nextRun) {
				fr.rotate()
				fr.nextRun = fr.schedule.Next(now)
			}
		}
	}
}

// Stop halts the rotator.
func (fr *FeaturedRotator) Stop() {
	fr.done <- true
}

func (fr *FeaturedRotator) rotate() {
	puzzle, err := fr.puzzleSvc.RotateFeatured()
	if err != nil {
		log.Warn().Err(err).Msg("Featured puzzle rotation skipped")
		return
	}

	msg := fmt.Sprintf("%q is today's challenge", puzzle.Title)
	if err := fr.eventSvc.CreateEvent("puzzle.featured", "info", msg, nil, &puzzle.ID); err != nil {
		log.Error().Err(err).Str("puzzle_id", puzzle.ID).Msg("Failed to record rotation event")
	}
}
