package monitoring

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mlutsenko/brewbook-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Digest periodically snapshots community totals into the activity feed so
// admins can watch growth without querying the database by hand.
type Digest struct {
	db          *sql.DB
	activitySvc services.ActivityServiceProvider
	schedule    cron.Schedule
	nextRun     time.Time
	ticker      *time.Ticker
	done        chan bool
}

// NewDigest creates a digest job from a standard cron expression.
func NewDigest(db *sql.DB, activitySvc services.ActivityServiceProvider, cronExpr string) (*Digest, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid digest cron expression %q: %w", cronExpr, err)
	}
	return &Digest{
		db:          db,
		activitySvc: activitySvc,
		schedule:    schedule,
		nextRun:     schedule.Next(time.Now()),
		done:        make(chan bool),
	}, nil
}

// Run starts the digest's ticking loop.
func (d *Digest) Run() {
	log.Info().Time("next_run", d.nextRun).Msg("Starting community digest job")
	d.ticker = time.NewTicker(1 * time.Minute)
	defer d.ticker.Stop()

	for {
		select {
		case <-d.done:
			log.Info().Msg("Stopping community digest job")
			return
		case <-d.ticker.C:
			now := time.Now()
			if now.After(d.nextRun) {
				d.snapshot()
				d.nextRun = d.schedule.Next(now)
			}
		}
	}
}

// Stop halts the digest job.
func (d *Digest) Stop() {
	d.done <- true
}

// snapshot counts the three entity tables and records the totals.
func (d *Digest) snapshot() {
	counts := make(map[string]int, 3)
	for _, table := range []string{"users", "sorts", "recipes"} {
		var n int
		if err := d.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			log.Error().Err(err).Str("table", table).Msg("Digest count failed")
			return
		}
		counts[table] = n
	}

	msg := fmt.Sprintf("Community digest: %d users, %d sorts, %d recipes",
		counts["users"], counts["sorts"], counts["recipes"])
	d.activitySvc.Record("digest.snapshot", "info", msg, nil)
	log.Info().Str("digest", msg).Msg("Recorded community digest")
}
