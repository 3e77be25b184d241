// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package results

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/robfig/cron/v3"

	"github.com/votaciones-pe/sufragio/events"
	"github.com/votaciones-pe/sufragio/models"
)

// Snapshot pairs an aggregation result with the time it was computed.
type Snapshot struct {
	Results    models.AggregatedResults `json:"results"`
	ComputedAt time.Time                `json:"computed_at"`
}

// Refresher periodically recomputes the aggregate snapshot and
// publishes a refresh tick on the event bus. It is the server-side
// periodic fallback for dashboards that would otherwise poll on their
// own timers; push-on-change and poll-on-timer share one bus.
type Refresher struct {
	compute func() models.AggregatedResults
	bus     *events.Bus
	cron    *cron.Cron

	mu     sync.Mutex
	latest Snapshot
}

// NewRefresher wires a refresher over the given compute function.
// spec is a cron expression with seconds, e.g. "@every 5s".
func NewRefresher(compute func() models.AggregatedResults, bus *events.Bus, spec string) (*Refresher, error) {
	r := &Refresher{
		compute: compute,
		bus:     bus,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger))),
	}

	if _, err := r.cron.AddFunc(spec, r.refresh); err != nil {
		return nil, fmt.Errorf("failed to schedule results refresh %q: %w", spec, err)
	}

	return r, nil
}

// Start computes an initial snapshot and begins the schedule.
func (r *Refresher) Start() {
	r.refresh()
	r.cron.Start()
}

// Stop cancels the schedule and waits for an in-flight refresh.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}

// Latest returns the most recent snapshot.
func (r *Refresher) Latest() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}

func (r *Refresher) refresh() {
	snap := Snapshot{
		Results:    r.compute(),
		ComputedAt: time.Now(),
	}

	r.mu.Lock()
	changed := snap.Results.TotalVotes != r.latest.Results.TotalVotes
	r.latest = snap
	r.mu.Unlock()

	if changed {
		slog.Info("results refreshed",
			"total_votes", humanize.Comma(int64(snap.Results.TotalVotes)),
		)
	}
	r.bus.Publish(events.TopicResultsRefreshed)
}
