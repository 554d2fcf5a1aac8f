package updater

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pokerjest/movieAutoTool/internal/logging"
	"github.com/pokerjest/movieAutoTool/internal/metrics"
)

// Per-item outcomes reported to the progress hook.
const (
	OutcomeUpdated    = "updated"
	OutcomeNotUpdated = "not_updated"
	OutcomeFailed     = "failed"
)

// BatchOptions select the candidates of a batch run.
type BatchOptions struct {
	Options
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	// Progress is called after every item, on the batch goroutine.
	Progress func(BatchProgress)
}

// BatchProgress describes one finished item of a run.
type BatchProgress struct {
	RunID   string `json:"run_id"`
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	MovieID uint   `json:"movie_id"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

// Counts aggregates a batch run.
type Counts struct {
	Total      int `json:"total"`
	Updated    int `json:"updated"`
	NotUpdated int `json:"not_updated"`
	Failed     int `json:"failed"`
}

// UpdateAll syncs every candidate movie, one after another. Item failures
// are logged and counted; they never stop the run. A cancelled ctx stops the
// run between items.
func (u *Updater) UpdateAll(ctx context.Context, opts BatchOptions) Counts {
	metrics.BatchRuns.Inc()
	runID := uuid.NewString()
	log := logging.With().Str("run_id", runID).Logger()

	filter := MovieFilter{CreatedFrom: opts.CreatedFrom, CreatedTo: opts.CreatedTo}
	if !opts.Force {
		cutoff := u.now().Add(-time.Duration(u.cfg.IntervalDays) * 24 * time.Hour)
		filter.SyncedBefore = &cutoff
	}

	var counts Counts
	ids, err := u.store.Movies().Find(filter)
	if err != nil {
		log.Error().Err(err).Msg("Updater: failed to list batch candidates")
		return counts
	}
	counts.Total = len(ids)
	log.Info().Int("total", counts.Total).Bool("force", opts.Force).Msg("Updater: batch started")

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Int("done", i).Msg("Updater: batch interrupted")
			break
		}

		updated, err := u.safeUpdate(ctx, id, opts.Options)
		p := BatchProgress{RunID: runID, Index: i + 1, Total: counts.Total, MovieID: id}
		switch {
		case err != nil:
			counts.Failed++
			p.Outcome = OutcomeFailed
			p.Error = err.Error()
			if errors.Is(err, ErrReferenceNotFound) {
				log.Info().Uint("movie_id", id).Msg("Updater: no reference page")
			} else {
				log.Error().Err(err).Uint("movie_id", id).Msg("Updater: sync failed")
			}
		case updated:
			counts.Updated++
			p.Outcome = OutcomeUpdated
		default:
			counts.NotUpdated++
			p.Outcome = OutcomeNotUpdated
		}
		if opts.Progress != nil {
			opts.Progress(p)
		}
	}

	log.Info().
		Int("total", counts.Total).
		Int("updated", counts.Updated).
		Int("not_updated", counts.NotUpdated).
		Int("failed", counts.Failed).
		Msg("Updater: batch finished")
	return counts
}

func (u *Updater) safeUpdate(ctx context.Context, id uint, opts Options) (updated bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			updated = false
			err = fmt.Errorf("panic while syncing movie %d: %v", id, r)
		}
	}()
	return u.UpdateMovie(ctx, id, opts)
}
