package worker

import (
	"context"
	"errors"
	"time"

	"github.com/pokerjest/movieAutoTool/internal/event"
	"github.com/pokerjest/movieAutoTool/internal/logging"
	"github.com/pokerjest/movieAutoTool/internal/updater"
)

// MovieUpdater syncs a single movie.
type MovieUpdater interface {
	UpdateMovie(ctx context.Context, movieID uint, opts updater.Options) (bool, error)
}

// syncTimeout bounds one background sync.
const syncTimeout = 2 * time.Minute

// StartMetadataWorker 订阅新电影事件, 自动拉取一次元数据.
// 返回的函数用于取消订阅.
func StartMetadataWorker(bus event.Bus, u MovieUpdater) func() {
	id := bus.Subscribe(event.EventMovieCreated, func(e event.Event) {
		data, ok := e.Payload.(event.MovieCreated)
		if !ok {
			return
		}

		logging.Info().Uint("movie_id", data.MovieID).Msg("Worker: received new movie event")

		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		updated, err := u.UpdateMovie(ctx, data.MovieID, updater.Options{})
		payload := event.MovieUpdated{MovieID: data.MovieID, Updated: updated}
		switch {
		case errors.Is(err, updater.ErrReferenceNotFound):
			logging.Info().Uint("movie_id", data.MovieID).Msg("Worker: no reference page for new movie")
			payload.Error = err.Error()
		case err != nil:
			logging.Error().Err(err).Uint("movie_id", data.MovieID).Msg("Worker: failed to sync new movie")
			payload.Error = err.Error()
		default:
			logging.Info().Uint("movie_id", data.MovieID).Bool("updated", updated).Msg("Worker: new movie synced")
		}
		// Notify Frontend of update
		bus.Publish(event.EventMovieUpdated, payload)
	})
	return func() { bus.Unsubscribe(event.EventMovieCreated, id) }
}
