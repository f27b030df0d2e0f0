// services/scheduler.go
package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

const janitorInterval = 10 * time.Minute

// StartLobbyJanitor runs PurgeStaleLobbies every ten minutes. The caller
// owns the returned scheduler and shuts it down on exit.
func (s *GameService) StartLobbyJanitor(ttl time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(janitorInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			n, err := s.PurgeStaleLobbies(ctx, ttl)
			if err != nil {
				log.Error().Err(err).Msg("[Janitor] lobby sweep failed")
				return
			}
			if n > 0 {
				log.Info().Int("games", n).Msg("[Janitor] removed stale lobbies")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	return sched, nil
}
