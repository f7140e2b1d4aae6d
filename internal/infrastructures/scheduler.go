package infrastructures

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/safatanc/tapreview-core/pkg/ratelimit"
	"github.com/sirupsen/logrus"
)

const rateLimitPruneInterval = 5 * time.Minute

// NewScheduler registers background jobs. The caller starts and shuts it down.
func NewScheduler(memoryLimiter *ratelimit.MemoryRateLimiter) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	if memoryLimiter != nil {
		_, err = scheduler.NewJob(
			gocron.DurationJob(rateLimitPruneInterval),
			gocron.NewTask(func() {
				if removed := memoryLimiter.Prune(); removed > 0 {
					logrus.WithField("removed", removed).Debug("pruned rate limit windows")
				}
			}),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, err
		}
	}

	return scheduler, nil
}
