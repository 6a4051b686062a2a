package jobs

import (
	"context"
	"time"

	"github.com/imagedefs/image-definitions-api/pkg/registry/services"
	"github.com/imagedefs/image-definitions-api/pkg/tools"
	"github.com/robfig/cron/v3"
)

// DefaultStaleWindow is how long an artifact may sit in pending or building
// before the sweep marks it failed.
const DefaultStaleWindow = 24 * time.Hour

// ScheduleStaleArtifactSweep sets up an hourly cron job that fails stuck builds.
func ScheduleStaleArtifactSweep(ctx context.Context, svc *services.ArtifactService, window time.Duration) *cron.Cron {
	if window <= 0 {
		window = DefaultStaleWindow
	}

	c := cron.New()
	_, _ = c.AddFunc("@hourly", func() {
		tools.Dispatch(context.Background(), "sweep_stale_artifacts", func(ctx context.Context) error {
			_, err := svc.SweepStale(ctx, window)
			return err
		})
	})
	c.Start()

	go func() {
		<-ctx.Done()
		c.Stop()
	}()
	return c
}
