package scheduler

import (
	"context"
	"time"

	appescrow "github.com/atelier/marketplace/internal/application/escrow"
)

// EscrowReleaseJob is the job name of the periodic payout run
const EscrowReleaseJob = "escrow.release_due"

// EscrowReleaser settles escrows whose release time passed
type EscrowReleaser interface {
	ReleaseDue(ctx context.Context, now time.Time) (*appescrow.ReleaseResult, error)
}

// EscrowReleaseTask wraps the releaser as a scheduler task
func EscrowReleaseTask(releaser EscrowReleaser) Task {
	return func(ctx context.Context) error {
		_, err := releaser.ReleaseDue(ctx, time.Now())
		return err
	}
}
