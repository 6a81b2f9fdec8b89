package port

import (
	"context"

	"github.com/google/uuid"
)

// ProgressSink receives best-effort, human-readable progress messages
// while a pipeline runs. Implementations must never fail: delivery
// problems are swallowed (and at most logged) so that progress
// reporting can never abort processing.
type ProgressSink interface {
	Notify(ctx context.Context, message string)
}

// ProgressNotifier routes progress messages for a given job to
// whatever transport the surrounding system uses.
type ProgressNotifier interface {
	ForJob(jobID uuid.UUID) ProgressSink
}

// NopSink discards all progress messages.
type NopSink struct{}

func (NopSink) Notify(context.Context, string) {}
