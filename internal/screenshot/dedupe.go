package screenshot

import (
	"context"
	"fmt"

	"github.com/chris-merrill/Transcribr/internal/domain/port"
)

// DefaultThreshold is the minimum fingerprint distance at which two
// frames count as visually distinct. Typical distances between
// unrelated images run roughly 0-64 on the 64-bit hash.
const DefaultThreshold = 5

// Deduplicate collapses runs of visually similar frames into a single
// representative. It is a single greedy pass: the first frame is
// always kept, and each later frame is kept iff its fingerprint
// distance to the most recently kept frame is >= threshold. Comparing
// against the last kept frame (not the immediately preceding one)
// means a slow drift across many near-identical frames collapses to
// one representative while an abrupt change is always captured.
//
// Input order is preserved; an empty input yields an empty result.
func Deduplicate(ctx context.Context, frames []port.SampledFrame, threshold int, sink port.ProgressSink) ([]port.SampledFrame, error) {
	notify(ctx, sink, fmt.Sprintf("Comparing %d frames for duplicates...", len(frames)))

	kept := make([]port.SampledFrame, 0, len(frames))
	var lastKept *Fingerprint

	for _, frame := range frames {
		fp, err := FingerprintFile(frame.Path)
		if err != nil {
			return nil, err
		}

		if lastKept == nil {
			kept = append(kept, frame)
			lastKept = fp
			continue
		}

		dist, err := fp.Distance(lastKept)
		if err != nil {
			return nil, err
		}
		if dist >= threshold {
			kept = append(kept, frame)
			lastKept = fp
		}
	}

	notify(ctx, sink, fmt.Sprintf("Kept %d of %d frames after deduplication", len(kept), len(frames)))
	return kept, nil
}

func notify(ctx context.Context, sink port.ProgressSink, message string) {
	if sink != nil {
		sink.Notify(ctx, message)
	}
}
