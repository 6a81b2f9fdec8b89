// Package timefmt renders elapsed media time for transcripts and
// screenshot filenames.
package timefmt

import "fmt"

// Clock renders a non-negative number of seconds as HH:MM:SS.
// Fractional seconds are truncated, not rounded. Hours are not
// wrapped: values of 100 hours or more render with three or more
// digits. Negative input is a precondition violation.
func Clock(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Label renders an elapsed offset as the MMmSSs form embedded in
// screenshot filenames, e.g. 130 -> "02m10s".
func Label(elapsedSeconds int) string {
	return fmt.Sprintf("%02dm%02ds", elapsedSeconds/60, elapsedSeconds%60)
}
