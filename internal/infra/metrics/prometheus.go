package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transcribr_jobs_processed_total",
		Help: "Total number of jobs processed, by status",
	}, []string{"status"})

	JobProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "transcribr_job_processing_duration_seconds",
		Help:    "Duration of the media processing pipeline",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"stage"})

	FramesSampledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transcribr_frames_sampled_total",
		Help: "Total number of raw frames sampled across all jobs",
	})

	ScreenshotsKeptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transcribr_screenshots_kept_total",
		Help: "Total number of screenshots kept after deduplication",
	})

	TranscriptSegmentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transcribr_transcript_segments_total",
		Help: "Total number of transcript segments produced",
	})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "transcribr_active_workers",
		Help: "Number of currently active workers processing jobs",
	})

	RetryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transcribr_retry_total",
		Help: "Total number of retries",
	}, []string{"attempt"})
)
