package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/chris-merrill/Transcribr/internal/domain/entity"
	"github.com/chris-merrill/Transcribr/internal/domain/port"
	"github.com/chris-merrill/Transcribr/internal/infra/metrics"
	"github.com/chris-merrill/Transcribr/internal/transcribe"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	transcriptName    = "transcription.txt"
	screenshotsPrefix = "screenshots"
)

type ProcessMediaUseCase struct {
	repo        port.JobRepository
	storage     port.MediaStorage
	transcriber port.Transcriber
	screenshots port.ScreenshotExtractor
	prober      port.MediaProber
	archiver    port.Archiver
	publisher   port.StatusPublisher
	progress    port.ProgressNotifier
	dlq         port.DLQPublisher
	notifier    port.FailureNotifier
	logger      *zap.Logger
	tempDir     string
	maxRetry    int
}

type ProcessMediaConfig struct {
	TempDir    string
	MaxRetries int
}

func NewProcessMediaUseCase(
	repo port.JobRepository,
	storage port.MediaStorage,
	transcriber port.Transcriber,
	screenshots port.ScreenshotExtractor,
	prober port.MediaProber,
	archiver port.Archiver,
	publisher port.StatusPublisher,
	progress port.ProgressNotifier,
	dlq port.DLQPublisher,
	notifier port.FailureNotifier,
	logger *zap.Logger,
	cfg ProcessMediaConfig,
) *ProcessMediaUseCase {
	return &ProcessMediaUseCase{
		repo:        repo,
		storage:     storage,
		transcriber: transcriber,
		screenshots: screenshots,
		prober:      prober,
		archiver:    archiver,
		publisher:   publisher,
		progress:    progress,
		dlq:         dlq,
		notifier:    notifier,
		logger:      logger,
		tempDir:     cfg.TempDir,
		maxRetry:    cfg.MaxRetries,
	}
}

func (uc *ProcessMediaUseCase) Execute(ctx context.Context, rawMsg []byte) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ProcessMediaUseCase.Execute")
	defer span.End()

	totalTimer := time.Now()

	var msg entity.MediaProcessingMessage
	if err := json.Unmarshal(rawMsg, &msg); err != nil {
		uc.logger.Error("failed to unmarshal message", zap.Error(err), zap.ByteString("body", rawMsg))
		_ = uc.dlq.PublishToDLQ(ctx, rawMsg, "unmarshal_error: "+err.Error())
		return nil
	}

	span.SetAttributes(
		attribute.String("job.id", msg.JobID.String()),
		attribute.String("job.video_key", msg.VideoKey),
		attribute.String("job.audio_key", msg.AudioKey),
	)

	log := uc.logger.With(zap.String("job_id", msg.JobID.String()), zap.String("video_key", msg.VideoKey))

	job, err := uc.repo.FindByID(ctx, msg.JobID)
	if err != nil {
		job = entity.NewJob(msg.UserID, msg.VideoKey, msg.AudioKey, msg.FileSize, uc.maxRetry)
		job.ID = msg.JobID
		if err := uc.repo.Create(ctx, job); err != nil {
			log.Error("failed to create job record", zap.Error(err))
			return fmt.Errorf("create job: %w", err)
		}
	}

	if !job.CanRetry() {
		log.Warn("job exhausted retries, sending to DLQ")
		_ = uc.handlePermanentFailure(ctx, job, msg, rawMsg, "max retries exceeded")
		return nil
	}

	job.MarkProcessing()
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to PROCESSING", zap.Error(err))
		return fmt.Errorf("update job: %w", err)
	}

	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	if err := uc.processMediaPipeline(ctx, job, msg, rawMsg, log); err != nil {
		return err
	}

	metrics.JobsProcessedTotal.WithLabelValues("completed").Inc()
	metrics.JobProcessingDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())

	return nil
}

func (uc *ProcessMediaUseCase) processMediaPipeline(
	ctx context.Context,
	job *entity.Job,
	msg entity.MediaProcessingMessage,
	rawMsg []byte,
	log *zap.Logger,
) error {
	tracer := otel.Tracer("usecase")
	sink := uc.progress.ForJob(job.ID)

	workDir := filepath.Join(uc.tempDir, job.ID.String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	// Download source video and audio from MinIO
	dlStart := time.Now()
	ctx2, spanDl := tracer.Start(ctx, "download_media")
	videoPath := filepath.Join(workDir, "input.mp4")
	audioPath := filepath.Join(workDir, "input.m4a")
	if err := uc.storage.DownloadMedia(ctx2, msg.VideoKey, videoPath); err != nil {
		spanDl.End()
		log.Error("failed to download video", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "download_video: "+err.Error(), log)
	}
	if err := uc.storage.DownloadMedia(ctx2, msg.AudioKey, audioPath); err != nil {
		spanDl.End()
		log.Error("failed to download audio", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "download_audio: "+err.Error(), log)
	}
	spanDl.End()
	metrics.JobProcessingDuration.WithLabelValues("download").Observe(time.Since(dlStart).Seconds())

	duration, err := uc.prober.ProbeDuration(ctx, videoPath)
	if err != nil {
		log.Warn("could not probe media duration", zap.Error(err))
	}

	// Transcribe audio with the speech model
	trStart := time.Now()
	ctx3, spanTr := tracer.Start(ctx, "transcribe")
	sink.Notify(ctx3, "Starting transcription...")
	segments, err := uc.transcriber.Transcribe(ctx3, audioPath, sink)
	if err != nil {
		spanTr.End()
		log.Error("transcription failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "transcribe: "+err.Error(), log)
	}
	transcriptPath := filepath.Join(workDir, transcriptName)
	if err := transcribe.WriteTranscriptFile(transcriptPath, segments); err != nil {
		spanTr.End()
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "write_transcript: "+err.Error(), log)
	}
	spanTr.End()
	metrics.JobProcessingDuration.WithLabelValues("transcribe").Observe(time.Since(trStart).Seconds())
	metrics.TranscriptSegmentsTotal.Add(float64(len(segments)))

	// Extract deduplicated screenshots from the video
	ssStart := time.Now()
	ctx4, spanSs := tracer.Start(ctx, "extract_screenshots")
	sink.Notify(ctx4, "Starting screenshot extraction...")
	screenshotsDir := filepath.Join(workDir, screenshotsPrefix)
	manifest, err := uc.screenshots.ExtractScreenshots(ctx4, videoPath, screenshotsDir, sink)
	if err != nil {
		spanSs.End()
		log.Error("screenshot extraction failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "extract_screenshots: "+err.Error(), log)
	}
	spanSs.End()
	metrics.JobProcessingDuration.WithLabelValues("screenshots").Observe(time.Since(ssStart).Seconds())
	metrics.ScreenshotsKeptTotal.Add(float64(len(manifest)))

	// Assemble the downloadable archive
	zipStart := time.Now()
	ctx5, spanZip := tracer.Start(ctx, "create_archive")
	sink.Notify(ctx5, "Creating zip archive...")
	entries := make([]port.ArchiveEntry, 0, len(manifest)+1)
	entries = append(entries, port.ArchiveEntry{Path: transcriptPath, Name: transcriptName})
	for _, shot := range manifest {
		entries = append(entries, port.ArchiveEntry{
			Path: filepath.Join(screenshotsDir, shot.Filename),
			Name: screenshotsPrefix + "/" + shot.Filename,
		})
	}
	archivePath := filepath.Join(workDir, fmt.Sprintf("transcribr_%s.zip", job.ID.String()))
	if err := uc.archiver.CreateArchive(ctx5, entries, archivePath); err != nil {
		spanZip.End()
		log.Error("archive creation failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "create_archive: "+err.Error(), log)
	}
	spanZip.End()
	metrics.JobProcessingDuration.WithLabelValues("archive").Observe(time.Since(zipStart).Seconds())

	// Upload archive to MinIO
	upStart := time.Now()
	ctx6, spanUp := tracer.Start(ctx, "upload_archive")
	archiveKey := fmt.Sprintf("%s/transcribr_%s.zip", msg.UserID, job.ID.String())
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		spanUp.End()
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "open_archive: "+err.Error(), log)
	}
	archiveStat, _ := archiveFile.Stat()
	if err := uc.storage.UploadArchive(ctx6, archiveKey, archiveFile, archiveStat.Size()); err != nil {
		archiveFile.Close()
		spanUp.End()
		log.Error("archive upload failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "upload_archive: "+err.Error(), log)
	}
	archiveFile.Close()
	spanUp.End()
	metrics.JobProcessingDuration.WithLabelValues("upload").Observe(time.Since(upStart).Seconds())

	// Mark completed
	job.MarkCompleted(archiveKey, manifest, len(segments), duration)
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to COMPLETED", zap.Error(err))
		return fmt.Errorf("update job completed: %w", err)
	}

	uc.publishStatus(ctx, job, log)
	sink.Notify(ctx, "Done!")

	log.Info("job completed successfully",
		zap.Int("screenshot_count", len(manifest)),
		zap.Int("segment_count", len(segments)),
		zap.Float64("duration_secs", duration),
		zap.String("archive_key", archiveKey),
	)

	return nil
}

func (uc *ProcessMediaUseCase) handleRetryableFailure(
	ctx context.Context,
	job *entity.Job,
	msg entity.MediaProcessingMessage,
	rawMsg []byte,
	errMsg string,
	log *zap.Logger,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	if !job.CanRetry() {
		return uc.handlePermanentFailure(ctx, job, msg, rawMsg, errMsg)
	}

	metrics.RetryTotal.WithLabelValues(strconv.Itoa(job.Attempt)).Inc()
	uc.publishStatus(ctx, job, log)

	return fmt.Errorf("retryable failure (attempt %d/%d): %s", job.Attempt, job.MaxAttempts, errMsg)
}

func (uc *ProcessMediaUseCase) handlePermanentFailure(
	ctx context.Context,
	job *entity.Job,
	msg entity.MediaProcessingMessage,
	rawMsg []byte,
	errMsg string,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	_ = uc.dlq.PublishToDLQ(ctx, rawMsg, errMsg)

	uc.publishStatus(ctx, job, uc.logger)

	metrics.JobsProcessedTotal.WithLabelValues("dlq").Inc()

	if msg.UserEmail != "" {
		_ = uc.notifier.NotifyFailure(ctx, msg.UserEmail, job.ID.String(), msg.VideoKey, errMsg)
	}

	return nil
}

func (uc *ProcessMediaUseCase) publishStatus(ctx context.Context, job *entity.Job, log *zap.Logger) {
	statusMsg := entity.MediaStatusMessage{
		JobID:           job.ID,
		UserID:          job.UserID,
		Status:          job.Status,
		VideoKey:        job.VideoKey,
		AudioKey:        job.AudioKey,
		ArchiveKey:      job.ArchiveKey,
		Screenshots:     job.Screenshots,
		ScreenshotCount: job.ScreenshotCount,
		SegmentCount:    job.SegmentCount,
		Duration:        job.MediaDuration,
		ErrorMessage:    job.ErrorMessage,
		Attempt:         job.Attempt,
		MaxAttempts:     job.MaxAttempts,
	}
	data, _ := json.Marshal(statusMsg)
	if err := uc.publisher.PublishStatus(ctx, data); err != nil {
		log.Error("failed to publish status", zap.Error(err))
	}
}
