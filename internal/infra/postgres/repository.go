package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chris-merrill/Transcribr/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

func (r *JobRepository) Create(ctx context.Context, job *entity.Job) error {
	screenshots, err := marshalScreenshots(job.Screenshots)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO processing_jobs (
			id, user_id, video_key, audio_key, archive_key, status,
			screenshots, screenshot_count, segment_count,
			file_size, media_duration, attempt, max_attempts,
			error_message, created_at, updated_at, completed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`

	_, err = r.pool.Exec(ctx, query,
		job.ID, job.UserID, job.VideoKey, job.AudioKey, job.ArchiveKey, string(job.Status),
		screenshots, job.ScreenshotCount, job.SegmentCount,
		job.FileSize, job.MediaDuration, job.Attempt, job.MaxAttempts,
		job.ErrorMessage, job.CreatedAt, job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) Update(ctx context.Context, job *entity.Job) error {
	screenshots, err := marshalScreenshots(job.Screenshots)
	if err != nil {
		return err
	}

	query := `
		UPDATE processing_jobs SET
			status=$2, archive_key=$3, screenshots=$4, screenshot_count=$5,
			segment_count=$6, media_duration=$7, attempt=$8,
			error_message=$9, updated_at=$10, completed_at=$11
		WHERE id=$1`

	_, err = r.pool.Exec(ctx, query,
		job.ID, string(job.Status), job.ArchiveKey, screenshots, job.ScreenshotCount,
		job.SegmentCount, job.MediaDuration, job.Attempt,
		job.ErrorMessage, job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	query := `
		SELECT id, user_id, video_key, audio_key, archive_key, status,
			screenshots, screenshot_count, segment_count,
			file_size, media_duration, attempt, max_attempts,
			error_message, created_at, updated_at, completed_at
		FROM processing_jobs WHERE id=$1`

	job := &entity.Job{}
	var status string
	var screenshots []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.UserID, &job.VideoKey, &job.AudioKey, &job.ArchiveKey, &status,
		&screenshots, &job.ScreenshotCount, &job.SegmentCount,
		&job.FileSize, &job.MediaDuration, &job.Attempt, &job.MaxAttempts,
		&job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("find job by id: %w", err)
	}
	job.Status = entity.JobStatus(status)

	if len(screenshots) > 0 {
		if err := json.Unmarshal(screenshots, &job.Screenshots); err != nil {
			return nil, fmt.Errorf("decode screenshot manifest: %w", err)
		}
	}
	return job, nil
}

func marshalScreenshots(screenshots []entity.Screenshot) ([]byte, error) {
	if screenshots == nil {
		screenshots = []entity.Screenshot{}
	}
	data, err := json.Marshal(screenshots)
	if err != nil {
		return nil, fmt.Errorf("encode screenshot manifest: %w", err)
	}
	return data, nil
}
