package entity

import "github.com/google/uuid"

// MediaProcessingMessage is the inbound message from the media.processing queue.
type MediaProcessingMessage struct {
	JobID     uuid.UUID `json:"job_id"`
	UserID    string    `json:"user_id"`
	VideoKey  string    `json:"video_key"`
	AudioKey  string    `json:"audio_key"`
	FileSize  int64     `json:"file_size"`
	UserEmail string    `json:"user_email"`
}

// MediaStatusMessage is the outbound message published to the media.status queue.
type MediaStatusMessage struct {
	JobID           uuid.UUID    `json:"job_id"`
	UserID          string       `json:"user_id"`
	Status          JobStatus    `json:"status"`
	VideoKey        string       `json:"video_key"`
	AudioKey        string       `json:"audio_key"`
	ArchiveKey      string       `json:"archive_key,omitempty"`
	Screenshots     []Screenshot `json:"screenshots,omitempty"`
	ScreenshotCount int          `json:"screenshot_count,omitempty"`
	SegmentCount    int          `json:"segment_count,omitempty"`
	Duration        float64      `json:"duration_seconds,omitempty"`
	ErrorMessage    string       `json:"error_message,omitempty"`
	Attempt         int          `json:"attempt"`
	MaxAttempts     int          `json:"max_attempts"`
}

// ProgressMessage is the outbound best-effort event published to the
// media.progress queue while a job is being processed.
type ProgressMessage struct {
	JobID   uuid.UUID `json:"job_id"`
	Message string    `json:"message"`
}
