package entity

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// Screenshot is one entry of the job's result manifest: the finalized
// filename and the offset into the source video it was captured at.
type Screenshot struct {
	Filename       string `json:"filename"`
	ElapsedSeconds int    `json:"seconds"`
}

type Job struct {
	ID              uuid.UUID
	UserID          string
	VideoKey        string
	AudioKey        string
	ArchiveKey      string
	Status          JobStatus
	Screenshots     []Screenshot
	ScreenshotCount int
	SegmentCount    int
	FileSize        int64
	MediaDuration   float64
	Attempt         int
	MaxAttempts     int
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
}

func NewJob(userID, videoKey, audioKey string, fileSize int64, maxAttempts int) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:          uuid.New(),
		UserID:      userID,
		VideoKey:    videoKey,
		AudioKey:    audioKey,
		FileSize:    fileSize,
		Status:      JobStatusPending,
		Attempt:     0,
		MaxAttempts: maxAttempts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (j *Job) MarkProcessing() {
	j.Status = JobStatusProcessing
	j.Attempt++
	j.UpdatedAt = time.Now().UTC()
}

func (j *Job) MarkCompleted(archiveKey string, screenshots []Screenshot, segmentCount int, duration float64) {
	now := time.Now().UTC()
	j.Status = JobStatusCompleted
	j.ArchiveKey = archiveKey
	j.Screenshots = screenshots
	j.ScreenshotCount = len(screenshots)
	j.SegmentCount = segmentCount
	j.MediaDuration = duration
	j.UpdatedAt = now
	j.CompletedAt = &now
}

func (j *Job) MarkFailed(errMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMessage = errMsg
	j.UpdatedAt = time.Now().UTC()
}

func (j *Job) CanRetry() bool {
	return j.Attempt < j.MaxAttempts
}
