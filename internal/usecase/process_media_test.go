package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/chris-merrill/Transcribr/internal/domain/entity"
	"github.com/chris-merrill/Transcribr/internal/domain/port"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	jobs map[uuid.UUID]*entity.Job
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{jobs: make(map[uuid.UUID]*entity.Job)}
}

func (r *fakeRepo) Create(_ context.Context, job *entity.Job) error {
	copied := *job
	r.jobs[job.ID] = &copied
	return nil
}

func (r *fakeRepo) Update(_ context.Context, job *entity.Job) error {
	copied := *job
	r.jobs[job.ID] = &copied
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Job, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *job
	return &copied, nil
}

type fakeStorage struct {
	uploadedKey  string
	uploadedSize int64
}

func (s *fakeStorage) DownloadMedia(_ context.Context, _ string, destPath string) error {
	return os.WriteFile(destPath, []byte("media-bytes"), 0644)
}

func (s *fakeStorage) UploadArchive(_ context.Context, objectKey string, reader io.Reader, size int64) error {
	s.uploadedKey = objectKey
	s.uploadedSize = size
	_, err := io.Copy(io.Discard, reader)
	return err
}

type fakeTranscriber struct {
	segments []entity.TranscriptSegment
	err      error
}

func (tr *fakeTranscriber) Transcribe(context.Context, string, port.ProgressSink) ([]entity.TranscriptSegment, error) {
	return tr.segments, tr.err
}

type fakeExtractor struct {
	manifest []entity.Screenshot
	err      error
}

func (e *fakeExtractor) ExtractScreenshots(_ context.Context, _ string, destDir string, _ port.ProgressSink) ([]entity.Screenshot, error) {
	if e.err != nil {
		return nil, e.err
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, err
	}
	for _, shot := range e.manifest {
		if err := os.WriteFile(filepath.Join(destDir, shot.Filename), []byte("jpeg"), 0644); err != nil {
			return nil, err
		}
	}
	return e.manifest, nil
}

type fakeProber struct{ duration float64 }

func (p *fakeProber) ProbeDuration(context.Context, string) (float64, error) {
	return p.duration, nil
}

type fakeArchiver struct {
	entries []port.ArchiveEntry
}

func (a *fakeArchiver) CreateArchive(_ context.Context, entries []port.ArchiveEntry, outputPath string) error {
	a.entries = entries
	return os.WriteFile(outputPath, []byte("zip-bytes"), 0644)
}

type fakeStatusPublisher struct {
	messages []entity.MediaStatusMessage
}

func (p *fakeStatusPublisher) PublishStatus(_ context.Context, msg []byte) error {
	var status entity.MediaStatusMessage
	if err := json.Unmarshal(msg, &status); err != nil {
		return err
	}
	p.messages = append(p.messages, status)
	return nil
}

type fakeProgress struct {
	messages []string
}

func (p *fakeProgress) ForJob(uuid.UUID) port.ProgressSink { return p }

func (p *fakeProgress) Notify(_ context.Context, message string) {
	p.messages = append(p.messages, message)
}

type fakeDLQ struct {
	bodies  [][]byte
	reasons []string
}

func (d *fakeDLQ) PublishToDLQ(_ context.Context, msg []byte, reason string) error {
	d.bodies = append(d.bodies, msg)
	d.reasons = append(d.reasons, reason)
	return nil
}

type fakeNotifier struct {
	emails []string
}

func (n *fakeNotifier) NotifyFailure(_ context.Context, userEmail, _, _, _ string) error {
	n.emails = append(n.emails, userEmail)
	return nil
}

type fixture struct {
	uc          *ProcessMediaUseCase
	repo        *fakeRepo
	storage     *fakeStorage
	transcriber *fakeTranscriber
	extractor   *fakeExtractor
	archiver    *fakeArchiver
	status      *fakeStatusPublisher
	progress    *fakeProgress
	dlq         *fakeDLQ
	notifier    *fakeNotifier
}

func newFixture(t *testing.T, maxRetries int) *fixture {
	f := &fixture{
		repo:    newFakeRepo(),
		storage: &fakeStorage{},
		transcriber: &fakeTranscriber{segments: []entity.TranscriptSegment{
			{Start: 0.0, End: 5.0, Text: " Hello world"},
			{Start: 5.0, End: 10.0, Text: " Second line"},
		}},
		extractor: &fakeExtractor{manifest: []entity.Screenshot{
			{Filename: "frame_001_00m00s.jpg", ElapsedSeconds: 0},
			{Filename: "frame_002_00m30s.jpg", ElapsedSeconds: 30},
		}},
		archiver: &fakeArchiver{},
		status:   &fakeStatusPublisher{},
		progress: &fakeProgress{},
		dlq:      &fakeDLQ{},
		notifier: &fakeNotifier{},
	}
	f.uc = NewProcessMediaUseCase(
		f.repo, f.storage, f.transcriber, f.extractor, &fakeProber{duration: 42.5}, f.archiver,
		f.status, f.progress, f.dlq, f.notifier,
		zap.NewNop(),
		ProcessMediaConfig{TempDir: t.TempDir(), MaxRetries: maxRetries},
	)
	return f
}

func processingMessage(jobID uuid.UUID) []byte {
	msg := entity.MediaProcessingMessage{
		JobID:     jobID,
		UserID:    "user-1",
		VideoKey:  "user-1/video.mp4",
		AudioKey:  "user-1/audio.m4a",
		FileSize:  2048,
		UserEmail: "user@example.com",
	}
	body, _ := json.Marshal(msg)
	return body
}

func TestExecuteHappyPath(t *testing.T) {
	f := newFixture(t, 3)
	jobID := uuid.New()

	err := f.uc.Execute(context.Background(), processingMessage(jobID))
	require.NoError(t, err)

	job, err := f.repo.FindByID(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusCompleted, job.Status)
	assert.Equal(t, 2, job.ScreenshotCount)
	assert.Equal(t, 2, job.SegmentCount)
	assert.Equal(t, 42.5, job.MediaDuration)
	assert.Equal(t, fmt.Sprintf("user-1/transcribr_%s.zip", jobID), job.ArchiveKey)

	// Archive holds the transcript plus every screenshot under screenshots/.
	names := make([]string, 0, len(f.archiver.entries))
	for _, e := range f.archiver.entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{
		"transcription.txt",
		"screenshots/frame_001_00m00s.jpg",
		"screenshots/frame_002_00m30s.jpg",
	}, names)

	assert.Equal(t, job.ArchiveKey, f.storage.uploadedKey)

	require.Len(t, f.status.messages, 1)
	assert.Equal(t, entity.JobStatusCompleted, f.status.messages[0].Status)
	assert.Len(t, f.status.messages[0].Screenshots, 2)

	assert.Empty(t, f.dlq.bodies)
	assert.Empty(t, f.notifier.emails)
	assert.NotEmpty(t, f.progress.messages)
	assert.Equal(t, "Done!", f.progress.messages[len(f.progress.messages)-1])
}

func TestExecuteScreenshotFailureIsRetryable(t *testing.T) {
	f := newFixture(t, 3)
	f.extractor.err = errors.New("ffmpeg sample frames: exit status 1")
	jobID := uuid.New()

	err := f.uc.Execute(context.Background(), processingMessage(jobID))
	require.Error(t, err, "retryable failures bubble up so the message is redelivered")

	job, findErr := f.repo.FindByID(context.Background(), jobID)
	require.NoError(t, findErr)
	assert.Equal(t, entity.JobStatusFailed, job.Status)
	assert.Contains(t, job.ErrorMessage, "extract_screenshots")
	assert.Empty(t, f.dlq.bodies)
}

func TestExecuteExhaustedRetriesGoToDLQ(t *testing.T) {
	f := newFixture(t, 1)
	f.transcriber.err = errors.New("whisper transcribe: exit status 1")
	jobID := uuid.New()

	err := f.uc.Execute(context.Background(), processingMessage(jobID))
	require.NoError(t, err, "permanent failures are acked, not redelivered")

	job, findErr := f.repo.FindByID(context.Background(), jobID)
	require.NoError(t, findErr)
	assert.Equal(t, entity.JobStatusFailed, job.Status)
	require.Len(t, f.dlq.bodies, 1)
	assert.Equal(t, []string{"user@example.com"}, f.notifier.emails)
}

func TestExecuteMalformedMessageGoesToDLQ(t *testing.T) {
	f := newFixture(t, 3)

	err := f.uc.Execute(context.Background(), []byte(`{invalid json`))
	require.NoError(t, err)
	require.Len(t, f.dlq.bodies, 1)
	assert.Contains(t, f.dlq.reasons[0], "unmarshal_error")
}
