package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/chris-merrill/Transcribr/internal/domain/entity"
	"github.com/chris-merrill/Transcribr/internal/domain/port"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ProgressPublisher fans human-readable pipeline progress out to the
// media.progress queue. Delivery is best-effort: publish failures are
// logged and dropped so progress can never abort a running job.
type ProgressPublisher struct {
	pub    *Publisher
	logger *zap.Logger
}

func NewProgressPublisher(pub *Publisher, logger *zap.Logger) *ProgressPublisher {
	return &ProgressPublisher{pub: pub, logger: logger}
}

// ForJob returns a sink that tags every message with the job ID.
func (pp *ProgressPublisher) ForJob(jobID uuid.UUID) port.ProgressSink {
	return &jobProgressSink{pp: pp, jobID: jobID}
}

type jobProgressSink struct {
	pp    *ProgressPublisher
	jobID uuid.UUID
}

func (s *jobProgressSink) Notify(ctx context.Context, message string) {
	body, err := json.Marshal(entity.ProgressMessage{JobID: s.jobID, Message: message})
	if err != nil {
		s.pp.logger.Warn("encode progress message", zap.Error(err))
		return
	}

	err = s.pp.pub.channel.PublishWithContext(ctx,
		s.pp.pub.exchange,
		routingKeyProgress,
		false, false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now().UTC(),
		},
	)
	if err != nil {
		s.pp.logger.Warn("publish progress message",
			zap.String("job_id", s.jobID.String()),
			zap.Error(err),
		)
	}
}
