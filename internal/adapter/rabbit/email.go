package rabbit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
	"github.com/Temutjin2k/cab-billing-system/internal/domain/types"
	"github.com/Temutjin2k/cab-billing-system/pkg/logger"
	wrap "github.com/Temutjin2k/cab-billing-system/pkg/logger/wrapper"
	"github.com/Temutjin2k/cab-billing-system/pkg/metrics"
	"github.com/Temutjin2k/cab-billing-system/pkg/rabbit"
)

const serviceName = "billing"

// EmailQueue publishes and consumes invoice email jobs on a durable queue.
type EmailQueue struct {
	client *rabbit.RabbitMQ
	queue  string

	log logger.Logger
}

func NewEmailQueue(client *rabbit.RabbitMQ, queue string, log logger.Logger) (*EmailQueue, error) {
	if _, err := client.DeclareQueue(queue); err != nil {
		return nil, fmt.Errorf("failed to declare email queue: %w", err)
	}

	return &EmailQueue{
		client: client,
		queue:  queue,
		log:    log,
	}, nil
}

// PublishInvoiceEmail enqueues a delivery job.
func (q *EmailQueue) PublishInvoiceEmail(ctx context.Context, job models.InvoiceEmailJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal email job: %w", err)
	}

	err = q.client.Publish(ctx, q.queue, body)
	metrics.RecordRabbitMQPublish(serviceName, q.queue, err)
	if err != nil {
		return fmt.Errorf("failed to publish email job: %w", err)
	}

	return nil
}

// Deliverer handles a dequeued invoice email job.
type Deliverer interface {
	DeliverInvoiceEmail(ctx context.Context, job models.InvoiceEmailJob) error
}

// StartConsumer consumes email jobs until the context is cancelled. Failed
// deliveries are requeued once; a redelivered failure is dropped so a broken
// job cannot loop forever.
func (q *EmailQueue) StartConsumer(ctx context.Context, deliverer Deliverer) error {
	deliveries, err := q.client.Consume(q.queue)
	if err != nil {
		return fmt.Errorf("failed to start email consumer: %w", err)
	}

	ctx = wrap.WithAction(ctx, types.ActionQueueConsume)
	q.log.Info(ctx, "email consumer started", "queue", q.queue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				q.log.Debug(ctx, "email consumer stopped")
				return

			case d, ok := <-deliveries:
				if !ok {
					q.log.Warn(ctx, "email delivery channel closed")
					return
				}

				var job models.InvoiceEmailJob
				if err := json.Unmarshal(d.Body, &job); err != nil {
					q.log.Error(ctx, "invalid email job payload", err)
					metrics.RecordRabbitMQConsume(serviceName, q.queue, err)
					// malformed, never requeue
					if nackErr := d.Nack(false, false); nackErr != nil {
						q.log.Error(ctx, "failed to nack email job", nackErr)
					}
					continue
				}

				err := deliverer.DeliverInvoiceEmail(ctx, job)
				metrics.RecordRabbitMQConsume(serviceName, q.queue, err)
				if err != nil {
					q.log.Error(ctx, "email job failed", err, "ride_id", job.RideID, "redelivered", d.Redelivered)
					if nackErr := d.Nack(false, !d.Redelivered); nackErr != nil {
						q.log.Error(ctx, "failed to nack email job", nackErr, "ride_id", job.RideID)
					}
					continue
				}

				if ackErr := d.Ack(false); ackErr != nil {
					q.log.Error(ctx, "failed to ack email job", ackErr, "ride_id", job.RideID)
				}
			}
		}
	}()

	return nil
}
