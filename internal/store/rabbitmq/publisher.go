package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/CijeTheCreator/consultify/internal/common"
)

type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// EmailJob is the wire format for prescription email jobs. JobID is a fresh
// ULID per publish so retries are traceable across the retry and DLQ hops.
type EmailJob struct {
	JobID          string `json:"job_id"`
	PrescriptionID string `json:"prescription_id"`
}

// DeclareTopology sets up the delivery queues: the main queue dead-letters
// to the DLQ, the retry queue dead-letters back to the main queue after its
// TTL. Publisher and worker both declare it so either can start first.
func DeclareTopology(ch *amqp.Channel, queue string) error {
	mainQ := queue
	retryQ := queue + ".retry"
	dlqQ := queue + ".dlq"

	if _, err := ch.QueueDeclare(dlqQ, true, false, false, false, nil); err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(retryQ, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": mainQ,
	}); err != nil {
		return err
	}

	_, err := ch.QueueDeclare(mainQ, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": dlqQ,
	})
	return err
}

// NewPublisher dials the broker and declares the delivery topology.
func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := DeclareTopology(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// EnqueuePrescriptionEmail publishes a persistent email job. Callers treat
// failures as best-effort: log and move on.
func (p *Publisher) EnqueuePrescriptionEmail(ctx context.Context, prescriptionID string) error {
	jobID, err := common.NewULID()
	if err != nil {
		return err
	}
	body, err := json.Marshal(EmailJob{
		JobID:          jobID,
		PrescriptionID: prescriptionID,
	})
	if err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(cctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
}
