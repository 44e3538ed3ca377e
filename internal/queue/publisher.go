package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes jobs to RabbitMQ. Errors are logged and returned so
// callers can decide to ignore failures without interrupting the main
// request flow; the booking handler does exactly that.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher that dials the given AMQP URL on each
// publish. Connections are short-lived on purpose: the publish path is
// low-volume and a fresh dial avoids managing a shared channel across
// request goroutines.
func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

// PublishBookingConfirmation enqueues a confirmation-email job.
func (p *Publisher) PublishBookingConfirmation(ctx context.Context, job BookingConfirmationJob) error {
	return p.publish(ctx, BookingConfirmationQueue, job, 0)
}

// PublishPaymentCallback enqueues a payment reconciliation job.
func (p *Publisher) PublishPaymentCallback(ctx context.Context, job PaymentCallbackJob) error {
	return p.publish(ctx, PaymentCallbackQueue, job, 0)
}

// publish marshals the job and delivers it to the named queue with the
// given retry count in the headers. The queue is declared first so publish
// works regardless of whether the worker has started yet.
func (p *Publisher) publish(ctx context.Context, queueName string, job any, retries int32) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(job)
	if err != nil {
		log.Printf("rabbitmq: marshal job failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Headers:      amqp.Table{retryCountHeader: retries},
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
