package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/alxtravel/travel-booking-api/internal/mailer"
	"github.com/alxtravel/travel-booking-api/internal/model"
	"github.com/alxtravel/travel-booking-api/internal/repository"
)

// Consumer executes queued jobs: confirmation emails and payment callbacks.
// It runs a reconnect loop and only stops when the process exits; failures
// inside a job are retried with backoff up to the job's retry budget and
// then abandoned.
type Consumer struct {
	url      string
	mailer   mailer.Mailer
	payments *repository.PaymentRepo
	pub      *Publisher // used to republish jobs that need a retry
}

// NewConsumer builds a Consumer. The publisher republished retries go
// through must target the same broker as the consumed queues.
func NewConsumer(url string, m mailer.Mailer, payments *repository.PaymentRepo) *Consumer {
	return &Consumer{url: url, mailer: m, payments: payments, pub: NewPublisher(url)}
}

// Start connects to RabbitMQ, declares both job queues (durable), and
// consumes them until the connection drops, then reconnects with a capped
// backoff. Processing errors are logged; the offending message is either
// scheduled for a delayed retry or dropped once its retry budget is spent.
func (c *Consumer) Start() error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			log.Printf("worker: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := c.consumeLoop(conn); err != nil {
			log.Printf("worker: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func (c *Consumer) consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("worker: set QoS failed: %v", err)
	}

	for _, name := range []string{BookingConfirmationQueue, PaymentCallbackQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	emails, err := ch.Consume(BookingConfirmationQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	callbacks, err := ch.Consume(PaymentCallbackQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case d, ok := <-emails:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.handleConfirmationDelivery(d)
		case d, ok := <-callbacks:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.handleCallbackDelivery(d)
		}
	}
}

// deliveryRetries reads the retry counter from the message headers;
// messages without the header are first attempts.
func deliveryRetries(d amqp.Delivery) int {
	v, ok := d.Headers[retryCountHeader]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func (c *Consumer) handleConfirmationDelivery(d amqp.Delivery) {
	var job BookingConfirmationJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		log.Printf("worker: bad confirmation payload: %v", err)
		_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
		return
	}
	subject, body := confirmationEmail(job)
	if err := c.mailer.Send(job.CustomerEmail, subject, body); err != nil {
		retries := deliveryRetries(d)
		if retries >= maxEmailRetries {
			log.Printf("worker: confirmation email for booking %d abandoned after %d retries: %v",
				job.BookingID, retries, err)
			_ = d.Ack(false)
			return
		}
		c.scheduleRetry(BookingConfirmationQueue, job, retries, retryDelay(retries))
		log.Printf("worker: confirmation email for booking %d failed (%v), retry %d in %s",
			job.BookingID, err, retries+1, retryDelay(retries))
		_ = d.Ack(false)
		return
	}
	log.Printf("worker: booking confirmation email sent for booking %d", job.BookingID)
	_ = d.Ack(false)
}

func (c *Consumer) handleCallbackDelivery(d amqp.Delivery) {
	var job PaymentCallbackJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		log.Printf("worker: bad callback payload: %v", err)
		_ = d.Nack(false, false)
		return
	}
	if err := c.processPaymentCallback(context.Background(), job); err != nil {
		retries := deliveryRetries(d)
		if retries >= maxCallbackRetries {
			log.Printf("worker: payment callback for payment %d abandoned after %d retries: %v",
				job.PaymentID, retries, err)
			_ = d.Ack(false)
			return
		}
		c.scheduleRetry(PaymentCallbackQueue, job, retries, 60*time.Second)
		log.Printf("worker: payment callback for payment %d failed (%v), retry %d in 60s",
			job.PaymentID, err, retries+1)
		_ = d.Ack(false)
		return
	}
	_ = d.Ack(false)
}

// processPaymentCallback applies a gateway-reported status to the local
// payment row. Terminal payments are left untouched so a replayed callback
// cannot flip a decided outcome.
func (c *Consumer) processPaymentCallback(ctx context.Context, job PaymentCallbackJob) error {
	p, err := c.payments.GetByID(ctx, job.PaymentID)
	if err != nil {
		return err
	}
	if p.Terminal() {
		log.Printf("worker: payment %s already %s, callback ignored", p.TxRef, p.Status)
		return nil
	}
	status := model.PaymentFailed
	if job.Status == "success" {
		status = model.PaymentCompleted
	}
	if err := c.payments.UpdateStatus(ctx, p.TxRef, status, p.ChapaTransactionID); err != nil {
		return err
	}
	log.Printf("worker: payment %s marked %s", p.TxRef, status)
	return nil
}

// scheduleRetry republishes the job with an incremented retry counter after
// the given delay. The original delivery is acked by the caller; the timer
// keeps the retry inside this process, which is acceptable for the retry
// volumes involved (a broker-side TTL/dead-letter topology is the scaling
// path if that changes).
func (c *Consumer) scheduleRetry(queueName string, job any, retries int, delay time.Duration) {
	time.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := c.pub.publish(ctx, queueName, job, int32(retries+1)); err != nil {
			log.Printf("worker: retry republish to %s failed: %v", queueName, err)
		}
	})
}
