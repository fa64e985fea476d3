package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
)

// Client holds the RabbitMQ connection and channel used to publish blog events.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	mu      sync.Mutex // amqp.Channel must not publish from several goroutines at once
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// Event is the envelope every published message carries.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// NewClient connects to RabbitMQ, opens a channel and declares the events queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", cfg.Queue, err)
	}

	log.Printf("RabbitMQ client connected and %s declared.", cfg.Queue)

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   cfg.Queue,
	}, nil
}

// Close releases the channel, then the connection. Both are attempted even if the
// first fails; the returned error joins whatever went wrong.
func (c *Client) Close() error {
	var channelErr, connErr error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			channelErr = fmt.Errorf("closing events channel: %w", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			connErr = fmt.Errorf("closing broker connection: %w", err)
		}
	}
	return errors.Join(channelErr, connErr)
}

// PublishEvent publishes a named event with its payload to the events queue.
func (c *Client) PublishEvent(name string, data any) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	msg, err := NewPublishing(name, data, time.Now())
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		"",      // exchange: default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", name, err)
	}

	log.Printf(" [x] Sent %s event (%s)", name, msg.MessageId)
	return nil
}

// NewPublishing builds the persistent JSON message for an event.
func NewPublishing(name string, data any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(Event{Name: name, Data: data})
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal %s event to JSON: %w", name, err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.New().String(),
		Type:         name,
		Timestamp:    now,
		Body:         body,
	}, nil
}
