package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"timetable_syncer/internal/domain"
)

// RabbitMQ announces schedule replacements on a topic exchange so that
// downstream consumers can refresh their caches.
type RabbitMQ struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *slog.Logger
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger = logger.With("component", "publisher")
	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
	}, nil
}

// declareTopology declares a durable topic exchange and, when QueueName is
// set, a durable queue bound to RoutingKey.
func declareTopology(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if cfg.QueueName == "" {
		return nil
	}

	q, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// ScheduleUpdatedMessage announces that the lessons table was replaced.
type ScheduleUpdatedMessage struct {
	Source            string    `json:"source"`
	Watermark         time.Time `json:"watermark"`
	PreviousWatermark time.Time `json:"previous_watermark,omitzero"`
	Groups            int       `json:"groups"`
	GroupsWithLessons int       `json:"groups_with_lessons"`
	Lessons           int       `json:"lessons"`
	Timestamp         time.Time `json:"timestamp"`
}

func newScheduleUpdatedMessage(stats *domain.SyncStats, now time.Time) ScheduleUpdatedMessage {
	return ScheduleUpdatedMessage{
		Source:            stats.SourceID,
		Watermark:         stats.Watermark,
		PreviousWatermark: stats.PreviousWatermark,
		Groups:            stats.Groups,
		GroupsWithLessons: stats.GroupsWithLessons,
		Lessons:           stats.Lessons,
		Timestamp:         now.UTC(),
	}
}

func (r *RabbitMQ) PublishScheduleUpdated(ctx context.Context, stats *domain.SyncStats) error {
	msg := newScheduleUpdatedMessage(stats, time.Now())

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		r.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Type:         "schedule.updated",
			Body:         body,
			Timestamp:    msg.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	r.logger.Debug("published schedule update",
		"watermark", stats.Watermark,
		"lessons", stats.Lessons,
	)

	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
