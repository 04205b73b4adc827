package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Topics the service publishes to.
const (
	TopicSubmissions = "habit_submissions"
	TopicScores      = "leaderboard_updates"
)

// NoopPublisher discards events; used when no brokers are configured.
type NoopPublisher struct{}

// PublishSubmissionRecorded performs no action.
func (NoopPublisher) PublishSubmissionRecorded(context.Context, SubmissionRecorded) error {
	return nil
}

// PublishScoreUpdated performs no action.
func (NoopPublisher) PublishScoreUpdated(context.Context, ScoreUpdated) error { return nil }

// KafkaPublisher lazily manages one writer per topic.
type KafkaPublisher struct {
	brokers []string
	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

// NewKafkaPublisher creates a KafkaPublisher.
func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{
		brokers: brokers,
		writers: make(map[string]*kafka.Writer),
	}
}

// PublishSubmissionRecorded emits the event keyed by user.
func (p *KafkaPublisher) PublishSubmissionRecorded(ctx context.Context, event SubmissionRecorded) error {
	return p.publish(ctx, TopicSubmissions, event.User, "habits.submission_recorded", event)
}

// PublishScoreUpdated emits the event keyed by user.
func (p *KafkaPublisher) PublishScoreUpdated(ctx context.Context, event ScoreUpdated) error {
	return p.publish(ctx, TopicScores, event.User, "leaderboard.score_updated", event)
}

func (p *KafkaPublisher) publish(ctx context.Context, topic, key, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	return p.writerForTopic(topic).WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) writerForTopic(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, ok := p.writers[topic]; ok {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	}
	p.writers[topic] = writer
	return writer
}

// Close releases all writers.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.writers, topic)
	}
	return firstErr
}
