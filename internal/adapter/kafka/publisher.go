package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/tremorline/quake-forecast-service/internal/config"
	"github.com/tremorline/quake-forecast-service/internal/domain"
)

// Publisher emits completed forecast outcomes to a Kafka topic.
// It implements forecast.OutcomePublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
	clock  func() time.Time
}

// outcomeEnvelope is the wire form of a published forecast outcome.
type outcomeEnvelope struct {
	RequestedModel string                 `json:"requested_model"`
	ModelUsed      string                 `json:"model_used"`
	Metric         string                 `json:"metric"`
	Horizon        int                    `json:"horizon"`
	Trend          string                 `json:"trend"`
	HistoricalMean float64                `json:"historical_mean"`
	ForecastMean   float64                `json:"forecast_mean"`
	Points         []domain.ForecastPoint `json:"points"`
	PublishedAt    time.Time              `json:"published_at"`
}

// NewPublisher creates a Kafka producer for the configured outcome topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaOutcomeTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger, clock: time.Now}
}

// PublishOutcome serializes and publishes one forecast outcome.
func (p *Publisher) PublishOutcome(ctx context.Context, outcome domain.ForecastOutcome) error {
	msg, err := serializeToMessage(outcome, p.clock().UTC())
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a forecast outcome into a Kafka message. The key
// is the metric name so consumers reading a compacted topic always see the
// latest outcome per metric.
func serializeToMessage(outcome domain.ForecastOutcome, publishedAt time.Time) (kafkago.Message, error) {
	envelope := outcomeEnvelope{
		RequestedModel: outcome.RequestedModel,
		ModelUsed:      outcome.ModelUsed,
		Metric:         string(outcome.Metric),
		Horizon:        outcome.Horizon,
		Trend:          string(outcome.Trend),
		HistoricalMean: outcome.HistoricalMean,
		ForecastMean:   outcome.ForecastMean,
		Points:         outcome.Points,
		PublishedAt:    publishedAt,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast outcome: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(envelope.Metric),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "model_used", Value: []byte(envelope.ModelUsed)},
			{Key: "published_at", Value: []byte(publishedAt.Format(time.RFC3339))},
		},
	}, nil
}
