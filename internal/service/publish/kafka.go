package publish

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"safetywatch/internal/config"
	"safetywatch/internal/logger"
	"safetywatch/internal/model"
)

// EventPublisher streams violation events to a Kafka topic so downstream
// consumers (dashboards, incident pipelines) can react to them.
type EventPublisher struct {
	producer     *kafka.Producer
	topic        string
	deliveryChan chan kafka.Event
	logger       *logger.Logger

	acked  atomic.Int64
	failed atomic.Int64

	wg   sync.WaitGroup
	done chan struct{}
}

// NewEventPublisher creates a producer from the Kafka configuration and
// starts the delivery-report handler.
func NewEventPublisher(config *config.Config, logger *logger.Logger) (*EventPublisher, error) {
	producerConfig := &kafka.ConfigMap{
		"bootstrap.servers": config.KafkaBootstrapServers,
		"acks":              config.KafkaAcks,
		"compression.type":  config.KafkaCompressionType,
		"linger.ms":         config.KafkaLingerMS,

		"enable.idempotence": true,
		"request.timeout.ms": 30000,
	}

	producer, err := kafka.NewProducer(producerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	p := &EventPublisher{
		producer:     producer,
		topic:        config.KafkaTopic,
		deliveryChan: make(chan kafka.Event, 1000),
		logger:       logger,
		done:         make(chan struct{}),
	}

	p.wg.Add(1)
	go p.handleDeliveryReports()

	logger.Info("Kafka publisher initialized - topic %s, servers %s", p.topic, config.KafkaBootstrapServers)
	return p, nil
}

// handleDeliveryReports processes delivery confirmations.
func (p *EventPublisher) handleDeliveryReports() {
	defer p.wg.Done()

	for {
		select {
		case <-p.done:
			return
		case e := <-p.deliveryChan:
			m, ok := e.(*kafka.Message)
			if !ok {
				continue
			}

			if m.TopicPartition.Error != nil {
				p.failed.Add(1)
				p.logger.Error("Kafka delivery failed: %v", m.TopicPartition.Error)
			} else {
				p.acked.Add(1)
			}
		}
	}
}

// Publish enqueues a violation event. Delivery is asynchronous; a failed
// produce is returned so the caller can log and continue.
func (p *EventPublisher) Publish(event *model.ViolationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	message := &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &p.topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(event.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "violation_count", Value: []byte(fmt.Sprintf("%d", len(event.Violations)))},
			{Key: "first_class", Value: []byte(event.Violations[0].Label)},
		},
	}

	if err := p.producer.Produce(message, p.deliveryChan); err != nil {
		p.failed.Add(1)
		return fmt.Errorf("failed to produce event: %w", err)
	}

	return nil
}

// Stats returns delivered/failed counters.
func (p *EventPublisher) Stats() (acked, failed int64) {
	return p.acked.Load(), p.failed.Load()
}

// Close flushes pending messages and shuts the producer down.
func (p *EventPublisher) Close() {
	remaining := p.producer.Flush(int((10 * time.Second).Milliseconds()))
	if remaining > 0 {
		p.logger.Warning("%d kafka messages still pending after flush", remaining)
	}

	close(p.done)
	p.wg.Wait()
	p.producer.Close()

	acked, failed := p.Stats()
	p.logger.Info("Kafka publisher closed - acked %d, failed %d", acked, failed)
}
