package ingester

import (
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sirupsen/logrus"

	"github.com/polymatrix/tracker/configs"
	"github.com/polymatrix/tracker/internal/model"
)

// KafkaAlertPublisher writes fired-alert events to the alert topic as JSON.
type KafkaAlertPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   *logrus.Logger
}

func NewKafkaAlertPublisher(cfg configs.KafkaConfig, logger *logrus.Logger) (*KafkaAlertPublisher, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": cfg.Broker,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	p := &KafkaAlertPublisher{
		producer: producer,
		topic:    cfg.Topic,
		logger:   logger,
	}
	p.startDeliveryReport()
	return p, nil
}

// startDeliveryReport drains the producer event channel and logs failed
// deliveries.
func (p *KafkaAlertPublisher) startDeliveryReport() {
	go func() {
		for e := range p.producer.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					p.logger.Errorf("Alert delivery failed: %v", ev.TopicPartition.Error)
				}
			}
		}
	}()
}

// PublishAlert enqueues one fired-alert event, keyed by wallet address so
// alerts for the same wallet stay ordered.
func (p *KafkaAlertPublisher) PublishAlert(alert *model.FiredAlert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(alert.WalletAddress),
		Value:          payload,
	}, nil)
}

// Close flushes pending messages and releases the producer.
func (p *KafkaAlertPublisher) Close() {
	p.producer.Flush(5000)
	p.producer.Close()
}
