package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	"github.com/jhoicas/retailpulse-inventory/internal/application/inventory"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/entity"
	"github.com/jhoicas/retailpulse-inventory/pkg/config"
)

var _ inventory.EventPublisher = (*KafkaPublisher)(nil)

// EventMovementApplied tipo del evento emitido tras confirmar un movimiento.
const EventMovementApplied = "MovementApplied"

// MovementAppliedEvent cuerpo JSON del evento.
type MovementAppliedEvent struct {
	Type             string          `json:"type"`
	TransactionID    string          `json:"transaction_id"`
	ProductID        int64           `json:"product_id"`
	Quantity         int64           `json:"quantity"`
	CostPricePerUnit decimal.Decimal `json:"cost_price_per_unit"`
	Source           int64           `json:"source"`
	Destination      int64           `json:"destination"`
	InsertedAt       time.Time       `json:"inserted_at"`
}

// Writer subconjunto de *kafka.Writer que usa el publicador.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica eventos de movimiento con clave = product_id (orden por producto).
type KafkaPublisher struct {
	writer  Writer
	timeout time.Duration
}

// DefaultPublishTimeout tope usado cuando NewKafkaPublisher recibe un timeout no positivo.
const DefaultPublishTimeout = 2 * time.Second

// NewKafkaWriter crea el writer de kafka-go para el tópico configurado.
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           cfg.PublishTimeout,
	}
}

// NewKafkaPublisher construye el publicador sobre w; cada publicación dura a lo sumo timeout.
func NewKafkaPublisher(w Writer, timeout time.Duration) *KafkaPublisher {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &KafkaPublisher{writer: w, timeout: timeout}
}

// PublishMovementApplied serializa la transacción y la escribe; propaga el contexto de traza en headers.
// La escritura no hereda la cancelación de ctx (el movimiento ya está confirmado) pero sí un plazo propio.
func (p *KafkaPublisher) PublishMovementApplied(ctx context.Context, tx *entity.InventoryTransaction) error {
	payload, err := json.Marshal(MovementAppliedEvent{
		Type:             EventMovementApplied,
		TransactionID:    tx.ID,
		ProductID:        tx.ProductID,
		Quantity:         tx.Quantity,
		CostPricePerUnit: tx.CostPricePerUnit,
		Source:           tx.Source,
		Destination:      tx.Destination,
		InsertedAt:       tx.InsertedAt,
	})
	if err != nil {
		return fmt.Errorf("serializar %s: %w", EventMovementApplied, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(tx.ProductID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(EventMovementApplied)},
		},
	}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{msg: &msg})

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		return fmt.Errorf("publicar %s: %w", EventMovementApplied, err)
	}
	return nil
}

// Close cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// headerCarrier adapta los headers de kafka.Message a propagation.TextMapCarrier.
type headerCarrier struct{ msg *kafka.Message }

func (c headerCarrier) Get(key string) string {
	for _, h := range c.msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	for i, h := range c.msg.Headers {
		if h.Key == key {
			c.msg.Headers[i].Value = []byte(value)
			return
		}
	}
	c.msg.Headers = append(c.msg.Headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.msg.Headers))
	for _, h := range c.msg.Headers {
		keys = append(keys, h.Key)
	}
	return keys
}

// Nop publicador desactivado (sin KAFKA_BROKERS).
type Nop struct{}

func (Nop) PublishMovementApplied(context.Context, *entity.InventoryTransaction) error { return nil }
