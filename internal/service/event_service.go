package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/unimatch-go-api/internal/observability"
)

// Domain event names. Match caches are invalidated when the data feeding a
// match computation changes.
const (
	EventQualificationChanged  = "qualification.changed"
	EventQualificationVerified = "qualification.verified"
	EventRequirementChanged    = "requirement.changed"
)

// Event is a domain change notification fanned out to every API node.
type Event struct {
	Source    string    `json:"source"`
	Name      string    `json:"name"`
	StudentID uint      `json:"student_id,omitempty"`
	EntityID  uint      `json:"entity_id,omitempty"`
	SentAt    time.Time `json:"sent_at"`
}

// EventBus publishes domain events and dispatches incoming ones to local
// subscribers. Redis pub/sub and NATS are both optional transports; with
// neither configured events still reach subscribers on the local node.
type EventBus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(handler func(Event))
	Start(ctx context.Context)
}

type eventBus struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
	nodeID       string

	mu       sync.RWMutex
	handlers []func(Event)
}

// NewEventBus constructs the domain event bus. The channel base names both
// the redis channel and the NATS subject.
func NewEventBus(redisClient *redis.Client, natsConn *nats.Conn, channelBase string, logger zerolog.Logger) EventBus {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":events"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".events"
	}

	return &eventBus{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		logger:       logger.With().Str("component", "event_bus").Logger(),
		nodeID:       uuid.NewString(),
	}
}

func (b *eventBus) Subscribe(handler func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

func (b *eventBus) Start(ctx context.Context) {
	if b.redis != nil && b.redisChannel != "" {
		go b.consumeRedis(ctx)
	}
	if b.nats != nil && b.natsSubject != "" {
		go b.consumeNATS(ctx)
	}
}

func (b *eventBus) Publish(ctx context.Context, event Event) error {
	if strings.TrimSpace(event.Name) == "" {
		return errors.New("event name is required")
	}

	event.Source = b.nodeID
	event.SentAt = time.Now().UTC()

	b.dispatch(event)
	observability.DomainEventsPublished().WithLabelValues(event.Name).Inc()

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if b.redis != nil && b.redisChannel != "" {
		if err := b.redis.Publish(ctx, b.redisChannel, payload).Err(); err != nil {
			return err
		}
	}

	if b.nats != nil && b.natsSubject != "" {
		if err := b.nats.Publish(b.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (b *eventBus) consumeRedis(ctx context.Context) {
	pubsub := b.redis.Subscribe(ctx, b.redisChannel)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			b.logger.Error().Err(err).Msg("event redis subscription closed")
			return
		}
		b.handleRemote([]byte(msg.Payload))
	}
}

func (b *eventBus) consumeNATS(ctx context.Context) {
	sub, err := b.nats.QueueSubscribe(b.natsSubject, "unimatch-events", func(msg *nats.Msg) {
		b.handleRemote(msg.Data)
	})
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to subscribe to nats events subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			b.logger.Warn().Err(err).Msg("failed to drain nats event subscription")
		}
	}()
}

func (b *eventBus) handleRemote(payload []byte) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		b.logger.Warn().Err(err).Msg("invalid event payload")
		return
	}

	if event.Source == b.nodeID {
		return
	}

	b.dispatch(event)
}

func (b *eventBus) dispatch(event Event) {
	b.mu.RLock()
	handlers := make([]func(Event), len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}
