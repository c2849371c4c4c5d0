package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
)

const Channel = "notifications"

type Type string

const (
	TypeOtp              Type = "otp"
	TypeOrderPlaced      Type = "order_placed"
	TypeContactSubmitted Type = "contact_submitted"
)

type Event struct {
	ID        uuid.UUID              `json:"id"`
	Type      Type                   `json:"type"`
	Recipient string                 `json:"recipient"`
	Payload   map[string]interface{} `json:"payload"`
	CreatedAt time.Time              `json:"createdAt"`
}

func New(t Type, recipient string, payload map[string]interface{}) Event {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return Event{
		ID:        uuid.New(),
		Type:      t,
		Recipient: recipient,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// MarshalZerologObject keeps otp codes out of the logs of the publishing side.
func (e Event) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("id", e.ID.String()).
		Str("type", string(e.Type)).
		Str("recipient", e.Recipient).
		Time("createdAt", e.CreatedAt)
}

type Publisher interface {
	Publish(c context.Context, e Event) error
}

type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client, channel: Channel}
}

func (p *RedisPublisher) Publish(c context.Context, e Event) error {
	c, span := inOtel.Tracer.Start(c, "RedisPublisher Publish")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisPublisher Publish").
		Object(log.KeyNotification, e).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "marshalling event").Logger()
	logger.Trace().Msg("marshalling event")
	payload, err := json.Marshal(e)
	if err != nil {
		err = fmt.Errorf("failed marshalling event with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("marshalled event")

	logger = logger.With().Str(log.KeyProcess, "publishing event").Logger()
	logger.Trace().Msg("publishing event")
	if err = p.client.Publish(c, p.channel, payload).Err(); err != nil {
		err = fmt.Errorf("failed publishing event with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("published event")
	return nil
}

type Handler func(c context.Context, e Event) error

// Subscribe feeds every event published on the channel to handler until c is
// done. Undecodable messages and handler failures are logged and skipped.
func Subscribe(c context.Context, client *redis.Client, handler Handler) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "event Subscribe").
		Str("channel", Channel).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "subscribing").Logger()
	logger.Info().Msg("subscribing")
	subscriber := client.Subscribe(c, Channel)
	defer subscriber.Close()
	if _, err := subscriber.Receive(c); err != nil {
		err = fmt.Errorf("failed subscribing channel=%s with error=%w", Channel, err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("subscribed")

	messages := subscriber.Channel()
	for {
		select {
		case <-c.Done():
			logger.Info().Msg("stop receiving events")
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			requestID := uuid.NewString()
			logger := logger.With().
				Str(log.KeyRequestID, requestID).
				Str(log.KeyProcess, "handling event").
				Logger()
			c := log.AttachRequestIDToContext(logger.WithContext(c), requestID)

			e := Event{}
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				err = fmt.Errorf("failed decoding event with error=%w", err)
				logger.Error().Err(err).Str("payload", msg.Payload).Msg(err.Error())
				continue
			}
			logger = logger.With().Object(log.KeyNotification, e).Logger()
			logger.Trace().Msg("handling event")
			if err := handler(c, e); err != nil {
				err = fmt.Errorf("failed handling event with error=%w", err)
				logger.Error().Err(err).Msg(err.Error())
				continue
			}
			logger.Trace().Msg("handled event")
		}
	}
}
