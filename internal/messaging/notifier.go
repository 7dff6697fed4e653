package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	ws "github.com/fluentora/backend/pkg/http/ws"
)

const defaultEventChannel = "msg:events"

// RedisPublisher publishes new-message events to a Redis Pub/Sub channel so
// any API instance can push them to its connected recipients.
type RedisPublisher struct {
	redis   *redis.Client
	channel string
}

var _ EventPublisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a publisher on the given channel.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = defaultEventChannel
	}
	return &RedisPublisher{redis: client, channel: channel}
}

// PublishMessage serializes the message and publishes it.
func (p *RedisPublisher) PublishMessage(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.redis.Publish(ctx, p.channel, data).Err()
}

// Notifier subscribes to the message event channel and pushes each new
// message to the recipient's WebSocket connection, if one is registered on
// this instance. Ordering across rapid-fire messages is the broker's
// responsibility.
type Notifier struct {
	redis   *redis.Client
	hub     *ws.Hub
	channel string
	logger  zerolog.Logger
}

// NewNotifier creates a Pub/Sub powered message notifier.
func NewNotifier(client *redis.Client, hub *ws.Hub, channel string, logger zerolog.Logger) *Notifier {
	if channel == "" {
		channel = defaultEventChannel
	}
	return &Notifier{
		redis:   client,
		hub:     hub,
		channel: channel,
		logger:  logger.With().Str("component", "message_notifier").Logger(),
	}
}

// Run subscribes to the event channel and blocks until the context is
// cancelled.
func (n *Notifier) Run(ctx context.Context) error {
	if n.redis == nil || n.hub == nil {
		return nil
	}

	sub := n.redis.Subscribe(ctx, n.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			n.forward(msg.Payload)
		}
	}
}

func (n *Notifier) forward(payload string) {
	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		n.logger.Warn().Err(err).Msg("failed to decode message event")
		return
	}

	out := ws.MessageNewPayload{
		MessageID:      msg.ID.String(),
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID.String(),
		RecipientID:    msg.RecipientID.String(),
		Content:        msg.Content,
		Attachments:    msg.Attachments,
		CreatedAt:      msg.CreatedAt.Format(time.RFC3339Nano),
	}
	if msg.CourseID != nil {
		out.CourseID = msg.CourseID.String()
	}

	raw, err := json.Marshal(out)
	if err != nil {
		n.logger.Warn().Err(err).Msg("failed to marshal message WS payload")
		return
	}

	err = n.hub.SendToUser(msg.RecipientID, ws.Message{
		Type:    ws.TypeMessageNew,
		Payload: raw,
	})
	if err != nil && err != ws.ErrConnectionNotFound {
		n.logger.Warn().Err(err).
			Str("recipient_id", msg.RecipientID.String()).
			Msg("failed to push message")
	}
}
