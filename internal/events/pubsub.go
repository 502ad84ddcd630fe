package events

import (
	"context"

	"wallpapers/internal/catalog"

	"cloud.google.com/go/pubsub"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type Publisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

func NewPublisher(ctx context.Context, projectID, topicID string, opts ...option.ClientOption) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "pubsub client")
	}

	topic, err := getOrCreateTopic(ctx, client, topicID)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Publisher{client: client, topic: topic}, nil
}

// PublishUploaded publishes w and waits for the server to accept it.
func (p *Publisher) PublishUploaded(ctx context.Context, w catalog.Wallpaper) error {
	b, err := UploadedFrom(w).Marshal()
	if err != nil {
		return err
	}

	res := p.topic.Publish(ctx, &pubsub.Message{
		Data:       b,
		Attributes: map[string]string{"category": string(w.Category)},
	})
	if _, err := res.Get(ctx); err != nil {
		return errors.Wrapf(err, "publish %s", w.ID)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}

// Receive consumes upload events until ctx is done. Messages fn fails on are
// nacked for redelivery; undecodable ones are acked and dropped.
func Receive(
	ctx context.Context,
	projectID string,
	topicID string,
	subID string,
	fn func(ctx context.Context, u Uploaded) error,
	logger *zap.Logger,
	opts ...option.ClientOption,
) error {
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return errors.Wrap(err, "pubsub client")
	}
	defer client.Close()

	topic, err := getOrCreateTopic(ctx, client, topicID)
	if err != nil {
		return err
	}

	sub, err := getOrCreateSub(ctx, client, subID, &pubsub.SubscriptionConfig{
		Topic:                     topic,
		EnableExactlyOnceDelivery: true,
	})
	if err != nil {
		return err
	}

	logger.Info("listening for uploads", zap.String("subscription", subID))
	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		u, err := Unmarshal(msg.Data)
		if err != nil {
			logger.Error("dropping message", zap.String("messageID", msg.ID), zap.Error(err))
			msg.Ack()
			return
		}

		if err := fn(ctx, u); err != nil {
			logger.Error("message processing failed", zap.String("id", u.ID), zap.Error(err))
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// getOrCreateTopic gets a topic or creates it if it doesn't exist.
func getOrCreateTopic(ctx context.Context, client *pubsub.Client, topicID string) (*pubsub.Topic, error) {
	topic := client.Topic(topicID)
	ok, err := topic.Exists(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "check topic exists")
	}
	if !ok {
		topic, err = client.CreateTopic(ctx, topicID)
		if err != nil {
			return nil, errors.Wrapf(err, "create topic %q", topicID)
		}
	}
	return topic, nil
}

// getOrCreateSub gets a subscription or creates it if it doesn't exist.
func getOrCreateSub(ctx context.Context, client *pubsub.Client, subID string, cfg *pubsub.SubscriptionConfig) (*pubsub.Subscription, error) {
	sub := client.Subscription(subID)
	ok, err := sub.Exists(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "check subscription exists")
	}
	if !ok {
		sub, err = client.CreateSubscription(ctx, subID, *cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "create subscription %q", subID)
		}
	}
	return sub, nil
}
