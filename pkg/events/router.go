package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/llmobs/pkg/spans"
)

// SpanRouter wires an in-process gochannel pub/sub to a watermill router, so
// records exported on one side reach handlers on the other.
type SpanRouter struct {
	logger     watermill.LoggerAdapter
	Publisher  message.Publisher
	Subscriber message.Subscriber
	router     *message.Router
}

type SpanRouterOption func(*SpanRouter)

func WithLogger(logger watermill.LoggerAdapter) SpanRouterOption {
	return func(r *SpanRouter) {
		r.logger = logger
	}
}

func NewSpanRouter(options ...SpanRouterOption) (*SpanRouter, error) {
	ret := &SpanRouter{
		logger: watermill.NopLogger{},
	}

	for _, o := range options {
		o(ret)
	}

	goPubSub := gochannel.NewGoChannel(gochannel.Config{
		BlockPublishUntilSubscriberAck: true,
	}, ret.logger)
	ret.Publisher = goPubSub
	ret.Subscriber = goPubSub

	router, err := message.NewRouter(message.RouterConfig{}, ret.logger)
	if err != nil {
		return nil, err
	}
	ret.router = router

	return ret, nil
}

// AddRecordHandler registers f for every span record published on topic.
// Records that cannot be decoded are logged and dropped.
func (r *SpanRouter) AddRecordHandler(name string, topic string, f func(spans.Record) error) {
	r.router.AddNoPublisherHandler(name, topic, r.Subscriber, func(msg *message.Message) error {
		record, err := DecodeRecord(msg)
		if err != nil {
			log.Warn().Err(err).Str("handler", name).Msg("dropping undecodable span record")
			return nil
		}
		return f(record)
	})
}

func (r *SpanRouter) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

func (r *SpanRouter) Running() chan struct{} {
	return r.router.Running()
}

func (r *SpanRouter) Close() error {
	log.Debug().Msg("Closing publisher")
	err := r.Publisher.Close()
	if err != nil {
		log.Error().Err(err).Msg("Failed to close pubsub")
		// not returning just yet
	}
	log.Debug().Msg("Publisher closed")

	log.Debug().Msg("Closing router")
	err = r.router.Close()
	if err != nil {
		log.Error().Err(err).Msg("Failed to close router")
		return err
	}
	log.Debug().Msg("Router closed")

	return nil
}
