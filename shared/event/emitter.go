package event

import (
	"context"
	"pos/config"
	"pos/infras/kafka"
	"pos/infras/nats"
	"pos/shared/metrics"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DriverKafka = "kafka"
	DriverNATS  = "nats"
	DriverBoth  = "both"
	DriverNone  = "none"

	defaultQueueSize = 256
	publishTimeout   = 5 * time.Second
)

type emitterImpl struct {
	queue  chan Event
	sinks  []Sink
	mu     sync.RWMutex
	closed bool
	start  sync.Once
	wg     sync.WaitGroup
}

// NewEmitter builds an emitter over the given sinks. A queue size below one uses the default.
func NewEmitter(queueSize int, sinks ...Sink) Emitter {
	if queueSize < 1 {
		queueSize = defaultQueueSize
	}

	return &emitterImpl{
		queue: make(chan Event, queueSize),
		sinks: sinks,
	}
}

// NewFromConfig selects sinks from cfg.Events.Driver. A sink that cannot be created is skipped.
func NewFromConfig(cfg *config.Config) Emitter {
	sinks := []Sink{}
	driver := cfg.Events.Driver

	if driver == DriverKafka || driver == DriverBoth {
		sinks = append(sinks, NewKafkaSink(kafka.New(cfg), cfg.Kafka.Topic))
	}

	if driver == DriverNATS || driver == DriverBoth {
		publisher, err := nats.New(cfg)
		if err != nil {
			log.Error().Err(err).Msg("NATS sink disabled")
		} else {
			sinks = append(sinks, NewNATSSink(publisher, cfg.NATS.SubjectPrefix))
		}
	}

	log.Info().Str("driver", driver).Int("sinks", len(sinks)).Msg("Event emitter configured")

	return NewEmitter(cfg.Events.QueueSize, sinks...)
}

func (e *emitterImpl) Emit(_ context.Context, evt Event) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		metrics.EventsDropped.Inc()
		log.Warn().Str("type", evt.Type).Msg("event emitter closed, dropping event")

		return
	}

	select {
	case e.queue <- evt:
	default:
		metrics.EventsDropped.Inc()
		log.Warn().Str("type", evt.Type).Str("audience", string(evt.Audience)).Msg("event queue full, dropping event")
	}
}

// Start launches the delivery worker. Calling it more than once has no effect.
func (e *emitterImpl) Start(ctx context.Context) {
	e.start.Do(func() {
		e.wg.Add(1)

		go e.run(context.WithoutCancel(ctx))
	})
}

func (e *emitterImpl) run(ctx context.Context) {
	defer e.wg.Done()

	for evt := range e.queue {
		e.publish(ctx, evt)
	}
}

func (e *emitterImpl) publish(ctx context.Context, evt Event) {
	for _, sink := range e.sinks {
		c, cancel := context.WithTimeout(ctx, publishTimeout)
		err := sink.Publish(c, evt)

		cancel()
		metrics.RecordPublish(sink.Name(), err)

		if err != nil {
			log.Error().Err(err).Str("sink", sink.Name()).Str("type", evt.Type).Msg("failed to publish event")
		}
	}
}

// Close stops accepting events, delivers what is queued and closes the sinks.
func (e *emitterImpl) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()

		return
	}

	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	e.start.Do(func() {
		for evt := range e.queue {
			e.publish(context.Background(), evt)
		}
	})
	e.wg.Wait()

	for _, sink := range e.sinks {
		if closer, ok := sink.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				log.Error().Err(err).Str("sink", sink.Name()).Msg("failed to close sink")
			}
		}
	}
}
