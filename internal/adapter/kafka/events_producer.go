package kafka

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/elianismedina/partfinder/internal/core/domain"
	"github.com/elianismedina/partfinder/internal/core/port"
	"github.com/elianismedina/partfinder/pkg/schema"
)

var _ port.ClientEventsProducer = (*ClientEventsProducer)(nil)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(
	ctx context.Context, rs ...*kgo.Record,
) error {
	const op = "produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// A ClientEventsProducer publishes [domain.ClientEvent] values to the
// analytics stream. Records are keyed by [domain.ClientEvent.Key], so
// cart adds for one part land on one partition.
type ClientEventsProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewClientEventsProducer(
	opts ...ProducerOpt,
) (ClientEventsProducer, error) {
	const op = "NewClientEventsProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return ClientEventsProducer{}, opErr(err, op)
		}
	}

	opPrefix := "ClientEventsProducer"
	p := producer{
		opPrefix: opPrefix,
		cl:       options.cl,
	}

	return ClientEventsProducer{
		producer: p,
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p ClientEventsProducer) Close() {
	p.producer.close()
}

func (p ClientEventsProducer) ProduceEvent(
	ctx context.Context, evt domain.ClientEvent,
) error {
	const op = "ProduceEvent"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(evt)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, &r); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	return nil
}

func (p ClientEventsProducer) createRecord(
	evt domain.ClientEvent,
) (kgo.Record, error) {
	const op = "createRecord"

	s := p.toSchema(evt)
	b, err := p.encoder.Encode(s)
	if err != nil {
		return kgo.Record{}, opErr(err, p.opPrefix, op)
	}
	msgKey := []byte(evt.Key())
	return kgo.Record{Key: msgKey, Value: b}, nil
}

func (ClientEventsProducer) toSchema(v domain.ClientEvent) schema.ClientEventV1 {
	return clientEventToSchemaV1(v)
}
