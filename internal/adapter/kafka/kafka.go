package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/lovoo/goka"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/elianismedina/partfinder/internal/core/domain"
	"github.com/elianismedina/partfinder/internal/core/port"
	"github.com/elianismedina/partfinder/pkg/schema"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type ConsumerClient interface {
	PollFetches(context.Context) kgo.Fetches
	CommitUncommittedOffsets(context.Context) error
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, tlsCfg *tls.Config,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kgoOpts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.AllowAutoTopicCreation(),
		}
		if tlsCfg != nil {
			kgoOpts = append(kgoOpts, kgo.DialTLSConfig(tlsCfg))
		}

		cl, err := kgo.NewClient(kgoOpts...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			return err
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ConsumerOpt func(*consumerOpts) error

type consumerOpts struct {
	cl       ConsumerClient
	decoder  Decoder
	archiver port.ClientEventsArchiver
}

func (co *consumerOpts) apply(opts ...ConsumerOpt) error {
	for _, opt := range opts {
		if err := opt(co); err != nil {
			return err
		}
	}
	return nil
}

func ConsumerClientOpt(
	seedBrokers []string, topic, group string, tlsCfg *tls.Config,
) ConsumerOpt {
	return func(co *consumerOpts) error {
		kgoOpts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.ConsumeTopics(topic),
			kgo.ConsumerGroup(group),
			kgo.DisableAutoCommit(),
		}
		if tlsCfg != nil {
			kgoOpts = append(kgoOpts, kgo.DialTLSConfig(tlsCfg))
		}

		cl, err := kgo.NewClient(kgoOpts...)
		if err != nil {
			return err
		}
		co.cl = cl
		return nil
	}
}

func ConsumerDecoderOpt(decoder Decoder) ConsumerOpt {
	return func(co *consumerOpts) error {
		if decoder == nil {
			return errors.New("decoder is nil")
		}
		co.decoder = decoder
		return nil
	}
}

func ConsumerArchiverOpt(a port.ClientEventsArchiver) ConsumerOpt {
	return func(co *consumerOpts) error {
		if a == nil {
			return errors.New("events archiver is nil")
		}
		co.archiver = a
		return nil
	}
}

func withNonlogProcOpt() goka.ProcessorOption {
	return goka.WithLogger(log.New(io.Discard, "", 0))
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func clientEventToSchemaV1(v domain.ClientEvent) (s schema.ClientEventV1) {
	s.SessionID = v.SessionID
	s.EventType = string(v.EventType)
	s.VehicleID = v.VehicleID
	s.PartID = v.PartID
	s.Query = v.Query
	s.Category = v.Category
	s.OccurredAt = v.OccurredAt.Truncate(time.Millisecond)
	return
}

func schemaV1ToClientEvent(s schema.ClientEventV1) (v domain.ClientEvent) {
	v.SessionID = s.SessionID
	v.EventType = domain.ClientEventType(s.EventType)
	v.VehicleID = s.VehicleID
	v.PartID = s.PartID
	v.Query = s.Query
	v.Category = s.Category
	v.OccurredAt = s.OccurredAt
	return
}
