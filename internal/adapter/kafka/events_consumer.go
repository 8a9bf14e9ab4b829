package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/elianismedina/partfinder/internal/core/domain"
	"github.com/elianismedina/partfinder/internal/core/port"
	"github.com/elianismedina/partfinder/pkg/schema"
)

// A consumer is used for composition.
//
// Fetching records from kafka broker and closing underlying [kgo.Client].

type consumerParent interface {
	processFetches(context.Context, kgo.Fetches) error
}

type consumer struct {
	opPrefix      string
	parent        consumerParent
	cl            ConsumerClient
	slowDownTimer *time.Timer
}

func (c consumer) run(ctx context.Context) {
	const op = "run"
	log := slog.With("op", makeOp(c.opPrefix, op))

	log.Info("running")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			err := c.consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				log.Error("failed to consume", "err", err)
				c.slowDown()
			}
		}
	}
}

func (c consumer) consume(ctx context.Context) error {
	const op = "consume"

	fetches, err := c.pollFetches(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	if fetches.Empty() {
		return nil
	}

	err = c.parent.processFetches(ctx, fetches)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	err = c.commit(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}

func (c consumer) pollFetches(ctx context.Context) (kgo.Fetches, error) {
	const op = "pollFetches"

	fetches := c.cl.PollFetches(ctx)
	if err := fetches.Err0(); err != nil {
		return nil, opErr(err, c.opPrefix, op)
	}

	err := c.handleFetchesErrs(fetches)
	if err != nil {
		return nil, opErr(err, c.opPrefix, op)
	}

	return fetches, nil
}

func (c consumer) handleFetchesErrs(fetches kgo.Fetches) error {
	var errsMessages []string
	fetches.EachError(func(t string, p int32, err error) {
		if err != nil {
			errMsg := fmt.Sprintf(
				"topic %q partition %d: %q", t, p, err,
			)
			errsMessages = append(errsMessages, errMsg)
		}
	})

	if len(errsMessages) != 0 {
		return errors.New(strings.Join(errsMessages, "; "))
	}
	return nil
}

func (c consumer) slowDown() {
	c.slowDownTimer.Reset(1 * time.Second)
	<-c.slowDownTimer.C
}

func (c consumer) commit(ctx context.Context) error {
	const op = "commit"

	err := ctx.Err()
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	err = c.cl.CommitUncommittedOffsets(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}

func (c consumer) close() {
	const op = "close"
	log := slog.With("op", makeOp(c.opPrefix, op))

	c.slowDownTimer.Stop()

	log.Info("closing consumer...")
	c.cl.Close()
	log.Info("consumer is closed")
}

// A ClientEventsConsumer consumes session events from the analytics
// stream and hands them, batched per session, to the archiver.
type ClientEventsConsumer struct {
	opPrefix string
	consumer consumer
	archiver port.ClientEventsArchiver
	decoder  Decoder
}

func NewClientEventsConsumer(
	opts ...ConsumerOpt,
) (cc ClientEventsConsumer, err error) {
	const op = "NewClientEventsConsumer"

	var options consumerOpts
	if err := options.apply(opts...); err != nil {
		return cc, opErr(err, op)
	}

	opPrefix := "ClientEventsConsumer"

	cc.opPrefix = opPrefix
	cc.archiver = options.archiver
	cc.decoder = options.decoder

	cc.consumer = consumer{
		opPrefix:      opPrefix,
		parent:        cc,
		cl:            options.cl,
		slowDownTimer: time.NewTimer(0),
	}

	return cc, nil
}

func (c ClientEventsConsumer) Run(ctx context.Context) {
	c.consumer.run(ctx)
}

func (c ClientEventsConsumer) Close() {
	c.consumer.close()
}

func (c ClientEventsConsumer) processFetches(
	ctx context.Context, fetches kgo.Fetches,
) error {
	const op = "processFetches"

	bySession := c.groupBySession(fetches)
	if len(bySession) == 0 {
		return nil
	}

	for sessionID, evts := range bySession {
		err := c.archiver.ArchiveEvents(ctx, sessionID, evts)
		if err != nil {
			return opErr(err, c.opPrefix, op)
		}
	}
	return nil
}

func (c ClientEventsConsumer) groupBySession(
	fetches kgo.Fetches,
) map[string][]domain.ClientEvent {
	const op = "groupBySession"
	log := slog.With("op", makeOp(c.opPrefix, op))

	bySession := make(map[string][]domain.ClientEvent)
	fetches.EachRecord(func(r *kgo.Record) {
		v, err := c.decodeRecValue(r)
		if err != nil {
			log.Error(
				"failed to decode value",
				"err", opErr(err, c.opPrefix, op),
			)
			return
		}
		bySession[v.SessionID] = append(bySession[v.SessionID], v)
	})
	return bySession
}

func (c ClientEventsConsumer) decodeRecValue(
	r *kgo.Record,
) (domain.ClientEvent, error) {
	var s schema.ClientEventV1
	err := c.decoder.Decode(r.Value, &s)
	if err != nil {
		return domain.ClientEvent{}, err
	}
	return schemaV1ToClientEvent(s), nil
}
