package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/lovoo/goka"

	"github.com/elianismedina/partfinder/internal/core/domain"
	"github.com/elianismedina/partfinder/pkg/schema"
)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
		return
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// A clientEventCodec used for serde [schema.ClientEventV1]
type clientEventCodec struct {
	serde Serde
}

func newClientEventCodec(s Serde) clientEventCodec {
	return clientEventCodec{s}
}

func (c clientEventCodec) Encode(v any) ([]byte, error) {
	const op = "clientEventCodec.Encode"
	if _, ok := v.(schema.ClientEventV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c clientEventCodec) Decode(data []byte) (any, error) {
	const op = "clientEventCodec.Decode"
	var s schema.ClientEventV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, err
}

// A cartAddsValue represents the cart additions count
// for a particular part.
type cartAddsValue int64

// A cartAddsCodec used for serde [cartAddsValue]
type cartAddsCodec struct{}

func (cartAddsCodec) Encode(v any) ([]byte, error) {
	const op = "cartAddsCodec.Encode"
	cv, ok := v.(cartAddsValue)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	data := strconv.AppendInt([]byte(nil), int64(cv), 10)
	return data, nil
}

func (cartAddsCodec) Decode(data []byte) (any, error) {
	const op = "cartAddsCodec.Decode"
	cv, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return cartAddsValue(cv), nil
}

// A PartPopularityProcessor counts cart additions per part
// from the events stream into a group table.
type PartPopularityProcessor struct {
	opPrefix string
	proc     processor
}

func NewPartPopularityProc(
	seedBrokers []string,
	inputStream string,
	groupTable string,
	clientEventSerde Serde,
) (*PartPopularityProcessor, error) {
	const op = "NewPartPopularityProc"

	var p PartPopularityProcessor
	p.opPrefix = "PartPopularityProcessor"

	gg := goka.DefineGroup(goka.Group(groupTable),
		goka.Input(
			goka.Stream(inputStream),
			newClientEventCodec(clientEventSerde),
			p.processFn,
		),
		goka.Persist(cartAddsCodec{}),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{
		opPrefix: p.opPrefix,
		gp:       gp,
	}

	return &p, nil
}

func (p *PartPopularityProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *PartPopularityProcessor) Close() {
	p.proc.close()
}

func (p *PartPopularityProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"
	log := slog.With("op", makeOp(p.opPrefix, op))

	event, _ := msg.(schema.ClientEventV1)
	if event.EventType != string(domain.EventCartAdd) || event.PartID == "" {
		return
	}

	var count cartAddsValue
	if v, ok := ctx.Value().(cartAddsValue); ok {
		count = v
	}
	count++
	ctx.SetValue(count)
	log.Info(
		"counted cart addition",
		"partID", event.PartID,
		"cartAdds", count,
	)
}
