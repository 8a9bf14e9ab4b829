package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lovoo/goka"

	"github.com/elianismedina/partfinder/internal/core/port"
)

var _ port.PartPopularity = (*PartPopularityView)(nil)

// A PartPopularityView reads the cart additions group table.
type PartPopularityView struct {
	gv *goka.View
}

func NewPartPopularityView(
	seedBrokers []string, groupTable string,
) (PartPopularityView, error) {
	const op = "NewPartPopularityView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(groupTable)),
		cartAddsCodec{},
	)
	if err != nil {
		return PartPopularityView{}, opErr(err, op)
	}

	return PartPopularityView{gv}, nil
}

func (v PartPopularityView) Run(ctx context.Context) {
	const op = "PartPopularityView.Run"
	log := slog.With("op", op)

	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
	}
}

func (v PartPopularityView) CartAdds(partID string) (int64, error) {
	const op = "PartPopularityView.CartAdds"

	value, err := v.gv.Get(partID)
	if err != nil {
		return 0, opErr(err, op)
	}

	if value == nil {
		return 0, nil
	}

	count, ok := value.(cartAddsValue)
	if !ok {
		return 0, opErr(
			fmt.Errorf("%w: %T", ErrInvalidValueType, value), op,
		)
	}
	return int64(count), nil
}
