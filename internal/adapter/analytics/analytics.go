package analytics

import (
	"context"
	"log/slog"

	"github.com/apache/spark-connect-go/v35/spark/sql"

	"github.com/elianismedina/partfinder/internal/core/domain"
)

// A SessionActivityAnalyzer runs batch aggregation over archived
// session event files through a spark connect server.
type SessionActivityAnalyzer struct {
	addr string
}

func NewSessionActivityAnalyzer(addr string) SessionActivityAnalyzer {
	return SessionActivityAnalyzer{addr}
}

// Do streams one [domain.SessionActivity] per source path.
// The channel is closed when all sources are processed or on failure.
func (a SessionActivityAnalyzer) Do(
	ctx context.Context, srcPaths []string,
) <-chan domain.SessionActivity {
	c := make(chan domain.SessionActivity, 1)
	go a.do(ctx, c, srcPaths)
	return c
}

func (a SessionActivityAnalyzer) do(
	ctx context.Context,
	stream chan<- domain.SessionActivity,
	srcPaths []string,
) {
	const op = "SessionActivityAnalyzer.do"
	log := slog.With("op", op)

	defer close(stream)

	if err := ctx.Err(); err != nil {
		return
	}

	s, err := sql.NewSessionBuilder().Remote(a.addr).Build(ctx)
	if err != nil {
		log.Error("failed to build session", "err", err)
		return
	}

	defer a.stop(s)

	for _, src := range srcPaths {
		df, err := s.Read().Format("json").Load(src)
		if err != nil {
			log.Error("failed to read source", "src", src)
			return
		}

		nEvents, err := df.Count(ctx)
		if err != nil {
			log.Error("failed to count dataframe rows", "err", err)
			return
		}

		row, err := df.First(ctx)
		if err != nil {
			log.Error("failed to get first row", "err", err)
			return
		}

		sessionID, ok := row.Value("session_id").(string)
		if !ok {
			log.Error("failed to assert session_id type: not string")
			return
		}

		stream <- domain.SessionActivity{
			SessionID: sessionID,
			Events:    int(nEvents),
		}
	}
}

func (a SessionActivityAnalyzer) stop(s sql.SparkSession) {
	const op = "SessionActivityAnalyzer.stop"
	log := slog.With("op", op)
	if err := s.Stop(); err != nil {
		log.Error("failed to stop session", "err", err)
	}
}
