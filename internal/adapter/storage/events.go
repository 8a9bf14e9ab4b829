package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/colinmarc/hdfs/v2"

	"github.com/elianismedina/partfinder/internal/core/domain"
	"github.com/elianismedina/partfinder/internal/core/port"
	"github.com/elianismedina/partfinder/pkg/retry"
)

var _ port.ClientEventsArchiver = (*ClientEventsArchive)(nil)

type hdfsStorage interface {
	Append(name string) (*hdfs.FileWriter, error)
	Create(name string) (*hdfs.FileWriter, error)
	MkdirAll(dirname string, perm fs.FileMode) error
}

type clientEvent struct {
	SessionID  string    `json:"session_id"`
	EventType  string    `json:"event_type"`
	VehicleID  string    `json:"vehicle_id,omitempty"`
	PartID     string    `json:"part_id,omitempty"`
	Query      string    `json:"query,omitempty"`
	Category   string    `json:"category,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// A ClientEventsArchive appends session events to HDFS, one newline
// delimited JSON file per session, for batch analysis.
type ClientEventsArchive struct {
	hdfs hdfsStorage
	dir  string
}

func NewClientEventsArchive(hdfs hdfsStorage, dir string) ClientEventsArchive {
	return ClientEventsArchive{hdfs, dir}
}

func (r ClientEventsArchive) ArchiveEvents(
	ctx context.Context, sessionID string, evts []domain.ClientEvent,
) error {
	const op = "ClientEventsArchive.ArchiveEvents"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	w, err := r.createWriter(r.fileName(sessionID))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.saveEvents(w, evts); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.closeWriter(ctx, w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r ClientEventsArchive) fileName(sessionID string) string {
	return path.Join(r.dir, sessionID+".jsonl")
}

func (r ClientEventsArchive) createWriter(filepath string) (io.WriteCloser, error) {
	w, err := r.hdfs.Append(filepath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if err := r.hdfs.MkdirAll(r.dir, 0o755); err != nil {
			return nil, err
		}
		w, err = r.hdfs.Create(filepath)
		if err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (r ClientEventsArchive) saveEvents(
	w io.WriteCloser, evts []domain.ClientEvent,
) error {
	enc := json.NewEncoder(w)
	for _, evt := range evts {
		if err := enc.Encode(r.toWire(evt)); err != nil {
			return err
		}
	}
	return nil
}

// closeWriter retries the close while the namenode is still
// replicating the last block.
func (r ClientEventsArchive) closeWriter(ctx context.Context, w io.WriteCloser) error {
	retryCfg := retry.RetryConfig{
		MaxAttempts: 5,
		Backoff:     retry.LineareBackoff(50 * time.Millisecond),
		ShouldRetry: func(err error) bool {
			return errors.Is(err, hdfs.ErrReplicating)
		},
	}

	return retry.Do(ctx, retryCfg, w.Close)
}

func (r ClientEventsArchive) toWire(evt domain.ClientEvent) clientEvent {
	return clientEvent{
		SessionID:  evt.SessionID,
		EventType:  string(evt.EventType),
		VehicleID:  evt.VehicleID,
		PartID:     evt.PartID,
		Query:      evt.Query,
		Category:   evt.Category,
		OccurredAt: evt.OccurredAt,
	}
}
