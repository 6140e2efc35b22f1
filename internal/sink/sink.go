// Package sink writes batches of lines produced by the rxbuf command.
package sink

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Sink stores one batch at a time. A batch is either stored completely or not at all.
type Sink interface {
	Write(ctx context.Context, batch []string) error
	Close() error
}

// record is the JSON shape of a batch written by [JSON].
type record struct {
	RunID     string    `json:"run_id"`
	Size      int       `json:"size"`
	Lines     []string  `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
}

// JSON writes every batch as a single line of JSON.
type JSON struct {
	runID string

	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSON(w io.Writer, runID string) *JSON {
	return &JSON{runID: runID, enc: json.NewEncoder(w)}
}

func (s *JSON) Write(ctx context.Context, batch []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.enc.Encode(record{
		RunID:     s.runID,
		Size:      len(batch),
		Lines:     batch,
		CreatedAt: time.Now().UTC(),
	})
	return errors.Wrap(err, "encode batch")
}

func (s *JSON) Close() error {
	return nil
}
