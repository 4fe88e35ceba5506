// Package stream emits the two-phase NDJSON audit response: a metrics
// record first, then exactly one narrative or error record. The ordering
// is part of the public contract — consumers render gauges from the
// metrics line before the narrative arrives.
package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/landalytics/pageaudit/internal/audit"
	"github.com/landalytics/pageaudit/internal/narrative"
)

type state int

const (
	stateStart state = iota
	stateMetricsEmitted
	stateNarrativeEmitted
	stateNarrativeDegraded
)

// degradedMsg deliberately carries no internal detail.
const degradedMsg = "Analysis failed. Please try again."

// Streamer writes NDJSON records and enforces the emission order:
// metrics exactly once, then exactly one terminal record.
type Streamer struct {
	enc     *json.Encoder
	flusher http.Flusher
	state   state
}

// New wraps a response writer. When w supports http.Flusher each record
// is flushed immediately so the client sees metrics without buffering.
func New(w io.Writer) *Streamer {
	s := &Streamer{enc: json.NewEncoder(w)}
	if f, ok := w.(http.Flusher); ok {
		s.flusher = f
	}
	return s
}

type metricsRecord struct {
	Type   string         `json:"type"`
	Scores audit.ScoreSet `json:"scores"`
}

type narrativeRecord struct {
	Type string `json:"type"`
	narrative.Narrative
}

type errorRecord struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

// EmitMetrics writes the metrics record. Must be the first emission.
func (s *Streamer) EmitMetrics(scores audit.ScoreSet) error {
	if s.state != stateStart {
		return fmt.Errorf("metrics already emitted")
	}
	if err := s.write(metricsRecord{Type: "metrics", Scores: scores}); err != nil {
		return err
	}
	s.state = stateMetricsEmitted
	return nil
}

// EmitNarrative writes the ai_narrative record, terminating the stream
// in success.
func (s *Streamer) EmitNarrative(n *narrative.Narrative) error {
	if s.state != stateMetricsEmitted {
		return fmt.Errorf("narrative emission requires metrics first")
	}
	if n == nil {
		return s.EmitDegraded()
	}
	if err := s.write(narrativeRecord{Type: "ai_narrative", Narrative: *n}); err != nil {
		return err
	}
	s.state = stateNarrativeEmitted
	return nil
}

// EmitDegraded writes the error record, terminating the stream with a
// degraded-service signal. The already-emitted metrics remain valid.
func (s *Streamer) EmitDegraded() error {
	if s.state != stateMetricsEmitted {
		return fmt.Errorf("degraded emission requires metrics first")
	}
	if err := s.write(errorRecord{Type: "error", Msg: degradedMsg}); err != nil {
		return err
	}
	s.state = stateNarrativeDegraded
	return nil
}

func (s *Streamer) write(record any) error {
	if err := s.enc.Encode(record); err != nil {
		return fmt.Errorf("encode stream record: %w", err)
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}
