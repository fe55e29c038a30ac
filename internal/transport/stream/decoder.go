// Package stream manages the chat streaming lifecycle: an incremental SSE
// decoder and a state machine enforcing single-flight and terminal-callback
// guarantees.
package stream

import (
	"bytes"
	"encoding/json"
	"io"
)

// EventType discriminates the events a chat stream carries.
type EventType string

// Stream event types.
const (
	EventStart    EventType = "start"
	EventToken    EventType = "token"
	EventComplete EventType = "complete"
	EventError    EventType = "error"
)

// Event is one decoded stream event.
type Event struct {
	Type      EventType `json:"type"`
	Token     string    `json:"token,omitempty"`
	Response  string    `json:"response,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	Message   string    `json:"message,omitempty"`
}

var dataPrefix = []byte("data:")

// Decoder incrementally decodes a line-oriented event stream. Bytes are
// read in chunks; a partial line at a chunk boundary is buffered until its
// remainder arrives, so an event split across two reads still decodes as
// exactly one event. Lines that are not well-formed data events are
// skipped without terminating the stream.
type Decoder struct {
	r       io.Reader
	chunk   []byte
	carry   []byte
	pending [][]byte
	eof     bool
}

// NewDecoder wraps a stream body.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, chunk: make([]byte, 4096)}
}

// Next returns the next decoded event. io.EOF signals a cleanly exhausted
// stream; any other error is a fatal transport-level read failure.
func (d *Decoder) Next() (Event, error) {
	for {
		for len(d.pending) > 0 {
			line := d.pending[0]
			d.pending = d.pending[1:]
			if ev, ok := parseLine(line); ok {
				return ev, nil
			}
		}

		if d.eof {
			return Event{}, io.EOF
		}
		if err := d.fill(); err != nil {
			return Event{}, err
		}
	}
}

// fill reads one chunk and splits completed lines into pending. The final
// fragment without a newline stays in carry for the next read.
func (d *Decoder) fill() error {
	n, err := d.r.Read(d.chunk)
	if n > 0 {
		d.carry = append(d.carry, d.chunk[:n]...)
		for {
			idx := bytes.IndexByte(d.carry, '\n')
			if idx < 0 {
				break
			}
			line := make([]byte, idx)
			copy(line, d.carry[:idx])
			d.carry = d.carry[idx+1:]
			d.pending = append(d.pending, line)
		}
	}
	if err == io.EOF {
		if len(d.carry) > 0 {
			d.pending = append(d.pending, d.carry)
			d.carry = nil
		}
		d.eof = true
		return nil
	}
	return err
}

// parseLine decodes one line into an event. Blank lines, comments, lines
// without the data prefix, unparsable payloads, and unknown event types
// all report ok=false and are skipped by the caller.
func parseLine(line []byte) (Event, bool) {
	line = bytes.TrimRight(line, "\r")
	if !bytes.HasPrefix(line, dataPrefix) {
		return Event{}, false
	}
	payload := bytes.TrimSpace(line[len(dataPrefix):])
	if len(payload) == 0 {
		return Event{}, false
	}

	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, false
	}
	switch ev.Type {
	case EventStart, EventToken, EventComplete, EventError:
		return ev, true
	default:
		return Event{}, false
	}
}
