// Package sse turns a chunked server-push byte stream into discrete named events.
package sse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/pocketbot/internal/domain"
)

// MaxLineBytes bounds a single unterminated line held in the buffer.
const MaxLineBytes = 1 << 20

var (
	ErrOrphanData  = errors.New("data line without a preceding event line")
	ErrLineTooLong = errors.New("stream line exceeds maximum length")
)

var (
	prefixComment = []byte(":")
	prefixEvent   = []byte("event:")
	prefixData    = []byte("data:")
)

// PayloadError reports a data line whose remainder is not valid JSON. The line is dropped.
type PayloadError struct {
	Event string
	Data  string
}

func (e *PayloadError) Error() string {
	data := e.Data
	if len(data) > 64 {
		data = data[:64] + "..."
	}
	return fmt.Sprintf("invalid json payload for event %q: %s", e.Event, data)
}

// Parser is a push-based line decoder for one stream connection. It is not safe
// for concurrent use; each connection owns its own Parser.
type Parser struct {
	handle  func(domain.StreamEvent)
	buf     []byte
	pending string
}

func NewParser(handle func(domain.StreamEvent)) *Parser {
	if handle == nil {
		handle = func(domain.StreamEvent) {}
	}
	return &Parser{handle: handle}
}

// Feed appends chunk to the buffer and processes every complete line in it.
// Events are delivered in arrival order. Malformed lines are dropped and
// reported in the returned error; the remaining lines are still processed.
func (p *Parser) Feed(chunk []byte) error {
	p.buf = append(p.buf, chunk...)

	var errs []error
	for {
		idx := bytes.IndexByte(p.buf, '\n')
		if idx < 0 {
			break
		}
		line := p.buf[:idx]
		if err := p.processLine(bytes.TrimSuffix(line, []byte("\r"))); err != nil {
			errs = append(errs, err)
		}
		p.buf = p.buf[idx+1:]
	}

	if len(p.buf) > MaxLineBytes {
		p.buf = nil
		p.pending = ""
		errs = append(errs, ErrLineTooLong)
	}

	// Reclaim the consumed prefix so a long-lived connection does not pin old chunks.
	if len(p.buf) == 0 {
		p.buf = nil
	}

	return errors.Join(errs...)
}

// Buffered returns the number of bytes held for an incomplete line.
func (p *Parser) Buffered() int {
	return len(p.buf)
}

func (p *Parser) processLine(line []byte) error {
	switch {
	case len(line) == 0:
		p.pending = ""
		return nil
	case bytes.HasPrefix(line, prefixComment):
		return nil
	case bytes.HasPrefix(line, prefixEvent):
		p.pending = string(bytes.TrimSpace(line[len(prefixEvent):]))
		return nil
	case bytes.HasPrefix(line, prefixData):
		return p.processData(bytes.TrimSpace(line[len(prefixData):]))
	default:
		return nil
	}
}

func (p *Parser) processData(data []byte) error {
	if p.pending == "" {
		return ErrOrphanData
	}
	if !json.Valid(data) {
		return &PayloadError{Event: p.pending, Data: string(data)}
	}

	payload := make(json.RawMessage, len(data))
	copy(payload, data)
	p.handle(domain.StreamEvent{Kind: p.pending, Payload: payload})
	return nil
}
