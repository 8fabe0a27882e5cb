package sse

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/bnema/pocketbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStream = ":thump\n" +
	"event: conversation\n" +
	"data: {\"id\":\"1\",\"last_status\":{\"content\":\"<p>ciao 👋 à bientôt</p>\"}}\n" +
	"\n" +
	":)\n" +
	"event: notification\n" +
	"data: {\"id\":\"2\",\"type\":\"mention\"}\n" +
	"\n" +
	"event: delete\r\n" +
	"data: 103270987534983\r\n" +
	"\r\n"

func collect(t *testing.T, chunks ...[]byte) ([]domain.StreamEvent, error) {
	t.Helper()

	var events []domain.StreamEvent
	parser := NewParser(func(ev domain.StreamEvent) {
		events = append(events, ev)
	})

	var errs []error
	for _, chunk := range chunks {
		if err := parser.Feed(chunk); err != nil {
			errs = append(errs, err)
		}
	}
	return events, errors.Join(errs...)
}

func TestParserEmitsEventsInArrivalOrder(t *testing.T) {
	t.Parallel()

	events, err := collect(t, []byte(sampleStream))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, domain.EventConversation, events[0].Kind)
	assert.JSONEq(t, `{"id":"1","last_status":{"content":"<p>ciao 👋 à bientôt</p>"}}`, string(events[0].Payload))
	assert.Equal(t, domain.EventNotification, events[1].Kind)
	assert.JSONEq(t, `{"id":"2","type":"mention"}`, string(events[1].Payload))
	assert.Equal(t, "delete", events[2].Kind)
	assert.Equal(t, "103270987534983", string(events[2].Payload))
}

func TestParserIsInvariantToChunkBoundaries(t *testing.T) {
	t.Parallel()

	whole, err := collect(t, []byte(sampleStream))
	require.NoError(t, err)

	raw := []byte(sampleStream)
	for split := 0; split <= len(raw); split++ {
		got, err := collect(t, raw[:split], raw[split:])
		require.NoError(t, err, "split at %d", split)
		require.Equal(t, whole, got, "split at %d", split)
	}

	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		var chunks [][]byte
		rest := raw
		for len(rest) > 0 {
			n := 1 + rng.Intn(7)
			if n > len(rest) {
				n = len(rest)
			}
			chunks = append(chunks, rest[:n])
			rest = rest[n:]
		}

		got, err := collect(t, chunks...)
		require.NoError(t, err, "round %d", round)
		require.Equal(t, whole, got, "round %d", round)
	}
}

func TestParserBytewiseFeedKeepsMultibyteRunesIntact(t *testing.T) {
	t.Parallel()

	raw := []byte(sampleStream)
	chunks := make([][]byte, 0, len(raw))
	for i := range raw {
		chunks = append(chunks, raw[i:i+1])
	}

	events, err := collect(t, chunks...)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Contains(t, string(events[0].Payload), "👋 à bientôt")
}

func TestParserIgnoresCommentLinesEverywhere(t *testing.T) {
	t.Parallel()

	stream := ":keepalive\n:\n" +
		"event: conversation\n" +
		":data: {\"ignored\":true}\n" +
		"data: {}\n" +
		":event: notification\n\n"

	events, err := collect(t, []byte(stream))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventConversation, events[0].Kind)
}

func TestParserDropsDataWithoutEvent(t *testing.T) {
	t.Parallel()

	stream := "data: {\"id\":\"lost\"}\n\nevent: conversation\ndata: {\"id\":\"kept\"}\n"

	events, err := collect(t, []byte(stream))
	require.ErrorIs(t, err, ErrOrphanData)
	require.Len(t, events, 1)
	assert.JSONEq(t, `{"id":"kept"}`, string(events[0].Payload))
}

func TestParserBlankLineEndsFrame(t *testing.T) {
	t.Parallel()

	stream := "event: conversation\ndata: {}\n\ndata: {}\n"

	events, err := collect(t, []byte(stream))
	require.ErrorIs(t, err, ErrOrphanData)
	assert.Len(t, events, 1)
}

func TestParserSkipsInvalidJSONAndContinues(t *testing.T) {
	t.Parallel()

	stream := "event: conversation\ndata: {not json\n\nevent: notification\ndata: {\"ok\":true}\n"

	events, err := collect(t, []byte(stream))
	require.Error(t, err)

	var payloadErr *PayloadError
	require.ErrorAs(t, err, &payloadErr)
	assert.Equal(t, domain.EventConversation, payloadErr.Event)

	require.Len(t, events, 1)
	assert.Equal(t, domain.EventNotification, events[0].Kind)
}

func TestParserHoldsPartialLineUntilTerminated(t *testing.T) {
	t.Parallel()

	var events []domain.StreamEvent
	parser := NewParser(func(ev domain.StreamEvent) { events = append(events, ev) })

	require.NoError(t, parser.Feed([]byte("event: conversation\ndata: {\"id\":")))
	assert.Empty(t, events)
	assert.Equal(t, len(`data: {"id":`), parser.Buffered())

	require.NoError(t, parser.Feed([]byte("\"9\"}\n")))
	require.Len(t, events, 1)
	assert.Zero(t, parser.Buffered())
}

func TestParserResetsOnOverlongLine(t *testing.T) {
	t.Parallel()

	var events []domain.StreamEvent
	parser := NewParser(func(ev domain.StreamEvent) { events = append(events, ev) })

	err := parser.Feed([]byte("event: conversation\ndata: " + strings.Repeat("x", MaxLineBytes)))
	require.ErrorIs(t, err, ErrLineTooLong)
	assert.Zero(t, parser.Buffered())

	require.NoError(t, parser.Feed([]byte("event: conversation\ndata: {}\n")))
	assert.Len(t, events, 1)
}
