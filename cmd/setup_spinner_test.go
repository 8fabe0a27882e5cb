package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedirectWaitShowsURIAndCountdown(t *testing.T) {
	t.Parallel()

	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newRedirectWaitModel("Pocket", "http://localhost:8000", started, 5*time.Minute, nil)
	assert.Contains(t, m.View(), "Waiting for Pocket to redirect to")
	assert.Contains(t, m.View(), "http://localhost:8000")
	assert.Contains(t, m.View(), "(5m0s left)")

	next, _ := m.Update(spinner.TickMsg{Time: started.Add(75*time.Second + 400*time.Millisecond)})
	m = next.(redirectWaitModel)
	assert.Contains(t, m.View(), "(3m44s left)")

	next, _ = m.Update(spinner.TickMsg{Time: started.Add(10 * time.Minute)})
	m = next.(redirectWaitModel)
	assert.Contains(t, m.View(), "(0s left)")
}

func TestRedirectWaitQuitsWithWaitResult(t *testing.T) {
	t.Parallel()

	m := newRedirectWaitModel("Pocket", "http://localhost:8000", time.Now(), time.Minute, nil)
	next, cmd := m.Update(redirectDoneMsg{err: errors.New("listener closed")})
	m = next.(redirectWaitModel)

	require.NotNil(t, cmd)
	assert.True(t, m.done)
	assert.EqualError(t, m.err, "listener closed")
	assert.Empty(t, m.View())
}
