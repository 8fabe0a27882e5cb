package application

import (
	"testing"
	"time"

	"github.com/bnema/pocketbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingRegistryRegisterOverwritesAndTakeRemoves(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	registry := NewPendingRegistry(time.Minute, clock)

	registry.Register(domain.PendingAuthorization{Identity: "alice", ResumeToken: "tok-1", Kind: domain.ResumeKindLogin, RequestCode: "first"})
	registry.Register(domain.PendingAuthorization{Identity: "alice", ResumeToken: "tok-2", Kind: domain.ResumeKindLogin, RequestCode: "second"})
	require.Len(t, registry.Pending(), 1)

	_, ok := registry.Take("alice", "tok-1")
	assert.False(t, ok, "the overwritten login must not resume")

	pending, ok := registry.Take("alice", "tok-2")
	require.True(t, ok)
	assert.Equal(t, "second", pending.RequestCode)
	assert.Equal(t, clock.Now(), pending.CreatedAt)

	_, ok = registry.Take("alice", "tok-2")
	assert.False(t, ok)
}

func TestPendingRegistryAssignsResumeToken(t *testing.T) {
	t.Parallel()

	registry := NewPendingRegistry(time.Minute, newFakeClock())
	registry.Register(domain.PendingAuthorization{Identity: "alice", Kind: domain.ResumeKindLogin})

	snapshot := registry.Pending()
	require.Len(t, snapshot, 1)
	require.NotEmpty(t, snapshot[0].ResumeToken)

	_, ok := registry.Take("alice", snapshot[0].ResumeToken)
	assert.True(t, ok)
}

func TestPendingRegistryTakeRequiresMatchingToken(t *testing.T) {
	t.Parallel()

	registry := NewPendingRegistry(time.Minute, newFakeClock())
	registry.Register(domain.PendingAuthorization{Identity: "alice", ResumeToken: "tok-alice", Kind: domain.ResumeKindLogin})

	for _, token := range []string{"", "tok-bob", "tok-alicex"} {
		_, ok := registry.Take("alice", token)
		assert.False(t, ok, token)
	}
	require.Len(t, registry.Pending(), 1, "a wrong token leaves the login in place")

	_, ok := registry.Take("alice", "tok-alice")
	assert.True(t, ok)
}

func TestPendingRegistryTakeUnknownIdentity(t *testing.T) {
	t.Parallel()

	registry := NewPendingRegistry(time.Minute, nil)
	_, ok := registry.Take("nobody", "tok")
	assert.False(t, ok)
}

func TestPendingRegistryExpiry(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	registry := NewPendingRegistry(10*time.Minute, clock)
	registry.Register(domain.PendingAuthorization{Identity: "alice", ResumeToken: "tok-alice", Kind: domain.ResumeKindLogin})
	clock.Advance(5 * time.Minute)
	registry.Register(domain.PendingAuthorization{Identity: "bob", ResumeToken: "tok-bob", Kind: domain.ResumeKindLogin})
	clock.Advance(6 * time.Minute)

	expired := registry.Sweep(clock.Now())
	require.Len(t, expired, 1)
	assert.Equal(t, domain.Identity("alice"), expired[0].Identity)

	remaining := registry.Pending()
	require.Len(t, remaining, 1)
	assert.Equal(t, domain.Identity("bob"), remaining[0].Identity)

	clock.Advance(5 * time.Minute)
	_, ok := registry.Take("bob", "tok-bob")
	assert.False(t, ok, "expired record must not resume")
	assert.Empty(t, registry.Pending())
}

func TestPendingRegistryZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	registry := NewPendingRegistry(0, clock)
	registry.Register(domain.PendingAuthorization{Identity: "alice", ResumeToken: "tok-alice", Kind: domain.ResumeKindLogin})
	clock.Advance(365 * 24 * time.Hour)

	assert.Empty(t, registry.Sweep(clock.Now()))
	_, ok := registry.Take("alice", "tok-alice")
	assert.True(t, ok)
}

func TestPendingRegistrySnapshotIsOrdered(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	registry := NewPendingRegistry(time.Hour, clock)
	for _, identity := range []domain.Identity{"carol", "alice", "bob"} {
		registry.Register(domain.PendingAuthorization{Identity: identity, Kind: domain.ResumeKindLogin})
		clock.Advance(time.Second)
	}

	var order []domain.Identity
	for _, pending := range registry.Pending() {
		order = append(order, pending.Identity)
	}
	assert.Equal(t, []domain.Identity{"carol", "alice", "bob"}, order)
}
