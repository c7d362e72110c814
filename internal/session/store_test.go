package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorePutGet(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	sess := New("sid-1", time.Hour)
	store.Put(sess)

	got, ok := store.Get("sid-1")
	require.True(t, ok)
	assert.Equal(t, "sid-1", got.ID)
}

func TestMemoryStoreRemove(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	store.Put(New("sid-1", time.Hour))
	store.Remove("sid-1")

	_, ok := store.Get("sid-1")
	assert.False(t, ok)

	// Removing an absent id is a no-op.
	store.Remove("sid-1")
}

func TestMemoryStoreIsolation(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	store.Put(New("sid-1", time.Hour))
	store.Put(New("sid-2", time.Hour))
	store.Remove("sid-1")

	_, ok := store.Get("sid-1")
	assert.False(t, ok)
	_, ok = store.Get("sid-2")
	assert.True(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	sess := New("sid-1", -time.Second)
	store.Put(sess)

	_, ok := store.Get("sid-1")
	assert.False(t, ok, "expired session must not be returned")
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	sess := New("sid-1", time.Hour)
	store.Put(sess)

	// Mutating the caller's session after Put must not reach the store.
	sess.Touch(-time.Second)
	got, ok := store.Get("sid-1")
	require.True(t, ok)
	assert.False(t, got.IsExpired())

	// Mutating a Get result must not reach the store either.
	got.Touch(-time.Second)
	again, ok := store.Get("sid-1")
	require.True(t, ok)
	assert.False(t, again.IsExpired())
}

func TestSessionTouch(t *testing.T) {
	sess := New("sid-1", -time.Second)
	require.True(t, sess.IsExpired())

	sess.Touch(time.Hour)
	assert.False(t, sess.IsExpired())
}
