package link

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestInterface_FIFO(t *testing.T) {
	i := NewInterface(0)
	_, ok := i.Get(In)
	assert.False(t, ok)

	for n := range 3 {
		require.NoError(t, i.Put([]byte(fmt.Sprint(n)), In, false))
	}
	require.NoError(t, i.Put([]byte("out"), Out, false))
	assert.Equal(t, 3, i.Len(In))
	assert.Equal(t, 1, i.Len(Out))

	for n := range 3 {
		pkt, ok := i.Get(In)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprint(n), string(pkt))
	}
	_, ok = i.Get(In)
	assert.False(t, ok)

	pkt, ok := i.Get(Out)
	require.True(t, ok)
	assert.Equal(t, "out", string(pkt))
}

func TestInterface_Unbounded(t *testing.T) {
	i := NewInterface(0)
	for range 10000 {
		require.NoError(t, i.Put([]byte("x"), Out, false))
	}
	assert.Equal(t, 10000, i.Len(Out))
}

func TestInterface_NonBlockingFull(t *testing.T) {
	i := NewInterface(2)
	require.NoError(t, i.Put([]byte("a"), Out, false))
	require.NoError(t, i.Put([]byte("b"), Out, false))

	start := time.Now()
	err := i.Put([]byte("c"), Out, false)
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, 2, i.Len(Out))

	// the other direction has its own bound
	require.NoError(t, i.Put([]byte("in"), In, false))
}

func TestInterface_BlockingWaitsForSpace(t *testing.T) {
	defer goleak.VerifyNone(t)

	i := NewInterface(1)
	require.NoError(t, i.Put([]byte("a"), Out, true))

	done := make(chan error)
	go func() {
		done <- i.Put([]byte("b"), Out, true)
	}()

	select {
	case <-done:
		t.Fatal("blocking put returned while the queue was full")
	case <-time.After(50 * time.Millisecond):
	}

	pkt, ok := i.Get(Out)
	require.True(t, ok)
	assert.Equal(t, "a", string(pkt))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("blocking put did not resume after space was freed")
	}
	pkt, ok = i.Get(Out)
	require.True(t, ok)
	assert.Equal(t, "b", string(pkt))
}

func TestInterface_CloseWakesWriters(t *testing.T) {
	defer goleak.VerifyNone(t)

	i := NewInterface(1)
	require.NoError(t, i.Put([]byte("a"), In, false))

	done := make(chan error)
	go func() {
		done <- i.Put([]byte("b"), In, true)
	}()
	time.Sleep(10 * time.Millisecond)
	i.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrLinkClosed)
	case <-time.After(time.Second):
		t.Fatal("close did not wake the blocked writer")
	}

	// queued packets are still readable
	pkt, ok := i.Get(In)
	assert.True(t, ok)
	assert.Equal(t, "a", string(pkt))
	assert.ErrorIs(t, i.Put([]byte("c"), Out, false), ErrLinkClosed)
}

func TestDirection_String(t *testing.T) {
	assert.Equal(t, "in", In.String())
	assert.Equal(t, "out", Out.String())
}
