package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestInterruptHandler(t *testing.T) {
	out := &syncBuffer{}
	h := NewInterruptHandler(out, "Analyse afgebroken")

	ctx := h.HandleInterrupts(context.Background())
	assert.False(t, h.WasInterrupted())

	h.interrupt()
	h.interrupt()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled")
	}

	require.True(t, h.WasInterrupted())
	assert.Equal(t, 1, bytes.Count([]byte(out.String()), []byte("Analyse afgebroken")))
}

func TestNewInterruptHandlerDefaultsWriter(t *testing.T) {
	h := NewInterruptHandler(nil, "stop")
	assert.NotNil(t, h.writer)
}
