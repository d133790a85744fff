package resource

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(50))
	require.NoError(t, c.AcquireMemory(40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	err := c.AcquireMemory(20)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Contains(t, err.Error(), "need 20 bytes")
	assert.Equal(t, int64(90), c.MemoryUsage())

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	require.NoError(t, c.AcquireMemory(20))
	assert.Equal(t, int64(60), c.MemoryUsage())
	assert.Equal(t, int64(100), c.MemoryLimit())

	// Non-positive amounts are no-ops.
	require.NoError(t, c.AcquireMemory(0))
	c.ReleaseMemory(-5)
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquireMemory(1<<40))
	assert.Equal(t, int64(1<<40), c.MemoryUsage())
	assert.Equal(t, int64(0), c.MemoryLimit())
	c.ReleaseMemory(1 << 40)
	assert.Zero(t, c.MemoryUsage())
}

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})
	assert.Equal(t, 2, c.Workers())

	ctx := context.Background()
	require.NoError(t, c.AcquireWorker(ctx))
	require.True(t, c.TryAcquireWorker())
	assert.False(t, c.TryAcquireWorker())

	ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireWorker(ctx), context.DeadlineExceeded)

	c.ReleaseWorker()
	assert.True(t, c.TryAcquireWorker())
}

func TestController_WorkersDefault(t *testing.T) {
	c := NewController(Config{})
	assert.GreaterOrEqual(t, c.Workers(), 1)
	assert.Equal(t, int64(c.Workers()), c.Config().MaxWorkers)
}

func TestController_ConcurrentWorkers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 3})

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, c.AcquireWorker(context.Background()))
			defer c.ReleaseWorker()

			mu.Lock()
			active++
			maxSeen = max(maxSeen, active)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, maxSeen, 3)
}

func TestController_NilSafe(t *testing.T) {
	var c *Controller

	require.NoError(t, c.AcquireMemory(1))
	c.ReleaseMemory(1)
	assert.Zero(t, c.MemoryUsage())
	assert.Zero(t, c.MemoryLimit())
	assert.Equal(t, 1, c.Workers())
	require.NoError(t, c.AcquireWorker(context.Background()))
	assert.True(t, c.TryAcquireWorker())
	c.ReleaseWorker()
	require.NoError(t, c.AcquireIO(context.Background(), 1<<30))
	assert.Equal(t, Config{}, c.Config())
}

func TestController_IOLargerThanBurst(t *testing.T) {
	// 1 MiB/s with a 1 MiB burst: the first MiB is free, a request above the
	// burst must still be admitted rather than rejected by the limiter.
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.AcquireIO(ctx, (1<<20)+1024))
}

func TestController_IOCanceled(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 10})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, c.AcquireIO(ctx, 5))
}

func TestReaderWriter(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	ctx := context.Background()
	payload := bytes.Repeat([]byte{0xA5}, 4096)

	var sink bytes.Buffer
	n, err := NewWriter(ctx, &sink, c).Write(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)

	got, err := io.ReadAll(NewReader(ctx, &sink, c))
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	got, err = io.ReadAll(NewReader(ctx, bytes.NewReader(payload), nil))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}
