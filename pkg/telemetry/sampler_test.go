package telemetry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplerCollects(t *testing.T) {
	t.Parallel()

	src := &StaticSource{CPU: 42.0, GPU: 7.5}
	s := NewSampler(src, WithInterval(5*time.Millisecond))

	s.Start()
	time.Sleep(60 * time.Millisecond)
	s.Stop()

	samples := s.Samples()
	require.NotEmpty(t, samples)

	for _, sample := range samples {
		assert.Equal(t, 42.0, sample.CPUUtilPercent)
		assert.Equal(t, 7.5, sample.GPUUtilPercent)
		assert.False(t, sample.Timestamp.IsZero())
	}

	// ordered by capture time
	for i := 1; i < len(samples); i++ {
		assert.False(t, samples[i].Timestamp.Before(samples[i-1].Timestamp))
	}
}

func TestSamplerStopJoins(t *testing.T) {
	t.Parallel()

	s := NewSampler(&StaticSource{CPU: 1}, WithInterval(time.Millisecond))

	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Stop()

	// No sample may be appended after Stop returns.
	n := s.Len()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, s.Len())
}

func TestSamplerIdempotentLifecycle(t *testing.T) {
	t.Parallel()

	s := NewSampler(&StaticSource{}, WithInterval(time.Millisecond))

	// stop before start is a no-op
	s.Stop()

	s.Start()
	s.Start() // second start is a no-op
	time.Sleep(5 * time.Millisecond)
	s.Stop()
	s.Stop() // second stop is a no-op

	// restart works after a full stop
	before := s.Len()
	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Stop()
	assert.Greater(t, s.Len(), before)
}

func TestSamplerClear(t *testing.T) {
	t.Parallel()

	s := NewSampler(&StaticSource{CPU: 5}, WithInterval(time.Millisecond))
	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Stop()

	require.NotZero(t, s.Len())
	s.Clear()
	assert.Zero(t, s.Len())
}

func TestSamplerSnapshotIsolation(t *testing.T) {
	t.Parallel()

	s := NewSampler(&StaticSource{CPU: 5}, WithInterval(time.Millisecond))
	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Stop()

	snap := s.Samples()
	require.NotEmpty(t, snap)

	snap[0].CPUUtilPercent = -999
	assert.NotEqual(t, -999.0, s.Samples()[0].CPUUtilPercent)
}

func TestSamplerMaxSamplesCap(t *testing.T) {
	t.Parallel()

	s := NewSampler(&StaticSource{}, WithInterval(time.Millisecond), WithMaxSamples(3))
	s.Start()
	time.Sleep(30 * time.Millisecond)
	s.Stop()

	assert.LessOrEqual(t, s.Len(), 3)
}

func TestSamplerConcurrentReads(t *testing.T) {
	t.Parallel()

	s := NewSampler(&StaticSource{CPU: 1}, WithInterval(time.Millisecond))
	s.Start()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				_ = s.Samples()
			}
		}()
	}
	wg.Wait()
	s.Stop()
}

func TestCaptureSnapshotFallback(t *testing.T) {
	t.Parallel()

	snap := CaptureSnapshot(&StaticSource{CPU: 33, GPU: 11})
	assert.Equal(t, 33.0, snap.CPUPercent)
	assert.Equal(t, 11.0, snap.GPUPercent)
	assert.False(t, snap.Timestamp.IsZero())
}
