package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTriggerCoalescesBurst(t *testing.T) {
	var calls atomic.Int32
	d := New(30*time.Millisecond, func() { calls.Add(1) })

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Pending())
}

func TestTriggerResetsTimer(t *testing.T) {
	var calls atomic.Int32
	d := New(50*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	time.Sleep(30 * time.Millisecond)
	d.Trigger()
	time.Sleep(30 * time.Millisecond)

	// 60ms after the first trigger but only 30ms after the reset.
	assert.Equal(t, int32(0), calls.Load())
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestCancel(t *testing.T) {
	var calls atomic.Int32
	d := New(20*time.Millisecond, func() { calls.Add(1) })

	assert.False(t, d.Cancel())
	d.Trigger()
	assert.True(t, d.Pending())
	assert.True(t, d.Cancel())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestFlushRunsPendingCallNow(t *testing.T) {
	var calls atomic.Int32
	d := New(time.Hour, func() { calls.Add(1) })

	d.Flush()
	assert.Equal(t, int32(0), calls.Load())

	d.Trigger()
	d.Flush()
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Pending())
}

func TestStopIgnoresLaterTriggers(t *testing.T) {
	var calls atomic.Int32
	d := New(10*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Stop()
	d.Trigger()

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, d.Pending())
}
