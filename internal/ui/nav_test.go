package ui

import (
	"testing"
	"time"

	"github.com/relogio-hw/relogio/hardware/input"
	"github.com/stretchr/testify/assert"
)

func TestNavigationRing(t *testing.T) {
	t.Parallel()

	nav := NewNavigation(time.Minute)
	assert.Equal(t, ScreenClock, nav.Screen())

	// Right walks up to the maximum then wraps to the minimum
	for _, expect := range []Screen{ScreenDate, ScreenWeather, ScreenForecast} {
		assert.True(t, nav.Apply(input.ButtonRight))
		assert.Equal(t, expect, nav.Screen())
	}
	assert.True(t, nav.Apply(input.ButtonRight))
	assert.Equal(t, ScreenTimeSource, nav.Screen())

	// and Left from the minimum wraps back to the maximum
	assert.True(t, nav.Apply(input.ButtonLeft))
	assert.Equal(t, ScreenForecast, nav.Screen())
}

func TestNavigationPageUnbounded(t *testing.T) {
	t.Parallel()

	nav := NewNavigation(time.Minute)
	for i := 0; i < 20; i++ {
		nav.Apply(input.ButtonUp)
	}
	assert.Equal(t, 20, nav.Page())
	for i := 0; i < 25; i++ {
		nav.Apply(input.ButtonDown)
	}
	assert.Equal(t, -5, nav.Page())
}

func TestNavigationSelectNoop(t *testing.T) {
	t.Parallel()

	nav := NewNavigation(time.Minute)
	assert.False(t, nav.Apply(input.ButtonSelect))
	assert.False(t, nav.Apply(input.ButtonNone))
	assert.Equal(t, ScreenClock, nav.Screen())
	assert.Equal(t, 0, nav.Page())
}

func TestNavigationIdleTimeout(t *testing.T) {
	t.Parallel()

	nav := NewNavigation(10 * time.Millisecond)
	nav.Apply(input.ButtonRight)
	nav.Apply(input.ButtonUp)
	assert.Equal(t, ScreenDate, nav.Screen())

	// inside the window nothing happens
	assert.False(t, nav.CheckIdle())

	time.Sleep(25 * time.Millisecond)
	assert.True(t, nav.CheckIdle())
	assert.Equal(t, ScreenClock, nav.Screen())
	assert.Equal(t, 0, nav.Page())
	// transition fires exactly once
	assert.False(t, nav.CheckIdle())
}

func TestNavigationIdleOnHomeIsQuiet(t *testing.T) {
	t.Parallel()

	nav := NewNavigation(time.Nanosecond)
	time.Sleep(time.Millisecond)
	assert.False(t, nav.CheckIdle())
}
