package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/relogio-hw/relogio/hardware/input"
	"github.com/relogio-hw/relogio/hardware/lcd"
	"github.com/relogio-hw/relogio/internal/clock"
	"github.com/relogio-hw/relogio/internal/state"
	"github.com/relogio-hw/relogio/internal/weather"
	"github.com/relogio-hw/relogio/log2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptSource struct {
	samples []int32
}

func (s *scriptSource) String() string { return "script" }
func (s *scriptSource) ReadRaw() (int32, error) {
	if len(s.samples) == 0 {
		return input.NoPress, nil
	}
	raw := s.samples[0]
	s.samples = s.samples[1:]
	return raw, nil
}

type fixedSource struct {
	name  string
	epoch int64
	err   error
}

func (f *fixedSource) Name() string { return f.name }
func (f *fixedSource) Query() (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.epoch, nil
}

type env struct {
	ui        *UI
	g         *state.Global
	ctx       context.Context
	src       *scriptSource
	restarted int
}

func newTestEnv(t testing.TB, clockSources []clock.Source) *env {
	log := log2.NewTest(t, log2.LDebug)
	ctx, g := state.NewContext(log)
	e := &env{g: g, ctx: ctx, src: &scriptSource{}}
	g.Restart = func() { e.restarted++ }

	cfg := new(state.Config)
	cfg.Hardware.Input.SampleMs = 1
	cfg.UI.MsgNoTime = "no time source"
	g.Config = cfg

	g.Clock = clock.NewManager(log, clockSources, 0, time.Hour)
	g.Weather = new(weather.Cache)
	g.Hardware.Display = lcd.NewMockTextDisplay(&lcd.TextDisplayConfig{Width: 16})
	g.Hardware.Input = e.src

	e.ui = new(UI)
	require.NoError(t, e.ui.Init(ctx))
	return e
}

func goodSource() []clock.Source {
	return []clock.Source{&fixedSource{name: "good.example", epoch: 1700000000}}
}

func (e *env) press(raw int32) {
	e.src.samples = append(e.src.samples, raw)
	time.Sleep(2 * time.Millisecond) // satisfy the sampling rate limit
	e.ui.Tick(e.ctx)
}

func TestTickRendersClock(t *testing.T) {
	e := newTestEnv(t, goodSource())
	e.ui.Tick(e.ctx)

	st := e.g.Hardware.Display.State()
	require.Len(t, st.L1, 16)
	// lower colon dot is always lit on the clock face
	assert.Equal(t, byte(':'), st.L2[7])
	assert.True(t, e.g.Clock.IsSynced())
}

func TestTickNavigation(t *testing.T) {
	e := newTestEnv(t, goodSource())
	var rendered []Screen
	e.ui.XXX_testHook = func(s Screen) { rendered = append(rendered, s) }

	e.ui.Tick(e.ctx)
	e.press(700) // Left
	e.press(700) // Left
	assert.Equal(t, []Screen{ScreenClock, ScreenNetwork, ScreenTimeSource}, rendered)

	// switching screens never waits out the redraw cadence
	e.press(50) // Right
	assert.Equal(t, ScreenNetwork, rendered[len(rendered)-1])
}

func TestTickSelectDoesNothing(t *testing.T) {
	e := newTestEnv(t, goodSource())
	e.ui.Tick(e.ctx)
	e.press(950) // Select
	assert.Equal(t, ScreenClock, e.ui.nav.Screen())
}

func TestTickRedrawThrottle(t *testing.T) {
	e := newTestEnv(t, goodSource())
	renders := 0
	e.ui.XXX_testHook = func(Screen) { renders++ }

	// clock redraws at 1Hz: a burst of ticks draws once
	for i := 0; i < 10; i++ {
		e.ui.Tick(e.ctx)
	}
	assert.Equal(t, 1, renders)
}

func TestFatalNoTimeSource(t *testing.T) {
	bad := []clock.Source{
		&fixedSource{name: "b1", err: errors.New("unreachable")},
		&fixedSource{name: "b2", err: errors.New("unreachable")},
	}
	e := newTestEnv(t, bad)
	e.ui.Tick(e.ctx)

	assert.Equal(t, 1, e.restarted)
	st := e.g.Hardware.Display.State()
	assert.True(t, strings.HasPrefix(st.String(), "no time source"))
}

func TestWeatherScreenStaleData(t *testing.T) {
	e := newTestEnv(t, goodSource())
	e.g.Weather.SetCurrent(weather.Snapshot{
		Description: "scattered clouds",
		Temperature: 21, Humidity: 55, Pressure: 1013,
		CapturedAt: 1699990000,
	})
	e.ui.nav.screen = ScreenWeather
	e.ui.Tick(e.ctx)

	st := e.g.Hardware.Display.State()
	assert.Equal(t, "scattered clouds", string(st.L1))
	assert.Equal(t, "21C 55% 1013hPa", strings.TrimRight(string(st.L2), " "))
}

func TestForecastPaging(t *testing.T) {
	e := newTestEnv(t, goodSource())
	entries := make([]weather.ForecastEntry, weather.ForecastLen)
	for i := range entries {
		entries[i].Description = "rain"
		entries[i].Temperature = float64(10 + i)
	}
	e.g.Weather.SetForecast(entries)
	e.ui.nav.screen = ScreenForecast

	e.ui.Tick(e.ctx)
	st := e.g.Hardware.Display.State()
	assert.Contains(t, string(st.L1), "P1 rain")

	// page wraps modulo the resident forecast length
	e.ui.nav.page = weather.ForecastLen + 2
	e.ui.onNavChange()
	e.ui.Tick(e.ctx)
	st = e.g.Hardware.Display.State()
	assert.Contains(t, string(st.L1), "P3 rain")
	assert.Contains(t, string(st.L2), "12C")
}

func TestMarqueeAdvancesPerRender(t *testing.T) {
	e := newTestEnv(t, goodSource())
	long := "a very long weather description scrolling by"
	first := string(e.ui.marqueeLine(long))
	second := string(e.ui.marqueeLine(long))
	assert.NotEqual(t, first, second)
	assert.Len(t, second, 16)
	// changing the text resets the window
	reset := string(e.ui.marqueeLine("another long description rolling past"))
	assert.Equal(t, "another long des", reset)
}
