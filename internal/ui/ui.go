// Cooperative single-threaded controller loop. One tick: sample input
// (rate-limited), update navigation, render the active screen, evaluate
// refresh timers. Nothing here blocks; every wait is a timestamp
// comparison that skips the action until a later tick.
package ui

import (
	"context"
	"time"

	"github.com/juju/errors"
	"github.com/relogio-hw/relogio/hardware/input"
	"github.com/relogio-hw/relogio/hardware/lcd"
	"github.com/relogio-hw/relogio/helpers"
	"github.com/relogio-hw/relogio/internal/state"
	"github.com/relogio-hw/relogio/internal/weather"
	"github.com/temoto/atomic_clock"
)

type UI struct { //nolint:maligned
	g         *state.Global
	display   *lcd.TextDisplay
	nav       *Navigation
	refresher *weather.Refresher

	sampleEvery  time.Duration
	tickPause    time.Duration
	restartDelay time.Duration

	lastSample *atomic_clock.Clock
	lastRender [screenCount]*atomic_clock.Clock
	prevScreen Screen
	force      bool
	scroll     scrollState

	XXX_testHook func(Screen)
}

func (self *UI) Init(ctx context.Context) error {
	self.g = state.GetGlobal(ctx)
	conf := self.g.Config

	if self.g.Clock == nil {
		return errors.Errorf("code error ui.Init before clock init")
	}
	self.display = self.g.MustTextDisplay()
	self.nav = NewNavigation(helpers.IntSecondDefault(conf.UI.IdleHomeSec, 60*time.Second))
	self.sampleEvery = helpers.IntMillisecondDefault(conf.Hardware.Input.SampleMs, 150*time.Millisecond)
	self.tickPause = helpers.IntMillisecondDefault(conf.UI.TickMs, 50*time.Millisecond)
	self.restartDelay = time.Duration(conf.UI.RestartDelaySec) * time.Second
	self.lastSample = atomic_clock.New()
	for i := range self.lastRender {
		self.lastRender[i] = atomic_clock.New()
	}
	self.prevScreen = ScreenClock
	self.force = true

	if conf.Weather.Enable {
		client := weather.NewHTTPClient(conf.Weather)
		self.refresher = weather.NewRefresher(self.g.Log, client, self.g.Weather,
			int64(conf.Weather.RefreshSec), int64(conf.Weather.ForecastRefreshSec))
	}
	return nil
}

func (self *UI) Loop(ctx context.Context) {
	self.g.Alive.Add(1)
	defer self.g.Alive.Done()
	stopch := self.g.Alive.StopChan()
	for self.g.Alive.IsRunning() {
		self.Tick(ctx)
		// idle pacing only, all logic waits are inside Tick
		select {
		case <-time.After(self.tickPause):
		case <-stopch:
			return
		}
	}
}

// Tick runs one scheduler iteration. Exported for the dev harness and
// tests; production only calls it through Loop.
func (self *UI) Tick(ctx context.Context) {
	// keep the time authority fresh, escalate while time was never set
	if !self.g.Clock.Update() {
		self.g.Log.Infof("clock not set, trying all sources")
		if _, err := self.g.Clock.Synchronize(); err != nil {
			self.fatalNoTime(errors.Trace(err))
			return
		}
		self.g.Tele.State("time-synced", self.g.Clock.EpochSeconds())
		self.force = true
	}

	// input before navigation before render, per tick ordering contract
	if atomic_clock.Since(self.lastSample) >= self.sampleEvery {
		self.lastSample.SetNow()
		raw, err := self.g.Hardware.Input.ReadRaw()
		if err != nil {
			self.g.Log.Errorf("input err=%v", err)
		} else if b := input.Decode(raw); b != input.ButtonNone {
			self.g.Log.Debugf("input raw=%d button=%s", raw, b)
			if self.nav.Apply(b) {
				self.onNavChange()
			}
		}
	}
	if self.nav.CheckIdle() {
		self.g.Log.Debugf("idle timeout, back to %s", ScreenClock)
		self.onNavChange()
	}

	self.render()

	// refresh timers read the authoritative epoch; nothing to gate
	// before the first sync because epoch is still zero then
	if self.g.Clock.IsSynced() {
		self.refresher.Poll(self.g.Clock.EpochSeconds())
	}
}

// onNavChange: clear before next render so the previous screen's glyph
// layout does not bleed through, and drop the scroll position.
func (self *UI) onNavChange() {
	self.display.Clear()
	self.scroll = scrollState{}
	self.force = true
	self.g.Tele.State("screen/"+self.nav.Screen().String(), self.g.Clock.EpochSeconds())
}

func (self *UI) render() {
	scr := self.nav.Screen()
	last := self.lastRender[scr.index()]
	if !self.force && atomic_clock.Since(last) < scr.redrawEvery() {
		return
	}
	last.SetNow()

	switch scr {
	case ScreenTimeSource:
		self.renderTimeSource()
	case ScreenNetwork:
		self.renderNetwork()
	case ScreenClock:
		self.renderClock()
	case ScreenDate:
		self.renderDate()
	case ScreenWeather:
		self.renderWeather()
	case ScreenForecast:
		self.renderForecast()
	default:
		self.g.Log.Fatalf("unhandled screen=%d", scr)
	}

	self.prevScreen = scr
	self.force = false
	if self.XXX_testHook != nil {
		self.XXX_testHook(scr)
	}
}

// fatalNoTime is the single unconditionally fatal path: no configured
// time source answered. Show the operator message, pause, restart.
func (self *UI) fatalNoTime(err error) {
	self.g.Log.Error(err)
	self.g.Tele.State("no-time", 0)
	self.display.SetLines(self.g.Config.UI.MsgNoTime, "")
	select {
	case <-time.After(self.restartDelay):
	case <-self.g.Alive.StopChan():
	}
	self.g.Restart()
}
